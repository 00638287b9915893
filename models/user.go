package models

import (
	"github.com/pocketbase/pocketbase/core"
)

const CollectionUsers = "users"

// Actor is the authenticated principal a request acts as. It is the only
// identity information the services need; token decoding stays in the
// PocketBase auth layer.
type Actor struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"is_admin"`
}

func ActorFromRecord(r *core.Record) Actor {
	if r == nil {
		return Actor{}
	}
	return Actor{
		ID:      r.Id,
		IsAdmin: r.GetBool("is_admin"),
	}
}

// CanAccessOrder reports whether the actor may view or mutate an order owned
// by userID. Authorization is always decided before any status or payment
// validation so a non-owner never learns an order's state.
func (a Actor) CanAccessOrder(userID string) bool {
	return a.IsAdmin || a.ID == userID
}
