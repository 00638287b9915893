package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

const CollectionOrders = "orders"

// OrderStatus is a closed enumeration. The only legal transitions are
// pending -> paid and pending -> cancelled; both targets are terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderCancelled
}

// CanTransition reports whether s -> to is a legal transition.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s != OrderPending {
		return false
	}
	return to == OrderPaid || to == OrderCancelled
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	TicketBatchID string          `json:"ticket_batch_id"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        OrderStatus     `json:"status"`
	Created       time.Time       `json:"created"`
	Updated       time.Time       `json:"updated"`

	// Optional expansions, populated by the services for responses.
	Tickets     []*Ticket    `json:"tickets,omitempty"`
	TicketBatch *TicketBatch `json:"ticket_batch,omitempty"`
}

func OrderFromRecord(r *core.Record) *Order {
	total, _ := decimal.NewFromString(r.GetString("total_price"))
	return &Order{
		ID:            r.Id,
		UserID:        r.GetString("user"),
		TicketBatchID: r.GetString("ticket_batch"),
		Quantity:      r.GetInt("quantity"),
		TotalPrice:    total,
		Status:        OrderStatus(r.GetString("status")),
		Created:       r.GetDateTime("created").Time(),
		Updated:       r.GetDateTime("updated").Time(),
	}
}
