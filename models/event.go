package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
)

const CollectionEvents = "events"

// EventCategories is the closed category set an event may belong to.
var EventCategories = []string{
	"music",
	"theater",
	"sports",
	"comedy",
	"conference",
	"festival",
	"exhibition",
	"other",
}

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Place       string    `json:"place"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

func EventFromRecord(r *core.Record) *Event {
	return &Event{
		ID:          r.Id,
		Name:        r.GetString("name"),
		Description: r.GetString("description"),
		Place:       r.GetString("place"),
		Date:        r.GetDateTime("date").Time(),
		Category:    r.GetString("category"),
		Created:     r.GetDateTime("created").Time(),
		Updated:     r.GetDateTime("updated").Time(),
	}
}

func (e *Event) Past(now time.Time) bool {
	return !e.Date.After(now)
}

func IsValidCategory(category string) bool {
	for _, c := range EventCategories {
		if c == category {
			return true
		}
	}
	return false
}
