package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

const CollectionTickets = "tickets"

// Ticket is a fungible admission unit issued at order creation. Rows are
// never deleted on cancellation; validity is derived from the parent order's
// status.
type Ticket struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	UserID       string          `json:"user_id"`
	EventID      string          `json:"event_id"`
	Price        decimal.Decimal `json:"price"`
	TicketNumber string          `json:"ticket_number"`
	Valid        bool            `json:"valid"`
	Created      time.Time       `json:"created"`
}

func TicketFromRecord(r *core.Record) *Ticket {
	price, _ := decimal.NewFromString(r.GetString("price"))
	return &Ticket{
		ID:           r.Id,
		OrderID:      r.GetString("order"),
		UserID:       r.GetString("user"),
		EventID:      r.GetString("event"),
		Price:        price,
		TicketNumber: r.GetString("ticket_number"),
		Created:      r.GetDateTime("created").Time(),
	}
}

// MarkValidity derives the valid flag from the owning order's status.
func (t *Ticket) MarkValidity(orderStatus OrderStatus) {
	t.Valid = orderStatus != OrderCancelled
}
