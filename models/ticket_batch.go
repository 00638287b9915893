package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

const CollectionTicketBatches = "ticket_batches"

// BatchState is a read-side classification of a batch relative to a point in
// time. States are filter predicates, not stored fields, and are not disjoint
// for pathological rows (zero stock past its window matches only "expired"
// because the sold-out predicate includes the window test).
type BatchState string

const (
	BatchStateAll       BatchState = "all"
	BatchStateAvailable BatchState = "available"
	BatchStateSoldOut   BatchState = "sold_out"
	BatchStateExpired   BatchState = "expired"
	BatchStateInactive  BatchState = "inactive"
)

// ParseBatchState normalizes a state query param, defaulting to "all".
func ParseBatchState(s string) BatchState {
	switch BatchState(s) {
	case BatchStateAvailable, BatchStateSoldOut, BatchStateExpired, BatchStateInactive:
		return BatchState(s)
	default:
		return BatchStateAll
	}
}

type TicketBatch struct {
	ID               string          `json:"id"`
	EventID          string          `json:"event_id"`
	AvailableTickets int             `json:"available_tickets"`
	Price            decimal.Decimal `json:"price"`
	SaleStart        time.Time       `json:"sale_start"`
	SaleEnd          time.Time       `json:"sale_end"`
	Created          time.Time       `json:"created"`
	Updated          time.Time       `json:"updated"`
}

func TicketBatchFromRecord(r *core.Record) *TicketBatch {
	price, _ := decimal.NewFromString(r.GetString("price"))
	return &TicketBatch{
		ID:               r.Id,
		EventID:          r.GetString("event"),
		AvailableTickets: r.GetInt("available_tickets"),
		Price:            price,
		SaleStart:        r.GetDateTime("sale_start").Time(),
		SaleEnd:          r.GetDateTime("sale_end").Time(),
		Created:          r.GetDateTime("created").Time(),
		Updated:          r.GetDateTime("updated").Time(),
	}
}

// OnSale reports whether now falls inside the closed sales window. A missing
// bound means the batch is never on sale.
func (b *TicketBatch) OnSale(now time.Time) bool {
	if b.SaleStart.IsZero() || b.SaleEnd.IsZero() {
		return false
	}
	return !now.Before(b.SaleStart) && !now.After(b.SaleEnd)
}

// MatchesState applies the classification predicate for a single state.
func (b *TicketBatch) MatchesState(state BatchState, now time.Time) bool {
	switch state {
	case BatchStateAvailable:
		return b.AvailableTickets > 0 && b.OnSale(now)
	case BatchStateSoldOut:
		return b.AvailableTickets == 0 && b.OnSale(now)
	case BatchStateExpired:
		return !b.SaleEnd.IsZero() && b.SaleEnd.Before(now)
	case BatchStateInactive:
		return !b.SaleStart.IsZero() && b.SaleStart.After(now)
	default:
		return true
	}
}

// WindowsOverlap is the closed-interval overlap test used for schedule
// conflicts: [aStart,aEnd] and [bStart,bEnd] overlap unless one ends strictly
// before the other starts. Touching boundaries count as overlap.
func WindowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}
