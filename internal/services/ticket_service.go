package services

import (
	"eventrest/internal/status"
	"eventrest/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// TicketService is read-only: tickets are issued by the order engine and
// never mutated afterwards. Validity is derived from the parent order.
type TicketService struct {
	app core.App
}

func NewTicketService(app core.App) *TicketService {
	return &TicketService{app: app}
}

// TicketSearch is the admin filter set. TicketNumber, when set, short
// circuits to an exact single-row lookup.
type TicketSearch struct {
	TicketNumber string
	UserID       string
	EventID      string
	OrderID      string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	SortAsc      bool
	Limit        int
	Offset       int
}

// ListForUser returns the user's tickets, newest first.
func (s *TicketService) ListForUser(userID string, limit, offset int) ([]*models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		models.CollectionTickets,
		"user = {:user}",
		"-created",
		limit,
		offset,
		dbx.Params{"user": userID},
	)
	if err != nil {
		return nil, err
	}
	return s.ticketsFromRecords(records)
}

// Get returns one ticket; admins may read any, users only their own.
func (s *TicketService) Get(ticketID string, actor models.Actor) (*models.Ticket, error) {
	rec, err := s.app.FindRecordById(models.CollectionTickets, ticketID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	if !actor.CanAccessOrder(rec.GetString("user")) {
		return nil, status.ErrForbidden
	}
	return s.ticketFromRecord(rec)
}

// FindByNumber resolves a ticket by its opaque number (admin).
func (s *TicketService) FindByNumber(number string) (*models.Ticket, error) {
	rec, err := s.app.FindFirstRecordByData(models.CollectionTickets, "ticket_number", number)
	if err != nil {
		return nil, status.ErrNotFound
	}
	return s.ticketFromRecord(rec)
}

// Search runs the admin filter query.
func (s *TicketService) Search(params TicketSearch) ([]*models.Ticket, error) {
	query := s.app.RecordQuery(models.CollectionTickets)

	if params.UserID != "" {
		query.AndWhere(dbx.HashExp{"user": params.UserID})
	}
	if params.EventID != "" {
		query.AndWhere(dbx.HashExp{"event": params.EventID})
	}
	if params.OrderID != "" {
		query.AndWhere(dbx.HashExp{"order": params.OrderID})
	}
	if params.MinPrice != nil {
		query.AndWhere(dbx.NewExp("CAST(price AS REAL) >= {:min}", dbx.Params{"min": params.MinPrice.InexactFloat64()}))
	}
	if params.MaxPrice != nil {
		query.AndWhere(dbx.NewExp("CAST(price AS REAL) <= {:max}", dbx.Params{"max": params.MaxPrice.InexactFloat64()}))
	}

	direction := "created DESC"
	if params.SortAsc {
		direction = "created ASC"
	}
	query.OrderBy(direction)

	if params.Limit > 0 {
		query.Limit(int64(params.Limit)).Offset(int64(params.Offset))
	}

	records := []*core.Record{}
	if err := query.All(&records); err != nil {
		return nil, err
	}
	return s.ticketsFromRecords(records)
}

func (s *TicketService) ticketsFromRecords(records []*core.Record) ([]*models.Ticket, error) {
	tickets := make([]*models.Ticket, 0, len(records))
	for _, rec := range records {
		t, err := s.ticketFromRecord(rec)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (s *TicketService) ticketFromRecord(rec *core.Record) (*models.Ticket, error) {
	t := models.TicketFromRecord(rec)
	order, err := s.app.FindRecordById(models.CollectionOrders, t.OrderID)
	if err != nil {
		// Orphaned row: the owning order is gone, treat as invalid.
		t.Valid = false
		return t, nil
	}
	t.MarkValidity(models.OrderStatus(order.GetString("status")))
	return t, nil
}
