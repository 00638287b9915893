package services

import (
	"time"

	"eventrest/internal/status"
	"eventrest/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"
)

// BatchService owns the administrative ticket-batch lifecycle and the
// read-side catalog. Schedule validation happens against the event's sibling
// batches before any write; the catalog is a single filter predicate per
// requested state, evaluated in SQL without locking.
type BatchService struct {
	app core.App
}

func NewBatchService(app core.App) *BatchService {
	return &BatchService{app: app}
}

// BatchParams carries create/update input. On update, nil fields keep the
// stored value; the schedule conflict test always runs against the resolved
// bounds.
type BatchParams struct {
	AvailableTickets *int
	Price            *decimal.Decimal
	SaleStart        *time.Time
	SaleEnd          *time.Time
}

var errMustBeNonNegative = validation.NewError("validation_min", "must be no less than 0")

func (p BatchParams) validateForCreate() error {
	if err := (validation.Errors{
		"available_tickets": validation.Validate(p.AvailableTickets, validation.NotNil),
		"price":             validation.Validate(p.Price, validation.NotNil),
		"sale_start":        validation.Validate(p.SaleStart, validation.NotNil),
		"sale_end":          validation.Validate(p.SaleEnd, validation.NotNil),
	}).Filter(); err != nil {
		return err
	}
	return p.validateCommon()
}

func (p BatchParams) validateCommon() error {
	errs := validation.Errors{}
	if p.AvailableTickets != nil && *p.AvailableTickets < 0 {
		errs["available_tickets"] = errMustBeNonNegative
	}
	if p.Price != nil && p.Price.IsNegative() {
		errs["price"] = errMustBeNonNegative
	}
	return errs.Filter()
}

// Get returns a single batch.
func (s *BatchService) Get(batchID string) (*models.TicketBatch, error) {
	rec, err := s.app.FindRecordById(models.CollectionTicketBatches, batchID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	return models.TicketBatchFromRecord(rec), nil
}

// Catalog lists an event's batches matching a single state predicate,
// ordered by sale_start.
func (s *BatchService) Catalog(eventID string, state models.BatchState, descending bool, now time.Time) ([]*models.TicketBatch, error) {
	query := s.app.RecordQuery(models.CollectionTicketBatches).
		AndWhere(dbx.HashExp{"event": eventID})

	if expr := catalogExpr(state, now); expr != nil {
		query.AndWhere(expr)
	}

	direction := "sale_start ASC"
	if descending {
		direction = "sale_start DESC"
	}

	records := []*core.Record{}
	if err := query.OrderBy(direction).All(&records); err != nil {
		return nil, err
	}

	batches := make([]*models.TicketBatch, 0, len(records))
	for _, rec := range records {
		batches = append(batches, models.TicketBatchFromRecord(rec))
	}
	return batches, nil
}

// catalogExpr builds the SQL predicate for one batch state. Dates are stored
// as UTC strings, so lexicographic comparison is chronological.
func catalogExpr(state models.BatchState, now time.Time) dbx.Expression {
	nowStr := nowParam(now)
	params := dbx.Params{"now": nowStr}

	switch state {
	case models.BatchStateAvailable:
		return dbx.NewExp("available_tickets > 0 AND sale_start <= {:now} AND sale_end >= {:now}", params)
	case models.BatchStateSoldOut:
		return dbx.NewExp("available_tickets = 0 AND sale_start <= {:now} AND sale_end >= {:now}", params)
	case models.BatchStateExpired:
		return dbx.NewExp("sale_end < {:now}", params)
	case models.BatchStateInactive:
		return dbx.NewExp("sale_start > {:now}", params)
	default:
		return nil
	}
}

func nowParam(now time.Time) string {
	dt, _ := types.ParseDateTime(now.UTC())
	return dt.String()
}

// Create validates and stores a new batch for the event.
func (s *BatchService) Create(eventID string, params BatchParams) (*models.TicketBatch, error) {
	event, err := s.app.FindRecordById(models.CollectionEvents, eventID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	if err := params.validateForCreate(); err != nil {
		return nil, err
	}

	window := SaleWindow{Start: *params.SaleStart, End: *params.SaleEnd}
	siblings, err := s.siblingWindows(eventID)
	if err != nil {
		return nil, err
	}
	if err := ValidateSchedule(event.GetDateTime("date").Time(), window, siblings, ""); err != nil {
		return nil, err
	}

	col, err := s.app.FindCollectionByNameOrId(models.CollectionTicketBatches)
	if err != nil {
		return nil, err
	}
	rec := core.NewRecord(col)
	rec.Set("event", eventID)
	rec.Set("available_tickets", *params.AvailableTickets)
	rec.Set("price", params.Price.String())
	rec.Set("sale_start", params.SaleStart.UTC())
	rec.Set("sale_end", params.SaleEnd.UTC())
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	return models.TicketBatchFromRecord(rec), nil
}

// Update applies a partial admin edit. Omitted bounds resolve to the batch's
// stored bounds before the schedule conflict test.
func (s *BatchService) Update(batchID string, params BatchParams) (*models.TicketBatch, error) {
	rec, err := s.app.FindRecordById(models.CollectionTicketBatches, batchID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	event, err := s.app.FindRecordById(models.CollectionEvents, rec.GetString("event"))
	if err != nil {
		return nil, status.ErrNotFound
	}
	if err := params.validateCommon(); err != nil {
		return nil, err
	}

	window := SaleWindow{
		Start: rec.GetDateTime("sale_start").Time(),
		End:   rec.GetDateTime("sale_end").Time(),
	}
	if params.SaleStart != nil {
		window.Start = params.SaleStart.UTC()
	}
	if params.SaleEnd != nil {
		window.End = params.SaleEnd.UTC()
	}

	siblings, err := s.siblingWindows(rec.GetString("event"))
	if err != nil {
		return nil, err
	}
	if err := ValidateSchedule(event.GetDateTime("date").Time(), window, siblings, batchID); err != nil {
		return nil, err
	}

	if params.AvailableTickets != nil {
		rec.Set("available_tickets", *params.AvailableTickets)
	}
	if params.Price != nil {
		rec.Set("price", params.Price.String())
	}
	if params.SaleStart != nil {
		rec.Set("sale_start", params.SaleStart.UTC())
	}
	if params.SaleEnd != nil {
		rec.Set("sale_end", params.SaleEnd.UTC())
	}
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	return models.TicketBatchFromRecord(rec), nil
}

// Delete removes a batch unless live (non-cancelled) orders still reference
// it. Cancelled orders do not block deletion; their tickets are already
// invalid through the order status.
func (s *BatchService) Delete(batchID string) error {
	rec, err := s.app.FindRecordById(models.CollectionTicketBatches, batchID)
	if err != nil {
		return status.ErrNotFound
	}

	live, err := s.app.FindRecordsByFilter(
		models.CollectionOrders,
		"ticket_batch = {:batch} && status != 'cancelled'",
		"",
		1,
		0,
		dbx.Params{"batch": batchID},
	)
	if err != nil {
		return err
	}
	if len(live) > 0 {
		return status.ErrBatchHasOrders
	}

	return s.app.Delete(rec)
}

func (s *BatchService) siblingWindows(eventID string) ([]BatchWindow, error) {
	records, err := s.app.FindAllRecords(
		models.CollectionTicketBatches,
		dbx.HashExp{"event": eventID},
	)
	if err != nil {
		return nil, err
	}
	windows := make([]BatchWindow, 0, len(records))
	for _, rec := range records {
		windows = append(windows, BatchWindow{
			ID:    rec.Id,
			Start: rec.GetDateTime("sale_start").Time(),
			End:   rec.GetDateTime("sale_end").Time(),
		})
	}
	return windows, nil
}
