package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"eventrest/internal/status"
	"eventrest/models"
	"eventrest/monitoring"
	"eventrest/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// EventService owns event CRUD and the cached public listing. The Redis
// cache is read-through with pattern invalidation on admin writes; cache
// traffic goes through a circuit breaker so a Redis outage degrades to
// direct database reads instead of failing the listing.
type EventService struct {
	app     core.App
	redis   *redis.Client
	breaker *utils.CircuitBreaker
	ttl     time.Duration
}

func NewEventService(app core.App, redisClient *redis.Client, ttl time.Duration) *EventService {
	return &EventService{
		app:     app,
		redis:   redisClient,
		breaker: utils.NewCircuitBreaker("events-cache"),
		ttl:     ttl,
	}
}

// EventFilters narrows the public listing.
type EventFilters struct {
	Category string
	Upcoming bool
	Past     bool
	Limit    int
	Offset   int
}

// EventParams carries admin create/update input. Nil fields keep the stored
// value on update.
type EventParams struct {
	Name        *string
	Description *string
	Place       *string
	Date        *time.Time
	Category    *string
}

func (p EventParams) validate(forCreate bool) error {
	errs := validation.Errors{}
	if forCreate {
		errs["name"] = validation.Validate(p.Name, validation.Required)
		errs["description"] = validation.Validate(p.Description, validation.Required)
		errs["place"] = validation.Validate(p.Place, validation.Required)
		errs["date"] = validation.Validate(p.Date, validation.Required)
		errs["category"] = validation.Validate(p.Category, validation.Required)
	}
	if p.Category != nil && !models.IsValidCategory(*p.Category) {
		errs["category"] = validation.NewError("validation_in_invalid", "must be a valid category")
	}
	return errs.Filter()
}

// List returns events matching the filters, via the cache when possible.
func (s *EventService) List(ctx context.Context, filters EventFilters) ([]*models.Event, error) {
	key := s.cacheKey(filters)

	var cached string
	err := s.breaker.Do(func() error {
		var err error
		cached, err = s.redis.Get(ctx, key).Result()
		return err
	})
	if err == nil {
		events := []*models.Event{}
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			monitoring.TrackEventsCache("hit")
			return events, nil
		}
	}
	monitoring.TrackEventsCache("miss")

	events, err := s.queryEvents(filters)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(events); err == nil {
		cacheErr := s.breaker.Do(func() error {
			return s.redis.Set(ctx, key, payload, s.ttl).Err()
		})
		if cacheErr != nil {
			slog.Warn("events cache write skipped", "key", key, "error", cacheErr)
		}
	}

	return events, nil
}

func (s *EventService) queryEvents(filters EventFilters) ([]*models.Event, error) {
	query := s.app.RecordQuery(models.CollectionEvents)

	if filters.Category != "" {
		query.AndWhere(dbx.HashExp{"category": filters.Category})
	}

	now := nowParam(time.Now())
	switch {
	case filters.Upcoming:
		query.AndWhere(dbx.NewExp("date >= {:now}", dbx.Params{"now": now})).
			OrderBy("date ASC")
	case filters.Past:
		query.AndWhere(dbx.NewExp("date < {:now}", dbx.Params{"now": now})).
			OrderBy("date DESC")
	default:
		query.OrderBy("created DESC")
	}

	if filters.Limit > 0 {
		query.Limit(int64(filters.Limit)).Offset(int64(filters.Offset))
	}

	records := []*core.Record{}
	if err := query.All(&records); err != nil {
		return nil, err
	}

	events := make([]*models.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, models.EventFromRecord(rec))
	}
	return events, nil
}

// Get returns one event.
func (s *EventService) Get(eventID string) (*models.Event, error) {
	rec, err := s.app.FindRecordById(models.CollectionEvents, eventID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	return models.EventFromRecord(rec), nil
}

// Create stores a new event and drops the listing cache.
func (s *EventService) Create(ctx context.Context, params EventParams) (*models.Event, error) {
	if err := params.validate(true); err != nil {
		return nil, err
	}

	col, err := s.app.FindCollectionByNameOrId(models.CollectionEvents)
	if err != nil {
		return nil, err
	}
	rec := core.NewRecord(col)
	rec.Set("name", *params.Name)
	rec.Set("description", *params.Description)
	rec.Set("place", *params.Place)
	rec.Set("date", params.Date.UTC())
	rec.Set("category", *params.Category)
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx)
	return models.EventFromRecord(rec), nil
}

// Update applies a partial admin edit and drops the listing cache.
func (s *EventService) Update(ctx context.Context, eventID string, params EventParams) (*models.Event, error) {
	rec, err := s.app.FindRecordById(models.CollectionEvents, eventID)
	if err != nil {
		return nil, status.ErrNotFound
	}
	if err := params.validate(false); err != nil {
		return nil, err
	}

	if params.Name != nil {
		rec.Set("name", *params.Name)
	}
	if params.Description != nil {
		rec.Set("description", *params.Description)
	}
	if params.Place != nil {
		rec.Set("place", *params.Place)
	}
	if params.Date != nil {
		rec.Set("date", params.Date.UTC())
	}
	if params.Category != nil {
		rec.Set("category", *params.Category)
	}
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx)
	return models.EventFromRecord(rec), nil
}

// Delete removes an event; batches and tickets cascade through the
// collection relations.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	rec, err := s.app.FindRecordById(models.CollectionEvents, eventID)
	if err != nil {
		return status.ErrNotFound
	}
	if err := s.app.Delete(rec); err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}

// InvalidateCache drops every cached events listing.
func (s *EventService) InvalidateCache(ctx context.Context) {
	err := s.breaker.Do(func() error {
		keys, err := s.redis.Keys(ctx, "events:*").Result()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return s.redis.Del(ctx, keys...).Err()
	})
	if err != nil {
		slog.Error("failed to invalidate events cache", "error", err)
	}
}

func (s *EventService) cacheKey(filters EventFilters) string {
	return fmt.Sprintf("events:%s:%t:%t:%d:%d",
		filters.Category, filters.Upcoming, filters.Past, filters.Limit, filters.Offset)
}
