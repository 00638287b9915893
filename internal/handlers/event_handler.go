package handlers

import (
	"net/http"
	"time"

	"eventrest/config"
	"eventrest/internal/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	events *services.EventService
	cfg    *config.Config
}

func NewEventHandler(events *services.EventService, cfg *config.Config) *EventHandler {
	return &EventHandler{events: events, cfg: cfg}
}

// List - public event listing with category/upcoming/past filters
func (h *EventHandler) List(e *core.RequestEvent) error {
	q := e.Request.URL.Query()
	limit, offset := pagination(e, h.cfg)

	filters := services.EventFilters{
		Category: q.Get("category"),
		Upcoming: q.Get("upcoming") == "true",
		Past:     q.Get("past") == "true",
		Limit:    limit,
		Offset:   offset,
	}

	events, err := h.events.List(e.Request.Context(), filters)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": events})
}

// Get - public event details
func (h *EventHandler) Get(e *core.RequestEvent) error {
	event, err := h.events.Get(e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": event})
}

type eventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Place       *string `json:"place"`
	Date        *string `json:"date"`
	Category    *string `json:"category"`
}

func (r eventRequest) params() (services.EventParams, error) {
	params := services.EventParams{
		Name:        r.Name,
		Description: r.Description,
		Place:       r.Place,
		Category:    r.Category,
	}
	if r.Date != nil {
		date, err := time.Parse(time.RFC3339, *r.Date)
		if err != nil {
			return params, err
		}
		params.Date = &date
	}
	return params, nil
}

// Create - admin only
func (h *EventHandler) Create(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	var req eventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	params, err := req.params()
	if err != nil {
		return apis.NewBadRequestError("Invalid date format", err)
	}

	event, err := h.events.Create(e.Request.Context(), params)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, map[string]any{"data": event})
}

// Update - admin only, partial
func (h *EventHandler) Update(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	var req eventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	params, err := req.params()
	if err != nil {
		return apis.NewBadRequestError("Invalid date format", err)
	}

	event, err := h.events.Update(e.Request.Context(), e.Request.PathValue("id"), params)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": event})
}

// Delete - admin only, cascades to batches and tickets
func (h *EventHandler) Delete(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	if err := h.events.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Event deleted"})
}
