package handlers

import (
	"net/http"
	"time"

	"eventrest/internal/services"
	"eventrest/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type BatchHandler struct {
	batches *services.BatchService
}

func NewBatchHandler(batches *services.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// ListForEvent - public catalog with state + order params
func (h *BatchHandler) ListForEvent(e *core.RequestEvent) error {
	q := e.Request.URL.Query()

	state := models.ParseBatchState(q.Get("state"))
	descending := q.Get("order") == "desc"

	batches, err := h.batches.Catalog(e.Request.PathValue("eventId"), state, descending, time.Now().UTC())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": batches})
}

// Get - public batch details
func (h *BatchHandler) Get(e *core.RequestEvent) error {
	batch, err := h.batches.Get(e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": batch})
}

type batchRequest struct {
	AvailableTickets *int    `json:"available_tickets"`
	Price            *string `json:"price"`
	SaleStart        *string `json:"sale_start"`
	SaleEnd          *string `json:"sale_end"`
}

func (r batchRequest) params() (services.BatchParams, error) {
	params := services.BatchParams{
		AvailableTickets: r.AvailableTickets,
	}
	if r.Price != nil {
		price, err := decimal.NewFromString(*r.Price)
		if err != nil {
			return params, err
		}
		params.Price = &price
	}
	if r.SaleStart != nil {
		start, err := time.Parse(time.RFC3339, *r.SaleStart)
		if err != nil {
			return params, err
		}
		params.SaleStart = &start
	}
	if r.SaleEnd != nil {
		end, err := time.Parse(time.RFC3339, *r.SaleEnd)
		if err != nil {
			return params, err
		}
		params.SaleEnd = &end
	}
	return params, nil
}

// Create - admin only
func (h *BatchHandler) Create(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	var req batchRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	params, err := req.params()
	if err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	batch, err := h.batches.Create(e.Request.PathValue("eventId"), params)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, map[string]any{"data": batch})
}

// Update - admin only, omitted bounds keep their stored values
func (h *BatchHandler) Update(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	var req batchRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	params, err := req.params()
	if err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	batch, err := h.batches.Update(e.Request.PathValue("id"), params)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": batch})
}

// Delete - admin only, refused while live orders reference the batch
func (h *BatchHandler) Delete(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	if err := h.batches.Delete(e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}
