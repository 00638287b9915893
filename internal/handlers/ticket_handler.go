package handlers

import (
	"net/http"

	"eventrest/config"
	"eventrest/internal/services"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type TicketHandler struct {
	tickets *services.TicketService
	cfg     *config.Config
}

func NewTicketHandler(tickets *services.TicketService, cfg *config.Config) *TicketHandler {
	return &TicketHandler{tickets: tickets, cfg: cfg}
}

// List - current user's tickets
func (h *TicketHandler) List(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	limit, offset := pagination(e, h.cfg)
	tickets, err := h.tickets.ListForUser(actor.ID, limit, offset)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": tickets})
}

// Get - ticket details, owner or admin
func (h *TicketHandler) Get(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Get(e.Request.PathValue("id"), actor)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": ticket})
}

// AdminSearch - filters + exact ticket_number lookup
func (h *TicketHandler) AdminSearch(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	q := e.Request.URL.Query()

	if number := q.Get("ticket_number"); number != "" {
		ticket, err := h.tickets.FindByNumber(number)
		if err != nil {
			return apiError(err)
		}
		return e.JSON(http.StatusOK, map[string]any{"data": ticket})
	}

	limit, offset := pagination(e, h.cfg)
	params := services.TicketSearch{
		UserID:  q.Get("user_id"),
		EventID: q.Get("event_id"),
		OrderID: q.Get("order_id"),
		SortAsc: q.Get("sort") == "asc",
		Limit:   limit,
		Offset:  offset,
	}
	if raw := q.Get("min_price"); raw != "" {
		if min, err := decimal.NewFromString(raw); err == nil {
			params.MinPrice = &min
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if max, err := decimal.NewFromString(raw); err == nil {
			params.MaxPrice = &max
		}
	}

	tickets, err := h.tickets.Search(params)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": tickets})
}
