package handlers

import (
	"net/http"

	"eventrest/config"
	"eventrest/internal/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orders *services.OrderService
	cfg    *config.Config
}

func NewOrderHandler(orders *services.OrderService, cfg *config.Config) *OrderHandler {
	return &OrderHandler{orders: orders, cfg: cfg}
}

// Create - purchase tickets from a batch
func (h *OrderHandler) Create(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	var req struct {
		TicketBatchID string `json:"ticket_batch_id"`
		Quantity      int    `json:"quantity"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	order, err := h.orders.Create(e.Request.Context(), req.TicketBatchID, req.Quantity, actor)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, map[string]any{"data": order})
}

// List - current user's orders, newest first
func (h *OrderHandler) List(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	limit, offset := pagination(e, h.cfg)
	orders, err := h.orders.ListForUser(actor.ID, limit, offset)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": orders})
}

// ListAll - admin, optional user_id filter
func (h *OrderHandler) ListAll(e *core.RequestEvent) error {
	if _, err := requireAdmin(e); err != nil {
		return err
	}

	limit, offset := pagination(e, h.cfg)
	orders, err := h.orders.ListAll(e.Request.URL.Query().Get("user_id"), limit, offset)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": orders})
}

// Get - order details, owner or admin
func (h *OrderHandler) Get(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(e.Request.PathValue("id"), actor)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": order})
}

// Cancel - owner or admin, pending orders only
func (h *OrderHandler) Cancel(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	order, err := h.orders.Cancel(e.Request.Context(), e.Request.PathValue("id"), actor)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": order})
}

// Pay - owner or admin; amount/payment_method/force_payment_status drive the
// simulated settlement
func (h *OrderHandler) Pay(e *core.RequestEvent) error {
	actor, err := requireAuth(e)
	if err != nil {
		return err
	}

	var req struct {
		Amount             *string `json:"amount"`
		PaymentMethod      string  `json:"payment_method"`
		ForcePaymentStatus string  `json:"force_payment_status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	params := services.PayParams{
		Method:        req.PaymentMethod,
		ForcedOutcome: req.ForcePaymentStatus,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return apis.NewBadRequestError("Invalid amount", err)
		}
		params.Amount = &amount
	}

	order, err := h.orders.Pay(e.Request.Context(), e.Request.PathValue("id"), actor, params)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"data": order})
}
