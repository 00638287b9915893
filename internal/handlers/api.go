package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"eventrest/config"
	"eventrest/internal/services"
	"eventrest/internal/status"
	"eventrest/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// requireAuth returns the acting principal or an unauthorized API error.
func requireAuth(e *core.RequestEvent) (models.Actor, error) {
	if e.Auth == nil {
		return models.Actor{}, apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return models.ActorFromRecord(e.Auth), nil
}

// requireAdmin additionally checks the is_admin flag.
func requireAdmin(e *core.RequestEvent) (models.Actor, error) {
	actor, err := requireAuth(e)
	if err != nil {
		return actor, err
	}
	if !actor.IsAdmin {
		return actor, apis.NewForbiddenError("Forbidden: Admin access required", nil)
	}
	return actor, nil
}

// apiError translates service errors into transport errors: forbidden -> 403,
// not found -> 404, any other business rejection -> 422, the rest -> 500.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError(err.Error(), nil)
	case errors.Is(err, status.ErrForbidden):
		return apis.NewForbiddenError(err.Error(), nil)
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return apis.NewApiError(http.StatusUnprocessableEntity, verr.Error(), verr.Fields)
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return apis.NewApiError(http.StatusUnprocessableEntity, "Validation failed", fieldErrs)
	}
	if status.IsBusiness(err) {
		return apis.NewApiError(http.StatusUnprocessableEntity, err.Error(), nil)
	}
	return apis.NewInternalServerError("internal error", err)
}

// pagination reads limit/offset query params with the configured bounds.
func pagination(e *core.RequestEvent, cfg *config.Config) (limit, offset int) {
	limit = cfg.DefaultPageSize
	if raw := e.Request.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > cfg.MaxPageSize {
		limit = cfg.MaxPageSize
	}
	if raw := e.Request.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
