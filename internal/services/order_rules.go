package services

import (
	"errors"
	"time"

	"eventrest/internal/status"
	"eventrest/models"

	"github.com/shopspring/decimal"
)

// Pure purchase/payment decision rules. The order service evaluates these
// against state read under the batch lock so the decision and the mutation
// commit together.

// checkPurchase gate-keeps a reservation against a batch snapshot. Stock is
// tested before the window, matching the original rule ordering. An absent
// window bound means the batch is never on sale.
func checkPurchase(quantity, available int, saleStart, saleEnd time.Time, now time.Time) error {
	if quantity > available {
		return status.ErrInsufficientStock
	}
	if saleStart.IsZero() || saleEnd.IsZero() {
		return status.ErrSalesWindowClosed
	}
	if now.Before(saleStart) || now.After(saleEnd) {
		return status.ErrSalesWindowClosed
	}
	return nil
}

// checkPayment applies the simulated settlement rules: optional exact amount
// verification (fixed-point, no tolerance), then the forced-outcome and
// declined-method overrides.
func checkPayment(total decimal.Decimal, amount *decimal.Decimal, method, forcedOutcome string) error {
	if amount != nil && !amount.Equal(total) {
		return status.ErrAmountMismatch
	}
	if forcedOutcome == "fail" || method == "card_declined" {
		return status.ErrPaymentDeclined
	}
	return nil
}

// guardTransition rejects any order status change outside the closed
// transition set.
func guardTransition(current, to models.OrderStatus) error {
	if !current.CanTransition(to) {
		return status.ErrInvalidStatus
	}
	return nil
}

// orderTotal freezes the order total at creation: batch price times quantity.
func orderTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// failureKind labels a rejection for metrics.
func failureKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case status.IsBusiness(err):
		switch {
		case errors.Is(err, status.ErrInvalidQuantity):
			return "invalid_quantity"
		case errors.Is(err, status.ErrInsufficientStock):
			return "insufficient_stock"
		case errors.Is(err, status.ErrSalesWindowClosed):
			return "sales_window_closed"
		case errors.Is(err, status.ErrForbidden):
			return "forbidden"
		case errors.Is(err, status.ErrInvalidStatus):
			return "invalid_status"
		case errors.Is(err, status.ErrAmountMismatch):
			return "amount_mismatch"
		case errors.Is(err, status.ErrPaymentDeclined):
			return "payment_declined"
		case errors.Is(err, status.ErrNotFound):
			return "not_found"
		default:
			return "rejected"
		}
	default:
		return "error"
	}
}
