package services

import (
	"errors"
	"testing"
	"time"

	"eventrest/internal/status"
	"eventrest/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckPurchase(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-24 * time.Hour)
	end := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		quantity  int
		available int
		start     time.Time
		end       time.Time
		want      error
	}{
		{"enough stock inside window", 3, 10, start, end, nil},
		{"exact remaining stock", 10, 10, start, end, nil},
		{"quantity exceeds stock", 12, 10, start, end, status.ErrInsufficientStock},
		{"sales not started", 1, 10, now.Add(time.Hour), now.Add(48 * time.Hour), status.ErrSalesWindowClosed},
		{"sales ended", 1, 10, now.Add(-48 * time.Hour), now.Add(-time.Hour), status.ErrSalesWindowClosed},
		{"purchase at window start", 1, 10, now, end, nil},
		{"purchase at window end", 1, 10, start, now, nil},
		{"missing window bounds", 1, 10, time.Time{}, time.Time{}, status.ErrSalesWindowClosed},
		// stock is checked before the window
		{"over stock and outside window", 12, 10, now.Add(time.Hour), now.Add(48 * time.Hour), status.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPurchase(tt.quantity, tt.available, tt.start, tt.end, now)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestOrderTotal(t *testing.T) {
	price, err := decimal.NewFromString("80.00")
	assert.NoError(t, err)

	total := orderTotal(price, 3)
	assert.True(t, total.Equal(decimal.RequireFromString("240.00")))
	assert.Equal(t, "240.00", total.StringFixed(2))

	one := orderTotal(price, 1)
	assert.True(t, one.Equal(price))
}

func TestCheckPayment(t *testing.T) {
	total := decimal.RequireFromString("160.00")

	t.Run("no amount succeeds", func(t *testing.T) {
		assert.NoError(t, checkPayment(total, nil, "card", ""))
	})

	t.Run("matching amount succeeds", func(t *testing.T) {
		amount := decimal.RequireFromString("160.00")
		assert.NoError(t, checkPayment(total, &amount, "card", ""))
	})

	t.Run("matching amount with different exponent", func(t *testing.T) {
		amount := decimal.RequireFromString("160")
		assert.NoError(t, checkPayment(total, &amount, "card", ""))
	})

	t.Run("mismatched amount is rejected", func(t *testing.T) {
		amount := decimal.RequireFromString("170.00")
		err := checkPayment(total, &amount, "card", "")
		assert.ErrorIs(t, err, status.ErrAmountMismatch)
	})

	t.Run("forced failure declines", func(t *testing.T) {
		err := checkPayment(total, nil, "card", "fail")
		assert.ErrorIs(t, err, status.ErrPaymentDeclined)
	})

	t.Run("card_declined method declines", func(t *testing.T) {
		err := checkPayment(total, nil, "card_declined", "")
		assert.ErrorIs(t, err, status.ErrPaymentDeclined)
	})

	t.Run("amount check runs before forced outcome", func(t *testing.T) {
		amount := decimal.RequireFromString("1.00")
		err := checkPayment(total, &amount, "card_declined", "fail")
		assert.ErrorIs(t, err, status.ErrAmountMismatch)
	})
}

func TestGuardTransition(t *testing.T) {
	assert.NoError(t, guardTransition(models.OrderPending, models.OrderPaid))
	assert.NoError(t, guardTransition(models.OrderPending, models.OrderCancelled))

	assert.ErrorIs(t, guardTransition(models.OrderPaid, models.OrderCancelled), status.ErrInvalidStatus)
	assert.ErrorIs(t, guardTransition(models.OrderPaid, models.OrderPaid), status.ErrInvalidStatus)
	assert.ErrorIs(t, guardTransition(models.OrderCancelled, models.OrderPaid), status.ErrInvalidStatus)
	assert.ErrorIs(t, guardTransition(models.OrderCancelled, models.OrderCancelled), status.ErrInvalidStatus)
}

func TestFailureKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{status.ErrInvalidQuantity, "invalid_quantity"},
		{status.ErrInsufficientStock, "insufficient_stock"},
		{status.ErrSalesWindowClosed, "sales_window_closed"},
		{status.ErrForbidden, "forbidden"},
		{status.ErrInvalidStatus, "invalid_status"},
		{status.ErrAmountMismatch, "amount_mismatch"},
		{status.ErrPaymentDeclined, "payment_declined"},
		{status.ErrNotFound, "not_found"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, failureKind(tt.err))
	}
}
