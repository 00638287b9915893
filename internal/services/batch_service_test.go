package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func batchParams(tickets int, price string, start, end time.Time) BatchParams {
	p := decimal.RequireFromString(price)
	return BatchParams{
		AvailableTickets: &tickets,
		Price:            &p,
		SaleStart:        &start,
		SaleEnd:          &end,
	}
}

func TestBatchParams_ValidateForCreate(t *testing.T) {
	start := day(1)
	end := day(5)

	assert.NoError(t, batchParams(100, "80.00", start, end).validateForCreate())

	t.Run("all fields required", func(t *testing.T) {
		err := BatchParams{}.validateForCreate()
		require.Error(t, err)

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "available_tickets")
		assert.Contains(t, errs, "price")
		assert.Contains(t, errs, "sale_start")
		assert.Contains(t, errs, "sale_end")
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		err := batchParams(-1, "80.00", start, end).validateForCreate()
		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "available_tickets")
	})

	t.Run("negative price rejected", func(t *testing.T) {
		err := batchParams(10, "-1.00", start, end).validateForCreate()
		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "price")
	})

	t.Run("zero stock allowed", func(t *testing.T) {
		assert.NoError(t, batchParams(0, "0.00", start, end).validateForCreate())
	})
}

func TestBatchParams_ValidateCommon_Partial(t *testing.T) {
	// update input with no fields set is a no-op, not an error
	assert.NoError(t, BatchParams{}.validateCommon())

	negative := -3
	err := BatchParams{AvailableTickets: &negative}.validateCommon()
	assert.Error(t, err)
}

func TestCatalogExpr(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, catalogExpr("all", now))
	assert.NotNil(t, catalogExpr("available", now))
	assert.NotNil(t, catalogExpr("sold_out", now))
	assert.NotNil(t, catalogExpr("expired", now))
	assert.NotNil(t, catalogExpr("inactive", now))
}

func TestNowParam_UTCString(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	s := nowParam(now)
	assert.Contains(t, s, "2026-08-15 05:30:00")
}
