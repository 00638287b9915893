package utils

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTicketNumber(t *testing.T) {
	num, err := GenerateTicketNumber()
	require.NoError(t, err)
	assert.Len(t, num, 20)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{20}$`), num)
}

func TestGenerateTicketNumber_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		num, err := GenerateTicketNumber()
		require.NoError(t, err)
		assert.False(t, seen[num], "duplicate ticket number %s", num)
		seen[num] = true
	}
}

func TestCircuitBreaker_SuccessKeepsClosed(t *testing.T) {
	cb := NewCircuitBreaker("test")

	for i := 0; i < 200; i++ {
		err := cb.Do(func() error { return nil })
		require.NoError(t, err)
	}
	assert.Equal(t, BreakerClosed, cb.State())
}

func TestCircuitBreaker_PassesThroughOpError(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	err := cb.Do(func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, BreakerClosed, cb.State())
}

func TestCircuitBreaker_TripsAfterFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < 100; i++ {
		_ = cb.Do(func() error { return boom })
	}
	assert.Equal(t, BreakerOpen, cb.State())

	err := cb.Do(func() error {
		t.Fatal("op must not run while the breaker is open")
		return nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestCircuitBreaker_MixedTrafficBelowRatioStaysClosed(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			_ = cb.Do(func() error { return nil })
		} else {
			_ = cb.Do(func() error { return boom })
		}
	}
	assert.Equal(t, BreakerClosed, cb.State())
}
