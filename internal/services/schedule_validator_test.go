package services

import (
	"errors"
	"testing"
	"time"

	"eventrest/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateSchedule_InvertedWindow(t *testing.T) {
	err := ValidateSchedule(day(30), SaleWindow{Start: day(5), End: day(3)}, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrInvalidWindow)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sale_start")
}

func TestValidateSchedule_ZeroLengthWindow(t *testing.T) {
	err := ValidateSchedule(day(30), SaleWindow{Start: day(5), End: day(5)}, nil, "")
	assert.ErrorIs(t, err, status.ErrInvalidWindow)
}

func TestValidateSchedule_EndAfterEventDate(t *testing.T) {
	err := ValidateSchedule(day(10), SaleWindow{Start: day(5), End: day(15)}, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrWindowAfterEvent)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sale_end")
}

func TestValidateSchedule_EndOnEventDateAllowed(t *testing.T) {
	err := ValidateSchedule(day(10), SaleWindow{Start: day(5), End: day(10)}, nil, "")
	assert.NoError(t, err)
}

func TestValidateSchedule_ZeroEventDateSkipsCheck(t *testing.T) {
	err := ValidateSchedule(time.Time{}, SaleWindow{Start: day(5), End: day(15)}, nil, "")
	assert.NoError(t, err)
}

func TestValidateSchedule_SiblingConflict(t *testing.T) {
	siblings := []BatchWindow{
		{ID: "b1", Start: day(2), End: day(6)},
	}

	tests := []struct {
		name   string
		window SaleWindow
		want   error
	}{
		{"overlapping tail", SaleWindow{Start: day(1), End: day(3)}, status.ErrScheduleConflict},
		{"overlapping head", SaleWindow{Start: day(5), End: day(9)}, status.ErrScheduleConflict},
		{"contained", SaleWindow{Start: day(3), End: day(5)}, status.ErrScheduleConflict},
		{"containing", SaleWindow{Start: day(1), End: day(9)}, status.ErrScheduleConflict},
		{"touching end", SaleWindow{Start: day(6), End: day(9)}, status.ErrScheduleConflict},
		{"touching start", SaleWindow{Start: day(1), End: day(2)}, status.ErrScheduleConflict},
		{"after", SaleWindow{Start: day(7), End: day(9)}, nil},
		{"before", SaleWindow{Start: day(1), End: day(1).Add(time.Hour)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(day(30), tt.window, siblings, "")
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidateSchedule_ExcludesSelfOnUpdate(t *testing.T) {
	siblings := []BatchWindow{
		{ID: "editing", Start: day(2), End: day(6)},
		{ID: "other", Start: day(10), End: day(12)},
	}

	// shifting the batch inside its own current window is fine
	err := ValidateSchedule(day(30), SaleWindow{Start: day(3), End: day(7)}, siblings, "editing")
	assert.NoError(t, err)

	// but colliding with a different sibling still fails
	err = ValidateSchedule(day(30), SaleWindow{Start: day(9), End: day(11)}, siblings, "editing")
	assert.ErrorIs(t, err, status.ErrScheduleConflict)
}

func TestValidateSchedule_SkipsSiblingsWithoutWindow(t *testing.T) {
	siblings := []BatchWindow{
		{ID: "draft", Start: time.Time{}, End: time.Time{}},
	}
	err := ValidateSchedule(day(30), SaleWindow{Start: day(1), End: day(5)}, siblings, "")
	assert.NoError(t, err)
}

func TestValidationError_Unwrap(t *testing.T) {
	verr := &ValidationError{Err: status.ErrScheduleConflict}
	assert.True(t, errors.Is(verr, status.ErrScheduleConflict))
	assert.Equal(t, status.ErrScheduleConflict.Error(), verr.Error())
}
