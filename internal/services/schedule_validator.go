package services

import (
	"time"

	"eventrest/internal/status"
	"eventrest/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SaleWindow is a proposed [start, end] sales interval.
type SaleWindow struct {
	Start time.Time
	End   time.Time
}

// BatchWindow is a sibling batch's stored window, identified so updates can
// exclude the batch being edited from the conflict test.
type BatchWindow struct {
	ID    string
	Start time.Time
	End   time.Time
}

// ValidationError pairs a business-rule sentinel with the field-tagged
// failures the API layer attaches to its response.
type ValidationError struct {
	Err    error
	Fields validation.Errors
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidateSchedule checks a proposed sales window against its event date and
// the event's other batches. Pure; callers resolve omitted bounds to the
// stored ones before calling. Boundary-touching windows conflict: [a,b] and
// [c,d] overlap unless b < c or a > d.
func ValidateSchedule(eventDate time.Time, window SaleWindow, siblings []BatchWindow, excludeID string) error {
	if !window.End.After(window.Start) {
		return &ValidationError{
			Err: status.ErrInvalidWindow,
			Fields: validation.Errors{
				"sale_start": status.ErrInvalidWindow,
			},
		}
	}

	if !eventDate.IsZero() && window.End.After(eventDate) {
		return &ValidationError{
			Err: status.ErrWindowAfterEvent,
			Fields: validation.Errors{
				"sale_end": status.ErrWindowAfterEvent,
			},
		}
	}

	for _, other := range siblings {
		if other.ID == excludeID {
			continue
		}
		if other.Start.IsZero() || other.End.IsZero() {
			continue
		}
		if models.WindowsOverlap(window.Start, window.End, other.Start, other.End) {
			return &ValidationError{
				Err: status.ErrScheduleConflict,
				Fields: validation.Errors{
					"sale_start": status.ErrScheduleConflict,
				},
			}
		}
	}

	return nil
}
