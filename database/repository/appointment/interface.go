package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"medicall/models"
)

var (
	// ErrNotFound is returned when no matching appointment exists.
	ErrNotFound = errors.New("appointment not found")
	// ErrOverlap is returned by CommitScheduled when a SCHEDULED appointment
	// of the same provider intersects the requested interval.
	ErrOverlap = errors.New("overlapping appointment exists")
	// ErrStateConflict is returned by TransitionStatus when the appointment
	// is not in the expected source state.
	ErrStateConflict = errors.New("appointment not in expected state")
)

// AppointmentRepository persists appointments and enforces the per-provider
// no-overlap invariant at commit time.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListScheduledUntil returns the provider's SCHEDULED appointments with
	// startTime <= until, ordered by startTime.
	ListScheduledUntil(ctx context.Context, providerID string, until time.Time) ([]models.Appointment, error)
	// CommitScheduled atomically re-checks the provider's SCHEDULED
	// appointments against [appt.StartTime, appt.EndTime) and inserts the
	// appointment. Returns ErrOverlap if the slot was lost to a concurrent
	// booking; on error nothing is written.
	CommitScheduled(ctx context.Context, appt *models.Appointment) error
	// TransitionStatus moves the appointment from one status to another,
	// conditionally on it currently being in `from`. Returns
	// ErrStateConflict when the condition does not match.
	TransitionStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error
	// SetSessionID updates the denormalized session reference. Empty string
	// clears it.
	SetSessionID(ctx context.Context, id, sessionID string) error
}
