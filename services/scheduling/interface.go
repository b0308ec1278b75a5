package scheduling

import (
	"context"
	"time"

	appointmentRepo "medicall/database/repository/appointment"
	availabilityRepo "medicall/database/repository/availability"
	sessionRepo "medicall/database/repository/session"
	userRepo "medicall/database/repository/user"
	"medicall/models"
	"medicall/services/tasks"
	"medicall/services/video"
)

// SchedulingService is the booking and lifecycle engine: advisory slot
// resolution, the authoritative booking commit, and the appointment state
// machine including live-session attach/detach.
type SchedulingService interface {
	GetAvailableSlots(ctx context.Context, providerID string) (*models.AvailableDays, error)
	CreateAppointment(ctx context.Context, patientID string, req models.CreateAppointmentRequest) (*models.AppointmentDetail, error)
	CompleteAppointment(ctx context.Context, callerID, appointmentID string) error
	CancelAppointment(ctx context.Context, callerID, appointmentID string) error
	GenerateSession(ctx context.Context, callerID, appointmentID string) (string, error)
	DeleteSession(ctx context.Context, callerID, appointmentID string) error
	SetAvailability(ctx context.Context, providerID string, window *models.AvailabilityWindow) error
}

// DefaultSchedulingService implements SchedulingService.
type DefaultSchedulingService struct {
	Users        userRepo.UserRepository
	Windows      availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
	Sessions     sessionRepo.SessionRepository
	Video        video.TokenProvider
	Reminders    *tasks.ReminderScheduler

	// Now is the clock used by slot resolution and validation; nil means
	// time.Now.
	Now func() time.Time
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
