package scheduling

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "medicall/database/repository/appointment"
	userRepo "medicall/database/repository/user"
	"medicall/models"
	"medicall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAppointment validates and atomically commits a booking. The overlap
// check runs again inside the repository commit: the slot the caller saw
// from GetAvailableSlots may have been taken in the meantime.
func (s *DefaultSchedulingService) CreateAppointment(ctx context.Context, patientID string, req models.CreateAppointmentRequest) (*models.AppointmentDetail, error) {
	logger := utils.GetLogger()

	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	patient, err := s.Users.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.NewUnauthorizedError("only patients can book appointments")
		}
		return nil, fmt.Errorf("failed to resolve caller %s: %w", patientID, err)
	}
	if patient.Role != models.RolePatient {
		return nil, utils.NewUnauthorizedError("only patients can book appointments")
	}

	provider, err := s.Users.GetVerifiedProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("provider not found or not verified")
		}
		return nil, fmt.Errorf("failed to resolve provider %s: %w", req.ProviderID, err)
	}

	now := s.now()
	appt := &models.Appointment{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		ProviderID:  provider.ID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      models.AppointmentScheduled,
		Description: req.Description,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Appointments.CommitScheduled(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrOverlap) {
			return nil, utils.NewOverlapConflictError("this time slot is no longer available")
		}
		return nil, utils.NewPersistenceFailure("failed to save appointment", err)
	}

	logger.Info("Appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("providerId", provider.ID),
		zap.String("patientId", patient.ID),
		zap.Time("startTime", appt.StartTime))

	if s.Reminders != nil {
		if err := s.Reminders.Schedule(appt); err != nil {
			logger.Warn("Failed to schedule reminder", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	return &models.AppointmentDetail{
		Appointment: *appt,
		Provider:    provider.Ref(),
		Patient:     patient.Ref(),
	}, nil
}

func validateBookingRequest(req models.CreateAppointmentRequest) error {
	if req.ProviderID == "" {
		return utils.NewValidationError("providerId is required")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return utils.NewValidationError("startTime and endTime are required")
	}
	if !req.StartTime.Before(req.EndTime) {
		return utils.NewValidationError("startTime must be before endTime")
	}
	if req.Description == "" {
		return utils.NewValidationError("description is required")
	}
	return nil
}
