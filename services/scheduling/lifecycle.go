package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "medicall/database/repository/appointment"
	sessionRepo "medicall/database/repository/session"
	"medicall/models"
	"medicall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lifecycle policy: completing or cancelling an appointment auto-detaches an
// existing live session. The external token is revoked best-effort and the
// session row removed, so no live session can outlive a terminal
// appointment.

// CompleteAppointment moves SCHEDULED -> COMPLETED. Only the provider on the
// appointment may complete it, at any time.
func (s *DefaultSchedulingService) CompleteAppointment(ctx context.Context, callerID, appointmentID string) error {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if callerID != appt.ProviderID {
		return utils.NewUnauthorizedError("only the provider can complete this appointment")
	}
	return s.terminalize(ctx, appt, models.AppointmentCompleted)
}

// CancelAppointment moves SCHEDULED -> CANCELLED. Either party on the
// appointment may cancel.
func (s *DefaultSchedulingService) CancelAppointment(ctx context.Context, callerID, appointmentID string) error {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if callerID != appt.ProviderID && callerID != appt.PatientID {
		return utils.NewUnauthorizedError("caller is not a party to this appointment")
	}
	return s.terminalize(ctx, appt, models.AppointmentCancelled)
}

func (s *DefaultSchedulingService) terminalize(ctx context.Context, appt *models.Appointment, to models.AppointmentStatus) error {
	if appt.Status != models.AppointmentScheduled {
		return utils.NewStateError(fmt.Sprintf("appointment is %s", appt.Status))
	}

	// Auto-detach before the transition; a failure here must not leave the
	// appointment terminal with a live session still attached.
	if err := s.detachSession(ctx, appt, true); err != nil {
		return err
	}

	if err := s.Appointments.TransitionStatus(ctx, appt.ID, models.AppointmentScheduled, to); err != nil {
		if errors.Is(err, appointmentRepo.ErrStateConflict) {
			return utils.NewStateError("appointment is no longer SCHEDULED")
		}
		return utils.NewPersistenceFailure("failed to update appointment status", err)
	}

	utils.GetLogger().Info("Appointment transitioned",
		zap.String("appointmentId", appt.ID),
		zap.String("status", string(to)))
	return nil
}

// GenerateSession attaches a live session to a SCHEDULED appointment. A
// second generate while a session exists fails; it never silently replaces
// the existing token.
func (s *DefaultSchedulingService) GenerateSession(ctx context.Context, callerID, appointmentID string) (string, error) {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return "", err
	}
	if callerID != appt.ProviderID && callerID != appt.PatientID {
		return "", utils.NewUnauthorizedError("caller is not a party to this appointment")
	}
	if appt.Status != models.AppointmentScheduled {
		return "", utils.NewStateError(fmt.Sprintf("cannot start a session on a %s appointment", appt.Status))
	}
	if _, err := s.Sessions.GetByAppointment(ctx, appointmentID); err == nil {
		return "", utils.NewStateError("a session already exists for this appointment")
	} else if !errors.Is(err, sessionRepo.ErrNotFound) {
		return "", fmt.Errorf("failed to check existing session: %w", err)
	}

	token, err := s.Video.Issue(ctx, appointmentID)
	if err != nil {
		return "", utils.NewPersistenceFailure("video provider failed to issue a session", err)
	}

	session := &models.Session{
		ID:            uuid.New().String(),
		AppointmentID: appointmentID,
		ExternalToken: token,
		CreatedAt:     time.Now(),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		// Lost a concurrent generate; revoke the token we just issued.
		if revokeErr := s.Video.Revoke(ctx, token); revokeErr != nil {
			utils.GetLogger().Warn("Failed to revoke orphaned video token",
				zap.String("appointmentId", appointmentID), zap.Error(revokeErr))
		}
		if errors.Is(err, sessionRepo.ErrAlreadyExists) {
			return "", utils.NewStateError("a session already exists for this appointment")
		}
		return "", utils.NewPersistenceFailure("failed to save session", err)
	}

	if err := s.Appointments.SetSessionID(ctx, appointmentID, session.ID); err != nil {
		utils.GetLogger().Warn("Failed to denormalize session reference",
			zap.String("appointmentId", appointmentID), zap.Error(err))
	}

	utils.GetLogger().Info("Session attached",
		zap.String("appointmentId", appointmentID),
		zap.String("sessionId", session.ID))
	return session.ID, nil
}

// DeleteSession detaches the live session from a SCHEDULED appointment,
// revoking the external token.
func (s *DefaultSchedulingService) DeleteSession(ctx context.Context, callerID, appointmentID string) error {
	appt, err := s.loadAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if callerID != appt.ProviderID && callerID != appt.PatientID {
		return utils.NewUnauthorizedError("caller is not a party to this appointment")
	}
	if appt.Status != models.AppointmentScheduled {
		return utils.NewStateError(fmt.Sprintf("cannot detach a session from a %s appointment", appt.Status))
	}
	return s.detachSession(ctx, appt, false)
}

// detachSession revokes and removes the appointment's session. When
// missingOK is set (terminal transitions), an absent session is a no-op;
// otherwise it is a state error.
func (s *DefaultSchedulingService) detachSession(ctx context.Context, appt *models.Appointment, missingOK bool) error {
	session, err := s.Sessions.GetByAppointment(ctx, appt.ID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			if missingOK {
				return nil
			}
			return utils.NewStateError("no session exists for this appointment")
		}
		return fmt.Errorf("failed to fetch session for appointment %s: %w", appt.ID, err)
	}

	if err := s.Video.Revoke(ctx, session.ExternalToken); err != nil {
		// The row is still deleted; a stale external token is preferable to
		// a session the platform believes is live.
		utils.GetLogger().Warn("Failed to revoke video token",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}

	if err := s.Sessions.DeleteByAppointment(ctx, appt.ID); err != nil && !errors.Is(err, sessionRepo.ErrNotFound) {
		return utils.NewPersistenceFailure("failed to delete session", err)
	}
	if err := s.Appointments.SetSessionID(ctx, appt.ID, ""); err != nil {
		utils.GetLogger().Warn("Failed to clear session reference",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}

	utils.GetLogger().Info("Session detached", zap.String("appointmentId", appt.ID))
	return nil
}

func (s *DefaultSchedulingService) loadAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("appointment not found")
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", appointmentID, err)
	}
	return appt, nil
}
