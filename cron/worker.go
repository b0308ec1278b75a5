package cron

import (
	"context"
	"encoding/json"

	"medicall/config"
	appointmentRepo "medicall/database/repository/appointment"
	"medicall/models"
	"medicall/services/tasks"
	"medicall/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background. The
// worker re-checks appointment status at fire time so reminders for
// cancelled appointments become no-ops.
func InitReminderWorker(appointments appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(appointments))

	go func() {
		logger := utils.GetLogger()
		logger.Info("Starting reminder worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("Reminder worker stopped", zap.Error(err))
		}
	}()
}

func handleReminderTask(appointments appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		logger := utils.GetLogger()

		var payload models.ReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("Malformed reminder payload", zap.Error(err))
			return nil // not retryable
		}

		appt, err := appointments.GetByID(ctx, payload.AppointmentID)
		if err != nil {
			logger.Warn("Reminder skipped, appointment lookup failed",
				zap.String("appointmentId", payload.AppointmentID), zap.Error(err))
			return nil
		}
		if appt.Status != models.AppointmentScheduled {
			return nil
		}

		// Delivery channel (push/email) is the notification collaborator's
		// job; the core only emits the event.
		logger.Info("Appointment reminder due",
			zap.String("appointmentId", appt.ID),
			zap.String("patientId", appt.PatientID),
			zap.String("providerId", appt.ProviderID),
			zap.Time("startTime", appt.StartTime))
		return nil
	}
}
