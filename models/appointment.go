package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment. SCHEDULED is
// the only non-terminal state; appointments are never deleted.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a committed booking between a patient and a provider.
// Invariant: per provider, no two SCHEDULED appointments have overlapping
// [StartTime, EndTime) intervals.
type Appointment struct {
	ID          string            `bson:"id" json:"id"`
	PatientID   string            `bson:"patientId" json:"patientId"`
	ProviderID  string            `bson:"providerId" json:"providerId"`
	StartTime   time.Time         `bson:"startTime" json:"startTime"`
	EndTime     time.Time         `bson:"endTime" json:"endTime"`
	Status      AppointmentStatus `bson:"status" json:"status"`
	Description string            `bson:"description" json:"description"`
	Notes       string            `bson:"notes,omitempty" json:"notes,omitempty"`
	SessionID   string            `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps reports half-open interval intersection with [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && end.After(a.StartTime)
}

// AppointmentDetail is an appointment enriched with the display fields of
// both parties.
type AppointmentDetail struct {
	Appointment `bson:",inline"`
	Provider    PartyRef `json:"provider"`
	Patient     PartyRef `json:"patient"`
}

// CreateAppointmentRequest is the booking input submitted by a patient.
type CreateAppointmentRequest struct {
	ProviderID  string    `json:"providerId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
}

// ReminderPayload is the asynq task body for appointment reminders.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	PatientID     string    `json:"patientId"`
	ProviderID    string    `json:"providerId"`
	StartTime     time.Time `json:"startTime"`
}
