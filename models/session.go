package models

import "time"

// Session correlates a SCHEDULED appointment with an opaque token issued by
// the external video provider. At most one Session exists per appointment;
// it is deleted when the call reference is revoked or the appointment
// reaches a terminal state.
type Session struct {
	ID            string    `bson:"id" json:"id"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	ExternalToken string    `bson:"externalToken" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
