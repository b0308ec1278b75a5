package models

import "time"

// Role distinguishes the two sides of a booking.
type Role string

const (
	RolePatient  Role = "PATIENT"
	RoleProvider Role = "PROVIDER"
)

// VerificationStatus is the outcome of the admin verification workflow.
// Only VERIFIED providers are bookable; the workflow itself lives outside
// this service.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// User is a platform account, either a patient or a provider ("doctor").
// Accounts are created and authenticated by the external identity provider;
// this service only reads them.
type User struct {
	ID                 string             `bson:"id" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	Role               Role               `bson:"role" json:"role"`
	Speciality         string             `bson:"speciality,omitempty" json:"speciality,omitempty"`
	VerificationStatus VerificationStatus `bson:"verificationStatus,omitempty" json:"verificationStatus,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// PartyRef carries the denormalized display fields of one side of an
// appointment, returned alongside booking results.
type PartyRef struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// Ref projects a user into its display reference.
func (u *User) Ref() PartyRef {
	return PartyRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
