package models

// AvailabilityStatus marks whether a provider's window is currently bookable.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
)

// AvailabilityWindow is a provider's single recurring daily working window.
// DailyStart and DailyEnd are minutes from midnight in the server's local
// time; a provider has at most one window, mutated only by that provider.
type AvailabilityWindow struct {
	ID         string             `bson:"id" json:"id"`
	ProviderID string             `bson:"providerId" json:"providerId"`
	DailyStart int                `bson:"dailyStart" json:"dailyStart"`
	DailyEnd   int                `bson:"dailyEnd" json:"dailyEnd"`
	Status     AvailabilityStatus `bson:"status" json:"status"`
}

// Slot is one bookable 30-minute interval offered to a patient.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Formatted string `json:"formatted"`
}

// SlotDay groups a day's available slots under a display label. A fully
// booked day keeps an empty (non-nil) slot list.
type SlotDay struct {
	Date        string `json:"date"`
	DisplayDate string `json:"displayDate"`
	Slots       []Slot `json:"slots"`
}

// AvailableDays is the resolver's advisory answer for one provider.
type AvailableDays struct {
	Days []SlotDay `json:"days"`
}
