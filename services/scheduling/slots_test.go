package scheduling

import (
	"context"
	"testing"
	"time"

	"medicall/models"
	"medicall/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotService(users *fakeUserRepo, windows *fakeAvailabilityRepo, appts *fakeAppointmentRepo, now time.Time) *DefaultSchedulingService {
	return &DefaultSchedulingService{
		Users:        users,
		Windows:      windows,
		Appointments: appts,
		Sessions:     newFakeSessionRepo(),
		Video:        &fakeTokenProvider{},
		Now:          func() time.Time { return now },
	}
}

func window9to17(providerID string) *models.AvailabilityWindow {
	return &models.AvailabilityWindow{
		ID:         "w1",
		ProviderID: providerID,
		DailyStart: 9 * 60,
		DailyEnd:   17 * 60,
		Status:     models.AvailabilityAvailable,
	}
}

func TestGetAvailableSlots_ExcludesBookedSlot(t *testing.T) {
	// Resolving before the working day starts, so every candidate slot is
	// in the future.
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	booked := &models.Appointment{
		ID:         "a1",
		ProviderID: "prov-1",
		PatientID:  "pat-1",
		StartTime:  day.Add(10 * time.Hour),
		EndTime:    day.Add(10*time.Hour + 30*time.Minute),
		Status:     models.AppointmentScheduled,
	}

	svc := slotService(
		newFakeUserRepo(verifiedProvider("prov-1")),
		newFakeAvailabilityRepo(window9to17("prov-1")),
		newFakeAppointmentRepo(booked),
		now,
	)

	days, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.NoError(t, err)
	require.Len(t, days.Days, 4)

	first := days.Days[0]
	assert.Equal(t, "2026-03-02", first.Date)
	assert.Equal(t, "Monday, March 2", first.DisplayDate)

	// 16 candidates in 09:00-17:00, minus the one booked at 10:00.
	assert.Len(t, first.Slots, 15)

	starts := make([]string, 0, len(first.Slots))
	for _, s := range first.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Contains(t, starts, day.Add(9*time.Hour).Format(time.RFC3339))
	assert.Contains(t, starts, day.Add(16*time.Hour+30*time.Minute).Format(time.RFC3339))
	assert.NotContains(t, starts, day.Add(10*time.Hour).Format(time.RFC3339))

	// Later days carry the full grid.
	assert.Len(t, days.Days[1].Slots, 16)
}

func TestGetAvailableSlots_DropsPastSlots(t *testing.T) {
	// 10:15 — 09:00, 09:30 and 10:00 have already started.
	now := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

	svc := slotService(
		newFakeUserRepo(verifiedProvider("prov-1")),
		newFakeAvailabilityRepo(window9to17("prov-1")),
		newFakeAppointmentRepo(),
		now,
	)

	days, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.NoError(t, err)

	first := days.Days[0]
	require.Len(t, first.Slots, 13)
	assert.Equal(t, now.Truncate(time.Hour).Add(30*time.Minute).Format(time.RFC3339), first.Slots[0].StartTime)
	assert.Equal(t, "10:30 AM - 11:00 AM", first.Slots[0].Formatted)
}

func TestGetAvailableSlots_FullyBookedDayStaysEmptyNotMissing(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	appts := make([]*models.Appointment, 0, 16)
	for i := 0; i < 16; i++ {
		start := day.Add(9*time.Hour + time.Duration(i)*30*time.Minute)
		appts = append(appts, &models.Appointment{
			ID:         "a" + start.Format("1504"),
			ProviderID: "prov-1",
			StartTime:  start,
			EndTime:    start.Add(30 * time.Minute),
			Status:     models.AppointmentScheduled,
		})
	}

	svc := slotService(
		newFakeUserRepo(verifiedProvider("prov-1")),
		newFakeAvailabilityRepo(window9to17("prov-1")),
		newFakeAppointmentRepo(appts...),
		now,
	)

	days, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.NoError(t, err)
	require.Len(t, days.Days, 4)

	assert.NotNil(t, days.Days[0].Slots)
	assert.Empty(t, days.Days[0].Slots)
	assert.Len(t, days.Days[1].Slots, 16)
}

func TestGetAvailableSlots_CancelledAppointmentFreesSlot(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cancelled := &models.Appointment{
		ID:         "a1",
		ProviderID: "prov-1",
		StartTime:  day.Add(10 * time.Hour),
		EndTime:    day.Add(10*time.Hour + 30*time.Minute),
		Status:     models.AppointmentCancelled,
	}

	svc := slotService(
		newFakeUserRepo(verifiedProvider("prov-1")),
		newFakeAvailabilityRepo(window9to17("prov-1")),
		newFakeAppointmentRepo(cancelled),
		now,
	)

	days, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Len(t, days.Days[0].Slots, 16)
}

func TestGetAvailableSlots_UnknownProvider(t *testing.T) {
	svc := slotService(newFakeUserRepo(), newFakeAvailabilityRepo(), newFakeAppointmentRepo(), time.Now())

	_, err := svc.GetAvailableSlots(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}

func TestGetAvailableSlots_UnverifiedProviderTreatedAsMissing(t *testing.T) {
	unverified := verifiedProvider("prov-1")
	unverified.VerificationStatus = models.VerificationPending

	svc := slotService(newFakeUserRepo(unverified), newFakeAvailabilityRepo(window9to17("prov-1")), newFakeAppointmentRepo(), time.Now())

	_, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}

func TestGetAvailableSlots_NoWindow(t *testing.T) {
	svc := slotService(newFakeUserRepo(verifiedProvider("prov-1")), newFakeAvailabilityRepo(), newFakeAppointmentRepo(), time.Now())

	_, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNoAvailability))
}

func TestGetAvailableSlots_UnavailableWindow(t *testing.T) {
	w := window9to17("prov-1")
	w.Status = models.AvailabilityUnavailable

	svc := slotService(newFakeUserRepo(verifiedProvider("prov-1")), newFakeAvailabilityRepo(w), newFakeAppointmentRepo(), time.Now())

	_, err := svc.GetAvailableSlots(context.Background(), "prov-1")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNoAvailability))
}

func TestBuildDaySlots_UnevenWindowTruncates(t *testing.T) {
	// 09:00-09:45 fits exactly one 30-minute slot.
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := buildDaySlots(day.Add(9*time.Hour), day.Add(9*time.Hour+45*time.Minute), day, nil)
	require.Len(t, slots, 1)
	assert.Equal(t, "9:00 AM - 9:30 AM", slots[0].Formatted)
}
