package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "medicall/database/repository/availability"
	userRepo "medicall/database/repository/user"
	"medicall/models"
	"medicall/utils"

	"go.uber.org/zap"
)

const (
	// slotLength is the fixed bookable interval.
	slotLength = 30 * time.Minute
	// horizonDays is the booking horizon, starting today.
	horizonDays = 4
)

// GetAvailableSlots derives the provider's bookable slots over the horizon.
// The answer is advisory and read-only: the commit in CreateAppointment
// re-checks overlap authoritatively.
func (s *DefaultSchedulingService) GetAvailableSlots(ctx context.Context, providerID string) (*models.AvailableDays, error) {
	logger := utils.GetLogger()

	if _, err := s.Users.GetVerifiedProvider(ctx, providerID); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("provider not found or not verified")
		}
		return nil, fmt.Errorf("failed to resolve provider %s: %w", providerID, err)
	}

	window, err := s.Windows.GetActiveWindow(ctx, providerID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNoWindow) {
			return nil, utils.NewNoAvailabilityError("no availability set by provider")
		}
		return nil, fmt.Errorf("failed to fetch availability for provider %s: %w", providerID, err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizonEnd := today.AddDate(0, 0, horizonDays)

	existing, err := s.Appointments.ListScheduledUntil(ctx, providerID, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for provider %s: %w", providerID, err)
	}

	result := &models.AvailableDays{Days: make([]models.SlotDay, 0, horizonDays)}
	for i := 0; i < horizonDays; i++ {
		day := today.AddDate(0, 0, i)
		workStart := day.Add(time.Duration(window.DailyStart) * time.Minute)
		workEnd := day.Add(time.Duration(window.DailyEnd) * time.Minute)

		slots := buildDaySlots(workStart, workEnd, now, existing)
		result.Days = append(result.Days, models.SlotDay{
			Date:        day.Format("2006-01-02"),
			DisplayDate: day.Format("Monday, January 2"),
			Slots:       slots,
		})
	}

	logger.Debug("Resolved available slots",
		zap.String("providerId", providerID),
		zap.Int("days", len(result.Days)))
	return result, nil
}

// buildDaySlots walks fixed-length candidates across one day's working
// window. A candidate survives iff it does not start in the past and is
// disjoint from every existing SCHEDULED appointment under the half-open
// [start, end) test.
func buildDaySlots(workStart, workEnd, now time.Time, existing []models.Appointment) []models.Slot {
	slots := make([]models.Slot, 0)
	for cur := workStart; !cur.Add(slotLength).After(workEnd); cur = cur.Add(slotLength) {
		next := cur.Add(slotLength)
		if cur.Before(now) {
			continue
		}
		if overlapsAny(cur, next, existing) {
			continue
		}
		slots = append(slots, models.Slot{
			StartTime: cur.Format(time.RFC3339),
			EndTime:   next.Format(time.RFC3339),
			Formatted: cur.Format("3:04 PM") + " - " + next.Format("3:04 PM"),
		})
	}
	return slots
}

func overlapsAny(start, end time.Time, existing []models.Appointment) bool {
	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
