package scheduling

import (
	"context"
	"fmt"

	"medicall/models"
	"medicall/utils"

	"github.com/google/uuid"
)

const minutesPerDay = 24 * 60

// SetAvailability replaces the provider's single recurring daily window.
// Only the provider mutates its own window.
func (s *DefaultSchedulingService) SetAvailability(ctx context.Context, providerID string, window *models.AvailabilityWindow) error {
	if window.DailyStart < 0 || window.DailyEnd > minutesPerDay || window.DailyStart >= window.DailyEnd {
		return utils.NewValidationError("dailyStart must be before dailyEnd within one day")
	}
	switch window.Status {
	case models.AvailabilityAvailable, models.AvailabilityUnavailable:
	default:
		return utils.NewValidationError("status must be AVAILABLE or UNAVAILABLE")
	}

	window.ProviderID = providerID
	if window.ID == "" {
		window.ID = uuid.New().String()
	}
	if err := s.Windows.Upsert(ctx, window); err != nil {
		return fmt.Errorf("failed to store availability window: %w", err)
	}
	return nil
}
