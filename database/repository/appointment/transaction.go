package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"medicall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// bookingLock is a short-lived advisory lock document. The unique _id makes
// InsertOne the acquisition primitive; the TTL index on expiresAt reaps
// locks left behind by a crashed process.
type bookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
}

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 150 * time.Millisecond
)

func lockID(providerID string) string {
	return "booking:" + providerID
}

// acquireProviderLock takes the per-provider booking lock. A duplicate-key
// error means another commit holds it; one retry after a short wait, then
// give up with ErrOverlap so the caller re-offers slots.
func (r *MongoAppointmentRepo) acquireProviderLock(ctx context.Context, providerID string) error {
	now := time.Now()
	lock := bookingLock{ID: lockID(providerID), ExpiresAt: now.Add(lockTTL), CreatedAt: now}

	for attempt := 0; attempt < 2; attempt++ {
		_, err := r.lockColl.InsertOne(ctx, lock)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to acquire booking lock for provider %s: %w", providerID, err)
		}
		if attempt == 0 {
			select {
			case <-time.After(lockRetryWait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return ErrOverlap
}

func (r *MongoAppointmentRepo) releaseProviderLock(ctx context.Context, providerID string) {
	if _, err := r.lockColl.DeleteOne(ctx, bson.M{"_id": lockID(providerID)}); err != nil {
		// The TTL index reclaims the lock after lockTTL.
		return
	}
}

// CommitScheduled is the authoritative booking commit: under the provider's
// advisory lock it re-runs the half-open overlap check against SCHEDULED
// appointments and inserts the new one. The advisory lock serializes
// concurrent commits per provider, so the check-and-insert pair cannot
// interleave; the resolver's earlier answer is advisory only.
func (r *MongoAppointmentRepo) CommitScheduled(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.acquireProviderLock(ctx, appt.ProviderID); err != nil {
		return err
	}
	defer r.releaseProviderLock(context.Background(), appt.ProviderID)

	// Half-open disjointness: conflict iff existing.start < new.end AND
	// existing.end > new.start.
	filter := bson.M{
		"providerId": appt.ProviderID,
		"status":     models.AppointmentScheduled,
		"startTime":  bson.M{"$lt": appt.EndTime},
		"endTime":    bson.M{"$gt": appt.StartTime},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return fmt.Errorf("overlap re-check failed for provider %s: %w", appt.ProviderID, err)
	}
	if count > 0 {
		return ErrOverlap
	}

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("insert appointment failed: %w", err)
	}
	return nil
}
