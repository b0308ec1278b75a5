package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medicall/database"
	"medicall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoWindow is returned when the provider has no active window.
var ErrNoWindow = errors.New("no availability window")

// AvailabilityRepository stores each provider's single recurring window.
type AvailabilityRepository interface {
	// GetActiveWindow returns the provider's window with status AVAILABLE,
	// or ErrNoWindow.
	GetActiveWindow(ctx context.Context, providerID string) (*models.AvailabilityWindow, error)
	// Upsert replaces the provider's window. One window per provider.
	Upsert(ctx context.Context, window *models.AvailabilityWindow) error
}

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo creates a new instance of AvailabilityRepository using MongoDB.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &MongoAvailabilityRepo{coll: database.DB().Collection("availability")}
}

func (r *MongoAvailabilityRepo) GetActiveWindow(ctx context.Context, providerID string) (*models.AvailabilityWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"status":     models.AvailabilityAvailable,
	}
	var window models.AvailabilityWindow
	if err := r.coll.FindOne(ctx, filter).Decode(&window); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoWindow
		}
		return nil, fmt.Errorf("failed to fetch availability for provider %s: %w", providerID, err)
	}
	return &window, nil
}

func (r *MongoAvailabilityRepo) Upsert(ctx context.Context, window *models.AvailabilityWindow) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": window.ProviderID}
	update := bson.M{"$set": window}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert availability for provider %s: %w", window.ProviderID, err)
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the availability collection.
func (r *MongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_provider"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
