package sessionRepo

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

var (
	// ErrNotFound is returned when the appointment has no session.
	ErrNotFound = errors.New("session not found")
	// ErrAlreadyExists is returned when a session row already exists for
	// the appointment.
	ErrAlreadyExists = errors.New("session already exists")
)

// SessionRepository stores the zero-or-one live-session row per appointment.
type SessionRepository interface {
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Session, error)
	// Create inserts the session. The unique index on appointmentId makes a
	// concurrent second create fail with ErrAlreadyExists.
	Create(ctx context.Context, session *models.Session) error
	DeleteByAppointment(ctx context.Context, appointmentID string) error
}

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a new instance of SessionRepository using MongoDB.
func NewMongoSessionRepo() SessionRepository {
	return &MongoSessionRepo{coll: database.DB().Collection("sessions")}
}

func (r *MongoSessionRepo) GetByAppointment(ctx context.Context, appointmentID string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	if err := r.coll.FindOne(ctx, bson.M{"appointmentId": appointmentID}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching session for appointment %s: %w", appointmentID, err)
	}
	return &session, nil
}

func (r *MongoSessionRepo) Create(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("error creating session for appointment %s: %w", session.AppointmentID, err)
	}
	return nil
}

func (r *MongoSessionRepo) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"appointmentId": appointmentID})
	if err != nil {
		return fmt.Errorf("error deleting session for appointment %s: %w", appointmentID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the sessions collection.
func (r *MongoSessionRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Zero-or-one session per appointment.
		{
			Keys:    bson.D{{Key: "appointmentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_appointment"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}
