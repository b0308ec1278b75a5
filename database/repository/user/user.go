package userRepo

import (
	"context"

	"medicall/models"
)

// UserRepository exposes the read-side of platform accounts needed by the
// scheduling core. Account lifecycle belongs to the identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetVerifiedProvider returns the user only if it exists with role
	// PROVIDER and verification status VERIFIED.
	GetVerifiedProvider(ctx context.Context, id string) (*models.User, error)
}
