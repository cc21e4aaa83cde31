package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by lowercased username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by lowercased email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByUsername checks whether a username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks whether an email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// ProfileRepository defines the interface for user profile persistence
type ProfileRepository interface {
	// FindByUser finds a user's profile
	FindByUser(ctx context.Context, userID uuid.UUID) (*UserProfile, error)

	// Save creates or updates a profile
	Save(ctx context.Context, profile *UserProfile) error
}
