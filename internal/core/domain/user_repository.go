package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateKey is returned by Create when the store's uniqueness
// constraints reject the insert. It resolves the race between two
// concurrent registrations for the same key.
var ErrDuplicateKey = errors.New("duplicate key")

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           int
	UserID       string
	Username     string
	Email        string
	PhoneNumber  *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByUsername returns the user matching the given username.
	// Returns (nil, nil) when no user is found.
	GetByUsername(ctx context.Context, username string) (*UserRow, error)

	// FindConflict reports which unique key (user_id, username or email)
	// already belongs to an existing record, or "" when all three are free.
	FindConflict(ctx context.Context, userID, username, email string) (string, error)

	// Create inserts a new user and returns the persisted row with
	// server-assigned id and timestamps. Returns ErrDuplicateKey when a
	// uniqueness constraint rejects the insert.
	Create(ctx context.Context, userID, username, email string, phoneNumber *string, passwordHash string) (*UserRow, error)

	// Ping verifies store connectivity with a trivial query.
	Ping(ctx context.Context) error
}
