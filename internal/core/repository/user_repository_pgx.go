package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenhub/auth-service/internal/core/domain"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

var _ domain.UserRepository = (*PgxUserRepository)(nil)

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	query := `
		SELECT id, user_id, username, email, phone_number, password_hash, created_at, updated_at
		FROM users WHERE username = $1
	`

	var row domain.UserRow
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&row.ID, &row.UserID, &row.Username, &row.Email,
		&row.PhoneNumber, &row.PasswordHash, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}

	return &row, nil
}

// FindConflict reports which unique key already belongs to an existing
// record, or "" when user_id, username and email are all free.
func (r *PgxUserRepository) FindConflict(ctx context.Context, userID, username, email string) (string, error) {
	query := `
		SELECT CASE
			WHEN user_id = $1 THEN 'user_id'
			WHEN username = $2 THEN 'username'
			ELSE 'email'
		END
		FROM users
		WHERE user_id = $1 OR username = $2 OR email = $3
		LIMIT 1
	`

	var key string
	err := r.pool.QueryRow(ctx, query, userID, username, email).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query conflicting user: %w", err)
	}

	return key, nil
}

// Create inserts a new user and returns the persisted row. A unique
// constraint failure is reported as domain.ErrDuplicateKey so the caller
// can treat a lost registration race as a conflict.
func (r *PgxUserRepository) Create(ctx context.Context, userID, username, email string, phoneNumber *string, passwordHash string) (*domain.UserRow, error) {
	query := `
		INSERT INTO users (user_id, username, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, username, email, phone_number, password_hash, created_at, updated_at
	`

	var row domain.UserRow
	err := r.pool.QueryRow(ctx, query, userID, username, email, phoneNumber, passwordHash).Scan(
		&row.ID, &row.UserID, &row.Username, &row.Email,
		&row.PhoneNumber, &row.PasswordHash, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &row, nil
}

// Ping verifies store connectivity with a trivial query.
func (r *PgxUserRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.pool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
