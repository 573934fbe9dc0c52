package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/screenhub/auth-service/internal/core/domain"
	"github.com/screenhub/auth-service/internal/token"
	"github.com/screenhub/auth-service/middleware"
)

// AuthService implements authentication business rules.
// It depends on the repository interface and token manager (injected via
// constructor) and MUST NOT access the database or SQL directly.
type AuthService struct {
	users  domain.UserRepository
	tokens *token.Manager
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Register handles user registration business logic.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	if req.UserID == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register user: %w", ErrMissingFields)
	}

	// Check if user_id, username or email is already taken
	conflictKey, err := s.users.FindConflict(ctx, req.UserID, req.Username, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if conflictKey != "" {
		span.SetAttributes(attribute.Bool("registration.success", false))
		// The colliding key is logged, never returned to the caller.
		zerolog.Ctx(ctx).Debug().Str("conflict_key", conflictKey).Msg("Registration conflict")
		return nil, fmt.Errorf("register user %q: %w", req.Username, ErrUserExists)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var phone *string
	if req.PhoneNumber != "" {
		phone = &req.PhoneNumber
	}

	// Insert new user. The unique constraints backstop a concurrent
	// registration that won the race after the conflict check above.
	row, err := s.users.Create(ctx, req.UserID, req.Username, req.Email, phone, string(passwordHash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return nil, fmt.Errorf("register user %q: %w", req.Username, ErrUserExists)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// Mint session token
	tok, err := s.tokens.Generate(row.UserID, row.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("mint session token: %w", err)
	}

	response := &domain.AuthResponse{
		Message: "User registered successfully",
		Token:   tok,
		User:    row.View(),
	}

	span.SetAttributes(
		attribute.String("user.id", row.UserID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return response, nil
}

// Login handles user login business logic.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	if req.Username == "" || req.Password == "" {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("login: %w", ErrMissingFields)
	}

	// Lookup user by username via repository
	row, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if row == nil {
		// Same error as a wrong password: responses must not reveal
		// whether the username exists.
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	// Verify password
	err = bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password))
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	// Mint a fresh session token
	tok, err := s.tokens.Generate(row.UserID, row.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("mint session token: %w", err)
	}

	response := &domain.AuthResponse{
		Message: "Login successful",
		Token:   tok,
		User:    row.View(),
	}

	span.SetAttributes(
		attribute.String("user.id", row.UserID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return response, nil
}

// GetProfile returns the non-secret record for a verified identity.
// The claims were signature-checked by the auth middleware; the lookup is
// by the embedded username.
func (s *AuthService) GetProfile(ctx context.Context, claims *token.Claims) (*domain.ProfileResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.get_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", claims.Username),
	))
	defer span.End()

	row, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", claims.Username, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("profile.found", false))
		return nil, fmt.Errorf("profile for %q: %w", claims.Username, ErrUserNotFound)
	}

	span.SetAttributes(
		attribute.String("user.id", row.UserID),
		attribute.Bool("profile.found", true),
	)

	return &domain.ProfileResponse{User: row.View()}, nil
}

// TestDB verifies database connectivity for the health probe endpoint.
func (s *AuthService) TestDB(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "auth.test_db", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.users.Ping(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("database probe: %w", err)
	}
	return nil
}
