// Package v1 provides authentication business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent common authentication failures.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned
// from business logic methods.
//
// Example Usage:
//
//	if row == nil {
//	    return nil, fmt.Errorf("authenticate user %q: %w", username, ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
//	case errors.Is(err, logicv1.ErrUserExists):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": "User ID, username, or email already exists"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for authentication operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrMissingFields indicates a required request field is absent or empty.
	// HTTP Status: 400 Bad Request
	ErrMissingFields = errors.New("missing required fields")

	// ErrUserExists indicates the user ID, username or email is already taken.
	// The message never names the colliding field.
	// HTTP Status: 400 Bad Request
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates login failed. Unknown username and
	// wrong password both map here so responses cannot be used to
	// enumerate accounts.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken indicates a protected endpoint was called without a
	// bearer token.
	// HTTP Status: 401 Unauthorized
	ErrMissingToken = errors.New("access token required")

	// ErrInvalidToken indicates the bearer token failed verification or
	// has expired.
	// HTTP Status: 403 Forbidden
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound indicates the record behind a verified token no
	// longer exists.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")
)
