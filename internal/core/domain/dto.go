package domain

import "time"

// RegisterRequest is the JSON body of POST /api/register.
// PhoneNumber is the only optional field.
type RegisterRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" binding:"required"`
}

// LoginRequest is the JSON body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// User is the non-secret view of a user record. It never carries the
// credential hash.
type User struct {
	ID          int        `json:"id"`
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// AuthResponse is the success body of register and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProfileResponse wraps the user view for GET /api/profile.
type ProfileResponse struct {
	User User `json:"user"`
}

// View converts a database row to its non-secret representation.
func (r *UserRow) View() User {
	u := User{
		ID:       r.ID,
		UserID:   r.UserID,
		Username: r.Username,
		Email:    r.Email,
	}
	if r.PhoneNumber != nil {
		u.PhoneNumber = *r.PhoneNumber
	}
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt
		u.CreatedAt = &t
	}
	return u
}
