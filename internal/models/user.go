package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
//
// Users authenticate with email and password; a session is a JWT issued
// at login. A user participates in a household through a Member row
// whose UserID points back here.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown in chat and on the roster.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt and UpdatedAt are Unix millisecond timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a User with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().UnixMilli()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
