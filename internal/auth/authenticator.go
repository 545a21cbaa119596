// Package auth covers account registration, login and session tokens.
package auth

import (
	"context"

	"github.com/emel-04/FlatmateHarmony/internal/models"
)

// Authenticator abstracts the credential scheme so the API layer does
// not care whether accounts use passwords, OAuth or something else.
type Authenticator interface {
	// Register creates a new account. The credential format depends on
	// the implementation; for passwords it is the plaintext password.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the account.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the
	// implementation's requirements without touching storage.
	ValidateCredential(credential string) error
}
