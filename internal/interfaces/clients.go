// Package interfaces defines service contracts for the Folio client.
package interfaces

import (
	"context"

	"github.com/folioapp/folio-go/internal/models"
)

// TokenSource returns the current bearer token for authenticated requests,
// or an empty string when no credential is held. The client never validates
// the token itself; a missing or expired token surfaces as a 401/403
// TransportError from the server.
type TokenSource func() string

// UserClient provides access to the Folio user-management API.
type UserClient interface {
	// FetchAccount retrieves the authenticated user's account
	FetchAccount(ctx context.Context) (*models.Account, error)

	// FetchByUsername retrieves the public account view for a username
	FetchByUsername(ctx context.Context, username string) (*models.Account, error)

	// UpdateAccount applies a partial update to the account's mutable fields
	UpdateAccount(ctx context.Context, userID int64, draft models.AccountDraft) (*models.Account, error)

	// FetchProfile retrieves the user's profile; a 404 maps to
	// models.NotFoundError, marking the profile as absent
	FetchProfile(ctx context.Context, userID int64) (*models.Profile, error)

	// CreateProfile creates the profile from the draft's populated fields;
	// the server assigns the id and computes derived fields
	CreateProfile(ctx context.Context, userID int64, draft models.ProfileDraft) (*models.Profile, error)

	// UpdateProfile applies a partial patch; unset draft fields leave
	// server values untouched
	UpdateProfile(ctx context.Context, userID int64, draft models.ProfileDraft) (*models.Profile, error)

	// IncrementLearning bumps the profile's learning progress counter
	IncrementLearning(ctx context.Context, userID int64) (*models.Profile, error)

	// CheckEmailAvailable probes email availability without auth
	CheckEmailAvailable(ctx context.Context, email string) (bool, error)

	// CheckUsernameAvailable probes username availability without auth
	CheckUsernameAvailable(ctx context.Context, username string) (bool, error)

	// VerifyEmail confirms server-side email verification
	VerifyEmail(ctx context.Context, userID int64) error
}
