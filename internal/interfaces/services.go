package interfaces

import (
	"context"

	"github.com/folioapp/folio-go/internal/models"
)

// SessionState is the lifecycle state of a profile editing session.
type SessionState int

const (
	// SessionIdle is the state before Open and after Close.
	SessionIdle SessionState = iota
	// SessionLoading covers the initial account and profile fetches.
	SessionLoading
	// SessionLoaded means the account (and profile presence) is known.
	SessionLoaded
	// SessionError is terminal for the session; reopening starts fresh.
	SessionError
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionLoading:
		return "loading"
	case SessionLoaded:
		return "loaded"
	case SessionError:
		return "error"
	}
	return "unknown"
}

// ProfileSession owns the view state for one account/profile editing
// session: the loaded entities, the two independent edit drafts, and the
// create-vs-update decision on save. Methods are safe for use from a single
// view goroutine; internal timers synchronize through the session itself.
type ProfileSession interface {
	// Open loads the account and profile and seeds both drafts. A missing
	// profile is a valid outcome, not an error.
	Open(ctx context.Context) error

	// Close discards session state and cancels pending notices. In-flight
	// results from before Close are dropped.
	Close()

	// State returns the current lifecycle state.
	State() SessionState

	// Account returns the last-loaded account, or nil before load.
	Account() *models.Account

	// Profile returns the tagged loaded-profile state.
	Profile() models.LoadedProfile

	// AccountDraft and ProfileDraft expose the edit buffers for field
	// mutation by the view layer.
	AccountDraft() *models.AccountDraft
	ProfileDraft() *models.ProfileDraft

	// EditAccount / EditProfile enter edit mode for one tab, re-seeding
	// that tab's draft. The other tab's edit state is untouched.
	EditAccount()
	EditProfile()
	EditingAccount() bool
	EditingProfile() bool

	// CancelAccount / CancelProfile discard draft mutations by re-seeding
	// from the last-loaded entity. No network call is made.
	CancelAccount()
	CancelProfile()

	// SaveProfile validates the draft locally, then creates or updates the
	// profile depending on current presence. The server's response
	// replaces the loaded profile.
	SaveProfile(ctx context.Context) error

	// SaveAccount pushes the account draft, then re-fetches the account to
	// pick up server-side derived changes.
	SaveAccount(ctx context.Context) error

	// IncrementLearning bumps learning progress on the loaded profile.
	IncrementLearning(ctx context.Context) error

	// Notice returns the transient success notice, empty once dismissed.
	Notice() string

	// LastError returns the most recent error message for display.
	LastError() string
}
