// Package profile implements the account/profile editing session: the view
// state machine behind the profile screen. It owns the loaded entities, the
// two independent edit drafts, and the create-vs-update decision on save.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/folioapp/folio-go/internal/common"
	"github.com/folioapp/folio-go/internal/interfaces"
	"github.com/folioapp/folio-go/internal/models"
)

// Compile-time interface check
var _ interfaces.ProfileSession = (*Session)(nil)

// Session implements ProfileSession. One Session serves one view at a time;
// state transitions are atomic at the granularity of one completed request.
// Every Open mints a fresh session id, and any completion that arrives after
// the id has moved on (Close, reopen) is discarded rather than allowed to
// overwrite newer state.
type Session struct {
	client    interfaces.UserClient
	logger    *common.Logger
	noticeTTL time.Duration

	mu             sync.Mutex
	id             uuid.UUID
	state          interfaces.SessionState
	errMsg         string
	account        *models.Account
	profile        models.LoadedProfile
	accountDraft   models.AccountDraft
	profileDraft   models.ProfileDraft
	editingAccount bool
	editingProfile bool
	notice         string
	noticeTimer    *time.Timer
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithNoticeTTL overrides how long success notices stay visible
func WithNoticeTTL(ttl time.Duration) SessionOption {
	return func(s *Session) {
		s.noticeTTL = ttl
	}
}

// NewSession creates a session bound to the given client
func NewSession(client interfaces.UserClient, logger *common.Logger, opts ...SessionOption) *Session {
	s := &Session{
		client:    client,
		logger:    logger,
		noticeTTL: common.NoticeTTL,
		state:     interfaces.SessionIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open fetches the account and then the profile, seeding both drafts.
// A NotFoundError on the profile fetch yields Loaded(absent), never Error.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	s.id = uuid.New()
	sid := s.id
	s.state = interfaces.SessionLoading
	s.errMsg = ""
	s.notice = ""
	s.editingAccount = false
	s.editingProfile = false
	s.mu.Unlock()

	account, err := s.client.FetchAccount(ctx)
	if err != nil {
		return s.failLoad(sid, fmt.Errorf("failed to load account: %w", err))
	}

	loaded := models.LoadedProfile{}
	prof, err := s.client.FetchProfile(ctx, account.UserID)
	switch {
	case err == nil:
		loaded = models.LoadedProfile{Present: true, Profile: *prof}
	case isNotFound(err):
		// no profile yet: a normal state, seeded with an empty draft
	default:
		return s.failLoad(sid, fmt.Errorf("failed to load profile: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != sid {
		return nil // session superseded while loading; drop the result
	}
	s.account = account
	s.profile = loaded
	s.accountDraft = models.DraftFromAccount(account)
	s.profileDraft = loaded.Draft()
	s.state = interfaces.SessionLoaded

	s.logger.Debug().
		Int64("user_id", account.UserID).
		Bool("profile_present", loaded.Present).
		Msg("Session loaded")
	return nil
}

// failLoad moves the session into the terminal Error state, unless the
// session has been superseded since the request started.
func (s *Session) failLoad(sid uuid.UUID, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != sid {
		return nil
	}
	s.state = interfaces.SessionError
	s.errMsg = err.Error()
	s.logger.Warn().Err(err).Msg("Session load failed")
	return err
}

// Close discards session state. Any in-flight request or pending notice
// dismissal keyed to the old session id becomes a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.New()
	s.state = interfaces.SessionIdle
	s.account = nil
	s.profile = models.LoadedProfile{}
	s.accountDraft = models.AccountDraft{}
	s.profileDraft = models.ProfileDraft{}
	s.editingAccount = false
	s.editingProfile = false
	s.errMsg = ""
	s.clearNoticeLocked()
}

// State returns the current lifecycle state
func (s *Session) State() interfaces.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Account returns the last-loaded account, or nil before load
func (s *Session) Account() *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Profile returns the tagged loaded-profile state
func (s *Session) Profile() models.LoadedProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// AccountDraft exposes the account edit buffer for field mutation
func (s *Session) AccountDraft() *models.AccountDraft {
	return &s.accountDraft
}

// ProfileDraft exposes the profile edit buffer for field mutation
func (s *Session) ProfileDraft() *models.ProfileDraft {
	return &s.profileDraft
}

// EditAccount enters account edit mode, re-seeding the account draft.
// The profile tab's edit state is untouched.
func (s *Session) EditAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != interfaces.SessionLoaded {
		return
	}
	s.accountDraft = models.DraftFromAccount(s.account)
	s.editingAccount = true
}

// EditProfile enters profile edit mode, re-seeding the profile draft.
// The account tab's edit state is untouched.
func (s *Session) EditProfile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != interfaces.SessionLoaded {
		return
	}
	s.profileDraft = s.profile.Draft()
	s.editingProfile = true
}

// EditingAccount reports whether the account tab is in edit mode
func (s *Session) EditingAccount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingAccount
}

// EditingProfile reports whether the profile tab is in edit mode
func (s *Session) EditingProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingProfile
}

// CancelAccount discards account draft mutations, re-seeding from the
// last-loaded account. No network call is made.
func (s *Session) CancelAccount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountDraft = models.DraftFromAccount(s.account)
	s.editingAccount = false
	s.errMsg = ""
}

// CancelProfile discards profile draft mutations, re-seeding from the
// last-loaded profile (or empty, if absent). No network call is made.
func (s *Session) CancelProfile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileDraft = s.profile.Draft()
	s.editingProfile = false
	s.errMsg = ""
}

// SaveProfile validates the draft, then creates or updates the profile
// depending on whether one currently exists. The server's response is
// authoritative and replaces the loaded profile. On any failure the draft
// is preserved and the tab stays in edit mode.
func (s *Session) SaveProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.state != interfaces.SessionLoaded || s.account == nil {
		s.mu.Unlock()
		return fmt.Errorf("no loaded session")
	}
	sid := s.id
	userID := s.account.UserID
	draft := s.profileDraft
	present := s.profile.Present
	s.mu.Unlock()

	// Required-field check happens before any network call.
	if missing := draft.MissingRequired(); len(missing) > 0 {
		verr := &models.ValidationError{Fields: missing}
		s.setError(sid, verr.Error())
		return verr
	}

	var (
		saved *models.Profile
		err   error
	)
	if present {
		saved, err = s.client.UpdateProfile(ctx, userID, draft)
	} else {
		saved, err = s.client.CreateProfile(ctx, userID, draft)
	}
	if err != nil {
		s.setError(sid, err.Error())
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != sid {
		return nil
	}
	s.profile = models.LoadedProfile{Present: true, Profile: *saved}
	s.profileDraft = s.profile.Draft()
	s.editingProfile = false
	s.errMsg = ""
	s.showNoticeLocked("Profile saved", sid)
	s.logger.Info().Int64("user_id", userID).Bool("created", !present).Msg("Profile saved")
	return nil
}

// SaveAccount pushes the account draft, then re-fetches the account so the
// view picks up server-side derived changes. On update failure the draft is
// preserved, edit mode remains, and no re-fetch happens.
func (s *Session) SaveAccount(ctx context.Context) error {
	s.mu.Lock()
	if s.state != interfaces.SessionLoaded || s.account == nil {
		s.mu.Unlock()
		return fmt.Errorf("no loaded session")
	}
	sid := s.id
	userID := s.account.UserID
	draft := s.accountDraft
	s.mu.Unlock()

	updated, err := s.client.UpdateAccount(ctx, userID, draft)
	if err != nil {
		s.setError(sid, err.Error())
		return err
	}

	// The update succeeded; if the re-fetch fails, the update response is
	// still the freshest server-authoritative view we hold.
	account, err := s.client.FetchAccount(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Account re-fetch after save failed; using update response")
		account = updated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != sid {
		return nil
	}
	s.account = account
	s.accountDraft = models.DraftFromAccount(account)
	s.editingAccount = false
	s.errMsg = ""
	s.showNoticeLocked("Account updated", sid)
	s.logger.Info().Int64("user_id", userID).Msg("Account saved")
	return nil
}

// IncrementLearning bumps learning progress on the loaded profile and
// replaces it with the server's response. An in-progress profile edit keeps
// its draft; only the loaded entity moves.
func (s *Session) IncrementLearning(ctx context.Context) error {
	s.mu.Lock()
	if s.state != interfaces.SessionLoaded || s.account == nil {
		s.mu.Unlock()
		return fmt.Errorf("no loaded session")
	}
	if !s.profile.Present {
		s.mu.Unlock()
		return fmt.Errorf("no profile to update")
	}
	sid := s.id
	userID := s.account.UserID
	s.mu.Unlock()

	updated, err := s.client.IncrementLearning(ctx, userID)
	if err != nil {
		s.setError(sid, err.Error())
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != sid {
		return nil
	}
	s.profile = models.LoadedProfile{Present: true, Profile: *updated}
	if !s.editingProfile {
		s.profileDraft = s.profile.Draft()
	}
	return nil
}

// LastError returns the most recent error message for display
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// setError records an error message unless the session has moved on.
func (s *Session) setError(sid uuid.UUID, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != sid {
		return
	}
	s.errMsg = msg
}

func isNotFound(err error) bool {
	var nf *models.NotFoundError
	return errors.As(err, &nf)
}
