package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioapp/folio-go/internal/common"
	"github.com/folioapp/folio-go/internal/interfaces"
	"github.com/folioapp/folio-go/internal/models"
)

// --- stub client ---

// stubClient is a scriptable in-memory UserClient for session tests.
type stubClient struct {
	mu sync.Mutex

	account    *models.Account
	accountErr error
	profile    *models.Profile
	profileErr error

	updateAccountResult *models.Account
	updateAccountErr    error
	createResult        *models.Profile
	createErr           error
	updateResult        *models.Profile
	updateErr           error
	incrementResult     *models.Profile
	incrementErr        error

	fetchAccountCalls  int
	fetchProfileCalls  int
	updateAccountCalls int
	createCalls        int
	updateCalls        int

	lastProfileDraft models.ProfileDraft
	lastAccountDraft models.AccountDraft

	// optional gate: when set, FetchAccount blocks until the gate closes
	fetchAccountGate chan struct{}
}

func (c *stubClient) FetchAccount(ctx context.Context) (*models.Account, error) {
	c.mu.Lock()
	gate := c.fetchAccountGate
	c.fetchAccountCalls++
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if c.accountErr != nil {
		return nil, c.accountErr
	}
	acct := *c.account
	return &acct, nil
}

func (c *stubClient) FetchByUsername(ctx context.Context, username string) (*models.Account, error) {
	return nil, &models.NotFoundError{Endpoint: "/users/profile"}
}

func (c *stubClient) UpdateAccount(ctx context.Context, userID int64, draft models.AccountDraft) (*models.Account, error) {
	c.mu.Lock()
	c.updateAccountCalls++
	c.lastAccountDraft = draft
	c.mu.Unlock()
	if c.updateAccountErr != nil {
		return nil, c.updateAccountErr
	}
	acct := *c.updateAccountResult
	return &acct, nil
}

func (c *stubClient) FetchProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	c.mu.Lock()
	c.fetchProfileCalls++
	c.mu.Unlock()
	if c.profileErr != nil {
		return nil, c.profileErr
	}
	p := *c.profile
	return &p, nil
}

func (c *stubClient) CreateProfile(ctx context.Context, userID int64, draft models.ProfileDraft) (*models.Profile, error) {
	c.mu.Lock()
	c.createCalls++
	c.lastProfileDraft = draft
	c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	p := *c.createResult
	return &p, nil
}

func (c *stubClient) UpdateProfile(ctx context.Context, userID int64, draft models.ProfileDraft) (*models.Profile, error) {
	c.mu.Lock()
	c.updateCalls++
	c.lastProfileDraft = draft
	c.mu.Unlock()
	if c.updateErr != nil {
		return nil, c.updateErr
	}
	p := *c.updateResult
	return &p, nil
}

func (c *stubClient) IncrementLearning(ctx context.Context, userID int64) (*models.Profile, error) {
	if c.incrementErr != nil {
		return nil, c.incrementErr
	}
	p := *c.incrementResult
	return &p, nil
}

func (c *stubClient) CheckEmailAvailable(ctx context.Context, email string) (bool, error) {
	return true, nil
}

func (c *stubClient) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	return true, nil
}

func (c *stubClient) VerifyEmail(ctx context.Context, userID int64) error {
	return nil
}

var _ interfaces.UserClient = (*stubClient)(nil)

// --- fixtures ---

func testAccount() *models.Account {
	return &models.Account{
		UserID:        1,
		Email:         "a@x.com",
		Username:      "alice",
		RiskTolerance: models.RiskModerate,
		AccountStatus: models.AccountStatusActive,
		Currency:      "USD",
	}
}

func testProfile() *models.Profile {
	dt := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	return &models.Profile{
		ID:                       10,
		UserID:                   1,
		ExperienceLevel:          models.ExperienceIntermediate,
		InvestmentGoal:           models.GoalRetirement,
		PreferredInvestmentTypes: []models.InvestmentType{models.TypeStocks, models.TypeETF},
		GoalTargetAmount:         50000,
		GoalTargetDate:           &dt,
		ProgressPercentage:       42,
		DaysUntilGoal:            1200,
	}
}

func newTestSession(client interfaces.UserClient, opts ...SessionOption) *Session {
	return NewSession(client, common.NewSilentLogger(), opts...)
}

// --- load path ---

func TestOpen_ProfileAbsent_IsLoadedNotError(t *testing.T) {
	client := &stubClient{
		account:    testAccount(),
		profileErr: &models.NotFoundError{Endpoint: "/users/1/profile"},
	}
	session := newTestSession(client)

	err := session.Open(context.Background())
	require.NoError(t, err)

	assert.Equal(t, interfaces.SessionLoaded, session.State())
	assert.False(t, session.Profile().Present)
	assert.Empty(t, session.LastError())

	// account draft seeded from the mutable subset
	draft := session.AccountDraft()
	require.NotNil(t, draft.Email)
	assert.Equal(t, "a@x.com", *draft.Email)
	require.NotNil(t, draft.RiskTolerance)
	assert.Equal(t, models.RiskModerate, *draft.RiskTolerance)

	// profile draft seeded empty
	assert.Equal(t, models.ProfileDraft{}, *session.ProfileDraft())
}

func TestOpen_ProfilePresent_SeedsDraftFromAllFields(t *testing.T) {
	client := &stubClient{account: testAccount(), profile: testProfile()}
	session := newTestSession(client)

	require.NoError(t, session.Open(context.Background()))

	loaded := session.Profile()
	require.True(t, loaded.Present)
	assert.Equal(t, int64(10), loaded.Profile.ID)

	draft := session.ProfileDraft()
	require.NotNil(t, draft.ExperienceLevel)
	assert.Equal(t, models.ExperienceIntermediate, *draft.ExperienceLevel)
	require.NotNil(t, draft.InvestmentGoal)
	assert.Equal(t, models.GoalRetirement, *draft.InvestmentGoal)
	assert.ElementsMatch(t,
		[]models.InvestmentType{models.TypeStocks, models.TypeETF},
		draft.PreferredInvestmentTypes)
	require.NotNil(t, draft.GoalTargetAmount)
	assert.Equal(t, 50000.0, *draft.GoalTargetAmount)
}

func TestOpen_AccountFailure_IsTerminalError(t *testing.T) {
	client := &stubClient{
		accountErr: &models.TransportError{Status: 503, Endpoint: "/users/account"},
	}
	session := newTestSession(client)

	err := session.Open(context.Background())
	require.Error(t, err)

	assert.Equal(t, interfaces.SessionError, session.State())
	assert.NotEmpty(t, session.LastError())
	assert.Nil(t, session.Account())
}

func TestOpen_ProfileTransportFailure_IsSessionError(t *testing.T) {
	client := &stubClient{
		account:    testAccount(),
		profileErr: &models.TransportError{Status: 500, Endpoint: "/users/1/profile"},
	}
	session := newTestSession(client)

	err := session.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, interfaces.SessionError, session.State())
}

// --- profile save path ---

func TestSaveProfile_MissingRequired_NoNetworkCall(t *testing.T) {
	client := &stubClient{
		account:    testAccount(),
		profileErr: &models.NotFoundError{},
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	// draft has neither experience_level nor investment_goal
	err := session.SaveProfile(context.Background())

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.IsLocal())
	assert.ElementsMatch(t, []string{"experience_level", "investment_goal"}, ve.Fields)

	assert.Zero(t, client.createCalls)
	assert.Zero(t, client.updateCalls)
	assert.True(t, session.EditingProfile(), "must remain in edit mode")
}

func TestSaveProfile_AbsentProfile_IssuesCreate(t *testing.T) {
	created := testProfile()
	created.ExperienceLevel = models.ExperienceBeginner
	created.ProgressPercentage = 0
	client := &stubClient{
		account:      testAccount(),
		profileErr:   &models.NotFoundError{},
		createResult: created,
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	exp := models.ExperienceBeginner
	goal := models.GoalRetirement
	session.ProfileDraft().ExperienceLevel = &exp
	session.ProfileDraft().InvestmentGoal = &goal

	require.NoError(t, session.SaveProfile(context.Background()))

	assert.Equal(t, 1, client.createCalls)
	assert.Zero(t, client.updateCalls)

	// server response is authoritative
	loaded := session.Profile()
	require.True(t, loaded.Present)
	assert.Equal(t, *created, loaded.Profile)
	assert.False(t, session.EditingProfile())
	assert.Equal(t, "Profile saved", session.Notice())
}

func TestSaveProfile_PresentProfile_IssuesUpdate(t *testing.T) {
	updated := testProfile()
	updated.ExperienceLevel = models.ExperienceAdvanced
	client := &stubClient{
		account:      testAccount(),
		profile:      testProfile(),
		updateResult: updated,
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	exp := models.ExperienceAdvanced
	session.ProfileDraft().ExperienceLevel = &exp

	require.NoError(t, session.SaveProfile(context.Background()))

	assert.Equal(t, 1, client.updateCalls)
	assert.Zero(t, client.createCalls)
	assert.Equal(t, models.ExperienceAdvanced, session.Profile().Profile.ExperienceLevel)
}

func TestSaveProfile_ServerRejection_PreservesDraft(t *testing.T) {
	client := &stubClient{
		account:   testAccount(),
		profile:   testProfile(),
		updateErr: &models.ValidationError{Status: 422, Body: `{"detail":"bad date"}`},
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	amt := 99999.0
	session.ProfileDraft().GoalTargetAmount = &amt

	err := session.SaveProfile(context.Background())
	require.Error(t, err)

	assert.True(t, session.EditingProfile(), "must remain in edit mode")
	require.NotNil(t, session.ProfileDraft().GoalTargetAmount)
	assert.Equal(t, 99999.0, *session.ProfileDraft().GoalTargetAmount, "draft must survive the failure")
	assert.NotEmpty(t, session.LastError())
	assert.Empty(t, session.Notice())
}

// --- account save path ---

func TestSaveAccount_RefetchReplacesAccount(t *testing.T) {
	client := &stubClient{
		account:             testAccount(),
		profile:             testProfile(),
		updateAccountResult: testAccount(),
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditAccount()
	email := "new@x.com"
	session.AccountDraft().Email = &email

	// the re-fetch returns the server's post-update view
	refetched := testAccount()
	refetched.Email = "new@x.com"
	refetched.NetWorth = 12345
	client.account = refetched

	require.NoError(t, session.SaveAccount(context.Background()))

	assert.Equal(t, 1, client.updateAccountCalls)
	assert.Equal(t, 2, client.fetchAccountCalls, "open + post-save re-fetch")
	assert.Equal(t, "new@x.com", session.Account().Email)
	assert.Equal(t, 12345.0, session.Account().NetWorth)
	assert.False(t, session.EditingAccount())
	assert.Equal(t, "Account updated", session.Notice())

	// sent payload contains only the mutable subset that was populated
	require.NotNil(t, client.lastAccountDraft.Email)
	assert.Equal(t, "new@x.com", *client.lastAccountDraft.Email)
	assert.Nil(t, client.lastAccountDraft.Password)
}

func TestSaveAccount_UpdateFailure_NoRefetch(t *testing.T) {
	client := &stubClient{
		account:          testAccount(),
		profile:          testProfile(),
		updateAccountErr: &models.TransportError{Status: 400, Endpoint: "/users/1"},
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditAccount()
	email := "new@x.com"
	session.AccountDraft().Email = &email

	err := session.SaveAccount(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, client.fetchAccountCalls, "no re-fetch after a failed update")
	assert.True(t, session.EditingAccount())
	require.NotNil(t, session.AccountDraft().Email)
	assert.Equal(t, "new@x.com", *session.AccountDraft().Email, "draft unchanged")
	assert.NotEmpty(t, session.LastError())
	assert.Equal(t, "a@x.com", session.Account().Email, "loaded account unchanged")
}

// --- cancel and tab independence ---

func TestCancelProfile_RestoresLastLoadedValues(t *testing.T) {
	client := &stubClient{account: testAccount(), profile: testProfile()}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	exp := models.ExperienceAdvanced
	session.ProfileDraft().ExperienceLevel = &exp
	session.ProfileDraft().ToggleInvestmentType(models.TypeCrypto)

	session.CancelProfile()

	assert.False(t, session.EditingProfile())
	draft := session.ProfileDraft()
	require.NotNil(t, draft.ExperienceLevel)
	assert.Equal(t, models.ExperienceIntermediate, *draft.ExperienceLevel)
	assert.ElementsMatch(t,
		[]models.InvestmentType{models.TypeStocks, models.TypeETF},
		draft.PreferredInvestmentTypes)
}

func TestCancelProfile_AbsentProfile_ReseedsEmpty(t *testing.T) {
	client := &stubClient{account: testAccount(), profileErr: &models.NotFoundError{}}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	exp := models.ExperienceBeginner
	session.ProfileDraft().ExperienceLevel = &exp

	session.CancelProfile()

	assert.Equal(t, models.ProfileDraft{}, *session.ProfileDraft())
}

func TestTabs_EditFlagsAreIndependent(t *testing.T) {
	updated := testProfile()
	client := &stubClient{
		account:      testAccount(),
		profile:      testProfile(),
		updateResult: updated,
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	session.EditAccount()
	email := "pending@x.com"
	session.AccountDraft().Email = &email

	session.EditProfile()
	require.NoError(t, session.SaveProfile(context.Background()))

	// profile save must not touch the account tab's edit state or draft
	assert.True(t, session.EditingAccount())
	require.NotNil(t, session.AccountDraft().Email)
	assert.Equal(t, "pending@x.com", *session.AccountDraft().Email)
	assert.False(t, session.EditingProfile())
}

// --- notices ---

func TestNotice_AutoDismissesAfterTTL(t *testing.T) {
	client := &stubClient{
		account:      testAccount(),
		profile:      testProfile(),
		updateResult: testProfile(),
	}
	session := newTestSession(client, WithNoticeTTL(20*time.Millisecond))
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	require.NoError(t, session.SaveProfile(context.Background()))
	require.Equal(t, "Profile saved", session.Notice())

	assert.Eventually(t, func() bool {
		return session.Notice() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestNotice_ClearedOnClose(t *testing.T) {
	client := &stubClient{
		account:      testAccount(),
		profile:      testProfile(),
		updateResult: testProfile(),
	}
	session := newTestSession(client, WithNoticeTTL(time.Hour))
	require.NoError(t, session.Open(context.Background()))

	session.EditProfile()
	require.NoError(t, session.SaveProfile(context.Background()))
	require.NotEmpty(t, session.Notice())

	session.Close()
	assert.Empty(t, session.Notice())
	assert.Equal(t, interfaces.SessionIdle, session.State())
}

// --- stale responses ---

func TestOpen_ResultAfterClose_IsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	client := &stubClient{
		account:          testAccount(),
		profile:          testProfile(),
		fetchAccountGate: gate,
	}
	session := newTestSession(client)

	done := make(chan error, 1)
	go func() {
		done <- session.Open(context.Background())
	}()

	// the modal closes while the load is still in flight
	require.Eventually(t, func() bool {
		return session.State() == interfaces.SessionLoading
	}, time.Second, time.Millisecond)
	session.Close()
	close(gate)

	require.NoError(t, <-done)
	assert.Equal(t, interfaces.SessionIdle, session.State(), "stale load must not revive a closed session")
	assert.Nil(t, session.Account())
}

// --- learning progress ---

func TestIncrementLearning_ReplacesLoadedProfile(t *testing.T) {
	bumped := testProfile()
	bumped.LearningProgress = 5
	client := &stubClient{
		account:         testAccount(),
		profile:         testProfile(),
		incrementResult: bumped,
	}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	require.NoError(t, session.IncrementLearning(context.Background()))
	assert.Equal(t, 5, session.Profile().Profile.LearningProgress)
}

func TestIncrementLearning_RequiresProfile(t *testing.T) {
	client := &stubClient{account: testAccount(), profileErr: &models.NotFoundError{}}
	session := newTestSession(client)
	require.NoError(t, session.Open(context.Background()))

	err := session.IncrementLearning(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
