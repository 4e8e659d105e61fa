// Package folioapi provides a client for the Folio user-management API
package folioapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/folioapp/folio-go/internal/common"
	"github.com/folioapp/folio-go/internal/interfaces"
	"github.com/folioapp/folio-go/internal/models"
)

const (
	DefaultBaseURL   = "https://api.folio.app"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	apiPrefix = "/api/v1"
)

// Client implements the UserClient interface
type Client struct {
	baseURL    string
	tokens     interfaces.TokenSource
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// Compile-time interface check
var _ interfaces.UserClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Folio API client. The client is stateless and
// never retries; tokens provides the bearer credential per request.
func NewClient(tokens interfaces.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do performs a rate-limited request. A non-2xx response is returned as a
// *models.TransportError carrying the status and response body; operations
// reclassify where their contract demands it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, result interface{}, authed bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("Folio API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &models.TransportError{
			Status:   resp.StatusCode,
			Endpoint: path,
			Message:  string(data),
		}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// FetchAccount retrieves the authenticated user's account
func (c *Client) FetchAccount(ctx context.Context) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodGet, "/users/account", nil, nil, &account, true); err != nil {
		return nil, err
	}
	return &account, nil
}

// FetchByUsername retrieves the public account view for a username.
// A 404 maps to NotFoundError so callers can distinguish "no such user".
func (c *Client) FetchByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := url.Values{"username": {username}}
	var account models.Account
	if err := c.do(ctx, http.MethodGet, "/users/profile", query, nil, &account, true); err != nil {
		return nil, asNotFound(err, "/users/profile")
	}
	return &account, nil
}

// UpdateAccount applies a partial update to the account's mutable fields
func (c *Client) UpdateAccount(ctx context.Context, userID int64, draft models.AccountDraft) (*models.Account, error) {
	path := fmt.Sprintf("/users/%d", userID)
	var account models.Account
	if err := c.do(ctx, http.MethodPut, path, nil, draft, &account, true); err != nil {
		return nil, err
	}
	return &account, nil
}

// FetchProfile retrieves the user's profile. A 404 is returned as
// NotFoundError: the profile does not exist yet, which is a valid state.
func (c *Client) FetchProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	path := fmt.Sprintf("/users/%d/profile", userID)
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &profile, true); err != nil {
		return nil, asNotFound(err, path)
	}
	return &profile, nil
}

// CreateProfile creates the profile from the draft's populated fields
func (c *Client) CreateProfile(ctx context.Context, userID int64, draft models.ProfileDraft) (*models.Profile, error) {
	path := fmt.Sprintf("/users/%d/profile", userID)
	var profile models.Profile
	if err := c.do(ctx, http.MethodPost, path, nil, draft, &profile, true); err != nil {
		return nil, asValidation(err)
	}
	return &profile, nil
}

// UpdateProfile applies a partial patch to the existing profile
func (c *Client) UpdateProfile(ctx context.Context, userID int64, draft models.ProfileDraft) (*models.Profile, error) {
	path := fmt.Sprintf("/users/%d/profile", userID)
	var profile models.Profile
	if err := c.do(ctx, http.MethodPut, path, nil, draft, &profile, true); err != nil {
		return nil, asValidation(err)
	}
	return &profile, nil
}

// IncrementLearning bumps the profile's learning progress counter
func (c *Client) IncrementLearning(ctx context.Context, userID int64) (*models.Profile, error) {
	path := fmt.Sprintf("/users/%d/profile/learning/increment", userID)
	var profile models.Profile
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// CheckEmailAvailable probes email availability. No auth header is sent;
// the check serves the public registration flow.
func (c *Client) CheckEmailAvailable(ctx context.Context, email string) (bool, error) {
	query := url.Values{"email": {email}}
	var resp availabilityResponse
	if err := c.do(ctx, http.MethodGet, "/users/check-email", query, nil, &resp, false); err != nil {
		return false, err
	}
	return resp.Available, nil
}

// CheckUsernameAvailable probes username availability without auth
func (c *Client) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := url.Values{"username": {username}}
	var resp availabilityResponse
	if err := c.do(ctx, http.MethodGet, "/users/check-username", query, nil, &resp, false); err != nil {
		return false, err
	}
	return resp.Available, nil
}

// VerifyEmail confirms server-side email verification; no response payload
func (c *Client) VerifyEmail(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/users/%d/verify-email", userID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil, true)
}

// asNotFound converts a 404 transport error into NotFoundError.
func asNotFound(err error, endpoint string) error {
	var te *models.TransportError
	if errors.As(err, &te) && te.Status == http.StatusNotFound {
		return &models.NotFoundError{Endpoint: endpoint}
	}
	return err
}

// asValidation converts any transport error into a ValidationError carrying
// the server's detail body, per the create/update contract.
func asValidation(err error) error {
	var te *models.TransportError
	if errors.As(err, &te) {
		return &models.ValidationError{Status: te.Status, Body: te.Message}
	}
	return err
}
