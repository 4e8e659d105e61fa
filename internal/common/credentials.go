package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/folioapp/folio-go/internal/interfaces"
)

// CredentialStore is the process-wide bearer-token accessor. Resolution
// order: explicit token from config/env, then the token file. The store
// never validates the token; the server is the authority on acceptance.
type CredentialStore struct {
	token string
	path  string

	mu     sync.Mutex
	cached string
}

// NewCredentialStore creates a store backed by the given auth config.
func NewCredentialStore(cfg *AuthConfig) *CredentialStore {
	return &CredentialStore{
		token: cfg.Token,
		path:  cfg.TokenFile,
	}
}

// Token returns the current bearer token, or empty when none is held.
func (s *CredentialStore) Token() string {
	if s.token != "" {
		return s.token
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != "" {
		return s.cached
	}
	if s.path == "" {
		return ""
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	s.cached = strings.TrimSpace(string(data))
	return s.cached
}

// Source returns the store's accessor as an injectable capability.
func (s *CredentialStore) Source() interfaces.TokenSource {
	return s.Token
}

// SetToken persists a new token to the token file and refreshes the cache.
func (s *CredentialStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("no token file configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.cached = token
	return nil
}

// TokenClaims holds the subset of JWT claims used for display.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// InspectToken decodes the token's claims without verifying the signature.
// Verification belongs to the server; this exists so the CLI can show who is
// signed in and when the session lapses.
func InspectToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Expired reports whether the token carries an expiry in the past.
func (c *TokenClaims) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}
