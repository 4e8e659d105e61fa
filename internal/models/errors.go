package models

import (
	"fmt"
	"strings"
)

// TransportError is any non-2xx response not otherwise classified, including
// auth failures (401/403) from a missing or expired token.
type TransportError struct {
	Status   int
	Endpoint string
	Message  string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("folio api: %s (status %d, endpoint %s)", e.Message, e.Status, e.Endpoint)
	}
	return fmt.Sprintf("folio api: status %d, endpoint %s", e.Status, e.Endpoint)
}

// NotFoundError signals a 404 on profile fetch. It marks the profile as
// absent, which is a valid state, not a session failure.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("folio api: not found (endpoint %s)", e.Endpoint)
}

// ValidationError is a rejected profile create/update. Status and Body carry
// the server's detail; a zero Status with Fields set means the draft failed
// local required-field checks before any request was issued.
type ValidationError struct {
	Status int
	Body   string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed: missing %s", strings.Join(e.Fields, ", "))
	}
	if e.Body != "" {
		return fmt.Sprintf("validation failed (status %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("validation failed (status %d)", e.Status)
}

// IsLocal reports whether the error was produced before any network call.
func (e *ValidationError) IsLocal() bool {
	return e.Status == 0
}
