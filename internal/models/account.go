// Package models defines domain types for the Folio user-management client.
package models

import "time"

// AccountStatus is the server-side lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// RiskTolerance captures the user's stated appetite for investment risk.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "CONSERVATIVE"
	RiskModerate     RiskTolerance = "MODERATE"
	RiskAggressive   RiskTolerance = "AGGRESSIVE"
)

// Account is the authenticated user's core identity and financial record.
// Exactly one exists per user; it is created during registration and is
// always present once a user holds a valid token.
type Account struct {
	UserID          int64         `json:"user_id"`
	Email           string        `json:"email"`
	Username        string        `json:"username"`
	FullName        string        `json:"full_name"`
	IsActive        bool          `json:"is_active"`
	IsEmailVerified bool          `json:"is_email_verified"`
	AccountStatus   AccountStatus `json:"account_status"`
	RiskTolerance   RiskTolerance `json:"risk_tolerance"`
	CurrentBalance  float64       `json:"current_balance"`
	TotalInvested   float64       `json:"total_invested"`
	TotalReturns    float64       `json:"total_returns"`
	NetWorth        float64       `json:"net_worth"`
	Currency        string        `json:"currency"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// AccountDraft is a partial update over the account's mutable subset.
// Nil fields are omitted from the payload and left untouched by the server.
type AccountDraft struct {
	Email            *string        `json:"email,omitempty"`
	Password         *string        `json:"password,omitempty"`
	SecurityQuestion *string        `json:"security_question,omitempty"`
	SecurityAnswer   *string        `json:"security_answer,omitempty"`
	RiskTolerance    *RiskTolerance `json:"risk_tolerance,omitempty"`
}

// DraftFromAccount seeds an edit draft from the account's mutable fields.
// Write-only fields (password, security question/answer) always start unset.
func DraftFromAccount(a *Account) AccountDraft {
	if a == nil {
		return AccountDraft{}
	}
	email := a.Email
	risk := a.RiskTolerance
	return AccountDraft{
		Email:         &email,
		RiskTolerance: &risk,
	}
}

// IsEmpty reports whether the draft contains no populated field.
func (d *AccountDraft) IsEmpty() bool {
	return d.Email == nil && d.Password == nil && d.SecurityQuestion == nil &&
		d.SecurityAnswer == nil && d.RiskTolerance == nil
}
