package models

import (
	"fmt"
	"time"
)

// ExperienceLevel is the user's self-reported investing experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "BEGINNER"
	ExperienceIntermediate ExperienceLevel = "INTERMEDIATE"
	ExperienceAdvanced     ExperienceLevel = "ADVANCED"
)

// InvestmentGoal is the primary objective the user is investing toward.
type InvestmentGoal string

const (
	GoalRetirement     InvestmentGoal = "RETIREMENT"
	GoalHouse          InvestmentGoal = "HOUSE"
	GoalEducation      InvestmentGoal = "EDUCATION"
	GoalWealthBuilding InvestmentGoal = "WEALTH_BUILDING"
	GoalPassiveIncome  InvestmentGoal = "PASSIVE_INCOME"
	GoalOther          InvestmentGoal = "OTHER"
)

// PersonalGoal is a personal financial milestone independent of the
// investment goal.
type PersonalGoal string

const (
	PersonalDebtFree        PersonalGoal = "DEBT_FREE"
	PersonalEmergencyFund   PersonalGoal = "EMERGENCY_FUND"
	PersonalTravel          PersonalGoal = "TRAVEL"
	PersonalHomePurchase    PersonalGoal = "HOME_PURCHASE"
	PersonalEarlyRetirement PersonalGoal = "EARLY_RETIREMENT"
	PersonalOther           PersonalGoal = "OTHER"
)

// InvestmentType is one of the fixed set of instrument classes a user can
// mark as preferred.
type InvestmentType string

const (
	TypeStocks      InvestmentType = "STOCKS"
	TypeMutualFunds InvestmentType = "MUTUAL_FUNDS"
	TypeETF         InvestmentType = "ETF"
	TypeCrypto      InvestmentType = "CRYPTO"
)

// AllInvestmentTypes is the closed set offered by the preferences editor.
var AllInvestmentTypes = []InvestmentType{TypeStocks, TypeMutualFunds, TypeETF, TypeCrypto}

// Profile is the optional investment-preferences record tied 1:1 to an
// Account. ProgressPercentage, DaysUntilGoal and IsGoalOverdue are computed
// by the server from the goal targets and are never re-derived here.
type Profile struct {
	ID                       int64            `json:"id"`
	UserID                   int64            `json:"user_id"`
	ExperienceLevel          ExperienceLevel  `json:"experience_level"`
	InvestmentGoal           InvestmentGoal   `json:"investment_goal"`
	PersonalGoal             PersonalGoal     `json:"personal_goal,omitempty"`
	PreferredInvestmentTypes []InvestmentType `json:"preferred_investment_types,omitempty"`
	GoalTargetAmount         float64          `json:"goal_target_amount,omitempty"`
	GoalTargetDate           *time.Time       `json:"goal_target_date,omitempty"`
	PersonalGoalAmount       float64          `json:"personal_goal_amount,omitempty"`
	PersonalGoalDescription  string           `json:"personal_goal_description,omitempty"`
	LearningProgress         int              `json:"learning_progress"`
	ProgressPercentage       float64          `json:"progress_percentage"`
	DaysUntilGoal            int              `json:"days_until_goal"`
	IsGoalOverdue            bool             `json:"is_goal_overdue"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

// GoalCountdownLabel renders the server-computed goal countdown for display:
// "Overdue" when the overdue flag is set, otherwise the signed day count.
func (p *Profile) GoalCountdownLabel() string {
	if p.IsGoalOverdue {
		return "Overdue"
	}
	return fmt.Sprintf("%d days", p.DaysUntilGoal)
}

// BoundedProgress clamps the progress percentage to [0,100] for rendering.
// The stored value is left as the server reported it.
func (p *Profile) BoundedProgress() float64 {
	switch {
	case p.ProgressPercentage < 0:
		return 0
	case p.ProgressPercentage > 100:
		return 100
	}
	return p.ProgressPercentage
}

// LoadedProfile is the tagged optional-profile state. Absence of a profile
// is a normal condition, distinct from any fetch failure, and all display
// and save-path decisions branch on Present rather than on nil checks.
type LoadedProfile struct {
	Present bool
	Profile Profile
}

// Draft seeds an edit draft: all fields when a profile is present, an empty
// draft otherwise.
func (lp LoadedProfile) Draft() ProfileDraft {
	if !lp.Present {
		return ProfileDraft{}
	}
	return DraftFromProfile(&lp.Profile)
}

// ProfileDraft is a partial view of the profile's editable fields. Nil
// fields are omitted from serialized payloads, giving partial-patch
// semantics on update.
type ProfileDraft struct {
	ExperienceLevel          *ExperienceLevel `json:"experience_level,omitempty"`
	InvestmentGoal           *InvestmentGoal  `json:"investment_goal,omitempty"`
	PersonalGoal             *PersonalGoal    `json:"personal_goal,omitempty"`
	PreferredInvestmentTypes []InvestmentType `json:"preferred_investment_types,omitempty"`
	GoalTargetAmount         *float64         `json:"goal_target_amount,omitempty"`
	GoalTargetDate           *time.Time       `json:"goal_target_date,omitempty"`
	PersonalGoalAmount       *float64         `json:"personal_goal_amount,omitempty"`
	PersonalGoalDescription  *string          `json:"personal_goal_description,omitempty"`
}

// DraftFromProfile seeds a draft from every editable profile field.
func DraftFromProfile(p *Profile) ProfileDraft {
	if p == nil {
		return ProfileDraft{}
	}
	exp := p.ExperienceLevel
	goal := p.InvestmentGoal
	d := ProfileDraft{
		ExperienceLevel: &exp,
		InvestmentGoal:  &goal,
	}
	if p.PersonalGoal != "" {
		pg := p.PersonalGoal
		d.PersonalGoal = &pg
	}
	if len(p.PreferredInvestmentTypes) > 0 {
		d.PreferredInvestmentTypes = append([]InvestmentType(nil), p.PreferredInvestmentTypes...)
	}
	if p.GoalTargetAmount != 0 {
		amt := p.GoalTargetAmount
		d.GoalTargetAmount = &amt
	}
	if p.GoalTargetDate != nil {
		dt := *p.GoalTargetDate
		d.GoalTargetDate = &dt
	}
	if p.PersonalGoalAmount != 0 {
		amt := p.PersonalGoalAmount
		d.PersonalGoalAmount = &amt
	}
	if p.PersonalGoalDescription != "" {
		desc := p.PersonalGoalDescription
		d.PersonalGoalDescription = &desc
	}
	return d
}

// HasInvestmentType reports whether the draft's preferred set contains t.
func (d *ProfileDraft) HasInvestmentType(t InvestmentType) bool {
	for _, v := range d.PreferredInvestmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ToggleInvestmentType adds t to the preferred set if absent, removes it if
// present. The set never holds duplicates and other members are unaffected.
func (d *ProfileDraft) ToggleInvestmentType(t InvestmentType) {
	for i, v := range d.PreferredInvestmentTypes {
		if v == t {
			d.PreferredInvestmentTypes = append(d.PreferredInvestmentTypes[:i], d.PreferredInvestmentTypes[i+1:]...)
			return
		}
	}
	d.PreferredInvestmentTypes = append(d.PreferredInvestmentTypes, t)
}

// MissingRequired returns the names of required fields absent from the
// draft. A profile save needs experience_level and investment_goal.
func (d *ProfileDraft) MissingRequired() []string {
	var missing []string
	if d.ExperienceLevel == nil {
		missing = append(missing, "experience_level")
	}
	if d.InvestmentGoal == nil {
		missing = append(missing, "investment_goal")
	}
	return missing
}
