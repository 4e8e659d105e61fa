package models

import (
	"testing"
	"time"
)

func TestToggleInvestmentType_SetSemantics(t *testing.T) {
	d := ProfileDraft{PreferredInvestmentTypes: []InvestmentType{TypeStocks, TypeETF}}

	// add
	d.ToggleInvestmentType(TypeCrypto)
	if !d.HasInvestmentType(TypeCrypto) {
		t.Fatal("expected CRYPTO after first toggle")
	}
	if len(d.PreferredInvestmentTypes) != 3 {
		t.Fatalf("set size = %d, want 3", len(d.PreferredInvestmentTypes))
	}

	// remove; other members unaffected
	d.ToggleInvestmentType(TypeCrypto)
	if d.HasInvestmentType(TypeCrypto) {
		t.Fatal("CRYPTO still present after second toggle")
	}
	if !d.HasInvestmentType(TypeStocks) || !d.HasInvestmentType(TypeETF) {
		t.Fatal("toggling one type disturbed the others")
	}
	if len(d.PreferredInvestmentTypes) != 2 {
		t.Fatalf("set size = %d, want 2", len(d.PreferredInvestmentTypes))
	}
}

func TestToggleInvestmentType_NeverDuplicates(t *testing.T) {
	d := ProfileDraft{}
	d.ToggleInvestmentType(TypeStocks)
	d.ToggleInvestmentType(TypeStocks)
	d.ToggleInvestmentType(TypeStocks)
	if len(d.PreferredInvestmentTypes) != 1 {
		t.Fatalf("set size = %d, want 1", len(d.PreferredInvestmentTypes))
	}
}

func TestMissingRequired(t *testing.T) {
	d := ProfileDraft{}
	missing := d.MissingRequired()
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want both required fields", missing)
	}

	exp := ExperienceBeginner
	d.ExperienceLevel = &exp
	missing = d.MissingRequired()
	if len(missing) != 1 || missing[0] != "investment_goal" {
		t.Fatalf("missing = %v, want [investment_goal]", missing)
	}

	goal := GoalRetirement
	d.InvestmentGoal = &goal
	if got := d.MissingRequired(); got != nil {
		t.Fatalf("missing = %v, want none", got)
	}
}

func TestGoalCountdownLabel(t *testing.T) {
	p := Profile{DaysUntilGoal: 90}
	if got := p.GoalCountdownLabel(); got != "90 days" {
		t.Errorf("label = %q", got)
	}

	p = Profile{DaysUntilGoal: -12, IsGoalOverdue: true}
	if got := p.GoalCountdownLabel(); got != "Overdue" {
		t.Errorf("label = %q, want Overdue", got)
	}
}

func TestBoundedProgress_Clamps(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{130, 100},
	}
	for _, tc := range cases {
		p := Profile{ProgressPercentage: tc.in}
		if got := p.BoundedProgress(); got != tc.want {
			t.Errorf("BoundedProgress(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDraftFromProfile_CopiesNotAliases(t *testing.T) {
	dt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Profile{
		ExperienceLevel:          ExperienceAdvanced,
		InvestmentGoal:           GoalHouse,
		PreferredInvestmentTypes: []InvestmentType{TypeStocks},
		GoalTargetAmount:         1000,
		GoalTargetDate:           &dt,
	}
	d := DraftFromProfile(p)

	d.ToggleInvestmentType(TypeCrypto)
	if len(p.PreferredInvestmentTypes) != 1 {
		t.Fatal("draft mutation leaked into the loaded profile")
	}

	*d.GoalTargetAmount = 2000
	if p.GoalTargetAmount != 1000 {
		t.Fatal("draft amount aliases the profile")
	}
}

func TestLoadedProfileDraft_AbsentIsEmpty(t *testing.T) {
	lp := LoadedProfile{}
	if d := lp.Draft(); d.ExperienceLevel != nil || len(d.PreferredInvestmentTypes) != 0 {
		t.Fatalf("absent profile must seed an empty draft, got %+v", d)
	}
}

func TestDraftFromAccount_MutableSubsetOnly(t *testing.T) {
	a := &Account{Email: "a@x.com", RiskTolerance: RiskAggressive, Username: "alice"}
	d := DraftFromAccount(a)

	if d.Email == nil || *d.Email != "a@x.com" {
		t.Errorf("email = %v", d.Email)
	}
	if d.RiskTolerance == nil || *d.RiskTolerance != RiskAggressive {
		t.Errorf("risk = %v", d.RiskTolerance)
	}
	if d.Password != nil || d.SecurityQuestion != nil || d.SecurityAnswer != nil {
		t.Error("write-only fields must start unset")
	}
}
