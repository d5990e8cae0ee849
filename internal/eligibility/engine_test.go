package eligibility

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"shortlister/internal/applicant"
)

// readyProfile builds a profile that passes every default rule.
func readyProfile() *applicant.Profile {
	return &applicant.Profile{
		ApplicantID: "a1",
		Personal: &applicant.Personal{
			Name:     "Jane Roe",
			Email:    "jane@example.com",
			Location: "US",
		},
		Experience: []applicant.Experience{
			{Company: "Acme", Title: "Engineer", Years: 5},
		},
		Preferences: &applicant.Preferences{
			RateCeiling: 90,
			WeeklyHours: 30,
		},
		Status: applicant.StatusReady,
	}
}

func TestEvaluateShortlistsQualifiedApplicant(t *testing.T) {
	p := readyProfile()

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}

	if !decision.Eligible {
		t.Fatalf("expected eligible, trace: %+v", decision.Reasons)
	}
	if p.Status != applicant.StatusShortlisted {
		t.Fatalf("expected status shortlisted, got %s", p.Status)
	}
}

func TestEvaluateRejectsOverRateApplicant(t *testing.T) {
	p := readyProfile()
	p.Preferences.RateCeiling = 150

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}

	if decision.Eligible {
		t.Fatal("expected not eligible")
	}
	if p.Status != applicant.StatusRejected {
		t.Fatalf("expected status rejected, got %s", p.Status)
	}
}

func TestEvaluateRecordsFullTrace(t *testing.T) {
	p := readyProfile()
	p.Experience = []applicant.Experience{{Company: "Acme", Years: 1}}
	p.Preferences.RateCeiling = 150
	p.Personal.Location = "Brazil"

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}

	if len(decision.Reasons) != 4 {
		t.Fatalf("every rule must appear in the trace even after a failure, got %d results", len(decision.Reasons))
	}

	order := []string{"experience", "rate", "availability", "location"}
	passed := []bool{false, false, true, false}
	for i, r := range decision.Reasons {
		if r.Rule != order[i] {
			t.Fatalf("trace position %d: expected rule %s, got %s", i, order[i], r.Rule)
		}
		if r.Passed != passed[i] {
			t.Fatalf("rule %s: expected passed=%v, detail: %s", r.Rule, passed[i], r.Detail)
		}
	}
}

func TestEvaluateBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(p *applicant.Profile)
		eligible bool
	}{
		{"rate equal to ceiling passes", func(p *applicant.Profile) { p.Preferences.RateCeiling = 100 }, true},
		{"rate just over ceiling fails", func(p *applicant.Profile) { p.Preferences.RateCeiling = 100.01 }, false},
		{"years equal to minimum passes", func(p *applicant.Profile) { p.Experience[0].Years = 4 }, true},
		{"years just under minimum fails", func(p *applicant.Profile) { p.Experience[0].Years = 3.99 }, false},
		{"hours equal to minimum passes", func(p *applicant.Profile) { p.Preferences.WeeklyHours = 20 }, true},
		{"hours just under minimum fails", func(p *applicant.Profile) { p.Preferences.WeeklyHours = 19.5 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := readyProfile()
			tc.mutate(p)

			decision, err := Evaluate(p, Default())
			if err != nil {
				t.Fatalf("evaluating: %v", err)
			}
			if decision.Eligible != tc.eligible {
				t.Fatalf("expected eligible=%v, summary: %s", tc.eligible, decision.Summary())
			}
		})
	}
}

func TestEvaluateTier1EmployerWaivesYears(t *testing.T) {
	p := readyProfile()
	p.Experience = []applicant.Experience{{Company: "Google", Title: "Intern", Years: 0.5}}

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}

	if !decision.Eligible {
		t.Fatalf("tier-1 employer must satisfy the experience rule: %s", decision.Summary())
	}
	if !strings.Contains(decision.Reasons[0].Detail, "Google") {
		t.Fatalf("expected the tier-1 employer in the detail, got %q", decision.Reasons[0].Detail)
	}
}

func TestEvaluateTier1AliasAndFlag(t *testing.T) {
	p := readyProfile()
	p.Experience = []applicant.Experience{{Company: "Facebook", Years: 1}}

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if !decision.Eligible {
		t.Fatalf("aliased tier-1 employer must pass: %s", decision.Summary())
	}

	flagged := readyProfile()
	flagged.Experience = []applicant.Experience{{Company: "Obscure Startup", Years: 1, Tier1: true}}

	decision, err = Evaluate(flagged, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if !decision.Eligible {
		t.Fatalf("tier-1 flag on the row must pass: %s", decision.Summary())
	}
}

func TestEvaluateLocationIsCaseAndSpaceInsensitive(t *testing.T) {
	p := readyProfile()
	p.Personal.Location = "  United States "

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if !decision.Eligible {
		t.Fatalf("location matching must trim and fold case: %s", decision.Summary())
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	first, err := Evaluate(readyProfile(), Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	second, err := Evaluate(readyProfile(), Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must produce identical decisions:\n got %+v\nwant %+v", second, first)
	}
}

func TestEvaluateRejectsNonReadyProfile(t *testing.T) {
	p := readyProfile()
	p.Status = applicant.StatusIncomplete

	_, err := Evaluate(p, Default())
	if err == nil {
		t.Fatal("expected error for a profile that is not ready")
	}

	var notReady *NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("expected NotReadyError, got %T: %v", err, err)
	}
	if notReady.Status != applicant.StatusIncomplete {
		t.Fatalf("unexpected status in error: %s", notReady.Status)
	}
}

func TestDecisionSummary(t *testing.T) {
	p := readyProfile()
	p.Preferences.RateCeiling = 150

	decision, err := Evaluate(p, Default())
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}

	summary := decision.Summary()
	if !strings.HasPrefix(summary, "NOT QUALIFIED: ") {
		t.Fatalf("expected a NOT QUALIFIED verdict, got %q", summary)
	}
	if !strings.Contains(summary, "rate (fail)") || !strings.Contains(summary, "experience (pass)") {
		t.Fatalf("expected per-rule marks in the summary, got %q", summary)
	}
}

func TestCriteriaValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default criteria must validate: %v", err)
	}

	bad := Default()
	bad.MaxRate = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for a non-positive rate ceiling")
	}

	bad = Default()
	bad.AllowedLocations = nil
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for an empty allowed locations set")
	}
}
