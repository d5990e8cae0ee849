package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"shortlister/internal/applicant"
	"shortlister/internal/eligibility"
)

func TestTally(t *testing.T) {
	outcomes := map[string]*Outcome{
		"a1": {Status: applicant.StatusEnriched},
		"a2": {Status: applicant.StatusShortlisted, Err: fmt.Errorf("enrich: retries exhausted")},
		"a3": {Status: applicant.StatusRejected},
		"a4": {Status: applicant.StatusIncomplete},
		"a5": {Err: fmt.Errorf("read rows: boom")},
	}

	totals := tally(outcomes)

	want := Totals{Applicants: 5, Incomplete: 1, Shortlisted: 1, Rejected: 1, Enriched: 1, Errors: 2}
	if totals != want {
		t.Fatalf("unexpected totals:\n got %+v\nwant %+v", totals, want)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	report := &Report{
		PerApplicant: map[string]*Outcome{
			"a1": {
				Status: applicant.StatusShortlisted,
				Decision: &eligibility.Decision{
					Eligible: true,
					Reasons:  []applicant.RuleResult{{Rule: "experience", Passed: true, Detail: "5.0 years experience"}},
				},
			},
			"a2": {
				Status: applicant.StatusIncomplete,
			},
		},
	}
	report.Totals = tally(report.PerApplicant)

	filename, err := report.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dumping report: %v", err)
	}
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("reading dumped report: %v", err)
	}

	var view struct {
		PerApplicant map[string]struct {
			Status   string `json:"status"`
			Eligible *bool  `json:"eligible"`
			Summary  string `json:"summary"`
		} `json:"per_applicant"`
		Totals Totals `json:"totals"`
	}
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("parsing dumped report: %v", err)
	}

	if view.Totals.Applicants != 2 || view.Totals.Shortlisted != 1 {
		t.Fatalf("unexpected totals in dump: %+v", view.Totals)
	}

	a1 := view.PerApplicant["a1"]
	if a1.Eligible == nil || !*a1.Eligible {
		t.Fatalf("expected a1 eligible in dump, got %+v", a1)
	}
	if a1.Summary == "" {
		t.Fatal("expected a rendered summary for a1")
	}

	a2 := view.PerApplicant["a2"]
	if a2.Eligible != nil {
		t.Fatalf("no decision means no eligibility in the dump, got %+v", a2)
	}
}
