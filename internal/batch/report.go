package batch

import (
	"encoding/json"
	"os"

	"shortlister/internal/applicant"
	"shortlister/internal/eligibility"
	"shortlister/internal/pipeline"
)

// Outcome is the terminal result of one applicant's pass through the
// pipeline.
type Outcome struct {
	Status      applicant.Status
	Decision    *eligibility.Decision
	Diagnostics []pipeline.Diagnostic
	Err         error
}

// Totals aggregates the batch by terminal status plus an error count.
type Totals struct {
	Applicants  int `json:"applicants"`
	Incomplete  int `json:"incomplete"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Enriched    int `json:"enriched"`
	Errors      int `json:"errors"`
}

// Report is the aggregated result of one batch run.
type Report struct {
	PerApplicant map[string]*Outcome
	Totals       Totals
}

func tally(outcomes map[string]*Outcome) Totals {
	totals := Totals{Applicants: len(outcomes)}

	for _, outcome := range outcomes {
		switch outcome.Status {
		case applicant.StatusIncomplete:
			totals.Incomplete++
		case applicant.StatusShortlisted:
			totals.Shortlisted++
		case applicant.StatusRejected:
			totals.Rejected++
		case applicant.StatusEnriched:
			totals.Enriched++
		}

		if outcome.Err != nil {
			totals.Errors++
		}
	}

	return totals
}

type outcomeView struct {
	Status      applicant.Status       `json:"status"`
	Eligible    *bool                  `json:"eligible,omitempty"`
	Summary     string                 `json:"summary,omitempty"`
	Trace       []applicant.RuleResult `json:"rule_trace,omitempty"`
	Diagnostics []pipeline.Diagnostic  `json:"diagnostics,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

type reportView struct {
	PerApplicant map[string]outcomeView `json:"per_applicant"`
	Totals       Totals                 `json:"totals"`
}

// DumpToTmpFile writes the report as indented JSON to a temporary file and
// returns its name.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "shortlist_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	view := reportView{
		PerApplicant: make(map[string]outcomeView, len(r.PerApplicant)),
		Totals:       r.Totals,
	}

	for id, outcome := range r.PerApplicant {
		entry := outcomeView{
			Status:      outcome.Status,
			Diagnostics: outcome.Diagnostics,
		}
		if outcome.Decision != nil {
			eligible := outcome.Decision.Eligible
			entry.Eligible = &eligible
			entry.Summary = outcome.Decision.Summary()
			entry.Trace = outcome.Decision.Reasons
		}
		if outcome.Err != nil {
			entry.Error = outcome.Err.Error()
		}
		view.PerApplicant[id] = entry
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return "", err
	}
	return file.Name(), nil
}
