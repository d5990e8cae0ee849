package eligibility

import (
	"fmt"
	"strings"

	"shortlister/internal/applicant"
)

// NotReadyError indicates the engine was invoked on a profile that has not
// reached the ready stage. This is a caller sequencing bug, not bad data.
type NotReadyError struct {
	ApplicantID string
	Status      applicant.Status
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("profile for applicant %s is %s, not ready for evaluation", e.ApplicantID, e.Status)
}

// Decision is the outcome of evaluating a profile against the rule set.
// Reasons holds one result per rule, in evaluation order, pass or fail.
type Decision struct {
	Eligible bool
	Reasons  []applicant.RuleResult
}

// Summary renders the decision the way a reviewer reads it.
func (d *Decision) Summary() string {
	verdict := "NOT QUALIFIED"
	if d.Eligible {
		verdict = "QUALIFIED"
	}

	details := make([]string, 0, len(d.Reasons))
	for _, r := range d.Reasons {
		mark := "fail"
		if r.Passed {
			mark = "pass"
		}
		details = append(details, fmt.Sprintf("%s (%s): %s", r.Rule, mark, r.Detail))
	}

	return fmt.Sprintf("%s: %s", verdict, strings.Join(details, "; "))
}

// Evaluate runs every rule against the profile and records the full trace.
// All rules must pass for eligibility. The profile advances to shortlisted
// or rejected accordingly; write-back stays with the caller.
//
// Evaluation is deterministic: the same profile and criteria always produce
// the same decision.
func Evaluate(p *applicant.Profile, c *Criteria) (*Decision, error) {
	if p.Status != applicant.StatusReady {
		return nil, &NotReadyError{ApplicantID: p.ApplicantID, Status: p.Status}
	}

	decision := &Decision{Eligible: true}
	for _, rule := range DefaultRules() {
		result := rule.Check(p, c)
		decision.Reasons = append(decision.Reasons, result)
		if !result.Passed {
			decision.Eligible = false
		}
	}

	next := applicant.StatusRejected
	if decision.Eligible {
		next = applicant.StatusShortlisted
	}
	if err := p.Advance(next); err != nil {
		return nil, err
	}

	return decision, nil
}
