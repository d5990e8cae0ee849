package applicant

import "fmt"

// Status is the lifecycle stage of a Profile. Transitions are monotonic:
// incomplete -> ready -> {shortlisted, rejected} -> enriched, where enriched
// is reachable only from shortlisted.
type Status string

const (
	StatusIncomplete  Status = "incomplete"
	StatusReady       Status = "ready"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusEnriched    Status = "enriched"
)

// transitions holds the allowed next stages for every stage.
var transitions = map[Status][]Status{
	StatusIncomplete:  {StatusReady},
	StatusReady:       {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusEnriched},
	StatusRejected:    {},
	StatusEnriched:    {},
}

// Profile is the canonical consolidated applicant record. It is built by the
// compressor from current source rows on every processing pass and discarded
// once write-back completes.
type Profile struct {
	ApplicantID string       `json:"applicant_id"`
	Personal    *Personal    `json:"personal,omitempty"`
	Experience  []Experience `json:"experience"`
	Preferences *Preferences `json:"preferences,omitempty"`
	Status      Status       `json:"status"`
	Evaluation  *Evaluation  `json:"evaluation,omitempty"`
}

// Personal holds the applicant's single personal-details block.
type Personal struct {
	// RecordID points at the source row this block was built from. Empty
	// when the block never existed in the store (insert on write-back).
	RecordID string `json:"record_id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience is one work-history entry. Order in Profile.Experience is the
// source order and is preserved through compress/decompress.
type Experience struct {
	RecordID string  `json:"record_id,omitempty"`
	Company  string  `json:"company"`
	Title    string  `json:"title,omitempty"`
	Years    float64 `json:"years"`
	Tier1    bool    `json:"tier1,omitempty"`
}

// Preferences holds the applicant's single salary/availability block.
type Preferences struct {
	RecordID           string   `json:"record_id,omitempty"`
	RateCeiling        float64  `json:"rate_ceiling"`
	WeeklyHours        float64  `json:"weekly_hours"`
	PreferredLocations []string `json:"preferred_locations,omitempty"`
}

// Evaluation is set only after successful enrichment.
type Evaluation struct {
	Score     float64      `json:"score"`
	Summary   string       `json:"summary"`
	RuleTrace []RuleResult `json:"rule_trace,omitempty"`
}

// RuleResult records the outcome of a single qualification rule.
type RuleResult struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Advance moves the profile to the next lifecycle stage. Skipping a stage or
// reversing one is rejected.
func (p *Profile) Advance(next Status) error {
	for _, allowed := range transitions[p.Status] {
		if allowed == next {
			p.Status = next
			return nil
		}
	}

	return fmt.Errorf("invalid status transition for applicant %s: %s -> %s", p.ApplicantID, p.Status, next)
}

// Ready reports whether all required sub-blocks are present.
func (p *Profile) Ready() bool {
	return p.Personal != nil && p.Preferences != nil && len(p.Experience) > 0
}

// MaxYears returns the largest years value across experience entries.
func (p *Profile) MaxYears() float64 {
	max := 0.0
	for _, e := range p.Experience {
		if e.Years > max {
			max = e.Years
		}
	}
	return max
}
