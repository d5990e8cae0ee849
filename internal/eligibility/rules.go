package eligibility

import (
	"fmt"

	"shortlister/internal/applicant"
)

// Rule is a single qualification check. Rules are independent: every rule is
// evaluated and recorded in the decision trace even when an earlier one has
// already failed.
type Rule interface {
	Name() string
	Check(p *applicant.Profile, c *Criteria) applicant.RuleResult
}

// DefaultRules returns the rule set in its canonical evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		experienceRule{},
		rateRule{},
		availabilityRule{},
		locationRule{},
	}
}

type experienceRule struct{}

func (experienceRule) Name() string { return "experience" }

func (experienceRule) Check(p *applicant.Profile, c *Criteria) applicant.RuleResult {
	years := p.MaxYears()
	if years >= c.MinExperienceYears {
		return applicant.RuleResult{
			Rule:   "experience",
			Passed: true,
			Detail: fmt.Sprintf("%.1f years experience", years),
		}
	}

	for _, entry := range p.Experience {
		if entry.Tier1 || c.tier1Match(entry.Company) {
			return applicant.RuleResult{
				Rule:   "experience",
				Passed: true,
				Detail: fmt.Sprintf("tier-1 employer %s", entry.Company),
			}
		}
	}

	return applicant.RuleResult{
		Rule:   "experience",
		Passed: false,
		Detail: fmt.Sprintf("%.1f years experience, no tier-1 employer", years),
	}
}

type rateRule struct{}

func (rateRule) Name() string { return "rate" }

func (rateRule) Check(p *applicant.Profile, c *Criteria) applicant.RuleResult {
	rate := p.Preferences.RateCeiling
	return applicant.RuleResult{
		Rule:   "rate",
		Passed: rate <= c.MaxRate,
		Detail: fmt.Sprintf("rate $%v/hr against ceiling $%v/hr", rate, c.MaxRate),
	}
}

type availabilityRule struct{}

func (availabilityRule) Name() string { return "availability" }

func (availabilityRule) Check(p *applicant.Profile, c *Criteria) applicant.RuleResult {
	hours := p.Preferences.WeeklyHours
	return applicant.RuleResult{
		Rule:   "availability",
		Passed: hours >= c.MinHours,
		Detail: fmt.Sprintf("%v hrs/week against minimum %v", hours, c.MinHours),
	}
}

type locationRule struct{}

func (locationRule) Name() string { return "location" }

func (locationRule) Check(p *applicant.Profile, c *Criteria) applicant.RuleResult {
	location := p.Personal.Location
	return applicant.RuleResult{
		Rule:   "location",
		Passed: c.locationAllowed(location),
		Detail: fmt.Sprintf("located in %s", location),
	}
}
