package eligibility

import (
	"fmt"
	"strings"
)

// Criteria is the qualification rule configuration. It is passed explicitly
// into every evaluation so batch runs stay reproducible; changing it never
// mutates decisions already computed.
type Criteria struct {
	// MinExperienceYears is the years threshold for the experience rule.
	// Equal passes.
	MinExperienceYears float64
	// MaxRate is the hourly rate ceiling. Equal passes.
	MaxRate float64
	// MinHours is the weekly availability floor. Equal passes.
	MinHours float64
	// Tier1Companies satisfy the experience rule regardless of years.
	Tier1Companies []string
	// Tier1Aliases maps alternative employer names onto their tier-1
	// canonical name, e.g. facebook -> meta.
	Tier1Aliases map[string]string
	// AllowedLocations is matched against the personal location after
	// trimming and case folding. Values are expected pre-normalized to
	// country level upstream.
	AllowedLocations []string
}

// Default returns the built-in criteria used when the configuration does not
// override them.
func Default() *Criteria {
	return &Criteria{
		MinExperienceYears: 4,
		MaxRate:            100,
		MinHours:           20,
		Tier1Companies: []string{
			"google", "meta", "openai", "apple", "microsoft", "amazon",
			"netflix", "uber", "airbnb", "stripe", "tesla", "salesforce",
			"adobe", "nvidia", "spacex", "palantir",
		},
		Tier1Aliases: map[string]string{
			"facebook": "meta",
			"alphabet": "google",
		},
		AllowedLocations: []string{
			"us", "usa", "united states", "canada", "uk", "united kingdom",
			"germany", "india",
		},
	}
}

// Validate reports configuration errors. These are the only fatal errors in
// the system and must be surfaced before any applicant is processed.
func (c *Criteria) Validate() error {
	if c.MinExperienceYears < 0 {
		return fmt.Errorf("min experience years must not be negative: %v", c.MinExperienceYears)
	}
	if c.MaxRate <= 0 {
		return fmt.Errorf("max rate must be positive: %v", c.MaxRate)
	}
	if c.MinHours < 0 {
		return fmt.Errorf("min weekly hours must not be negative: %v", c.MinHours)
	}
	if len(c.AllowedLocations) == 0 {
		return fmt.Errorf("allowed locations set must not be empty")
	}
	return nil
}

// tier1Match reports whether the employer belongs to the tier-1 set, either
// directly or through an alias.
func (c *Criteria) tier1Match(employer string) bool {
	name := normalize(employer)
	if name == "" {
		return false
	}

	if canonical, ok := c.Tier1Aliases[name]; ok {
		name = normalize(canonical)
	}

	for _, company := range c.Tier1Companies {
		if normalize(company) == name {
			return true
		}
	}
	return false
}

func (c *Criteria) locationAllowed(location string) bool {
	loc := normalize(location)
	for _, allowed := range c.AllowedLocations {
		if normalize(allowed) == loc {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
