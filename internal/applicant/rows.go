package applicant

import "time"

// PersonalRow is one row of the personal-details table. At most one row per
// applicant is expected; duplicates are a data-integrity anomaly resolved by
// the compressor.
type PersonalRow struct {
	RecordID    string    `mapstructure:"-"`
	ApplicantID string    `mapstructure:"Applicant ID"`
	Name        string    `mapstructure:"Full Name"`
	Email       string    `mapstructure:"Email"`
	Location    string    `mapstructure:"Location"`
	LinkedIn    string    `mapstructure:"LinkedIn"`
	ModifiedAt  time.Time `mapstructure:"Last Modified"`
}

// ExperienceRow is one row of the work-experience table.
type ExperienceRow struct {
	RecordID    string    `mapstructure:"-"`
	ApplicantID string    `mapstructure:"Applicant ID"`
	Company     string    `mapstructure:"Company"`
	Title       string    `mapstructure:"Title"`
	Years       float64   `mapstructure:"Years"`
	Tier1       bool      `mapstructure:"Tier-1"`
	ModifiedAt  time.Time `mapstructure:"Last Modified"`
}

// PreferenceRow is one row of the salary/availability preferences table.
type PreferenceRow struct {
	RecordID           string    `mapstructure:"-"`
	ApplicantID        string    `mapstructure:"Applicant ID"`
	RateCeiling        float64   `mapstructure:"Rate Ceiling"`
	WeeklyHours        float64   `mapstructure:"Weekly Hours"`
	PreferredLocations []string  `mapstructure:"Preferred Locations"`
	ModifiedAt         time.Time `mapstructure:"Last Modified"`
}

// SourceRows holds the raw per-table rows of one applicant as read from the
// store, before any anomaly resolution. Duplicate personal or preference
// rows are preserved here so the compressor can resolve and report them.
type SourceRows struct {
	Personal    []PersonalRow
	Experience  []ExperienceRow
	Preferences []PreferenceRow
}

// RowSet is the decompressor output: at most one personal and one preference
// row plus the ordered experience rows, ready for write-back.
type RowSet struct {
	Personal    *PersonalRow
	Experience  []ExperienceRow
	Preferences *PreferenceRow

	// Partial marks a set produced from an incomplete profile. Such sets
	// are fine for inspection but must not be written back.
	Partial bool
}

// NeedsInsert reports whether a row has no originating record and therefore
// must be inserted rather than updated on write-back.
func NeedsInsert(recordID string) bool {
	return recordID == ""
}
