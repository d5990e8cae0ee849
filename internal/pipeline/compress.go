package pipeline

import (
	"fmt"
	"time"

	"shortlister/internal/applicant"
)

// Diagnostic records a non-fatal data-integrity anomaly found during
// compression, such as duplicate personal rows for one applicant.
type Diagnostic struct {
	ApplicantID string
	Table       string
	RecordID    string
	Message     string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s/%s]: %s", d.ApplicantID, d.Table, d.RecordID, d.Message)
}

// Compress merges the pre-filtered rows of one applicant into a single
// Profile. It is a total function: partial data yields an incomplete profile
// rather than an error. Duplicate personal or preference rows are resolved
// by taking the most recently modified row; every discarded row produces a
// diagnostic.
func Compress(applicantID string, personal []applicant.PersonalRow, experience []applicant.ExperienceRow, preferences []applicant.PreferenceRow) (*applicant.Profile, []Diagnostic) {
	var diags []Diagnostic

	profile := &applicant.Profile{
		ApplicantID: applicantID,
		Status:      applicant.StatusIncomplete,
	}

	if row, dropped := latestRow(personal, func(r applicant.PersonalRow) rowMeta {
		return rowMeta{r.RecordID, r.ModifiedAt}
	}); row != nil {
		profile.Personal = &applicant.Personal{
			RecordID: row.RecordID,
			Name:     row.Name,
			Email:    row.Email,
			Location: row.Location,
			LinkedIn: row.LinkedIn,
		}
		diags = append(diags, duplicateDiags(applicantID, "personal", dropped)...)
	}

	for _, row := range experience {
		profile.Experience = append(profile.Experience, applicant.Experience{
			RecordID: row.RecordID,
			Company:  row.Company,
			Title:    row.Title,
			Years:    row.Years,
			Tier1:    row.Tier1,
		})
	}

	if row, dropped := latestRow(preferences, func(r applicant.PreferenceRow) rowMeta {
		return rowMeta{r.RecordID, r.ModifiedAt}
	}); row != nil {
		profile.Preferences = &applicant.Preferences{
			RecordID:           row.RecordID,
			RateCeiling:        row.RateCeiling,
			WeeklyHours:        row.WeeklyHours,
			PreferredLocations: row.PreferredLocations,
		}
		diags = append(diags, duplicateDiags(applicantID, "preferences", dropped)...)
	}

	if profile.Ready() {
		profile.Status = applicant.StatusReady
	}

	return profile, diags
}

// CompressRows is a convenience wrapper over Compress for rows grouped as
// read from the store.
func CompressRows(applicantID string, rows *applicant.SourceRows) (*applicant.Profile, []Diagnostic) {
	return Compress(applicantID, rows.Personal, rows.Experience, rows.Preferences)
}

type rowMeta struct {
	recordID string
	modified time.Time
}

// latestRow picks the most recently modified row and returns the record ids
// of the rows it displaced.
func latestRow[T any](rows []T, meta func(T) rowMeta) (*T, []string) {
	if len(rows) == 0 {
		return nil, nil
	}

	best := 0
	for i := 1; i < len(rows); i++ {
		if meta(rows[best]).modified.Before(meta(rows[i]).modified) {
			best = i
		}
	}

	var dropped []string
	for i := range rows {
		if i != best {
			dropped = append(dropped, meta(rows[i]).recordID)
		}
	}

	winner := rows[best]
	return &winner, dropped
}

func duplicateDiags(applicantID, table string, dropped []string) []Diagnostic {
	diags := make([]Diagnostic, 0, len(dropped))
	for _, id := range dropped {
		diags = append(diags, Diagnostic{
			ApplicantID: applicantID,
			Table:       table,
			RecordID:    id,
			Message:     "duplicate row for applicant, most recent kept",
		})
	}
	return diags
}
