package airtable

import (
	"time"

	"github.com/mitchellh/mapstructure"

	"shortlister/internal/applicant"
)

// Column names of the normalized tables. The store itself enforces no
// schema, so these are the single source of truth for field naming.
const (
	fieldApplicantID  = "Applicant ID"
	fieldFullName     = "Full Name"
	fieldEmail        = "Email"
	fieldLocation     = "Location"
	fieldLinkedIn     = "LinkedIn"
	fieldCompany      = "Company"
	fieldTitle        = "Title"
	fieldYears        = "Years"
	fieldTier1        = "Tier-1"
	fieldRateCeiling  = "Rate Ceiling"
	fieldWeeklyHours  = "Weekly Hours"
	fieldPreferredLoc = "Preferred Locations"
)

// Outcome fields written onto the Applicants table and the shortlisted leads
// table once an applicant has been through the pipeline.
const (
	fieldShortlistStatus = "Shortlist Status"
	fieldCompressedJSON  = "Compressed JSON"
	fieldScoreReason     = "Score Reason"
	fieldApplicantLink   = "Applicant"
	fieldLLMSummary      = "LLM Summary"
	fieldLLMScore        = "LLM Score"
)

// Values for the shortlist status field, matching the single select options
// in the base.
const (
	statusValueShortlisted  = "Shortlisted"
	statusValueNotQualified = "Not Qualified"
)

// decodeFields decodes a record's fields map into a typed row, tolerating
// the loose typing Airtable responses carry (numbers as strings, checkbox
// bools) and parsing RFC3339 timestamps.
func decodeFields(rec *Record, out any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(rec.Fields)
}

func personalRowFromRecord(rec *Record) (applicant.PersonalRow, error) {
	var row applicant.PersonalRow
	if err := decodeFields(rec, &row); err != nil {
		return row, err
	}
	row.RecordID = rec.ID
	return row, nil
}

func experienceRowFromRecord(rec *Record) (applicant.ExperienceRow, error) {
	var row applicant.ExperienceRow
	if err := decodeFields(rec, &row); err != nil {
		return row, err
	}
	row.RecordID = rec.ID
	return row, nil
}

func preferenceRowFromRecord(rec *Record) (applicant.PreferenceRow, error) {
	var row applicant.PreferenceRow
	if err := decodeFields(rec, &row); err != nil {
		return row, err
	}
	row.RecordID = rec.ID
	return row, nil
}

func personalFields(row *applicant.PersonalRow) map[string]any {
	return map[string]any{
		fieldApplicantID: row.ApplicantID,
		fieldFullName:    row.Name,
		fieldEmail:       row.Email,
		fieldLocation:    row.Location,
		fieldLinkedIn:    row.LinkedIn,
	}
}

func experienceFields(row *applicant.ExperienceRow) map[string]any {
	return map[string]any{
		fieldApplicantID: row.ApplicantID,
		fieldCompany:     row.Company,
		fieldTitle:       row.Title,
		fieldYears:       row.Years,
		fieldTier1:       row.Tier1,
	}
}

func preferenceFields(row *applicant.PreferenceRow) map[string]any {
	return map[string]any{
		fieldApplicantID:  row.ApplicantID,
		fieldRateCeiling:  row.RateCeiling,
		fieldWeeklyHours:  row.WeeklyHours,
		fieldPreferredLoc: row.PreferredLocations,
	}
}
