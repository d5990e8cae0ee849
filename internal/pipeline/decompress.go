package pipeline

import (
	"fmt"

	"shortlister/internal/applicant"
)

// IncompleteProfileError is returned when a write-back row set is requested
// for a profile that lacks required sub-blocks.
type IncompleteProfileError struct {
	ApplicantID string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("profile for applicant %s is incomplete and cannot be written back", e.ApplicantID)
}

// Decompress expands a profile back into the row sets the normalized tables
// expect. It is total: incomplete profiles are allowed, and the returned set
// is flagged partial so it cannot be mistaken for write-back material.
// Originating record ids are preserved so the store can update in place;
// rows without one are marked for insert.
func Decompress(profile *applicant.Profile) *applicant.RowSet {
	set := &applicant.RowSet{
		Partial: profile.Status == applicant.StatusIncomplete,
	}

	if profile.Personal != nil {
		set.Personal = &applicant.PersonalRow{
			RecordID:    profile.Personal.RecordID,
			ApplicantID: profile.ApplicantID,
			Name:        profile.Personal.Name,
			Email:       profile.Personal.Email,
			Location:    profile.Personal.Location,
			LinkedIn:    profile.Personal.LinkedIn,
		}
	}

	for _, entry := range profile.Experience {
		set.Experience = append(set.Experience, applicant.ExperienceRow{
			RecordID:    entry.RecordID,
			ApplicantID: profile.ApplicantID,
			Company:     entry.Company,
			Title:       entry.Title,
			Years:       entry.Years,
			Tier1:       entry.Tier1,
		})
	}

	if profile.Preferences != nil {
		set.Preferences = &applicant.PreferenceRow{
			RecordID:           profile.Preferences.RecordID,
			ApplicantID:        profile.ApplicantID,
			RateCeiling:        profile.Preferences.RateCeiling,
			WeeklyHours:        profile.Preferences.WeeklyHours,
			PreferredLocations: profile.Preferences.PreferredLocations,
		}
	}

	return set
}

// DecompressForWriteBack is the strict variant used before persisting:
// incomplete profiles are rejected instead of flagged.
func DecompressForWriteBack(profile *applicant.Profile) (*applicant.RowSet, error) {
	if profile.Status == applicant.StatusIncomplete {
		return nil, &IncompleteProfileError{ApplicantID: profile.ApplicantID}
	}

	return Decompress(profile), nil
}
