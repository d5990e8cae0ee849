package airtable

import (
	"reflect"
	"testing"
	"time"
)

func TestDecodePersonalRow(t *testing.T) {
	rec := &Record{
		ID: "recP1",
		Fields: map[string]any{
			"Applicant ID":  "a1",
			"Full Name":     "Jane Roe",
			"Email":         "jane@example.com",
			"Location":      "US",
			"LinkedIn":      "https://linkedin.com/in/janeroe",
			"Last Modified": "2026-01-02T03:04:05Z",
		},
	}

	row, err := personalRowFromRecord(rec)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if row.RecordID != "recP1" {
		t.Fatalf("expected record id recP1, got %q", row.RecordID)
	}
	if row.ApplicantID != "a1" || row.Name != "Jane Roe" {
		t.Fatalf("unexpected row: %+v", row)
	}

	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if !row.ModifiedAt.Equal(want) {
		t.Fatalf("expected modified at %s, got %s", want, row.ModifiedAt)
	}
}

func TestDecodeExperienceRowToleratesLooseTypes(t *testing.T) {
	rec := &Record{
		ID: "recE1",
		Fields: map[string]any{
			"Applicant ID": "a1",
			"Company":      "Acme",
			"Title":        "Engineer",
			"Years":        "5.5",
			"Tier-1":       true,
		},
	}

	row, err := experienceRowFromRecord(rec)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if row.Years != 5.5 {
		t.Fatalf("string-typed years must coerce, got %v", row.Years)
	}
	if !row.Tier1 {
		t.Fatal("expected tier-1 flag set")
	}
}

func TestDecodePreferenceRow(t *testing.T) {
	rec := &Record{
		ID: "recS1",
		Fields: map[string]any{
			"Applicant ID":        "a1",
			"Rate Ceiling":        float64(95),
			"Weekly Hours":        float64(25),
			"Preferred Locations": []any{"US", "Canada"},
		},
	}

	row, err := preferenceRowFromRecord(rec)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if row.RateCeiling != 95 || row.WeeklyHours != 25 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if !reflect.DeepEqual(row.PreferredLocations, []string{"US", "Canada"}) {
		t.Fatalf("unexpected preferred locations: %v", row.PreferredLocations)
	}
}

func TestFieldMapsRoundTrip(t *testing.T) {
	rec := &Record{
		ID: "recE1",
		Fields: map[string]any{
			"Applicant ID": "a1",
			"Company":      "Acme",
			"Title":        "Engineer",
			"Years":        float64(5),
			"Tier-1":       true,
		},
	}

	row, err := experienceRowFromRecord(rec)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	fields := experienceFields(&row)
	if !reflect.DeepEqual(fields, rec.Fields) {
		t.Fatalf("fields changed across the round trip:\n got %+v\nwant %+v", fields, rec.Fields)
	}
}
