package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shortlister/internal/applicant"
	"shortlister/internal/eligibility"
	"shortlister/internal/logger"
)

// Tables names the normalized tables in the base plus the shortlisted leads
// table the pipeline writes into.
type Tables struct {
	Applicants  string
	Personal    string
	Experience  string
	Preferences string
	Shortlisted string
}

func DefaultTables() Tables {
	return Tables{
		Applicants:  "Applicants",
		Personal:    "Personal Details",
		Experience:  "Work Experience",
		Preferences: "Salary Preferences",
		Shortlisted: "Shortlisted Leads",
	}
}

// WriteFailure is one rejected table write during write-back.
type WriteFailure struct {
	Table    string
	RecordID string
	Err      error
}

// WriteBackError reports a partially failed write-back. The per-table writes
// are independent and carry no transaction guarantee, so successful writes
// are reported alongside the failures instead of being silently dropped.
type WriteBackError struct {
	ApplicantID string
	Written     int
	Failures    []WriteFailure
}

func (e *WriteBackError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s/%s: %v", f.Table, f.RecordID, f.Err))
	}
	return fmt.Sprintf("write-back for applicant %s: %d rows written, %d failed (%s)",
		e.ApplicantID, e.Written, len(e.Failures), strings.Join(parts, "; "))
}

// Store adapts the Airtable client to the batch coordinator's collaborator
// interface: reading an applicant's normalized rows and writing them back.
type Store struct {
	client *Client
	tables Tables
	logger *zap.Logger
}

func NewStore(client *Client, tables Tables, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		client: client,
		tables: tables,
		logger: logger,
	}
}

// ApplicantIDs lists every applicant identifier known to the base.
func (s *Store) ApplicantIDs(ctx context.Context) ([]string, error) {
	records, err := s.client.ListRecords(ctx, s.tables.Applicants)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id := recordApplicantID(rec)
		if id == "" {
			s.logger.Warn("applicant record without applicant id", logger.RecordID(rec.ID))
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Rows reads the applicant's rows from all three normalized tables. The
// filtering happens client-side; duplicates are preserved for the compressor
// to resolve and report.
func (s *Store) Rows(ctx context.Context, applicantID string) (*applicant.SourceRows, error) {
	rows := &applicant.SourceRows{}

	personal, err := s.client.ListRecords(ctx, s.tables.Personal)
	if err != nil {
		return nil, err
	}
	for _, rec := range matchApplicant(personal, applicantID) {
		row, err := personalRowFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decode personal row %s: %w", rec.ID, err)
		}
		rows.Personal = append(rows.Personal, row)
	}

	experience, err := s.client.ListRecords(ctx, s.tables.Experience)
	if err != nil {
		return nil, err
	}
	for _, rec := range matchApplicant(experience, applicantID) {
		row, err := experienceRowFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decode experience row %s: %w", rec.ID, err)
		}
		rows.Experience = append(rows.Experience, row)
	}

	preferences, err := s.client.ListRecords(ctx, s.tables.Preferences)
	if err != nil {
		return nil, err
	}
	for _, rec := range matchApplicant(preferences, applicantID) {
		row, err := preferenceRowFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decode preference row %s: %w", rec.ID, err)
		}
		rows.Preferences = append(rows.Preferences, row)
	}

	return rows, nil
}

// WriteBack persists a decompressed row set. Rows carrying a record id are
// patched in place, the rest are inserted. Every write is independent; all
// failures are collected into a single WriteBackError.
func (s *Store) WriteBack(ctx context.Context, applicantID string, set *applicant.RowSet) error {
	if set.Partial {
		return fmt.Errorf("refusing to write back partial row set for applicant %s", applicantID)
	}

	written := 0
	var failures []WriteFailure

	if set.Personal != nil {
		if err := s.writeRow(ctx, s.tables.Personal, set.Personal.RecordID, personalFields(set.Personal)); err != nil {
			failures = append(failures, WriteFailure{Table: s.tables.Personal, RecordID: set.Personal.RecordID, Err: err})
		} else {
			written++
		}
	}

	for i := range set.Experience {
		row := &set.Experience[i]
		if err := s.writeRow(ctx, s.tables.Experience, row.RecordID, experienceFields(row)); err != nil {
			failures = append(failures, WriteFailure{Table: s.tables.Experience, RecordID: row.RecordID, Err: err})
		} else {
			written++
		}
	}

	if set.Preferences != nil {
		if err := s.writeRow(ctx, s.tables.Preferences, set.Preferences.RecordID, preferenceFields(set.Preferences)); err != nil {
			failures = append(failures, WriteFailure{Table: s.tables.Preferences, RecordID: set.Preferences.RecordID, Err: err})
		} else {
			written++
		}
	}

	if len(failures) > 0 {
		return &WriteBackError{ApplicantID: applicantID, Written: written, Failures: failures}
	}

	s.logger.Debug("write-back completed", logger.ApplicantID(applicantID), zap.Int("rows", written))

	return nil
}

// SaveDecision records the eligibility outcome on the applicant's record:
// the shortlist status, the consolidated profile JSON, and for qualified
// applicants a new shortlisted lead row linking back to the applicant.
func (s *Store) SaveDecision(ctx context.Context, applicantID string, profile *applicant.Profile, decision *eligibility.Decision) error {
	rec, err := s.applicantRecord(ctx, applicantID)
	if err != nil {
		return err
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile for applicant %s: %w", applicantID, err)
	}

	status := statusValueNotQualified
	if decision.Eligible {
		status = statusValueShortlisted
	}

	if _, err := s.client.UpdateRecord(ctx, s.tables.Applicants, rec.ID, map[string]any{
		fieldShortlistStatus: status,
		fieldCompressedJSON:  string(profileJSON),
	}); err != nil {
		return fmt.Errorf("save decision for applicant %s: %w", applicantID, err)
	}

	if !decision.Eligible {
		return nil
	}

	if _, err := s.client.CreateRecord(ctx, s.tables.Shortlisted, map[string]any{
		fieldApplicantLink:  []string{rec.ID},
		fieldCompressedJSON: string(profileJSON),
		fieldScoreReason:    decision.Summary(),
	}); err != nil {
		return fmt.Errorf("create shortlisted lead for applicant %s: %w", applicantID, err)
	}

	s.logger.Debug("shortlisted lead created", logger.ApplicantID(applicantID), logger.RecordID(rec.ID))

	return nil
}

// SaveEvaluation records the enrichment result on the applicant's record.
func (s *Store) SaveEvaluation(ctx context.Context, applicantID string, eval *applicant.Evaluation) error {
	rec, err := s.applicantRecord(ctx, applicantID)
	if err != nil {
		return err
	}

	if _, err := s.client.UpdateRecord(ctx, s.tables.Applicants, rec.ID, map[string]any{
		fieldLLMSummary: eval.Summary,
		fieldLLMScore:   eval.Score,
	}); err != nil {
		return fmt.Errorf("save evaluation for applicant %s: %w", applicantID, err)
	}

	return nil
}

func (s *Store) applicantRecord(ctx context.Context, applicantID string) (*Record, error) {
	records, err := s.client.ListRecords(ctx, s.tables.Applicants)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if recordApplicantID(rec) == applicantID {
			return rec, nil
		}
	}

	return nil, fmt.Errorf("applicant %s not found in %q", applicantID, s.tables.Applicants)
}

func (s *Store) writeRow(ctx context.Context, table, recordID string, fields map[string]any) error {
	if applicant.NeedsInsert(recordID) {
		_, err := s.client.CreateRecord(ctx, table, fields)
		return err
	}

	_, err := s.client.UpdateRecord(ctx, table, recordID, fields)
	return err
}

func matchApplicant(records []*Record, applicantID string) []*Record {
	matched := make([]*Record, 0, len(records))
	for _, rec := range records {
		if recordApplicantID(rec) == applicantID {
			matched = append(matched, rec)
		}
	}
	return matched
}

// recordApplicantID tolerates both plain string columns and Airtable linked
// record arrays for the applicant id field.
func recordApplicantID(rec *Record) string {
	switch v := rec.Fields[fieldApplicantID].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		if s, ok := v[0].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
