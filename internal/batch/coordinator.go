package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shortlister/internal/applicant"
	"shortlister/internal/eligibility"
	"shortlister/internal/logger"
	"shortlister/internal/pipeline"
)

// Store is the tabular data store collaborator. Beyond the normalized row
// tables it persists each applicant's outcome: the shortlist decision with
// the consolidated profile, and the enrichment evaluation once present.
type Store interface {
	Rows(ctx context.Context, applicantID string) (*applicant.SourceRows, error)
	WriteBack(ctx context.Context, applicantID string, set *applicant.RowSet) error
	SaveDecision(ctx context.Context, applicantID string, profile *applicant.Profile, decision *eligibility.Decision) error
	SaveEvaluation(ctx context.Context, applicantID string, eval *applicant.Evaluation) error
}

// Enricher scores shortlisted profiles. A nil enricher disables the
// enrichment stage; shortlisted profiles are then written back as-is.
type Enricher interface {
	Enrich(ctx context.Context, p *applicant.Profile, decision *eligibility.Decision) error
}

// Coordinator drives the full pipeline across applicants:
// compress -> evaluate -> enrich -> decompress -> write-back. Applicants are
// processed one at a time; one applicant's failure never affects another.
type Coordinator struct {
	store    Store
	enricher Enricher
	criteria *eligibility.Criteria
	logger   *zap.Logger
}

// New validates the criteria up front: configuration errors are the only
// fatal ones and must surface before any applicant is touched.
func New(store Store, criteria *eligibility.Criteria, enricher Enricher, logger *zap.Logger) (*Coordinator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if criteria == nil {
		criteria = eligibility.Default()
	}
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("invalid criteria: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		store:    store,
		enricher: enricher,
		criteria: criteria,
		logger:   logger,
	}, nil
}

// Run processes every applicant id and aggregates the outcomes. Context
// cancellation stops scheduling new applicants; the applicant in flight
// finishes on its own. Totals are computed only after the loop so the report
// is stable.
func (c *Coordinator) Run(ctx context.Context, applicantIDs []string) *Report {
	report := &Report{
		PerApplicant: make(map[string]*Outcome, len(applicantIDs)),
	}

	for _, id := range applicantIDs {
		if ctx.Err() != nil {
			c.logger.Warn("stopping scheduling of new applicants", zap.Error(ctx.Err()))
			break
		}

		outcome := c.processOne(ctx, id)
		report.PerApplicant[id] = outcome

		if outcome.Err != nil {
			c.logger.Warn("applicant processing failed",
				logger.ApplicantID(id),
				logger.ProfileStatus(string(outcome.Status)),
				zap.Error(outcome.Err),
			)
			continue
		}

		c.logger.Info("applicant processed",
			logger.ApplicantID(id),
			logger.ProfileStatus(string(outcome.Status)),
		)
	}

	report.Totals = tally(report.PerApplicant)

	c.logger.Info("batch completed",
		zap.Int("applicants", report.Totals.Applicants),
		zap.Int("shortlisted", report.Totals.Shortlisted),
		zap.Int("rejected", report.Totals.Rejected),
		zap.Int("enriched", report.Totals.Enriched),
		zap.Int("incomplete", report.Totals.Incomplete),
		zap.Int("errors", report.Totals.Errors),
	)

	return report
}

func (c *Coordinator) processOne(ctx context.Context, id string) *Outcome {
	rows, err := c.store.Rows(ctx, id)
	if err != nil {
		return &Outcome{Err: fmt.Errorf("read rows: %w", err)}
	}

	profile, diags := pipeline.CompressRows(id, rows)
	outcome := &Outcome{Diagnostics: diags, Status: profile.Status}

	for _, diag := range diags {
		c.logger.Warn("compression anomaly", zap.String("diagnostic", diag.String()))
	}

	// Readiness gate: incomplete profiles never reach the engine.
	if profile.Status == applicant.StatusIncomplete {
		return outcome
	}

	decision, err := eligibility.Evaluate(profile, c.criteria)
	if err != nil {
		outcome.Err = fmt.Errorf("evaluate: %w", err)
		return outcome
	}
	outcome.Decision = decision
	outcome.Status = profile.Status

	// The decision is persisted before enrichment so a later failure cannot
	// lose it. A persistence failure is this applicant's problem only.
	if err := c.store.SaveDecision(ctx, id, profile, decision); err != nil {
		outcome.Err = fmt.Errorf("save decision: %w", err)
	}

	if profile.Status == applicant.StatusShortlisted && c.enricher != nil {
		if err := c.enricher.Enrich(ctx, profile, decision); err != nil {
			// Exhausted retries leave the profile shortlisted; the error is
			// recorded and the rows are still written back.
			if outcome.Err == nil {
				outcome.Err = fmt.Errorf("enrich: %w", err)
			}
		}
		outcome.Status = profile.Status
	}

	if profile.Status == applicant.StatusEnriched {
		if err := c.store.SaveEvaluation(ctx, id, profile.Evaluation); err != nil && outcome.Err == nil {
			outcome.Err = fmt.Errorf("save evaluation: %w", err)
		}
	}

	set, err := pipeline.DecompressForWriteBack(profile)
	if err != nil {
		if outcome.Err == nil {
			outcome.Err = fmt.Errorf("decompress: %w", err)
		}
		return outcome
	}

	if err := c.store.WriteBack(ctx, id, set); err != nil {
		if outcome.Err == nil {
			outcome.Err = fmt.Errorf("write-back: %w", err)
		} else {
			c.logger.Warn("write-back failed after earlier error",
				logger.ApplicantID(id),
				zap.Error(err),
			)
		}
	}

	return outcome
}
