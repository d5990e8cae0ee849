package enrich

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"shortlister/internal/applicant"
	"shortlister/internal/backoff"
	"shortlister/internal/eligibility"
	"shortlister/internal/logger"
)

const (
	defaultMaxRetries = 2
	defaultTimeout    = 30 * time.Second
	defaultBackoff    = time.Second
)

// Assessment is the scoring collaborator's response.
type Assessment struct {
	Score   float64
	Summary string
	Raw     string
}

// Scorer is the external scoring collaborator. It may be slow or flaky; the
// orchestrator's retry policy exists to absorb exactly that.
type Scorer interface {
	Score(ctx context.Context, p *applicant.Profile) (*Assessment, error)
}

// EnrichmentValidationError indicates the collaborator returned malformed
// data (or the call failed) and retries were exhausted.
type EnrichmentValidationError struct {
	ApplicantID string
	Attempts    int
	Err         error
}

func (e *EnrichmentValidationError) Error() string {
	return fmt.Sprintf("enrichment for applicant %s failed after %d attempts: %v", e.ApplicantID, e.Attempts, e.Err)
}

func (e *EnrichmentValidationError) Unwrap() error { return e.Err }

// Config bounds a single enrichment call. Zero values fall back to defaults.
type Config struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// means the default; a negative value disables retries entirely.
	MaxRetries int
	// Timeout bounds each collaborator call. A timeout is treated the same
	// as a malformed response.
	Timeout time.Duration
	// Backoff is the base delay between attempts; it doubles per retry.
	Backoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Backoff <= 0 {
		c.Backoff = defaultBackoff
	}
	return c
}

var waitFor = backoff.Wait

// Orchestrator drives enrichment for shortlisted profiles. It holds no state
// across applicants; every Enrich call is independent.
type Orchestrator struct {
	scorer Scorer
	cfg    Config
	logger *zap.Logger
}

func New(scorer Scorer, cfg Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Orchestrator{
		scorer: scorer,
		cfg:    cfg.withDefaults(),
		logger: log,
	}
}

// Enrich scores the profile and merges the result back in. On success the
// evaluation block is stored with the decision's rule trace and the profile
// advances to enriched. On exhausted retries the profile stays shortlisted
// and the failure is returned for per-applicant bookkeeping; it is never
// fatal to the batch.
func (o *Orchestrator) Enrich(ctx context.Context, p *applicant.Profile, decision *eligibility.Decision) error {
	if p.Status != applicant.StatusShortlisted {
		return fmt.Errorf("applicant %s has status %s, only shortlisted profiles are enriched", p.ApplicantID, p.Status)
	}

	attempts := o.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoff.Delay(o.cfg.Backoff, attempt)
			o.logger.Warn("retrying enrichment",
				logger.ApplicantID(p.ApplicantID),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := waitFor(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		assessment, err := o.score(ctx, p)
		if err != nil {
			lastErr = err
			continue
		}

		var trace []applicant.RuleResult
		if decision != nil {
			trace = decision.Reasons
		}

		p.Evaluation = &applicant.Evaluation{
			Score:     assessment.Score,
			Summary:   assessment.Summary,
			RuleTrace: trace,
		}

		if err := p.Advance(applicant.StatusEnriched); err != nil {
			return err
		}

		o.logger.Info("profile enriched",
			logger.ApplicantID(p.ApplicantID),
			zap.Float64("score", assessment.Score),
		)
		return nil
	}

	return &EnrichmentValidationError{
		ApplicantID: p.ApplicantID,
		Attempts:    attempts,
		Err:         lastErr,
	}
}

func (o *Orchestrator) score(ctx context.Context, p *applicant.Profile) (*Assessment, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	assessment, err := o.scorer.Score(callCtx, p)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, fmt.Errorf("scorer returned no assessment")
	}
	if math.IsNaN(assessment.Score) || math.IsInf(assessment.Score, 0) {
		return nil, fmt.Errorf("scorer returned a non-finite score")
	}

	return assessment, nil
}
