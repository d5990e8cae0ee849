package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"shortlister/internal/applicant"
	"shortlister/internal/enrich"
	"shortlister/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer builds the applicant scoring prompt, calls Gemini and parses the
// structured response into an enrichment assessment.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewScorer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (s *Scorer) Score(ctx context.Context, p *applicant.Profile) (*enrich.Assessment, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}

	profileJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	prompt := buildPrompt(string(profileJSON))

	s.logger.Debug("gemini generate content request",
		logger.ApplicantID(p.ApplicantID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		logger.ApplicantID(p.ApplicantID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(profileJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Applicant Profile JSON:\n{{PROFILE_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
}

func parseResponse(raw string) (*enrich.Assessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, fmt.Errorf("gemini response has no usable score")
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		return nil, fmt.Errorf("gemini response has no summary")
	}

	return &enrich.Assessment{
		Score:   score,
		Summary: summary,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
