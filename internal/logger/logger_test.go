package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPipelineFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	log.Info("applicant processed",
		ApplicantID("a1"),
		Table("Personal Details"),
		RecordID("recP1"),
		ProfileStatus("shortlisted"),
	)

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldApplicantID] != "a1" {
		t.Fatalf("expected applicant field a1, got %q", ctx[FieldApplicantID])
	}
	if ctx[FieldTable] != "Personal Details" {
		t.Fatalf("expected table field, got %q", ctx[FieldTable])
	}
	if ctx[FieldRecordID] != "recP1" {
		t.Fatalf("expected record field, got %q", ctx[FieldRecordID])
	}
	if ctx[FieldStatus] != "shortlisted" {
		t.Fatalf("expected status field, got %q", ctx[FieldStatus])
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		log, err := New(json, true)
		if err != nil {
			t.Fatalf("creating logger (json=%v): %v", json, err)
		}
		if log == nil {
			t.Fatalf("expected a logger (json=%v)", json)
		}
	}
}
