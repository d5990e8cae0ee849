package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Canonical field keys for the pipeline, so per-applicant log lines stay
// greppable from compression through write-back.
const (
	FieldApplicantID = "applicant_id"
	FieldTable       = "table"
	FieldRecordID    = "record_id"
	FieldStatus      = "status"
)

func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	return logger, nil
}

// ApplicantID tags a log entry with the applicant it concerns.
func ApplicantID(id string) zap.Field {
	return zap.String(FieldApplicantID, id)
}

// Table tags a log entry with the source table it concerns.
func Table(name string) zap.Field {
	return zap.String(FieldTable, name)
}

// RecordID tags a log entry with a store record.
func RecordID(id string) zap.Field {
	return zap.String(FieldRecordID, id)
}

// ProfileStatus tags a log entry with a profile lifecycle stage.
func ProfileStatus(status string) zap.Field {
	return zap.String(FieldStatus, status)
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
