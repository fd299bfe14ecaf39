package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldEntryType is the structured log field key for the candidate entry type.
	FieldEntryType = "entry_type"
	// FieldOutcome is the structured log field key for the recommendation outcome.
	FieldOutcome = "outcome"
	// FieldCandidate is the structured log field key for the score sheet ID.
	FieldCandidate = "candidate"
	// FieldReasoning is the structured log field key for a grader reasoning preview.
	FieldReasoning = "reasoning"
)

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// AssessmentFields describes a verdict. Callers pass the String() of the entry
// type and outcome so this package stays free of engine imports. Blank values
// are left out.
func AssessmentFields(entryType, outcome string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if v := strings.TrimSpace(entryType); v != "" {
		fields = append(fields, zap.String(FieldEntryType, v))
	}
	if v := strings.TrimSpace(outcome); v != "" {
		fields = append(fields, zap.String(FieldOutcome, v))
	}
	return fields
}

// WithAssessmentFields attaches the entry type and outcome to l.
func WithAssessmentFields(l *zap.Logger, entryType, outcome string) *zap.Logger {
	l = OrNop(l)
	if fields := AssessmentFields(entryType, outcome); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

// CandidateField names the score sheet a log entry is about.
func CandidateField(id string) zap.Field {
	return zap.String(FieldCandidate, id)
}

// ReasoningField carries grader reasoning cut to limit runes.
func ReasoningField(reasoning string, limit int) zap.Field {
	return zap.String(FieldReasoning, TruncateForLog(reasoning, limit))
}

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
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
