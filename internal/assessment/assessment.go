// Package assessment adapts the validation engine to scores that arrive with
// grader metadata and flattens the verdict into a presentation-friendly result.
package assessment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/ssbmax/olq-assessor/internal/olq"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

// ErrConfidenceOutOfRange is returned when a grader confidence falls outside 0..100.
var ErrConfidenceOutOfRange = errors.New("confidence out of range")

const (
	SubtitleAutoReject     = "Factor II (Social Adjustment) auto-reject triggered"
	SubtitleTooManyLimits  = "Too many limitations detected"
	SubtitleCritical       = "Critical OLQ weakness found"
	SubtitleInconsistency  = "Factor score inconsistency detected"
	SubtitleBorderline     = "Performance is on the edge of passing"
	SubtitleOnTrack        = "You are on track to meet the SSB selection criteria"
	SubtitleNoScores       = "No scores provided"
	summaryAllCriteriaPass = "Scores pass all validation criteria"
)

// Score is one graded quality: the 1..10 score plus what the grader said about it.
type Score struct {
	Value      int    `json:"score" mapstructure:"score"`
	Confidence int    `json:"confidence" mapstructure:"confidence"`
	Reasoning  string `json:"reasoning,omitempty" mapstructure:"reasoning"`
}

// Result is the flattened verdict consumed by reports and user interfaces.
type Result struct {
	IsValid                bool                `json:"is_valid"`
	EntryType              olq.EntryType       `json:"entry_type"`
	LimitationCount        int                 `json:"limitation_count"`
	MaxLimitations         int                 `json:"max_limitations"`
	LimitationTraits       []olq.Trait         `json:"limitation_traits"`
	ExceedsMaxLimitations  bool                `json:"exceeds_max_limitations"`
	HasCriticalWeakness    bool                `json:"has_critical_weakness"`
	CriticalWeaknessTraits []olq.Trait         `json:"critical_weakness_traits"`
	FactorIIAutoReject     bool                `json:"factor_ii_auto_reject"`
	HasFactorInconsistency bool                `json:"has_factor_inconsistency"`
	InconsistentFactors    []int               `json:"inconsistent_factors"`
	FactorAverages         map[int]float64     `json:"factor_averages"`
	MeanConfidence         validation.Average  `json:"mean_confidence"`
	Recommendation         validation.Outcome  `json:"recommendation"`
	Title                  string              `json:"title"`
	Subtitle               string              `json:"subtitle"`
	Summary                string              `json:"summary"`
	DetailedSummary        string              `json:"detailed_summary"`
	Reasons                []string            `json:"reasons"`
	Scores                 map[olq.Trait]Score `json:"scores"`
}

// ValidateScores strips grader metadata, runs the engine and flattens its report.
func ValidateScores(scores map[olq.Trait]Score, entry olq.EntryType) (*Result, error) {
	raw := make(map[olq.Trait]int, len(scores))
	confidence := make(stats.Float64Data, 0, len(scores))
	echo := make(map[olq.Trait]Score, len(scores))

	for t, s := range scores {
		if s.Confidence < 0 || s.Confidence > 100 {
			return nil, fmt.Errorf("%w: %s confidence %d, expected 0..100", ErrConfidenceOutOfRange, t, s.Confidence)
		}
		raw[t] = s.Value
		confidence = append(confidence, float64(s.Confidence))
		echo[t] = s
	}

	report, err := validation.Validate(raw, entry)
	if err != nil {
		return nil, err
	}

	res := FromReport(report)
	res.Scores = echo
	if m, err := stats.Mean(confidence); err == nil {
		res.MeanConfidence = validation.Average{Value: m, Present: true}
	}
	return res, nil
}

// FromReport flattens an engine report. Grader metadata is left empty.
func FromReport(report *validation.Report) *Result {
	res := &Result{
		IsValid:                report.IsValid,
		EntryType:              report.EntryType,
		LimitationCount:        report.Limitations.Count,
		MaxLimitations:         report.MaxLimitations,
		LimitationTraits:       append([]olq.Trait{}, report.Limitations.Traits...),
		ExceedsMaxLimitations:  report.ExceedsCeiling(),
		HasCriticalWeakness:    report.CriticalWeakness.HasCriticalWeakness(),
		CriticalWeaknessTraits: append([]olq.Trait{}, report.CriticalWeakness.Traits...),
		FactorIIAutoReject:     report.CriticalWeakness.HasAutoReject,
		HasFactorInconsistency: !report.Consistency.IsConsistent,
		InconsistentFactors:    make([]int, 0, len(report.Consistency.InconsistentFactors)),
		FactorAverages:         make(map[int]float64, 4),
		Recommendation:         report.Outcome(),
		Reasons:                report.Recommendation.ReasonTexts(),
		Scores:                 map[olq.Trait]Score{},
	}

	for _, f := range report.Consistency.InconsistentFactors {
		res.InconsistentFactors = append(res.InconsistentFactors, f.Number())
	}
	for _, f := range olq.AllFactors() {
		if avg := report.FactorAverages[f]; avg.Present {
			res.FactorAverages[f.Number()] = avg.Value
		}
	}

	res.Title = Title(res.Recommendation)
	res.Subtitle = subtitle(res, len(report.Scores))
	res.Summary = summary(res, len(report.Scores))
	res.DetailedSummary = detailedSummary(res)
	return res
}

// Title is the display text of an outcome, e.g. "NOT RECOMMENDED".
func Title(o validation.Outcome) string {
	return strings.ReplaceAll(o.String(), "_", " ")
}

// subtitle picks a single explanation in the engine's priority order. When a
// critical weakness and a factor inconsistency co-occur the critical weakness
// wins, matching the order the engine collects its reasons in.
func subtitle(r *Result, scored int) string {
	switch {
	case scored == 0:
		return SubtitleNoScores
	case r.FactorIIAutoReject:
		return SubtitleAutoReject
	case r.ExceedsMaxLimitations:
		return SubtitleTooManyLimits
	case r.HasCriticalWeakness:
		return SubtitleCritical + ": " + strings.Join(olq.DisplayNames(r.CriticalWeaknessTraits), ", ")
	case r.HasFactorInconsistency:
		return SubtitleInconsistency
	case r.Recommendation == validation.Borderline:
		return SubtitleBorderline
	default:
		return SubtitleOnTrack
	}
}

func summary(r *Result, scored int) string {
	if scored == 0 {
		return SubtitleNoScores
	}

	parts := make([]string, 0, 4)
	if r.LimitationCount > 0 {
		parts = append(parts, fmt.Sprintf("%d limitation(s)", r.LimitationCount))
	}
	if r.HasCriticalWeakness {
		parts = append(parts, "Critical OLQ weakness")
	}
	if r.FactorIIAutoReject {
		parts = append(parts, "Factor II auto-reject")
	}
	if r.HasFactorInconsistency {
		parts = append(parts, "Factor inconsistency detected")
	}
	if len(parts) == 0 {
		return summaryAllCriteriaPass
	}
	return strings.Join(parts, "; ")
}

// detailedSummary renders the one-line status, naming at most two critical qualities.
func detailedSummary(r *Result) string {
	critical := "OK"
	if r.HasCriticalWeakness {
		names := r.CriticalWeaknessTraits
		if len(names) > 2 {
			names = names[:2]
		}
		critical = strings.Join(olq.DisplayNames(names), ", ")
	}

	factorII := "OK"
	if r.FactorIIAutoReject {
		factorII = "ALERT"
	}

	return fmt.Sprintf("Limitations: %d/%d, Critical: %s, Factor II: %s",
		r.LimitationCount, r.MaxLimitations, critical, factorII)
}

// LimitationsOK reports whether the limitation count is within the entry type's maximum.
func (r *Result) LimitationsOK() bool {
	return !r.ExceedsMaxLimitations
}
