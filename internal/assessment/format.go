package assessment

import (
	"fmt"
	"strings"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

const rule = "==============================================================="

// FormatReport renders a plain-text report for logs and terminals.
func FormatReport(r *Result) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(rule)
	line("SSB SCORE VALIDATION REPORT")
	line(rule)
	line("")
	line("RECOMMENDATION: %s", r.Title)
	line("  %s", r.Subtitle)
	line("")
	line("SUMMARY: %s", r.Summary)
	line("STATUS: %s", r.DetailedSummary)
	line("")
	line("DETAILS:")
	line("  - Entry type: %s", r.EntryType)
	line("  - Limitations: %d (maximum %d)", r.LimitationCount, r.MaxLimitations)
	if len(r.LimitationTraits) > 0 {
		line("      %s", strings.Join(olq.DisplayNames(r.LimitationTraits), ", "))
	}
	line("  - Exceeds max limitations: %t", r.ExceedsMaxLimitations)
	line("  - Critical weakness: %t", r.HasCriticalWeakness)
	if len(r.CriticalWeaknessTraits) > 0 {
		line("      %s", strings.Join(olq.DisplayNames(r.CriticalWeaknessTraits), ", "))
	}
	line("  - Factor II auto-reject: %t", r.FactorIIAutoReject)
	line("  - Factor inconsistency: %t", r.HasFactorInconsistency)
	for _, n := range r.InconsistentFactors {
		if f, ok := olq.FactorByNumber(n); ok {
			line("      %s", f.Label())
		}
	}
	if r.MeanConfidence.Present {
		line("  - Mean grader confidence: %.0f%%", r.MeanConfidence.Value)
	}
	line("")
	line("FACTOR AVERAGES:")
	for _, f := range olq.AllFactors() {
		avg, ok := r.FactorAverages[f.Number()]
		if !ok {
			line("  - %s: n/a", f.Label())
			continue
		}
		line("  - %s: %.2f", f.Label(), avg)
	}
	b.WriteString(rule)

	return b.String()
}
