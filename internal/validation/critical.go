package validation

import (
	"fmt"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

// CriticalWeaknessResult combines the per-quality critical flag with the
// Factor II auto-reject rule.
type CriticalWeaknessResult struct {
	Traits           []olq.Trait       `json:"traits"`
	Scores           map[olq.Trait]int `json:"scores"`
	FactorIIAverage  Average           `json:"factor_ii_average"`
	HasAutoReject    bool              `json:"has_auto_reject"`
	AutoRejectReason string            `json:"auto_reject_reason,omitempty"`
}

// HasCriticalWeakness reports whether any critical quality is at limitation level.
func (r CriticalWeaknessResult) HasCriticalWeakness() bool {
	return len(r.Traits) > 0
}

// DetectCriticalWeaknesses flags critical qualities at limitation level and
// applies the Factor II rule: a Social factor mean at or above the threshold
// rejects the candidate even when no single quality is flagged.
func DetectCriticalWeaknesses(scores map[olq.Trait]int) CriticalWeaknessResult {
	res := CriticalWeaknessResult{
		Traits: []olq.Trait{},
		Scores: map[olq.Trait]int{},
	}

	for _, t := range sortedTraits(scores) {
		if t.IsCritical() && olq.IsLimitation(scores[t]) {
			res.Traits = append(res.Traits, t)
			res.Scores[t] = scores[t]
		}
	}

	res.FactorIIAverage = mean(factorScores(scores, olq.Social))
	if res.FactorIIAverage.Present && res.FactorIIAverage.Value >= olq.FactorIIAutoRejectThreshold {
		res.HasAutoReject = true
		res.AutoRejectReason = fmt.Sprintf(
			"%s average score is %.2f, which meets or exceeds the critical threshold of %.0f",
			olq.Social.Label(), res.FactorIIAverage.Value, olq.FactorIIAutoRejectThreshold,
		)
	}

	return res
}
