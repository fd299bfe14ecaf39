package validation

import (
	"github.com/montanaflynn/stats"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

// FactorConsistency describes the spread of scores inside one factor.
type FactorConsistency struct {
	Scored       int  `json:"scored"`
	Min          int  `json:"min"`
	Max          int  `json:"max"`
	Variation    int  `json:"variation"`
	Tolerance    int  `json:"tolerance"`
	IsConsistent bool `json:"is_consistent"`
}

// ConsistencyResult is the outcome of the within-factor consistency check.
type ConsistencyResult struct {
	IsConsistent        bool                             `json:"is_consistent"`
	InconsistentFactors []olq.Factor                     `json:"inconsistent_factors"`
	MaxVariationFound   int                              `json:"max_variation_found"`
	Factors             map[olq.Factor]FactorConsistency `json:"factors"`
}

// CheckFactorConsistency verifies that scores within each factor agree within
// the factor's tolerance. A factor with fewer than two scored qualities is
// consistent by definition.
func CheckFactorConsistency(scores map[olq.Trait]int) ConsistencyResult {
	res := ConsistencyResult{
		InconsistentFactors: []olq.Factor{},
		Factors:             make(map[olq.Factor]FactorConsistency, 4),
	}

	for _, f := range olq.AllFactors() {
		detail := FactorConsistency{Tolerance: f.Tolerance(), IsConsistent: true}
		data := factorScores(scores, f)
		detail.Scored = data.Len()

		if detail.Scored > 0 {
			// Errors only signal empty input, ruled out above.
			lo, _ := stats.Min(data)
			hi, _ := stats.Max(data)
			detail.Min = int(lo)
			detail.Max = int(hi)
			detail.Variation = detail.Max - detail.Min
		}

		if detail.Scored >= 2 && detail.Variation > detail.Tolerance {
			detail.IsConsistent = false
			res.InconsistentFactors = append(res.InconsistentFactors, f)
		}
		if detail.Variation > res.MaxVariationFound {
			res.MaxVariationFound = detail.Variation
		}
		res.Factors[f] = detail
	}

	res.IsConsistent = len(res.InconsistentFactors) == 0
	return res
}
