package validation

import "github.com/ssbmax/olq-assessor/internal/olq"

// Report is the full breakdown of one validation. It is built once and not
// modified afterwards.
type Report struct {
	IsValid          bool                   `json:"is_valid"`
	EntryType        olq.EntryType          `json:"entry_type"`
	MaxLimitations   int                    `json:"max_limitations"`
	Scores           map[olq.Trait]int      `json:"scores"`
	Limitations      LimitationResult       `json:"limitations"`
	Consistency      ConsistencyResult      `json:"consistency"`
	CriticalWeakness CriticalWeaknessResult `json:"critical_weakness"`
	FactorAverages   map[olq.Factor]Average `json:"factor_averages"`
	Recommendation   RecommendationResult   `json:"recommendation"`
}

// Outcome is a shortcut for the recommendation outcome.
func (r *Report) Outcome() Outcome {
	return r.Recommendation.Outcome
}

// ExceedsCeiling reports whether the limitation count is above the entry type's maximum.
func (r *Report) ExceedsCeiling() bool {
	return r.Limitations.Count > r.MaxLimitations
}

// Validate checks the profile at the boundary and runs every analyzer over it.
// An unsupported entry type or an out-of-range score fails the whole call; an
// empty or partial profile does not.
func Validate(scores map[olq.Trait]int, entry olq.EntryType) (*Report, error) {
	ceiling, err := entry.MaxLimitations()
	if err != nil {
		return nil, err
	}
	if err := CheckScores(scores); err != nil {
		return nil, err
	}

	lim := CountLimitations(scores)
	cons := CheckFactorConsistency(scores)
	crit := DetectCriticalWeaknesses(scores)

	return &Report{
		IsValid:          len(scores) >= MinScoredTraits,
		EntryType:        entry,
		MaxLimitations:   ceiling,
		Scores:           copyScores(scores),
		Limitations:      lim,
		Consistency:      cons,
		CriticalWeakness: crit,
		FactorAverages:   FactorAverages(scores),
		Recommendation:   decide(len(scores), entry, ceiling, lim, cons, crit),
	}, nil
}
