package validation

import "github.com/ssbmax/olq-assessor/internal/olq"

// LimitationResult lists the qualities scored at limitation level.
type LimitationResult struct {
	Count  int               `json:"count"`
	Traits []olq.Trait       `json:"traits"`
	Scores map[olq.Trait]int `json:"scores"`
}

// CountLimitations counts scored qualities at or above the limitation threshold.
func CountLimitations(scores map[olq.Trait]int) LimitationResult {
	res := LimitationResult{
		Traits: []olq.Trait{},
		Scores: map[olq.Trait]int{},
	}
	for _, t := range sortedTraits(scores) {
		if olq.IsLimitation(scores[t]) {
			res.Traits = append(res.Traits, t)
			res.Scores[t] = scores[t]
		}
	}
	res.Count = len(res.Traits)
	return res
}

// ExceedsCeiling reports whether the limitation count is above the entry type's
// maximum. Sitting exactly at the maximum does not exceed it.
func ExceedsCeiling(scores map[olq.Trait]int, entry olq.EntryType) (bool, error) {
	ceiling, err := entry.MaxLimitations()
	if err != nil {
		return false, err
	}
	return CountLimitations(scores).Count > ceiling, nil
}
