// Package validation scores an OLQ profile against SSB selection doctrine.
//
// Every function here is pure: it reads the score map it is given, never
// mutates it and keeps no state between calls, so the package is safe for
// concurrent use.
package validation

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

// ErrScoreOutOfRange is returned when a score falls outside 1..10.
var ErrScoreOutOfRange = errors.New("score out of range")

// MinScoredTraits is the number of scored qualities a profile needs to count as
// a complete assessment. One missing quality is tolerated.
const MinScoredTraits = olq.TraitCount - 1

// CheckScores rejects a profile carrying an unknown trait or a score outside
// the 1..10 scale. Nothing is clamped.
func CheckScores(scores map[olq.Trait]int) error {
	for _, t := range sortedTraits(scores) {
		if !t.Valid() {
			return fmt.Errorf("%w: %d", olq.ErrUnknownTrait, int(t))
		}
		score := scores[t]
		if score < olq.MinScore || score > olq.MaxScore {
			return fmt.Errorf("%w: %s scored %d, expected %d..%d",
				ErrScoreOutOfRange, t.Key(), score, olq.MinScore, olq.MaxScore)
		}
	}
	return nil
}

// sortedTraits returns the keys of scores in doctrinal order. Unknown traits
// sort to the end so callers can still report them.
func sortedTraits(scores map[olq.Trait]int) []olq.Trait {
	out := make([]olq.Trait, 0, len(scores))
	for _, t := range olq.AllTraits() {
		if _, ok := scores[t]; ok {
			out = append(out, t)
		}
	}
	if len(out) == len(scores) {
		return out
	}
	for t := range scores {
		if !t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// factorScores collects the present scores of one factor.
func factorScores(scores map[olq.Trait]int, f olq.Factor) stats.Float64Data {
	data := make(stats.Float64Data, 0, 5)
	for _, t := range f.Traits() {
		if score, ok := scores[t]; ok {
			data = append(data, float64(score))
		}
	}
	return data
}

func copyScores(scores map[olq.Trait]int) map[olq.Trait]int {
	out := make(map[olq.Trait]int, len(scores))
	for t, s := range scores {
		out[t] = s
	}
	return out
}
