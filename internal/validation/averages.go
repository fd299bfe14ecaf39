package validation

import (
	"encoding/json"

	"github.com/montanaflynn/stats"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

// Average is a factor mean that may be absent when no quality of the factor
// was scored.
type Average struct {
	Value   float64
	Present bool
}

// MarshalJSON encodes an absent average as null.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Present {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func mean(data stats.Float64Data) Average {
	m, err := stats.Mean(data)
	if err != nil {
		return Average{}
	}
	return Average{Value: m, Present: true}
}

// FactorAverages returns the mean score of every factor over its scored qualities.
func FactorAverages(scores map[olq.Trait]int) map[olq.Factor]Average {
	out := make(map[olq.Factor]Average, 4)
	for _, f := range olq.AllFactors() {
		out[f] = mean(factorScores(scores, f))
	}
	return out
}
