package validation

import (
	"fmt"
	"strings"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

// Outcome is the final classification of a candidate. Higher values are better.
type Outcome int

const (
	NotRecommended Outcome = iota
	Doubtful
	Borderline
	Recommended
)

var outcomeNames = [...]string{
	NotRecommended: "NOT_RECOMMENDED",
	Doubtful:       "DOUBTFUL",
	Borderline:     "BORDERLINE",
	Recommended:    "RECOMMENDED",
}

func (o Outcome) String() string {
	if o < NotRecommended || o > Recommended {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Rank orders outcomes: RECOMMENDED 3, BORDERLINE 2, DOUBTFUL 1, NOT_RECOMMENDED 0.
func (o Outcome) Rank() int { return int(o) }

// Coarse collapses the outcome to the three-state view by merging BORDERLINE
// into RECOMMENDED.
func (o Outcome) Coarse() Outcome {
	if o == Borderline {
		return Recommended
	}
	return o
}

// ParseOutcome accepts the outcome names case-insensitively, with spaces,
// hyphens or underscores.
func ParseOutcome(s string) (Outcome, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for o, name := range outcomeNames {
		if name == norm {
			return Outcome(o), nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	parsed, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Rule identifies which doctrine rule produced a reason.
type Rule string

const (
	RuleNoScores         Rule = "no_scores"
	RuleFactorIIReject   Rule = "factor_ii_auto_reject"
	RuleTooManyLimits    Rule = "limitations_exceeded"
	RuleCriticalWeakness Rule = "critical_weakness"
	RuleInconsistency    Rule = "factor_inconsistency"
	RuleNearCeiling      Rule = "limitations_near_ceiling"
)

// Reason explains one applicable rule.
type Reason struct {
	Rule    Rule    `json:"rule"`
	Outcome Outcome `json:"outcome"`
	Text    string  `json:"text"`
}

// RecommendationResult carries the outcome decided by the highest-priority
// applicable rule and the reasons of every applicable rule in priority order.
type RecommendationResult struct {
	Outcome Outcome  `json:"outcome"`
	Reasons []Reason `json:"reasons"`
}

// ReasonTexts returns the reason strings in priority order.
func (r RecommendationResult) ReasonTexts() []string {
	out := make([]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		out = append(out, reason.Text)
	}
	return out
}

// DetermineRecommendation runs every analyzer over scores and classifies the
// candidate. Scores are checked first; an out-of-range score fails the whole call.
func DetermineRecommendation(scores map[olq.Trait]int, entry olq.EntryType) (RecommendationResult, error) {
	ceiling, err := entry.MaxLimitations()
	if err != nil {
		return RecommendationResult{}, err
	}
	if err := CheckScores(scores); err != nil {
		return RecommendationResult{}, err
	}
	return decide(
		len(scores),
		entry,
		ceiling,
		CountLimitations(scores),
		CheckFactorConsistency(scores),
		DetectCriticalWeaknesses(scores),
	), nil
}

// decide applies the rules in priority order. The first applicable rule sets
// the outcome; later rules still contribute their reasons.
func decide(
	scored int,
	entry olq.EntryType,
	ceiling int,
	lim LimitationResult,
	cons ConsistencyResult,
	crit CriticalWeaknessResult,
) RecommendationResult {
	if scored == 0 {
		return RecommendationResult{
			Outcome: NotRecommended,
			Reasons: []Reason{{Rule: RuleNoScores, Outcome: NotRecommended, Text: "No scores provided"}},
		}
	}

	res := RecommendationResult{Outcome: Recommended, Reasons: []Reason{}}
	decided := false
	add := func(rule Rule, outcome Outcome, text string) {
		res.Reasons = append(res.Reasons, Reason{Rule: rule, Outcome: outcome, Text: text})
		if !decided {
			res.Outcome = outcome
			decided = true
		}
	}

	exceeds := lim.Count > ceiling

	if crit.HasAutoReject {
		add(RuleFactorIIReject, NotRecommended, fmt.Sprintf(
			"%s auto-reject triggered: average %.2f meets the threshold of %.0f",
			olq.Social.Label(), crit.FactorIIAverage.Value, olq.FactorIIAutoRejectThreshold,
		))
	}
	if exceeds {
		add(RuleTooManyLimits, NotRecommended, fmt.Sprintf(
			"Too many limitations detected: %d against a maximum of %d for %s entry",
			lim.Count, ceiling, entry,
		))
	}
	if crit.HasCriticalWeakness() {
		add(RuleCriticalWeakness, Doubtful,
			"Critical OLQ weakness found: "+strings.Join(olq.DisplayNames(crit.Traits), ", "))
	}
	if !cons.IsConsistent {
		labels := make([]string, 0, len(cons.InconsistentFactors))
		for _, f := range cons.InconsistentFactors {
			labels = append(labels, f.Label())
		}
		add(RuleInconsistency, Doubtful, fmt.Sprintf(
			"Factor score inconsistency detected in %s, maximum variation %d",
			strings.Join(labels, ", "), cons.MaxVariationFound,
		))
	}
	if lim.Count > 0 && !exceeds && ceiling-lim.Count <= 1 {
		add(RuleNearCeiling, Borderline, fmt.Sprintf(
			"Limitations close to the ceiling: %d of %d allowed for %s entry",
			lim.Count, ceiling, entry,
		))
	}

	return res
}
