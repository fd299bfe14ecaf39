// Package olq defines the 15 Officer-Like Qualities, the four SSB factors they
// are grouped into and the entry types that bound how many limitations a
// candidate may carry.
package olq

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinScore is the best possible score.
	MinScore = 1
	// MaxScore is the worst possible score.
	MaxScore = 10
	// LimitationThreshold is the score at and above which a quality is a limitation.
	LimitationThreshold = 8
	// FactorIIAutoRejectThreshold is the Social factor mean that rejects a candidate outright.
	FactorIIAutoRejectThreshold = float64(LimitationThreshold)
)

// ErrUnknownTrait is returned when a trait identifier does not name one of the 15 qualities.
var ErrUnknownTrait = errors.New("unknown trait")

// Factor groups related qualities.
type Factor int

const (
	Intellectual Factor = iota
	Social
	Dynamic
	Character
)

type factorInfo struct {
	key         string
	displayName string
	number      int
	ssbName     string
	tolerance   int
}

var factors = [...]factorInfo{
	Intellectual: {key: "intellectual", displayName: "Intellectual Qualities", number: 1, ssbName: "Planning & Organizing", tolerance: 1},
	Social:       {key: "social", displayName: "Social Qualities", number: 2, ssbName: "Social Adjustment", tolerance: 1},
	Dynamic:      {key: "dynamic", displayName: "Dynamic Qualities", number: 3, ssbName: "Social Effectiveness", tolerance: 2},
	Character:    {key: "character", displayName: "Character & Physical Qualities", number: 4, ssbName: "Dynamic", tolerance: 1},
}

// AllFactors returns the factors in SSB order (I to IV).
func AllFactors() []Factor {
	return []Factor{Intellectual, Social, Dynamic, Character}
}

func (f Factor) valid() bool { return f >= Intellectual && f <= Character }

func (f Factor) String() string {
	if !f.valid() {
		return fmt.Sprintf("Factor(%d)", int(f))
	}
	return factors[f].key
}

// DisplayName returns the quality-group name, e.g. "Social Qualities".
func (f Factor) DisplayName() string {
	if !f.valid() {
		return f.String()
	}
	return factors[f].displayName
}

// Number returns the SSB factor number, 1 for Factor I through 4 for Factor IV.
func (f Factor) Number() int {
	if !f.valid() {
		return 0
	}
	return factors[f].number
}

// Name returns the official SSB factor name.
func (f Factor) Name() string {
	if !f.valid() {
		return f.String()
	}
	return factors[f].ssbName
}

// Roman returns the factor label used in reports, e.g. "Factor II".
func (f Factor) Roman() string {
	switch f {
	case Intellectual:
		return "Factor I"
	case Social:
		return "Factor II"
	case Dynamic:
		return "Factor III"
	case Character:
		return "Factor IV"
	default:
		return f.String()
	}
}

// Label combines the roman label and the SSB name: "Factor II (Social Adjustment)".
func (f Factor) Label() string {
	return fmt.Sprintf("%s (%s)", f.Roman(), f.Name())
}

// Tolerance is the largest spread allowed between scores of one factor.
func (f Factor) Tolerance() int {
	if !f.valid() {
		return 0
	}
	return factors[f].tolerance
}

// Traits returns the qualities of the factor in doctrinal order.
func (f Factor) Traits() []Trait {
	out := make([]Trait, 0, 5)
	for _, t := range AllTraits() {
		if traits[t].factor == f {
			out = append(out, t)
		}
	}
	return out
}

// FactorByNumber maps 1..4 back to a factor.
func FactorByNumber(n int) (Factor, bool) {
	for _, f := range AllFactors() {
		if f.Number() == n {
			return f, true
		}
	}
	return 0, false
}

// Trait is one of the 15 Officer-Like Qualities.
type Trait int

const (
	EffectiveIntelligence Trait = iota
	ReasoningAbility
	OrganizingAbility
	PowerOfExpression
	SocialAdjustment
	Cooperation
	SenseOfResponsibility
	Initiative
	SelfConfidence
	SpeedOfDecision
	InfluenceGroup
	Liveliness
	Determination
	Courage
	Stamina
)

// TraitCount is the number of qualities assessed.
const TraitCount = 15

type traitInfo struct {
	key         string
	code        string
	displayName string
	factor      Factor
	critical    bool
}

var traits = [TraitCount]traitInfo{
	EffectiveIntelligence: {key: "effective_intelligence", code: "EI", displayName: "Effective Intelligence", factor: Intellectual},
	ReasoningAbility:      {key: "reasoning_ability", code: "RA", displayName: "Reasoning Ability", factor: Intellectual, critical: true},
	OrganizingAbility:     {key: "organizing_ability", code: "OA", displayName: "Organizing Ability", factor: Intellectual},
	PowerOfExpression:     {key: "power_of_expression", code: "PoE", displayName: "Power of Expression", factor: Intellectual},
	SocialAdjustment:      {key: "social_adjustment", code: "SA", displayName: "Social Adjustment", factor: Social, critical: true},
	Cooperation:           {key: "cooperation", code: "CO-OP", displayName: "Cooperation", factor: Social, critical: true},
	SenseOfResponsibility: {key: "sense_of_responsibility", code: "SoR", displayName: "Sense of Responsibility", factor: Social, critical: true},
	Initiative:            {key: "initiative", code: "INI", displayName: "Initiative", factor: Dynamic},
	SelfConfidence:        {key: "self_confidence", code: "SC", displayName: "Self Confidence", factor: Dynamic},
	SpeedOfDecision:       {key: "speed_of_decision", code: "SoD", displayName: "Speed of Decision", factor: Dynamic},
	InfluenceGroup:        {key: "influence_group", code: "AIG", displayName: "Ability to Influence Group", factor: Dynamic},
	Liveliness:            {key: "liveliness", code: "LIV", displayName: "Liveliness", factor: Dynamic, critical: true},
	Determination:         {key: "determination", code: "DET", displayName: "Determination", factor: Character},
	Courage:               {key: "courage", code: "COU", displayName: "Courage", factor: Character, critical: true},
	Stamina:               {key: "stamina", code: "STA", displayName: "Stamina", factor: Character},
}

// AllTraits returns the 15 qualities in doctrinal order.
func AllTraits() []Trait {
	out := make([]Trait, TraitCount)
	for i := range out {
		out[i] = Trait(i)
	}
	return out
}

// CriticalTraits returns the qualities whose limitation is disproportionately disqualifying.
func CriticalTraits() []Trait {
	out := make([]Trait, 0, 6)
	for _, t := range AllTraits() {
		if traits[t].critical {
			out = append(out, t)
		}
	}
	return out
}

// Valid reports whether t is one of the 15 qualities.
func (t Trait) Valid() bool { return t >= 0 && int(t) < TraitCount }

func (t Trait) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Trait(%d)", int(t))
	}
	return traits[t].key
}

// Key is the snake_case identifier used in score sheets.
func (t Trait) Key() string { return t.String() }

// Code is the short SSB abbreviation, e.g. "CO-OP".
func (t Trait) Code() string {
	if !t.Valid() {
		return t.String()
	}
	return traits[t].code
}

func (t Trait) DisplayName() string {
	if !t.Valid() {
		return t.String()
	}
	return traits[t].displayName
}

// Factor returns the factor the quality belongs to.
func (t Trait) Factor() Factor {
	if !t.Valid() {
		return Factor(-1)
	}
	return traits[t].factor
}

func (t Trait) IsCritical() bool {
	return t.Valid() && traits[t].critical
}

// IsLimitation reports whether score denotes a limitation.
func IsLimitation(score int) bool {
	return score >= LimitationThreshold
}

// ParseTrait resolves a sheet key, enum-style name or short code to a trait.
func ParseTrait(s string) (Trait, error) {
	norm := normalize(s)
	if norm == "" {
		return 0, fmt.Errorf("%w: empty identifier", ErrUnknownTrait)
	}
	for _, t := range AllTraits() {
		if norm == traits[t].key || norm == normalize(traits[t].code) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrait, s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// DisplayNames maps traits to their display names.
func DisplayNames(ts []Trait) []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.DisplayName())
	}
	return names
}

// MarshalText renders the trait by its sheet key so maps keyed by Trait encode readably.
func (t Trait) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrait, int(t))
	}
	return []byte(t.Key()), nil
}

func (t *Trait) UnmarshalText(b []byte) error {
	parsed, err := ParseTrait(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (f Factor) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("invalid factor %d", int(f))
	}
	return []byte(f.String()), nil
}
