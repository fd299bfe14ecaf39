package assessment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssbmax/olq-assessor/internal/olq"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

func graded(score int) map[olq.Trait]Score {
	out := make(map[olq.Trait]Score, olq.TraitCount)
	for _, t := range olq.AllTraits() {
		out[t] = Score{Value: score, Confidence: 80, Reasoning: "observed in group tasks"}
	}
	return out
}

func override(base map[olq.Trait]Score, values map[olq.Trait]int) map[olq.Trait]Score {
	out := make(map[olq.Trait]Score, len(base))
	for t, s := range base {
		out[t] = s
	}
	for t, v := range values {
		s := out[t]
		s.Value = v
		out[t] = s
	}
	return out
}

func TestValidateScores_Recommended(t *testing.T) {
	res, err := ValidateScores(graded(5), olq.NDA)
	require.NoError(t, err)

	assert.True(t, res.IsValid)
	assert.Equal(t, validation.Recommended, res.Recommendation)
	assert.Equal(t, "RECOMMENDED", res.Title)
	assert.Equal(t, SubtitleOnTrack, res.Subtitle)
	assert.Equal(t, "Scores pass all validation criteria", res.Summary)
	assert.Equal(t, "Limitations: 0/4, Critical: OK, Factor II: OK", res.DetailedSummary)
	assert.True(t, res.LimitationsOK())
	assert.Empty(t, res.Reasons)
	assert.InDelta(t, 80, res.MeanConfidence.Value, 1e-9)
	assert.Len(t, res.FactorAverages, 4)
	assert.InDelta(t, 5, res.FactorAverages[2], 1e-9)
}

func TestValidateScores_Borderline(t *testing.T) {
	scores := override(graded(7), map[olq.Trait]int{
		olq.EffectiveIntelligence: 8,
		olq.OrganizingAbility:     8,
		olq.PowerOfExpression:     8,
		olq.Initiative:            8,
	})

	res, err := ValidateScores(scores, olq.NDA)
	require.NoError(t, err)

	assert.Equal(t, validation.Borderline, res.Recommendation)
	assert.Equal(t, "BORDERLINE", res.Title)
	assert.Equal(t, SubtitleBorderline, res.Subtitle)
	assert.Equal(t, 4, res.LimitationCount)
	assert.True(t, res.LimitationsOK(), "exactly at the ceiling is acceptable")
	assert.Equal(t, "Limitations: 4/4, Critical: OK, Factor II: OK", res.DetailedSummary)
	assert.Equal(t, "4 limitation(s)", res.Summary)
}

func TestValidateScores_SubtitlePriority(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[olq.Trait]Score
		entry    olq.EntryType
		outcome  validation.Outcome
		subtitle string
		detailed string
	}{
		{
			name: "auto-reject beats everything",
			scores: override(graded(9), map[olq.Trait]int{
				olq.ReasoningAbility: 9,
			}),
			entry:    olq.OTA,
			outcome:  validation.NotRecommended,
			subtitle: SubtitleAutoReject,
			detailed: "Limitations: 15/7, Critical: Reasoning Ability, Social Adjustment, Factor II: ALERT",
		},
		{
			name: "ceiling exceeded",
			scores: override(graded(7), map[olq.Trait]int{
				olq.EffectiveIntelligence: 8,
				olq.OrganizingAbility:     8,
				olq.PowerOfExpression:     8,
				olq.Initiative:            8,
				olq.SelfConfidence:        8,
				olq.ReasoningAbility:      8,
			}),
			entry:    olq.NDA,
			outcome:  validation.NotRecommended,
			subtitle: SubtitleTooManyLimits,
			detailed: "Limitations: 6/4, Critical: Reasoning Ability, Factor II: OK",
		},
		{
			name: "critical weakness named",
			scores: override(graded(7), map[olq.Trait]int{
				olq.Cooperation: 8,
				olq.Courage:     8,
			}),
			entry:    olq.NDA,
			outcome:  validation.Doubtful,
			subtitle: "Critical OLQ weakness found: Cooperation, Courage",
			detailed: "Limitations: 2/4, Critical: Cooperation, Courage, Factor II: OK",
		},
		{
			name: "critical weakness before inconsistency",
			scores: override(graded(5), map[olq.Trait]int{
				olq.Liveliness: 8,
			}),
			entry:    olq.Graduate,
			outcome:  validation.Doubtful,
			subtitle: "Critical OLQ weakness found: Liveliness",
			detailed: "Limitations: 1/7, Critical: Liveliness, Factor II: OK",
		},
		{
			name: "inconsistency",
			scores: override(graded(5), map[olq.Trait]int{
				olq.Determination: 3,
			}),
			entry:    olq.NDA,
			outcome:  validation.Doubtful,
			subtitle: SubtitleInconsistency,
			detailed: "Limitations: 0/4, Critical: OK, Factor II: OK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateScores(tt.scores, tt.entry)
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, res.Recommendation)
			assert.Equal(t, tt.subtitle, res.Subtitle)
			assert.Equal(t, tt.detailed, res.DetailedSummary)
		})
	}
}

func TestValidateScores_Flags(t *testing.T) {
	scores := override(graded(6), map[olq.Trait]int{
		olq.SocialAdjustment:      8,
		olq.Cooperation:           8,
		olq.SenseOfResponsibility: 8,
		olq.Stamina:               9,
	})

	res, err := ValidateScores(scores, olq.NDA)
	require.NoError(t, err)

	assert.True(t, res.FactorIIAutoReject)
	assert.True(t, res.HasCriticalWeakness)
	assert.True(t, res.HasFactorInconsistency)
	assert.False(t, res.ExceedsMaxLimitations)
	assert.Equal(t, []int{4}, res.InconsistentFactors)
	assert.Equal(t, []olq.Trait{olq.SocialAdjustment, olq.Cooperation, olq.SenseOfResponsibility}, res.CriticalWeaknessTraits)
	assert.Equal(t, 4, res.LimitationCount)
	assert.Equal(t, "4 limitation(s); Critical OLQ weakness; Factor II auto-reject; Factor inconsistency detected", res.Summary)
	require.NotEmpty(t, res.Reasons)
	assert.True(t, strings.HasPrefix(res.Reasons[0], SubtitleAutoReject))
}

func TestValidateScores_Empty(t *testing.T) {
	res, err := ValidateScores(map[olq.Trait]Score{}, olq.NDA)
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	assert.Equal(t, validation.NotRecommended, res.Recommendation)
	assert.Zero(t, res.LimitationCount)
	assert.Empty(t, res.FactorAverages)
	assert.False(t, res.MeanConfidence.Present)
	assert.Equal(t, SubtitleNoScores, res.Subtitle)
	assert.Equal(t, SubtitleNoScores, res.Summary)
}

func TestValidateScores_Partial(t *testing.T) {
	scores := map[olq.Trait]Score{
		olq.SocialAdjustment: {Value: 6, Confidence: 70},
		olq.Cooperation:      {Value: 6, Confidence: 90},
	}

	res, err := ValidateScores(scores, olq.OTA)
	require.NoError(t, err)

	assert.False(t, res.IsValid)
	assert.Equal(t, map[int]float64{2: 6}, res.FactorAverages, "absent factors are omitted, not zero")
	assert.InDelta(t, 80, res.MeanConfidence.Value, 1e-9)
	assert.Equal(t, scores, res.Scores)
}

func TestValidateScores_Errors(t *testing.T) {
	_, err := ValidateScores(graded(5), olq.EntryType(12))
	require.ErrorIs(t, err, olq.ErrUnsupportedEntryType)

	_, err = ValidateScores(override(graded(5), map[olq.Trait]int{olq.Courage: 11}), olq.NDA)
	require.ErrorIs(t, err, validation.ErrScoreOutOfRange)

	bad := graded(5)
	bad[olq.Stamina] = Score{Value: 5, Confidence: 101}
	_, err = ValidateScores(bad, olq.NDA)
	require.ErrorIs(t, err, ErrConfidenceOutOfRange)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "NOT RECOMMENDED", Title(validation.NotRecommended))
	assert.Equal(t, "DOUBTFUL", Title(validation.Doubtful))
}

func TestFormatReport(t *testing.T) {
	scores := override(graded(5), map[olq.Trait]int{olq.Courage: 8})
	delete(scores, olq.Stamina)

	res, err := ValidateScores(scores, olq.NDA)
	require.NoError(t, err)

	out := FormatReport(res)

	assert.Contains(t, out, "RECOMMENDATION: DOUBTFUL")
	assert.Contains(t, out, "Critical OLQ weakness found: Courage")
	assert.Contains(t, out, "Limitations: 1 (maximum 4)")
	assert.Contains(t, out, "Factor IV (Dynamic)")
	assert.Contains(t, out, "Factor I (Planning & Organizing): 5.00")
	assert.Contains(t, out, "Mean grader confidence: 80%")
	assert.True(t, strings.HasPrefix(out, rule))
	assert.True(t, strings.HasSuffix(out, rule))

	empty, err := ValidateScores(nil, olq.NDA)
	require.NoError(t, err)
	assert.Contains(t, FormatReport(empty), "Factor II (Social Adjustment): n/a")
}
