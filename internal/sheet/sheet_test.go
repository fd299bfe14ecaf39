package sheet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ssbmax/olq-assessor/internal/assessment"
	"github.com/ssbmax/olq-assessor/internal/olq"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

const cadetYAML = `
id: cand-001
name: Cadet A
entry-type: ota
scores:
  effective_intelligence: 5
  RA: 6
  organizing_ability: 5
  power_of_expression: 5
  social_adjustment: 5
  co-op:
    score: 6
    confidence: 70
    reasoning: "Helped the group finish the obstacle without being asked"
  sense_of_responsibility: 5
  initiative: 5
  self_confidence: 5
  speed_of_decision: 5
  influence_group: 6
  liveliness: 5
  determination: 5
  courage: 5
  stamina: 5
`

func writeSheet(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	loader := NewLoader(olq.NDA, 10, zap.New(core))

	sh, err := loader.Load(writeSheet(t, "cadet.yaml", cadetYAML))
	require.NoError(t, err)

	assert.Equal(t, "cand-001", sh.ID)
	assert.Equal(t, "Cadet A", sh.Name)
	assert.Equal(t, olq.OTA, sh.EntryType)
	assert.Len(t, sh.Scores, olq.TraitCount)
	assert.Equal(t, assessment.Score{Value: 6, Confidence: DefaultConfidence}, sh.Scores[olq.ReasoningAbility])
	assert.Equal(t, 6, sh.Scores[olq.Cooperation].Value)
	assert.Equal(t, 70, sh.Scores[olq.Cooperation].Confidence)
	assert.Contains(t, sh.Scores[olq.Cooperation].Reasoning, "obstacle")

	reasoning := observed.FilterMessage("grader reasoning").All()
	require.Len(t, reasoning, 1)
	assert.Equal(t, "Helped the...", reasoning[0].ContextMap()["reasoning"])
	assert.Equal(t, "CO-OP", reasoning[0].ContextMap()["trait"])
}

func TestLoad_JSONWithDefaults(t *testing.T) {
	body := `{"name": "Cadet B", "scores": {"courage": 8, "stamina": {"score": 4, "confidence": 55}}}`
	loader := NewLoader(olq.Graduate, 0, nil)

	sh, err := loader.Load(writeSheet(t, "cadet.json", body))
	require.NoError(t, err)

	_, err = uuid.Parse(sh.ID)
	assert.NoError(t, err, "missing id is replaced with a uuid")
	assert.Equal(t, olq.Graduate, sh.EntryType)
	assert.Equal(t, assessment.Score{Value: 8, Confidence: DefaultConfidence}, sh.Scores[olq.Courage])
	assert.Equal(t, assessment.Score{Value: 4, Confidence: 55}, sh.Scores[olq.Stamina])
	assert.Equal(t, "Cadet B ("+sh.ID+")", sh.Label())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{name: "score above range", body: "scores:\n  courage: 11\n", target: ErrInvalidSheet},
		{name: "score below range", body: "scores:\n  courage: {score: 0}\n", target: ErrInvalidSheet},
		{name: "confidence above range", body: "scores:\n  courage: {score: 5, confidence: 120}\n", target: ErrInvalidSheet},
		{name: "unexpected field", body: "scores:\n  courage: {score: 5, weight: 2}\n", target: ErrInvalidSheet},
		{name: "unknown trait", body: "scores:\n  leadership: 5\n", target: olq.ErrUnknownTrait},
		{name: "duplicate trait", body: "scores:\n  reasoning_ability: 5\n  ra: 6\n", target: ErrDuplicateTrait},
		{name: "trait keys differing only in case", body: "scores:\n  RA: 2\n  ra: 9\n", target: ErrDuplicateTrait},
		{name: "code and key in different case", body: "scores:\n  Courage: 5\n  COU: 8\n", target: ErrDuplicateTrait},
		{name: "unsupported entry type", body: "entry-type: cds\nscores:\n  courage: 5\n", target: olq.ErrUnsupportedEntryType},
	}

	loader := NewLoader(olq.NDA, 0, zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(writeSheet(t, "bad.yaml", tt.body))
			require.ErrorIs(t, err, tt.target)
		})
	}

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_CaseDuplicateIsNeverCollapsed(t *testing.T) {
	path := writeSheet(t, "case.json", `{"scores": {"RA": 2, "ra": 9}}`)
	loader := NewLoader(olq.NDA, 0, nil)

	for i := 0; i < 20; i++ {
		_, err := loader.Load(path)
		require.ErrorIs(t, err, ErrDuplicateTrait)
		assert.Contains(t, err.Error(), `"RA" and "ra"`)
	}
}

func TestLoadAll_SkipsBrokenAndDuplicates(t *testing.T) {
	good := writeSheet(t, "a.yaml", cadetYAML)
	dup := writeSheet(t, "b.yaml", cadetYAML)
	bad := writeSheet(t, "c.yaml", "scores:\n  courage: 42\n")
	other := writeSheet(t, "d.yaml", "id: cand-002\nscores:\n  courage: 5\n")

	sheets, err := NewLoader(olq.NDA, 0, nil).LoadAll([]string{good, dup, bad, other})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSheet)
	assert.Contains(t, err.Error(), "already loaded")
	assert.Equal(t, []string{"cand-001", "cand-002"}, sheets.IDs())
}

func assessed(t *testing.T, id string, scores map[olq.Trait]int, entry olq.EntryType) *Sheet {
	t.Helper()
	sh := &Sheet{ID: id, EntryType: entry, Scores: map[olq.Trait]assessment.Score{}}
	for tr, v := range scores {
		sh.Scores[tr] = assessment.Score{Value: v, Confidence: 80}
	}
	require.NoError(t, sh.Assess())
	return sh
}

func uniform(score int) map[olq.Trait]int {
	out := make(map[olq.Trait]int, olq.TraitCount)
	for _, tr := range olq.AllTraits() {
		out[tr] = score
	}
	return out
}

func TestSheets_ExcludeAndRetain(t *testing.T) {
	sheets := &Sheets{Items: []*Sheet{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}

	removed := sheets.Exclude([]string{"c", "zzz", "a"})
	assert.ElementsMatch(t, []string{"a", "c"}, removed)
	assert.Equal(t, []string{"b", "d"}, sheets.IDs(), "order is preserved")

	assert.Nil(t, sheets.Exclude(nil))
	assert.Equal(t, 2, sheets.Len())

	dropped := sheets.Retain(func(s *Sheet) bool { return s.ID == "d" })
	assert.Equal(t, []string{"b"}, dropped)
	assert.NotNil(t, sheets.FindByID("d"))
	assert.Nil(t, sheets.FindByID("b"))
}

func TestSheets_SortByOutcomeAndReport(t *testing.T) {
	doubtful := uniform(5)
	doubtful[olq.Courage] = 8

	sheets := &Sheets{Items: []*Sheet{
		{ID: "pending"},
		assessed(t, "doubtful", doubtful, olq.NDA),
		assessed(t, "rec-b", uniform(4), olq.NDA),
		assessed(t, "rejected", uniform(9), olq.NDA),
		assessed(t, "rec-a", uniform(4), olq.OTA),
	}}

	sheets.SortByOutcome()
	assert.Equal(t, []string{"rec-a", "rec-b", "doubtful", "rejected", "pending"}, sheets.IDs())

	report := sheets.ReportByOutcome()
	require.Len(t, report[validation.Recommended.String()], 2)
	require.Len(t, report[validation.NotRecommended.String()], 1)
	entry := report[validation.Doubtful.String()][0]
	assert.Equal(t, "doubtful", entry["id"])
	assert.Equal(t, "Critical OLQ weakness found: Courage", entry["subtitle"])
	assert.Equal(t, "Limitations: 1/4, Critical: Courage, Factor II: OK", entry["status"])
	assert.NotContains(t, report, "", "unassessed sheets are not reported")
}

func TestSheets_DumpToTmpFile(t *testing.T) {
	sheets := &Sheets{Items: []*Sheet{assessed(t, "cand-001", uniform(5), olq.NDA)}}

	path, err := sheets.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Items []struct {
			ID     string                    `json:"id"`
			Scores map[string]map[string]any `json:"scores"`
			Result struct {
				Recommendation string `json:"recommendation"`
			} `json:"result"`
		}
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "cand-001", decoded.Items[0].ID)
	assert.Equal(t, "RECOMMENDED", decoded.Items[0].Result.Recommendation)
	assert.Contains(t, decoded.Items[0].Scores, "reasoning_ability")
}
