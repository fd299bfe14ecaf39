// Package sheet loads candidate score sheets and keeps them together with
// their assessment results while they move through screening.
package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ssbmax/olq-assessor/internal/assessment"
	"github.com/ssbmax/olq-assessor/internal/olq"
)

// Sheet is one candidate's graded qualities.
type Sheet struct {
	ID        string                         `json:"id"`
	Name      string                         `json:"name,omitempty"`
	EntryType olq.EntryType                  `json:"entry_type"`
	Scores    map[olq.Trait]assessment.Score `json:"scores"`
	Path      string                         `json:"path,omitempty"`
	Result    *assessment.Result             `json:"result,omitempty"`
}

// Label is the human readable handle used in prompts and reports.
func (s *Sheet) Label() string {
	if s.Name == "" {
		return s.ID
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.ID)
}

// Assess runs the adapter over the sheet and keeps the result.
func (s *Sheet) Assess() error {
	res, err := assessment.ValidateScores(s.Scores, s.EntryType)
	if err != nil {
		return fmt.Errorf("assessing %s: %w", s.ID, err)
	}
	s.Result = res
	return nil
}

// Sheets is an ordered batch of score sheets.
type Sheets struct {
	Items []*Sheet
}

// Len returns the number of sheets in the batch.
func (s *Sheets) Len() int {
	return len(s.Items)
}

// IDs returns the sheet IDs in batch order.
func (s *Sheets) IDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, sh := range s.Items {
		ids = append(ids, sh.ID)
	}
	return ids
}

// FindByID returns the sheet with the given ID, or nil.
func (s *Sheets) FindByID(id string) *Sheet {
	for _, sh := range s.Items {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

// Exclude removes sheets with the given IDs and returns the removed IDs.
// Order of the remaining sheets is preserved.
func (s *Sheets) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return s.Retain(func(sh *Sheet) bool {
		return !slices.Contains(ids, sh.ID)
	})
}

// Retain keeps the sheets keep accepts and returns the IDs of the dropped ones.
func (s *Sheets) Retain(keep func(*Sheet) bool) []string {
	var dropped []string
	kept := s.Items[:0]
	for _, sh := range s.Items {
		if keep(sh) {
			kept = append(kept, sh)
			continue
		}
		dropped = append(dropped, sh.ID)
	}
	clear(s.Items[len(kept):])
	s.Items = kept
	return dropped
}

// SortByOutcome orders assessed sheets best outcome first, then by fewer
// limitations, then by ID. Unassessed sheets go last.
func (s *Sheets) SortByOutcome() {
	slices.SortStableFunc(s.Items, func(a, b *Sheet) int {
		switch {
		case a.Result == nil && b.Result == nil:
			return strings.Compare(a.ID, b.ID)
		case a.Result == nil:
			return 1
		case b.Result == nil:
			return -1
		}
		if d := b.Result.Recommendation.Rank() - a.Result.Recommendation.Rank(); d != 0 {
			return d
		}
		if d := a.Result.LimitationCount - b.Result.LimitationCount; d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func (s *Sheets) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "olq_sheets_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByOutcome groups assessed sheets by their recommendation.
func (s *Sheets) ReportByOutcome() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, sh := range s.Items {
		if sh.Result == nil {
			continue
		}
		key := sh.Result.Recommendation.String()
		report[key] = append(report[key], map[string]string{
			"id":         sh.ID,
			"name":       sh.Name,
			"entry type": sh.EntryType.String(),
			"subtitle":   sh.Result.Subtitle,
			"status":     sh.Result.DetailedSummary,
			"file":       sh.Path,
		})
	}
	return report
}
