package screening

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ssbmax/olq-assessor/internal/sheet"
)

const ExcludedCandidatesName = "excluded_candidates"

type excludedCandidatesFilter struct {
	disabled bool
	reason   string
	ids      []string
}

// NewExcludedCandidates creates a step that removes sheets listed in the config.
func NewExcludedCandidates() Filter {
	return &excludedCandidatesFilter{}
}

func (f *excludedCandidatesFilter) Name() string { return ExcludedCandidatesName }

func (f *excludedCandidatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedCandidatesFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedCandidatesFilter) Validate(cfg *Config) error {
	f.ids = nil
	if cfg == nil {
		return nil
	}
	for _, id := range cfg.ExcludeCandidates {
		if id = strings.TrimSpace(id); id != "" {
			f.ids = append(f.ids, id)
		}
	}
	return nil
}

func (f *excludedCandidatesFilter) Apply(_ context.Context, deps Deps, s *sheet.Sheets) (*sheet.Sheets, Step, error) {
	initial := s.Len()
	excluded := s.Exclude(f.ids)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding candidates listed in config",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: len(excluded), Left: s.Len()}, nil
}

func (f *excludedCandidatesFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["candidates"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
