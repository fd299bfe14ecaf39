package screening

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/ssbmax/olq-assessor/internal/sheet"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

const CompleteProfileName = "complete_profile"

type completeProfileFilter struct {
	disabled bool
	reason   string
}

// NewCompleteProfile creates a step that drops sheets whose assessment is not
// valid, i.e. too few qualities were scored. It must run after the assessment step.
func NewCompleteProfile() Filter {
	return &completeProfileFilter{}
}

func (f *completeProfileFilter) Name() string { return CompleteProfileName }

func (f *completeProfileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *completeProfileFilter) IsEnabled() bool { return !f.disabled }

func (f *completeProfileFilter) Validate(*Config) error { return nil }

func (f *completeProfileFilter) Apply(_ context.Context, deps Deps, s *sheet.Sheets) (*sheet.Sheets, Step, error) {
	initial := s.Len()
	dropped := s.Retain(func(sh *sheet.Sheet) bool {
		return sh.Result != nil && sh.Result.IsValid
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates with incomplete score sheets",
			zap.Int("minimum_scored_traits", validation.MinScoredTraits),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: len(dropped), Left: s.Len()}, nil
}

func (f *completeProfileFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_scored_traits": strconv.Itoa(validation.MinScoredTraits)},
	}
}
