package screening

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ssbmax/olq-assessor/internal/logger"
	"github.com/ssbmax/olq-assessor/internal/sheet"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

const AssessmentName = "assessment"

type assessmentFilter struct {
	disabled bool
	reason   string
	minimum  validation.Outcome
	workers  int
}

// NewAssessment creates the step that assesses every sheet and keeps those at
// or above the configured minimum outcome.
func NewAssessment() Filter {
	return &assessmentFilter{}
}

func (f *assessmentFilter) Name() string { return AssessmentName }

func (f *assessmentFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *assessmentFilter) IsEnabled() bool { return !f.disabled }

func (f *assessmentFilter) Validate(cfg *Config) error {
	f.minimum = validation.NotRecommended
	f.workers = runtime.GOMAXPROCS(0)
	if cfg == nil {
		return nil
	}

	if cfg.MinimumOutcome < validation.NotRecommended || cfg.MinimumOutcome > validation.Recommended {
		return fmt.Errorf("minimum outcome %s is not a recommendation", cfg.MinimumOutcome)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	f.minimum = cfg.MinimumOutcome
	if cfg.Workers > 0 {
		f.workers = cfg.Workers
	}
	return nil
}

func (f *assessmentFilter) Apply(ctx context.Context, deps Deps, s *sheet.Sheets) (*sheet.Sheets, Step, error) {
	initial := s.Len()
	failures := make([]error, initial)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, sh := range s.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sh.Result = nil
			failures[i] = sh.Assess()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return s, Step{}, err
	}

	for i, sh := range s.Items {
		log := deps.Logger.With(logger.CandidateField(sh.ID))
		if err := failures[i]; err != nil {
			log.Warn("dropping candidate with invalid scores", zap.Error(err))
			continue
		}
		logger.WithAssessmentFields(log, sh.EntryType.String(), sh.Result.Recommendation.String()).
			Debug("candidate assessed", zap.String("status", sh.Result.DetailedSummary))
	}

	dropped := s.Retain(func(sh *sheet.Sheet) bool {
		return sh.Result != nil && sh.Result.Recommendation.Rank() >= f.minimum.Rank()
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below the minimum outcome",
			zap.String("minimum_outcome", f.minimum.String()),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", s.Len()),
		)
	}

	return s, Step{Initial: initial, Dropped: len(dropped), Left: s.Len()}, nil
}

func (f *assessmentFilter) Status() Status {
	details := map[string]string{
		"minimum_outcome": f.minimum.String(),
		"workers":         strconv.Itoa(f.workers),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
