// Package screening runs a batch of score sheets through an ordered list of
// steps and reports what each step dropped.
package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ssbmax/olq-assessor/internal/sheet"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

// Filter represents a single screening step applied to score sheets.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, s *sheet.Sheets) (*sheet.Sheets, Step, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a screening step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the settings consumed by the steps.
type Config struct {
	// MinimumOutcome is the worst recommendation kept on the shortlist.
	MinimumOutcome validation.Outcome
	// RequireComplete drops sheets with fewer than validation.MinScoredTraits scores.
	RequireComplete bool
	// ExcludeCandidates lists sheet IDs removed before assessment.
	ExcludeCandidates []string
	// Workers bounds concurrent assessments. Zero means GOMAXPROCS.
	Workers int
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// DefaultSteps returns the standard pipeline for cfg: exclusions, assessment
// and, when cfg asks for it, the complete profile check.
func DefaultSteps(cfg *Config) []Filter {
	steps := []Filter{
		NewExcludedCandidates(),
		NewAssessment(),
		NewCompleteProfile(),
	}
	if cfg == nil || !cfg.RequireComplete {
		DisableByName(steps, CompleteProfileName, "require-complete is not set")
	}
	return steps
}

// DisableByName marks the step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled step, then applies them in order.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, s *sheet.Sheets) (*sheet.Sheets, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("screening step disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("screening step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		s = next
	}

	return s, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
