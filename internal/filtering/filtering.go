// Package filtering narrows a batch of screened resumes with sequential steps.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/screening"
)

// Filter represents a single filtering step applied to screened resumes.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, o *screening.Outcomes) (*screening.Outcomes, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	ExcludeFile    string  `mapstructure:"exclude-file"`
	MinimumScore   float64 `mapstructure:"minimum-score"`
	RequireName    bool    `mapstructure:"require-name"`
	RequireContact bool    `mapstructure:"require-contact"`
	KeepFailed     bool    `mapstructure:"keep-failed"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns every step in execution order, configured from cfg.
func Default(cfg *Config) []Filter {
	if cfg == nil {
		cfg = &Config{}
	}

	steps := []Filter{
		NewFailedExtraction(),
		NewExcludeFile(),
		NewMinimumScore(),
		NewRequireName(),
		NewRequireContact(),
	}

	if cfg.KeepFailed {
		DisableByName(steps, failedExtractionName, "failed documents kept for reporting")
	}
	if cfg.ExcludeFile == "" {
		DisableByName(steps, excludeFileName, "exclude file is not configured")
	}
	if cfg.MinimumScore <= 0 {
		DisableByName(steps, minimumScoreName, "minimum score is not set")
	}
	if !cfg.RequireName {
		DisableByName(steps, requireNameName, "not requested")
	}
	if !cfg.RequireContact {
		DisableByName(steps, requireContactName, "not requested")
	}

	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled step and then applies them in order.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, o *screening.Outcomes) (*screening.Outcomes, error) {
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
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		o = next
	}

	o.SortByScore()
	return o, nil
}

// Describe returns status entries for the provided filters.
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
