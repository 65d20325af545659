package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/scoring"
	"github.com/spigell/resume-screener/internal/screening"
)

const (
	failedExtractionName = "failed_extraction"
	excludeFileName      = "exclude_file"
	minimumScoreName     = "minimum_score"
	requireNameName      = "require_name"
	requireContactName   = "require_contact"
)

// toggle carries the enable/disable state shared by every step.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type failedExtractionFilter struct {
	toggle
}

// NewFailedExtraction creates a filter that removes documents that could not be screened.
func NewFailedExtraction() Filter {
	return &failedExtractionFilter{}
}

func (f *failedExtractionFilter) Name() string { return failedExtractionName }

func (f *failedExtractionFilter) Validate(*Config) error { return nil }

func (f *failedExtractionFilter) Apply(_ context.Context, deps Deps, o *screening.Outcomes) (*screening.Outcomes, Step, error) {
	initial := o.Len()

	var files []string
	for _, item := range o.Failed() {
		files = append(files, item.FileName)
	}

	excluded := o.ExcludeWhere((*screening.Outcome).Failed)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding documents that could not be screened",
			zap.Strings("files", files),
			zap.Int("resumes_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(excluded), Left: o.Len()}, nil
}

func (f *failedExtractionFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes resumes listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return excludeFileName }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	if f.path == "" {
		return errors.New("exclude file path is required")
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, o *screening.Outcomes) (*screening.Outcomes, Step, error) {
	initial := o.Len()

	excluded, err := screening.GetExcludedResumesFromFile(f.path)
	if err != nil {
		return o, Step{}, fmt.Errorf("getting excluded resumes from file: %w", err)
	}

	removed := o.Exclude(screening.OutcomeDigestField, excluded.Digests())
	if len(removed) > 0 {
		deps.Logger.Info("excluding resumes based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(removed), Left: o.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type minimumScoreFilter struct {
	toggle
	min float64
}

// NewMinimumScore creates a filter that removes resumes scoring below the configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return minimumScoreName }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg != nil {
		f.min = cfg.MinimumScore
	}
	if f.min < 0 || f.min > scoring.TotalMax {
		return fmt.Errorf("minimum score %.2f is outside 0..%.0f", f.min, scoring.TotalMax)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, o *screening.Outcomes) (*screening.Outcomes, Step, error) {
	initial := o.Len()

	removed := o.ExcludeWhere(func(item *screening.Outcome) bool {
		return item.Score != nil && item.Score.FinalScore < f.min
	})
	if len(removed) > 0 {
		deps.Logger.Info("excluding resumes below minimum score",
			zap.Float64("minimum_score", f.min),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(removed), Left: o.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	details := map[string]string{}
	if f.IsEnabled() {
		details["minimum_score"] = strconv.FormatFloat(f.min, 'f', 2, 64)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type requireNameFilter struct {
	toggle
}

// NewRequireName creates a filter that removes resumes without a detected candidate name.
func NewRequireName() Filter {
	return &requireNameFilter{}
}

func (f *requireNameFilter) Name() string { return requireNameName }

func (f *requireNameFilter) Validate(*Config) error { return nil }

func (f *requireNameFilter) Apply(_ context.Context, deps Deps, o *screening.Outcomes) (*screening.Outcomes, Step, error) {
	initial := o.Len()

	removed := o.ExcludeWhere(func(item *screening.Outcome) bool {
		return !item.Failed() && item.Name == nil
	})
	if len(removed) > 0 {
		deps.Logger.Info("excluding resumes without a candidate name",
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(removed), Left: o.Len()}, nil
}

func (f *requireNameFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type requireContactFilter struct {
	toggle
}

// NewRequireContact creates a filter that removes resumes with neither an email nor a phone.
func NewRequireContact() Filter {
	return &requireContactFilter{}
}

func (f *requireContactFilter) Name() string { return requireContactName }

func (f *requireContactFilter) Validate(*Config) error { return nil }

func (f *requireContactFilter) Apply(_ context.Context, deps Deps, o *screening.Outcomes) (*screening.Outcomes, Step, error) {
	initial := o.Len()

	removed := o.ExcludeWhere(func(item *screening.Outcome) bool {
		if item.Failed() {
			return false
		}
		v := item.Validation
		return v == nil || (len(v.Emails) == 0 && len(v.Phones) == 0)
	})
	if len(removed) > 0 {
		deps.Logger.Info("excluding resumes without contact details",
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(removed), Left: o.Len()}, nil
}

func (f *requireContactFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
