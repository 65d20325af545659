// Package screening runs uploaded resumes through extraction, entity
// recognition, name detection, validation and scoring.
package screening

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/names"
	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/scoring"
	"github.com/spigell/resume-screener/internal/validation"
)

const defaultConcurrency = 4

// ErrNotScorable is returned when rescoring an outcome that has no text.
var ErrNotScorable = errors.New("outcome has no extracted text")

// Outcome is the result of screening one document. A failed extraction keeps
// Err set and leaves Name, Validation and Score empty.
type Outcome struct {
	ID         string             `json:"id"`
	FileName   string             `json:"file_name"`
	Digest     string             `json:"digest"`
	Text       string             `json:"text,omitempty"`
	Name       *string            `json:"name"`
	Entities   resume.EntitySet   `json:"entities,omitempty"`
	Validation *validation.Result `json:"validation,omitempty"`
	Score      *scoring.Breakdown `json:"score,omitempty"`
	Error      string             `json:"error,omitempty"`
	ScreenedAt time.Time          `json:"screened_at"`

	Err error `json:"-"`
}

// Failed reports whether the document could not be screened.
func (o *Outcome) Failed() bool {
	return o.Err != nil || o.Error != ""
}

// FinalScore returns the final score or -1 for failed outcomes.
func (o *Outcome) FinalScore() float64 {
	if o.Score == nil {
		return -1
	}
	return o.Score.FinalScore
}

// Options tune a Screener. Zero values select defaults.
type Options struct {
	Recognizer  ai.Recognizer
	Concurrency int
	Logger      *zap.Logger
}

// Screener processes batches of documents.
type Screener struct {
	extractor   *extract.Extractor
	recognizer  ai.Recognizer
	concurrency int
	logger      *zap.Logger
}

// New returns a Screener. Without a recognizer the offline keyword recognizer is used.
func New(extractor *extract.Extractor, opts Options) *Screener {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = extract.New(opts.Logger)
	}
	if opts.Recognizer == nil {
		opts.Recognizer = ai.NewKeywordRecognizer()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}

	return &Screener{
		extractor:   extractor,
		recognizer:  opts.Recognizer,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
}

// Screen scores every file against job. Archives are expanded first. A file
// that fails is kept as a failed Outcome and never aborts the batch; the only
// error returned is an invalid job. Outcomes keep the input order.
func (s *Screener) Screen(ctx context.Context, job resume.JobRequirements, files []extract.File) (*Outcomes, error) {
	engine, err := scoring.NewEngine(job, s.logger)
	if err != nil {
		return nil, err
	}
	validator := validation.New(job.ExtraUniversities...)

	expanded, errs := s.extractor.Expand(files)

	items := make([]*Outcome, len(expanded), len(expanded)+len(errs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range expanded {
		g.Go(func() error {
			items[i] = s.screenOne(gctx, engine, validator, f)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		var extractErr *extract.Error
		name := ""
		if errors.As(err, &extractErr) {
			name = extractErr.File
		}
		items = append(items, failed(name, "", err))
	}

	outcomes := &Outcomes{Items: items}
	s.logger.Info("screening completed",
		zap.Int("documents", outcomes.Len()),
		zap.Int("failed", len(outcomes.Failed())),
	)

	return outcomes, nil
}

func (s *Screener) screenOne(ctx context.Context, engine *scoring.Engine, validator *validation.Validator, f extract.File) *Outcome {
	digest := digestOf(f.Data)

	if err := ctx.Err(); err != nil {
		return failed(f.Name, digest, err)
	}

	text, err := s.extractor.Extract(f.Name, f.Data)
	if err != nil {
		s.logger.Warn("extraction failed", zap.String("file", f.Name), zap.Error(err))
		return failed(f.Name, digest, err)
	}

	id := uuid.NewString()
	log := logger.WithFields(s.logger, logger.DocumentFields(id, f.Name)...)

	ents, err := s.recognizer.Recognize(ctx, text)
	if err != nil {
		log.Warn("entity recognition failed, continuing without entities", zap.Error(err))
		ents = resume.NewEntitySet()
	}

	outcome := &Outcome{
		ID:         id,
		FileName:   f.Name,
		Digest:     digest,
		Text:       text,
		Entities:   ents,
		ScreenedAt: time.Now().UTC(),
	}

	if name, ok := names.Extract(text, ents); ok {
		outcome.Name = &name
	}

	result := validator.Validate(text, ents)
	outcome.Validation = &result

	score := engine.Score(id, text)
	outcome.Score = &score

	log.Debug("screened resume",
		zap.Bool("name_found", outcome.Name != nil),
		zap.Float64("final_score", score.FinalScore),
	)

	return outcome
}

// Rescore scores an already screened outcome against job. The outcome is not
// modified.
func Rescore(o *Outcome, job resume.JobRequirements, logger *zap.Logger) (scoring.Breakdown, error) {
	if o == nil || o.Failed() || o.Text == "" {
		return scoring.Breakdown{}, ErrNotScorable
	}

	engine, err := scoring.NewEngine(job, logger)
	if err != nil {
		return scoring.Breakdown{}, err
	}

	return engine.Score(o.ID, o.Text), nil
}

func failed(name, digest string, err error) *Outcome {
	return &Outcome{
		ID:         uuid.NewString(),
		FileName:   name,
		Digest:     digest,
		Error:      err.Error(),
		Err:        err,
		ScreenedAt: time.Now().UTC(),
	}
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// describe is used in logs and reports for outcomes without a detected name.
func describe(o *Outcome) string {
	if o.Name != nil {
		return fmt.Sprintf("%s (%s)", *o.Name, o.FileName)
	}
	return o.FileName
}
