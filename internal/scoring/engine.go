package scoring

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/resume"
)

// Engine scores resumes for a fixed set of job requirements.
type Engine struct {
	job    resume.JobRequirements
	logger *zap.Logger
}

// NewEngine validates job and returns an engine bound to its normalized form.
func NewEngine(job resume.JobRequirements, logger *zap.Logger) (*Engine, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{job: job.Normalize(), logger: logger}, nil
}

// Job returns the normalized requirements the engine scores against.
func (e *Engine) Job() resume.JobRequirements {
	return e.job
}

// Score returns a fresh breakdown for text.
func (e *Engine) Score(docID, text string) Breakdown {
	b := Score(text, e.job)

	e.logger.Debug("scored resume",
		zap.String("document_id", docID),
		zap.Float64("skills", b.RequiredSkills),
		zap.Float64("job_title", b.JobTitle),
		zap.Float64("languages", b.Languages),
		zap.Float64("bonus", b.Bonus),
		zap.Float64("ats", b.ATS),
		zap.Float64("final_score", b.FinalScore),
	)

	return b
}
