package gemini

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/utils"
)

//go:embed summary_prompt.md
var summaryPrompt string

const defaultSummaryRunes = 1200

// Summarizer produces a short recruiter-facing summary of a resume.
type Summarizer struct {
	generator contentGenerator
	maxRunes  int
	logger    *zap.Logger
}

func NewSummarizer(generator contentGenerator, maxRunes int, logger *zap.Logger) *Summarizer {
	if maxRunes <= 0 {
		maxRunes = defaultSummaryRunes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{generator: generator, maxRunes: maxRunes, logger: logger}
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("nothing to summarize")
	}

	raw, err := s.generator.GenerateContent(ctx, summaryPrompt, text)
	if err != nil {
		return "", err
	}

	summary := utils.TruncateForLog(raw, s.maxRunes)
	if summary != strings.TrimSpace(raw) {
		s.logger.Debug("summary truncated", zap.Int("max_runes", s.maxRunes))
	}

	return summary, nil
}
