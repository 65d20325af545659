package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/secrets"
)

const providerGemini = "gemini"

// aiEnabled reports whether the gemini collaborators should be built.
func aiEnabled(cfg *AIConfig) bool {
	return cfg != nil && cfg.Enabled
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(log, providerGemini, cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}

// newCollaborators returns the recognizer and, when enabled, the summarizer.
// Without AI the offline keyword recognizer is used and summaries are off.
func newCollaborators(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Recognizer, ai.Summarizer, error) {
	if !aiEnabled(cfg) {
		return ai.NewKeywordRecognizer(), nil, nil
	}

	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	aiLogger := logger.WithCommonFields(log, providerGemini, generator.Model())
	recognizer := gemini.NewRecognizer(generator, cfg.Gemini.MaxLogLength, aiLogger)

	var summarizer ai.Summarizer
	if cfg.Summaries {
		summarizer = gemini.NewSummarizer(generator, cfg.SummaryMaxRunes, aiLogger)
	}

	return recognizer, summarizer, nil
}
