package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed entities_prompt.md
var entitiesPrompt string

const defaultMaxLogLength = 200

// Recognizer asks Gemini to tag PERSON, ORG and DATE entities.
type Recognizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewRecognizer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Recognizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recognizer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Recognizer) Recognize(ctx context.Context, text string) (resume.EntitySet, error) {
	if strings.TrimSpace(text) == "" {
		return resume.NewEntitySet(), nil
	}

	r.logger.Debug("gemini entities request",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, entitiesPrompt, text)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini entities response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	return parseEntities(raw)
}

func parseEntities(raw string) (resume.EntitySet, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini entities: %w", err)
	}

	set := resume.NewEntitySet()
	for key, value := range data {
		category := resume.Category(strings.ToUpper(strings.TrimSpace(key)))
		if _, known := set[category]; !known {
			continue
		}
		set.Add(category, coerceStrings(value)...)
	}

	return set, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, coerceStrings(item)...)
		}
		return out
	default:
		return nil
	}
}
