package ai

import (
	"context"

	"github.com/spigell/resume-screener/internal/resume"
)

// Recognizer tags named entities in text.
type Recognizer interface {
	Recognize(ctx context.Context, text string) (resume.EntitySet, error)
}

// Summarizer produces a short summary of a resume.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
