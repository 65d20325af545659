// Package extract turns uploaded resume files into plain text.
//
// Failures are reported as *Error values rather than diagnostic text so that
// callers never score an error message as if it were resume content.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/textnorm"
)

var (
	// ErrUnsupportedFormat is returned for extensions with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyDocument is returned when a decoder produced no text.
	ErrEmptyDocument = errors.New("document contains no text")
)

// File is a named blob of bytes, typically one uploaded file.
type File struct {
	Name string
	Data []byte
}

// Error ties an extraction failure to the file it happened on.
type Error struct {
	File string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.File, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type decoder func(data []byte) (string, error)

// Extractor dispatches files to a decoder by extension.
type Extractor struct {
	decoders map[string]decoder
	logger   *zap.Logger
}

// New returns an Extractor for pdf, docx, txt and html files.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		decoders: map[string]decoder{
			".pdf":  fromPDF,
			".docx": fromDOCX,
			".txt":  fromTXT,
			".html": fromHTML,
			".htm":  fromHTML,
		},
		logger: logger,
	}
}

// Supported reports whether name has an extension the extractor can decode.
func (e *Extractor) Supported(name string) bool {
	_, ok := e.decoders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extract returns the cleaned text of the file.
func (e *Extractor) Extract(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	decode, ok := e.decoders[ext]
	if !ok {
		return "", &Error{File: name, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}

	raw, err := decode(data)
	if err != nil {
		return "", &Error{File: name, Err: err}
	}

	text := textnorm.Clean(raw)
	if text == "" {
		return "", &Error{File: name, Err: ErrEmptyDocument}
	}

	e.logger.Debug("extracted text",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
		zap.Int("words", textnorm.WordCount(text)),
	)

	return text, nil
}
