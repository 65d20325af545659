package ai

import (
	"context"
	"regexp"
	"strings"

	"github.com/spigell/resume-screener/internal/resume"
)

var (
	orgMarkers = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy)\b`)
	// phrase of capitalized words around an institution marker, allowing "of", "and", "the"
	orgPhrase = regexp.MustCompile(`(?:[A-Z][\w&'-]*\s+(?:(?:of|and|the|for)\s+)*)*(?:University|College|Institute|School|Academy)(?:\s+(?:(?:of|and|the|for)\s+)*[A-Z][\w&'-]*)*`)
	datePhrase = regexp.MustCompile(`\b(?:(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+)?(?:19|20)\d{2}\b`)
)

// KeywordRecognizer is an offline Recognizer. It tags institution names by
// their University/College/Institute/School/Academy marker and dates by year,
// optionally preceded by a month. It never tags PERSON entities.
type KeywordRecognizer struct{}

// NewKeywordRecognizer returns a KeywordRecognizer.
func NewKeywordRecognizer() *KeywordRecognizer {
	return &KeywordRecognizer{}
}

func (k *KeywordRecognizer) Recognize(_ context.Context, text string) (resume.EntitySet, error) {
	set := resume.NewEntitySet()

	for _, line := range strings.Split(text, "\n") {
		if !orgMarkers.MatchString(line) {
			continue
		}
		for _, m := range orgPhrase.FindAllString(line, -1) {
			set.Add(resume.Org, strings.TrimSpace(m))
		}
	}

	set.Add(resume.Date, datePhrase.FindAllString(text, -1)...)

	return set, nil
}
