// Package names resolves a single candidate name from resume text.
//
// Extraction runs in two phases. PERSON entities from the recognizer are tried
// first, in the order they were reported. When none of them survives the
// validity rules, the first lines of the document are scanned for a line that
// looks like a name.
package names

import (
	"strings"
	"unicode"

	"github.com/spigell/resume-screener/internal/resume"
)

// scanLines is how many leading lines the fallback looks at.
const scanLines = 10

var disqualifiers = []string{
	"university", "college", "manager", "director", "recruiter", "marketing",
	"engineer", "project", "resume", "file", "cv", "inc", "ltd",
}

var sectionHeaders = map[string]struct{}{
	"ACTIVITIES":               {},
	"ACTIVITIES AND INTERESTS": {},
	"EXPERIENCE":               {},
	"EDUCATION":                {},
	"SKILLS":                   {},
	"CERTIFICATIONS":           {},
	"SUMMARY":                  {},
	"OBJECTIVE":                {},
	"PROFILE":                  {},
	"CONTACT":                  {},
	"AWARDS":                   {},
	"PROJECTS":                 {},
	"HOBBIES":                  {},
}

var jobTitles = map[string]struct{}{
	"ATTORNEY":   {},
	"LAWYER":     {},
	"ENGINEER":   {},
	"MANAGER":    {},
	"DIRECTOR":   {},
	"DEVELOPER":  {},
	"CONSULTANT": {},
	"ANALYST":    {},
}

var fileExtensions = []string{".pdf", ".doc", ".docx"}

// Extract returns the candidate name, or false when no confident name exists.
func Extract(text string, ents resume.EntitySet) (string, bool) {
	for _, candidate := range ents.Persons() {
		if name := CleanName(candidate); IsValidName(name) {
			return name, true
		}
	}

	return scan(text)
}

func scan(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > scanLines {
		lines = lines[:scanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.IndexFunc(line, unicode.IsDigit) >= 0 {
			continue
		}
		if isSectionHeader(line) {
			continue
		}
		if hasFileExtension(line) {
			continue
		}

		name := CleanName(line)
		if _, ok := jobTitles[strings.ToUpper(name)]; ok {
			continue
		}
		if IsValidName(name) {
			return name, true
		}
	}

	return "", false
}

// CleanName trims a candidate and joins letter-spaced names: when every token
// is a single character ("M A R K") the tokens are concatenated ("MARK").
func CleanName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}

	spaced := true
	for _, token := range tokens {
		if len([]rune(token)) != 1 {
			spaced = false
			break
		}
	}
	if spaced {
		return strings.Join(tokens, "")
	}

	return strings.Join(tokens, " ")
}

// IsValidName reports whether name can be a person's full name. It needs at
// least two words, no period, no disqualifying vocabulary, and either an all
// upper-case spelling or a capital letter at the start of every word.
func IsValidName(name string) bool {
	if strings.Contains(name, ".") {
		return false
	}

	lower := strings.ToLower(name)
	for _, word := range disqualifiers {
		if strings.Contains(lower, word) {
			return false
		}
	}

	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	if name == lower {
		return false
	}
	if name == strings.ToUpper(name) {
		return true
	}

	for _, word := range words {
		first := []rune(word)[0]
		if !unicode.IsUpper(first) {
			return false
		}
	}

	return true
}

// isSectionHeader matches a bare header line and a header followed by inline
// content such as "Skills: Go, SQL".
func isSectionHeader(line string) bool {
	upper := strings.ToUpper(line)
	if _, ok := sectionHeaders[upper]; ok {
		return true
	}
	if head, _, found := strings.Cut(upper, ":"); found {
		_, ok := sectionHeaders[strings.TrimSpace(head)]
		return ok
	}
	return false
}

func hasFileExtension(line string) bool {
	lower := strings.ToLower(line)
	for _, ext := range fileExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}
