// Package validation pulls contact details out of resume text and checks
// recognized organizations against a whitelist of institutions.
package validation

import (
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/spigell/resume-screener/internal/resume"
)

// MinSimilarity is the exclusive similarity bound for a whitelist hit.
const MinSimilarity = 80

// DefaultInstitutions is the built-in institution whitelist.
var DefaultInstitutions = []string{
	"Massachusetts Institute of Technology",
	"MIT",
	"Stanford University",
	"Harvard University",
}

var (
	emailPattern = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+`)
	emailStrict  = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)
	phonePattern = regexp.MustCompile(`\+?\d[\d -]{7,}\d`)
	phoneStrict  = regexp.MustCompile(`^\+?\d[\d -]{7,}\d$`)
)

// Result holds the contact details and institutions found in one resume.
type Result struct {
	Emails            []string `json:"emails"`
	Phones            []string `json:"phones"`
	ValidInstitutions []string `json:"valid_institutions"`
}

// Validator checks ORG entities against its institution whitelist.
type Validator struct {
	institutions []string
}

// New returns a validator whose whitelist is DefaultInstitutions plus extra.
func New(extra ...string) *Validator {
	institutions := make([]string, 0, len(DefaultInstitutions)+len(extra))
	institutions = append(institutions, DefaultInstitutions...)
	for _, inst := range extra {
		if inst = strings.TrimSpace(inst); inst != "" {
			institutions = append(institutions, inst)
		}
	}
	return &Validator{institutions: institutions}
}

// Validate runs the default validator.
func Validate(text string, ents resume.EntitySet) Result {
	return New().Validate(text, ents)
}

// Validate extracts emails and phones from text and keeps the ORG entities
// that resemble a whitelisted institution. Empty input gives empty lists.
func (v *Validator) Validate(text string, ents resume.EntitySet) Result {
	result := Result{
		Emails:            filterStrict(emailPattern.FindAllString(text, -1), emailStrict),
		Phones:            filterStrict(phonePattern.FindAllString(text, -1), phoneStrict),
		ValidInstitutions: []string{},
	}

	for _, org := range ents.Orgs() {
		if v.whitelisted(org) {
			result.ValidInstitutions = append(result.ValidInstitutions, org)
		}
	}

	return result
}

func (v *Validator) whitelisted(org string) bool {
	for _, inst := range v.institutions {
		if similarity(org, inst) > MinSimilarity {
			return true
		}
	}
	return false
}

// similarity is the token set ratio of a and b on a 0-100 scale. Both sides
// are lower-cased and punctuation splits tokens; non-ASCII letters are kept.
func similarity(a, b string) int {
	return fuzzy.TokenSetRatio(a, b, false, true)
}

// UniqueEmails merges the emails of several results, dropping duplicates.
// The result is sorted so reports are stable.
func UniqueEmails(results ...Result) []string {
	seen := make(map[string]struct{})
	for _, r := range results {
		for _, email := range r.Emails {
			seen[email] = struct{}{}
		}
	}

	emails := make([]string, 0, len(seen))
	for email := range seen {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

func filterStrict(matches []string, strict *regexp.Regexp) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if strict.MatchString(m) {
			out = append(out, m)
		}
	}
	return out
}
