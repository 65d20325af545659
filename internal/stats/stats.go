// Package stats derives corpus-wide term frequencies and resume length
// distribution for reporting.
package stats

import (
	"sort"
	"strings"

	"github.com/spigell/resume-screener/internal/textnorm"
)

// Length histogram buckets, in words.
const (
	Bucket0To100   = "0-100"
	Bucket101To200 = "101-200"
	Bucket201To300 = "201-300"
	Bucket301To400 = "301-400"
	Bucket401Plus  = "401+"
)

// Buckets lists histogram keys in ascending order.
var Buckets = []string{Bucket0To100, Bucket101To200, Bucket201To300, Bucket301To400, Bucket401Plus}

// Counts are term frequencies across a corpus plus a length histogram.
type Counts struct {
	Documents            int            `json:"documents"`
	Buzzwords            map[string]int `json:"buzzwords"`
	Skills               map[string]int `json:"skills"`
	ProgrammingLanguages map[string]int `json:"programming_languages"`
	SoftSkills           map[string]int `json:"soft_skills"`
	LengthHistogram      map[string]int `json:"length_histogram"`
}

// Aggregate computes Counts for corpus from scratch. corpus should be a
// snapshot; Aggregate does not guard against concurrent mutation.
func Aggregate(corpus []string) Counts {
	lowered := make([]string, len(corpus))
	for i, text := range corpus {
		lowered[i] = textnorm.Lower(text)
	}
	joined := strings.Join(lowered, "\n")

	return Counts{
		Documents:            len(corpus),
		Buzzwords:            countTerms(joined, Buzzwords),
		Skills:               countTerms(joined, Skills),
		ProgrammingLanguages: countTerms(joined, ProgrammingLanguages),
		SoftSkills:           countTerms(joined, SoftSkills),
		LengthHistogram:      histogram(corpus),
	}
}

// Top returns up to n terms with the highest counts, ties broken by name.
// Terms with a zero count are left out.
func Top(counts map[string]int, n int) []string {
	terms := make([]string, 0, len(counts))
	for term, c := range counts {
		if c > 0 {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if n >= 0 && len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

func countTerms(text string, vocabulary []string) map[string]int {
	counts := make(map[string]int, len(vocabulary))
	for _, term := range vocabulary {
		counts[term] = textnorm.CountTerm(text, term)
	}
	return counts
}

func histogram(corpus []string) map[string]int {
	hist := make(map[string]int, len(Buckets))
	for _, b := range Buckets {
		hist[b] = 0
	}
	for _, text := range corpus {
		hist[bucket(textnorm.WordCount(text))]++
	}
	return hist
}

func bucket(words int) string {
	switch {
	case words <= 100:
		return Bucket0To100
	case words <= 200:
		return Bucket101To200
	case words <= 300:
		return Bucket201To300
	case words <= 400:
		return Bucket301To400
	default:
		return Bucket401Plus
	}
}
