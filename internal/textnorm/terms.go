package textnorm

import (
	"regexp"
	"sync"
	"unicode"
	"unicode/utf8"
)

var termPatterns sync.Map // string -> *regexp.Regexp

// TermPattern returns a regexp matching term as a whole word in text that went
// through Lower. A term that starts or ends with a symbol (c++, c#, .net) gets
// a boundary that accepts the symbol instead of \b, which would never match
// next to a non-word character.
func TermPattern(term string) *regexp.Regexp {
	if re, ok := termPatterns.Load(term); ok {
		return re.(*regexp.Regexp)
	}

	prefix, suffix := `\b`, `\b`
	if first, _ := utf8.DecodeRuneInString(term); !isWordRune(first) {
		prefix = `(?:^|[^\w])`
	}
	if last, _ := utf8.DecodeLastRuneInString(term); !isWordRune(last) {
		suffix = `(?:[^\w]|$)`
	}

	re := regexp.MustCompile(prefix + regexp.QuoteMeta(term) + suffix)
	actual, _ := termPatterns.LoadOrStore(term, re)
	return actual.(*regexp.Regexp)
}

// CountTerm counts non-overlapping whole-word occurrences of term in text.
func CountTerm(text, term string) int {
	if text == "" || term == "" {
		return 0
	}
	return len(TermPattern(term).FindAllStringIndex(text, -1))
}

func isWordRune(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}
