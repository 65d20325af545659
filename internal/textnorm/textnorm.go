// Package textnorm prepares extracted resume text for matching and display.
//
// Lower is the form every matcher works on: NFKC normalized, lower-cased,
// whitespace runs collapsed to a single space. Clean keeps the line layout
// intact because the name heuristic reads the document line by line.
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transformers are stateful, so each call takes its own chain from the pool
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // zero-width and BOM marks
		)
	},
}

var lowerCaser = sync.Pool{
	New: func() any { return cases.Lower(language.Und) },
}

func normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Lower returns the matching form of text.
func Lower(text string) string {
	if text == "" {
		return ""
	}

	c := lowerCaser.Get().(cases.Caser)
	lowered := c.String(normalize(text))
	c.Reset()
	lowerCaser.Put(c)

	return strings.Join(strings.Fields(lowered), " ")
}

// Clean normalizes text coming out of an extractor while preserving lines.
// Horizontal whitespace is collapsed, trailing spaces are dropped and more than
// one consecutive blank line is reduced to one.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = normalize(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, isHorizontalSpace), " ")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func isHorizontalSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}
