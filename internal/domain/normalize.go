package domain

import (
	"strings"
)

// NormalizeWord prepares a word for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one (multi-word phrases)
//
// Diacritics, hyphens, and apostrophes are preserved. The result is
// the unique key of a vocabulary entry.
func NormalizeWord(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	word = strings.ToLower(word)

	var b strings.Builder
	b.Grow(len(word))
	prevSpace := false
	for _, r := range word {
		if r == ' ' || r == '\t' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Tokenize splits free text into lowercase word tokens, stripping
// surrounding punctuation. Used to pre-filter words that are already
// known before asking the backend for extraction.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(strings.Trim(f, ".,;:!?\"'()[]{}«»…—"))
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
