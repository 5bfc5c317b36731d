package parse

import (
	"errors"
	"strings"
)

// StoryResult is the outcome of checking one story response against the
// requested target words. A story missing words is still returned; the
// caller decides whether to re-request.
type StoryResult struct {
	Text string
	// Missing lists the target lemmas that never appear in the text,
	// in the order they were requested.
	Missing []string
}

// Story validates a raw story response. Target word presence is checked
// case-insensitively as a substring match on the lemma, so inflected
// forms ("thrones" for "throne") count as present.
func Story(raw string, targetWords []string) (StoryResult, error) {
	text := strings.TrimSpace(stripFences(raw))
	if text == "" {
		return StoryResult{}, &ParseError{Task: "story", Err: errors.New("empty response")}
	}

	lower := strings.ToLower(text)
	var missing []string
	for _, w := range targetWords {
		if !strings.Contains(lower, strings.ToLower(w)) {
			missing = append(missing, w)
		}
	}
	return StoryResult{Text: text, Missing: missing}, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
