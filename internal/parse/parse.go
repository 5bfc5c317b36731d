// Package parse converts raw model output into validated structured
// records. Model responses are untrusted input: individual malformed
// records are dropped and counted rather than failing the batch, and
// only a wholly unparsable response is an error.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError marks a model response that could not be parsed at all.
// The caller may retry once with a stricter re-prompt.
type ParseError struct {
	Task string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v", e.Task, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// jsonArray finds the first complete JSON array in s. Models often wrap
// their answer in markdown fences or commentary; everything outside the
// outermost brackets is discarded.
func jsonArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]
	return candidate, json.Valid([]byte(candidate))
}

// jsonObject finds the first complete JSON object in s.
func jsonObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	candidate := s[start : end+1]
	return candidate, json.Valid([]byte(candidate))
}
