package parse

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// quizRecord mirrors the JSON shape the quiz prompt requests.
type quizRecord struct {
	Prompt      string   `json:"prompt"`
	Answer      string   `json:"answer"`
	Distractors []string `json:"distractors"`
}

// Quiz parses a raw quiz response into a gradeable item for word.
// A short distractor list is padded from pool (other stored words) and
// never fails the parse on its own; only a missing prompt or answer does.
func Quiz(raw, word string, pool []string, distractorCount int) (domain.QuizItem, error) {
	island, ok := jsonObject(raw)
	if !ok {
		return domain.QuizItem{}, &ParseError{Task: "quiz", Err: errors.New("no JSON object found in response")}
	}

	var rec quizRecord
	if err := json.Unmarshal([]byte(island), &rec); err != nil {
		return domain.QuizItem{}, &ParseError{Task: "quiz", Err: err}
	}

	promptText := strings.TrimSpace(rec.Prompt)
	answer := strings.TrimSpace(rec.Answer)
	if promptText == "" || answer == "" {
		return domain.QuizItem{}, &ParseError{Task: "quiz", Err: errors.New("response lacks prompt or answer")}
	}

	distractors := dedupeDistractors(rec.Distractors, answer)
	for _, p := range pool {
		if len(distractors) >= distractorCount {
			break
		}
		if strings.EqualFold(p, answer) || containsFold(distractors, p) {
			continue
		}
		distractors = append(distractors, p)
	}
	if len(distractors) > distractorCount {
		distractors = distractors[:distractorCount]
	}

	return domain.QuizItem{
		Word:        word,
		PromptText:  promptText,
		Answer:      answer,
		Distractors: distractors,
	}, nil
}

func dedupeDistractors(raw []string, answer string) []string {
	out := make([]string, 0, len(raw))
	for _, d := range raw {
		d = strings.TrimSpace(d)
		if d == "" || strings.EqualFold(d, answer) || containsFold(out, d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
