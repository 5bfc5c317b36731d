package parse

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// Explanation parses the response to an explain prompt into one word
// sample. The user already named the word, so a record that renames it
// or omits it falls back to the given word, and a missing example
// sentence falls back to the sentence the user supplied. Unlike batch
// extraction there is no record to drop: a response without a usable
// definition or translation is a *ParseError.
func Explanation(raw, word, sentence string, lang domain.Language) (domain.WordSample, error) {
	island, ok := jsonObject(raw)
	if !ok {
		return domain.WordSample{}, &ParseError{Task: "explanation", Err: errors.New("no JSON object found in response")}
	}

	var rec extractionRecord
	if err := json.Unmarshal([]byte(island), &rec); err != nil {
		return domain.WordSample{}, &ParseError{Task: "explanation", Err: err}
	}

	got := strings.TrimSpace(rec.Word)
	if got == "" || domain.NormalizeWord(got) != domain.NormalizeWord(word) {
		got = strings.TrimSpace(word)
	}

	normal := domain.NormalizeWord(rec.WordNormalForm)
	if normal == "" {
		normal = domain.NormalizeWord(got)
	}

	ctxSentence := strings.TrimSpace(rec.ContextSentence)
	if ctxSentence == "" {
		ctxSentence = strings.TrimSpace(sentence)
	}

	definition := strings.TrimSpace(rec.Definition)
	translation := strings.TrimSpace(rec.Translation)
	if definition == "" && translation == "" {
		return domain.WordSample{}, &ParseError{Task: "explanation", Err: errors.New("record carries neither definition nor translation")}
	}

	return domain.WordSample{
		Word:            got,
		WordNormalForm:  normal,
		ContextSentence: ctxSentence,
		Definition:      definition,
		Translation:     translation,
		TargetLanguage:  lang,
	}, nil
}
