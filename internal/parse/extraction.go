package parse

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// extractionRecord mirrors the JSON shape the extraction prompt requests.
type extractionRecord struct {
	Word            string `json:"word"`
	WordNormalForm  string `json:"word_normal_form"`
	ContextSentence string `json:"context_sentence"`
	Definition      string `json:"definition"`
	Translation     string `json:"translation"`
}

// ExtractionResult is the outcome of parsing one extraction response.
type ExtractionResult struct {
	Samples []domain.WordSample
	// Dropped counts records that were present in the response but
	// individually malformed. One bad record never discards the batch.
	Dropped int
}

// Extraction parses a raw extraction response into word samples.
// A response whose JSON island cannot be located or decoded at all
// fails with *ParseError; per-record problems only increment Dropped.
func Extraction(raw string, lang domain.Language) (ExtractionResult, error) {
	island, ok := jsonArray(raw)
	if !ok {
		// A single-record answer may come back as a bare object.
		obj, okObj := jsonObject(raw)
		if !okObj {
			return ExtractionResult{}, &ParseError{Task: "extraction", Err: errors.New("no JSON array found in response")}
		}
		island = "[" + obj + "]"
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal([]byte(island), &rawRecords); err != nil {
		return ExtractionResult{}, &ParseError{Task: "extraction", Err: err}
	}

	result := ExtractionResult{Samples: make([]domain.WordSample, 0, len(rawRecords))}
	seen := make(map[string]struct{}, len(rawRecords))
	for _, rr := range rawRecords {
		var rec extractionRecord
		if err := json.Unmarshal(rr, &rec); err != nil {
			result.Dropped++
			continue
		}
		sample, ok := rec.toSample(lang)
		if !ok {
			result.Dropped++
			continue
		}
		// Models occasionally repeat a word; keep the first occurrence.
		if _, dup := seen[sample.WordNormalForm]; dup {
			result.Dropped++
			continue
		}
		seen[sample.WordNormalForm] = struct{}{}
		result.Samples = append(result.Samples, sample)
	}
	return result, nil
}

// toSample validates one record. Word and context sentence are required;
// a record missing both definition and translation is kept but flagged
// low-confidence.
func (r extractionRecord) toSample(lang domain.Language) (domain.WordSample, bool) {
	word := strings.TrimSpace(r.Word)
	sentence := strings.TrimSpace(r.ContextSentence)
	if word == "" || sentence == "" {
		return domain.WordSample{}, false
	}

	normal := domain.NormalizeWord(r.WordNormalForm)
	if normal == "" {
		normal = domain.NormalizeWord(word)
	}

	definition := strings.TrimSpace(r.Definition)
	translation := strings.TrimSpace(r.Translation)

	return domain.WordSample{
		Word:            word,
		WordNormalForm:  normal,
		ContextSentence: sentence,
		Definition:      definition,
		Translation:     translation,
		TargetLanguage:  lang,
		LowConfidence:   definition == "" && translation == "",
	}, true
}
