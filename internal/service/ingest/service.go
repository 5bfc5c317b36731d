// Package ingest turns raw text into stored vocabulary entries: it asks
// the configured backend which words the learner likely does not know,
// parses the reply, and merges the survivors into the notebook.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/domain"
	"github.com/aivoc/vocbuilder/internal/parse"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type extractor interface {
	ExtractWords(ctx context.Context, req backend.ExtractRequest) (string, error)
	ExplainWord(ctx context.Context, req backend.ExplainRequest) (string, error)
}

type wordStore interface {
	KnownWords(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, sample domain.WordSample) (*domain.VocabularyEntry, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the ingestion business logic.
type Service struct {
	backend extractor
	words   wordStore
	log     *slog.Logger
}

// NewService creates a new ingest service.
func NewService(log *slog.Logger, backend extractor, words wordStore) *Service {
	return &Service{
		backend: backend,
		words:   words,
		log:     log,
	}
}

// Result is the outcome of one ingestion run.
type Result struct {
	// Entries are the notebook entries created or enriched, in the order
	// the model reported them.
	Entries []domain.VocabularyEntry
	// DroppedRecords counts model records that failed validation and
	// were discarded.
	DroppedRecords int
	// SkippedKnown counts extracted words that were already known and
	// therefore not re-ingested.
	SkippedKnown int
}

// Ingest extracts unfamiliar words from the given text and merges them
// into the notebook. A reply that fails to parse as a whole is retried
// once with a stricter prompt before the error is surfaced.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	lang, err := domain.ParseLanguage(input.LanguageCode)
	if err != nil {
		return nil, err
	}

	known, err := s.words.KnownWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known words: %w", err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, w := range known {
		knownSet[w] = struct{}{}
	}

	// The prompt only needs the known words that actually occur in this
	// text; the full notebook would bloat it for nothing.
	var skip []string
	for _, tok := range domain.Tokenize(input.Text) {
		if _, ok := knownSet[tok]; ok {
			skip = append(skip, tok)
		}
	}

	parsed, err := s.extract(ctx, input.Text, lang, skip)
	if err != nil {
		return nil, err
	}

	result := &Result{DroppedRecords: parsed.Dropped}
	for _, sample := range parsed.Samples {
		if _, ok := knownSet[sample.WordNormalForm]; ok {
			result.SkippedKnown++
			continue
		}
		entry, err := s.words.Upsert(ctx, sample)
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", sample.WordNormalForm, err)
		}
		result.Entries = append(result.Entries, *entry)
	}

	s.log.InfoContext(ctx, "ingested text",
		"words_added", len(result.Entries),
		"dropped", result.DroppedRecords,
		"skipped_known", result.SkippedKnown,
	)
	return result, nil
}

// AddWord saves one word the learner names themselves, bypassing
// extraction: the backend is asked to explain just that word and the
// result is stored. A word the notebook already knows is rejected with
// domain.ErrAlreadyExists.
func (s *Service) AddWord(ctx context.Context, input AddWordInput) (*domain.VocabularyEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	lang, err := domain.ParseLanguage(input.LanguageCode)
	if err != nil {
		return nil, err
	}

	word := strings.TrimSpace(input.Word)
	normal := domain.NormalizeWord(word)

	known, err := s.words.KnownWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known words: %w", err)
	}
	for _, w := range known {
		if w == normal {
			return nil, fmt.Errorf("word %q: %w", normal, domain.ErrAlreadyExists)
		}
	}

	raw, err := s.backend.ExplainWord(ctx, backend.ExplainRequest{
		Word:            word,
		ContextSentence: strings.TrimSpace(input.ContextSentence),
		TargetLanguage:  lang,
	})
	if err != nil {
		return nil, fmt.Errorf("explain word: %w", err)
	}

	sample, err := parse.Explanation(raw, word, input.ContextSentence, lang)
	if err != nil {
		return nil, err
	}

	entry, err := s.words.Upsert(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", sample.WordNormalForm, err)
	}

	s.log.InfoContext(ctx, "word added manually", "word", sample.WordNormalForm)
	return entry, nil
}

// extract performs the backend round-trip, re-prompting once in strict
// mode when the whole reply is unparsable.
func (s *Service) extract(ctx context.Context, text string, lang domain.Language, known []string) (parse.ExtractionResult, error) {
	req := backend.ExtractRequest{
		Text:           text,
		TargetLanguage: lang,
		KnownWords:     known,
	}

	raw, err := s.backend.ExtractWords(ctx, req)
	if err != nil {
		return parse.ExtractionResult{}, fmt.Errorf("extract words: %w", err)
	}

	parsed, err := parse.Extraction(raw, lang)
	if err == nil {
		return parsed, nil
	}
	var perr *parse.ParseError
	if !errors.As(err, &perr) {
		return parse.ExtractionResult{}, err
	}

	s.log.WarnContext(ctx, "extraction reply unparsable, retrying strict", "error", err)

	req.Strict = true
	raw, err = s.backend.ExtractWords(ctx, req)
	if err != nil {
		return parse.ExtractionResult{}, fmt.Errorf("extract words (strict retry): %w", err)
	}
	parsed, err = parse.Extraction(raw, lang)
	if err != nil {
		return parse.ExtractionResult{}, fmt.Errorf("strict retry: %w", err)
	}
	return parsed, nil
}
