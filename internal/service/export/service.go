// Package export writes the notebook out as CSV for use outside the
// tool, for example in spreadsheet or flashcard apps.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aivoc/vocbuilder/internal/domain"
)

type wordLister interface {
	All(ctx context.Context) ([]domain.VocabularyEntry, error)
}

// Service streams notebook exports.
type Service struct {
	words wordLister
	now   func() time.Time
}

// NewService creates a new export service.
func NewService(words wordLister) *Service {
	return &Service{words: words, now: time.Now}
}

var csvHeader = []string{
	"word", "normal_form", "definition", "translation",
	"language", "example_sentences", "review_count", "created_at",
}

// sentenceSeparator joins a word's example sentences into one CSV cell.
const sentenceSeparator = " | "

// WriteCSV streams every entry to w in insertion order. The writer is
// not closed.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) (int, error) {
	entries, err := s.words.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load entries: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Word,
			e.WordNormalForm,
			e.Definition,
			e.Translation,
			e.TargetLanguage.String(),
			strings.Join(e.ExampleSentences, sentenceSeparator),
			strconv.Itoa(e.ReviewCount),
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write %q: %w", e.WordNormalForm, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return len(entries), nil
}

// Filename returns the conventional export file name, stamped to the
// minute, for example ai_voc_words_20260827_1542.csv.
func (s *Service) Filename() string {
	return "ai_voc_words_" + s.now().Format("20060102_1504") + ".csv"
}
