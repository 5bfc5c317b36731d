package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// maxTextRunes bounds the source text so prompts stay within model limits.
const maxTextRunes = 4000

// IngestInput holds the parameters for one ingestion run.
type IngestInput struct {
	Text         string
	LanguageCode string
}

// Validate checks all fields and collects all errors.
func (i *IngestInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if utf8.RuneCountInString(i.Text) > maxTextRunes {
		errs = append(errs, domain.FieldError{Field: "text", Message: "exceeds 4000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AddWordInput holds the parameters for saving one user-named word.
type AddWordInput struct {
	Word string
	// ContextSentence is optional; when present it is kept as the
	// entry's example sentence.
	ContextSentence string
	LanguageCode    string
}

// Validate checks all fields and collects all errors.
func (i *AddWordInput) Validate() error {
	var errs []domain.FieldError

	word := strings.TrimSpace(i.Word)
	if word == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	} else if strings.ContainsAny(word, " \t\n") {
		errs = append(errs, domain.FieldError{Field: "word", Message: "must be a single word"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
