package review

import (
	"github.com/google/uuid"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// maxBatch bounds how many words one story or quiz session may cover.
const maxBatch = 50

// CandidatesInput holds the parameters for listing review candidates.
type CandidatesInput struct {
	Limit int
}

// Validate checks all fields and collects all errors.
func (i *CandidatesInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit <= 0 || i.Limit > maxBatch {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 1 and 50"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StoryInput holds the parameters for generating a review story.
type StoryInput struct {
	WordCount    int
	LanguageCode string
}

// Validate checks all fields and collects all errors.
func (i *StoryInput) Validate() error {
	var errs []domain.FieldError

	if i.WordCount <= 0 || i.WordCount > maxBatch {
		errs = append(errs, domain.FieldError{Field: "word_count", Message: "must be between 1 and 50"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// QuizInput holds the parameters for starting a quiz session.
type QuizInput struct {
	WordCount    int
	LanguageCode string
}

// Validate checks all fields and collects all errors.
func (i *QuizInput) Validate() error {
	var errs []domain.FieldError

	if i.WordCount <= 0 || i.WordCount > maxBatch {
		errs = append(errs, domain.FieldError{Field: "word_count", Message: "must be between 1 and 50"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitInput holds a learner's answers for one quiz session.
type SubmitInput struct {
	SessionID uuid.UUID
	// Answers maps the quizzed word's normal form to the chosen option.
	// Unanswered items may be omitted; they are graded as incorrect.
	Answers map[string]string
}

// Validate checks all fields and collects all errors.
func (i *SubmitInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
