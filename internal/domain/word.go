package domain

import (
	"time"

	"github.com/google/uuid"
)

// WordSample is one extracted occurrence of a word in a source text.
// Samples are produced only by the response parser; once merged into a
// VocabularyEntry they are never mutated.
type WordSample struct {
	Word            string
	WordNormalForm  string
	ContextSentence string
	Translation     string
	Definition      string
	TargetLanguage  Language

	// LowConfidence marks a sample the model returned without both a
	// definition and a translation. It is stored anyway; the entry can
	// be filled in by a later occurrence.
	LowConfidence bool
}

// VocabularyEntry is the persistent unit of the notebook, keyed by the
// normalized word form. ExampleSentences is append-only, oldest first.
type VocabularyEntry struct {
	WordNormalForm   string
	Word             string
	Definition       string
	Translation      string
	TargetLanguage   Language
	ExampleSentences []string
	CreatedAt        time.Time
	LastReviewedAt   *time.Time
	ReviewCount      int
	Lapses           int
}

// StoryItem is an ephemeral review artifact: a generated text weaving in
// a set of stored words. It is not persisted beyond the review session.
type StoryItem struct {
	ID            uuid.UUID
	GeneratedText string
	TargetWords   []string
	MissingWords  []string
	CreatedAt     time.Time
}

// QuizItem is an ephemeral gradeable exercise for one word.
type QuizItem struct {
	Word        string
	PromptText  string
	Answer      string
	Distractors []string
	UserAnswer  *string
	IsCorrect   *bool
}

// Graded reports whether the item has been answered and graded.
func (q *QuizItem) Graded() bool {
	return q.UserAnswer != nil && q.IsCorrect != nil
}
