// Package backend defines the uniform contract over remote generative-AI
// providers. Concrete variants live in the subpackages (openai, gemini,
// anthropic); everything above this layer is blind to which one is wired.
package backend

import (
	"context"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// ExtractRequest asks the model to identify unfamiliar words in a text.
type ExtractRequest struct {
	// Text is the source text, verbatim.
	Text string
	// TargetLanguage is the language definitions/translations are written in.
	TargetLanguage domain.Language
	// KnownWords are normalized words already in the notebook; the model is
	// instructed to skip them.
	KnownWords []string
	// Strict requests a stricter re-prompt after a previous response
	// failed to parse as a whole.
	Strict bool
}

// StoryRequest asks the model to write a short story embedding every word.
type StoryRequest struct {
	Words          []string
	TargetLanguage domain.Language
	// MustInclude names words a previous attempt left out; set on retry only.
	MustInclude []string
}

// QuizRequest asks the model to produce one quiz question for a word.
type QuizRequest struct {
	Word            string
	ContextSentence string
	TargetLanguage  domain.Language
	DistractorCount int
}

// ExplainRequest asks the model to explain one user-named word so it can
// be saved manually, without running extraction over a whole text.
type ExplainRequest struct {
	Word string
	// ContextSentence is the sentence the user saw the word in; empty
	// when the word is added on its own.
	ContextSentence string
	TargetLanguage  domain.Language
}

// Client is the capability set every provider variant implements. Each
// call is one request/response pair; raw model text is returned untouched
// and must go through the parse package before reaching the store.
type Client interface {
	ExtractWords(ctx context.Context, req ExtractRequest) (string, error)
	GenerateStory(ctx context.Context, req StoryRequest) (string, error)
	GenerateQuiz(ctx context.Context, req QuizRequest) (string, error)
	ExplainWord(ctx context.Context, req ExplainRequest) (string, error)
	Provider() string
}
