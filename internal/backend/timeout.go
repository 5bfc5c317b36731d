package backend

import (
	"context"
	"time"
)

// Timed wraps a Client with a per-call deadline so a stalled provider
// surfaces as ErrTimeout instead of hanging the caller.
type Timed struct {
	inner   Client
	timeout time.Duration
}

// NewTimed wraps inner, bounding every call to the given timeout.
func NewTimed(inner Client, timeout time.Duration) *Timed {
	return &Timed{inner: inner, timeout: timeout}
}

func (t *Timed) Provider() string { return t.inner.Provider() }

func (t *Timed) ExtractWords(ctx context.Context, req ExtractRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.inner.ExtractWords(ctx, req)
	return out, WrapErr(t.inner.Provider(), err)
}

func (t *Timed) ExplainWord(ctx context.Context, req ExplainRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.inner.ExplainWord(ctx, req)
	return out, WrapErr(t.inner.Provider(), err)
}

func (t *Timed) GenerateStory(ctx context.Context, req StoryRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.inner.GenerateStory(ctx, req)
	return out, WrapErr(t.inner.Provider(), err)
}

func (t *Timed) GenerateQuiz(ctx context.Context, req QuizRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.inner.GenerateQuiz(ctx, req)
	return out, WrapErr(t.inner.Provider(), err)
}
