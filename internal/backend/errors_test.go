package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWrapErr(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		if err := WrapErr("openai", nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("deadline becomes ErrTimeout", func(t *testing.T) {
		t.Parallel()
		err := WrapErr("openai", fmt.Errorf("round trip: %w", context.DeadlineExceeded))
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		t.Parallel()
		err := WrapErr("openai", context.Canceled)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("throttled passes through", func(t *testing.T) {
		t.Parallel()
		in := &ThrottledError{Provider: "gemini", RetryAfter: time.Minute}
		err := WrapErr("gemini", in)

		var out *ThrottledError
		if !errors.As(err, &out) || out.RetryAfter != time.Minute {
			t.Errorf("expected ThrottledError to pass through, got %v", err)
		}
	})

	t.Run("already wrapped passes through", func(t *testing.T) {
		t.Parallel()
		in := &Error{Provider: "openai", Err: errors.New("bad gateway")}
		err := WrapErr("openai", in)
		if err != error(in) {
			t.Errorf("expected identical error back, got %v", err)
		}
	})

	t.Run("other errors wrapped with provider", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection refused")
		err := WrapErr("anthropic", cause)

		var backendErr *Error
		if !errors.As(err, &backendErr) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if backendErr.Provider != "anthropic" {
			t.Errorf("Provider = %q", backendErr.Provider)
		}
		if !errors.Is(err, cause) {
			t.Error("wrapped error lost its cause")
		}
	})
}
