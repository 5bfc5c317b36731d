package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout marks a backend call that exceeded the caller-supplied
// deadline. No partial state is written when it is returned.
var ErrTimeout = errors.New("backend timeout")

// Error is a network, auth, or provider-side failure of one backend call.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ThrottledError is a rate-limit response. RetryAfter is the provider's
// suggested backoff, or zero when the provider gave none. The caller
// decides whether and when to retry; the client never retries on its own.
type ThrottledError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("backend %s: throttled, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("backend %s: throttled", e.Provider)
}

// WrapErr converts a raw transport/SDK error into the backend taxonomy.
// Context deadline errors become ErrTimeout; errors already in the
// taxonomy pass through unchanged, so stacked decorators never double
// wrap. Context cancellation also passes through untouched so callers
// can distinguish user aborts.
func WrapErr(provider string, err error) error {
	if err == nil {
		return nil
	}
	var throttled *ThrottledError
	if errors.As(err, &throttled) {
		return err
	}
	if errors.Is(err, ErrTimeout) {
		return err
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("backend %s: %w", provider, ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &Error{Provider: provider, Err: err}
}
