package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultThrottleHold is the backoff used when a provider throttles us
// without suggesting a retry-after.
const defaultThrottleHold = 30 * time.Second

// Limited wraps a Client with a client-side token bucket, plus a hold
// window fed by ThrottledError hints so that one throttled call delays
// the next ones instead of hammering the provider. Throttle errors are
// still surfaced to the caller unchanged.
type Limited struct {
	inner   Client
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewLimited wraps inner with a token bucket of rps sustained requests
// per second and the given burst size.
func NewLimited(inner Client, rps float64, burst int) *Limited {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *Limited) Provider() string { return l.inner.Provider() }

func (l *Limited) ExtractWords(ctx context.Context, req ExtractRequest) (string, error) {
	if err := l.wait(ctx); err != nil {
		return "", WrapErr(l.inner.Provider(), err)
	}
	out, err := l.inner.ExtractWords(ctx, req)
	l.observe(err)
	return out, err
}

func (l *Limited) ExplainWord(ctx context.Context, req ExplainRequest) (string, error) {
	if err := l.wait(ctx); err != nil {
		return "", WrapErr(l.inner.Provider(), err)
	}
	out, err := l.inner.ExplainWord(ctx, req)
	l.observe(err)
	return out, err
}

func (l *Limited) GenerateStory(ctx context.Context, req StoryRequest) (string, error) {
	if err := l.wait(ctx); err != nil {
		return "", WrapErr(l.inner.Provider(), err)
	}
	out, err := l.inner.GenerateStory(ctx, req)
	l.observe(err)
	return out, err
}

func (l *Limited) GenerateQuiz(ctx context.Context, req QuizRequest) (string, error) {
	if err := l.wait(ctx); err != nil {
		return "", WrapErr(l.inner.Provider(), err)
	}
	out, err := l.inner.GenerateQuiz(ctx, req)
	l.observe(err)
	return out, err
}

// wait blocks until the hold window from a previous throttle has passed
// and a bucket token is available.
func (l *Limited) wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(until):
		}
	}
	return l.limiter.Wait(ctx)
}

// observe records the hold window when a call came back throttled.
func (l *Limited) observe(err error) {
	var throttled *ThrottledError
	if !errors.As(err, &throttled) {
		return
	}
	hold := throttled.RetryAfter
	if hold <= 0 {
		hold = defaultThrottleHold
	}
	l.mu.Lock()
	l.retryAt = time.Now().Add(hold)
	l.mu.Unlock()
}
