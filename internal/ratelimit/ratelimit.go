package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Completer is the subset of the LLM client this package decorates.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// ModelRateLimiter enforces a minimum delay between requests to the same model.
// Local models run one request at a time well, but back-to-back prompts while a
// previous generation is still cooling down degrade latency badly.
type ModelRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: model name
	minDelay time.Duration
}

// NewModelRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same model.
func NewModelRateLimiter(minDelay time.Duration) *ModelRateLimiter {
	return &ModelRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the given
// model. Returns an error if the context is cancelled while waiting.
func (r *ModelRateLimiter) Wait(ctx context.Context, modelName string) error {
	r.mu.Lock()
	last, ok := r.lastCall[modelName]
	now := time.Now()

	if !ok {
		// First request for this model — no wait needed.
		r.lastCall[modelName] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		// Enough time has passed — proceed immediately.
		r.lastCall[modelName] = now
		r.mu.Unlock()
		return nil
	}

	// Need to wait for the remainder.
	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", modelName, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[modelName] = time.Now()
	r.mu.Unlock()

	return nil
}

// LimitedCompleter is a decorator that enforces per-model rate limiting before
// delegating to the wrapped Completer.
type LimitedCompleter struct {
	inner   Completer
	limiter *ModelRateLimiter
}

// NewLimitedCompleter wraps a Completer with per-model rate limiting.
// All completers sharing an Ollama server should share the same limiter.
func NewLimitedCompleter(inner Completer, limiter *ModelRateLimiter) *LimitedCompleter {
	return &LimitedCompleter{
		inner:   inner,
		limiter: limiter,
	}
}

// Complete waits for the rate limiter to allow a request, then delegates to
// the wrapped completer.
func (c *LimitedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx, c.inner.ModelName()); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, prompt)
}

// ModelName reports the wrapped completer's model name.
func (c *LimitedCompleter) ModelName() string {
	return c.inner.ModelName()
}
