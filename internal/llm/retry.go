package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. It is the only layer that retries; the SDK clients are built
// with their own retries disabled.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. MaxAttempts below 1 is treated as 1.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

type retryDecision int

const (
	giveUp retryDecision = iota
	retryOnce
	retryAlways
)

// classify decides whether err is worth another attempt.
func classify(err error) retryDecision {
	var (
		maxTok *ErrMaxTokensExceeded
		auth   *ErrUnauthorized
		bad    *ErrBadRequest
		inv    *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok), errors.As(err, &auth), errors.As(err, &bad):
		return giveUp
	case errors.As(err, &inv):
		// Models sometimes recover from a malformed reply, but rarely twice.
		return retryOnce
	default:
		return retryAlways
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	retriedInvalid := false

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff(attempt-1, lastErr)):
			}
		}

		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff is the wait before retry number attempt+1. A rate limit with a
// Retry-After hint waits that long, capped at MaxWait.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return min(rl.RetryAfter, r.maxWait())
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.maxWait()))

	// ±20% jitter.
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}

func (r *RetryProvider) maxWait() time.Duration {
	if r.config.MaxWait > 0 {
		return r.config.MaxWait
	}
	return time.Duration(math.MaxInt64)
}
