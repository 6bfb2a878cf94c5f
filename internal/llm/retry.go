package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider re-sends a request after transient provider failures
// (rate limits and outages). Quiz generation is single-shot by default;
// this decorator is only installed when Retry.MaxAttempts > 1.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(context.Context, time.Duration) error
}

// WithRetry wraps p with retry behavior.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if serr := r.sleep(ctx, r.wait(attempt, err)); serr != nil {
				return nil, serr
			}
		}

		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !transient(err) {
			return nil, err
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// transient reports whether another attempt could succeed. Bad
// credentials, unsupported input, truncation and cancellation will not
// change on retry.
func transient(err error) bool {
	var (
		rl    *ErrRateLimit
		down  *ErrProviderUnavailable
		inval *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &rl), errors.As(err, &down), errors.As(err, &inval):
		return true
	}
	return false
}

// wait returns the delay before the given attempt (1-based retries).
// A provider-supplied Retry-After wins, capped at MaxWait.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if r.config.MaxWait > 0 {
			return min(rl.RetryAfter, r.config.MaxWait)
		}
		return rl.RetryAfter
	}

	d := r.config.InitialWait
	for i := 1; i < attempt && d < r.config.MaxWait; i++ {
		d = time.Duration(float64(d) * r.config.Multiplier)
	}
	d = min(d, r.config.MaxWait)
	if d <= 0 {
		return 0
	}
	// Equal jitter: half fixed, half random.
	half := d / 2
	return half + rand.N(half+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
