package llm

import (
	"context"
	"time"
)

// RetryPolicy describes the backoff schedule for one logical generation
// call. It lives as an explicit value (not an inline sleep loop) so the
// client and tests can reason about the schedule independently.
type RetryPolicy struct {
	MaxAttempts int           // total attempts including the first, min 1
	BaseDelay   time.Duration // delay before the first retry
	Multiplier  float64       // per-retry growth factor, min 1.5
}

// DefaultRetryPolicy mirrors the historical behavior: one initial call
// plus two retries, starting at one second and doubling.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	Multiplier:  2.0,
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.Multiplier < 1.5 {
		p.Multiplier = 1.5
	}
	return p
}

// Delay returns how long to wait before retry number n (1-based: n=1 is
// the delay after the first failed attempt).
func (p RetryPolicy) Delay(n int) time.Duration {
	p = p.normalized()
	d := p.BaseDelay
	for i := 1; i < n; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
	}
	return d
}

// wait sleeps for the retry-n delay, returning early if ctx is done.
func (p RetryPolicy) wait(ctx context.Context, n int) error {
	t := time.NewTimer(p.Delay(n))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
