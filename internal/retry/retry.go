package retry

import (
	"context"
	"math/rand"
	"time"

	"stepik-analytics/internal/httpx"
	"stepik-analytics/internal/logger"
)

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxJitter:   250 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.MaxJitter <= 0 {
		c.MaxJitter = d.MaxJitter
	}
	return c
}

// Do runs op up to cfg.MaxAttempts times, backing off between attempts on
// transient errors. Non-transient errors propagate immediately; once the
// ceiling is reached the last attempt's error is returned as-is. Cancellation
// aborts the backoff wait and surfaces ctx.Err().
func Do[T any](ctx context.Context, cfg Config, log *logger.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !httpx.IsTransient(err) || attempt == cfg.MaxAttempts {
			return zero, err
		}

		delay := cfg.BaseDelay*(1<<(attempt-1)) + time.Duration(rand.Int63n(int64(cfg.MaxJitter)))
		log.Warn("transient error, retrying",
			"error", err,
			"attempt", attempt,
			"delay", delay,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}
