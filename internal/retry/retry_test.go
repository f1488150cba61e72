package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"stepik-analytics/internal/httpx"
	"stepik-analytics/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func fastConfig() Config {
	return Config{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxJitter: time.Millisecond}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	out, err := Do(context.Background(), fastConfig(), testLogger(t), func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 42 || calls != 1 {
		t.Fatalf("got out=%d calls=%d", out, calls)
	}
}

func TestDoRetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	out, err := Do(context.Background(), fastConfig(), testLogger(t), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &httpx.StatusError{Code: http.StatusTooManyRequests}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" || calls != 3 {
		t.Fatalf("got out=%q calls=%d", out, calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), testLogger(t), func(ctx context.Context) (int, error) {
		calls++
		return 0, &httpx.StatusError{Code: http.StatusServiceUnavailable}
	})
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected the last 503 back, got %v", err)
	}
	if calls != 5 {
		t.Fatalf("expected exactly 5 attempts, got %d", calls)
	}
}

func TestDoFatalErrorReturnsImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), testLogger(t), func(ctx context.Context) (int, error) {
		calls++
		return 0, &httpx.StatusError{Code: http.StatusInternalServerError}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("fatal error should not be retried, got %d calls", calls)
	}
}

func TestDoCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, BaseDelay: time.Minute, MaxJitter: time.Millisecond}
	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, cfg, testLogger(t), func(ctx context.Context) (int, error) {
			calls++
			return 0, &httpx.StatusError{Code: http.StatusBadGateway}
		})
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not abort on cancellation")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt before cancellation, got %d", calls)
	}
}

func TestDoCancelledOperationNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), testLogger(t), func(ctx context.Context) (int, error) {
		calls++
		return 0, context.Canceled
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("cancellation should not be retried, got %d calls", calls)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.MaxAttempts != 5 || cfg.BaseDelay != 500*time.Millisecond || cfg.MaxJitter != 250*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	custom := Config{MaxAttempts: 2, BaseDelay: time.Second, MaxJitter: time.Millisecond}.withDefaults()
	if custom.MaxAttempts != 2 || custom.BaseDelay != time.Second || custom.MaxJitter != time.Millisecond {
		t.Fatalf("custom config overridden: %+v", custom)
	}
}
