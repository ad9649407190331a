package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/dlevitt/scriptforge"
)

// fastConfig retries quickly so tests stay fast.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	t.Run("returns first success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(3), func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(5), func() (string, error) {
			calls++
			if calls < 3 {
				return "", ai.NewTransientError("overloaded", 503, nil)
			}
			return "recovered", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "recovered", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(5), func() (string, error) {
			calls++
			return "", ai.NewPermanentError("invalid api key", 401, nil)
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		last := ai.NewTransientError("still down", 503, nil)
		_, err := Do(context.Background(), fastConfig(3), func() (string, error) {
			calls++
			return "", last
		})
		assert.Equal(t, 3, calls)
		assert.ErrorIs(t, err, last)
	})

	t.Run("honors context cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxAttempts: 5, InitialDelay: time.Minute, MaxDelay: time.Minute, Multiplier: 1}

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := Do(ctx, cfg, func() (string, error) {
			return "", ai.NewTransientError("slow down", 429, nil)
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("single attempt when disabled", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Disabled(), func() (string, error) {
			calls++
			return "", ai.NewTransientError("transient", 503, nil)
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestDoStream(t *testing.T) {
	t.Run("retries connection establishment", func(t *testing.T) {
		calls := 0
		ch, err := DoStream(context.Background(), fastConfig(3), func() (<-chan int, error) {
			calls++
			if calls < 2 {
				return nil, ai.NewTransientError("connect failed", 503, nil)
			}
			out := make(chan int)
			close(out)
			return out, nil
		})
		require.NoError(t, err)
		assert.NotNil(t, ch)
		assert.Equal(t, 2, calls)
	})
}

func TestEffectiveDelay(t *testing.T) {
	t.Run("server retry-after wins when larger", func(t *testing.T) {
		err := ai.NewTransientErrorWithRetry("rate limited", 429, time.Second, nil)
		assert.Equal(t, time.Second, effectiveDelay(time.Millisecond, err))
	})

	t.Run("configured delay wins when larger", func(t *testing.T) {
		err := ai.NewTransientErrorWithRetry("rate limited", 429, time.Millisecond, nil)
		assert.Equal(t, time.Second, effectiveDelay(time.Second, err))
	})

	t.Run("plain errors contribute no delay", func(t *testing.T) {
		assert.Equal(t, time.Second, effectiveDelay(time.Second, errors.New("plain")))
	})
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil error", nil, false},
		{"categorized transient", ai.NewTransientError("overloaded", 529, nil), true},
		{"categorized permanent", ai.NewPermanentError("unauthorized", 401, nil), false},
		{"connection reset", syscall.ECONNRESET, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"temporary dns failure", &net.DNSError{Err: "server misbehaving", IsTemporary: true}, true},
		{"rate limit text", errors.New("429 too many requests"), true},
		{"plain error", errors.New("something else entirely"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
		})
	}
}

func TestConfigDelay(t *testing.T) {
	t.Run("grows exponentially and caps at max", func(t *testing.T) {
		cfg := Config{InitialDelay: time.Second, MaxDelay: 4 * time.Second, Multiplier: 2.0}

		assert.Equal(t, time.Second, cfg.Delay(0))
		assert.Equal(t, 2*time.Second, cfg.Delay(1))
		assert.Equal(t, 4*time.Second, cfg.Delay(2))
		assert.Equal(t, 4*time.Second, cfg.Delay(5))
	})

	t.Run("negative attempt is clamped", func(t *testing.T) {
		cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2.0}
		assert.Equal(t, time.Second, cfg.Delay(-3))
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2.0, Jitter: 0.1}
		for i := 0; i < 20; i++ {
			d := cfg.Delay(0)
			assert.GreaterOrEqual(t, d, 900*time.Millisecond)
			assert.LessOrEqual(t, d, 1100*time.Millisecond)
		}
	})
}
