package scriptforge

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrEmptyInput(t *testing.T) {
	t.Run("is a sentinel error", func(t *testing.T) {
		assert.Error(t, ErrEmptyInput)
		assert.Equal(t, "empty input", ErrEmptyInput.Error())
	})

	t.Run("can be compared with errors.Is", func(t *testing.T) {
		err := ErrEmptyInput
		assert.True(t, errors.Is(err, ErrEmptyInput))
	})
}

func TestError(t *testing.T) {
	t.Run("Error includes the cause", func(t *testing.T) {
		err := NewTransientError("rate limited", 429, errors.New("too many requests"))
		assert.Equal(t, "rate limited: too many requests", err.Error())
	})

	t.Run("Error without a cause", func(t *testing.T) {
		err := NewPermanentError("invalid api key", 401, nil)
		assert.Equal(t, "invalid api key", err.Error())
	})

	t.Run("Unwrap returns the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewTransientError("request failed", 0, cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("constructors set categories", func(t *testing.T) {
		tests := []struct {
			name      string
			err       *Error
			category  ErrorCategory
			retryable bool
		}{
			{"transient", NewTransientError("overloaded", 529, nil), ErrorTransient, true},
			{"permanent", NewPermanentError("not found", 404, nil), ErrorPermanent, false},
			{"user input", NewUserInputError("bad request", 400, nil), ErrorUserInput, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.category, tt.err.Category())
				assert.Equal(t, tt.retryable, tt.err.Retryable())
			})
		}
	})

	t.Run("retry delay is preserved", func(t *testing.T) {
		err := NewTransientErrorWithRetry("rate limited", 429, 30*time.Second, nil)
		assert.Equal(t, 30*time.Second, err.RetryAfter())
		assert.Equal(t, 429, err.StatusCode())
	})
}

func TestCategoryPredicates(t *testing.T) {
	t.Run("match direct errors", func(t *testing.T) {
		assert.True(t, IsTransient(NewTransientError("x", 503, nil)))
		assert.True(t, IsPermanent(NewPermanentError("x", 401, nil)))
		assert.True(t, IsUserInput(NewUserInputError("x", 400, nil)))
	})

	t.Run("match wrapped errors", func(t *testing.T) {
		wrapped := fmt.Errorf("stage failed: %w", NewTransientError("x", 503, nil))
		assert.True(t, IsTransient(wrapped))
		assert.Equal(t, 503, StatusCodeOf(wrapped))
	})

	t.Run("plain errors match nothing", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.False(t, IsUserInput(err))
		assert.Equal(t, 0, StatusCodeOf(err))
		assert.Equal(t, time.Duration(0), RetryAfterOf(err))
	})
}
