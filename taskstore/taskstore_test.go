package taskstore

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("create returns a pending task with a unique id", func(t *testing.T) {
		s := NewDefault()

		a := s.Create()
		b := s.Create()

		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, StatusPending, a.Status)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("get returns what was stored", func(t *testing.T) {
		s := NewDefault()
		created := s.Create()

		got, ok := s.Get(created.ID)
		require.True(t, ok)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, StatusPending, got.Status)
	})

	t.Run("get of unknown id misses", func(t *testing.T) {
		s := NewDefault()
		_, ok := s.Get("no-such-task")
		assert.False(t, ok)
	})

	t.Run("update is visible to the next read", func(t *testing.T) {
		s := NewDefault()
		task := s.Create()

		require.True(t, s.SetRunning(task.ID))
		got, ok := s.Get(task.ID)
		require.True(t, ok)
		assert.Equal(t, StatusRunning, got.Status)

		require.True(t, s.SetCompleted(task.ID, "the script", "out/script.docx"))
		got, ok = s.Get(task.ID)
		require.True(t, ok)
		assert.Equal(t, StatusCompleted, got.Status)
		assert.Equal(t, "the script", got.Result)
		assert.Equal(t, "out/script.docx", got.FilePath)
		assert.Empty(t, got.Error)
	})

	t.Run("failure clears any result", func(t *testing.T) {
		s := NewDefault()
		task := s.Create()

		require.True(t, s.SetCompleted(task.ID, "draft", ""))
		require.True(t, s.SetFailed(task.ID, "rate limited"))

		got, ok := s.Get(task.ID)
		require.True(t, ok)
		assert.Equal(t, StatusFailed, got.Status)
		assert.Equal(t, "rate limited", got.Error)
		assert.Empty(t, got.Result)
	})

	t.Run("update of unknown id reports false", func(t *testing.T) {
		s := NewDefault()
		assert.False(t, s.SetRunning("no-such-task"))
	})

	t.Run("mutating a returned task does not affect the store", func(t *testing.T) {
		s := NewDefault()
		task := s.Create()

		got, _ := s.Get(task.ID)
		got.Result = "tampered"

		fresh, _ := s.Get(task.ID)
		assert.Empty(t, fresh.Result)
	})

	t.Run("concurrent updates to one task are not lost", func(t *testing.T) {
		s := NewDefault()
		task := s.Create()

		const writers = 8
		const perWriter = 25

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWriter; j++ {
					s.Update(task.ID, func(t *Task) {
						n, _ := strconv.Atoi(t.Result)
						t.Result = strconv.Itoa(n + 1)
					})
				}
			}()
		}
		wg.Wait()

		got, ok := s.Get(task.ID)
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(writers*perWriter), got.Result)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		s := New(10*time.Millisecond, time.Minute)
		task := s.Create()

		time.Sleep(30 * time.Millisecond)
		_, ok := s.Get(task.ID)
		assert.False(t, ok)
	})
}
