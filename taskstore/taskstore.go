// Package taskstore tracks the status of asynchronous script generation
// tasks. Entries expire automatically so abandoned polls do not leak memory
// across the life of the process.
package taskstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Default retention for task records.
const (
	DefaultTTL             = time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// Task is one script generation job as seen by polling clients.
type Task struct {
	ID     string `json:"task_id"`
	Status Status `json:"status"`

	// Result holds the final script once Status is completed.
	Result string `json:"result,omitempty"`

	// Error holds the failure message once Status is failed.
	Error string `json:"error,omitempty"`

	// FilePath is where the rendered document was written, if any.
	FilePath string `json:"file_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a concurrency-safe task table with TTL-based expiry. Tasks are
// stored by value; an update committed by one caller is visible to the next
// read.
type Store struct {
	c *cache.Cache

	// mu serializes Update's read-modify-write so concurrent writers to the
	// same task cannot lose each other's changes.
	mu sync.Mutex
}

// New creates a store whose entries expire after ttl.
func New(ttl, cleanupInterval time.Duration) *Store {
	return &Store{c: cache.New(ttl, cleanupInterval)}
}

// NewDefault creates a store with the default retention.
func NewDefault() *Store {
	return New(DefaultTTL, DefaultCleanupInterval)
}

// Create registers a new pending task and returns it.
func (s *Store) Create() Task {
	now := time.Now()
	t := Task{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.c.SetDefault(t.ID, t)
	return t
}

// Get returns the task by id.
func (s *Store) Get(id string) (Task, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return Task{}, false
	}
	return v.(Task), true
}

// Update applies fn to the stored task and commits the result. It returns
// false when the task does not exist or has expired.
func (s *Store) Update(id string, fn func(*Task)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.c.Get(id)
	if !ok {
		return false
	}
	t := v.(Task)
	fn(&t)
	t.UpdatedAt = time.Now()
	s.c.SetDefault(id, t)
	return true
}

// SetRunning marks the task as running.
func (s *Store) SetRunning(id string) bool {
	return s.Update(id, func(t *Task) {
		t.Status = StatusRunning
	})
}

// SetCompleted marks the task as completed with its result and the path of
// the rendered document.
func (s *Store) SetCompleted(id, result, filePath string) bool {
	return s.Update(id, func(t *Task) {
		t.Status = StatusCompleted
		t.Result = result
		t.FilePath = filePath
		t.Error = ""
	})
}

// SetFailed marks the task as failed with the error message.
func (s *Store) SetFailed(id, errMsg string) bool {
	return s.Update(id, func(t *Task) {
		t.Status = StatusFailed
		t.Error = errMsg
		t.Result = ""
	})
}

// Len returns the number of live tasks.
func (s *Store) Len() int {
	return s.c.ItemCount()
}
