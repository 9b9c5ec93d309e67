package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tiwariParth/task-cli/internal/models"
	"github.com/tiwariParth/task-cli/internal/storage"
)

// MemoryStore implements the storage.Storage interface using an ordered slice.
// Order is insertion order and is never re-sorted.
type MemoryStore struct {
	tasks []models.Task
	now   func() time.Time
	mu    sync.RWMutex
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates a new instance of MemoryStore
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		tasks: make([]models.Task, 0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reset replaces the whole collection with a copy of tasks.
func (m *MemoryStore) Reset(tasks []models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = append(make([]models.Task, 0, len(tasks)), tasks...)
}

// Snapshot returns a copy of the collection in insertion order.
func (m *MemoryStore) Snapshot() []models.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append(make([]models.Task, 0, len(m.tasks)), m.tasks...)
}

// NextID returns 1 for an empty store, otherwise the highest id plus one.
// Ids freed by deletes are never handed out again while a higher id exists.
func (m *MemoryStore) NextID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.nextID()
}

func (m *MemoryStore) nextID() int {
	maxID := 0
	for _, task := range m.tasks {
		if task.ID > maxID {
			maxID = task.ID
		}
	}
	return maxID + 1
}

// find returns the index of the task with id, or -1.
func (m *MemoryStore) find(id int) int {
	for i, task := range m.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// CreateTask adds a new todo task and returns it
func (m *MemoryStore) CreateTask(ctx context.Context, description string) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := models.NewTask(m.nextID(), description, m.now())
	if err != nil {
		return models.Task{}, err
	}

	m.tasks = append(m.tasks, *task)
	return *task, nil
}

// GetTask retrieves a task by ID
func (m *MemoryStore) GetTask(ctx context.Context, id int) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.find(id)
	if i < 0 {
		return models.Task{}, &storage.NotFoundError{ID: id}
	}
	return m.tasks[i], nil
}

// UpdateTask replaces the description of an existing task
func (m *MemoryStore) UpdateTask(ctx context.Context, id int, description string) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return models.Task{}, &storage.NotFoundError{ID: id}
	}

	task := m.tasks[i]
	if err := task.SetDescription(description, m.now()); err != nil {
		return models.Task{}, err
	}
	m.tasks[i] = task
	return task, nil
}

// DeleteTask removes a task by ID
func (m *MemoryStore) DeleteTask(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return &storage.NotFoundError{ID: id}
	}

	m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
	return nil
}

// SetStatus changes the status of an existing task
func (m *MemoryStore) SetStatus(ctx context.Context, id int, status models.Status) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	if err := models.ValidateStatus(status); err != nil {
		return models.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return models.Task{}, &storage.NotFoundError{ID: id}
	}

	task := m.tasks[i]
	if err := task.SetStatus(status, m.now()); err != nil {
		return models.Task{}, err
	}
	m.tasks[i] = task
	return task, nil
}

// ListTasks returns the tasks matching filter in insertion order
func (m *MemoryStore) ListTasks(ctx context.Context, filter *storage.Filter) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]models.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if filter.Matches(task) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

var _ storage.Storage = (*MemoryStore)(nil)
