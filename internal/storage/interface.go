package storage

import (
	"context"

	"github.com/tiwariParth/task-cli/internal/models"
)

// Filter represents the filtering options for task queries
type Filter struct {
	Status *models.Status
}

// Matches reports whether task passes the filter. A nil filter matches everything.
func (f *Filter) Matches(task models.Task) bool {
	if f == nil {
		return true
	}
	if f.Status != nil && task.Status != *f.Status {
		return false
	}
	return true
}

// Storage defines the interface for task storage operations
type Storage interface {
	CreateTask(ctx context.Context, description string) (models.Task, error)
	GetTask(ctx context.Context, id int) (models.Task, error)
	UpdateTask(ctx context.Context, id int, description string) (models.Task, error)
	DeleteTask(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, status models.Status) (models.Task, error)

	// ListTasks returns matching tasks in insertion order.
	ListTasks(ctx context.Context, filter *Filter) ([]models.Task, error)

	// NextID returns the id the next created task will receive.
	NextID() int
}

// TaskFilter helps build Filter objects with a fluent interface
type TaskFilter struct {
	filter Filter
}

// NewTaskFilter creates a new TaskFilter
func NewTaskFilter() *TaskFilter {
	return &TaskFilter{}
}

// WithStatus adds status filter
func (tf *TaskFilter) WithStatus(status models.Status) *TaskFilter {
	tf.filter.Status = &status
	return tf
}

// Build creates the final Filter
func (tf *TaskFilter) Build() *Filter {
	f := tf.filter
	return &f
}
