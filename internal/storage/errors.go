package storage

import (
	"errors"
	"fmt"

	"github.com/tiwariParth/task-cli/internal/models"
)

// Common errors that can be returned by any storage implementation
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskValidation = models.ErrInvalidTask
	ErrPersistence    = errors.New("task file persistence failed")
)

// NotFoundError is returned when no task has the requested id.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrTaskNotFound }

// PersistenceError wraps a failure to read or write the task file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s tasks file %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
