package app

import (
	"context"
	"errors"

	"github.com/tiwariParth/task-cli/internal/logger"
	"github.com/tiwariParth/task-cli/internal/models"
	"github.com/tiwariParth/task-cli/internal/storage"
)

type TodoApp struct {
	store storage.Storage
	log   *logger.Logger
}

// ListResult carries the matching tasks and the size of the whole store, so
// callers can tell an empty store from a filter with no matches.
type ListResult struct {
	Tasks []models.Task
	Total int
}

func NewTodoApp(store storage.Storage, log *logger.Logger) *TodoApp {
	if log == nil {
		log = logger.NewNop()
	}
	return &TodoApp{store: store, log: log}
}

func (app *TodoApp) AddTask(ctx context.Context, description string) (models.Task, error) {
	task, err := app.store.CreateTask(ctx, description)
	if err != nil {
		app.logFailure("add", 0, err)
		return models.Task{}, err
	}
	app.log.Debugw("task added", "id", task.ID)
	return task, nil
}

func (app *TodoApp) UpdateTask(ctx context.Context, id int, description string) (models.Task, error) {
	task, err := app.store.UpdateTask(ctx, id, description)
	if err != nil {
		app.logFailure("update", id, err)
		return models.Task{}, err
	}
	app.log.Debugw("task updated", "id", id)
	return task, nil
}

func (app *TodoApp) DeleteTask(ctx context.Context, id int) error {
	if err := app.store.DeleteTask(ctx, id); err != nil {
		app.logFailure("delete", id, err)
		return err
	}
	app.log.Debugw("task deleted", "id", id)
	return nil
}

// SetStatus parses status and applies it to the task.
func (app *TodoApp) SetStatus(ctx context.Context, id int, status string) (models.Task, error) {
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return models.Task{}, err
	}
	task, err := app.store.SetStatus(ctx, id, parsed)
	if err != nil {
		app.logFailure("set-status", id, err)
		return models.Task{}, err
	}
	app.log.Debugw("task status changed", "id", id, "status", parsed)
	return task, nil
}

func (app *TodoApp) MarkInProgress(ctx context.Context, id int) (models.Task, error) {
	return app.SetStatus(ctx, id, string(models.StatusInProgress))
}

func (app *TodoApp) MarkDone(ctx context.Context, id int) (models.Task, error) {
	return app.SetStatus(ctx, id, string(models.StatusDone))
}

// ListTasks returns tasks in insertion order. An empty statusFilter lists
// everything.
func (app *TodoApp) ListTasks(ctx context.Context, statusFilter string) (ListResult, error) {
	all, err := app.store.ListTasks(ctx, nil)
	if err != nil {
		return ListResult{}, err
	}
	if statusFilter == "" {
		return ListResult{Tasks: all, Total: len(all)}, nil
	}

	status, err := models.ParseStatus(statusFilter)
	if err != nil {
		return ListResult{}, err
	}
	tasks, err := app.store.ListTasks(ctx, storage.NewTaskFilter().WithStatus(status).Build())
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Tasks: tasks, Total: len(all)}, nil
}

func (app *TodoApp) logFailure(op string, id int, err error) {
	switch {
	case errors.Is(err, storage.ErrPersistence):
		app.log.Warnw("task file not saved", "op", op, "id", id, "error", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		app.log.Infow("operation cancelled", "op", op, "id", id)
	default:
		app.log.Debugw("operation rejected", "op", op, "id", id, "error", err)
	}
}
