package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tiwariParth/task-cli/internal/models"
	"github.com/tiwariParth/task-cli/internal/storage"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func ids(tasks []models.Task) []int {
	out := make([]int, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func TestMemoryStore_NextID_Empty(t *testing.T) {
	ms := NewMemoryStore()
	if got := ms.NextID(); got != 1 {
		t.Fatalf("NextID() = %d, want 1", got)
	}
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	t1, _ := ms.CreateTask(ctx, "a")
	t2, _ := ms.CreateTask(ctx, "b")
	if err := ms.DeleteTask(ctx, t1.ID); err != nil {
		t.Fatalf("DeleteTask() err = %v, want nil", err)
	}
	t3, err := ms.CreateTask(ctx, "c")
	if err != nil {
		t.Fatalf("CreateTask() err = %v, want nil", err)
	}

	if got := []int{t1.ID, t2.ID, t3.ID}; !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("ids = %v, want [1 2 3]", got)
	}
}

func TestMemoryStore_NextID_FromMax(t *testing.T) {
	ms := NewMemoryStore()
	now := time.Now()
	ms.Reset([]models.Task{
		{ID: 7, Description: "x", Status: models.StatusTodo, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Description: "y", Status: models.StatusTodo, CreatedAt: now, UpdatedAt: now},
	})
	if got := ms.NextID(); got != 8 {
		t.Fatalf("NextID() = %d, want 8", got)
	}
}

func TestMemoryStore_CreateTask_BlankDescription(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	_, _ = ms.CreateTask(ctx, "keep")

	_, err := ms.CreateTask(ctx, "   ")
	if !errors.Is(err, storage.ErrTaskValidation) {
		t.Fatalf("CreateTask() err = %v, want %v", err, storage.ErrTaskValidation)
	}
	if got := ms.Snapshot(); len(got) != 1 {
		t.Fatalf("Snapshot() len = %d, want 1", len(got))
	}
}

func TestMemoryStore_NotFoundLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(WithClock(stepClock()))
	_, _ = ms.CreateTask(ctx, "a")
	_, _ = ms.CreateTask(ctx, "b")
	before := ms.Snapshot()

	checks := map[string]error{}
	_, checks["GetTask"] = ms.GetTask(ctx, 999)
	_, checks["UpdateTask"] = ms.UpdateTask(ctx, 999, "x")
	checks["DeleteTask"] = ms.DeleteTask(ctx, 999)
	_, checks["SetStatus"] = ms.SetStatus(ctx, 999, models.StatusDone)

	for name, err := range checks {
		if !errors.Is(err, storage.ErrTaskNotFound) {
			t.Errorf("%s() err = %v, want %v", name, err, storage.ErrTaskNotFound)
		}
		var nf *storage.NotFoundError
		if errors.As(err, &nf) && nf.ID != 999 {
			t.Errorf("%s() NotFoundError.ID = %d, want 999", name, nf.ID)
		}
	}
	if after := ms.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("collection changed: before %+v after %+v", before, after)
	}
}

func TestMemoryStore_UpdateTask(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(WithClock(stepClock()))
	created, _ := ms.CreateTask(ctx, "old")

	updated, err := ms.UpdateTask(ctx, created.ID, "new")
	if err != nil {
		t.Fatalf("UpdateTask() err = %v, want nil", err)
	}
	if updated.Description != "new" || updated.Status != models.StatusTodo {
		t.Fatalf("UpdateTask() = %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) || !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("UpdateTask() timestamps created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}

	if _, err := ms.UpdateTask(ctx, created.ID, " "); !errors.Is(err, storage.ErrTaskValidation) {
		t.Fatalf("UpdateTask(blank) err = %v, want %v", err, storage.ErrTaskValidation)
	}
	got, _ := ms.GetTask(ctx, created.ID)
	if got.Description != "new" {
		t.Fatalf("UpdateTask(blank) changed description to %q", got.Description)
	}
}

func TestMemoryStore_SetStatus_Invalid(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	created, _ := ms.CreateTask(ctx, "a")
	before := ms.Snapshot()

	_, err := ms.SetStatus(ctx, created.ID, "archived")
	if !errors.Is(err, storage.ErrTaskValidation) {
		t.Fatalf("SetStatus() err = %v, want %v", err, storage.ErrTaskValidation)
	}
	// status is checked before the id
	_, err = ms.SetStatus(ctx, 999, "archived")
	if !errors.Is(err, storage.ErrTaskValidation) {
		t.Fatalf("SetStatus(999) err = %v, want %v", err, storage.ErrTaskValidation)
	}
	if after := ms.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("collection changed: before %+v after %+v", before, after)
	}
}

func TestMemoryStore_Scenario(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore(WithClock(stepClock()))

	created, err := ms.CreateTask(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("CreateTask() err = %v, want nil", err)
	}
	if created.ID != 1 || created.Status != models.StatusTodo {
		t.Fatalf("CreateTask() = %+v, want id 1 todo", created)
	}

	marked, err := ms.SetStatus(ctx, 1, models.StatusInProgress)
	if err != nil {
		t.Fatalf("SetStatus() err = %v, want nil", err)
	}
	if marked.Status != models.StatusInProgress {
		t.Fatalf("SetStatus() status = %s, want %s", marked.Status, models.StatusInProgress)
	}
	if !marked.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("SetStatus() changed CreatedAt")
	}
	if marked.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("SetStatus() did not change UpdatedAt")
	}

	done, err := ms.ListTasks(ctx, storage.NewTaskFilter().WithStatus(models.StatusDone).Build())
	if err != nil {
		t.Fatalf("ListTasks() err = %v, want nil", err)
	}
	if len(done) != 0 {
		t.Fatalf("ListTasks(done) len = %d, want 0", len(done))
	}
	all, _ := ms.ListTasks(ctx, nil)
	if len(all) != 1 {
		t.Fatalf("ListTasks() len = %d, want 1", len(all))
	}
}

func TestMemoryStore_ListTasks_OrderAndFilter(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	now := time.Now()
	ms.Reset([]models.Task{
		{ID: 2, Description: "b", Status: models.StatusDone, CreatedAt: now, UpdatedAt: now},
		{ID: 1, Description: "a", Status: models.StatusTodo, CreatedAt: now, UpdatedAt: now},
	})

	all, err := ms.ListTasks(ctx, nil)
	if err != nil {
		t.Fatalf("ListTasks() err = %v, want nil", err)
	}
	if got := ids(all); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Fatalf("ListTasks() ids = %v, want insertion order [2 1]", got)
	}

	done, _ := ms.ListTasks(ctx, storage.NewTaskFilter().WithStatus(models.StatusDone).Build())
	if got := ids(done); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("ListTasks(done) ids = %v, want [2]", got)
	}
}

func TestMemoryStore_ListTasks_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	_, _ = ms.CreateTask(ctx, "a")

	list, _ := ms.ListTasks(ctx, nil)
	list[0].Description = "mutated"

	got, _ := ms.GetTask(ctx, 1)
	if got.Description != "a" {
		t.Fatalf("store aliased caller slice: description = %q", got.Description)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ms := NewMemoryStore()

	if _, err := ms.CreateTask(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("CreateTask() err = %v, want %v", err, context.Canceled)
	}
	if len(ms.Snapshot()) != 0 {
		t.Fatal("CreateTask() with cancelled context added a task")
	}
}
