package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tiwariParth/task-cli/internal/models"
	"github.com/tiwariParth/task-cli/internal/storage"
	"github.com/tiwariParth/task-cli/internal/storage/memory"
)

// DefaultFileName is used when no path is configured.
const DefaultFileName = "tasks.json"

// ErrUnreadableFile is returned by saves after Load failed to read the file.
// The file is left in place since its contents could not be backed up.
var ErrUnreadableFile = errors.New("tasks file could not be read, refusing to overwrite it")

// FileStore implements the storage.Storage interface on top of a JSON file.
// Every mutation is written through to disk before it returns; a mutation
// whose save fails is rolled back in memory.
type FileStore struct {
	filePath string
	tasks    *memory.MemoryStore
	mu       sync.Mutex

	// rejected holds the bytes of a file that failed to load. They are
	// copied to a backup file before the first save overwrites them.
	rejected []byte
	// unreadable is set when the file exists but could not be read.
	unreadable bool
}

// NewFileStore creates a new instance of FileStore. The file is not read
// until Load is called.
func NewFileStore(filePath string, opts ...memory.Option) *FileStore {
	if filePath == "" {
		filePath = DefaultFileName
	}
	return &FileStore{
		filePath: filePath,
		tasks:    memory.NewMemoryStore(opts...),
	}
}

// Path returns the location of the task file.
func (f *FileStore) Path() string {
	return f.filePath
}

// Load reads the task file. A missing file yields an empty store. Any other
// failure leaves the store empty and returns a *storage.PersistenceError, so
// callers may report it and carry on. A file that fails to decode is backed up
// before the next save; one that cannot be read at all is never overwritten.
func (f *FileStore) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.tasks.Reset(nil)
	f.rejected = nil
	f.unreadable = false

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		f.unreadable = true
		return &storage.PersistenceError{Op: "load", Path: f.filePath, Err: err}
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		f.rejected = data
		return &storage.PersistenceError{Op: "load", Path: f.filePath, Err: err}
	}

	f.tasks.Reset(tasks)
	return nil
}

// Save writes the whole collection to the task file.
func (f *FileStore) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.save()
}

// CreateTask adds a new task and persists it to file
func (f *FileStore) CreateTask(ctx context.Context, description string) (models.Task, error) {
	var task models.Task
	err := f.mutate(ctx, func() error {
		var err error
		task, err = f.tasks.CreateTask(ctx, description)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// GetTask retrieves a task by ID
func (f *FileStore) GetTask(ctx context.Context, id int) (models.Task, error) {
	return f.tasks.GetTask(ctx, id)
}

// UpdateTask changes a task's description and persists it to file
func (f *FileStore) UpdateTask(ctx context.Context, id int, description string) (models.Task, error) {
	var task models.Task
	err := f.mutate(ctx, func() error {
		var err error
		task, err = f.tasks.UpdateTask(ctx, id, description)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task and persists the change
func (f *FileStore) DeleteTask(ctx context.Context, id int) error {
	return f.mutate(ctx, func() error {
		return f.tasks.DeleteTask(ctx, id)
	})
}

// SetStatus changes a task's status and persists it to file
func (f *FileStore) SetStatus(ctx context.Context, id int, status models.Status) (models.Task, error) {
	var task models.Task
	err := f.mutate(ctx, func() error {
		var err error
		task, err = f.tasks.SetStatus(ctx, id, status)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ListTasks returns tasks in insertion order
func (f *FileStore) ListTasks(ctx context.Context, filter *storage.Filter) ([]models.Task, error) {
	return f.tasks.ListTasks(ctx, filter)
}

// NextID returns the id the next created task will receive
func (f *FileStore) NextID() int {
	return f.tasks.NextID()
}

// mutate applies fn and saves. On save failure the collection is restored to
// what it was before fn ran.
func (f *FileStore) mutate(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.tasks.Snapshot()
	if err := fn(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		f.tasks.Reset(before)
		return err
	}
	if err := f.save(); err != nil {
		f.tasks.Reset(before)
		return err
	}
	return nil
}

func (f *FileStore) save() error {
	if f.unreadable {
		return &storage.PersistenceError{Op: "save", Path: f.filePath, Err: ErrUnreadableFile}
	}
	if f.rejected != nil {
		if err := f.backupRejected(); err != nil {
			return &storage.PersistenceError{Op: "save", Path: f.filePath, Err: err}
		}
	}

	data, err := encodeTasks(f.tasks.Snapshot())
	if err != nil {
		return &storage.PersistenceError{Op: "save", Path: f.filePath, Err: err}
	}
	if err := writeFileAtomic(f.filePath, data, 0o644); err != nil {
		return &storage.PersistenceError{Op: "save", Path: f.filePath, Err: err}
	}
	return nil
}

// backupRejected preserves a file that could not be loaded before it is
// overwritten.
func (f *FileStore) backupRejected() error {
	backupPath := f.filePath + ".backup." + time.Now().Format("20060102150405")
	if err := os.WriteFile(backupPath, f.rejected, 0o644); err != nil {
		return fmt.Errorf("failed to back up rejected tasks file: %w", err)
	}
	f.rejected = nil
	return nil
}

func encodeTasks(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeTasks(data []byte) ([]models.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var tasks []models.Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing content")
	}

	seen := make(map[int]struct{}, len(tasks))
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[tasks[i].ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate task id %d", i, tasks[i].ID)
		}
		seen[tasks[i].ID] = struct{}{}
	}
	return tasks, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a half-written file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	committed = true

	// Best-effort: some filesystems refuse to sync directories.
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

var _ storage.Storage = (*FileStore)(nil)
