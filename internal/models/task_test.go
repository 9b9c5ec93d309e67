package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "todo", want: StatusTodo},
		{in: "in-progress", want: StatusInProgress},
		{in: "done", want: StatusDone},
		{in: " DONE ", want: StatusDone},
		{in: "In-Progress", want: StatusInProgress},
		{in: "archived", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTask) {
				t.Errorf("ParseStatus(%q) err = %v, want ErrInvalidTask", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q) err = %v, want nil", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTask(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	task, err := NewTask(1, "Buy milk", now)
	if err != nil {
		t.Fatalf("NewTask() err = %v, want nil", err)
	}
	if task.Status != StatusTodo {
		t.Fatalf("NewTask() status = %s, want %s", task.Status, StatusTodo)
	}
	if !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Fatalf("NewTask() timestamps = %v/%v, want both %v", task.CreatedAt, task.UpdatedAt, now)
	}

	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := NewTask(1, desc, now)
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "description" {
			t.Errorf("NewTask(%q) err = %v, want description ValidationError", desc, err)
		}
	}
}

func TestTask_SetStatus(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task, _ := NewTask(1, "t", created)

	later := created.Add(time.Hour)
	if err := task.SetStatus(StatusInProgress, later); err != nil {
		t.Fatalf("SetStatus() err = %v, want nil", err)
	}
	if task.Status != StatusInProgress || !task.UpdatedAt.Equal(later) || !task.CreatedAt.Equal(created) {
		t.Fatalf("SetStatus() task = %+v", task)
	}

	if err := task.SetStatus("archived", later); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("SetStatus(archived) err = %v, want ErrInvalidTask", err)
	}
	if task.Status != StatusInProgress {
		t.Fatalf("SetStatus(archived) changed status to %s", task.Status)
	}
}

func TestTask_TouchNeverPrecedesCreation(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task, _ := NewTask(1, "t", created)

	if err := task.SetDescription("u", created.Add(-time.Minute)); err != nil {
		t.Fatalf("SetDescription() err = %v, want nil", err)
	}
	if task.UpdatedAt.Before(task.CreatedAt) {
		t.Fatalf("UpdatedAt %v before CreatedAt %v", task.UpdatedAt, task.CreatedAt)
	}
}

func TestTask_Validate(t *testing.T) {
	now := time.Now()
	valid := Task{ID: 1, Description: "x", Status: StatusDone, CreatedAt: now, UpdatedAt: now}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() err = %v, want nil", err)
	}

	tests := map[string]func(*Task){
		"zero id":            func(t *Task) { t.ID = 0 },
		"blank description":  func(t *Task) { t.Description = "  " },
		"unknown status":     func(t *Task) { t.Status = "archived" },
		"updated before now": func(t *Task) { t.UpdatedAt = t.CreatedAt.Add(-time.Second) },
	}
	for name, mutate := range tests {
		task := valid
		mutate(&task)
		if err := task.Validate(); !errors.Is(err, ErrInvalidTask) {
			t.Errorf("%s: Validate() err = %v, want ErrInvalidTask", name, err)
		}
	}
}

func TestTask_UnmarshalJSON(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		data := `{"id":3,"description":"d","status":"done","createdAt":"2025-03-01T09:00:00.5Z","updatedAt":"2025-03-01T10:00:00Z"}`
		var task Task
		if err := json.Unmarshal([]byte(data), &task); err != nil {
			t.Fatalf("Unmarshal() err = %v, want nil", err)
		}
		want := time.Date(2025, 3, 1, 9, 0, 0, 500000000, time.UTC)
		if !task.CreatedAt.Equal(want) {
			t.Fatalf("CreatedAt = %v, want %v", task.CreatedAt, want)
		}
		if task.ID != 3 || task.Status != StatusDone || task.Description != "d" {
			t.Fatalf("Unmarshal() task = %+v", task)
		}
	})

	t.Run("zone-less", func(t *testing.T) {
		data := `{"id":1,"description":"d","status":"todo","createdAt":"2024-05-01T10:00:00.123456","updatedAt":"2024-05-01T10:00:00"}`
		var task Task
		if err := json.Unmarshal([]byte(data), &task); err != nil {
			t.Fatalf("Unmarshal() err = %v, want nil", err)
		}
		want := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.Local)
		if !task.CreatedAt.Equal(want) {
			t.Fatalf("CreatedAt = %v, want %v", task.CreatedAt, want)
		}
	})

	t.Run("bad timestamp", func(t *testing.T) {
		data := `{"id":1,"description":"d","status":"todo","createdAt":"yesterday","updatedAt":"2024-05-01T10:00:00"}`
		var task Task
		if err := json.Unmarshal([]byte(data), &task); err == nil {
			t.Fatal("Unmarshal() err = nil, want non-nil")
		}
	})
}

func TestTask_JSONRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 123456789, time.UTC)
	in := Task{ID: 7, Description: "round trip", Status: StatusInProgress, CreatedAt: now, UpdatedAt: now.Add(time.Minute)}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() err = %v, want nil", err)
	}
	var out Task
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() err = %v, want nil", err)
	}
	if out.ID != in.ID || out.Description != in.Description || out.Status != in.Status ||
		!out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}
