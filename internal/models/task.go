package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status represents the current status of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus converts user input into a Status. Matching ignores case and
// surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if err := ValidateStatus(status); err != nil {
		return "", invalidf("status", "invalid status %q: valid statuses are %s", s, statusList())
	}
	return status, nil
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// ValidateStatus rejects values outside Statuses. Unlike ParseStatus it does
// not normalize case.
func ValidateStatus(s Status) error {
	if !s.Valid() {
		return invalidf("status", "invalid status %q: valid statuses are %s", s, statusList())
	}
	return nil
}

// Task represents a tracked unit of work
type Task struct {
	ID          int       `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Status      Status    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewTask creates a todo task stamped with now.
func NewTask(id int, description string, now time.Time) (*Task, error) {
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	return &Task{
		ID:          id,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidateDescription rejects empty and whitespace-only descriptions.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return invalidf("description", "task description cannot be empty")
	}
	return nil
}

// Validate checks if the task has valid data
func (t *Task) Validate() error {
	if t.ID <= 0 {
		return invalidf("id", "task id must be positive, got %d", t.ID)
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if err := ValidateStatus(t.Status); err != nil {
		return err
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return invalidf("updatedAt", "task %d updated before it was created", t.ID)
	}
	return nil
}

// SetDescription replaces the description and bumps UpdatedAt.
func (t *Task) SetDescription(description string, now time.Time) error {
	if err := ValidateDescription(description); err != nil {
		return err
	}
	t.Description = description
	t.touch(now)
	return nil
}

// SetStatus changes the status and bumps UpdatedAt.
func (t *Task) SetStatus(status Status, now time.Time) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	t.Status = status
	t.touch(now)
	return nil
}

func (t *Task) touch(now time.Time) {
	// A clock that steps backwards must not break updatedAt >= createdAt.
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// timestampLayouts are tried in order when decoding createdAt/updatedAt.
// Zone-less values are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(field, value string) (time.Time, error) {
	for i, layout := range timestampLayouts {
		var (
			ts  time.Time
			err error
		)
		if i == 0 {
			ts, err = time.Parse(layout, value)
		} else {
			ts, err = time.ParseInLocation(layout, value, time.Local)
		}
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q is not an ISO-8601 timestamp", field, value)
}

// UnmarshalJSON accepts RFC 3339 timestamps as well as zone-less ISO-8601 ones.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
		Status      Status `json:"status"`
		CreatedAt   string `json:"createdAt"`
		UpdatedAt   string `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	createdAt, err := parseTimestamp("createdAt", raw.CreatedAt)
	if err != nil {
		return err
	}
	updatedAt, err := parseTimestamp("updatedAt", raw.UpdatedAt)
	if err != nil {
		return err
	}

	*t = Task{
		ID:          raw.ID,
		Description: raw.Description,
		Status:      raw.Status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	return nil
}
