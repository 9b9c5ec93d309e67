package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTask is matched by every ValidationError.
var ErrInvalidTask = errors.New("invalid task data")

// ValidationError reports a task field that failed validation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidTask }

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
