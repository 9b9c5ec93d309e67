package cli

import (
	"context"
	"errors"
)

// Exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// ArgumentError reports malformed or missing command-line arguments. It is
// raised before the task file is opened.
type ArgumentError struct {
	Message   string
	ShowUsage bool
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func newArgumentError(msg string) error {
	return &ArgumentError{Message: msg}
}

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	var argErr *ArgumentError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitCancelled
	case errors.As(err, &argErr):
		return ExitUsage
	default:
		return ExitFailure
	}
}
