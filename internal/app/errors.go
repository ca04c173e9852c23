package app

import (
	"errors"
	"strings"
)

var (
	ErrQuit           = errors.New("quit requested")
	ErrAlreadyRunning = errors.New("application already running")
	ErrNoBackend      = errors.New("no backend set")
	ErrNoPath         = errors.New("document has no file path")
	ErrReadOnly       = errors.New("document is read-only")
)

// OperationError reports a failed file operation such as open or save.
// Target is usually a path and may be empty.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError wraps err with the operation and its target.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Target != "" {
		sb.WriteByte(' ')
		sb.WriteString(e.Target)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *OperationError) Unwrap() error { return e.Err }

// InitError reports which component failed while the application started.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }
