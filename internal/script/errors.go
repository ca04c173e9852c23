package script

import "errors"

var (
	// ErrClosed is returned when running on a closed Runner.
	ErrClosed = errors.New("script runner is closed")

	// ErrTimeout is returned when a script exceeds its time limit.
	ErrTimeout = errors.New("script timed out")
)

// Error reports a failure raised while running a script.
type Error struct {
	Name string // chunk name, usually the file path
	Err  error
}

func (e *Error) Error() string {
	return "script " + e.Name + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
