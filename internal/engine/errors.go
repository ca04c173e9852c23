package engine

import (
	"errors"

	"github.com/dshills/gapstorm/internal/engine/buffer"
	"github.com/dshills/gapstorm/internal/engine/history"
)

// Buffer and history errors, re-exported so callers can match them with
// errors.Is without importing the subpackages.
var (
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange
	ErrRangeInvalid     = buffer.ErrRangeInvalid
	ErrEditsOverlap     = buffer.ErrEditsOverlap
	ErrNothingToUndo    = history.ErrNothingToUndo
	ErrNothingToRedo    = history.ErrNothingToRedo
)

// ErrReadOnly rejects edits, undo and redo on a read-only engine.
var ErrReadOnly = errors.New("engine is read-only")
