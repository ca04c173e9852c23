package buffer

import (
	"cmp"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Offset is a rune position in the buffer. It indexes the logical
// sequence of the underlying gap buffer.
type Offset = int64

// Point is a 0-indexed line and rune column.
type Point struct {
	Line   uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare orders points by line, then column.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.Line, other.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, other.Column)
}

// Before reports whether p sorts before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// RevisionID identifies one state of a buffer's text. Every edit gets a
// fresh value; IDs are unique across all buffers in the process.
type RevisionID uint64

var lastRevision atomic.Uint64

// NewRevisionID returns the next revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(lastRevision.Add(1))
}

// ID identifies a buffer for the lifetime of the process.
type ID = uuid.UUID

// NewID returns a fresh random buffer ID.
func NewID() ID {
	return uuid.New()
}
