// Package buffer provides a thread-safe text buffer stored in a gap buffer
// of runes. The gap sits at the cursor, so runs of edits at one place cost
// amortized O(1) per rune; moving the cursor costs O(distance).
//
// Inserted text is normalized to the buffer's line ending. Every edit
// assigns a new RevisionID; moving the cursor does not. Each buffer carries
// a random ID for its lifetime.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//	buf.Delete(0, 7)            // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go render(snap.Text())
//
// Positions:
//
//   - Offset: rune position in the buffer, also the cursor (gap position)
//   - Point: line and column, both 0-indexed, column in runes
//
// Read operations take a read lock and write operations an exclusive lock.
// Use Snapshot for several reads that must see the same revision.
package buffer
