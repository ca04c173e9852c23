package buffer

import (
	"iter"
	"sort"

	"github.com/dshills/gapstorm/internal/engine/gapbuffer"
)

// lineSpan is one line: the offset of its first rune and the offset just
// past its content, before the line break.
type lineSpan struct {
	start, end Offset
}

// lineIndex records the span of every line. There is always at least one
// line.
//
// The spans live in a gap buffer of their own that tracks the last edited
// line. Spans before its gap hold absolute offsets. Spans after it are
// stored relative to total, the text length, so an edit shifts every later
// line just by changing total.
type lineIndex struct {
	spans gapbuffer.GapBuffer[lineSpan]
	total Offset
}

// buildLineIndex indexes n runes given in logical order.
func buildLineIndex(runes iter.Seq2[int, rune], n int) lineIndex {
	idx := lineIndex{total: Offset(n)}
	idx.spans.InsertSeq(scanLines(runes, 0, Offset(n), true))
	return idx
}

// scanLines yields the lines of the runes in [from, to). A line break is
// "\n", "\r\n" or a lone "\r". from must be a line start. With tail set,
// to is the end of the text and the line after the last break is yielded
// too. Otherwise to must be a line start and nothing past it is yielded.
func scanLines(runes iter.Seq2[int, rune], from, to Offset, tail bool) iter.Seq[lineSpan] {
	return func(yield func(lineSpan) bool) {
		start := from
		prevCR := false
		for i, r := range runes {
			at := Offset(i)
			if prevCR && r != '\n' {
				if !yield(lineSpan{start, at - 1}) {
					return
				}
				start = at
			}
			if r == '\n' {
				end := at
				if prevCR {
					end--
				}
				if !yield(lineSpan{start, end}) {
					return
				}
				start = at + 1
			}
			prevCR = r == '\r'
		}
		if prevCR {
			if !yield(lineSpan{start, to - 1}) {
				return
			}
			start = to
		}
		if tail {
			yield(lineSpan{start, to})
		}
	}
}

// runesIn yields the runes of text in [from, to) with their offsets.
func runesIn(text *gapbuffer.RuneBuffer, from, to Offset) iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		for i := int(from); i < int(to); i++ {
			r, _ := text.Get(i)
			if !yield(i, r) {
				return
			}
		}
	}
}

// update re-indexes after [start, oldEnd) of the text was replaced by
// runes now ending at newEnd. text is the edited text and idx still
// describes the text before the edit. Only the touched lines are scanned.
func (idx *lineIndex) update(text *gapbuffer.RuneBuffer, start, oldEnd, newEnd Offset) {
	first := idx.lineOf(start)
	if first > 0 && start == idx.lineStart(first) {
		// "\n" written here may pair with a "\r" ending the line above.
		first--
	}
	last := idx.lineOf(oldEnd)
	tail := last+1 == idx.count()
	from := idx.lineStart(first)
	var to Offset
	if !tail {
		to = idx.lineStart(last+1) + newEnd - oldEnd
	}

	idx.moveGap(int(first))
	idx.spans.RemoveN(int(last-first) + 1)
	idx.total = Offset(text.Len())
	if tail {
		to = idx.total
	}
	idx.spans.InsertSeq(scanLines(runesIn(text, from, to), from, to, tail))
}

// moveGap moves the span gap to line, rebasing the spans that cross it.
func (idx *lineIndex) moveGap(line int) {
	p := idx.spans.Position()
	idx.spans.SetPosition(line)
	for i := p; i < line; i++ {
		s := idx.spans.At(i)
		s.start += idx.total
		s.end += idx.total
	}
	for i := line; i < p; i++ {
		s := idx.spans.At(i)
		s.start -= idx.total
		s.end -= idx.total
	}
}

func (idx *lineIndex) span(i int) lineSpan {
	s, _ := idx.spans.Get(i)
	if i >= idx.spans.Position() {
		s.start += idx.total
		s.end += idx.total
	}
	return s
}

// count returns the number of lines.
func (idx *lineIndex) count() uint32 {
	return uint32(idx.spans.Len())
}

// clampLine clamps line to the last line.
func (idx *lineIndex) clampLine(line uint32) uint32 {
	if n := idx.count(); line >= n {
		return n - 1
	}
	return line
}

// lineStart returns the offset of the first rune of line.
func (idx *lineIndex) lineStart(line uint32) Offset {
	return idx.span(int(idx.clampLine(line))).start
}

// lineEnd returns the offset just past the content of line.
func (idx *lineIndex) lineEnd(line uint32) Offset {
	return idx.span(int(idx.clampLine(line))).end
}

// lineOf returns the line containing offset.
func (idx *lineIndex) lineOf(offset Offset) uint32 {
	i := sort.Search(idx.spans.Len(), func(i int) bool {
		return idx.span(i).start > offset
	})
	if i == 0 {
		return 0
	}
	return uint32(i - 1)
}

// clone returns an independent copy holding absolute spans only.
func (idx *lineIndex) clone() lineIndex {
	c := lineIndex{total: idx.total}
	c.spans.Reserve(idx.spans.Len())
	for i := range idx.spans.Len() {
		c.spans.Insert(idx.span(i))
	}
	return c
}
