package renderer

import (
	"github.com/dshills/gapstorm/internal/engine/buffer"
	"github.com/dshills/gapstorm/internal/renderer/backend"
)

// Document provides read access to the text being drawn.
// *buffer.Snapshot satisfies it.
type Document interface {
	// LineText returns the text content of a line (0-indexed), without
	// its line ending.
	LineText(line uint32) string

	// LineCount returns the total number of lines.
	LineCount() uint32

	// TabWidth returns the configured tab width.
	TabWidth() int
}

// Rect is a screen region.
type Rect struct {
	X, Y          int
	Width, Height int
}

// View draws a scrolled window onto a document.
type View struct {
	top  uint32 // first visible line
	left int    // first visible display column
}

// NewView creates a view scrolled to the top left.
func NewView() *View {
	return &View{}
}

// Top returns the first visible line.
func (v *View) Top() uint32 {
	return v.top
}

// Left returns the first visible display column.
func (v *View) Left() int {
	return v.left
}

// Render scrolls so the cursor is visible, draws the document into rect and
// returns the screen position of the cursor. Rows past the last line show
// a tilde.
func (v *View) Render(b backend.Backend, doc Document, cursor buffer.Point, rect Rect) (int, int) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return rect.X, rect.Y
	}
	tabWidth := doc.TabWidth()
	cursorLayout := LayoutLine(doc.LineText(cursor.Line), tabWidth)
	v.scrollTo(cursor.Line, cursorLayout.VisualColumn(int(cursor.Column)), rect)

	lineCount := doc.LineCount()
	for row := range rect.Height {
		y := rect.Y + row
		for x := rect.X; x < rect.X+rect.Width; x++ {
			b.SetCell(x, y, ' ', backend.StyleDefault)
		}

		line := v.top + uint32(row)
		if line >= lineCount {
			b.SetCell(rect.X, y, '~', backend.StyleDefault)
			continue
		}
		v.drawLine(b, LayoutLine(doc.LineText(line), tabWidth), rect, y)
	}

	cx := rect.X + cursorLayout.VisualColumn(int(cursor.Column)) - v.left
	cy := rect.Y + int(cursor.Line-v.top)
	return cx, cy
}

func (v *View) drawLine(b backend.Backend, l LineLayout, rect Rect, y int) {
	for _, c := range l.Clusters {
		start := c.Col - v.left
		if start+c.Width <= 0 {
			continue
		}
		if start >= rect.Width {
			break
		}

		r := []rune(c.Text)[0]
		switch {
		case c.Text == "\t":
			// tab cells are already blank
			continue
		case r < ' ' || r == 0x7f:
			r = '?'
		}
		if start < 0 || start+c.Width > rect.Width {
			// clipped wide cluster
			continue
		}
		b.SetCell(rect.X+start, y, r, backend.StyleDefault)
	}
}

// scrollTo adjusts the window so (line, col) is inside rect.
func (v *View) scrollTo(line uint32, col int, rect Rect) {
	if line < v.top {
		v.top = line
	}
	if h := uint32(rect.Height); line >= v.top+h {
		v.top = line - h + 1
	}
	if col < v.left {
		v.left = col
	}
	if col >= v.left+rect.Width {
		v.left = col - rect.Width + 1
	}
}
