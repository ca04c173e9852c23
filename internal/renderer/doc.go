// Package renderer draws a text document onto a terminal backend.
//
// LayoutLine turns one line of text into display cells: grapheme clusters
// are measured with their terminal width and tabs expand to the next tab
// stop. View keeps the cursor on screen by scrolling and paints the lines
// that fit. The statusline subpackage draws the bottom line with the
// cursor and gap buffer state.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	v := renderer.NewView()
//	x, y := v.Render(term, snapshot, cursor, renderer.Rect{Width: w, Height: h - 1})
//	term.ShowCursor(x, y)
package renderer
