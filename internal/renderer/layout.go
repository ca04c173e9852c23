package renderer

import (
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is used when a document reports a tab width below 1.
const DefaultTabWidth = 4

// Cluster is one grapheme cluster placed on a display line.
type Cluster struct {
	Text  string // cluster text; "\t" for a tab
	Rune  int    // rune index of the cluster's first rune in the line
	Runes int    // number of runes in the cluster
	Col   int    // first display column
	Width int    // display columns occupied
}

// LineLayout is the display layout of a single line.
type LineLayout struct {
	Clusters []Cluster
	Width    int // total display width
	Runes    int // total runes in the line
}

// LayoutLine lays out line with tabs expanded to multiples of tabWidth.
// Zero-width clusters that are not combining marks (control characters)
// take one column so they stay visible.
func LayoutLine(line string, tabWidth int) LineLayout {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}

	var (
		l    LineLayout
		col  int
		rIdx int
	)
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		runes := g.Runes()
		c := Cluster{
			Text:  g.Str(),
			Rune:  rIdx,
			Runes: len(runes),
			Col:   col,
		}
		switch {
		case c.Text == "\t":
			c.Width = tabWidth - col%tabWidth
		default:
			c.Width = g.Width()
			if c.Width == 0 {
				c.Width = 1
			}
		}
		l.Clusters = append(l.Clusters, c)
		col += c.Width
		rIdx += len(runes)
	}
	l.Width = col
	l.Runes = rIdx
	return l
}

// VisualColumn converts a rune column to a display column. A column inside
// a multi-rune cluster maps to the cluster's start; columns past the end
// map to the end of the line.
func (l LineLayout) VisualColumn(runeCol int) int {
	for _, c := range l.Clusters {
		if runeCol < c.Rune+c.Runes {
			return c.Col
		}
	}
	return l.Width
}

// RuneColumn converts a display column back to the rune column of the
// cluster covering it. Columns past the end map to the line length.
func (l LineLayout) RuneColumn(visCol int) int {
	for _, c := range l.Clusters {
		if visCol < c.Col+c.Width {
			return c.Rune
		}
	}
	return l.Runes
}
