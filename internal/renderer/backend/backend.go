// Package backend is the terminal surface gapstorm draws on and reads keys
// from. Terminal implements it over tcell, either on the real terminal or
// on an in-memory simulation screen for tests.
package backend

type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// Event is a key press, a resize, or an interrupt posted to wake PollEvent.
// For KeyRune, Rune is the character typed; for KeyCtrl it is the
// lower-case letter held with Ctrl. Width and Height are set on resize.
type Event struct {
	Type EventType
	Key  Key
	Rune rune
	Mod  ModMask

	Width, Height int
}

type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyCtrl
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = [...]string{
	"None", "Rune", "Ctrl", "Esc", "Enter", "Tab", "Backspace", "Delete",
	"Home", "End", "PgUp", "PgDn", "Up", "Down", "Left", "Right",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "Unknown"
	}
	return keyNames[k]
}

type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether mod is set.
func (m ModMask) Has(mod ModMask) bool { return m&mod != 0 }

// KeyEvent builds a key press event.
func KeyEvent(k Key, r rune) Event { return Event{Type: EventKey, Key: k, Rune: r} }

// RuneEvent builds a printable key event for r.
func RuneEvent(r rune) Event { return KeyEvent(KeyRune, r) }

// CtrlEvent is Ctrl held with letter, which should be lower-case.
func CtrlEvent(letter rune) Event {
	ev := KeyEvent(KeyCtrl, letter)
	ev.Mod = ModCtrl
	return ev
}

// Style is a semantic cell style; each backend picks its own colors.
type Style int

const (
	StyleDefault Style = iota
	StyleStatus
	StyleGap
	StyleMessage
	StyleError
)

// Backend is a character-cell display with a key event source.
// Init must succeed before any other call. Cells outside Size are ignored.
type Backend interface {
	Init() error
	// Shutdown restores the terminal. A PollEvent blocked at that moment
	// returns EventInterrupt.
	Shutdown()
	Size() (width, height int)
	SetCell(x, y int, r rune, style Style)
	Clear()
	// Show flushes drawing done since the last Show.
	Show()
	ShowCursor(x, y int)
	HideCursor()
	PollEvent() Event
	// PostEvent queues a synthetic key or interrupt event.
	PostEvent(event Event)
	Beep()
}

// DrawString writes s from (x, y), one rune per cell, stopping at maxX.
// It returns the column after the last cell written.
func DrawString(b Backend, x, y, maxX int, s string, style Style) int {
	for _, r := range s {
		if x >= maxX {
			break
		}
		b.SetCell(x, y, r, style)
		x++
	}
	return x
}
