package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	sim    tcell.SimulationScreen
	styles map[Style]tcell.Style

	// simulated screen size, applied on Init
	simW, simH int
}

// NewTerminal creates a backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminal(screen), nil
}

// NewSimulation creates a backend over an in-memory tcell screen of the
// given size. Use Contents and CursorPos to inspect what was drawn.
func NewSimulation(width, height int) *Terminal {
	sim := tcell.NewSimulationScreen("UTF-8")
	t := newTerminal(sim)
	t.sim = sim
	t.simW, t.simH = width, height
	return t
}

func newTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen: screen,
		styles: map[Style]tcell.Style{
			StyleDefault: tcell.StyleDefault,
			StyleStatus:  tcell.StyleDefault.Reverse(true),
			StyleGap:     tcell.StyleDefault.Reverse(true).Bold(true),
			StyleMessage: tcell.StyleDefault.Bold(true),
			StyleError:   tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		},
	}
}

// locked runs fn on the screen under the terminal mutex.
func (t *Terminal) locked(fn func(tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

// Init opens the screen and enables paste reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.screen.Init(); err != nil {
		return err
	}
	// Init resets a simulated screen to 80x25.
	if t.sim != nil {
		t.sim.SetSize(t.simW, t.simH)
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal and interrupts PollEvent.
func (t *Terminal) Shutdown() { t.locked(tcell.Screen.Fini) }

// Clear blanks the back buffer.
func (t *Terminal) Clear() { t.locked(tcell.Screen.Clear) }

// Show flushes drawn cells to the terminal.
func (t *Terminal) Show() { t.locked(tcell.Screen.Show) }

// HideCursor hides the text cursor.
func (t *Terminal) HideCursor() { t.locked(tcell.Screen.HideCursor) }

// Size returns the screen size in cells.
func (t *Terminal) Size() (w, h int) {
	t.locked(func(s tcell.Screen) { w, h = s.Size() })
	return w, h
}

// SetCell draws r with style at x, y.
func (t *Terminal) SetCell(x, y int, r rune, style Style) {
	t.locked(func(s tcell.Screen) { s.SetContent(x, y, r, nil, t.styles[style]) })
}

// ShowCursor places the text cursor at x, y.
func (t *Terminal) ShowCursor(x, y int) {
	t.locked(func(s tcell.Screen) { s.ShowCursor(x, y) })
}

// Beep is best-effort; not every terminal has a bell.
func (t *Terminal) Beep() {
	t.locked(func(s tcell.Screen) { _ = s.Beep() })
}

// PollEvent blocks for the next event. It returns an EventInterrupt
// event once the screen is shut down.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventInterrupt}
	}
	return convertEvent(ev)
}

// PostEvent drops the event when tcell's queue is full.
func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = toTcellKey(event)
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(ev)
}

// Contents returns the simulated screen as one string per row with
// trailing blanks trimmed. It returns nil for a real terminal.
func (t *Terminal) Contents() []string {
	if t.sim == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	cells, w, h := t.sim.GetContents()
	rows := make([]string, h)
	for y := range rows {
		var sb strings.Builder
		for _, c := range cells[y*w : (y+1)*w] {
			r := ' '
			if len(c.Runes) > 0 {
				r = c.Runes[0]
			}
			sb.WriteRune(r)
		}
		rows[y] = strings.TrimRight(sb.String(), " ")
	}
	return rows
}

// CursorPos reports the simulated cursor; visible is false for a real
// terminal.
func (t *Terminal) CursorPos() (x, y int, visible bool) {
	if t.sim == nil {
		return 0, 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sim.GetCursor()
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKey(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}
	}
	return Event{Type: EventNone}
}

// namedKeys pairs each non-character key with its tcell code. The first
// entry for a Key is the one posted back to tcell.
var namedKeys = []struct {
	key   Key
	tcell tcell.Key
}{
	{KeyEscape, tcell.KeyEscape},
	{KeyEnter, tcell.KeyEnter},
	{KeyTab, tcell.KeyTab},
	{KeyBackspace, tcell.KeyBackspace2},
	{KeyBackspace, tcell.KeyBackspace},
	{KeyDelete, tcell.KeyDelete},
	{KeyHome, tcell.KeyHome},
	{KeyEnd, tcell.KeyEnd},
	{KeyPageUp, tcell.KeyPgUp},
	{KeyPageDown, tcell.KeyPgDn},
	{KeyUp, tcell.KeyUp},
	{KeyDown, tcell.KeyDown},
	{KeyLeft, tcell.KeyLeft},
	{KeyRight, tcell.KeyRight},
}

var modBits = []struct {
	mod   ModMask
	tcell tcell.ModMask
}{
	{ModShift, tcell.ModShift},
	{ModCtrl, tcell.ModCtrl},
	{ModAlt, tcell.ModAlt},
	{ModMeta, tcell.ModMeta},
}

// convertKey maps a tcell key event. Ctrl+letter arrives as a KeyCtrlX
// code, a raw ASCII control code, or a rune with the Ctrl modifier
// depending on the terminal; all become KeyCtrl with the lower-case letter.
func convertKey(e *tcell.EventKey) Event {
	out := Event{Type: EventKey, Mod: convertMod(e.Modifiers())}
	k := e.Key()

	switch {
	case k == tcell.KeyRune && out.Mod.Has(ModCtrl) && e.Rune() >= 'a' && e.Rune() <= 'z':
		out.Key, out.Rune = KeyCtrl, e.Rune()
		return out
	case k == tcell.KeyRune:
		out.Key, out.Rune = KeyRune, e.Rune()
		return out
	}
	for _, nk := range namedKeys {
		if nk.tcell == k {
			out.Key = nk.key
			return out
		}
	}
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		out.Key, out.Rune = KeyCtrl, 'a'+rune(k-tcell.KeyCtrlA)
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		out.Key, out.Rune = KeyCtrl, 'a'+rune(k-tcell.KeySOH)
	default:
		out.Key = KeyNone
		return out
	}
	out.Mod |= ModCtrl
	return out
}

func toTcellKey(ev Event) *tcell.EventKey {
	mod := toTcellMod(ev.Mod)
	if ev.Key == KeyCtrl {
		mod |= tcell.ModCtrl
	}
	for _, nk := range namedKeys {
		if nk.key == ev.Key {
			return tcell.NewEventKey(nk.tcell, 0, mod)
		}
	}
	return tcell.NewEventKey(tcell.KeyRune, ev.Rune, mod)
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, b := range modBits {
		if m&b.tcell != 0 {
			out |= b.mod
		}
	}
	return out
}

func toTcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	for _, b := range modBits {
		if m.Has(b.mod) {
			out |= b.tcell
		}
	}
	return out
}
