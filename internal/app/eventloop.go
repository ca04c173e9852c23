package app

import (
	"errors"
	"fmt"

	"github.com/eapache/queue"

	"github.com/dshills/gapstorm/internal/engine"
	"github.com/dshills/gapstorm/internal/renderer/backend"
	"github.com/dshills/gapstorm/internal/renderer/statusline"
)

// macro holds recorded keystrokes.
type macro struct {
	recording bool
	replaying bool
	keys      []backend.Event
}

// HandleEvent processes one backend event, then any keys queued by a
// macro replay. It returns ErrQuit when the editor should exit.
func (app *Application) HandleEvent(ev backend.Event) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if err := app.dispatch(ev); err != nil {
		app.pending = queue.New()
		return err
	}
	return app.drainPending()
}

// drainPending replays queued keys in order as one undo step.
func (app *Application) drainPending() error {
	if app.pending.Length() == 0 {
		return nil
	}

	eng := app.doc.Engine
	eng.BeginGroup("macro")
	app.macro.replaying = true
	defer func() {
		app.macro.replaying = false
		eng.EndGroup()
	}()

	for app.pending.Length() > 0 {
		ev := app.pending.Remove().(backend.Event)
		if err := app.dispatch(ev); err != nil {
			app.pending = queue.New()
			return err
		}
	}
	return nil
}

// Recording reports whether keystrokes are being recorded.
func (app *Application) Recording() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.macro.recording
}

// MacroLen returns the number of recorded keystrokes.
func (app *Application) MacroLen() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return len(app.macro.keys)
}

func (app *Application) dispatch(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)
	default:
		// resize and interrupt only need a redraw
		return nil
	}
}

func (app *Application) handleKey(ev backend.Event) error {
	isQuit := ev.Key == backend.KeyCtrl && ev.Rune == 'q'
	if !isQuit {
		app.quitArmed = false
	}

	if ev.Key == backend.KeyCtrl {
		switch ev.Rune {
		case 'r':
			app.toggleRecording()
			return nil
		case 'p':
			app.replayMacro()
			return nil
		}
	}
	// Ctrl commands act on history and files, so macros hold only
	// editing and movement keys.
	if app.macro.recording && !app.macro.replaying && ev.Key != backend.KeyCtrl {
		app.macro.keys = append(app.macro.keys, ev)
	}

	eng := app.doc.Engine
	var err error
	switch ev.Key {
	case backend.KeyRune:
		err = eng.InsertAtCursor(string(ev.Rune))
	case backend.KeyEnter:
		err = eng.InsertAtCursor("\n")
	case backend.KeyTab:
		err = eng.InsertAtCursor("\t")
	case backend.KeyBackspace:
		err = eng.DeleteBackward(1)
	case backend.KeyDelete:
		err = eng.DeleteForward(1)
	case backend.KeyLeft:
		eng.MoveCursorBy(-1)
	case backend.KeyRight:
		eng.MoveCursorBy(1)
	case backend.KeyUp:
		app.moveLines(-1)
	case backend.KeyDown:
		app.moveLines(1)
	case backend.KeyPageUp:
		app.moveLines(-app.pageHeight())
	case backend.KeyPageDown:
		app.moveLines(app.pageHeight())
	case backend.KeyHome:
		p := eng.CursorPoint()
		_ = eng.MoveCursor(eng.LineStartOffset(p.Line))
	case backend.KeyEnd:
		p := eng.CursorPoint()
		_ = eng.MoveCursor(eng.LineEndOffset(p.Line))
	case backend.KeyEscape:
		app.status.ClearMessage()
	case backend.KeyCtrl:
		return app.handleCtrl(ev.Rune)
	}
	return app.report(err)
}

func (app *Application) handleCtrl(letter rune) error {
	eng := app.doc.Engine
	switch letter {
	case 'q':
		if app.doc.IsModified() && !app.quitArmed {
			app.quitArmed = true
			app.status.SetMessage("unsaved changes, Ctrl-Q again to quit", statusline.MessageError)
			return nil
		}
		return ErrQuit
	case 's':
		if err := app.doc.Save(); err != nil {
			return app.report(err)
		}
		app.logger.Info("saved %s", app.doc.Path)
		app.status.SetMessage(fmt.Sprintf("wrote %d runes to %s", eng.Len(), app.doc.Name), statusline.MessageInfo)
		return nil
	case 'z':
		return app.report(eng.Undo())
	case 'y':
		return app.report(eng.Redo())
	default:
		if app.backend != nil {
			app.backend.Beep()
		}
		return nil
	}
}

// report shows an edit error on the status line. Errors caused by the
// user's input never stop the editor.
func (app *Application) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, engine.ErrNothingToUndo):
		app.status.SetMessage("nothing to undo", statusline.MessageInfo)
	case errors.Is(err, engine.ErrNothingToRedo):
		app.status.SetMessage("nothing to redo", statusline.MessageInfo)
	case errors.Is(err, engine.ErrReadOnly), errors.Is(err, ErrReadOnly):
		app.status.SetMessage("read-only", statusline.MessageError)
	default:
		app.logger.Warn("%v", err)
		app.status.SetMessage(err.Error(), statusline.MessageError)
	}
	return nil
}

func (app *Application) toggleRecording() {
	if app.macro.replaying {
		return
	}
	if app.macro.recording {
		app.macro.recording = false
		app.status.SetMessage(fmt.Sprintf("recorded %d keys", len(app.macro.keys)), statusline.MessageInfo)
		return
	}
	app.macro.recording = true
	app.macro.keys = nil
	app.status.SetMessage("recording", statusline.MessageInfo)
}

// replayMacro queues the recorded keys; drainPending runs them.
func (app *Application) replayMacro() {
	switch {
	case app.macro.replaying:
		return
	case app.macro.recording:
		app.status.SetMessage("stop recording before replay", statusline.MessageError)
		return
	case len(app.macro.keys) == 0:
		app.status.SetMessage("no macro recorded", statusline.MessageInfo)
		return
	}
	for _, ev := range app.macro.keys {
		app.pending.Add(ev)
	}
}

func (app *Application) moveLines(delta int) {
	eng := app.doc.Engine
	p := eng.CursorPoint()
	line := int64(p.Line) + int64(delta)
	line = max(line, 0)
	line = min(line, int64(eng.LineCount())-1)
	p.Line = uint32(line)
	eng.MoveCursorToPoint(p)
}

func (app *Application) pageHeight() int {
	if app.backend == nil {
		return 1
	}
	_, h := app.backend.Size()
	if app.cfg.UI.ShowStatus {
		h--
	}
	return max(h, 1)
}
