package statusline

import (
	"strings"
	"testing"

	"github.com/dshills/gapstorm/internal/renderer/backend"
)

func TestStatusLine_Left(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"scratch", State{}, " [scratch]  1:1"},
		{"named", State{Name: "a.txt", Line: 2, Column: 4}, " a.txt  3:5"},
		{"flags", State{Name: "a.txt", Modified: true, ReadOnly: true, Recording: true}, " a.txt [+] [RO] [REC]  1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetState(tt.state)
			if got := s.Left(); got != tt.want {
				t.Errorf("Left() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusLine_Right(t *testing.T) {
	s := New()
	s.SetState(State{Offset: 3, Len: 11, Capacity: 64, GapStart: 3, GapLen: 53, ShowGap: true})
	if got, want := s.Right(), "pos 3  len 11  cap 64  gap [3+53] "; got != want {
		t.Errorf("Right() = %q, want %q", got, want)
	}

	s.SetState(State{Offset: 3, Len: 11, Capacity: 64})
	if got, want := s.Right(), "pos 3  len 11 "; got != want {
		t.Errorf("Right() without gap = %q, want %q", got, want)
	}
}

func TestStatusLine_Messages(t *testing.T) {
	s := New()
	s.SetMessage("saved", MessageInfo)
	if msg, typ := s.Message(); msg != "saved" || typ != MessageInfo {
		t.Errorf("Message() = %q, %v", msg, typ)
	}
	s.ClearMessage()
	if msg, typ := s.Message(); msg != "" || typ != MessageNone {
		t.Errorf("after ClearMessage = %q, %v", msg, typ)
	}
}

func TestStatusLine_Render(t *testing.T) {
	term := backend.NewSimulation(60, 2)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()

	s := New()
	s.SetState(State{Name: "notes.txt", Line: 0, Column: 2, Offset: 2, Len: 5, Capacity: 8, GapStart: 2, GapLen: 3, ShowGap: true})
	s.SetMessage("hello", MessageInfo)
	s.Render(term, 1, 60)
	term.Show()

	row := term.Contents()[1]
	if !strings.HasPrefix(row, " notes.txt  1:3  hello") {
		t.Errorf("row = %q", row)
	}
	if !strings.HasSuffix(row, "gap [2+3]") {
		t.Errorf("row = %q, want gap summary at the right", row)
	}
}

func TestStatusLine_RenderNarrow(t *testing.T) {
	term := backend.NewSimulation(16, 1)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()

	s := New()
	s.SetState(State{Name: "notes.txt", Len: 5, Capacity: 8, ShowGap: true})
	s.Render(term, 0, 16)
	term.Show()

	if row := term.Contents()[0]; row != " notes.txt  1:1" {
		t.Errorf("row = %q, want right part dropped", row)
	}
}
