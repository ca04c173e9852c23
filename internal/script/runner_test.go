package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/gapstorm/internal/config"
	"github.com/dshills/gapstorm/internal/engine"
)

func newRunner(t *testing.T, content string, opts ...Option) (*Runner, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.WithContent(content))
	r := New(eng, opts...)
	t.Cleanup(func() {
		r.Close()
		eng.Close()
	})
	return r, eng
}

func run(t *testing.T, r *Runner, code string) {
	t.Helper()
	if err := r.Run(context.Background(), "test", code); err != nil {
		t.Fatalf("Run(%q): %v", code, err)
	}
}

func TestBuf_Edit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
		want    string
		wantPos engine.Offset
	}{
		{"insert into empty", "", `buf.insert("abc")`, "abc", 3},
		{"insert at start", "world", `buf.insert("hello ")`, "hello world", 6},
		{"append", "ab", `buf.set_position(buf.len()) buf.insert("c")`, "abc", 3},
		{"remove one", "abc", `buf.remove()`, "bc", 0},
		{"remove n", "abcdef", `buf.set_position(1) buf.remove(3)`, "aef", 1},
		{"remove past end", "ab", `buf.set_position(1) buf.remove(10)`, "a", 1},
		{"backspace", "abc", `buf.set_position(3) buf.backspace(2)`, "a", 1},
		{"backspace at start", "abc", `buf.backspace()`, "abc", 0},
		{"remove zero", "abc", `buf.remove(0)`, "abc", 0},
		{"multibyte", "héllo", `buf.set_position(2) buf.backspace() buf.insert("e")`, "hello", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, eng := newRunner(t, tt.content)
			run(t, r, tt.code)
			if got := eng.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if got := eng.Cursor(); got != tt.wantPos {
				t.Errorf("Cursor() = %d, want %d", got, tt.wantPos)
			}
		})
	}
}

func TestBuf_RemoveZero(t *testing.T) {
	var out bytes.Buffer
	r, eng := newRunner(t, "abc", WithOutput(&out))

	run(t, r, `
buf.set_position(1)
print("[" .. buf.remove(0) .. "]", "[" .. buf.backspace(0) .. "]")
`)
	if got := strings.TrimSpace(out.String()); got != "[]\t[]" {
		t.Errorf("output = %q, want empty removals", got)
	}
	if eng.Text() != "abc" || eng.Cursor() != 1 {
		t.Errorf("Text() = %q cursor %d, want \"abc\" cursor 1", eng.Text(), eng.Cursor())
	}
	if eng.CanUndo() {
		t.Error("zero-count removals should not be recorded")
	}
}

func TestBuf_Queries(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, "ab\ncd", WithOutput(&out))

	run(t, r, `
buf.set_position(2)
print(buf.len(), buf.line_count(), buf.position())
print(buf.get(0), buf.get(2), buf.get(4), buf.get(5), buf.get(-1))
print(buf.remove(2), buf.backspace(1), buf.text())
`)
	want := "5\t2\t2\n" +
		"a\t\n\td\tnil\tnil\n" +
		"\nc\tb\tad\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestBuf_UndoRedo(t *testing.T) {
	var out bytes.Buffer
	r, eng := newRunner(t, "", WithOutput(&out))

	run(t, r, `
buf.insert("x")
print(buf.undo(), buf.undo(), buf.text())
print(buf.redo(), buf.redo(), buf.text())
`)
	if out.String() != "true\tfalse\t\ntrue\tfalse\tx\n" {
		t.Errorf("output = %q", out.String())
	}
	if eng.Text() != "x" {
		t.Errorf("Text() = %q", eng.Text())
	}
}

func TestBuf_ContractViolations(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"position past end", `buf.set_position(4)`, "set_position(4)"},
		{"negative position", `buf.set_position(-1)`, "set_position(-1)"},
		{"negative count", `buf.remove(-2)`, "count must be non-negative"},
		{"bad argument", `buf.insert()`, "string expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, eng := newRunner(t, "abc")
			err := r.Run(context.Background(), "bad.lua", tt.code)

			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("Run() = %v, want *Error", err)
			}
			if serr.Name != "bad.lua" || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
			if eng.Text() != "abc" || eng.Cursor() != 0 {
				t.Errorf("engine changed: %q at %d", eng.Text(), eng.Cursor())
			}
		})
	}
}

func TestBuf_PartialEditsKept(t *testing.T) {
	r, eng := newRunner(t, "")
	err := r.Run(context.Background(), "partial", `buf.insert("ok") error("boom")`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Run() = %v, want boom", err)
	}
	if eng.Text() != "ok" {
		t.Errorf("Text() = %q, want ok", eng.Text())
	}
}

func TestBuf_ReadOnly(t *testing.T) {
	eng := engine.New(engine.WithContent("ro"), engine.WithReadOnly())
	defer eng.Close()
	r := New(eng)
	defer r.Close()

	err := r.Run(context.Background(), "ro", `buf.insert("x")`)
	if err == nil || !strings.Contains(err.Error(), engine.ErrReadOnly.Error()) {
		t.Errorf("Run() = %v, want read-only error", err)
	}
}

func TestSandbox(t *testing.T) {
	for _, name := range []string{"io", "os", "debug", "package", "dofile", "loadfile", "load", "loadstring", "require"} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			r, _ := newRunner(t, "", WithOutput(&out))
			run(t, r, "print(type("+name+"))")
			if out.String() != "nil\n" {
				t.Errorf("type(%s) = %q, want nil", name, out.String())
			}
		})
	}

	var out bytes.Buffer
	r, _ := newRunner(t, "", WithOutput(&out))
	run(t, r, `print(string.upper("ok"), math.max(1, 2), table.concat({"a", "b"}, ","))`)
	if out.String() != "OK\t2\ta,b\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunner_Timeout(t *testing.T) {
	r, _ := newRunner(t, "", WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := r.Run(context.Background(), "loop", `while true do end`)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}

	// the state stays usable
	run(t, r, `buf.insert("after")`)
}

func TestRunner_Cancel(t *testing.T) {
	r, _ := newRunner(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := r.Run(ctx, "loop", `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestRunner_CallStackSize(t *testing.T) {
	r, _ := newRunner(t, "", WithCallStackSize(32))
	err := r.Run(context.Background(), "deep", `
local function f(n) return 1 + f(n + 1) end
f(0)
`)
	if err == nil || !strings.Contains(err.Error(), "stack overflow") {
		t.Errorf("Run() = %v, want stack overflow", err)
	}
}

func TestRunner_SyntaxError(t *testing.T) {
	r, _ := newRunner(t, "")
	err := r.Run(context.Background(), "syntax", `buf.insert(`)

	var serr *Error
	if !errors.As(err, &serr) || serr.Name != "syntax" {
		t.Errorf("Run() = %v, want *Error for syntax", err)
	}
}

func TestRunner_RunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upper.lua")
	code := `local s = string.upper(buf.text())
buf.set_position(0)
buf.remove(buf.len())
buf.insert(s)
`
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	r, eng := newRunner(t, "gap buffer")
	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if eng.Text() != "GAP BUFFER" {
		t.Errorf("Text() = %q", eng.Text())
	}

	if err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RunFile(missing) = %v, want ErrNotExist", err)
	}
}

func TestRunner_Closed(t *testing.T) {
	r, _ := newRunner(t, "")
	r.Close()
	r.Close()

	if err := r.Run(context.Background(), "x", `buf.insert("x")`); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close = %v, want ErrClosed", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Script
	cfg.Timeout = config.Duration(30 * time.Millisecond)

	r, _ := newRunner(t, "", OptionsFromConfig(cfg)...)
	if r.timeout != 30*time.Millisecond {
		t.Errorf("timeout = %v, want 30ms", r.timeout)
	}
}
