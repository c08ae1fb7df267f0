//go:build !windows

package term

import (
	"bufio"
	"os"
	"strconv"
	"sync"
	"time"

	xterm "golang.org/x/term"

	"termcore/cellbuf"
	"termcore/proto"
	"termcore/termerr"
)

// ANSITerminal drives a unix terminal with raw-mode handling adapted from
// the teacher's tui/term.go (golang.org/x/term.MakeRaw/Restore) and a
// buffered-writer output path adapted from tui/screen.go's Screen.out.
type ANSITerminal struct {
	in     *os.File
	out    *bufio.Writer
	reader *bufio.Reader

	rawCh    chan byte
	rawOnce  sync.Once

	oldState *xterm.State
	isRaw    bool
}

// NewANSITerminal wraps stdin/stdout as the device the dispatcher drives.
func NewANSITerminal() *ANSITerminal {
	return &ANSITerminal{
		in:     os.Stdin,
		out:    bufio.NewWriterSize(os.Stdout, 64*1024),
		reader: bufio.NewReaderSize(os.Stdin, 4096),
		rawCh:  make(chan byte, 128),
	}
}

// startReading launches the single goroutine allowed to touch the
// bufio.Reader, exactly the teacher's tui/input.go inputLoop rationale:
// one reader eliminates data races between a timed lookahead and a plain
// ReadByte.
func (t *ANSITerminal) startReading() {
	t.rawOnce.Do(func() {
		go func() {
			for {
				b, err := t.reader.ReadByte()
				if err != nil {
					close(t.rawCh)
					return
				}
				t.rawCh <- b
			}
		}()
	})
}

// TryReadByte reads one byte within timeout, or reports ok == false if
// none arrived in time — the primitive input.ANSIParser needs to
// distinguish a bare ESC from the start of an escape sequence.
func (t *ANSITerminal) TryReadByte(timeout time.Duration) (byte, bool, error) {
	t.startReading()
	select {
	case b, ok := <-t.rawCh:
		if !ok {
			return 0, false, termerr.New(termerr.DeviceIo, "input stream closed")
		}
		return b, true, nil
	case <-time.After(timeout):
		return 0, false, nil
	}
}

func (t *ANSITerminal) Size() (int16, int16, error) {
	w, h, err := xterm.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, termerr.Wrap(termerr.DeviceIo, err, "get terminal size")
	}
	return int16(w), int16(h), nil
}

func (t *ANSITerminal) Resize(int16, int16) error { return nil }

// Goto moves the real cursor to (col, row), 0-indexed, using the same
// escape construction RenderANSI/RefreshANSI use to restore the cursor.
func (t *ANSITerminal) Goto(col, row int16) error {
	return t.Prints(cellbuf.GotoSeq(col, row))
}

func (t *ANSITerminal) Up(n int16) error    { return t.Prints(ansiMove(n, 'A')) }
func (t *ANSITerminal) Down(n int16) error  { return t.Prints(ansiMove(n, 'B')) }
func (t *ANSITerminal) Right(n int16) error { return t.Prints(ansiMove(n, 'C')) }
func (t *ANSITerminal) Left(n int16) error  { return t.Prints(ansiMove(n, 'D')) }

// ansiMove builds a relative cursor-move escape for a positive n, or the
// empty string for n <= 0 (no movement).
func ansiMove(n int16, letter byte) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(int(n)) + string(letter)
}

// Clear erases the region kind names, matching buffer.rs's SyncClear
// regions to their standard ANSI erase-in-display/erase-in-line codes.
func (t *ANSITerminal) Clear(kind proto.Clear) error {
	switch kind {
	case proto.ClearAll:
		return t.Prints("\x1b[2J\x1b[H")
	case proto.ClearNewLn:
		return t.Prints("\x1b[K")
	case proto.ClearCurrentLn:
		return t.Prints("\x1b[2K\r")
	case proto.ClearCursorUp:
		return t.Prints("\x1b[1J")
	case proto.ClearCursorDn:
		return t.Prints("\x1b[0J")
	default:
		return nil
	}
}

func (t *ANSITerminal) Render(b *cellbuf.ScreenBuffer) error {
	if err := b.RenderANSI(t.out); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "render")
	}
	return t.Flush()
}

func (t *ANSITerminal) Refresh(b *cellbuf.ScreenBuffer) error {
	if err := b.RefreshANSI(t.out); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "refresh")
	}
	return t.Flush()
}

func (t *ANSITerminal) Prints(s string) error {
	if _, err := t.out.WriteString(s); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "prints")
	}
	return nil
}

func (t *ANSITerminal) Flush() error {
	if err := t.out.Flush(); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "flush")
	}
	return nil
}

func (t *ANSITerminal) SetStyle(s proto.StyleSetting) error {
	switch s.Kind {
	case proto.StyleFg:
		return t.Prints(cellbuf.SGRFg(s.Color))
	case proto.StyleBg:
		return t.Prints(cellbuf.SGRBg(s.Color))
	case proto.StyleFx:
		return t.Prints(cellbuf.SGREffects(s.Fx))
	default:
		return nil
	}
}

func (t *ANSITerminal) SetStyles(fg, bg proto.Color, fx proto.Effect) error {
	return t.Prints(cellbuf.SGRFg(fg) + cellbuf.SGRBg(bg) + cellbuf.SGREffects(fx))
}

func (t *ANSITerminal) ResetStyles() error { return t.Prints(cellbuf.SGRReset) }

func (t *ANSITerminal) HideCursor() error   { return t.Prints("\x1b[?25l") }
func (t *ANSITerminal) ShowCursor() error   { return t.Prints("\x1b[?25h") }
func (t *ANSITerminal) EnableMouse() error  { return t.Prints("\x1b[?1000h\x1b[?1006h") }
func (t *ANSITerminal) DisableMouse() error { return t.Prints("\x1b[?1000l\x1b[?1006l") }

func (t *ANSITerminal) Raw() error {
	old, err := xterm.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "enable raw mode")
	}
	t.oldState = old
	t.isRaw = true
	return nil
}

func (t *ANSITerminal) Cook() error {
	if t.oldState == nil {
		return nil
	}
	if err := xterm.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "restore terminal mode")
	}
	t.oldState = nil
	t.isRaw = false
	return nil
}

func (t *ANSITerminal) IsRaw() bool { return t.isRaw }

func (t *ANSITerminal) ReadByte() (byte, error) {
	t.startReading()
	b, ok := <-t.rawCh
	if !ok {
		return 0, termerr.New(termerr.DeviceIo, "input stream closed")
	}
	return b, nil
}

func (t *ANSITerminal) RequestPos() error { return t.Prints("\x1b[6n") }

func (t *ANSITerminal) Close() error {
	_ = t.ShowCursor()
	_ = t.Flush()
	return t.Cook()
}
