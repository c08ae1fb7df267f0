//go:build windows

package term

import (
	"golang.org/x/sys/windows"

	"termcore/cellbuf"
	"termcore/proto"
	"termcore/termerr"
)

// ConsoleTerminal drives the Win32 console API directly, the way
// other_examples/badu-term's core engine and the jcd-as-tcell/
// kungfusheep-glyph retrieval-pack repos reach for golang.org/x/sys/windows
// rather than emitting ANSI escapes (spec.md §4.5, §6).
type ConsoleTerminal struct {
	stdin, stdout windows.Handle
	oldInMode     uint32
	isRaw         bool
	resetAttrs    uint16
}

// NewConsoleTerminal opens the process's console input/output handles.
func NewConsoleTerminal() (*ConsoleTerminal, error) {
	stdin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, termerr.Wrap(termerr.DeviceIo, err, "get stdin handle")
	}
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, termerr.Wrap(termerr.DeviceIo, err, "get stdout handle")
	}
	var info windows.ConsoleScreenBufferInfo
	resetAttrs := uint16(7)
	if err := windows.GetConsoleScreenBufferInfo(stdout, &info); err == nil {
		resetAttrs = info.Attributes
	}
	return &ConsoleTerminal{stdin: stdin, stdout: stdout, resetAttrs: resetAttrs}, nil
}

// StdinHandle exposes the console input handle for the input package's
// ConsoleParser, which reads INPUT_RECORDs directly rather than bytes.
func (t *ConsoleTerminal) StdinHandle() windows.Handle { return t.stdin }

func (t *ConsoleTerminal) Size() (int16, int16, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.stdout, &info); err != nil {
		return 0, 0, termerr.Wrap(termerr.DeviceIo, err, "get console screen buffer info")
	}
	w := info.Window.Right - info.Window.Left + 1
	h := info.Window.Bottom - info.Window.Top + 1
	return w, h, nil
}

func (t *ConsoleTerminal) Resize(int16, int16) error { return nil }

// Pos implements term.SyncPosReader: the console API can read the
// cursor's real position directly, with no DSR round trip through the
// input stream (spec.md §4.10).
func (t *ConsoleTerminal) Pos() (int16, int16, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.stdout, &info); err != nil {
		return 0, 0, termerr.Wrap(termerr.DeviceIo, err, "get console screen buffer info")
	}
	return info.CursorPosition.X, info.CursorPosition.Y, nil
}

func (t *ConsoleTerminal) Goto(col, row int16) error {
	if err := windows.SetConsoleCursorPosition(t.stdout, windows.Coord{X: col, Y: row}); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "set console cursor position")
	}
	return nil
}

func (t *ConsoleTerminal) move(dcol, drow int16) error {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.stdout, &info); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "get console screen buffer info")
	}
	pos := windows.Coord{X: info.CursorPosition.X + dcol, Y: info.CursorPosition.Y + drow}
	return t.Goto(pos.X, pos.Y)
}

func (t *ConsoleTerminal) Up(n int16) error    { return t.move(0, -n) }
func (t *ConsoleTerminal) Down(n int16) error  { return t.move(0, n) }
func (t *ConsoleTerminal) Left(n int16) error  { return t.move(-n, 0) }
func (t *ConsoleTerminal) Right(n int16) error { return t.move(n, 0) }

// Clear fills the region kind names with blanks and the reset attribute,
// the console-API counterpart of ANSITerminal.Clear's escape codes.
func (t *ConsoleTerminal) Clear(kind proto.Clear) error {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.stdout, &info); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "get console screen buffer info")
	}
	w := uint32(info.Size.X)
	total := w * uint32(info.Size.Y)
	cur := info.CursorPosition

	var start windows.Coord
	var length uint32
	switch kind {
	case proto.ClearAll:
		start, length = windows.Coord{X: 0, Y: 0}, total
	case proto.ClearNewLn:
		start, length = cur, w-uint32(cur.X)
	case proto.ClearCurrentLn:
		start, length = windows.Coord{X: 0, Y: cur.Y}, w
	case proto.ClearCursorUp:
		start, length = windows.Coord{X: 0, Y: 0}, uint32(cur.Y)*w+uint32(cur.X)
	case proto.ClearCursorDn:
		start, length = cur, total-(uint32(cur.Y)*w+uint32(cur.X))
	default:
		return nil
	}

	var written uint32
	if err := windows.FillConsoleOutputCharacter(t.stdout, uint16(' '), length, start, &written); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "clear console region")
	}
	if err := windows.FillConsoleOutputAttribute(t.stdout, t.resetAttrs, length, start, &written); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "clear console attributes")
	}

	switch kind {
	case proto.ClearAll:
		return t.Goto(0, 0)
	case proto.ClearCurrentLn:
		return t.Goto(0, cur.Y)
	default:
		return nil
	}
}

// Paint implements cellbuf.ConsolePainter, blitting cells into the
// console screen buffer via WriteConsoleOutput (buffer.rs's
// #[cfg(windows)] render/refresh, adapted to Go's x/sys/windows bindings).
func (t *ConsoleTerminal) Paint(cells []cellbuf.Cell, w, h int16, offsetCol, offsetRow int16, rect cellbuf.ConsoleRect) error {
	buf := make([]windows.CharInfo, int(w)*int(h))
	for i, c := range cells {
		if i >= len(buf) {
			break
		}
		ch := ' '
		if !c.Empty() && c.Glyph != "" {
			ch = []rune(c.Glyph)[0]
		}
		buf[i] = windows.CharInfo{
			UnicodeChar: uint16(ch),
			Attributes:  intoAttr(c.Style, t.resetAttrs),
		}
	}
	bufSize := windows.Coord{X: w, Y: h}
	bufCoord := windows.Coord{X: offsetCol, Y: offsetRow}
	writeRegion := windows.SmallRect{
		Left: rect.Left, Top: rect.Top, Right: rect.Right, Bottom: rect.Bottom,
	}
	if err := windows.WriteConsoleOutput(t.stdout, buf, bufSize, bufCoord, &writeRegion); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "write console output")
	}
	return nil
}

func intoAttr(s proto.Style, reset uint16) uint16 {
	if s.IsDefault() {
		return reset
	}
	attr := reset
	if s.Fx.Has(proto.EffectReverse) {
		attr = (attr&0xF0)>>4 | (attr&0x0F)<<4
	}
	return attr
}

func (t *ConsoleTerminal) Render(b *cellbuf.ScreenBuffer) error {
	if err := b.RenderConsole(t); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "render")
	}
	return nil
}

func (t *ConsoleTerminal) Refresh(b *cellbuf.ScreenBuffer) error {
	if err := b.RefreshConsole(t); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "refresh")
	}
	return nil
}

func (t *ConsoleTerminal) Prints(s string) error {
	u16, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "encode console output")
	}
	var written uint32
	if err := windows.WriteConsole(t.stdout, u16, uint32(len(s)), &written, nil); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "write console")
	}
	return nil
}

func (t *ConsoleTerminal) Flush() error { return nil }

func (t *ConsoleTerminal) SetStyle(proto.StyleSetting) error           { return nil }
func (t *ConsoleTerminal) SetStyles(proto.Color, proto.Color, proto.Effect) error { return nil }
func (t *ConsoleTerminal) ResetStyles() error                          { return nil }

func (t *ConsoleTerminal) HideCursor() error {
	return windows.SetConsoleCursorInfo(t.stdout, &windows.ConsoleCursorInfo{Size: 25, Visible: 0})
}

func (t *ConsoleTerminal) ShowCursor() error {
	return windows.SetConsoleCursorInfo(t.stdout, &windows.ConsoleCursorInfo{Size: 25, Visible: 1})
}

func (t *ConsoleTerminal) EnableMouse() error {
	var mode uint32
	if err := windows.GetConsoleMode(t.stdin, &mode); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "get console mode")
	}
	mode |= windows.ENABLE_MOUSE_INPUT
	mode &^= windows.ENABLE_QUICK_EDIT_MODE
	return windows.SetConsoleMode(t.stdin, mode)
}

func (t *ConsoleTerminal) DisableMouse() error {
	var mode uint32
	if err := windows.GetConsoleMode(t.stdin, &mode); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "get console mode")
	}
	mode &^= windows.ENABLE_MOUSE_INPUT
	return windows.SetConsoleMode(t.stdin, mode)
}

func (t *ConsoleTerminal) Raw() error {
	if err := windows.GetConsoleMode(t.stdin, &t.oldInMode); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "get console mode")
	}
	raw := t.oldInMode &^ (windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT)
	if err := windows.SetConsoleMode(t.stdin, raw); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "set console mode")
	}
	t.isRaw = true
	return nil
}

func (t *ConsoleTerminal) Cook() error {
	if !t.isRaw {
		return nil
	}
	if err := windows.SetConsoleMode(t.stdin, t.oldInMode); err != nil {
		return termerr.Wrap(termerr.DeviceIo, err, "restore console mode")
	}
	t.isRaw = false
	return nil
}

func (t *ConsoleTerminal) IsRaw() bool { return t.isRaw }

func (t *ConsoleTerminal) ReadByte() (byte, error) {
	return 0, termerr.New(termerr.DeviceIo, "ReadByte is unsupported on the console adapter; use ReadConsoleInput events")
}

// RequestPos is a no-op on the console adapter: cursor position is read
// synchronously via GetConsoleScreenBufferInfo instead of a DSR reply.
func (t *ConsoleTerminal) RequestPos() error { return nil }

func (t *ConsoleTerminal) Close() error {
	_ = t.ShowCursor()
	return t.Cook()
}
