// Package term wires the cellbuf render/refresh passes to a real device:
// an ANSI terminal on unix (golang.org/x/term for raw mode and size,
// grounded on the teacher's tui/term.go) or the Win32 console API on
// windows (golang.org/x/sys/windows). See spec.md §6 External Interfaces.
package term

import (
	"termcore/cellbuf"
	"termcore/proto"
)

// Adapter is the device boundary the signal thread drives. ANSITerminal
// returns every failure as a termerr DeviceIo error; ConsoleTerminal does
// too, except HideCursor, ShowCursor, and the final SetConsoleMode call of
// EnableMouse/DisableMouse, which return the Windows error unwrapped.
type Adapter interface {
	Size() (int16, int16, error)
	Resize(w, h int16) error

	Render(b *cellbuf.ScreenBuffer) error
	Refresh(b *cellbuf.ScreenBuffer) error

	Prints(s string) error
	Flush() error

	// Goto/Up/Down/Left/Right/Clear move or blank the real device
	// directly, the way original_source/src/dispatcher/router.rs's
	// handle_action calls term.goto/up/down/left/right/clear before
	// mirroring the same change into the Store (spec.md §4.9).
	Goto(col, row int16) error
	Up(n int16) error
	Down(n int16) error
	Left(n int16) error
	Right(n int16) error
	Clear(kind proto.Clear) error

	SetStyle(s proto.StyleSetting) error
	SetStyles(fg, bg proto.Color, fx proto.Effect) error
	ResetStyles() error

	HideCursor() error
	ShowCursor() error
	EnableMouse() error
	DisableMouse() error

	Raw() error
	Cook() error
	IsRaw() bool

	// ReadByte blocks for exactly one raw input byte; used by the input
	// thread's read loop (spec.md §4.12).
	ReadByte() (byte, error)

	// RequestPos writes the DSR cursor-position query; the reply arrives
	// asynchronously on the input stream and is routed by lock owner
	// (spec.md §4.10).
	RequestPos() error

	Close() error
}

// SyncPosReader is implemented by adapters that can answer a cursor
// position query synchronously, with no device round trip through the
// input stream — the console-API platform via
// GetConsoleScreenBufferInfo (spec.md §4.10). The ANSI adapter does not
// implement this: its answer can only arrive asynchronously, as a
// CursorPos event parsed off the DSR reply bytes.
type SyncPosReader interface {
	Pos() (int16, int16, error)
}
