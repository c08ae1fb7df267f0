//go:build windows

package input

import (
	"golang.org/x/sys/windows"

	"termcore/proto"
)

// ConsoleParser reads Win32 INPUT_RECORDs directly via ReadConsoleInput
// rather than parsing an escape-sequence byte stream, the divergence the
// whole package exists to isolate behind one call (spec.md §4.12, §6).
type ConsoleParser struct {
	handle windows.Handle
}

// NewConsoleParser wraps the console input handle to read events from.
func NewConsoleParser(handle windows.Handle) *ConsoleParser {
	return &ConsoleParser{handle: handle}
}

// Next blocks for the next keyboard or mouse INPUT_RECORD and converts
// it to a proto.InputEvent, skipping record kinds the runtime doesn't
// surface (window-buffer-size and menu events).
func (p *ConsoleParser) Next() (proto.InputEvent, error) {
	for {
		var record windows.InputRecord
		var read uint32
		if err := windows.ReadConsoleInput(p.handle, &record, 1, &read); err != nil {
			return proto.Unsupported, err
		}
		if read == 0 {
			continue
		}
		switch record.EventType {
		case windows.KEY_EVENT:
			ev, ok := fromKeyEvent(record.KeyEvent())
			if ok {
				return ev, nil
			}
		case windows.MOUSE_EVENT:
			return fromMouseEvent(record.MouseEvent()), nil
		}
	}
}

func fromKeyEvent(k *windows.KeyEventRecord) (proto.InputEvent, bool) {
	if k.KeyDown == 0 {
		return proto.Unsupported, false
	}
	mod := proto.ModNone
	if k.ControlKeyState&(windows.LEFT_CTRL_PRESSED|windows.RIGHT_CTRL_PRESSED) != 0 {
		mod |= proto.ModCtrl
	}
	if k.ControlKeyState&(windows.LEFT_ALT_PRESSED|windows.RIGHT_ALT_PRESSED) != 0 {
		mod |= proto.ModAlt
	}
	if k.ControlKeyState&windows.SHIFT_PRESSED != 0 {
		mod |= proto.ModShift
	}

	if key, ok := virtualKeyTable[k.VirtualKeyCode]; ok {
		return proto.Keyboard(proto.KeyEvent{Key: key, Mod: mod}), true
	}
	r := rune(k.UnicodeChar)
	if r == 0 {
		return proto.Unsupported, false
	}
	return proto.Keyboard(proto.KeyEvent{Key: proto.KeyChar, Rune: r, Mod: mod}), true
}

func fromMouseEvent(m *windows.MouseEventRecord) proto.InputEvent {
	action := proto.MousePress
	switch {
	case m.EventFlags&windows.MOUSE_WHEELED != 0:
		if int32(m.ButtonState) > 0 {
			action = proto.MouseWheelUp
		} else {
			action = proto.MouseWheelDown
		}
	case m.EventFlags&windows.MOUSE_MOVED != 0:
		action = proto.MouseDrag
	case m.ButtonState == 0:
		action = proto.MouseRelease
	}
	button := proto.MouseButtonNone
	switch {
	case m.ButtonState&windows.FROM_LEFT_1ST_BUTTON_PRESSED != 0:
		button = proto.MouseButtonLeft
	case m.ButtonState&windows.RIGHTMOST_BUTTON_PRESSED != 0:
		button = proto.MouseButtonRight
	}
	return proto.Mouse(proto.MouseEvent{
		Action: action,
		Button: button,
		Col:    m.MousePosition.X,
		Row:    m.MousePosition.Y,
	})
}

var virtualKeyTable = map[uint16]proto.Key{
	0x0d: proto.KeyEnter,
	0x08: proto.KeyBackspace,
	0x09: proto.KeyTab,
	0x1b: proto.KeyEsc,
	0x25: proto.KeyArrowLeft,
	0x26: proto.KeyArrowUp,
	0x27: proto.KeyArrowRight,
	0x28: proto.KeyArrowDown,
	0x24: proto.KeyHome,
	0x23: proto.KeyEnd,
	0x21: proto.KeyPgUp,
	0x22: proto.KeyPgDown,
	0x2d: proto.KeyInsert,
	0x2e: proto.KeyDelete,
	0x70: proto.KeyF1,
	0x71: proto.KeyF2,
	0x72: proto.KeyF3,
	0x73: proto.KeyF4,
	0x74: proto.KeyF5,
	0x75: proto.KeyF6,
	0x76: proto.KeyF7,
	0x77: proto.KeyF8,
	0x78: proto.KeyF9,
	0x79: proto.KeyF10,
	0x7a: proto.KeyF11,
	0x7b: proto.KeyF12,
}
