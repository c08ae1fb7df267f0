package proto

// Key identifies a keyboard key: either a named special key or KeyChar,
// whose rune payload lives in KeyEvent.Rune.
type Key int

const (
	KeyNull Key = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEsc

	KeyArrowUp
	KeyArrowDown
	KeyArrowRight
	KeyArrowLeft

	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDown
	KeyDelete
	KeyInsert

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyChar carries a regular rune in KeyEvent.Rune.
	KeyChar
)

// Mod is a bitset of keyboard modifiers.
type Mod int

const (
	ModNone  Mod = 0
	ModCtrl  Mod = 1 << 0
	ModAlt   Mod = 1 << 1
	ModShift Mod = 1 << 2
)

// Has reports whether m includes bit.
func (m Mod) Has(bit Mod) bool { return m&bit != 0 }

// KeyEvent is a single keyboard event.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mod  Mod
}

// MouseAction identifies the kind of mouse event.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag
	MouseWheelUp
	MouseWheelDown
)

// MouseButton identifies which button a press/release/drag refers to.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

// MouseEvent is a single mouse event at a column/row.
type MouseEvent struct {
	Action MouseAction
	Button MouseButton
	Col    int16
	Row    int16
	Mod    Mod
}

// InputEventKind tags which field of InputEvent is populated.
type InputEventKind uint8

const (
	EventKeyboard InputEventKind = iota
	EventMouse
	EventCursorPos
	EventFocusIn
	EventFocusOut
	EventUnsupported
)

// InputEvent is the parsed result of one input read: a keyboard key, a
// mouse action, a cursor-position report, a focus change, or an
// unsupported/partial sequence. Implementations of the input parser
// contract must tolerate partial sequences by returning EventUnsupported
// rather than erroring.
type InputEvent struct {
	Kind    InputEventKind
	Key     KeyEvent
	Mouse   MouseEvent
	Col     int16
	Row     int16
}

// Unsupported is the sentinel event for unparseable or partial input.
var Unsupported = InputEvent{Kind: EventUnsupported}

// CursorPos builds the InputEvent reporting a cursor-position response.
func CursorPos(col, row int16) InputEvent {
	return InputEvent{Kind: EventCursorPos, Col: col, Row: row}
}

// Keyboard builds the InputEvent wrapping a KeyEvent.
func Keyboard(k KeyEvent) InputEvent {
	return InputEvent{Kind: EventKeyboard, Key: k}
}

// Mouse builds the InputEvent wrapping a MouseEvent.
func Mouse(m MouseEvent) InputEvent {
	return InputEvent{Kind: EventMouse, Mouse: m}
}
