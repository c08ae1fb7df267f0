//go:build !windows

package input

import (
	"strconv"
	"strings"

	"termcore/proto"
)

// ANSIParser is a byte-stream state machine adapted from tui/input.go's
// processEsc/processChar/parseCSI/parseSS3, extended per spec.md §6 to
// also recognize SGR mouse reports (CSI < ... M/m) and cursor-position
// reports (CSI row ; col R) so Dispatcher can route the latter to the
// EventHandle holding the Pos lock.
type ANSIParser struct{}

// Next blocks for one input event, reading as many bytes as needed to
// resolve a full sequence. It never returns an error for malformed or
// partial input — it returns proto.Unsupported instead, per the input
// parser contract (spec.md §4.12).
func (ANSIParser) Next(src ByteSource) (proto.InputEvent, error) {
	b, err := src.ReadByte()
	if err != nil {
		return proto.Unsupported, err
	}
	if b == 0x1b {
		return parseEsc(src)
	}
	return parseChar(b), nil
}

func parseEsc(src ByteSource) (proto.InputEvent, error) {
	next, ok, err := src.TryReadByte(escTimeout)
	if err != nil {
		return proto.Unsupported, err
	}
	if !ok {
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyEsc}), nil
	}
	switch next {
	case '[':
		return parseCSI(src)
	case 'O':
		return parseSS3(src)
	default:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyChar, Rune: rune(next), Mod: proto.ModAlt}), nil
	}
}

func parseChar(b byte) proto.InputEvent {
	switch {
	case b == 0x0d:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyEnter})
	case b == 0x09:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyTab})
	case b == 0x08, b == 0x7f:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyBackspace})
	case b == 0x03:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyChar, Rune: 'c', Mod: proto.ModCtrl})
	case b <= 0x1f:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyChar, Rune: rune(b + 0x60), Mod: proto.ModCtrl})
	default:
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyChar, Rune: rune(b)})
	}
}

func parseCSI(src ByteSource) (proto.InputEvent, error) {
	// Consumed ESC [. Mouse reports start with '<'; everything else is
	// zero or more digits/semicolons followed by a final byte in 0x40-0x7e
	// (or 'R'/'M'/'m').
	first, ok, err := src.TryReadByte(csiTimeout)
	if err != nil {
		return proto.Unsupported, err
	}
	if !ok {
		return proto.Unsupported, nil
	}
	if first == '<' {
		return parseSGRMouse(src)
	}
	if first >= 0x40 && first <= 0x7e {
		return dispatchCSI(nil, first), nil
	}

	var params []byte
	params = append(params, first)
	for {
		b, ok, err := src.TryReadByte(csiTimeout)
		if err != nil {
			return proto.Unsupported, err
		}
		if !ok {
			return proto.Unsupported, nil
		}
		if (b >= 0x40 && b <= 0x7e) || b == 'R' {
			return dispatchCSI(params, b), nil
		}
		params = append(params, b)
	}
}

func dispatchCSI(params []byte, final byte) proto.InputEvent {
	p := string(params)
	switch final {
	case 'A':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowUp})
	case 'B':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowDown})
	case 'C':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowRight})
	case 'D':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowLeft})
	case 'H':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyHome})
	case 'F':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyEnd})
	case 'I':
		return proto.InputEvent{Kind: proto.EventFocusIn}
	case 'O':
		return proto.InputEvent{Kind: proto.EventFocusOut}
	case 'R':
		return parseCursorPos(p)
	case '~':
		return parseTilde(p)
	default:
		return proto.Unsupported
	}
}

func parseTilde(p string) proto.InputEvent {
	key := p
	if i := strings.IndexByte(p, ';'); i >= 0 {
		key = p[:i]
	}
	switch key {
	case "1":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyHome})
	case "2":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyInsert})
	case "3":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyDelete})
	case "4":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyEnd})
	case "5":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyPgUp})
	case "6":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyPgDown})
	case "15":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF5})
	case "17":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF6})
	case "18":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF7})
	case "19":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF8})
	case "20":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF9})
	case "21":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF10})
	case "23":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF11})
	case "24":
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF12})
	default:
		return proto.Unsupported
	}
}

// parseCursorPos decodes a DSR reply body "row;col" into a CursorPos
// event (col/row are 1-indexed on the wire, 0-indexed in proto).
func parseCursorPos(p string) proto.InputEvent {
	parts := strings.SplitN(p, ";", 2)
	if len(parts) != 2 {
		return proto.Unsupported
	}
	row, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return proto.Unsupported
	}
	return proto.CursorPos(int16(col-1), int16(row-1))
}

func parseSS3(src ByteSource) (proto.InputEvent, error) {
	b, ok, err := src.TryReadByte(csiTimeout)
	if err != nil {
		return proto.Unsupported, err
	}
	if !ok {
		return proto.Unsupported, nil
	}
	switch b {
	case 'A':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowUp}), nil
	case 'B':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowDown}), nil
	case 'C':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowRight}), nil
	case 'D':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyArrowLeft}), nil
	case 'P':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF1}), nil
	case 'Q':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF2}), nil
	case 'R':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF3}), nil
	case 'S':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyF4}), nil
	case 'H':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyHome}), nil
	case 'F':
		return proto.Keyboard(proto.KeyEvent{Key: proto.KeyEnd}), nil
	default:
		return proto.Unsupported, nil
	}
}

// parseSGRMouse decodes "CSI < Cb ; Cx ; Cy M" (press) or "...m" (release),
// the SGR (1006) mouse protocol enabled by term.ANSITerminal.EnableMouse.
func parseSGRMouse(src ByteSource) (proto.InputEvent, error) {
	var params []byte
	var final byte
	for {
		b, ok, err := src.TryReadByte(csiTimeout)
		if err != nil {
			return proto.Unsupported, err
		}
		if !ok {
			return proto.Unsupported, nil
		}
		if b == 'M' || b == 'm' {
			final = b
			break
		}
		params = append(params, b)
	}

	fields := strings.Split(string(params), ";")
	if len(fields) != 3 {
		return proto.Unsupported, nil
	}
	cb, err1 := strconv.Atoi(fields[0])
	cx, err2 := strconv.Atoi(fields[1])
	cy, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return proto.Unsupported, nil
	}

	mod := proto.ModNone
	if cb&4 != 0 {
		mod |= proto.ModShift
	}
	if cb&8 != 0 {
		mod |= proto.ModAlt
	}
	if cb&16 != 0 {
		mod |= proto.ModCtrl
	}

	var action proto.MouseAction
	var button proto.MouseButton
	switch {
	case cb&64 != 0 && cb&1 != 0:
		action = proto.MouseWheelDown
	case cb&64 != 0:
		action = proto.MouseWheelUp
	case final == 'm':
		action = proto.MouseRelease
	case cb&32 != 0:
		action = proto.MouseDrag
	default:
		action = proto.MousePress
	}
	switch cb & 3 {
	case 0:
		button = proto.MouseButtonLeft
	case 1:
		button = proto.MouseButtonMiddle
	case 2:
		button = proto.MouseButtonRight
	default:
		button = proto.MouseButtonNone
	}

	return proto.Mouse(proto.MouseEvent{
		Action: action,
		Button: button,
		Col:    int16(cx - 1),
		Row:    int16(cy - 1),
		Mod:    mod,
	}), nil
}
