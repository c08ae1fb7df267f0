//go:build !windows

package input

import (
	"errors"
	"testing"
	"time"

	"termcore/proto"
)

// fakeSource feeds a fixed byte slice with no artificial delay, standing
// in for term.ANSITerminal's rawCh-backed ByteSource in tests.
type fakeSource struct {
	bytes []byte
	pos   int
}

func (f *fakeSource) ReadByte() (byte, error) {
	if f.pos >= len(f.bytes) {
		return 0, errors.New("eof")
	}
	b := f.bytes[f.pos]
	f.pos++
	return b, nil
}

func (f *fakeSource) TryReadByte(time.Duration) (byte, bool, error) {
	if f.pos >= len(f.bytes) {
		return 0, false, nil
	}
	b := f.bytes[f.pos]
	f.pos++
	return b, true, nil
}

func TestANSIParserArrowKey(t *testing.T) {
	src := &fakeSource{bytes: []byte{0x1b, '[', 'A'}}
	ev, err := ANSIParser{}.Next(src)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if ev.Kind != proto.EventKeyboard || ev.Key.Key != proto.KeyArrowUp {
		t.Fatalf("got %+v, want KeyArrowUp", ev)
	}
}

func TestANSIParserPlainChar(t *testing.T) {
	src := &fakeSource{bytes: []byte{'x'}}
	ev, err := ANSIParser{}.Next(src)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if ev.Key.Key != proto.KeyChar || ev.Key.Rune != 'x' {
		t.Fatalf("got %+v, want KeyChar 'x'", ev)
	}
}

func TestANSIParserCursorPosReport(t *testing.T) {
	src := &fakeSource{bytes: []byte("\x1b[10;5R")}
	ev, err := ANSIParser{}.Next(src)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if ev.Kind != proto.EventCursorPos || ev.Col != 4 || ev.Row != 9 {
		t.Fatalf("got %+v, want CursorPos(4, 9)", ev)
	}
}

func TestANSIParserSGRMousePress(t *testing.T) {
	src := &fakeSource{bytes: []byte("\x1b[<0;12;7M")}
	ev, err := ANSIParser{}.Next(src)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if ev.Kind != proto.EventMouse || ev.Mouse.Action != proto.MousePress || ev.Mouse.Button != proto.MouseButtonLeft {
		t.Fatalf("got %+v, want left press", ev)
	}
	if ev.Mouse.Col != 11 || ev.Mouse.Row != 6 {
		t.Fatalf("got col/row %d/%d, want 11/6", ev.Mouse.Col, ev.Mouse.Row)
	}
}

func TestANSIParserTildeDelete(t *testing.T) {
	src := &fakeSource{bytes: []byte("\x1b[3~")}
	ev, err := ANSIParser{}.Next(src)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if ev.Key.Key != proto.KeyDelete {
		t.Fatalf("got %+v, want KeyDelete", ev)
	}
}
