//go:build !windows

package dispatch

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"termcore/cellbuf"
	"termcore/proto"
	"termcore/screen"
)

// fakeAdapter stands in for term.ANSITerminal: it records every call it
// receives instead of touching a real device, and feeds input.ByteSource
// bytes from an in-memory channel an individual test pushes into,
// mirroring input/ansi_parser_test.go's fakeSource (ReadByte/TryReadByte)
// extended with the rest of term.Adapter.
type fakeAdapter struct {
	mu sync.Mutex

	w, h  int16
	raw   bool
	calls []string

	lastRenderOut, lastRefreshOut string

	inCh chan byte
}

func newFakeAdapter(w, h int16) *fakeAdapter {
	return &fakeAdapter{w: w, h: h, inCh: make(chan byte, 256)}
}

func (f *fakeAdapter) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeAdapter) hadCall(s string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == s {
			return true
		}
	}
	return false
}

func (f *fakeAdapter) refreshOutput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRefreshOut
}

func (f *fakeAdapter) Size() (int16, int16, error) { return f.w, f.h, nil }
func (f *fakeAdapter) Resize(w, h int16) error      { f.w, f.h = w, h; return nil }

func (f *fakeAdapter) Render(b *cellbuf.ScreenBuffer) error {
	f.record("render")
	var out bytes.Buffer
	err := b.RenderANSI(&out)
	f.mu.Lock()
	f.lastRenderOut = out.String()
	f.mu.Unlock()
	return err
}

func (f *fakeAdapter) Refresh(b *cellbuf.ScreenBuffer) error {
	f.record("refresh")
	var out bytes.Buffer
	err := b.RefreshANSI(&out)
	f.mu.Lock()
	f.lastRefreshOut = out.String()
	f.mu.Unlock()
	return err
}

func (f *fakeAdapter) Prints(s string) error { f.record("prints:" + s); return nil }
func (f *fakeAdapter) Flush() error          { f.record("flush"); return nil }

func (f *fakeAdapter) Goto(col, row int16) error  { f.record("goto"); return nil }
func (f *fakeAdapter) Up(n int16) error           { f.record("up"); return nil }
func (f *fakeAdapter) Down(n int16) error         { f.record("down"); return nil }
func (f *fakeAdapter) Left(n int16) error         { f.record("left"); return nil }
func (f *fakeAdapter) Right(n int16) error        { f.record("right"); return nil }
func (f *fakeAdapter) Clear(proto.Clear) error    { f.record("clear"); return nil }

func (f *fakeAdapter) SetStyle(proto.StyleSetting) error           { return nil }
func (f *fakeAdapter) SetStyles(proto.Color, proto.Color, proto.Effect) error { return nil }
func (f *fakeAdapter) ResetStyles() error                          { return nil }

func (f *fakeAdapter) HideCursor() error   { return nil }
func (f *fakeAdapter) ShowCursor() error   { return nil }
func (f *fakeAdapter) EnableMouse() error  { return nil }
func (f *fakeAdapter) DisableMouse() error { return nil }

func (f *fakeAdapter) Raw() error {
	f.mu.Lock()
	f.raw = true
	f.mu.Unlock()
	f.record("raw")
	return nil
}

func (f *fakeAdapter) Cook() error {
	f.mu.Lock()
	f.raw = false
	f.mu.Unlock()
	f.record("cook")
	return nil
}

func (f *fakeAdapter) IsRaw() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw
}

func (f *fakeAdapter) ReadByte() (byte, error) {
	b, ok := <-f.inCh
	if !ok {
		return 0, errors.New("fakeAdapter: input closed")
	}
	return b, nil
}

func (f *fakeAdapter) TryReadByte(timeout time.Duration) (byte, bool, error) {
	select {
	case b, ok := <-f.inCh:
		if !ok {
			return 0, false, errors.New("fakeAdapter: input closed")
		}
		return b, true, nil
	case <-time.After(timeout):
		return 0, false, nil
	}
}

// RequestPos never implements term.SyncPosReader, deliberately — this
// fake stands in for the ANSI/DSR platform so resolveQuery's QueryPos
// case takes the asynchronous branch (scenario E3).
func (f *fakeAdapter) RequestPos() error { f.record("request_pos"); return nil }

func (f *fakeAdapter) Close() error { return nil }

func newTestDispatcher(t *testing.T, w, h int16) (*Dispatcher, *fakeAdapter) {
	t.Helper()
	fa := newFakeAdapter(w, h)
	store := screen.NewStore(w, h)
	d := New(fa, store, zerolog.Nop())
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d, fa
}

// stopDispatcher unblocks the input goroutine and halts the signal loop
// directly, sidestepping Shutdown's wg.Wait-before-Close ordering (which
// depends on a real device eventually closing its own read, not a test
// fixture) so tests never hang on a leftover goroutine.
func stopDispatcher(d *Dispatcher, fa *fakeAdapter) {
	d.isRunning.Store(false)
	close(fa.inCh)
}

// waitFor polls cond until it reports true or the deadline passes,
// failing the test on timeout — the test-side equivalent of waiting on
// the asynchronous signal/input threads without a real clock dependency.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// TestE1GotoThenCoordQuery reproduces spec.md's E1: Goto(3,1) followed by
// a Coord query returns Reply::Coord(3,1), and exercises the device-first
// ordering the router's applyAction now enforces for ActionGoto.
func TestE1GotoThenCoordQuery(t *testing.T) {
	d, fa := newTestDispatcher(t, 80, 24)
	defer stopDispatcher(d, fa)

	h := d.Spawn()
	h.Signal(proto.Goto(3, 1))

	reply, err := h.Request(proto.QueryCoord)
	if err != nil {
		t.Fatalf("Request(QueryCoord): %v", err)
	}
	if reply.Kind != proto.ReplyCoord || reply.Col != 3 || reply.Row != 1 {
		t.Fatalf("Request(QueryCoord) = %+v, want Coord(3,1)", reply)
	}
	if !fa.hadCall("goto") {
		t.Errorf("Goto action never reached the device")
	}
}

// TestE2SuspendStopsBroadcast reproduces E2: a suspended handle receives
// no broadcast input, while a live handle does.
func TestE2SuspendStopsBroadcast(t *testing.T) {
	d, fa := newTestDispatcher(t, 80, 24)
	defer stopDispatcher(d, fa)

	h1 := d.Spawn()
	h2 := d.Spawn()

	h2.Suspend()
	// Cmds share one FIFO channel with one consumer, so this Request can
	// only complete after the Suspend ahead of it has already been
	// applied — a barrier with no sleep needed.
	if _, err := h1.Request(proto.QueryIsRaw); err != nil {
		t.Fatalf("barrier Request: %v", err)
	}

	fa.inCh <- 'x'

	msg, ok := h1.PollSync()
	if !ok {
		t.Fatal("h1 channel closed before receiving broadcast")
	}
	if msg.Kind != proto.MsgReceived || msg.Received.Kind != proto.EventKeyboard ||
		msg.Received.Key.Rune != 'x' {
		t.Fatalf("h1 received %+v, want Keyboard('x')", msg)
	}

	if _, ok := h2.PollAsync(); ok {
		t.Fatal("suspended h2 received a broadcast event")
	}
}

// TestE3PosProtocol reproduces E3: on the ANSI/DSR platform, Pos toggles
// raw mode on, waits for the CursorPos the DSR reply provokes, restores
// cook, and returns Reply::Pos(c,r).
func TestE3PosProtocol(t *testing.T) {
	d, fa := newTestDispatcher(t, 80, 24)
	defer stopDispatcher(d, fa)

	h := d.Spawn()

	type result struct {
		col, row int16
		err      error
	}
	done := make(chan result, 1)
	go func() {
		col, row, err := h.Pos()
		done <- result{col, row, err}
	}()

	waitFor(t, "adapter.RequestPos", func() bool { return fa.hadCall("request_pos") })
	if !fa.hadCall("raw") {
		t.Fatal("Pos did not enable raw mode before issuing the DSR query")
	}

	for _, b := range []byte("\x1b[5;3R") {
		fa.inCh <- b
	}

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Pos: %v", r.err)
		}
		if r.col != 2 || r.row != 4 {
			t.Fatalf("Pos() = (%d,%d), want (2,4)", r.col, r.row)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pos never returned after the CursorPos reply arrived")
	}

	// Pos only enqueues Cook; this Request sits behind it in the same
	// FIFO, so it completes only after Cook has been applied.
	if _, err := h.Request(proto.QueryIsRaw); err != nil {
		t.Fatalf("barrier Request: %v", err)
	}
	if !fa.hadCall("cook") {
		t.Error("Pos did not restore cook mode after the reply")
	}
}

// TestE4NewScreenAndSwitchTo reproduces E4: NewScreen enables the
// alternate buffer and allocates id 1; SwitchTo(0) disables it again.
func TestE4NewScreenAndSwitchTo(t *testing.T) {
	d, fa := newTestDispatcher(t, 80, 24)
	defer stopDispatcher(d, fa)

	h := d.Spawn()

	h.Signal(proto.NewScreen())
	reply, err := h.Request(proto.QueryScreen)
	if err != nil {
		t.Fatalf("Request(QueryScreen) after NewScreen: %v", err)
	}
	if reply.Kind != proto.ReplyScreen || reply.ScreenID != 1 {
		t.Fatalf("QueryScreen after NewScreen = %+v, want Screen(1)", reply)
	}

	h.Signal(proto.SwitchTo(0))
	reply, err = h.Request(proto.QueryScreen)
	if err != nil {
		t.Fatalf("Request(QueryScreen) after SwitchTo(0): %v", err)
	}
	if reply.Kind != proto.ReplyScreen || reply.ScreenID != 0 {
		t.Fatalf("QueryScreen after SwitchTo(0) = %+v, want Screen(0)", reply)
	}

	if !fa.hadCall("prints:\x1b[?1049h") {
		t.Error("NewScreen from the main screen never enabled the alternate buffer")
	}
	if !fa.hadCall("prints:\x1b[?1049l") {
		t.Error("SwitchTo(0) never disabled the alternate buffer")
	}
}

// TestE5RefreshEmitsOnlyTheChangedCell reproduces E5: after a Render,
// mutating one cell and calling Refresh emits exactly one cursor move to
// that cell and one glyph write, not a repaint of the whole screen.
func TestE5RefreshEmitsOnlyTheChangedCell(t *testing.T) {
	d, fa := newTestDispatcher(t, 5, 5)
	defer stopDispatcher(d, fa)

	h := d.Spawn()

	h.Signal(proto.Render())
	if _, err := h.Request(proto.QueryIsRaw); err != nil {
		t.Fatalf("barrier Request: %v", err)
	}

	h.Signal(proto.SetContent("X", 2, 2))
	h.Signal(proto.Refresh())
	if _, err := h.Request(proto.QueryIsRaw); err != nil {
		t.Fatalf("barrier Request: %v", err)
	}

	out := fa.refreshOutput()
	if strings.Count(out, "X") != 1 {
		t.Fatalf("Refresh output contains %d copies of the changed glyph, want 1 (%q)",
			strings.Count(out, "X"), out)
	}
	if got := strings.Count(out, "\x1b["); got != 2 {
		t.Fatalf("Refresh output has %d escape sequences, want 2 (one goto to the cell, one cursor restore): %q", got, out)
	}
}
