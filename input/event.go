// Package input turns raw device bytes into proto.InputEvent values. The
// ANSI parser is adapted from the teacher's tui/input.go and tui/key.go
// byte-stream state machine; the console parser reads Win32
// INPUT_RECORDs directly instead (spec.md §4.12, §6).
package input

import "time"

// ByteSource is the primitive the ANSI parser reads from: a plain
// blocking ReadByte for the common path, and a timed lookahead so a bare
// ESC can be told apart from the start of a CSI/SS3 sequence without
// blocking forever (mirrors tui/input.go's rawCh + time.After pattern).
type ByteSource interface {
	ReadByte() (byte, error)
	TryReadByte(timeout time.Duration) (byte, bool, error)
}

// escTimeout is how long the parser waits for a lookahead byte after a
// bare 0x1b before deciding it really was a standalone Escape key.
const escTimeout = 10 * time.Millisecond

// csiTimeout bounds how long the parser waits for each subsequent byte
// once inside a CSI/SS3 sequence.
const csiTimeout = 50 * time.Millisecond
