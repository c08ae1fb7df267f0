//go:build !windows

package cellbuf

// handleNewline applies a bare "\n": on every unix terminal this drops the
// cursor one row without touching the column (buffer.rs set_ascii, the
// #[cfg(unix)] arm), unlike "\r\n" which always resets to column 0.
func (b *ScreenBuffer) handleNewline() {
	b.SyncDown(1)
}
