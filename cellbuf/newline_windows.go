//go:build windows

package cellbuf

// handleNewline applies a bare "\n" the way every Windows console treats
// it, identically to "\r\n" (buffer.rs set_ascii, the #[cfg(windows)]
// arm): ConPTY and classic consoles both normalize LF to CRLF regardless.
func (b *ScreenBuffer) handleNewline() {
	b.advanceLine()
}
