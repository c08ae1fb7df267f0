// Package screen holds Screen (one ScreenBuffer plus its raw/mouse/cursor
// flags) and Store (the ordered collection of Screens a Dispatcher owns),
// grounded on original_source/src/store/mod.rs.
package screen

import (
	"termcore/cellbuf"
	"termcore/proto"
)

// Screen pairs a ScreenBuffer with the terminal-mode flags that apply to
// it: raw mode, mouse capture, and cursor visibility each persist
// per-screen so SwitchTo can restore them (spec.md §3, §4.9 SwitchTo).
type Screen struct {
	Buffer          *cellbuf.ScreenBuffer
	IsRawEnabled    bool
	IsMouseEnabled  bool
	IsCursorVisible bool
}

// NewScreen allocates a Screen of the given window size with the cursor
// visible and raw/mouse capture off, matching the defaults a freshly
// pushed Screen has in store/mod.rs.
func NewScreen(w, h int16) *Screen {
	return &Screen{
		Buffer:          cellbuf.NewScreenBuffer(w, h),
		IsCursorVisible: true,
	}
}

func (s *Screen) Coord() (int16, int16)  { return s.Buffer.Coord() }
func (s *Screen) Size() (int16, int16)   { return s.Buffer.Size() }
func (s *Screen) GetCh() string          { return s.Buffer.GetCh() }
func (s *Screen) IsRaw() bool            { return s.IsRawEnabled }
func (s *Screen) SyncRaw(v bool)         { s.IsRawEnabled = v }
func (s *Screen) IsCursor() bool         { return s.IsCursorVisible }
func (s *Screen) SyncCursor(v bool)      { s.IsCursorVisible = v }
func (s *Screen) IsMouse() bool          { return s.IsMouseEnabled }
func (s *Screen) SyncMouse(v bool)       { s.IsMouseEnabled = v }

func (s *Screen) SyncGoto(col, row int16) { s.Buffer.SyncCoord(col, row) }
func (s *Screen) SyncLeft(n int16)        { s.Buffer.SyncLeft(n) }
func (s *Screen) SyncRight(n int16)       { s.Buffer.SyncRight(n) }
func (s *Screen) SyncUp(n int16)          { s.Buffer.SyncUp(n) }
func (s *Screen) SyncDown(n int16)        { s.Buffer.SyncDown(n) }
func (s *Screen) Jump()                   { s.Buffer.Jump() }
func (s *Screen) SyncMarker(col, row int16) { s.Buffer.SyncMarker(col, row) }
func (s *Screen) SyncSize(w, h int16)     { s.Buffer.SyncSize(w, h) }
func (s *Screen) SyncTabSize(n int16)     { s.Buffer.SyncTabSize(n) }
func (s *Screen) SyncContent(text string) { s.Buffer.SyncContent(text) }
func (s *Screen) SyncStyle(set proto.StyleSetting)           { s.Buffer.SyncStyle(set) }
func (s *Screen) SyncStyles(fg, bg proto.Color, fx proto.Effect) { s.Buffer.SyncStyles(fg, bg, fx) }
func (s *Screen) SyncClear(kind proto.Clear)                  { s.Buffer.SyncClear(kind) }
func (s *Screen) DelCh()                                      { s.Buffer.DelCh() }
