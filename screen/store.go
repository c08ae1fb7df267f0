package screen

import (
	"termcore/proto"
	"termcore/termerr"
)

// Store is the ordered collection of Screens a Dispatcher owns: index 0
// is the main screen and is never destroyed; every later index is an alt
// screen pushed by NewScreen (spec.md §3, original_source/src/store/mod.rs).
type Store struct {
	id   int
	data []*Screen
}

// NewStore seeds a Store with a single main screen at index 0.
func NewStore(w, h int16) *Store {
	return &Store{data: []*Screen{NewScreen(w, h)}}
}

// ID reports the currently active screen's index.
func (s *Store) ID() int { return s.id }

// Exists reports whether id names an allocated screen.
func (s *Store) Exists(id int) bool { return id >= 0 && id < len(s.data) }

// Set switches the active screen to id, returning a NotFound termerr if
// id has no backing Screen.
func (s *Store) Set(id int) error {
	if !s.Exists(id) {
		return termerr.New(termerr.NotFound, "screen id out of range")
	}
	s.id = id
	return nil
}

// NewScreen pushes a fresh alt Screen sized like the current one and
// returns its id, without making it active (the router decides that).
func (s *Store) NewScreen() int {
	w, h := s.current().Size()
	s.data = append(s.data, NewScreen(w, h))
	return len(s.data) - 1
}

// Current returns the active Screen.
func (s *Store) Current() *Screen { return s.current() }

func (s *Store) current() *Screen { return s.data[s.id] }

func (s *Store) Coord() (int16, int16)        { return s.current().Coord() }
func (s *Store) Size() (int16, int16)         { return s.current().Size() }
func (s *Store) GetCh() string                { return s.current().GetCh() }
func (s *Store) IsRaw() bool                  { return s.current().IsRaw() }
func (s *Store) SyncRaw(v bool)               { s.current().SyncRaw(v) }
func (s *Store) IsCursor() bool               { return s.current().IsCursor() }
func (s *Store) SyncCursor(v bool)            { s.current().SyncCursor(v) }
func (s *Store) IsMouse() bool                { return s.current().IsMouse() }
func (s *Store) SyncMouse(v bool)             { s.current().SyncMouse(v) }
func (s *Store) SyncGoto(col, row int16)      { s.current().SyncGoto(col, row) }
func (s *Store) SyncLeft(n int16)             { s.current().SyncLeft(n) }
func (s *Store) SyncRight(n int16)            { s.current().SyncRight(n) }
func (s *Store) SyncUp(n int16)               { s.current().SyncUp(n) }
func (s *Store) SyncDown(n int16)             { s.current().SyncDown(n) }
func (s *Store) Jump()                        { s.current().Jump() }
func (s *Store) SyncMarker(col, row int16)    { s.current().SyncMarker(col, row) }
func (s *Store) SyncSize(w, h int16)          { s.current().SyncSize(w, h) }
func (s *Store) SyncTabSize(n int16)          { s.current().SyncTabSize(n) }
func (s *Store) SyncContent(text string)      { s.current().SyncContent(text) }
func (s *Store) SyncStyle(set proto.StyleSetting)            { s.current().SyncStyle(set) }
func (s *Store) SyncStyles(fg, bg proto.Color, fx proto.Effect) { s.current().SyncStyles(fg, bg, fx) }
func (s *Store) SyncClear(kind proto.Clear)   { s.current().SyncClear(kind) }
func (s *Store) DelCh()                       { s.current().DelCh() }

// Screens exposes the backing slice of every allocated screen. Render and
// Refresh actions only ever paint the current screen; a SwitchTo target
// is repainted when it becomes current.
func (s *Store) Screens() []*Screen { return s.data }
