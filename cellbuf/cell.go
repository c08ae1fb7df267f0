// Package cellbuf implements the virtual screen grid: Cell and
// ScreenBuffer, grounded on the teacher's tui/screen.go Buffer/Cell and on
// original_source/src/internals/buffer.rs for the exact cursor, content,
// and diff semantics spec.md §3–§4 describes.
package cellbuf

import "termcore/proto"

// Placeholder is the glyph substituted for graphemes whose computed
// display width is not in {1, 2} (spec.md §3, §4.2).
const Placeholder = '🚧'

// Cell is one addressable position in the virtual grid. Set distinguishes
// a never-written position (the Rust original's `None`) from a written
// cell whose glyph happens to be a literal space.
type Cell struct {
	Set    bool
	Glyph  string
	IsWide bool
	IsPart bool
	Style  proto.Style
}

// Empty reports whether the cell has never been written to.
func (c Cell) Empty() bool { return !c.Set }

// emptyCell is the unwritten-position sentinel used to blank a slot.
var emptyCell = Cell{}
