package cellbuf

import (
	"termcore/gridtext"
	"termcore/proto"
)

// ScreenBuffer is the virtual grid behind one Screen: an index-addressed
// array of Cell plus the cursor/marker/style state needed to interpret
// writes into it. Grounded on original_source/src/internals/buffer.rs;
// cursor and marker are kept as flat indices exactly as the Rust original
// keeps `cursor`/`marker`, rather than as (col, row) pairs, because the
// wrap and repair arithmetic in cursor() only makes sense on a flat index.
type ScreenBuffer struct {
	cursor int
	marker int

	inner []Cell
	front []Cell

	capacity int
	width    int16
	height   int16
	tabSize  int16

	activeStyle proto.Style
	placeholder rune
}

// NewScreenBuffer allocates a buffer for a w x h window, every cell
// unwritten (spec.md §3, buffer.rs ScreenBuffer::new).
func NewScreenBuffer(w, h int16) *ScreenBuffer {
	capacity := int(w) * int(h)
	return &ScreenBuffer{
		inner:       make([]Cell, capacity),
		front:       make([]Cell, capacity),
		capacity:    capacity,
		width:       w,
		height:      h,
		tabSize:     8,
		activeStyle: proto.DefaultStyle,
		placeholder: Placeholder,
	}
}

// Size reports the current window dimensions.
func (b *ScreenBuffer) Size() (int16, int16) { return b.width, b.height }

// Capacity reports the number of addressable cells (width * height).
func (b *ScreenBuffer) Capacity() int { return b.capacity }

// Inner exposes the authoritative model for the render/refresh pass.
func (b *ScreenBuffer) Inner() []Cell { return b.inner }

// Front exposes the last-rendered mirror for the refresh diff pass.
func (b *ScreenBuffer) Front() []Cell { return b.front }

// normalizeCursor repairs an out-of-bounds index after a resize and shifts left off
// a partial (second half of a wide glyph) cell, exactly mirroring
// buffer.rs's `fn cursor(&mut self) -> usize`.
func (b *ScreenBuffer) normalizeCursor() int {
	index := b.cursor
	if index >= 0 && index < len(b.inner) {
		if !b.inner[index].Empty() && b.inner[index].IsPart {
			b.cursor--
		}
		return b.cursor
	}

	length := len(b.inner)
	switch {
	case length < b.capacity:
		b.inner = append(b.inner, make([]Cell, b.capacity-length)...)
	case length > b.capacity:
		b.inner = b.inner[:b.capacity]
	}
	index = b.capacity - 1
	if !b.inner[index].Empty() && b.inner[index].IsPart {
		index--
	}
	b.cursor = index
	return index
}

// Coord reports the current cursor position as (col, row).
func (b *ScreenBuffer) Coord() (int16, int16) {
	index := int16(b.cursor)
	return index % b.width, index / b.width
}

func (b *ScreenBuffer) row() int16 { return int16(b.cursor) / b.width }

func absI16(n int16) int16 {
	if n < 0 {
		return -n
	}
	return n
}

// SyncCoord sets the cursor to an absolute (col, row), then normalizes it.
func (b *ScreenBuffer) SyncCoord(col, row int16) {
	col, row = absI16(col), absI16(row)
	b.cursor = int(row)*int(b.width) + int(col)
	b.normalizeCursor()
}

// SyncLeft moves the cursor left n columns, clamped to column 0.
func (b *ScreenBuffer) SyncLeft(n int16) {
	n = absI16(n)
	col, row := b.Coord()
	if n >= col {
		col = 0
	} else {
		col -= n
	}
	b.SyncCoord(col, row)
}

// SyncRight moves the cursor right n columns, clamped to the last column.
// If the current cell is the head of a wide glyph, one extra column is
// skipped so the cursor lands past its partial twin.
func (b *ScreenBuffer) SyncRight(n int16) {
	n = absI16(n)
	if b.cursor < len(b.inner) && b.inner[b.cursor].IsWide {
		n++
	}
	col, row := b.Coord()
	last := b.width - 1
	if col+n >= last {
		col = last
	} else {
		col += n
	}
	b.SyncCoord(col, row)
}

// SyncUp moves the cursor up n rows, clamped to row 0.
func (b *ScreenBuffer) SyncUp(n int16) {
	n = absI16(n)
	col, row := b.Coord()
	if n >= row {
		row = 0
	} else {
		row -= n
	}
	b.SyncCoord(col, row)
}

// SyncDown moves the cursor down n rows, clamped to the last row.
func (b *ScreenBuffer) SyncDown(n int16) {
	n = absI16(n)
	col, row := b.Coord()
	last := b.height - 1
	if row+n >= last {
		row = last
	} else {
		row += n
	}
	b.SyncCoord(col, row)
}

// Jump swaps the cursor and marker positions.
func (b *ScreenBuffer) Jump() {
	index, marker := b.cursor, b.marker
	b.cursor = marker
	b.normalizeCursor()
	b.marker = index
}

// SyncMarker sets the marker to an absolute (col, row), unnormalized.
func (b *ScreenBuffer) SyncMarker(col, row int16) {
	col, row = absI16(col), absI16(row)
	b.marker = int(row)*int(b.width) + int(col)
}

// SyncTabSize sets the tab stop width used by SyncContent's "\t" handling.
func (b *ScreenBuffer) SyncTabSize(n int16) { b.tabSize = n }

// SyncPlaceholder overrides the glyph substituted for unsupported-width
// grapheme clusters (spec.md §4.2, §9).
func (b *ScreenBuffer) SyncPlaceholder(r rune) { b.placeholder = r }

// SyncSize resizes the window, truncating or zero-extending inner so its
// length always equals the new capacity.
func (b *ScreenBuffer) SyncSize(w, h int16) {
	b.width, b.height = w, h
	b.capacity = int(w) * int(h)
	switch {
	case len(b.inner) < b.capacity:
		b.inner = append(b.inner, make([]Cell, b.capacity-len(b.inner))...)
	case len(b.inner) > b.capacity:
		b.inner = b.inner[:b.capacity]
	}
	b.front = make([]Cell, b.capacity)
}

// SyncStyle updates one channel of the active style used by subsequent
// SyncContent calls.
func (b *ScreenBuffer) SyncStyle(s proto.StyleSetting) {
	switch s.Kind {
	case proto.StyleFg:
		b.activeStyle.Fg = s.Color
	case proto.StyleBg:
		b.activeStyle.Bg = s.Color
	case proto.StyleFx:
		b.activeStyle.Fx = s.Fx
	}
}

// SyncStyles replaces the whole active style at once.
func (b *ScreenBuffer) SyncStyles(fg, bgc proto.Color, fx proto.Effect) {
	b.activeStyle = proto.Style{Fg: fg, Bg: bgc, Fx: fx}
}

// GetCh returns the glyph under the cursor, or a single space for an
// unwritten cell. A read that lands on a partial cell returns its wide
// twin's glyph instead (buffer.rs getch).
func (b *ScreenBuffer) GetCh() string {
	index := b.cursor
	cell := b.inner[index]
	if cell.Empty() {
		return " "
	}
	if cell.IsPart {
		if index == 0 {
			return " "
		}
		prev := b.inner[index-1]
		if prev.Empty() {
			return " "
		}
		return prev.Glyph
	}
	return cell.Glyph
}

// DelCh removes the cell under the cursor, shifting every later cell left
// by one (or two, for a wide glyph) and appending unwritten cells at the
// tail to keep len(inner) == capacity (buffer.rs delch).
func (b *ScreenBuffer) DelCh() {
	index := b.cursor
	cell := b.inner[index]
	switch {
	case cell.Empty():
		b.removeAt(index, 1)
	case cell.IsPart:
		b.removeAt(index-1, 2)
		b.cursor = index - 1
	case cell.IsWide:
		b.removeAt(index, 2)
	default:
		b.removeAt(index, 1)
	}
}

func (b *ScreenBuffer) removeAt(index, n int) {
	for i := 0; i < n; i++ {
		copy(b.inner[index:], b.inner[index+1:])
		b.inner[len(b.inner)-1] = emptyCell
	}
}

// setCell writes one glyph at the cursor, splitting a wide glyph across
// two cells (head + partial twin) and clearing a stale partial twin left
// over from a previously-wide cell at this index (buffer.rs set_cell).
func (b *ScreenBuffer) setCell(glyph string, wide bool) {
	index := b.cursor
	if index >= b.capacity {
		index = b.capacity - 1
	}
	if wide {
		b.inner[index] = Cell{Set: true, Glyph: glyph, IsWide: true, Style: b.activeStyle}
		if index+1 < b.capacity {
			b.inner[index+1] = Cell{Set: true, IsWide: true, IsPart: true, Style: b.activeStyle}
		}
		b.cursor = index + 2
		return
	}

	fromWide := !b.inner[index].Empty() && b.inner[index].IsWide
	b.inner[index] = Cell{Set: true, Glyph: glyph, Style: b.activeStyle}
	b.cursor = index + 1
	if fromWide && index+1 < b.capacity {
		b.inner[index+1] = emptyCell
		b.cursor = index + 2
	}
}

// setAscii applies the exact control-character semantics SyncContent
// dispatches to for single ASCII bytes (buffer.rs set_ascii).
func (b *ScreenBuffer) setAscii(s string) {
	switch s {
	case "\x00":
		// no-op
	case "\r":
		b.SyncCoord(0, b.row())
	case "\n":
		b.handleNewline()
	case "\r\n":
		b.advanceLine()
	case "\t":
		col, row := b.Coord()
		prevTab := (col / b.tabSize) * b.tabSize
		newTab := prevTab + b.tabSize
		width := b.width - 1
		if newTab > width {
			newTab = width
		}
		b.SyncCoord(newTab, row)
	case "\x1B":
		b.setCell("^", false)
	default:
		b.setCell(s, false)
	}
}

// advanceLine is the \r\n column-reset behavior, shared with the Windows
// "\n" handler in newline_windows.go.
func (b *ScreenBuffer) advanceLine() {
	row, height := b.row()+1, b.height
	if height > row {
		b.SyncCoord(0, row)
	} else {
		b.SyncCoord(0, height-1)
	}
}

// SyncContent segments s into grapheme clusters and writes each one,
// dispatching ASCII control bytes through setAscii and everything else
// through the width oracle (buffer.rs sync_content).
func (b *ScreenBuffer) SyncContent(s string) {
	for _, seg := range gridtext.Segments(s) {
		if gridtext.IsASCII(seg) {
			b.setAscii(seg)
			continue
		}
		switch gridtext.Width(seg) {
		case 1:
			b.setCell(seg, gridtext.HasVS16(seg))
		case 2:
			b.setCell(seg, true)
		default:
			b.setCell(string(b.placeholder), true)
		}
	}
}

// SyncClear blanks the region named by kind (buffer.rs sync_clear).
func (b *ScreenBuffer) SyncClear(kind proto.Clear) {
	w := int(b.width)
	switch kind {
	case proto.ClearAll:
		b.inner = make([]Cell, b.capacity)
		b.cursor = 0
	case proto.ClearNewLn:
		col, row := b.Coord()
		start, stop := int(row)*w+int(col), int(row+1)*w
		b.blank(start, stop)
	case proto.ClearCurrentLn:
		_, row := b.Coord()
		start, stop := int(row)*w, int(row+1)*w
		b.blank(start, stop)
		b.SyncCoord(0, row)
	case proto.ClearCursorUp:
		col, row := b.Coord()
		stop := int(row)*w + int(col)
		b.blank(0, stop)
	case proto.ClearCursorDn:
		col, row := b.Coord()
		start, stop := int(row)*w+int(col), w*int(b.height)
		b.blank(start, stop)
	}
}

func (b *ScreenBuffer) blank(start, stop int) {
	for i := start; i < stop && i < len(b.inner); i++ {
		b.inner[i] = emptyCell
	}
}
