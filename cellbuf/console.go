//go:build windows

package cellbuf

// ConsoleRect is a bounding box of cells to blit, in column/row space.
type ConsoleRect struct {
	Top, Left, Bottom, Right int16
}

// ConsolePainter is implemented by the Windows console TerminalAdapter: it
// blits a row-major slice of cells into the console screen buffer at
// offset, bounded by rect. Only the first w*h cells are used; the refresh
// pass hands over the whole front mirror with h set to the last dirty
// row plus one. Keeping this as an
// interface lets cellbuf stay free of golang.org/x/sys/windows while the
// term package supplies the real Win32 console-API blit (spec.md §4.5).
type ConsolePainter interface {
	Paint(cells []Cell, w, h int16, offsetCol, offsetRow int16, rect ConsoleRect) error
}

// RenderConsole repaints the whole window through painter, mirroring
// buffer.rs's #[cfg(windows)] render: every cell of inner becomes the new
// front mirror and the full window is blitted in one call.
func (b *ScreenBuffer) RenderConsole(painter ConsolePainter) error {
	copy(b.front, b.inner)
	for i, cell := range b.front {
		if cell.Empty() {
			b.front[i] = Cell{Set: true, Glyph: " "}
		}
	}
	rect := ConsoleRect{Top: 0, Left: 0, Bottom: b.height - 1, Right: b.width - 1}
	return painter.Paint(b.front, b.width, b.height, 0, 0, rect)
}

// RefreshConsole blits only the bounding rectangle that changed between
// inner and front, mirroring buffer.rs's #[cfg(windows)] refresh diff.
func (b *ScreenBuffer) RefreshConsole(painter ConsolePainter) error {
	width := b.width
	var left, top, right, bottom int16
	dirty := false

	for i := range b.inner {
		cell := b.inner[i]
		if cell.Empty() {
			cell = Cell{Set: true, Glyph: " "}
		}
		front := b.front[i]
		if front.Empty() {
			front = Cell{Set: true, Glyph: " "}
		}
		if cell.Glyph == front.Glyph && cell.Style == front.Style {
			continue
		}
		col, row := int16(i)%width, int16(i)/width
		if !dirty {
			dirty = true
			left, top, right, bottom = col, row, col, row
		}
		if col < left {
			left = col
		}
		if col > right {
			right = col
		}
		if row < top {
			top = row
		}
		if row > bottom {
			bottom = row
		}
		b.front[i] = cell
	}

	if !dirty {
		return nil
	}
	rect := ConsoleRect{Top: top, Left: left, Bottom: bottom, Right: right}
	return painter.Paint(b.front, width, bottom+1, left, top, rect)
}
