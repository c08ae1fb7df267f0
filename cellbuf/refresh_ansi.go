//go:build !windows

package cellbuf

import (
	"io"
	"strings"
)

// RefreshANSI emits only the cells that differ between inner and the
// front mirror, collapsing a cursor-goto when the next differing index is
// adjacent to the last one written. Mirrors buffer.rs's #[cfg(unix)]
// refresh (spec.md §4.6). Unlike render, a differing cell written over a
// previously painted cell, or written in a non-default style, is followed
// by its own sgrReset; a default-style cell written where front was empty
// is written without one.
func (b *ScreenBuffer) RefreshANSI(w io.Writer) error {
	col, row := b.Coord()
	prev := 0
	var contents strings.Builder
	contents.Grow(b.capacity)

	for i, cell := range b.inner {
		if cell.IsPart {
			b.front[i] = cell
			continue
		}

		if !cell.Empty() {
			front := b.front[i]
			if !front.Empty() && front.Style == cell.Style && front.Glyph == cell.Glyph {
				b.front[i] = cell
				continue
			}

			if i != prev+1 {
				contents.WriteString(gotoSeq(int16(i)%b.width, int16(i)/b.width))
			}

			if !front.Empty() {
				if front.Style != cell.Style && cell.Style.IsDefault() {
					contents.WriteString(sgrReset)
				} else if front.Style != cell.Style {
					if front.Style.Fg != cell.Style.Fg {
						contents.WriteString(sgrFg(cell.Style.Fg))
					}
					if front.Style.Bg != cell.Style.Bg {
						contents.WriteString(sgrBg(cell.Style.Bg))
					}
					if front.Style.Fx != cell.Style.Fx {
						contents.WriteString(sgrEffects(cell.Style.Fx))
					}
				}
				contents.WriteString(cell.Glyph)
				contents.WriteString(sgrReset)
			} else if cell.Style.IsDefault() {
				contents.WriteString(cell.Glyph)
			} else {
				contents.WriteString(sgrFg(cell.Style.Fg))
				contents.WriteString(sgrBg(cell.Style.Bg))
				contents.WriteString(cell.Glyph)
				contents.WriteString(sgrReset)
			}

			prev = i
			b.front[i] = cell
			continue
		}

		if !b.front[i].Empty() {
			if i != prev+1 {
				contents.WriteString(gotoSeq(int16(i)%b.width, int16(i)/b.width))
				contents.WriteString(sgrReset)
			}
			contents.WriteByte(' ')
			prev = i
		}
		b.front[i] = emptyCell
	}

	if contents.Len() > 0 {
		if _, err := io.WriteString(w, contents.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, gotoSeq(col, row))
	return err
}
