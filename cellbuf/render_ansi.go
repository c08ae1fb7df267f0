//go:build !windows

package cellbuf

import (
	"io"
	"strings"

	"termcore/proto"
)

// RenderANSI repaints the whole window: every cell's glyph is written in
// row-major order with style escapes emitted only when the running style
// changes, then the cursor is restored to its real position. Mirrors
// buffer.rs's #[cfg(unix)] render, adapted to write through an io.Writer
// rather than a concrete Term so any ANSI-writing TerminalAdapter can
// drive it (spec.md §4.5).
func (b *ScreenBuffer) RenderANSI(w io.Writer) error {
	col, row := b.Coord()
	if _, err := io.WriteString(w, gotoSeq(0, 0)); err != nil {
		return err
	}

	style := proto.DefaultStyle
	var contents strings.Builder
	contents.Grow(b.capacity)

	for i, cell := range b.inner {
		b.front[i] = cell
		if cell.Empty() {
			if style.IsDefault() {
				contents.WriteByte(' ')
			} else {
				contents.WriteString(sgrReset)
				style = proto.DefaultStyle
				contents.WriteByte(' ')
			}
			continue
		}
		if cell.IsPart {
			continue
		}
		if style != cell.Style && cell.Style.IsDefault() {
			contents.WriteString(sgrReset)
			style = proto.DefaultStyle
		} else if style != cell.Style {
			if style.Fg != cell.Style.Fg {
				contents.WriteString(sgrFg(cell.Style.Fg))
				style.Fg = cell.Style.Fg
			}
			if style.Bg != cell.Style.Bg {
				contents.WriteString(sgrBg(cell.Style.Bg))
				style.Bg = cell.Style.Bg
			}
			if style.Fx != cell.Style.Fx {
				contents.WriteString(sgrEffects(cell.Style.Fx))
				style.Fx = cell.Style.Fx
			}
		}
		contents.WriteString(cell.Glyph)
	}

	if contents.Len() > 0 {
		if _, err := io.WriteString(w, contents.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, gotoSeq(col, row))
	return err
}
