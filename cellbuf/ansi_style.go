//go:build !windows

package cellbuf

import (
	"strconv"

	"termcore/proto"
)

// gotoSeq builds the 1-indexed ANSI cursor-position escape for (col, row),
// the same manual strconv.AppendInt construction the teacher's
// writeCursorPos uses to avoid fmt.Fprintf overhead in the render hot path.
func gotoSeq(col, row int16) string {
	buf := make([]byte, 0, 16)
	buf = append(buf, '\x1b', '[')
	buf = strconv.AppendInt(buf, int64(row)+1, 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col)+1, 10)
	buf = append(buf, 'H')
	return string(buf)
}

const sgrReset = "\x1b[0m"

// SGRReset, SGRFg, SGRBg, and SGREffects are the exported forms of this
// file's escape builders, reused by the term package for Actions that set
// style directly on the device (SetFg/SetBg/SetStyles/ResetStyles)
// without going through a ScreenBuffer render pass.
const SGRReset = sgrReset

func SGRFg(c proto.Color) string      { return sgrFg(c) }
func SGRBg(c proto.Color) string      { return sgrBg(c) }
func SGREffects(fx proto.Effect) string { return sgrEffects(fx) }

// GotoSeq exports gotoSeq so the term package can move the real cursor
// directly for Goto Actions, using the identical escape construction
// Render/Refresh use to restore the cursor afterward.
func GotoSeq(col, row int16) string { return gotoSeq(col, row) }

// sgrFg renders the SGR sequence for a foreground color.
func sgrFg(c proto.Color) string { return sgrColor(c, false) }

// sgrBg renders the SGR sequence for a background color.
func sgrBg(c proto.Color) string { return sgrColor(c, true) }

func sgrColor(c proto.Color, bg bool) string {
	base := 30
	if bg {
		base = 40
	}
	switch c.Kind {
	case proto.ColorReset:
		return ""
	case proto.ColorNamed:
		n := int(c.Named)
		code := base + n%8
		if n >= 8 {
			code += 60
		}
		return "\x1b[" + strconv.Itoa(code) + "m"
	case proto.ColorIndexed:
		return "\x1b[" + strconv.Itoa(base+8) + ";5;" + strconv.Itoa(int(c.Indexed)) + "m"
	case proto.ColorRGB:
		return "\x1b[" + strconv.Itoa(base+8) + ";2;" +
			strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B)) + "m"
	default:
		return ""
	}
}

// sgrEffects renders the SGR sequences for every effect bit set in fx.
func sgrEffects(fx proto.Effect) string {
	var out string
	if fx.Has(proto.EffectBold) {
		out += "\x1b[1m"
	}
	if fx.Has(proto.EffectDim) {
		out += "\x1b[2m"
	}
	if fx.Has(proto.EffectItalic) {
		out += "\x1b[3m"
	}
	if fx.Has(proto.EffectUnderline) {
		out += "\x1b[4m"
	}
	if fx.Has(proto.EffectBlink) {
		out += "\x1b[5m"
	}
	if fx.Has(proto.EffectReverse) {
		out += "\x1b[7m"
	}
	if fx.Has(proto.EffectHidden) {
		out += "\x1b[8m"
	}
	if fx.Has(proto.EffectStrike) {
		out += "\x1b[9m"
	}
	return out
}

// styleSeq renders the full SGR sequence switching into style s, or just
// sgrReset when s is the default style.
func styleSeq(s proto.Style) string {
	if s.IsDefault() {
		return sgrReset
	}
	return sgrFg(s.Fg) + sgrBg(s.Bg) + sgrEffects(s.Fx)
}
