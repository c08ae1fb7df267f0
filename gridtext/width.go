// Package gridtext wires the external Unicode segmenter and width tables
// the screen buffer needs for §4.2: grapheme clustering via
// github.com/rivo/uniseg (pulled into the pack by gdamore/tcell v2) and
// display width via github.com/mattn/go-runewidth (a declared dependency
// of both jcd-as-tcell and kungfusheep-glyph).
package gridtext

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// VariationSelector16 marks an emoji presentation selector; clusters
// bearing it are treated as 2 columns wide even when some terminals
// render them narrower (spec.md §4.2, §9).
const VariationSelector16 = '️'

// Segments splits s into grapheme clusters in display order.
func Segments(s string) []string {
	segments := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "" {
			break
		}
		segments = append(segments, cluster)
	}
	return segments
}

// IsASCII reports whether every byte of s is in the ASCII range, matching
// the fast path the spec's ASCII table of special cases relies on.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

// Width reports the terminal display width of a grapheme cluster.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// HasVS16 reports whether s contains the VS16 emoji-presentation selector.
func HasVS16(s string) bool {
	return strings.ContainsRune(s, VariationSelector16)
}
