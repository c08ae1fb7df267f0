package cellbuf

import (
	"strings"
	"testing"

	"termcore/gridtext"
	"termcore/proto"
)

// checkContents renders inner back to a plain string for assertions,
// mirroring buffer.rs's #[cfg(test)] check_contents helper.
func (b *ScreenBuffer) checkContents() string {
	var out strings.Builder
	length := 0
	for _, cell := range b.inner {
		if cell.Empty() {
			if length+1 > b.capacity {
				break
			}
			out.WriteByte(' ')
			length++
			continue
		}
		if cell.IsPart {
			continue
		}
		width := 1
		if cell.IsWide {
			width = 2
		}
		if length+width > b.capacity {
			break
		}
		out.WriteString(cell.Glyph)
		length += width
	}
	for length < b.capacity {
		out.WriteByte(' ')
		length++
	}
	return out.String()
}

func TestBufferWideCharContent(t *testing.T) {
	b := NewScreenBuffer(5, 2)
	if got := b.checkContents(); got != strings.Repeat(" ", 10) {
		t.Fatalf("default contents = %q", got)
	}

	b.SyncContent("a㓘z")
	if len(b.inner) != 10 {
		t.Fatalf("inner len = %d, want 10", len(b.inner))
	}
	want := "a㓘z" + strings.Repeat(" ", 6)
	if got := b.checkContents(); got != want {
		t.Fatalf("contents = %q, want %q", got, want)
	}

	b.SyncCoord(0, 0)
	b.SyncContent("a$z")
	want = "a$ z" + strings.Repeat(" ", 6)
	if got := b.checkContents(); got != want {
		t.Fatalf("overwrite contents = %q, want %q", got, want)
	}
}

func TestBufferNewlineContent(t *testing.T) {
	b := NewScreenBuffer(5, 2)
	b.SyncContent("a\n㓘z")
	if len(b.inner) != 10 {
		t.Fatalf("inner len = %d, want 10", len(b.inner))
	}
	want := "a" + strings.Repeat(" ", 5) + "㓘z" + strings.Repeat(" ", 1)
	if got := b.checkContents(); got != want {
		t.Fatalf("contents = %q, want %q", got, want)
	}

	b.SyncCoord(0, 0)
	b.SyncContent("a\n$z")
	want = "a" + strings.Repeat(" ", 5) + "$ z" + strings.Repeat(" ", 1)
	if got := b.checkContents(); got != want {
		t.Fatalf("overwrite contents = %q, want %q", got, want)
	}

	// Unix "\n" moved row down without resetting column, so "$z" landed
	// at (1, 1); Clear::NewLn from (1, 0) blanks only the rest of row 0,
	// which is already empty, so row 1 keeps "$ z".
	b.SyncCoord(1, 0)
	b.SyncClear(proto.ClearNewLn)
	want = "a" + strings.Repeat(" ", 5) + "$ z" + strings.Repeat(" ", 1)
	if got := b.checkContents(); got != want {
		t.Fatalf("after ClearNewLn = %q, want %q", got, want)
	}

	b.SyncCoord(1, 1)
	b.SyncClear(proto.ClearCurrentLn)
	want = "a" + strings.Repeat(" ", 9)
	if got := b.checkContents(); got != want {
		t.Fatalf("after ClearCurrentLn = %q, want %q", got, want)
	}
}

func TestBufferTabbedContent(t *testing.T) {
	b := NewScreenBuffer(15, 2)
	b.SyncTabSize(4)
	b.SyncContent("a\t㓘\tzebra\t\t\t&")
	if len(b.inner) != 30 {
		t.Fatalf("inner len = %d, want 30", len(b.inner))
	}
	want := "a" + strings.Repeat(" ", 3) + "㓘" + strings.Repeat(" ", 2) +
		"zebra" + strings.Repeat(" ", 1) + "&" + strings.Repeat(" ", 15)
	if got := b.checkContents(); got != want {
		t.Fatalf("contents = %q, want %q", got, want)
	}
}

func TestBufferMovement(t *testing.T) {
	b := NewScreenBuffer(5, 5)
	b.SyncContent(strings.Repeat("-", 25))
	b.SyncCoord(2, 2)
	b.SyncContent("0")
	b.SyncCoord(2, 2)
	b.SyncUp(2)
	b.SyncContent("N")
	b.SyncCoord(2, 2)
	b.SyncRight(2)
	b.SyncContent("E")
	b.SyncCoord(2, 2)
	b.SyncDown(2)
	b.SyncContent("S")
	b.SyncCoord(2, 2)
	b.SyncLeft(2)
	b.SyncContent("W")

	out := b.checkContents()
	if got := out[0:3]; got != "--N" {
		t.Errorf("row 0 = %q, want --N", got)
	}
	if got := out[10:13]; got != "W-0" {
		t.Errorf("row 2 left = %q, want W-0", got)
	}
	if got := out[12:15]; got != "0-E" {
		t.Errorf("row 2 right = %q, want 0-E", got)
	}
	if got := out[20:23]; got != "--S" {
		t.Errorf("row 4 = %q, want --S", got)
	}
}

func TestBufferGetCh(t *testing.T) {
	b := NewScreenBuffer(5, 2)
	b.SyncContent("He㓘o, क्‍ष")

	b.SyncCoord(3, 0)
	if got := b.GetCh(); got != "㓘" {
		t.Errorf("GetCh(3,0) = %q, want 㓘", got)
	}
	b.SyncCoord(0, 1)
	if got := b.GetCh(); got != "," {
		t.Errorf("GetCh(0,1) = %q, want ,", got)
	}
	b.SyncCoord(4, 1)
	if got := b.GetCh(); got != " " {
		t.Errorf("GetCh(4,1) = %q, want space", got)
	}
}

func TestBufferDelCh(t *testing.T) {
	b := NewScreenBuffer(5, 2)
	b.SyncContent("He㓘o, क्‍ष")

	b.SyncCoord(3, 0)
	if got := b.GetCh(); got != "㓘" {
		t.Fatalf("GetCh before delete = %q", got)
	}
	b.DelCh()
	if got := b.GetCh(); got != "o" {
		t.Errorf("GetCh after delete = %q, want o", got)
	}
}

func TestBufferComplexCharContent(t *testing.T) {
	b := NewScreenBuffer(5, 2)
	b.SyncContent("a⚠️ 👨‍👩‍👧 ❤️z")

	if len(b.inner) != 10 {
		t.Fatalf("inner len = %d, want 10", len(b.inner))
	}
	if !b.inner[1].IsWide {
		t.Errorf("VS16 cluster should be stored wide")
	}
	if !b.inner[2].IsPart {
		t.Errorf("cell after a wide cluster should be its partial twin")
	}
}

// TestJumpInvolution exercises invariant 6 (spec.md §8): two consecutive
// Jump calls restore the original (cursor, marker) pair, for several
// distinct starting positions.
func TestJumpInvolution(t *testing.T) {
	cases := []struct{ cc, cr, mc, mr int16 }{
		{0, 0, 0, 0},
		{3, 2, 1, 4},
		{4, 4, 0, 0},
		{2, 1, 4, 3},
	}
	for _, c := range cases {
		b := NewScreenBuffer(5, 5)
		b.SyncCoord(c.cc, c.cr)
		b.SyncMarker(c.mc, c.mr)
		wantCursor, wantMarker := b.cursor, b.marker

		b.Jump()
		b.Jump()

		if b.cursor != wantCursor || b.marker != wantMarker {
			t.Errorf("Jump twice from cursor=(%d,%d) marker=(%d,%d): got (cursor=%d, marker=%d), want (%d, %d)",
				c.cc, c.cr, c.mc, c.mr, b.cursor, b.marker, wantCursor, wantMarker)
		}
	}
}

func TestSegmentsSplitClusters(t *testing.T) {
	segs := gridtext.Segments("a❤️z")
	if len(segs) != 3 {
		t.Fatalf("Segments(a❤️z) = %v, want 3 clusters", segs)
	}
}
