package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ContentFan/char2fonts/internal/fontsynth"
)

func glyphIndexFor(t *testing.T, font []byte) CMapGlyphIndex {
	t.Helper()
	otf := parseSynthFont(t, font)
	if otf.CMap == nil || len(otf.CMap.Subtables) == 0 {
		t.Fatal("expected font to contain a decoded cmap sub-table")
	}
	return otf.CMap.Subtables[0].GlyphIndexMap
}

func TestCMapFormat4Lookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "char2fonts.ot")
	defer teardown()
	//
	font := fontsynth.New().CMapFormat4(3, 1,
		fontsynth.Segment{Start: 'A', End: 'Z', FirstGlyph: 5},
		fontsynth.Segment{Start: 0x300, End: 0x302, FirstGlyph: 100},
	).Bytes()
	gim := glyphIndexFor(t, font)
	cases := []struct {
		r     rune
		glyph GlyphIndex
	}{
		{'A', 5},
		{'B', 6},
		{'Z', 30},
		{0x300, 100},
		{0x302, 102},
		{'@', 0},     // just below first segment
		{'[', 0},     // just above first segment
		{0x303, 0},   // just above second segment
		{0xffff, 0},  // terminator segment maps to missing character
		{0x1F600, 0}, // beyond the BMP, unreachable for format 4
	}
	for _, c := range cases {
		if got := gim.Lookup(c.r); got != c.glyph {
			t.Errorf("Lookup(%#x): expected glyph %d, got %d", c.r, c.glyph, got)
		}
	}
}

func TestCMapFormat6Lookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "char2fonts.ot")
	defer teardown()
	//
	font := fontsynth.New().CMapFormat6(0, 3, 0x41, 7, 8, 0, 9).Bytes()
	gim := glyphIndexFor(t, font)
	cases := []struct {
		r     rune
		glyph GlyphIndex
	}{
		{0x41, 7},
		{0x42, 8},
		{0x43, 0}, // explicit missing-character entry
		{0x44, 9},
		{0x40, 0}, // below firstCode
		{0x45, 0}, // past entryCount
	}
	for _, c := range cases {
		if got := gim.Lookup(c.r); got != c.glyph {
			t.Errorf("Lookup(%#x): expected glyph %d, got %d", c.r, c.glyph, got)
		}
	}
}

func TestCMapFormat12Lookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "char2fonts.ot")
	defer teardown()
	//
	font := fontsynth.New().CMapFormat12(3, 10,
		fontsynth.Group{Start: 'A', End: 'Z', FirstGlyph: 5},
		fontsynth.Group{Start: 0x1F600, End: 0x1F64F, FirstGlyph: 1000},
	).Bytes()
	gim := glyphIndexFor(t, font)
	cases := []struct {
		r     rune
		glyph GlyphIndex
	}{
		{'A', 5},
		{'Z', 30},
		{0x1F600, 1000},
		{0x1F64F, 1079},
		{0x1F650, 0},
		{'a', 0},
	}
	for _, c := range cases {
		if got := gim.Lookup(c.r); got != c.glyph {
			t.Errorf("Lookup(%#x): expected glyph %d, got %d", c.r, c.glyph, got)
		}
	}
}

func TestCMapSubtableIsUnicode(t *testing.T) {
	cases := []struct {
		pid, eid uint16
		unicode  bool
	}{
		{0, 3, true},   // Unicode platform, BMP
		{0, 4, true},   // Unicode platform, full repertoire
		{3, 1, true},   // Windows, Unicode BMP
		{3, 10, true},  // Windows, Unicode full
		{3, 0, false},  // Windows, symbol
		{1, 0, false},  // Macintosh legacy
		{3, 2, false},  // Windows, ShiftJIS
	}
	for _, c := range cases {
		sub := CMapSubtable{PlatformID: c.pid, EncodingID: c.eid}
		if got := sub.IsUnicode(); got != c.unicode {
			t.Errorf("IsUnicode(platform=%d, encoding=%d): expected %v, got %v",
				c.pid, c.eid, c.unicode, got)
		}
	}
}

func TestCMapFormat4IllegalSegmentCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "char2fonts.ot")
	defer teardown()
	//
	sub := make([]byte, 20)
	putU16(sub, 0, 4)  // format
	putU16(sub, 2, 20) // length
	putU16(sub, 6, 3)  // segCountX2, odd ⇒ broken
	font := fontsynth.New().CMapRaw(3, 1, sub).Bytes()
	otf := parseSynthFont(t, font)
	if otf.CMap == nil {
		t.Fatal("expected font to have a cmap table")
	}
	if len(otf.CMap.Subtables) != 0 {
		t.Error("expected broken format 4 sub-table to be skipped")
	}
	errs := otf.Errors()
	if len(errs) == 0 {
		t.Fatal("expected a non-fatal error for the broken sub-table")
	}
	if errs[0].Severity != SeverityMajor {
		t.Errorf("expected severity MAJOR for the broken sub-table, got %v", errs[0].Severity)
	}
}
