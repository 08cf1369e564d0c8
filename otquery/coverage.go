package otquery

import (
	"unicode/utf8"

	"github.com/ContentFan/char2fonts/ot"
)

// Supports reports whether a font maps the code-point r to a glyph.
//
// Coverage is an existence check across the union of the font's
// Unicode-capable cmap sub-tables: it is true iff any such sub-table maps r
// to a non-zero glyph index. Iteration short-circuits on the first
// confirming sub-table, but since sub-tables cannot veto each other, the
// result does not depend on their order. Sub-tables using symbol or legacy
// regional encodings are ignored entirely.
//
// A font without any cmap sub-table supports nothing; that is a negative
// answer, not an error. Invalid input (r of zero, surrogates, values beyond
// the Unicode scalar range) yields false as well.
func Supports(otf *ot.Font, r rune) bool {
	return Glyph(otf, r) != 0
}

// Glyph returns the glyph index a font maps the code-point r to, consulting
// the Unicode-capable cmap sub-tables in storage order. Zero means the
// code-point is not mapped ("missing character").
func Glyph(otf *ot.Font, r rune) ot.GlyphIndex {
	if otf == nil || otf.CMap == nil {
		return 0
	}
	if r <= 0 || !utf8.ValidRune(r) {
		tracer().Debugf("coverage query for invalid code-point %#x", r)
		return 0
	}
	for _, sub := range otf.CMap.Subtables {
		if !sub.IsUnicode() {
			continue
		}
		if glyph := sub.GlyphIndexMap.Lookup(r); glyph != 0 {
			return glyph
		}
	}
	return 0
}
