package ot

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
//
// A cmap table may contain more than one sub-table, keyed by a combination of
// platform ID and platform-specific encoding ID. For coverage queries the
// sub-tables are not alternatives to be ranked, but a union to be tested:
// a code-point is supported by the font as soon as any Unicode-capable
// sub-table maps it to a non-zero glyph. We therefore decode every supported
// sub-table and keep all of them, in file storage order.
type CMapTable struct {
	tableBase
	Subtables []CMapSubtable
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// CMapSubtable is one decoded cmap sub-table together with the addressing
// scheme it was stored under.
type CMapSubtable struct {
	PlatformID    uint16
	EncodingID    uint16
	Format        uint16
	GlyphIndexMap CMapGlyphIndex
}

// IsUnicode returns true if this sub-table uses a Unicode-compatible
// addressing scheme. The two standard conventions are the Unicode platform
// (ID 0, any encoding) and the Windows platform (ID 3) with a Unicode
// encoding (1 = BMP, 10 = full repertoire). Symbol (3,0) and legacy regional
// encodings are not Unicode-compatible.
func (sub CMapSubtable) IsUnicode() bool {
	switch sub.PlatformID {
	case 0: // Unicode platform
		return true
	case 3: // Windows platform
		return sub.EncodingID == 1 || sub.EncodingID == 10
	}
	return false
}

// CMapGlyphIndex represents a cmap sub-table index to receive a glyph index
// from a code-point. A result of 0 denotes the "missing character" glyph,
// i.e. the code-point is not mapped.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex
}

// The various cmap sub-table formats are described at
// https://www.microsoft.com/typography/otspec/cmap.htm
//
// From the spec: Of the seven available formats, not all are commonly used
// today. Formats 4 or 12 are appropriate for most new fonts, depending on the
// Unicode character repertoire supported. We additionally decode format 6
// (trimmed table), which still occurs in older TrueType fonts. Variation
// sequences (format 14) and last-resort mappings (format 13) are out of scope
// for coverage testing; sub-tables in an undecodable format are skipped with
// a warning.
func supportedCmapFormat(format uint16) bool {
	return format == 4 || format == 6 || format == 12
}

// Dispatcher to create the correct implementation of a CMapGlyphIndex from a
// given format.
func makeGlyphIndex(b binarySegm, format uint16) (CMapGlyphIndex, error) {
	switch format {
	case 4:
		return makeGlyphIndexFormat4(b)
	case 6:
		return makeGlyphIndexFormat6(b)
	case 12:
		return makeGlyphIndexFormat12(b)
	}
	panic("unreachable") // unsupported formats should have been weeded out beforehand
}

// --- Format 4: Segment mapping to delta values -----------------------------

// This is the standard character-to-glyph-index mapping sub-table for fonts
// that support only Unicode Basic Multilingual Plane characters
// (U+0000 to U+FFFF).
//
// Format 4 holds four parallel arrays describing segments (one segment for
// each contiguous range of codes), plus a trailing glyph ID array for
// segments that cannot be expressed as a plain delta.
type format4GlyphIndex struct {
	segCount     int
	endCodes     []uint16
	startCodes   []uint16
	deltas       []uint16
	rangeOffsets []uint16
	glyphIds     []uint16
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if uint32(r) > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	for i, j := 0, f4.segCount; i < j; {
		h := i + (j-i)/2 // do a binary search on the segments (which may get large)
		if c < f4.startCodes[h] {
			j = h
		} else if f4.endCodes[h] < c {
			i = h + 1
		} else if f4.rangeOffsets[h] == 0 {
			return GlyphIndex(c + f4.deltas[h]) // delta arithmetic is modulo 65536
		} else {
			// The spec describes the glyph ID array lookup as an offset from the
			// idRangeOffset entry's own position within the font file. We have
			// sliced the sub-table into separate arrays, so the obscure
			// self-relative trick is normalized into a clean array index:
			inx := int(f4.rangeOffsets[h])/2 + int(c-f4.startCodes[h]) - (f4.segCount - h)
			if inx < 0 || inx >= len(f4.glyphIds) {
				return 0 // indexing error in font data ⇒ missing character
			}
			glyph := f4.glyphIds[inx]
			if glyph == 0 {
				return 0
			}
			// If the value obtained from the indexing operation is not 0 (which
			// indicates missingGlyph), idDelta is added to it to get the glyph index
			return GlyphIndex(glyph + f4.deltas[h])
		}
	}
	return 0
}

// The format's data is divided into three parts, which must occur in the
// following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	size, _ := b.u16(2)
	if int(size) > b.Size() {
		return nil, errFontFormat("cmap subtable length exceeds table bounds")
	}
	segCountX2, _ := b.u16(6)
	if segCountX2&1 != 0 || segCountX2 == 0 {
		tracer().Debugf("cmap format 4 segment count is %d", segCountX2)
		return nil, errFontFormat("cmap table format, illegal segment count")
	}
	segCount := int(segCountX2 / 2)
	arraysEnd := 16 + 8*segCount // header + 4 arrays + reserved pad
	if arraysEnd > int(size) {
		return nil, errFontFormat("cmap internal structure")
	}
	b = b[:size]
	endCodes := asU16Slice(b[headerSize : headerSize+2*segCount])
	next := headerSize + 2*segCount + 2 // 2 is a padding entry in the cmap table
	startCodes := asU16Slice(b[next : next+2*segCount])
	next += 2 * segCount
	deltas := asU16Slice(b[next : next+2*segCount])
	next += 2 * segCount
	rangeOffsets := asU16Slice(b[next : next+2*segCount])
	next += 2 * segCount
	glyphIds := asU16Slice(b[next:])
	tracer().Debugf("cmap format 4 has %d segments, glyph table starts at offset %d", segCount, next)
	return format4GlyphIndex{
		segCount:     segCount,
		endCodes:     endCodes,
		startCodes:   startCodes,
		deltas:       deltas,
		rangeOffsets: rangeOffsets,
		glyphIds:     glyphIds,
	}, nil
}

// --- Format 6: Trimmed table mapping ---------------------------------------

// Format 6 maps one dense range of 16-bit code-points, starting at firstCode,
// onto an array of glyph IDs. It should not be used in new fonts, but older
// TrueType fonts carry it frequently enough to warrant decoding.
type format6GlyphIndex struct {
	firstCode uint16
	glyphIds  []uint16
}

func (f6 format6GlyphIndex) Lookup(r rune) GlyphIndex {
	if uint32(r) > 0xffff {
		return 0
	}
	c := uint16(r)
	if c < f6.firstCode {
		return 0
	}
	inx := int(c - f6.firstCode)
	if inx >= len(f6.glyphIds) {
		return 0
	}
	return GlyphIndex(f6.glyphIds[inx])
}

func makeGlyphIndexFormat6(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 10
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	firstCode, _ := b.u16(6)
	entryCount, _ := b.u16(8)
	if headerSize+2*int(entryCount) > b.Size() {
		return nil, errFontFormat("cmap internal structure")
	}
	return format6GlyphIndex{
		firstCode: firstCode,
		glyphIds:  asU16Slice(b[headerSize : headerSize+2*int(entryCount)]),
	}, nil
}

// --- Format 12: Segmented coverage -----------------------------------------

// Each sequential map group record specifies a character range and the starting
// glyph ID mapped from the first character. Glyph IDs for subsequent characters
// follow in sequence.
type cmapEntry32 struct {
	start, end, delta uint32
}

// This is the standard character-to-glyph-index mapping sub-table for fonts
// supporting Unicode character repertoires that include supplementary-plane
// characters (U+10000 to U+10FFFF).
//
// Format 12 is similar to format 4 in that it defines segments for sparse
// representation. It differs, however, in that it uses 32-bit character codes,
// and glyph ID lookup and calculation is a lot simpler.
type format12GlyphIndex struct {
	entries []cmapEntry32
}

func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	c := uint32(r)
	for i, j := 0, len(f12.entries); i < j; {
		h := i + (j-i)/2 // do a binary search on f12.entries (which may get large)
		entry := &f12.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return GlyphIndex(c - entry.start + entry.delta)
		}
	}
	return 0
}

func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 16
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	grpCount, _ := b.u32(12)
	eLength, err := checkedMulUint32(grpCount, 12) // 12 is byte size of group-record
	if err != nil {
		return nil, errFontFormat("cmap group count overflow")
	}
	if headerSize+int(eLength) > b.Size() {
		return nil, errFontFormat("cmap internal structure")
	}
	// SequentialMapGroup Record:
	// Type     Name            Description
	// uint32   startCharCode   First character code in this group
	// uint32   endCharCode     Last character code in this group
	// uint32   startGlyphID    Glyph index corresponding to the starting character code
	entries := make([]cmapEntry32, grpCount)
	for i := range entries {
		grp := b[headerSize+12*i:]
		entries[i] = cmapEntry32{
			start: u32(grp),
			end:   u32(grp[4:]),
			delta: u32(grp[8:]),
		}
	}
	return format12GlyphIndex{entries: entries}, nil
}
