package ot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Code comments will occasionally cite passages from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow. Malicious fonts
// may claim unreasonably large counts that could lead to excessive memory
// allocation or out-of-bounds reads.

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedMulUint32 checks for overflow in multiplication of two uint32 values
func checkedMulUint32(a, b uint32) (uint32, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint32/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the font's byte-data after the Parse
// function returns. Its elements are assumed immutable while the ot.Font
// remains in use.
//
// Parse validates the container structure (magic bytes, table directory,
// table bounds) and decodes the 'cmap' table. It does not require any
// specific table to be present: a font without 'cmap' simply maps no
// code-point, a font without 'name' simply has no name records.
func Parse(font []byte) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, err
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())

	// Create error collector for accumulating errors during parsing
	ec := &errorCollector{}

	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		ec.addError(T(""), "Header", fmt.Sprintf("font type not supported: %x", h.FontType), SeverityCritical, 0)
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	src := binarySegm(font)
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.

	// Check for arithmetic overflow in table record size calculation
	tableRecordsSize, err := checkedMulInt(16, int(h.TableCount))
	if err != nil {
		ec.addError(T(""), "TableRecords", fmt.Sprintf("table count too large: %v", err), SeverityCritical, 12)
		return nil, errFontFormat(fmt.Sprintf("table count too large: %v", err))
	}

	buf, err := src.view(12, tableRecordsSize)
	if err != nil {
		ec.addError(T(""), "TableRecords", "table record entries", SeverityCritical, 12)
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			ec.addError(T(""), "TableRecords", "table order", SeverityCritical, 12)
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			ec.addError(tag, "Offset", "invalid table offset", SeverityCritical, off)
			return nil, errFontFormat("invalid table offset")
		}

		// Validate table bounds before slicing to prevent panic
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			ec.addError(tag, "Size", fmt.Sprintf("size calculation overflow: %v", err), SeverityCritical, off)
			return nil, errFontFormat(fmt.Sprintf("table %s: size calculation overflow: %v", tag, err))
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			ec.addError(tag, "Bounds", fmt.Sprintf("bounds [%d:%d] exceed font size %d", off, tableEnd, len(src)), SeverityCritical, off)
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, off, tableEnd, len(src)))
		}

		otf.tables[tag], err = parseTable(tag, src[off:tableEnd], off, size, ec)
		if err != nil {
			return nil, err
		}
	}
	// store shortcut to the cmap table, if present
	if cm := otf.tables[T("cmap")]; cm != nil {
		otf.CMap = cm.Self().AsCMap()
	}

	// Transfer accumulated errors and warnings to the Font
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings

	return otf, nil
}

// parseTable decodes a top-level table. Only 'cmap' receives a concrete
// representation; everything else is wrapped generically.
func parseTable(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch tag {
	case T("cmap"):
		return parseCMap(tag, b, offset, size, ec)
	}
	return newTable(tag, b, offset, size), nil
}

// --- CMap table ------------------------------------------------------------

// parseCMap decodes the cmap table header and every sub-table it can.
//
// From the spec: “The table header indicates the character encodings for
// which subtables are present. […] apart from a format 14 subtable, all
// other subtables are exclusive: applications should select and use one and
// ignore the others.”
// A coverage index deviates from that advice deliberately: selecting one
// sub-table is appropriate when a single authoritative mapping is needed for
// rendering, but coverage is an existence check. We keep every decodable
// sub-table; the union over the Unicode-capable ones decides membership.
//
// Sub-tables that cannot be decoded are skipped and never fail the whole
// font: unknown formats and invalid offsets are recorded as warnings,
// broken structure inside a supported format as a non-fatal error of
// severity Major.
func parseCMap(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	const headerSize, entrySize = 4, 8
	if size < headerSize {
		ec.addError(tag, "Header", "cmap table too small", SeverityCritical, offset)
		return nil, errFontFormat("size of cmap table")
	}
	n, _ := b.u16(2) // number of sub-tables
	tracer().Debugf("font cmap has %d sub-tables in %d|%d bytes", n, len(b), size)
	t := newCMapTable(tag, b, offset, size)

	// Check for overflow in cmap size calculation
	entriesSize, err := checkedMulUint32(entrySize, uint32(n))
	if err != nil {
		ec.addError(tag, "Header", fmt.Sprintf("entries size overflow: %v", err), SeverityCritical, offset)
		return nil, errFontFormat(fmt.Sprintf("cmap entries size overflow: %v", err))
	}
	requiredSize, err := checkedAddUint32(headerSize, entriesSize)
	if err != nil {
		ec.addError(tag, "Header", fmt.Sprintf("table size overflow: %v", err), SeverityCritical, offset)
		return nil, errFontFormat(fmt.Sprintf("cmap table size overflow: %v", err))
	}
	if size < requiredSize {
		ec.addError(tag, "Header", fmt.Sprintf("table size %d < required %d", size, requiredSize), SeverityCritical, offset)
		return nil, errFontFormat("size of cmap table")
	}
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		subOffset := u32(rec[4:])
		// The format field is the first uint16 of the sub-table, so at least
		// 2 bytes must remain past the offset.
		if subOffset < requiredSize || int(subOffset)+2 > len(b) {
			tracer().Infof("cmap sub-table cannot be parsed")
			ec.addWarning(tag, fmt.Sprintf("sub-table %d (platform=%d, encoding=%d) has invalid offset", i, pid, psid), offset)
			continue
		}
		subtable := b[subOffset:]
		format := u16(subtable)
		tracer().Debugf("cmap table contains subtable with format %d", format)
		if !supportedCmapFormat(format) {
			ec.addWarning(tag, fmt.Sprintf("sub-table %d has unsupported format %d", i, format), offset)
			continue
		}
		gim, err := makeGlyphIndex(subtable, format)
		if err != nil {
			// A sub-table in a supported format that still fails to decode is
			// structural damage worth surfacing, but never fatal: the font as a
			// whole stays usable with the remaining sub-tables.
			ec.addError(tag, "Subtable", fmt.Sprintf("sub-table %d (platform=%d, encoding=%d): %v", i, pid, psid, err), SeverityMajor, offset)
			continue
		}
		t.Subtables = append(t.Subtables, CMapSubtable{
			PlatformID:    pid,
			EncodingID:    psid,
			Format:        format,
			GlyphIndexMap: gim,
		})
	}
	if len(t.Subtables) == 0 {
		// Not an error: a font whose cmap we cannot decode covers nothing,
		// which is exactly what an empty sub-table list expresses.
		ec.addWarning(tag, "no decodable cmap sub-table found", offset)
	}
	return t, nil
}
