// Package fontsynth assembles minimal, structurally valid OpenType font
// binaries in memory. It exists for tests: coverage and naming behavior can
// be exercised against synthetic fonts with precisely known cmap and name
// contents, without shipping binary testdata.
package fontsynth

import (
	"math/bits"
	"sort"
	"unicode/utf16"
)

// Segment maps a contiguous run of BMP code-points onto consecutive glyph IDs,
// i.e. Start maps to FirstGlyph, Start+1 to FirstGlyph+1, and so on.
type Segment struct {
	Start, End rune
	FirstGlyph uint16
}

// Group is the format-12 analog of Segment, for code-points beyond the BMP.
type Group struct {
	Start, End rune
	FirstGlyph uint32
}

// NameRecord is one entry for a synthetic 'name' table.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Value      string // encoded as UTF-16BE in the table
}

type cmapSub struct {
	pid, eid uint16
	data     []byte
}

// Builder accumulates tables for a synthetic font. The zero value is not
// usable; construct with New.
type Builder struct {
	subs   []cmapSub
	names  []NameRecord
	tables map[string][]byte
}

func New() *Builder {
	return &Builder{tables: make(map[string][]byte)}
}

// SetTable stores a raw table under the given 4-letter tag, overwriting any
// previous content for that tag.
func (b *Builder) SetTable(tag string, data []byte) *Builder {
	b.tables[tag] = data
	return b
}

// CMapFormat4 appends a format-4 cmap sub-table for the given platform and
// encoding. Segments must be sorted by Start and non-overlapping.
func (b *Builder) CMapFormat4(pid, eid uint16, segs ...Segment) *Builder {
	b.subs = append(b.subs, cmapSub{pid, eid, cmapFormat4(segs)})
	return b
}

// CMapFormat6 appends a format-6 (trimmed table) cmap sub-table.
func (b *Builder) CMapFormat6(pid, eid uint16, first rune, glyphs ...uint16) *Builder {
	b.subs = append(b.subs, cmapSub{pid, eid, cmapFormat6(first, glyphs)})
	return b
}

// CMapFormat12 appends a format-12 cmap sub-table. Groups must be sorted by
// Start and non-overlapping.
func (b *Builder) CMapFormat12(pid, eid uint16, groups ...Group) *Builder {
	b.subs = append(b.subs, cmapSub{pid, eid, cmapFormat12(groups)})
	return b
}

// CMapRaw appends an arbitrary byte blob as a cmap sub-table, for exercising
// unsupported-format and broken-structure paths.
func (b *Builder) CMapRaw(pid, eid uint16, data []byte) *Builder {
	b.subs = append(b.subs, cmapSub{pid, eid, data})
	return b
}

// Names sets the records of the synthetic 'name' table.
func (b *Builder) Names(recs ...NameRecord) *Builder {
	b.names = append(b.names, recs...)
	return b
}

// Bytes assembles the font binary: sfnt header, table directory sorted in
// ascending tag order, and 4-byte aligned table data.
func (b *Builder) Bytes() []byte {
	tables := make(map[string][]byte, len(b.tables)+2)
	for tag, data := range b.tables {
		tables[tag] = data
	}
	if len(b.subs) > 0 {
		tables["cmap"] = cmapTable(b.subs)
	}
	if len(b.names) > 0 {
		tables["name"] = nameTable(b.names)
	}
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	n := len(tags)
	directorySize := 12 + 16*n
	font := make([]byte, directorySize)
	putU32(font, 0, 0x00010000) // TrueType flavor
	putU16(font, 4, uint16(n))
	entrySelector := uint16(bits.Len(uint(n))) - 1
	searchRange := uint16(16) << entrySelector
	putU16(font, 6, searchRange)
	putU16(font, 8, entrySelector)
	putU16(font, 10, uint16(16*n)-searchRange)
	for i, tag := range tags {
		data := tables[tag]
		rec := font[12+16*i:]
		copy(rec, (tag + "    ")[:4])
		putU32(rec, 8, uint32(len(font)))
		putU32(rec, 12, uint32(len(data)))
		font = append(font, data...)
		for len(font)%4 != 0 { // tables must begin on four byte boundaries
			font = append(font, 0)
		}
	}
	return font
}

// SimpleFont is a convenience for the common case: one Windows/Unicode-BMP
// format-4 cmap sub-table plus a family name record.
func SimpleFont(family string, segs ...Segment) []byte {
	return New().
		CMapFormat4(3, 1, segs...).
		Names(NameRecord{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: 1, Value: family}).
		Bytes()
}

// --- Table assembly ----------------------------------------------------------

func cmapTable(subs []cmapSub) []byte {
	headerSize := 4 + 8*len(subs)
	table := make([]byte, headerSize)
	putU16(table, 2, uint16(len(subs)))
	for i, sub := range subs {
		rec := table[4+8*i:]
		putU16(rec, 0, sub.pid)
		putU16(rec, 2, sub.eid)
		putU32(rec, 4, uint32(len(table)))
		table = append(table, sub.data...)
	}
	return table
}

func cmapFormat4(segs []Segment) []byte {
	segCount := len(segs) + 1 // trailing 0xFFFF terminator segment
	var glyphIds []uint16
	end := make([]uint16, segCount)
	start := make([]uint16, segCount)
	delta := make([]uint16, segCount)
	rangeOff := make([]uint16, segCount)
	for i, s := range segs {
		end[i] = uint16(s.End)
		start[i] = uint16(s.Start)
		// All synthetic segments go through the glyph ID array, exercising the
		// idRangeOffset path. The offset is self-relative per the spec:
		// from idRangeOffset[i] to glyphIdArray[startIndex].
		rangeOff[i] = uint16(2 * (len(glyphIds) + segCount - i))
		for c := s.Start; c <= s.End; c++ {
			glyphIds = append(glyphIds, s.FirstGlyph+uint16(c-s.Start))
		}
	}
	end[segCount-1] = 0xffff
	start[segCount-1] = 0xffff
	delta[segCount-1] = 1 // maps 0xFFFF to glyph 0 (missing character)

	length := 16 + 8*segCount + 2*len(glyphIds)
	sub := make([]byte, length)
	putU16(sub, 0, 4) // format
	putU16(sub, 2, uint16(length))
	putU16(sub, 6, uint16(2*segCount))
	entrySelector := uint16(bits.Len(uint(segCount))) - 1
	searchRange := uint16(2) << entrySelector
	putU16(sub, 8, searchRange)
	putU16(sub, 10, entrySelector)
	putU16(sub, 12, uint16(2*segCount)-searchRange)
	pos := 14
	pos = putU16s(sub, pos, end)
	pos += 2 // reservedPad
	pos = putU16s(sub, pos, start)
	pos = putU16s(sub, pos, delta)
	pos = putU16s(sub, pos, rangeOff)
	putU16s(sub, pos, glyphIds)
	return sub
}

func cmapFormat6(first rune, glyphs []uint16) []byte {
	length := 10 + 2*len(glyphs)
	sub := make([]byte, length)
	putU16(sub, 0, 6) // format
	putU16(sub, 2, uint16(length))
	putU16(sub, 6, uint16(first))
	putU16(sub, 8, uint16(len(glyphs)))
	putU16s(sub, 10, glyphs)
	return sub
}

func cmapFormat12(groups []Group) []byte {
	length := 16 + 12*len(groups)
	sub := make([]byte, length)
	putU16(sub, 0, 12) // format
	putU32(sub, 4, uint32(length))
	putU32(sub, 12, uint32(len(groups)))
	for i, g := range groups {
		rec := sub[16+12*i:]
		putU32(rec, 0, uint32(g.Start))
		putU32(rec, 4, uint32(g.End))
		putU32(rec, 8, g.FirstGlyph)
	}
	return sub
}

func nameTable(recs []NameRecord) []byte {
	storageOffset := 6 + 12*len(recs)
	table := make([]byte, storageOffset)
	putU16(table, 2, uint16(len(recs)))
	putU16(table, 4, uint16(storageOffset))
	var storage []byte
	for i, r := range recs {
		value := utf16be(r.Value)
		rec := table[6+12*i:]
		putU16(rec, 0, r.PlatformID)
		putU16(rec, 2, r.EncodingID)
		putU16(rec, 4, r.LanguageID)
		putU16(rec, 6, r.NameID)
		putU16(rec, 8, uint16(len(value)))
		putU16(rec, 10, uint16(len(storage)))
		storage = append(storage, value...)
	}
	return append(table, storage...)
}

func utf16be(s string) []byte {
	codes := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(codes))
	for i, c := range codes {
		putU16(b[2*i:], 0, c)
	}
	return b
}

func putU16(b []byte, i int, v uint16) {
	b[i] = byte(v >> 8)
	b[i+1] = byte(v)
}

func putU32(b []byte, i int, v uint32) {
	b[i] = byte(v >> 24)
	b[i+1] = byte(v >> 16)
	b[i+2] = byte(v >> 8)
	b[i+3] = byte(v)
}

func putU16s(b []byte, pos int, vals []uint16) int {
	for _, v := range vals {
		putU16(b, pos, v)
		pos += 2
	}
	return pos
}
