/*
Package char2fonts maps Unicode characters to the installed fonts that can
render them.

The heavy lifting is done by three sub-packages: `ot` parses OpenType font
containers, `otquery` answers coverage and naming queries against a parsed
font, and `fontindex` drives cached queries over whole font directories.
This root package offers convenience entry points for the most common
one-font use-cases.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package char2fonts

import (
	"golang.org/x/image/font/sfnt"

	"github.com/ContentFan/char2fonts/ot"
	"github.com/ContentFan/char2fonts/otquery"
)

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change after parsing for the font to be usable.
func FromBinary(data []byte) (*ot.Font, error) {
	return ot.Parse(data)
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot
// be decoded by the current name-table reader. For a display name with a
// guaranteed non-empty fallback, use otquery.DisplayName.
func FamilyName(f *ot.Font) (family, subfamily string) {
	for nameId, stringValue := range otquery.NamesRange(f) {
		switch nameId {
		case sfnt.NameIDFamily:
			family = stringValue
		case sfnt.NameIDSubfamily:
			subfamily = stringValue
		}
	}
	return
}

// Supports reports whether a parsed font maps the code-point r to a glyph.
// It is a re-export of otquery.Supports for one-font callers.
func Supports(f *ot.Font, r rune) bool {
	return otquery.Supports(f, r)
}
