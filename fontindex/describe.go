package fontindex

import (
	"fmt"

	"golang.org/x/text/unicode/runenames"
)

// CharDescription returns a human-readable description of a character,
// e.g. `A (U+0041 LATIN CAPITAL LETTER A)`. Characters without a Unicode
// name fall back to the bare code-point form `… (U+XXXX)`.
func CharDescription(r rune) string {
	if name := runenames.Name(r); name != "" {
		return fmt.Sprintf("%c (U+%04X %s)", r, r, name)
	}
	return fmt.Sprintf("%c (U+%04X)", r, r)
}
