/*
Package otquery provides high-level queries against parsed OpenType fonts:
character-coverage tests and name-table extraction.

It is a thin interpretation layer on top of package `ot`, which exposes the
font's tables. All queries are best-effort and total: a font with missing or
undecodable tables yields a negative or default answer, never an error. This
keeps per-font failures out of the caller's control flow, which matters for
tools that sweep over hundreds of fonts of varying quality.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'char2fonts.query'
func tracer() tracing.Trace {
	return tracing.Select("char2fonts.query")
}
