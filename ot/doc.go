/*
Package ot provides read access to OpenType font containers, to the extent
needed for answering character-coverage queries.

Intended audience for this package are:

▪︎ tools that need to know whether a font file maps a given Unicode code-point
to a glyph

▪︎ tools extracting human-readable metadata (family name, full name) from
a font's 'name' table

Package `ot` will not interpret every table of a font. It parses the top-level
table directory and exposes each contained table to the client, but only the
'cmap' table receives a concrete decoded representation, since consulting the
character-to-glyph mapping is the central activity of a coverage index.
All other tables are available as raw byte segments via the generic Table
interface; clients have to impose structure on them themselves. From this
point of view, `ot` is a low-level package. Higher-level query functions are
homed in the sister package `otquery`.

Unlike a parser backing a text shaper, this package treats almost nothing as
mandatory: a font without a 'cmap' table parses fine and simply maps no
code-point, and a font without a 'name' table parses fine and simply has no
name records. Only structural damage of the container itself (bad magic
bytes, truncated or unordered table directory, out-of-bounds table extents)
is reported as an error.

# Status

No font collections (*.ttc) nor variable fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'char2fonts.ot'
func tracer() tracing.Trace {
	return tracing.Select("char2fonts.ot")
}
