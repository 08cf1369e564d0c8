/*
Package fontindex answers the question "which fonts cover this character?"
for a set of font files on disk.

The package is organized around a Session: a per-invocation object owning a
bounded, memoizing load cache keyed by file path. Loading a font reads and
parses the file exactly once per session — including failed attempts, which
are cached as first-class results so a corrupt file is never re-read. The
cache is safe for concurrent use, and simultaneous requests for the same
uncached path are collapsed into a single disk read.

Scoping the cache to a Session rather than package-global state keeps
queries isolated: tests (and embedding applications) construct independent
sessions with independent caches and capacities.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontindex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'char2fonts.index'
func tracer() tracing.Trace {
	return tracing.Select("char2fonts.index")
}
