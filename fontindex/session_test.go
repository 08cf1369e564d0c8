package fontindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"

	"github.com/ContentFan/char2fonts/internal/fontsynth"
)

// --- Test Suite Preparation ------------------------------------------------

type IndexTestEnviron struct {
	suite.Suite
	dir    string // directory tree with synthetic font files
	alpha  string // covers A–Z
	greek  string // covers Α–Ω
	omega  string // covers A–Z as well
	broken string // not a font at all
}

// listen for 'go test' command --> run test methods
func TestIndexFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "char2fonts.index")
	defer teardown()
	suite.Run(t, new(IndexTestEnviron))
}

// run once, before test suite methods
func (env *IndexTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("char2fonts.index").SetTraceLevel(tracing.LevelError)
	dir, err := os.MkdirTemp("", "char2fonts-index-*")
	env.Require().NoError(err)
	env.dir = dir
	env.alpha = env.writeFile("alpha.ttf",
		fontsynth.SimpleFont("Alpha Sans", fontsynth.Segment{Start: 'A', End: 'Z', FirstGlyph: 5}))
	env.greek = env.writeFile("greek.otf",
		fontsynth.SimpleFont("Greek Serif", fontsynth.Segment{Start: 0x391, End: 0x3A9, FirstGlyph: 50}))
	env.omega = env.writeFile("omega.ttf",
		fontsynth.SimpleFont("Omega Mono", fontsynth.Segment{Start: 'A', End: 'Z', FirstGlyph: 5}))
	env.broken = env.writeFile("broken.ttf", []byte("this is not a font"))
	env.writeFile("notes.txt", []byte("not even pretending to be one"))
}

func (env *IndexTestEnviron) TearDownSuite() {
	os.RemoveAll(env.dir)
}

func (env *IndexTestEnviron) writeFile(name string, data []byte) string {
	path := filepath.Join(env.dir, name)
	env.Require().NoError(os.WriteFile(path, data, 0644))
	return path
}

// --- Session cache tests ---------------------------------------------------

func (env *IndexTestEnviron) TestLoadIsMemoized() {
	session := NewSession()
	first, err := session.Load(env.alpha)
	env.Require().NoError(err, "expected synthetic font file to load")
	second, err := session.Load(env.alpha)
	env.Require().NoError(err)
	env.Same(first, second, "expected repeated loads to return the cached font")
	env.Equal(1, session.CacheLen(), "expected exactly one cache entry")
}

func (env *IndexTestEnviron) TestLoadFailureIsMemoized() {
	corrupt := filepath.Join(env.T().TempDir(), "corrupt.ttf")
	env.Require().NoError(os.WriteFile(corrupt, []byte("XXXX"), 0644))
	session := NewSession()
	_, err1 := session.Load(corrupt)
	env.Require().Error(err1, "expected corrupt font file to fail loading")
	// Removing the file proves that the second load never touches the disk.
	env.Require().NoError(os.Remove(corrupt))
	_, err2 := session.Load(corrupt)
	env.Equal(err1, err2, "expected the cached load failure, not a fresh read")
	env.Equal(1, session.CacheLen(), "expected the failure to occupy one cache entry")
}

func (env *IndexTestEnviron) TestCacheEviction() {
	session := NewSession(CacheSize(1))
	_, err := session.Load(env.alpha)
	env.Require().NoError(err)
	_, err = session.Load(env.greek)
	env.Require().NoError(err)
	env.Equal(1, session.CacheLen(), "expected the older entry to be evicted")
	otf, err := session.Load(env.alpha) // evicted, loads again
	env.Require().NoError(err)
	env.NotNil(otf)
}

// --- Query tests -----------------------------------------------------------

func (env *IndexTestEnviron) TestFindFonts() {
	session := NewSession()
	paths := []string{env.greek, env.omega, env.broken, env.alpha}
	matches := session.FindFonts('A', paths)
	env.Require().Len(matches, 2, "expected exactly the two Latin fonts to match")
	env.Equal("Omega Mono", matches[0].Name, "expected matches to follow path order")
	env.Equal(env.omega, matches[0].Path)
	env.Equal("Alpha Sans", matches[1].Name)
	env.Equal(env.alpha, matches[1].Path)
}

func (env *IndexTestEnviron) TestFindFontsNoMatch() {
	session := NewSession()
	matches := session.FindFonts('अ', []string{env.alpha, env.greek})
	env.Empty(matches, "expected no font to cover Devanagari")
}

func (env *IndexTestEnviron) TestFindFontsReusesCache() {
	session := NewSession(Jobs(2))
	paths := []string{env.alpha, env.greek, env.broken}
	env.Len(session.FindFonts('A', paths), 1)
	env.Equal(3, session.CacheLen(), "expected every path, including the broken one, to be memoized")
	matches := session.FindFonts('Ω', paths)
	env.Require().Len(matches, 1, "expected the Greek font to match on the warm cache")
	env.Equal("Greek Serif", matches[0].Name)
	env.Equal(3, session.CacheLen(), "expected the second query to add no cache entries")
}

// --- Discovery tests -------------------------------------------------------

func (env *IndexTestEnviron) TestDiscoverFonts() {
	paths, err := DiscoverFonts(env.dir)
	env.Require().NoError(err)
	env.Equal([]string{env.alpha, env.broken, env.greek, env.omega}, paths,
		"expected .ttf/.otf files in lexical order, other files skipped")
}

func (env *IndexTestEnviron) TestDiscoverFontsMissingRoot() {
	_, err := DiscoverFonts(filepath.Join(env.dir, "no-such-dir"))
	env.Error(err, "expected a defective root directory to be reported")
}

// --- Describing characters -------------------------------------------------

func (env *IndexTestEnviron) TestCharDescription() {
	env.Equal("A (U+0041 LATIN CAPITAL LETTER A)", CharDescription('A'))
}
