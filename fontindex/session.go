package fontindex

import (
	"os"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/ContentFan/char2fonts/ot"
	"github.com/ContentFan/char2fonts/otquery"
)

// DefaultCacheSize is the default capacity of a session's load cache.
// Querying multiple characters against a font tree re-reads only the cache,
// so the capacity should comfortably exceed the number of fonts of a typical
// system font directory.
const DefaultCacheSize = 512

// Session owns the memoizing font-load cache for one sequence of coverage
// queries. Construct with NewSession; the zero value is not usable.
//
// All methods are safe for concurrent use. Cached entries are never mutated
// after insertion, only possibly evicted (least-recently-used first).
type Session struct {
	cache *lru.Cache[string, *entry]
	group singleflight.Group
	jobs  int
}

// entry is one memoized load result. Exactly one of font/err is set:
// a failed parse produces no font, a successful parse no error.
type entry struct {
	font *ot.Font
	err  error
}

// Option configures a Session.
type Option func(*config)

type config struct {
	cacheSize int
	jobs      int
}

// CacheSize sets the load cache capacity. Values below 1 are raised to 1.
func CacheSize(n int) Option {
	return func(cfg *config) {
		if n < 1 {
			n = 1
		}
		cfg.cacheSize = n
	}
}

// Jobs bounds the number of concurrent per-file load-and-test workers.
// Values below 1 are raised to 1. The default is the number of usable cores.
func Jobs(n int) Option {
	return func(cfg *config) {
		if n < 1 {
			n = 1
		}
		cfg.jobs = n
	}
}

// NewSession creates an isolated query session with its own load cache.
func NewSession(opts ...Option) *Session {
	cfg := config{
		cacheSize: DefaultCacheSize,
		jobs:      runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, _ := lru.New[string, *entry](cfg.cacheSize) // cacheSize is always positive
	return &Session{
		cache: cache,
		jobs:  cfg.jobs,
	}
}

// Load returns the parsed font for a file path, reading and parsing the file
// at most once per session. Load failures (unreadable file, not a font,
// corrupt container) are memoized exactly like successes: a second call for
// the same path returns the cached failure without touching the disk again.
//
// Concurrent calls for the same uncached path perform a single load; the
// losers wait for the winner's result. The caller must not treat a returned
// error as fatal — it is a per-file, independently recoverable condition.
func (s *Session) Load(path string) (*ot.Font, error) {
	if e, ok := s.cache.Get(path); ok {
		return e.font, e.err
	}
	v, _, _ := s.group.Do(path, func() (any, error) {
		if e, ok := s.cache.Get(path); ok { // lost a race against a finishing load
			return e, nil
		}
		e := loadFontFile(path)
		s.cache.Add(path, e)
		return e, nil
	})
	e := v.(*entry)
	return e.font, e.err
}

func loadFontFile(path string) *entry {
	data, err := os.ReadFile(path)
	if err != nil {
		tracer().Debugf("cannot read font file %q: %v", path, err)
		return &entry{err: err}
	}
	otf, err := ot.Parse(data)
	if err != nil {
		tracer().Debugf("cannot parse font file %q: %v", path, err)
		return &entry{err: err}
	}
	return &entry{font: otf}
}

// Match is one font covering a queried character.
type Match struct {
	Name string // display name from the font's name table, or a placeholder
	Path string // file path the font was loaded from
}

// FindFonts returns the fonts among paths that map the code-point r to a
// glyph. Results follow the order of paths; each path contributes at most
// one match. Files that cannot be loaded or parsed are skipped silently —
// no single font's failure aborts the query.
//
// The per-file load-and-test step fans out over a bounded worker pool; the
// session cache guarantees at most one disk read per distinct path even
// when queries overlap.
func (s *Session) FindFonts(r rune, paths []string) []Match {
	found := make([]*Match, len(paths))
	sem := make(chan struct{}, s.jobs)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			otf, err := s.Load(path)
			if err != nil || otf == nil {
				return
			}
			if otquery.Supports(otf, r) {
				found[i] = &Match{
					Name: otquery.DisplayName(otf),
					Path: path,
				}
			}
		}()
	}
	wg.Wait()
	matches := make([]Match, 0, len(found))
	for _, m := range found {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	return matches
}

// CacheLen returns the number of memoized load results currently held.
func (s *Session) CacheLen() int {
	return s.cache.Len()
}
