package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/ContentFan/char2fonts/fontindex"
)

// tracer traces with key 'char2fonts.index'
func tracer() tracing.Trace {
	return tracing.Select("char2fonts.index")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.char2fonts.ot":    "Error",
		"trace.char2fonts.query": "Error",
		"trace.char2fonts.index": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontdir := flag.String("dir", "", "Font directory to scan (default: system font directory)")
	fontname := flag.String("font", "", "Restrict the query to a single font, located by name")
	jobs := flag.Int("jobs", 0, "Concurrent font loads (default: number of cores)")
	interactive := flag.Bool("i", false, "Interactive mode: query one character per line")
	flag.Parse()
	switch *tlevel {
	case "Debug":
		setTraceLevels(tracing.LevelDebug)
	case "Info":
		setTraceLevels(tracing.LevelInfo)
	case "Error":
		setTraceLevels(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}

	// Missing query characters are the only fatal user error, and they are
	// detected before any font file is touched.
	if flag.NArg() == 0 && !*interactive {
		usage()
		os.Exit(1)
	}

	paths, err := collectFontPaths(*fontname, *fontdir)
	if err != nil {
		pterm.Error.Printf("cannot discover fonts: %v\n", err)
		os.Exit(2)
	}
	pterm.Info.Printf("Found %d candidate font files\n", len(paths))

	var opts []fontindex.Option
	if *jobs > 0 {
		opts = append(opts, fontindex.Jobs(*jobs))
	}
	session := fontindex.NewSession(opts...)

	for _, arg := range flag.Args() {
		queryChar(session, firstRune(arg), paths)
	}
	if *interactive {
		repl(session, paths)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: char2fonts [options] CHAR [CHAR ...]")
	fmt.Fprintln(os.Stderr, "Find which fonts contain specific Unicode characters.")
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevels(l tracing.TraceLevel) {
	tracing.Select("char2fonts.ot").SetTraceLevel(l)
	tracing.Select("char2fonts.query").SetTraceLevel(l)
	tracing.Select("char2fonts.index").SetTraceLevel(l)
}

// collectFontPaths determines the set of candidate font files for this run:
// a single named font when -font is given, a directory walk otherwise.
func collectFontPaths(fontname, fontdir string) ([]string, error) {
	if fontname != "" {
		path, err := fontindex.LocateFont(fontname)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return fontindex.DiscoverFonts(fontdir)
}

func queryChar(session *fontindex.Session, r rune, paths []string) {
	pterm.Println()
	pterm.Info.Println("Searching for: " + fontindex.CharDescription(r))
	matches := session.FindFonts(r, paths)
	if len(matches) == 0 {
		pterm.Println("  No fonts found containing this character.")
		return
	}
	for _, m := range matches {
		pterm.Printf("  %s → %s\n", m.Name, m.Path)
	}
}

// repl reads one character per line and reports its coverage. Repeated
// queries run against the session's warm cache, so only the first query
// touches the disk.
func repl(session *fontindex.Session, paths []string) {
	rl, err := readline.New("char > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	pterm.Info.Println("Quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		queryChar(session, firstRune(line), paths)
	}
	pterm.Info.Println("Good bye!")
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
