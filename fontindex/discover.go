package fontindex

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/flopp/go-findfont"
)

// DiscoverFonts walks a directory tree and collects candidate font files,
// i.e. files with a .ttf or .otf extension. An empty root selects the
// platform's conventional system font directory.
//
// The extension filter is a discovery heuristic only — correctness does not
// depend on it. A non-font file smuggled in by path fails cleanly at load
// time with a per-file error.
//
// Unreadable subdirectories are skipped with a debug trace; only a defect of
// the root itself is reported as an error. The walk visits entries in
// lexical order, so repeated runs discover fonts in the same order.
func DiscoverFonts(root string) ([]string, error) {
	if root == "" {
		root = DefaultFontDir()
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			tracer().Debugf("skipping %q during font discovery: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tracer().Infof("discovered %d candidate font files under %s", len(paths), root)
	return paths, nil
}

// DefaultFontDir returns the platform-conventional system font directory.
func DefaultFontDir() string {
	switch runtime.GOOS {
	case "darwin":
		return "/System/Library/Fonts"
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return filepath.Join(windir, "Fonts")
	}
	return "/usr/share/fonts"
}

// LocateFont resolves a font name or file name to a path, searching the
// current directory and the platform's user and system font directories.
// Matching is fuzzy: "arial" resolves to Arial.ttf where installed.
func LocateFont(name string) (string, error) {
	path, err := findfont.Find(name)
	if err != nil {
		tracer().Debugf("font %q not found on system: %v", name, err)
		return "", err
	}
	return path, nil
}
