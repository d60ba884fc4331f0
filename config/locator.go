package config

import (
	"os"
	"path/filepath"
)

// Locator finds data files. Each name is looked up under BaseDir joined with
// each of SearchDirs in order; the first existing candidate wins. When none
// exists the first candidate is used, so new files land in the primary
// directory.
type Locator struct {
	BaseDir    string
	SearchDirs []string
}

// Candidates lists the paths tried for name, in priority order.
func (l Locator) Candidates(name string) []string {
	base := l.BaseDir
	if base == "" {
		base = "."
	}
	dirs := l.SearchDirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, filepath.Join(base, d, name))
	}
	return out
}

// Resolve returns the path to use for name.
func (l Locator) Resolve(name string) string {
	cands := l.Candidates(name)
	for _, c := range cands {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return cands[0]
}

// Dirs returns the distinct candidate directories, in priority order.
func (l Locator) Dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range l.Candidates("") {
		d := filepath.Clean(c)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
