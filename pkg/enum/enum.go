// Package enum expands command-line sources into the files to lint.
package enum

import (
	"context"
	"os"
	"strings"
)

// DefaultExtensions are the file suffixes picked up when walking a
// directory.
var DefaultExtensions = []string{".bpf.c", ".c", ".h"}

// Config for enumeration.
type Config struct {
	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to pick up from a directory
	// (0 = no limit).
	MaxFileSize int64

	// Extensions restricts directory walks to files with one of these
	// suffixes. Empty means DefaultExtensions.
	Extensions []string

	// Ignore holds gitignore-style patterns applied during directory walks
	// in addition to the directory's .gitignore.
	Ignore []string
}

func (c Config) extensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}

// Expand resolves sources into file paths, in order and without
// duplicates.
//
//   - "@list" reads one source per non-empty line of the file list.
//   - A directory is walked for source files (see Config).
//   - Anything else is taken as a file path. Paths that do not exist are
//     kept so that reading them reports the error for that file.
func Expand(ctx context.Context, sources []string, config Config) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	walker := NewFilesystemEnumerator(config)
	for _, src := range sources {
		targets := []string{src}
		if list, ok := strings.CutPrefix(src, "@"); ok {
			var err error
			if targets, err = ReadFileList(list); err != nil {
				return nil, err
			}
		}

		for _, target := range targets {
			info, err := os.Stat(target)
			if err != nil || !info.IsDir() {
				add(target)
				continue
			}
			files, err := walker.Enumerate(ctx, target)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		}
	}
	return paths, nil
}
