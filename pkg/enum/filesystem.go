package enum

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FilesystemEnumerator finds source files below a directory.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// Enumerate walks root in lexical order and returns the eligible files.
// Entries matched by root's .gitignore or the configured ignore patterns
// are skipped.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, root string) ([]string, error) {
	ignore, err := e.ignoreFor(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if !e.config.IncludeHidden && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			if ignore.MatchesPath(relPath) || ignore.MatchesPath(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !e.config.IncludeHidden && isHidden(d.Name()) {
			return nil
		}
		if !hasExtension(d.Name(), e.config.extensions()) {
			return nil
		}
		if ignore.MatchesPath(relPath) {
			return nil
		}
		if e.config.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > e.config.MaxFileSize {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ignoreFor combines root's .gitignore with the configured patterns.
func (e *FilesystemEnumerator) ignoreFor(root string) (*gitignore.GitIgnore, error) {
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		return gitignore.CompileIgnoreFileAndLines(gitignorePath, e.config.Ignore...)
	}
	return gitignore.CompileIgnoreLines(e.config.Ignore...), nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
