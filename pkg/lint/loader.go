package lint

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// queryExt is the file extension of lint queries.
const queryExt = ".scm"

// keywordsHeader introduces the keyword list in a query's leading comments.
const keywordsHeader = "keywords:"

// Loader handles loading lint definitions from query files.
type Loader struct {
	fs  fs.FS  // filesystem holding the queries
	dir string // directory inside fs
}

// NewLoader creates a loader for the built-in lints.
func NewLoader() *Loader {
	return &Loader{
		fs:  builtinLintsFS,
		dir: builtinDir,
	}
}

// NewLoaderWithFS creates a loader reading *.scm files from dir in fsys.
func NewLoaderWithFS(fsys fs.FS, dir string) *Loader {
	return &Loader{
		fs:  fsys,
		dir: dir,
	}
}

// LoadDefinition builds a definition from a lint name and query source.
func (l *Loader) LoadDefinition(name string, data []byte) (types.Definition, error) {
	if !utf8.Valid(data) {
		return types.Definition{}, fmt.Errorf("lint %s: query is not valid UTF-8", name)
	}
	d := types.Definition{
		Name:     name,
		Source:   string(data),
		Keywords: ParseKeywords(string(data)),
	}
	if err := ValidateDefinition(d); err != nil {
		return types.Definition{}, err
	}
	return d, nil
}

// LoadDefinitions loads every query file of the loader's directory in
// lexical file-name order.
func (l *Loader) LoadDefinitions() ([]types.Definition, error) {
	entries, err := fs.ReadDir(l.fs, l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lint directory %s: %w", l.dir, err)
	}

	var defs []types.Definition
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != queryExt {
			continue
		}

		p := path.Join(l.dir, entry.Name())
		data, err := fs.ReadFile(l.fs, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read lint %s: %w", p, err)
		}

		d, err := l.LoadDefinition(strings.TrimSuffix(entry.Name(), queryExt), data)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Load loads all definitions into a catalog.
func (l *Loader) Load() (*Catalog, error) {
	defs, err := l.LoadDefinitions()
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs...)
}

// ParseKeywords extracts prefilter keywords from the leading comment block
// of a query, e.g.
//
//	; keywords: bpf_probe_read, bpf_probe_read_str
//
// Scanning stops at the first line that is neither blank nor a comment.
func ParseKeywords(source string) []string {
	var keywords []string
	scanner := bufio.NewScanner(strings.NewReader(source))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		comment, ok := strings.CutPrefix(line, ";")
		if !ok {
			break
		}
		list, ok := strings.CutPrefix(strings.TrimLeft(comment, "; \t"), keywordsHeader)
		if !ok {
			continue
		}
		for _, kw := range strings.Split(list, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}
	return keywords
}
