// Package bpflint is a linter for BPF C code.
//
// It flags discouraged or risky patterns in programs written for the
// kernel's BPF virtual machine and reports them as compiler-style
// warnings.
//
// # Basic Usage
//
// Lint code with the built-in lints and print a report:
//
//	matches, err := bpflint.Lint(code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range matches {
//	    if err := bpflint.ReportTerminal(os.Stdout, m, code, "prog.bpf.c"); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Custom Linters
//
// A Linter can be restricted to a subset of lints:
//
//	linter, err := bpflint.New(bpflint.WithFilter(lint.FilterConfig{
//	    Exclude: []string{"perf-buff-map"},
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer linter.Close()
//
//	matches, err := linter.LintContext(ctx, code)
//
// A suppression comment directly preceding a statement, or any syntactic
// ancestor of the match, disables a lint for it:
//
//	/* bpflint: disable=probe-read */
//	bpf_probe_read(dst, sizeof(*dst), src);
package bpflint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/praetorian-inc/bpflint/pkg/lint"
	"github.com/praetorian-inc/bpflint/pkg/matcher"
	"github.com/praetorian-inc/bpflint/pkg/report"
	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/syntax/treesitter"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/bpflint" without subpackages.
type (
	// LintMatch is a single lint hit.
	LintMatch = types.Match

	// LintMeta describes a lint.
	LintMeta = types.Meta

	// Point is a zero-based row/column position.
	Point = types.Point

	// Range is a span of source code.
	Range = types.Range
)

// Linter lints BPF C code against a compiled lint catalog.
//
// A Linter is safe for concurrent use.
type Linter struct {
	matcher *matcher.Matcher
	mu      sync.RWMutex
}

// linterConfig holds linter configuration.
type linterConfig struct {
	catalog          *lint.Catalog
	engine           syntax.Engine
	logger           *slog.Logger
	filter           lint.FilterConfig
	disablePrefilter bool
}

// Option configures a Linter.
type Option func(*linterConfig)

// WithCatalog uses a custom lint catalog instead of the built-in lints.
func WithCatalog(c *lint.Catalog) Option {
	return func(cfg *linterConfig) {
		cfg.catalog = c
	}
}

// WithEngine uses a custom parsing engine. The default is tree-sitter with
// the C grammar.
func WithEngine(e syntax.Engine) Option {
	return func(cfg *linterConfig) {
		cfg.engine = e
	}
}

// WithLogger sets the logger that receives warnings.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *linterConfig) {
		cfg.logger = l
	}
}

// WithFilter restricts the catalog to lints selected by f.
func WithFilter(f lint.FilterConfig) Option {
	return func(cfg *linterConfig) {
		cfg.filter = f
	}
}

// WithoutPrefilter runs every lint on every input, even if none of its
// keywords occur.
func WithoutPrefilter() Option {
	return func(cfg *linterConfig) {
		cfg.disablePrefilter = true
	}
}

// New creates a Linter.
//
// By default, the linter:
//   - Uses all built-in lints
//   - Parses with tree-sitter
//   - Skips lints whose keywords do not occur in the input
func New(opts ...Option) (*Linter, error) {
	cfg := &linterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.catalog == nil {
		c, err := lint.Builtin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin lints: %w", err)
		}
		cfg.catalog = c
	}
	if !cfg.filter.Empty() {
		c, err := cfg.catalog.Filter(cfg.filter)
		if err != nil {
			return nil, fmt.Errorf("filtering lints: %w", err)
		}
		cfg.catalog = c
	}
	if cfg.engine == nil {
		cfg.engine = treesitter.New()
	}

	m, err := matcher.New(matcher.Config{
		Engine:           cfg.engine,
		Catalog:          cfg.catalog,
		Logger:           cfg.logger,
		DisablePrefilter: cfg.disablePrefilter,
	})
	if err != nil {
		return nil, err
	}
	return &Linter{matcher: m}, nil
}

// Lint lints code and returns the matches ordered by position.
func (l *Linter) Lint(code []byte) ([]LintMatch, error) {
	return l.LintContext(context.Background(), code)
}

// LintContext is Lint with a context that can cancel parsing.
func (l *Linter) LintContext(ctx context.Context, code []byte) ([]LintMatch, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.matcher == nil {
		return nil, errors.New("linter is closed")
	}
	return l.matcher.Match(ctx, code)
}

// Lints returns the lints the linter runs, in catalog order.
func (l *Linter) Lints() []LintMeta {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.matcher == nil {
		return nil
	}
	return l.matcher.Lints()
}

// Close releases linter resources.
func (l *Linter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.matcher == nil {
		return nil
	}
	err := l.matcher.Close()
	l.matcher = nil
	return err
}

var (
	defaultOnce   sync.Once
	defaultLinter *Linter
	defaultErr    error
)

func builtinLinter() (*Linter, error) {
	defaultOnce.Do(func() {
		defaultLinter, defaultErr = New()
	})
	return defaultLinter, defaultErr
}

// Lint lints code with the built-in lints. The catalog is compiled on
// first use and shared by all later calls.
func Lint(code []byte) ([]LintMatch, error) {
	l, err := builtinLinter()
	if err != nil {
		return nil, err
	}
	return l.Lint(code)
}

// BuiltinLints describes the built-in lints, sorted by name.
func BuiltinLints() ([]LintMeta, error) {
	l, err := builtinLinter()
	if err != nil {
		return nil, err
	}
	return l.Lints(), nil
}

// ReportTerminal writes a compiler-style diagnostic for m to w. code must be
// the source m was found in; path labels it.
func ReportTerminal(w io.Writer, m LintMatch, code []byte, path string) error {
	return report.Terminal(w, m, code, path)
}

// LintReport lints code representing the file at path and renders all
// matches, end to end.
func LintReport(code []byte, path string) (string, error) {
	matches, err := Lint(code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, m := range matches {
		if err := ReportTerminal(&buf, m, code, path); err != nil {
			return "", err
		}
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", errors.New("generated report contains invalid UTF-8")
	}
	return buf.String(), nil
}
