// Package matcher runs a lint catalog over BPF C source code.
//
// A Matcher compiles every lint of a catalog once and can then be used to
// lint any number of files concurrently. For each file it parses the code,
// runs the lints whose keywords occur in it, drops matches disabled by a
// suppression comment and returns the rest in source order.
package matcher

import (
	"context"
	"errors"
	"log/slog"

	"github.com/praetorian-inc/bpflint/pkg/lint"
	"github.com/praetorian-inc/bpflint/pkg/prefilter"
	"github.com/praetorian-inc/bpflint/pkg/suppress"
	"github.com/praetorian-inc/bpflint/pkg/syntax"
	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Config for matcher initialization.
type Config struct {
	// Engine parses code and runs lint queries.
	Engine syntax.Engine

	// Catalog holds the lints to compile.
	Catalog *lint.Catalog

	// Logger receives warnings; nil means slog.Default().
	Logger *slog.Logger

	// DisablePrefilter runs every lint on every file regardless of
	// keywords.
	DisablePrefilter bool
}

// Matcher lints source code against a compiled catalog.
type Matcher struct {
	engine    syntax.Engine
	lints     []*compiledLint
	prefilter *prefilter.Prefilter // nil when disabled
	logger    *slog.Logger
}

// New compiles the catalog. Any lint that fails to compile or lacks a
// message yields a *ConfigError.
func New(cfg Config) (*Matcher, error) {
	if cfg.Engine == nil {
		return nil, errors.New("matcher: no engine configured")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("matcher: no catalog configured")
	}

	m := &Matcher{
		engine: cfg.Engine,
		logger: cfg.Logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	defs := cfg.Catalog.Definitions()
	for _, d := range defs {
		l, err := compile(cfg.Engine, d)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		m.lints = append(m.lints, l)
	}

	if !cfg.DisablePrefilter {
		m.prefilter = prefilter.New(defs)
	}

	m.logger.Debug("compiled lint catalog", slog.Int("lints", len(m.lints)))
	return m, nil
}

// Match lints code and returns the unsuppressed matches ordered by
// position.
func (m *Matcher) Match(ctx context.Context, code []byte) ([]types.Match, error) {
	tree, err := m.engine.Parse(ctx, code)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	resolver := suppress.NewResolver(code, m.logger)

	var matches []types.Match
	for _, i := range m.selection(code) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		l := m.lints[i]
		candidates, err := execute(m.engine, l, tree, code, m.logger)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if resolver.Suppressed(c.anchor, l.def.Name) {
				continue
			}
			matches = append(matches, c.match)
		}
	}

	Sort(matches)
	return matches, nil
}

// selection returns the indices of the lints to run on code.
func (m *Matcher) selection(code []byte) []int {
	if m.prefilter != nil {
		selected := m.prefilter.Select(code)
		m.logger.Debug("prefilter selected lints",
			slog.Int("selected", len(selected)),
			slog.Int("total", len(m.lints)),
		)
		return selected
	}
	all := make([]int, len(m.lints))
	for i := range all {
		all[i] = i
	}
	return all
}

// Lints describes the compiled lints in catalog order.
func (m *Matcher) Lints() []types.Meta {
	metas := make([]types.Meta, len(m.lints))
	for i, l := range m.lints {
		metas[i] = types.Meta{Name: l.def.Name, Message: l.message}
	}
	return metas
}

// Close releases the compiled queries. The matcher must not be used
// afterwards.
func (m *Matcher) Close() error {
	for _, l := range m.lints {
		l.pattern.Close()
	}
	m.lints = nil
	return nil
}
