package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/praetorian-inc/bpflint"
	"github.com/praetorian-inc/bpflint/pkg/config"
	"github.com/praetorian-inc/bpflint/pkg/enum"
	"github.com/praetorian-inc/bpflint/pkg/lint"
	"github.com/praetorian-inc/bpflint/pkg/matcher"
	"github.com/praetorian-inc/bpflint/pkg/report"
	"github.com/praetorian-inc/bpflint/pkg/sarif"
)

// fileResult is the outcome of linting one file.
type fileResult struct {
	path    string
	code    []byte
	matches []bpflint.LintMatch
	err     error
}

func runLint(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), verbosity)
	if err != nil {
		return err
	}

	if printLints {
		if len(args) > 0 {
			return errors.New("--print-lints cannot be used together with sources")
		}
		return printLintNames(cmd)
	}
	if len(args) == 0 {
		return errors.New("no sources given; see --help")
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	linter, err := newLinter(cfg, logger)
	if err != nil {
		return err
	}
	defer linter.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	paths, err := enum.Expand(ctx, args, enum.Config{Ignore: cfg.Ignore})
	if err != nil {
		return fmt.Errorf("expanding sources: %w", err)
	}
	logger.Info("linting files", slog.Int("files", len(paths)), slog.Int("jobs", cfg.Jobs))

	results, err := lintFiles(ctx, linter, paths, cfg.Jobs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "error: failed to lint %s: %v\n", r.path, r.err)
		}
	}

	if err := output(cmd.OutOrStdout(), cfg, linter, results, logger); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("failed to lint %d of %d files", failed, len(results))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// loadConfig reads the configuration file and applies command line
// overrides.
func loadConfig(logger *slog.Logger) (config.Config, error) {
	var cfg config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("loaded config", slog.String("path", configPath))
	} else {
		var path string
		cfg, path, err = config.Discover(".")
		if err != nil {
			return config.Config{}, fmt.Errorf("loading config: %w", err)
		}
		if path != "" {
			logger.Debug("discovered config", slog.String("path", path))
		}
	}

	if format != "" {
		cfg.Format = format
	}
	if colorMode != "" {
		cfg.Color = colorMode
	}
	if lintInclude != "" {
		cfg.Lints.Include = lint.ParsePatterns(lintInclude)
	}
	if lintExclude != "" {
		cfg.Lints.Exclude = lint.ParsePatterns(lintExclude)
	}
	if jobs != 0 {
		cfg.Jobs = jobs
	}
	if noPrefilter {
		disabled := false
		cfg.Prefilter = &disabled
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLinter(cfg config.Config, logger *slog.Logger) (*bpflint.Linter, error) {
	opts := []bpflint.Option{
		bpflint.WithLogger(logger),
		bpflint.WithFilter(lint.FilterConfig{
			Include: cfg.Lints.Include,
			Exclude: cfg.Lints.Exclude,
		}),
	}
	if !cfg.PrefilterEnabled() {
		opts = append(opts, bpflint.WithoutPrefilter())
	}

	linter, err := bpflint.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating linter: %w", err)
	}
	return linter, nil
}

// lintFiles lints paths with up to jobs files in flight. Results are in
// input order. Per-file failures are recorded in the result; a broken lint
// definition aborts the whole run.
func lintFiles(ctx context.Context, linter *bpflint.Linter, paths []string, jobs int) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			r := fileResult{path: path}
			r.code, r.err = os.ReadFile(path)
			if r.err == nil {
				r.matches, r.err = linter.LintContext(ctx, r.code)
			}

			var cfgErr *matcher.ConfigError
			if errors.As(r.err, &cfgErr) {
				return cfgErr
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func output(w io.Writer, cfg config.Config, linter *bpflint.Linter, results []fileResult, logger *slog.Logger) error {
	switch cfg.Format {
	case config.FormatJSON:
		var records []report.Record
		for _, r := range results {
			records = append(records, report.Records(r.path, r.matches)...)
		}
		return report.WriteJSON(w, records)

	case config.FormatSARIF:
		sr := sarif.NewReport(version)
		for _, meta := range linter.Lints() {
			sr.AddRule(meta)
		}
		for _, r := range results {
			for _, m := range r.matches {
				sr.AddResult(m, r.path, r.code)
			}
		}
		data, err := sr.ToJSON()
		if err != nil {
			return fmt.Errorf("serializing SARIF: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing SARIF output: %w", err)
		}
		return nil

	default:
		renderer := report.NewTerminalRenderer(useColor(cfg.Color, w), logger)
		for _, r := range results {
			var buf bytes.Buffer
			for _, m := range r.matches {
				if err := renderer.Render(&buf, m, r.code, r.path); err != nil {
					return err
				}
			}
			if _, err := w.Write(buf.Bytes()); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
		return nil
	}
}

// useColor resolves a color mode for output written to w. "auto" enables
// color only for terminals and only if NO_COLOR is not set.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}
