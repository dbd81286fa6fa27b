package main

import (
	"github.com/spf13/cobra"
)

var (
	verbosity   int
	configPath  string
	printLints  bool
	format      string
	colorMode   string
	lintInclude string
	lintExclude string
	jobs        int
	noPrefilter bool
)

var rootCmd = &cobra.Command{
	Use:   "bpflint [flags] [@]SRCS...",
	Short: "bpflint - a linter for BPF C code",
	Long: `bpflint flags discouraged or risky patterns in BPF C programs and reports
them as compiler-style warnings.

Sources may be files or directories. Directories are searched for *.bpf.c,
*.c and *.h files, honouring .gitignore. Use '@file' to read a list of
sources, one per line, from 'file'.

A lint is disabled for a statement (or any enclosing construct) by a
comment directly preceding it:

    /* bpflint: disable=probe-read */`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLint,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (can be supplied multiple times)")

	rootCmd.Flags().BoolVar(&printLints, "print-lints", false, "Print a list of available lints")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a .bpflint.yaml or .bpflint.toml file (default: discovered in the working directory)")
	rootCmd.Flags().StringVar(&format, "format", "", "Output format: terminal, json, sarif (default terminal)")
	rootCmd.Flags().StringVar(&colorMode, "color", "", "Colorize terminal output: auto, always, never (default auto)")
	rootCmd.Flags().StringVar(&lintInclude, "lints-include", "", "Include lints matching regex pattern (comma-separated)")
	rootCmd.Flags().StringVar(&lintExclude, "lints-exclude", "", "Exclude lints matching regex pattern (comma-separated)")
	rootCmd.Flags().IntVar(&jobs, "jobs", 0, "Number of files linted in parallel (default: number of CPUs)")
	rootCmd.Flags().BoolVar(&noPrefilter, "no-prefilter", false, "Run every lint on every file, even if none of its keywords occur")

	// Add subcommands
	rootCmd.AddCommand(lintsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
