package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/bpflint"
)

var lintsFormat string

var lintsCmd = &cobra.Command{
	Use:   "lints",
	Short: "List available lints",
	Long:  "Display all built-in lints with the message they report",
	Args:  cobra.NoArgs,
	RunE:  runLints,
}

func init() {
	lintsCmd.Flags().StringVar(&lintsFormat, "format", "table", "Output format: table, json")
}

func runLints(cmd *cobra.Command, args []string) error {
	lints, err := bpflint.BuiltinLints()
	if err != nil {
		return fmt.Errorf("loading builtin lints: %w", err)
	}

	switch lintsFormat {
	case "json":
		return outputLintsJSON(cmd, lints)
	case "table":
		return outputLintsTable(cmd, lints)
	default:
		return fmt.Errorf("unknown output format: %s", lintsFormat)
	}
}

// printLintNames writes one lint name per line.
func printLintNames(cmd *cobra.Command) error {
	lints, err := bpflint.BuiltinLints()
	if err != nil {
		return fmt.Errorf("loading builtin lints: %w", err)
	}
	for _, l := range lints {
		fmt.Fprintln(cmd.OutOrStdout(), l.Name)
	}
	return nil
}

func outputLintsJSON(cmd *cobra.Command, lints []bpflint.LintMeta) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(lints)
}

func outputLintsTable(cmd *cobra.Command, lints []bpflint.LintMeta) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Name\tMessage\n")
	fmt.Fprintf(w, "----\t-------\n")

	for _, l := range lints {
		fmt.Fprintf(w, "%s\t%s\n", l.Name, l.Message)
	}

	return nil
}
