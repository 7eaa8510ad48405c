package main

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		input   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a résumé record file",
		Long:  "Validate a résumé record JSON file against the record schema and the field rules applied on write.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := readRecord(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("invalid record: %w", err)
			}

			if verbose {
				observability.NewPrinter(cmd.OutOrStdout()).PrintRecordSummary(rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", rec.DisplayTitle()) //nolint:errcheck // writing to stdout
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "in", "i", "", "Path to the record JSON file, or - for stdin")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a record summary")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
