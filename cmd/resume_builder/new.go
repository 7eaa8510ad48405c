package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/spf13/cobra"
)

// storedFields are assigned by the store and left out of a blank record.
var storedFields = []string{"id", "userId", "createdAt", "updatedAt"}

func newNewCmd() *cobra.Command {
	var (
		title  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Print a blank résumé record",
		Long:  "Print the record the editor starts from: empty fields, one blank experience and one blank education entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := blankRecordJSON(title)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Record title")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}

func blankRecordJSON(title string) ([]byte, error) {
	rec := types.NewRecord()
	rec.Title = title

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	for _, name := range storedFields {
		delete(fields, name)
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return append(data, '\n'), nil
}
