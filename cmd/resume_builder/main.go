// Package main provides the resume_builder command: the HTTP API server and
// offline export of résumé records.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resume_builder",
		Short:         "Résumé builder API server and exporter",
		Long:          "resume_builder stores résumé records per user and exports them as PDF, HTML, LaTeX, plain text or JSON documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newRenderCmd(), newValidateCmd(), newNewCmd())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
