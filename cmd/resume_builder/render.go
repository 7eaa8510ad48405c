package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// defaultFormats are exported when neither --format nor the config file names any.
var defaultFormats = []string{string(rendering.FormatPDF)}

type renderOptions struct {
	input      string
	page       string
	configPath string
	settings   config.Config
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export a résumé record file",
		Long: `Render a résumé record JSON file and write one export per format.

Files are named "{title}-ATS.{ext}" in the output directory. Several formats
are exported concurrently.`,
		Example: `  resume_builder render --in cv.json --format pdf,html --out-dir out/
  resume_builder render --in - --format txt --locale en < cv.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Path to the record JSON file, or - for stdin")
	cmd.Flags().StringVarP(&opts.settings.OutputDir, "out-dir", "o", "", "Output directory (default .)")
	cmd.Flags().StringSliceVarP(&opts.settings.Formats, "format", "f", nil, "Export formats: pdf, html, tex, txt, json (default pdf)")
	cmd.Flags().StringVarP(&opts.settings.Locale, "locale", "l", "", "Label language, e.g. fr or en (default RESUME_LOCALE, then fr)")
	cmd.Flags().StringVar(&opts.page, "page", "a4", "Page size: a4 or letter")
	cmd.Flags().StringVar(&opts.settings.ChromePath, "chrome", "", "Chrome/Chromium binary for PDF export (default CHROME_PATH)")
	cmd.Flags().StringVar(&opts.settings.PDFEngine, "pdf-engine", "", "PDF engine: chrome or latex (default PDF_ENGINE, then chrome)")
	cmd.Flags().StringVarP(&opts.settings.LaTeXTemplate, "template", "t", "", "Custom LaTeX template file")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "JSON config file")
	cmd.Flags().BoolVarP(&opts.settings.Verbose, "verbose", "v", false, "Print record and export summaries")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runRender(ctx context.Context, opts *renderOptions, stdin io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings(opts.settings, opts.configPath)
	if err != nil {
		return err
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = defaultFormats
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	formats, err := parseFormats(cfg.Formats)
	if err != nil {
		return err
	}
	page, err := rendering.ParsePageSize(opts.page)
	if err != nil {
		return err
	}
	engine, err := rendering.ParsePDFEngine(cfg.PDFEngine)
	if err != nil {
		return err
	}

	rec, err := readRecord(opts.input, stdin)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := rendering.Render(rec, rendering.Options{Locale: cfg.Locale, Page: page})

	var printer *observability.Printer
	if cfg.Verbose {
		printer = observability.NewPrinter(out)
		printer.PrintRecordSummary(rec)
		printer.PrintDocumentOutline(doc)
	}

	exportOpts := rendering.ExportOptions{
		PDF:           rendering.PDFOptions{ChromePath: cfg.ChromePath, Engine: engine, Verbose: cfg.Verbose},
		LaTeXTemplate: cfg.LaTeXTemplate,
	}

	results := make([]observability.ExportResult, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			results[i] = exportTo(gctx, doc, rec.Title, format, cfg.OutputDir, exportOpts)
			return results[i].Err
		})
	}
	exportErr := g.Wait()

	if printer != nil {
		printer.PrintExportResults(results)
	} else {
		for _, r := range results {
			if r.Err == nil {
				fmt.Fprintln(out, r.Path) //nolint:errcheck // writing to stdout
			}
		}
	}

	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}
	return nil
}

// exportTo encodes doc in one format and writes it under dir.
func exportTo(ctx context.Context, doc *rendering.Document, title string, format rendering.Format, dir string, opts rendering.ExportOptions) observability.ExportResult {
	result := observability.ExportResult{Format: format}
	start := time.Now()

	data, err := rendering.Export(ctx, doc, format, opts)
	if err != nil {
		result.Err = err
		return result
	}

	path := filepath.Join(dir, rendering.Filename(title, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		result.Err = fmt.Errorf("failed to write %s: %w", path, err)
		return result
	}

	result.Path = path
	result.Bytes = len(data)
	result.Duration = time.Since(start)
	if format == rendering.FormatPDF {
		if pages, err := rendering.CountPDFPages(data); err == nil {
			result.Pages = pages
		}
	}
	return result
}

// parseFormats resolves format names and drops duplicates, keeping order.
func parseFormats(names []string) ([]rendering.Format, error) {
	seen := make(map[rendering.Format]bool, len(names))
	formats := make([]rendering.Format, 0, len(names))
	for _, name := range names {
		f, err := rendering.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// readRecord loads a record file ("-" reads stdin), checks it against the
// résumé schema and reconciles it the way stored records are.
func readRecord(path string, stdin io.Reader) (*types.ResumeRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	if err := schemas.Validate(schemas.Resume, data); err != nil {
		return nil, err
	}

	var rec types.ResumeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record JSON: %w", err)
	}
	rec.Reconcile()
	return &rec, nil
}
