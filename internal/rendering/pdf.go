package rendering

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultPDFTimeout bounds a single headless Chrome export.
const DefaultPDFTimeout = 30 * time.Second

// PDFOptions configures the headless Chrome used to print PDFs.
type PDFOptions struct {
	// ChromePath overrides the Chrome/Chromium binary. Empty uses chromedp's lookup.
	ChromePath string
	// Engine defaults to EngineChrome.
	Engine  PDFEngine
	Timeout time.Duration
	Verbose bool
}

// RenderPDF prints the HTML rendering of doc to PDF with headless Chrome.
// Pages follow doc.Page and content flows onto further pages as needed.
func RenderPDF(ctx context.Context, doc *Document, opts PDFOptions) ([]byte, error) {
	html, err := RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	if opts.Verbose {
		log.Printf("[export] printing %q to PDF (%s)", doc.Title, doc.Page.Name)
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPaperWidth(doc.Page.WidthInches()).
				WithPaperHeight(doc.Page.HeightInches()).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: FormatPDF, Message: "headless chrome failed", Cause: err}
	}

	if opts.Verbose {
		log.Printf("[export] PDF ready: %d bytes", len(pdf))
	}
	return pdf, nil
}
