package rendering

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

// Supported export formats. The value is also the file extension.
const (
	FormatHTML  Format = "html"
	FormatPDF   Format = "pdf"
	FormatLaTeX Format = "tex"
	FormatText  Format = "txt"
	FormatJSON  Format = "json"
)

// Formats lists every export format.
var Formats = []Format{FormatPDF, FormatHTML, FormatLaTeX, FormatText, FormatJSON}

// ParseFormat accepts a format name or a common alias ("latex", "text").
// An empty string selects PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	case "tex", "latex":
		return FormatLaTeX, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatLaTeX:
		return "application/x-tex; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// FallbackTitle names exports of untitled résumés.
const FallbackTitle = "CV"

var filenameReplacer = strings.NewReplacer("/", "-", `\`, "-")

// Filename returns "{title}-ATS.{ext}", using FallbackTitle for a blank title.
// Path separators in the title are replaced so the name stays a single path element.
func Filename(title string, f Format) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = FallbackTitle
	}
	return filenameReplacer.Replace(title) + "-ATS." + f.Extension()
}

// ExportOptions configures Export.
type ExportOptions struct {
	PDF PDFOptions
	// LaTeXTemplate overrides the built-in LaTeX template.
	LaTeXTemplate string
}

// Export encodes doc in the requested format.
func Export(ctx context.Context, doc *Document, format Format, opts ExportOptions) ([]byte, error) {
	switch format {
	case FormatHTML:
		return RenderHTML(doc)
	case FormatPDF:
		if opts.PDF.Engine == EngineLaTeX {
			tex, err := RenderLaTeX(doc, opts.LaTeXTemplate)
			if err != nil {
				return nil, err
			}
			return CompileLaTeX(ctx, tex, opts.PDF.Timeout)
		}
		return RenderPDF(ctx, doc, opts.PDF)
	case FormatLaTeX:
		return RenderLaTeX(doc, opts.LaTeXTemplate)
	case FormatText:
		return RenderText(doc), nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, &RenderError{Format: FormatJSON, Message: "failed to encode document", Cause: err}
		}
		return data, nil
	default:
		return nil, &RenderError{Format: format, Message: "unsupported format"}
	}
}
