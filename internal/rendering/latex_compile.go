package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PDFEngine selects how PDF exports are produced.
type PDFEngine string

// Supported PDF engines.
const (
	// EngineChrome prints the HTML rendering with headless Chrome.
	EngineChrome PDFEngine = "chrome"
	// EngineLaTeX compiles the LaTeX rendering with pdflatex.
	EngineLaTeX PDFEngine = "latex"
)

// ParsePDFEngine accepts "chrome" or "latex". An empty string selects Chrome.
func ParsePDFEngine(s string) (PDFEngine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chrome", "chromium":
		return EngineChrome, nil
	case "latex", "pdflatex":
		return EngineLaTeX, nil
	default:
		return "", fmt.Errorf("unsupported PDF engine: %q", s)
	}
}

// DefaultCompileTimeout bounds a single pdflatex run.
const DefaultCompileTimeout = 30 * time.Second

// CompileLaTeX compiles a LaTeX source with pdflatex in a scratch directory
// and returns the PDF bytes.
func CompileLaTeX(ctx context.Context, tex []byte, timeout time.Duration) ([]byte, error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return nil, &CompilationError{
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}
	if timeout <= 0 {
		timeout = DefaultCompileTimeout
	}

	workDir, err := os.MkdirTemp("", "latex-compile-*")
	if err != nil {
		return nil, &CompilationError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer os.RemoveAll(workDir) //nolint:errcheck // scratch directory

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, tex, 0o644); err != nil {
		return nil, &CompilationError{Message: "failed to write LaTeX source", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// nonstopmode keeps pdflatex from waiting on stdin after an error
	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", workDir, texPath)
	cmd.Dir = workDir
	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation failed",
			LogOutput: output.String(),
			Cause:     err,
		}
	}

	pdf, err := os.ReadFile(filepath.Join(workDir, "resume.pdf"))
	if err != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: output.String(),
			Cause:     err,
		}
	}
	return pdf, nil
}

// CountPDFPages counts the pages of a PDF document.
// It tries pdfinfo first, then falls back to ghostscript.
func CountPDFPages(pdf []byte) (int, error) {
	f, err := os.CreateTemp("", "page-count-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(f.Name()) //nolint:errcheck // scratch file
	if _, err := f.Write(pdf); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return 0, fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to write temporary file: %w", err)
	}

	if count, err := countPagesWithPdfinfo(f.Name()); err == nil {
		return count, nil
	}
	if count, err := countPagesWithGhostscript(f.Name()); err == nil {
		return count, nil
	}
	return 0, fmt.Errorf("failed to count PDF pages: neither pdfinfo nor ghostscript available")
}

func countPagesWithPdfinfo(pdfPath string) (int, error) {
	output, err := exec.Command("pdfinfo", pdfPath).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo command failed: %w", err)
	}
	return parsePdfinfoPages(string(output))
}

// parsePdfinfoPages reads the "Pages: N" line of pdfinfo output.
func parsePdfinfoPages(output string) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			if count, err := strconv.Atoi(parts[1]); err == nil {
				return count, nil
			}
		}
	}
	return 0, fmt.Errorf("could not parse page count from pdfinfo output")
}

func countPagesWithGhostscript(pdfPath string) (int, error) {
	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", pdfPath)
	output, err := exec.Command("gs", "-q", "-dNODISPLAY", "-dNOSAFER", "-c", script).Output()
	if err != nil {
		return 0, fmt.Errorf("ghostscript command failed: %w", err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("could not parse page count from ghostscript output: %s", output)
	}
	return count, nil
}
