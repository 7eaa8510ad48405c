package rendering

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

//go:embed templates/resume.tex.tmpl
var latexTemplateSource string

var latexFuncs = template.FuncMap{
	"escape": EscapeLaTeX,
	"url":    escapeLaTeXURL,
	"paper":  latexPaper,
}

// RenderLaTeX renders the document as a LaTeX source file. An empty
// templatePath uses the built-in template.
func RenderLaTeX(doc *Document, templatePath string) ([]byte, error) {
	var tmpl *template.Template
	var err error
	if templatePath == "" {
		tmpl, err = parseTemplateSource("resume.tex", latexTemplateSource)
	} else {
		tmpl, err = parseTemplate(templatePath)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return buf.Bytes(), nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return parseTemplateSource(templatePath, string(content))
}

func parseTemplateSource(name, source string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(latexFuncs).Parse(source)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func latexPaper(p PageSize) string {
	if p.Name == Letter.Name {
		return "letterpaper"
	}
	return "a4paper"
}
