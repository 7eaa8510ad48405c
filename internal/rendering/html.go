package rendering

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"
	"sync"
)

//go:embed templates/resume.html.tmpl
var htmlTemplateSource string

var (
	htmlTemplateOnce sync.Once
	htmlTemplate     *template.Template
	htmlTemplateErr  error
)

func loadHTMLTemplate() (*template.Template, error) {
	htmlTemplateOnce.Do(func() {
		tmpl, err := template.New("resume.html").Funcs(template.FuncMap{
			"mm": func(v float64) template.CSS {
				return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "mm")
			},
			"pageSize": func(p PageSize) template.CSS {
				return template.CSS(fmt.Sprintf("%smm %smm",
					strconv.FormatFloat(p.WidthMM, 'f', -1, 64),
					strconv.FormatFloat(p.HeightMM, 'f', -1, 64)))
			},
		}).Parse(htmlTemplateSource)
		if err != nil {
			htmlTemplateErr = &TemplateError{Message: "failed to parse HTML template", Cause: err}
			return
		}
		htmlTemplate = tmpl
	})
	return htmlTemplate, htmlTemplateErr
}

// RenderHTML renders the document as a standalone printable HTML page.
func RenderHTML(doc *Document) ([]byte, error) {
	tmpl, err := loadHTMLTemplate()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return buf.Bytes(), nil
}
