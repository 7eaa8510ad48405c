package rendering

import (
	"bytes"
	"strings"
)

// RenderText renders the document as plain text for pasting into
// applicant tracking forms. Links are written as "Label: target".
func RenderText(doc *Document) []byte {
	var buf bytes.Buffer

	if doc.Header.Name != "" {
		buf.WriteString(doc.Header.Name)
		buf.WriteByte('\n')
	}
	for _, line := range doc.Header.Lines {
		parts := make([]string, 0, len(line.Items))
		for _, item := range line.Items {
			if item.IsLink() {
				parts = append(parts, item.Text+": "+item.Href)
				continue
			}
			parts = append(parts, item.Text)
		}
		buf.WriteString(strings.Join(parts, " | "))
		buf.WriteByte('\n')
	}

	for _, section := range doc.Sections {
		buf.WriteByte('\n')
		buf.WriteString(strings.ToUpper(section.Title))
		buf.WriteByte('\n')

		for _, entry := range section.Entries {
			for _, s := range []string{entry.Heading, entry.Subheading, entry.Dates} {
				if s != "" {
					buf.WriteString(s)
					buf.WriteByte('\n')
				}
			}
			for _, bullet := range entry.Bullets {
				buf.WriteString("- ")
				buf.WriteString(bullet)
				buf.WriteByte('\n')
			}
			buf.WriteByte('\n')
		}
		if len(section.Chips) > 0 {
			buf.WriteString(strings.Join(section.Chips, ", "))
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}
