// Package rendering maps a résumé record to a paginated document model and
// exports that model as HTML, PDF, LaTeX, plain text or JSON.
package rendering

import (
	"fmt"
	"strings"
)

// PageSize is a physical page format in millimetres.
type PageSize struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"widthMm"`
	HeightMM float64 `json:"heightMm"`
}

// A4 is the default page size.
var A4 = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}

// Letter is the US letter page size.
var Letter = PageSize{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}

// WidthInches returns the page width in inches.
func (p PageSize) WidthInches() float64 { return p.WidthMM / 25.4 }

// HeightInches returns the page height in inches.
func (p PageSize) HeightInches() float64 { return p.HeightMM / 25.4 }

// ParsePageSize accepts "a4" or "letter" in any case. An empty string selects A4.
func ParsePageSize(s string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a4":
		return A4, nil
	case "letter":
		return Letter, nil
	default:
		return PageSize{}, fmt.Errorf("unsupported page size: %q", s)
	}
}

// Document is the rendered résumé, independent of the output engine.
type Document struct {
	Title    string    `json:"title"`
	Locale   string    `json:"locale"`
	Page     PageSize  `json:"page"`
	Header   Header    `json:"header"`
	Sections []Section `json:"sections"`
}

// Header is the identity block at the top of the first page.
type Header struct {
	Name  string        `json:"name"`
	Lines []ContactLine `json:"lines"`
}

// ContactLine is one row of contact items.
type ContactLine struct {
	Items []ContactItem `json:"items"`
}

// ContactItem is a piece of contact text, optionally a hyperlink.
type ContactItem struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// IsLink reports whether the item renders as a hyperlink.
func (c ContactItem) IsLink() bool { return c.Href != "" }

// SectionKind identifies a body section.
type SectionKind string

// Section kinds, in the order they are emitted.
const (
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
)

// Section is a titled block of entries (experience, education) or chips (skills).
type Section struct {
	Kind    SectionKind `json:"kind"`
	Title   string      `json:"title"`
	Entries []Entry     `json:"entries,omitempty"`
	Chips   []string    `json:"chips,omitempty"`
}

// Entry is one experience or education item.
type Entry struct {
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	Dates      string   `json:"dates"`
	Bullets    []string `json:"bullets,omitempty"`
}

// Section returns the section of the given kind, or nil when it was omitted.
func (d *Document) Section(kind SectionKind) *Section {
	for i := range d.Sections {
		if d.Sections[i].Kind == kind {
			return &d.Sections[i]
		}
	}
	return nil
}
