package rendering

import (
	"github.com/jonathan/cv-builder/internal/types"
)

// Options controls rendering.
type Options struct {
	// Locale is a BCP 47 tag or Accept-Language value. Empty means French.
	Locale string
	// Page defaults to A4.
	Page PageSize
}

// Render maps a record to a Document. It never fails: missing or malformed
// optional fields fall back to empty values or are omitted, and a nil record
// renders as an empty one. Equal inputs always produce equal documents.
func Render(record *types.ResumeRecord, opts Options) *Document {
	if record == nil {
		record = &types.ResumeRecord{}
	}
	tag, labels := ResolveLocale(opts.Locale)
	page := opts.Page
	if page.Name == "" {
		page = A4
	}

	doc := &Document{
		Title:    record.Title,
		Locale:   tag.String(),
		Page:     page,
		Header:   renderHeader(record.PersonalInfo, labels),
		Sections: []Section{},
	}

	if len(record.Experience) > 0 {
		section := Section{Kind: SectionExperience, Title: labels.Experience}
		for _, exp := range record.Experience {
			section.Entries = append(section.Entries, renderExperience(exp, labels))
		}
		doc.Sections = append(doc.Sections, section)
	}

	if len(record.Education) > 0 {
		section := Section{Kind: SectionEducation, Title: labels.Education}
		for _, edu := range record.Education {
			section.Entries = append(section.Entries, renderEducation(edu, labels))
		}
		doc.Sections = append(doc.Sections, section)
	}

	if len(record.Skills) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Kind:  SectionSkills,
			Title: labels.Skills,
			Chips: append([]string{}, record.Skills...),
		})
	}

	return doc
}

func renderHeader(info types.PersonalInfo, labels Labels) Header {
	header := Header{Name: info.FullName, Lines: []ContactLine{}}

	if info.Email != "" {
		header.Lines = append(header.Lines, ContactLine{Items: []ContactItem{{Text: info.Email}}})
	}
	if info.Phone != "" {
		header.Lines = append(header.Lines, ContactLine{Items: []ContactItem{{Text: labels.Phone + info.Phone}}})
	}

	var items []ContactItem
	if info.Location != "" {
		items = append(items, ContactItem{Text: info.Location})
	}
	if info.LinkedIn != "" {
		items = append(items, ContactItem{Text: "LinkedIn", Href: info.LinkedIn})
	}
	if info.GitHub != "" {
		items = append(items, ContactItem{Text: "GitHub", Href: info.GitHub})
	}
	if len(items) > 0 {
		header.Lines = append(header.Lines, ContactLine{Items: items})
	}
	return header
}

func renderExperience(exp types.ExperienceEntry, labels Labels) Entry {
	sub := exp.Company
	if exp.Location != "" {
		// no leading dash when there is no company
		if sub != "" {
			sub += " — "
		}
		sub += exp.Location
	}
	return Entry{
		Heading:    exp.Title,
		Subheading: sub,
		Dates:      withContract(FormatPeriod(exp.Period, labels), exp.ContractType, labels),
		Bullets:    SplitBullets(exp.Description),
	}
}

func renderEducation(edu types.EducationEntry, labels Labels) Entry {
	return Entry{
		Heading:    edu.Degree,
		Subheading: edu.School,
		Dates:      FormatPeriod(edu.Period, labels),
		Bullets:    SplitBullets(edu.Description),
	}
}
