package rendering

import (
	"time"

	"golang.org/x/text/language"
)

// Labels holds the localized fixed strings of a rendered résumé.
type Labels struct {
	Experience string
	Education  string
	Skills     string
	Present    string
	Phone      string
	Contract   string
	Months     [12]string
}

var supportedLocales = []language.Tag{language.French, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

var localeLabels = map[language.Tag]Labels{
	language.French: {
		Experience: "Expérience Professionnelle",
		Education:  "Formation",
		Skills:     "Compétences",
		Present:    "Présent",
		Phone:      "Tél: ",
		Contract:   "Type de contrat :",
		Months: [12]string{
			"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre",
		},
	},
	language.English: {
		Experience: "Professional Experience",
		Education:  "Education",
		Skills:     "Skills",
		Present:    "Present",
		Phone:      "Phone: ",
		Contract:   "Contract:",
		Months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	},
}

// DefaultLocale is used when no locale is requested or none matches.
var DefaultLocale = language.French

// ResolveLocale matches a BCP 47 tag or Accept-Language value against the
// supported locales. French is returned when nothing matches.
func ResolveLocale(requested string) (language.Tag, Labels) {
	if requested == "" {
		return DefaultLocale, localeLabels[DefaultLocale]
	}
	_, index := language.MatchStrings(localeMatcher, requested)
	tag := supportedLocales[index]
	return tag, localeLabels[tag]
}

// MonthYear formats t as "<month> <year>" with localized month names.
func (l Labels) MonthYear(t time.Time) string {
	return l.Months[t.Month()-1] + " " + t.Format("2006")
}
