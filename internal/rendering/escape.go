package rendering

import "strings"

// latexEscaper covers the ten characters LaTeX treats specially. Line breaks
// inside a field would end the paragraph, so they become spaces.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"{", `\{`,
	"}", `\}`,
	"$", `\$`,
	"&", `\&`,
	"%", `\%`,
	"#", `\#`,
	"_", `\_`,
	"^", `\textasciicircum{}`,
	"~", `\textasciitilde{}`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// EscapeLaTeX makes a résumé field safe to place in LaTeX body text.
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}

// hrefEscaper drops what \href cannot take and escapes the rest.
var hrefEscaper = strings.NewReplacer(
	`\`, "",
	"{", "",
	"}", "",
	"%", `\%`,
	"#", `\#`,
)

// escapeLaTeXURL prepares a link target for \href. The stored value is used
// as is otherwise, so a malformed link stays malformed.
func escapeLaTeXURL(raw string) string {
	return hrefEscaper.Replace(raw)
}
