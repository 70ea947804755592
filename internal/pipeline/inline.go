package pipeline

import (
	"regexp"
	"strings"
)

// Brace-argument body tolerating one level of nesting.
const braced = `((?:[^{}]|\{[^{}]*\})*)`

var (
	textbfRe    = regexp.MustCompile(`\\textbf\{` + braced + `\}`)
	textitRe    = regexp.MustCompile(`\\textit\{` + braced + `\}`)
	emphRe      = regexp.MustCompile(`\\emph\{` + braced + `\}`)
	textttRe    = regexp.MustCompile(`\\texttt\{` + braced + `\}`)
	textscRe    = regexp.MustCompile(`\\textsc\{` + braced + `\}`)
	underlineRe = regexp.MustCompile(`\\underline\{` + braced + `\}`)

	termFullRe  = regexp.MustCompile(`\\termfull\{` + braced + `\}\{` + braced + `\}\{` + braced + `\}`)
	termRe      = regexp.MustCompile(`\\term\{` + braced + `\}\{` + braced + `\}`)
	termShortRe = regexp.MustCompile(`\\termshort\{` + braced + `\}`)

	citeRe     = regexp.MustCompile(`\\cite\{([^}]*)\}`)
	crefRe     = regexp.MustCompile(`\\[cC]ref\{[^}]*\}`)
	eqrefRe    = regexp.MustCompile(`\\eqref\{[^}]*\}`)
	refRe      = regexp.MustCompile(`\\ref\{[^}]*\}`)
	footnoteRe = regexp.MustCompile(`\\footnote\{` + braced + `\}`)
	urlRe      = regexp.MustCompile(`\\url\{([^}]*)\}`)
	hrefRe     = regexp.MustCompile(`\\href\{([^}]*)\}\{([^}]*)\}`)

	levelCmdRe    = regexp.MustCompile(`\\(levelone|leveltwo|levelthree)\b`)
	spacingArgRe  = regexp.MustCompile(`\\(vspace|hspace|bigskip|medskip|smallskip)\*?\{[^}]*\}`)
	spacingBareRe = regexp.MustCompile(`\\(vspace|hspace|bigskip|medskip|smallskip)\b`)
	indentCmdRe   = regexp.MustCompile(`\\(noindent|indent)\b`)
	phantomRe     = regexp.MustCompile(`\\(phantom|hphantom|vphantom)\{[^}]*\}`)
	thinSpaceRe   = regexp.MustCompile(`\\,`)
)

// convertInline rewrites text-level formatting commands, glossary
// terms, citations, cross references, footnotes, and URLs. Formatting
// runs three rounds so commands nested inside other commands' braces
// still resolve.
func convertInline(text string, crossRefText string) string {
	for range 3 {
		text = textbfRe.ReplaceAllString(text, "<strong>${1}</strong>")
		text = textitRe.ReplaceAllString(text, "<em>${1}</em>")
		text = emphRe.ReplaceAllString(text, "<em>${1}</em>")
		text = textttRe.ReplaceAllString(text, "<code>${1}</code>")
		text = textscRe.ReplaceAllString(text, "${1}")
		text = underlineRe.ReplaceAllString(text, "<u>${1}</u>")
	}

	// Glossary terms: primary term, original-language gloss, optional
	// inline definition. termfull must run before term.
	text = termFullRe.ReplaceAllString(text, "<strong>${1}</strong> (<em>${2}</em>): ${3}")
	text = termRe.ReplaceAllString(text, "<strong>${1}</strong> (<em>${2}</em>)")
	text = termShortRe.ReplaceAllString(text, "<strong>${1}</strong>")

	text = citeRe.ReplaceAllStringFunc(text, func(m string) string {
		keys := strings.Split(citeRe.FindStringSubmatch(m)[1], ",")
		for i, k := range keys {
			keys[i] = strings.TrimSpace(k)
		}
		return `<span class="cite">[` + strings.Join(keys, ", ") + `]</span>`
	})

	text = crefRe.ReplaceAllString(text, crossRefText)
	text = eqrefRe.ReplaceAllString(text, "(PT)")
	text = refRe.ReplaceAllString(text, "(?)")

	text = footnoteRe.ReplaceAllString(text, " (${1})")

	text = urlRe.ReplaceAllString(text, `<a href="${1}" target="_blank">${1}</a>`)
	text = hrefRe.ReplaceAllString(text, `<a href="${1}" target="_blank">${2}</a>`)

	// Spacing and invisible commands contribute nothing to HTML.
	text = levelCmdRe.ReplaceAllString(text, "")
	text = spacingArgRe.ReplaceAllString(text, "")
	text = spacingBareRe.ReplaceAllString(text, "")
	text = indentCmdRe.ReplaceAllString(text, "")
	text = phantomRe.ReplaceAllString(text, "")

	return text
}

var specialCharReplacer = strings.NewReplacer(
	`\&`, "&amp;",
	`\%`, "%",
	`\_`, "_",
	`\#`, "#",
	"---", "&mdash;",
	"--", "&ndash;",
	"``", "“",
	"''", "”",
	`\ldots`, "…",
	`\dots`, "…",
	`\colon`, ":",
	`\quad`, " ",
	`\qquad`, "  ",
	"~", " ",
	`\checkmark`, "✓",
)

// convertSpecialChars resolves escaped characters, dashes, quote
// ligatures, and common text symbols. Runs after math protection, so
// characters inside formulas are never touched.
func convertSpecialChars(text string) string {
	text = specialCharReplacer.Replace(text)
	return thinSpaceRe.ReplaceAllString(text, " ")
}
