package resolve

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	docClassRe = regexp.MustCompile(`\\documentclass(?:\[[^\]]*\])?\{(\w+)\}`)
	titleRe    = regexp.MustCompile(`\\title\{((?:[^{}]|\{[^{}]*\})*)\}`)
	subtitleRe = regexp.MustCompile(`\\subtitle\{((?:[^{}]|\{[^{}]*\})*)\}`)
	authorRe   = regexp.MustCompile(`\\author\{((?:[^{}]|\{[^{}]*\})*)\}`)
	dateRe     = regexp.MustCompile(`\\date\{((?:[^{}]|\{[^{}]*\})*)\}`)

	addBibRe       = regexp.MustCompile(`\\addbibresource\{([^}]*)\}`)
	bibliographyRe = regexp.MustCompile(`\\bibliography\{([^}]*)\}`)
	graphicsPathRe = regexp.MustCompile(`\\graphicspath\{((?:\{[^}]*\})+)\}`)
	pathEntryRe    = regexp.MustCompile(`\{([^}]*)\}`)

	newTheoremRe = regexp.MustCompile(`\\newtheorem\{(\w+)\}(?:\[(\w+)\])?\{([^}]*)\}`)
	tcolorboxRe  = regexp.MustCompile(`\\(?:newtcolorbox|NewTColorBox|DeclareTColorBox)\{(\w+)\}`)
	tcbTitleRe   = regexp.MustCompile(`\\newtcolorbox\{(\w+)\}[^{]*title\s*=\s*\{?([^},]+)`)

	mathOperatorRe = regexp.MustCompile(`\\DeclareMathOperator\{\\(\w+)\}\{([^}]*)\}`)
	mathCommandRe  = regexp.MustCompile(`\\(?:new|renew)command\{\\(\w+)\}\{(\\math\w+\{[^}]*\}[^}]*)\}`)
	defCommandRe   = regexp.MustCompile(`\\def\\(\w+)\{(\\math\w+\{[^}]*\}[^}]*)\}`)
	argCommandRe   = regexp.MustCompile(`\\(?:new|renew)command\{\\(\w+)\}\[\d+\]\{((?:[^{}]|\{[^{}]*\})*)\}`)

	tikzLibraryRe = regexp.MustCompile(`\\usetikzlibrary\{[^}]*\}`)
	tikzPkgRe     = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{(?:tikz|pgfplots)[^}]*\}`)
	pgfplotsSetRe = regexp.MustCompile(`\\pgfplotsset\{[^}]*\}`)

	cleanTexorRe   = regexp.MustCompile(`\\texorpdfstring\{([^}]*)\}\{[^}]*\}`)
	cleanWrapRe    = regexp.MustCompile(`\\(?:textbf|textit|emph)\{([^}]*)\}`)
	cleanBreakRe   = regexp.MustCompile(`\\\\(?:\[\d+\w*\])?`)
	cleanCmdArgRe  = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	cleanCmdBareRe = regexp.MustCompile(`\\[a-zA-Z]+`)
	cleanSpaceRe   = regexp.MustCompile(`\s+`)
)

// parsePreamble fills the project's metadata, custom environments, and
// math macros from its preamble text.
func parsePreamble(p *Project) {
	pre := p.Preamble

	if m := docClassRe.FindStringSubmatch(pre); m != nil {
		p.DocClass = m[1]
	}
	if m := titleRe.FindStringSubmatch(pre); m != nil {
		p.Title = CleanLatex(m[1])
	}
	if m := subtitleRe.FindStringSubmatch(pre); m != nil {
		p.Subtitle = CleanLatex(m[1])
	}
	if m := authorRe.FindStringSubmatch(pre); m != nil {
		p.Author = CleanLatex(m[1])
	}
	if m := dateRe.FindStringSubmatch(pre); m != nil {
		p.Date = CleanLatex(m[1])
	}

	if m := addBibRe.FindStringSubmatch(pre); m != nil {
		p.bibReference = strings.TrimSpace(m[1])
	} else if m := bibliographyRe.FindStringSubmatch(pre); m != nil {
		bib := strings.TrimSpace(m[1])
		if !strings.HasSuffix(bib, ".bib") {
			bib += ".bib"
		}
		p.bibReference = bib
	}

	if m := graphicsPathRe.FindStringSubmatch(pre); m != nil {
		for _, e := range pathEntryRe.FindAllStringSubmatch(m[1], -1) {
			p.graphicsPaths = append(p.graphicsPaths, e[1])
		}
	}

	for _, m := range newTheoremRe.FindAllStringSubmatch(pre, -1) {
		p.CustomEnvs[m[1]] = CustomEnv{Label: strings.TrimSpace(m[3]), Kind: "theorem"}
	}
	for _, m := range tcolorboxRe.FindAllStringSubmatch(pre, -1) {
		if _, ok := p.CustomEnvs[m[1]]; !ok {
			p.CustomEnvs[m[1]] = CustomEnv{Label: capitalize(m[1]), Kind: "box"}
		}
	}
	for _, m := range tcbTitleRe.FindAllStringSubmatch(pre, -1) {
		label := strings.TrimRight(strings.TrimSpace(m[2]), "}")
		p.CustomEnvs[m[1]] = CustomEnv{Label: label, Kind: "box"}
	}

	parseKatexMacros(p, pre)

	var tikz []string
	tikz = append(tikz, tikzLibraryRe.FindAllString(pre, -1)...)
	tikz = append(tikz, tikzPkgRe.FindAllString(pre, -1)...)
	tikz = append(tikz, pgfplotsSetRe.FindAllString(pre, -1)...)
	p.TikzPreamble = strings.Join(tikz, "\n")
}

// parseKatexMacros extracts math macro definitions that a browser-side
// renderer can replay: operators, \mathbb-style shorthands, and
// argument-taking commands.
func parseKatexMacros(p *Project, pre string) {
	for _, m := range mathOperatorRe.FindAllStringSubmatch(pre, -1) {
		p.KatexMacros[`\`+m[1]] = `\mathrm{` + m[2] + `}`
	}
	for _, m := range mathCommandRe.FindAllStringSubmatch(pre, -1) {
		key := `\` + m[1]
		if _, ok := p.KatexMacros[key]; !ok {
			p.KatexMacros[key] = m[2]
		}
	}
	for _, m := range defCommandRe.FindAllStringSubmatch(pre, -1) {
		key := `\` + m[1]
		if _, ok := p.KatexMacros[key]; !ok {
			p.KatexMacros[key] = m[2]
		}
	}
	for _, m := range argCommandRe.FindAllStringSubmatch(pre, -1) {
		key := `\` + m[1]
		body := strings.TrimSpace(m[2])
		if _, ok := p.KatexMacros[key]; !ok && strings.Contains(body, "#") {
			p.KatexMacros[key] = body
		}
	}
}

// CleanLatex strips common LaTeX formatting from a metadata string and
// normalizes it to NFC, which matters for Vietnamese titles whose
// combining diacritics otherwise compare unequal.
func CleanLatex(text string) string {
	text = cleanTexorRe.ReplaceAllString(text, "${1}")
	text = cleanWrapRe.ReplaceAllString(text, "${1}")
	text = cleanBreakRe.ReplaceAllString(text, " ")
	text = cleanCmdArgRe.ReplaceAllString(text, "${1}")
	text = cleanCmdBareRe.ReplaceAllString(text, "")
	text = strings.NewReplacer("{", "", "}", "").Replace(text)
	text = cleanSpaceRe.ReplaceAllString(text, " ")
	return norm.NFC.String(strings.TrimSpace(text))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
