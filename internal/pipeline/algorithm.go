package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	kwSpan   = `<span style="color:#0366d6;font-weight:bold">`
	cmtSpan  = `<span style="color:#6a737d;font-style:italic">`
	scSpan   = `<span style="font-variant:small-caps">`
	spanEnd  = `</span>`
	cmtArrow = "&#x25B7; "

	algorithmBoxStyle = "background:#f8f9fa; border:1px solid #dee2e6; border-radius:6px; " +
		"padding:1em; margin:1em 0"
	pseudocodeStyle = "font-size:0.95em; line-height:1.8"
)

var (
	algorithmEnvRe   = regexp.MustCompile(`(?s)\\begin\{algorithm\}\s*(?:\[[^\]]*\])?\s*(.*?)\\end\{algorithm\}`)
	algorithmicEnvRe = regexp.MustCompile(`(?s)\\begin\{algorithmic\}\s*(?:\[\d+\])?\s*(.*?)\\end\{algorithmic\}`)
	algorithm2eEnvRe = regexp.MustCompile(`(?s)\\begin\{algorithm2e\}\s*(?:\[[^\]]*\])?\s*(.*?)\\end\{algorithm2e\}`)

	algCaptionRe = regexp.MustCompile(`\\caption\{((?:[^{}]|\{[^{}]*\})*)\}`)

	// Each algorithmic command starts its own rendered line.
	algCommandBreakRe = regexp.MustCompile(`(\\(?:State|If|ElsIf|Else|EndIf|While|EndWhile|For|ForAll|EndFor|` +
		`Repeat|Until|Loop|EndLoop|Return|Require|Ensure|Function|EndFunction|Procedure|EndProcedure|Comment)\b)`)

	algEndRe     = regexp.MustCompile(`^\\End(If|While|For|Loop|Function|Procedure)\b`)
	algCommentRe = regexp.MustCompile(`\\Comment\{((?:[^{}]|\{[^{}]*\})*)\}`)
	algCallRe    = regexp.MustCompile(`\\Call\{(\w+)\}\{((?:[^{}]|\{[^{}]*\})*)\}`)

	alg2eKwIORe  = regexp.MustCompile(`^\\Kw(In|Out|Data|Result)\{((?:[^{}]|\{[^{}]*\})*)\}`)
	alg2eIfRe    = regexp.MustCompile(`^\\(?:u)?If\{((?:[^{}]|\{[^{}]*\})*)\}\s*\{`)
	alg2eElseIfRe = regexp.MustCompile(`^\\(?:u)?ElseIf\{((?:[^{}]|\{[^{}]*\})*)\}\s*\{`)
	alg2eElseRe  = regexp.MustCompile(`^\\Else\s*\{`)
	alg2eWhileRe = regexp.MustCompile(`^\\While\{((?:[^{}]|\{[^{}]*\})*)\}\s*\{`)
	alg2eForRe   = regexp.MustCompile(`^\\(?:For|ForEach)\{((?:[^{}]|\{[^{}]*\})*)\}\s*\{`)
	alg2eReturnRe = regexp.MustCompile(`^\\Return\b\s*(.*)`)
	alg2eTcpRe   = regexp.MustCompile(`\\tcp\*?\{((?:[^{}]|\{[^{}]*\})*)\}`)
	alg2eTccRe   = regexp.MustCompile(`\\tcc\*?\{((?:[^{}]|\{[^{}]*\})*)\}`)

	algEndKeywords = map[string]string{
		"If": "end if", "While": "end while", "For": "end for",
		"Loop": "end loop", "Function": "end function", "Procedure": "end procedure",
	}
)

// convertAlgorithms rewrites algorithm/algorithmic and algorithm2e
// pseudocode blocks into indented HTML wrapped in a numbered container.
// Runs after math protection: pseudocode bodies commonly carry inline
// math, which stays behind placeholder tokens until restoration.
func convertAlgorithms(text string, cardSTT int, algorithmLabel string) string {
	prefix := cardPrefix(cardSTT)
	count := 0

	box := func(caption, bodyHTML string) string {
		count++
		num := numberWith(prefix, count)
		heading := algorithmLabel + " " + num
		if caption != "" {
			heading += ": " + caption
		}
		return fmt.Sprintf("<div class=\"algorithm-box\" style=%q>\n"+
			"<p style=\"font-weight:bold;margin-bottom:0.5em\">%s</p>\n"+
			"<div class=\"pseudocode\" style=%q>\n%s\n</div>\n</div>",
			algorithmBoxStyle, heading, pseudocodeStyle, bodyHTML)
	}

	text = algorithmEnvRe.ReplaceAllStringFunc(text, func(m string) string {
		content := algorithmEnvRe.FindStringSubmatch(m)[1]

		caption := ""
		if cm := algCaptionRe.FindStringSubmatch(content); cm != nil {
			caption = cm[1]
			content = strings.Replace(content, cm[0], "", 1)
		}

		body := content
		if inner := algorithmicEnvRe.FindStringSubmatch(content); inner != nil {
			body = inner[1]
		}
		return box(caption, algorithmicHTML(body))
	})

	// Standalone algorithmic blocks without an algorithm wrapper.
	text = algorithmicEnvRe.ReplaceAllStringFunc(text, func(m string) string {
		return box("", algorithmicHTML(algorithmicEnvRe.FindStringSubmatch(m)[1]))
	})

	text = algorithm2eEnvRe.ReplaceAllStringFunc(text, func(m string) string {
		content := algorithm2eEnvRe.FindStringSubmatch(m)[1]

		caption := ""
		if cm := algCaptionRe.FindStringSubmatch(content); cm != nil {
			caption = cm[1]
			content = strings.Replace(content, cm[0], "", 1)
		}
		return box(caption, algorithm2eHTML(content))
	})

	return text
}

// indentedLine renders one pseudocode line at the given nesting depth.
func indentedLine(indent int, html string) string {
	return fmt.Sprintf(`<div style="padding-left:%gem">%s</div>`, float64(indent)*1.5, html)
}

func kw(s string) string  { return kwSpan + s + spanEnd }
func cmt(s string) string { return cmtSpan + s + spanEnd }

// inlineAlgComments rewrites \Comment{...} attached to a line into a
// muted italic trailer.
func inlineAlgComments(s string) string {
	return algCommentRe.ReplaceAllString(s, " "+cmtSpan+cmtArrow+"${1}"+spanEnd)
}

// algorithmicHTML converts the command-per-statement dialect, where
// explicit \End* commands close blocks. A single integer indent level
// tracks nesting; else/elseif drop one level for their own line and
// re-enter immediately so they render beside the construct they
// continue.
func algorithmicHTML(content string) string {
	content = algCommandBreakRe.ReplaceAllString(content, "\n${1}")

	var lines []string
	indent := 0
	emit := func(html string) { lines = append(lines, indentedLine(indent, html)) }

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if em := algEndRe.FindStringSubmatch(line); em != nil {
			indent = max(0, indent-1)
			emit(kw(algEndKeywords[em[1]]))
			continue
		}

		switch {
		case strings.HasPrefix(line, `\ElsIf`):
			indent = max(0, indent-1)
			cond, _ := braceArg(line, len(`\ElsIf`))
			emit(kw("else if") + " " + cond + " " + kw("then"))
			indent++

		case strings.HasPrefix(line, `\Else`):
			indent = max(0, indent-1)
			emit(kw("else"))
			indent++

		case strings.HasPrefix(line, `\If`):
			cond, _ := braceArg(line, len(`\If`))
			emit(kw("if") + " " + cond + " " + kw("then"))
			indent++

		case strings.HasPrefix(line, `\While`):
			cond, _ := braceArg(line, len(`\While`))
			emit(kw("while") + " " + cond + " " + kw("do"))
			indent++

		case strings.HasPrefix(line, `\ForAll`):
			cond, _ := braceArg(line, len(`\ForAll`))
			emit(kw("for all") + " " + cond + " " + kw("do"))
			indent++

		case strings.HasPrefix(line, `\For`):
			cond, _ := braceArg(line, len(`\For`))
			emit(kw("for") + " " + cond + " " + kw("do"))
			indent++

		case strings.HasPrefix(line, `\Repeat`):
			emit(kw("repeat"))
			indent++

		case strings.HasPrefix(line, `\Until`):
			indent = max(0, indent-1)
			cond, _ := braceArg(line, len(`\Until`))
			emit(kw("until") + " " + cond)

		case strings.HasPrefix(line, `\Loop`):
			emit(kw("loop"))
			indent++

		case strings.HasPrefix(line, `\Function`), strings.HasPrefix(line, `\Procedure`):
			keyword := "function"
			cmdLen := len(`\Function`)
			if strings.HasPrefix(line, `\Procedure`) {
				keyword = "procedure"
				cmdLen = len(`\Procedure`)
			}
			name, pos := braceArg(line, cmdLen)
			params, _ := braceArg(line, pos)
			emit(fmt.Sprintf("%s %s%s%s(%s)", kw(keyword), scSpan, name, spanEnd, params))
			indent++

		case strings.HasPrefix(line, `\Require`):
			emit(kw("Require:") + " " + inlineAlgComments(strings.TrimSpace(line[len(`\Require`):])))

		case strings.HasPrefix(line, `\Ensure`):
			emit(kw("Ensure:") + " " + inlineAlgComments(strings.TrimSpace(line[len(`\Ensure`):])))

		case strings.HasPrefix(line, `\Return`):
			emit(kw("return") + " " + inlineAlgComments(strings.TrimSpace(line[len(`\Return`):])))

		case strings.HasPrefix(line, `\State`):
			rest := inlineAlgComments(strings.TrimSpace(line[len(`\State`):]))
			rest = algCallRe.ReplaceAllString(rest, scSpan+"${1}"+spanEnd+"(${2})")
			emit(rest)

		case strings.HasPrefix(line, `\Comment`):
			body, _ := braceArg(line, len(`\Comment`))
			emit(cmt(cmtArrow + body))

		case !strings.HasPrefix(line, `\`):
			// Unrecognized plain text passes through at the current indent.
			emit(inlineAlgComments(line))
		}
	}
	return strings.Join(lines, "\n")
}

// algorithm2eHTML converts the brace-block dialect, where a bare } on
// its own line closes the current block.
func algorithm2eHTML(content string) string {
	content = strings.ReplaceAll(content, `\;`, "")
	content = alg2eTcpRe.ReplaceAllString(content, " "+cmtSpan+"// ${1}"+spanEnd)
	content = alg2eTccRe.ReplaceAllString(content, " "+cmtSpan+"/* ${1} */"+spanEnd)

	kwNames := map[string]string{"In": "Input", "Out": "Output", "Data": "Data", "Result": "Result"}

	var lines []string
	indent := 0
	emit := func(html string) { lines = append(lines, indentedLine(indent, html)) }

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if line == "}" {
			indent = max(0, indent-1)
			continue
		}

		if m := alg2eKwIORe.FindStringSubmatch(line); m != nil {
			emit(kw(kwNames[m[1]]+":") + " " + m[2])
			continue
		}
		if m := alg2eElseIfRe.FindStringSubmatch(line); m != nil {
			indent = max(0, indent-1)
			emit(kw("else if") + " " + m[1] + " " + kw("then"))
			indent++
			continue
		}
		if m := alg2eIfRe.FindStringSubmatch(line); m != nil {
			emit(kw("if") + " " + m[1] + " " + kw("then"))
			indent++
			continue
		}
		if alg2eElseRe.MatchString(line) {
			indent = max(0, indent-1)
			emit(kw("else"))
			indent++
			continue
		}
		if m := alg2eWhileRe.FindStringSubmatch(line); m != nil {
			emit(kw("while") + " " + m[1] + " " + kw("do"))
			indent++
			continue
		}
		if m := alg2eForRe.FindStringSubmatch(line); m != nil {
			keyword := "for"
			if strings.Contains(line, "ForEach") {
				keyword = "for each"
			}
			emit(kw(keyword) + " " + m[1] + " " + kw("do"))
			indent++
			continue
		}
		if m := alg2eReturnRe.FindStringSubmatch(line); m != nil {
			emit(kw("return") + " " + m[1])
			continue
		}

		emit(line)
	}
	return strings.Join(lines, "\n")
}
