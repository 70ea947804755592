package pipeline

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// maxListDepth bounds the innermost-first rewrite loop. This is a guard
// against malformed or runaway input, not a real nesting expectation.
const maxListDepth = 20

var (
	enumerateOptRe = regexp.MustCompile(`\\begin\{enumerate\}\[[^\]]*\]`)
	itemSplitRe    = regexp.MustCompile(`\\item\b`)

	// Optional bracketed custom item label like [(a)]; stripped rather
	// than rendered.
	itemLabelRe = regexp.MustCompile(`^\[[^\]]*\]\s*`)

	// Matches a list environment containing no nested list, i.e. the
	// innermost occurrence. Needs lookahead and a backreference, hence
	// regexp2.
	innermostListRe = regexp2.MustCompile(
		`\\begin\{(itemize|enumerate)\}`+
			`((?:(?!\\begin\{(?:itemize|enumerate)\})(?!\\end\{(?:itemize|enumerate)\}).)*?)`+
			`\\end\{\1\}`,
		regexp2.Singleline)
)

// convertLists rewrites itemize/enumerate into <ul>/<ol>, always
// operating on the innermost occurrence first so arbitrary nesting
// comes out as properly nested HTML lists.
func convertLists(text string) string {
	text = enumerateOptRe.ReplaceAllString(text, `\begin{enumerate}`)

	for range maxListDepth {
		m, err := innermostListRe.FindStringMatch(text)
		if err != nil || m == nil {
			break
		}
		out, err := innermostListRe.ReplaceFunc(text, func(m regexp2.Match) string {
			return listHTML(m.GroupByNumber(1).String(), m.GroupByNumber(2).String())
		}, -1, 1)
		if err != nil {
			break
		}
		text = out
	}
	return text
}

func listHTML(envName, content string) string {
	tag := "ul"
	if envName == "enumerate" {
		tag = "ol"
	}

	var items []string
	for _, item := range itemSplitRe.Split(content, -1) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = itemLabelRe.ReplaceAllString(item, "")
		items = append(items, "<li>"+item+"</li>")
	}
	if len(items) == 0 {
		return ""
	}
	return "<" + tag + ">\n" + strings.Join(items, "\n") + "\n</" + tag + ">"
}
