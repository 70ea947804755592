package pipeline

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

// Display math environments normalized to a single wrapped aligned
// block so downstream renderers see a uniform shape.
var mathEnvNames = []string{
	"align", "align*", "equation", "equation*",
	"gather", "gather*", "multline", "multline*",
}

var (
	displayDollarRe = regexp.MustCompile(`(?s)\$\$.*?\$\$`)

	// \[...\] display math. The lookbehind keeps row-spacing directives
	// like \\[6pt] from being mistaken for a math opener.
	displayBracketRe = regexp2.MustCompile(`(?<!\\)\\\[.*?\\\]`, regexp2.Singleline)

	// Inline $...$, which must not match $$.
	inlineDollarRe = regexp2.MustCompile(`(?<!\$)\$(?!\$)((?:[^$\\]|\\.)+?)\$(?!\$)`, regexp2.None)

	mathEnvInnerRe = regexp.MustCompile(`(?s)\\begin\{[^}]*\}(.*?)\\end\{[^}]*\}`)

	mathEnvRes = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, 0, len(mathEnvNames))
		for _, env := range mathEnvNames {
			res = append(res, regexp.MustCompile(
				`(?s)\\begin\{`+regexp.QuoteMeta(env)+`\}.*?\\end\{`+regexp.QuoteMeta(env)+`\}`))
		}
		return res
	}()
)

// protectMath replaces every math span with an opaque placeholder token
// so later rewrite passes cannot mangle math content. Precedence:
// $$...$$ first, then \[...\], then named display environments, then
// inline $...$.
func protectMath(text string) (string, *tokenStore) {
	store := newMathStore()

	text = displayDollarRe.ReplaceAllStringFunc(text, store.Add)

	text = replaceAllFunc2(displayBracketRe, text, func(m string) string {
		inner := m[2 : len(m)-2]
		return store.Add("$$" + inner + "$$")
	})

	for _, re := range mathEnvRes {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			if inner := mathEnvInnerRe.FindStringSubmatch(m); inner != nil {
				return store.Add(`$$\begin{aligned}` + inner[1] + `\end{aligned}$$`)
			}
			return store.Add("$$" + m + "$$")
		})
	}

	text = replaceAllFunc2(inlineDollarRe, text, store.Add)

	return text, store
}

// replaceAllFunc2 runs a regexp2 replacement with a plain match-string
// callback. regexp2 errors only on pathological timeouts, in which case
// the input is returned unchanged.
func replaceAllFunc2(re *regexp2.Regexp, input string, fn func(match string) string) string {
	out, err := re.ReplaceFunc(input, func(m regexp2.Match) string {
		return fn(m.String())
	}, -1, -1)
	if err != nil {
		return input
	}
	return out
}
