package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// EnvSpec describes how one LaTeX environment renders: the CSS class of
// the emitted container and the human-readable display label.
type EnvSpec struct {
	CSS   string
	Label string
}

// Style classes whose environments receive running per-label numbers.
// Plain boxes (box-*) are never numbered.
var numberedClasses = map[string]bool{
	"env-theorem":    true,
	"env-definition": true,
	"env-example":    true,
}

var proofRe = regexp.MustCompile(`(?s)\\begin\{proof\}(.*?)\\end\{proof\}`)

// convertEnvironments rewrites every recognized \begin{name}[title]...
// \end{name} (and the title-less form) into a labeled div container.
// Numbered style classes get a running counter per display label, so
// distinct labels number independently ("Theorem 8.1", "Definition
// 8.1"). Unrecognized environment names pass through untouched.
func convertEnvironments(text string, envs map[string]EnvSpec, proofLabel string, cardSTT int) string {
	prefix := cardPrefix(cardSTT)
	counters := map[string]int{}

	// Deterministic processing order; counters are keyed by label, so
	// two environment names sharing a label share a sequence.
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := envs[name]
		numbered := numberedClasses[spec.CSS]

		heading := func(title string) string {
			if numbered {
				counters[spec.Label]++
				num := numberWith(prefix, counters[spec.Label])
				if title != "" {
					return fmt.Sprintf("%s %s (%s)", spec.Label, num, title)
				}
				return spec.Label + " " + num
			}
			if title != "" {
				return fmt.Sprintf("%s (%s)", spec.Label, title)
			}
			return spec.Label
		}

		quoted := regexp.QuoteMeta(name)

		withTitle := regexp.MustCompile(`(?s)\\begin\{` + quoted + `\}\[([^\]]*)\](.*?)\\end\{` + quoted + `\}`)
		text = withTitle.ReplaceAllStringFunc(text, func(m string) string {
			g := withTitle.FindStringSubmatch(m)
			return envDiv(spec.CSS, heading(strings.TrimSpace(g[1])), strings.TrimSpace(g[2]))
		})

		plain := regexp.MustCompile(`(?s)\\begin\{` + quoted + `\}(.*?)\\end\{` + quoted + `\}`)
		text = plain.ReplaceAllStringFunc(text, func(m string) string {
			g := plain.FindStringSubmatch(m)
			return envDiv(spec.CSS, heading(""), strings.TrimSpace(g[1]))
		})
	}

	// The standard proof construct is converted separately and is never
	// numbered.
	text = proofRe.ReplaceAllStringFunc(text, func(m string) string {
		g := proofRe.FindStringSubmatch(m)
		return envDiv("env-proof", proofLabel, strings.TrimSpace(g[1]))
	})

	return text
}

func envDiv(css, heading, body string) string {
	return fmt.Sprintf("<div class=%q><strong>%s:</strong><br>\n%s\n</div>", css, heading, body)
}
