package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headingCmdRe   = regexp.MustCompile(`\\(subsection|subsubsection|paragraph)\*?\{((?:[^{}]|\{[^{}]*\})*)\}`)
	headingLabelRe = regexp.MustCompile(`\\label\{[^}]*\}\s*`)
)

// convertHeadings rewrites the sectioning commands below the card split
// into numbered HTML headings:
//
//	\subsection    -> <h4>8.1. Title</h4>
//	\subsubsection -> <h5>8.1.1. Title</h5>
//	\paragraph     -> <h6>8.1.1.1. Title</h6>
//
// Deeper counters reset whenever an ancestor advances. A paragraph that
// fires before any ancestor has been seen skips the zero levels, so its
// number stays dense ("8.1" rather than "8.0.0.1").
func convertHeadings(text string, cardSTT int) string {
	prefix := cardPrefix(cardSTT)
	subsec, subsubsec, para := 0, 0, 0

	join := func(parts ...int) string {
		segs := make([]string, 0, len(parts)+1)
		if prefix != "" {
			segs = append(segs, prefix)
		}
		for _, p := range parts {
			segs = append(segs, fmt.Sprint(p))
		}
		return strings.Join(segs, ".")
	}

	return headingCmdRe.ReplaceAllStringFunc(text, func(m string) string {
		g := headingCmdRe.FindStringSubmatch(m)
		level := g[1]
		title := strings.TrimSpace(headingLabelRe.ReplaceAllString(g[2], ""))

		switch level {
		case "subsection":
			subsec++
			subsubsec, para = 0, 0
			return fmt.Sprintf("<h4>%s. %s</h4>", join(subsec), title)
		case "subsubsection":
			subsubsec++
			para = 0
			return fmt.Sprintf("<h5>%s. %s</h5>", join(subsec, subsubsec), title)
		default: // paragraph
			para++
			var num string
			switch {
			case subsubsec > 0:
				num = join(subsec, subsubsec, para)
			case subsec > 0:
				num = join(subsec, para)
			default:
				num = join(para)
			}
			return fmt.Sprintf("<h6>%s. %s</h6>", num, title)
		}
	})
}
