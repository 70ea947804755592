package pipeline

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	// Unescaped % starts a comment that runs to end of line.
	lineCommentRe = regexp2.MustCompile(`(?<!\\)%.*$`, 0)

	chapterCmdRe       = regexp.MustCompile(`(?s)\\chapter\{.*?\}\s*`)
	sectionSplitRe     = regexp.MustCompile(`(?s)\\section(\*?)\{((?:[^{}]|\{[^{}]*\})*)\}`)
	texorpdfstringRe   = regexp.MustCompile(`\\texorpdfstring\{([^}]*)\}\{[^}]*\}`)
	leadingLabelRe     = regexp.MustCompile(`^\s*\\label\{[^}]*\}\s*`)
)

// StripComments removes LaTeX line comments while keeping escaped
// percent signs.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if out, err := lineCommentRe.Replace(line, "", -1, -1); err == nil {
			lines[i] = out
		}
	}
	return strings.Join(lines, "\n")
}

// Section is one \section of a chapter with its body still in LaTeX.
type Section struct {
	Title   string
	Content string
}

// SplitSections cuts a chapter body into sections at \section
// boundaries. Starred sections whose title contains any of the
// exercise keywords are dropped entirely, so exercise blocks never
// reach the converter. A chapter with no \section at all comes back as
// a single unnamed section.
func SplitSections(texContent string, exerciseKeywords []string) []Section {
	texContent = chapterCmdRe.ReplaceAllString(texContent, "")

	matches := sectionSplitRe.FindAllStringSubmatchIndex(texContent, -1)
	if len(matches) == 0 {
		return []Section{{Title: "(Content)", Content: strings.TrimSpace(texContent)}}
	}

	var sections []Section
	for i, m := range matches {
		starred := texContent[m[2]:m[3]] == "*"
		title := strings.TrimSpace(texContent[m[4]:m[5]])
		title = texorpdfstringRe.ReplaceAllString(title, "${1}")

		start := m[1]
		end := len(texContent)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(texContent[start:end])

		if starred && matchesAnyKeyword(title, exerciseKeywords) {
			continue
		}

		content = leadingLabelRe.ReplaceAllString(content, "")
		sections = append(sections, Section{Title: title, Content: content})
	}
	return sections
}

func matchesAnyKeyword(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(title, kw) || strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
