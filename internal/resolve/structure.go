package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var romanNumerals = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV",
}

var (
	lineCommentRe  = regexp2.MustCompile(`(?<!\\)%.*$`, 0)
	chapterCmdRe   = regexp.MustCompile(`\\chapter\*?\{`)
	labelInTitleRe = regexp.MustCompile(`\\label\{[^}]*\}`)
	texorTitleRe   = regexp.MustCompile(`\\texorpdfstring\{([^}]*)\}\{[^}]*\}`)
)

// stripComments removes LaTeX line comments, keeping escaped percent
// signs.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if out, err := lineCommentRe.Replace(line, "", -1, -1); err == nil {
			lines[i] = out
		}
	}
	return strings.Join(lines, "\n")
}

// detectStructure finds parts and chapters in the resolved body. Book
// classes split on \chapter; article classes, or books that never use
// \chapter, split on \section. A body with no structure at all becomes
// a single chapter.
func detectStructure(body, docClass string) ([]Part, []Chapter) {
	topCmd := "chapter"
	if docClass == "article" || docClass == "scrartcl" || !chapterCmdRe.MatchString(body) {
		topCmd = "section"
	}

	tokenRe := regexp.MustCompile(`(?s)\\(part|` + regexp.QuoteMeta(topCmd) + `)\*?\{((?:[^{}]|\{[^{}]*\})*)\}`)
	matches := tokenRe.FindAllStringSubmatchIndex(body, -1)

	if len(matches) == 0 {
		return nil, []Chapter{{Num: 1, Title: "(Content)", Content: strings.TrimSpace(body), Source: "inline"}}
	}

	var parts []Part
	var chapters []Chapter
	var current *Part
	partIdx := 0

	for i, m := range matches {
		cmd := body[m[2]:m[3]]
		title := strings.TrimSpace(body[m[4]:m[5]])
		title = texorTitleRe.ReplaceAllString(title, "${1}")
		title = strings.TrimSpace(labelInTitleRe.ReplaceAllString(title, ""))

		start := m[1]
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(body[start:end])

		if cmd == "part" {
			if current != nil {
				parts = append(parts, *current)
			}
			numeral := strconv.Itoa(partIdx + 1)
			if partIdx < len(romanNumerals) {
				numeral = romanNumerals[partIdx]
			}
			current = &Part{Num: numeral, Name: title}
			partIdx++
			continue
		}

		chapters = append(chapters, Chapter{
			Num:     len(chapters) + 1,
			Title:   title,
			Content: content,
			Source:  "inline",
		})
		if current != nil {
			current.Chapters = append(current.Chapters, len(chapters))
		}
	}

	if current != nil {
		parts = append(parts, *current)
	}
	return parts, chapters
}
