// Package assemble turns converted chapter content into the deliverable
// artifacts: collapsible card HTML, the metadata JSON side-table, and a
// final page assembled from a skeleton template with __PLACEHOLDER__
// markers.
package assemble

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// CardInfo is one card's metadata as it appears in the JSON side-table.
type CardInfo struct {
	STT     int    `json:"stt"`
	Chapter int    `json:"ch"`
	Title   string `json:"vi"`
	TitleEN string `json:"en"`
	Diff    int    `json:"diff"`
}

// PartInfo groups chapters under a part heading in the side-table.
type PartInfo struct {
	Num      string `json:"num"`
	Name     string `json:"name"`
	Chapters []int  `json:"chapters"`
}

// Metadata is the JSON side-table written next to the cards HTML.
type Metadata struct {
	Cards    []CardInfo        `json:"cards"`
	Chapters map[string]string `json:"chapters"`
	Parts    []PartInfo        `json:"parts"`
}

// MarshalIndent renders the side-table as indented JSON with empty
// collections kept as [] and {} rather than null.
func (m Metadata) MarshalIndent() ([]byte, error) {
	if m.Cards == nil {
		m.Cards = []CardInfo{}
	}
	if m.Chapters == nil {
		m.Chapters = map[string]string{}
	}
	if m.Parts == nil {
		m.Parts = []PartInfo{}
	}
	return json.MarshalIndent(m, "", "  ")
}

// defaultDiffColors maps difficulty bands to badge colors.
var defaultDiffColors = map[int]string{
	1: "#48bb78", 2: "#48bb78",
	3: "#4299e1", 4: "#4299e1",
	5: "#ed8936", 6: "#ed8936",
	7: "#e53e3e", 8: "#e53e3e",
	9: "#805ad5", 10: "#805ad5",
}

// DiffColor returns the badge color for a difficulty level, preferring
// the caller's map over the built-in bands.
func DiffColor(level int, colors map[int]string) string {
	if c, ok := colors[level]; ok {
		return c
	}
	if c, ok := defaultDiffColors[level]; ok {
		return c
	}
	switch {
	case level <= 2:
		return "#48bb78"
	case level <= 4:
		return "#4299e1"
	case level <= 6:
		return "#ed8936"
	case level <= 8:
		return "#e53e3e"
	default:
		return "#805ad5"
	}
}

// CardHTML renders one collapsible concept card. The data attributes
// drive the page's tab reordering; the onclick handlers are defined in
// the skeleton's script.
func CardHTML(info CardInfo, bodyHTML string, colors map[int]string) string {
	color := DiffColor(info.Diff, colors)
	viSafe := strings.ReplaceAll(info.Title, `"`, "&quot;")
	enSafe := strings.ReplaceAll(info.TitleEN, `"`, "&quot;")
	return fmt.Sprintf(`<div class="concept-card" id="c-%d" data-stt="%d" data-ch="%d"
     data-vi="%s" data-en="%s" data-diff="%d">
  <div class="card-header" onclick="toggleCard(%d)">
    <span class="expand-icon" id="ei-%d">&#9654;</span>
    <span class="stt-badge">%d</span> %s
    <span class="en-label">(%s)</span>
    <span class="badges">
      <span class="ch-badge">Ch.%d</span>
      <span class="diff-badge" style="background:%s">%d</span>
    </span>
  </div>
  <div class="card-body" id="cb-%d">
%s
  </div>
</div>`,
		info.STT, info.STT, info.Chapter,
		viSafe, enSafe, info.Diff,
		info.STT,
		info.STT,
		info.STT, info.Title,
		info.TitleEN,
		info.Chapter,
		color, info.Diff,
		info.STT,
		bodyHTML)
}

var (
	cleanTexorRe  = regexp.MustCompile(`\\texorpdfstring\{([^}]*)\}\{[^}]*\}`)
	cleanCmdArgRe = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	cleanCmdRe    = regexp.MustCompile(`\\[a-zA-Z]+`)
	cleanWSRe     = regexp.MustCompile(`\s+`)
)

// CleanTitleForEN strips LaTeX commands from a section title so it can
// stand in for a missing English title.
func CleanTitleForEN(title string) string {
	t := cleanTexorRe.ReplaceAllString(title, "${1}")
	t = cleanCmdArgRe.ReplaceAllString(t, "${1}")
	t = cleanCmdRe.ReplaceAllString(t, "")
	t = strings.TrimSpace(cleanWSRe.ReplaceAllString(t, " "))
	if t == "" {
		return title
	}
	return t
}
