package pipeline

import (
	"regexp"
	"strings"
)

// Column spec argument tolerates one level of nested braces, e.g.
// paragraph-column widths like {p{3.5cm}p{1.6cm}p{6.5cm}}.
const tableColSpec = `\{(?:[^{}]|\{[^{}]*\})*\}`

var (
	longtableRe = regexp.MustCompile(`(?s)\\begin\{longtable\}` + tableColSpec + `(.*?)\\end\{longtable\}`)
	tabularRe   = regexp.MustCompile(`(?s)\\begin\{tabular\}` + tableColSpec + `(.*?)\\end\{tabular\}`)

	longtableCmdRe = regexp.MustCompile(`\\(endfirsthead|endhead|endfoot|endlastfoot)\s*`)
	tableRuleRe    = regexp.MustCompile(`\\(toprule|midrule|bottomrule|hline)\s*`)
	tableCaptionRe = regexp.MustCompile(`\\caption\{[^}]*\}\s*`)
	tableLabelRe   = regexp.MustCompile(`\\label\{[^}]*\}\s*`)
	rowColorRe     = regexp.MustCompile(`\\rowcolor\{[^}]*\}\s*`)
	defineColorRe  = regexp.MustCompile(`\\definecolor\{[^}]*\}\{[^}]*\}\{[^}]*\}\s*`)
	renewCommandRe = regexp.MustCompile(`\\renewcommand\{[^}]*\}\{[^}]*\}\s*`)
	textColorRe    = regexp.MustCompile(`\\textcolor\{[^}]*\}\{((?:[^{}]|\{[^{}]*\})*)\}`)

	// Row separator \\ with an optional bracketed spacing argument
	// immediately after, e.g. \\[6pt].
	rowSeparatorRe = regexp.MustCompile(`\\\\(?:\[[^\]]*\])?`)
)

const tableOpenTag = `<table style="width:100%;border-collapse:collapse;margin:16px 0;` +
	`border-radius:8px;overflow:hidden;box-shadow:0 1px 4px rgba(0,0,0,0.08);font-size:0.95em;">` + "\n"

// convertTables rewrites tabular and longtable environments into styled
// HTML tables. Longtable runs first (more specific).
func convertTables(text string) string {
	text = longtableRe.ReplaceAllStringFunc(text, func(m string) string {
		return tableHTML(longtableRe.FindStringSubmatch(m)[1])
	})
	text = tabularRe.ReplaceAllStringFunc(text, func(m string) string {
		return tableHTML(tabularRe.FindStringSubmatch(m)[1])
	})
	return text
}

// tableHTML converts the body of one tabular/longtable environment.
// The first row becomes the header; later rows whose joined cell text
// exactly matches the header are dropped, which removes the repeated
// header blocks longtable emits on page breaks. A legitimate data row
// that happens to match the header text is dropped too; known
// false-positive risk, accepted.
func tableHTML(content string) string {
	content = strings.TrimSpace(content)

	content = longtableCmdRe.ReplaceAllString(content, "")
	content = tableRuleRe.ReplaceAllString(content, "")
	content = tableCaptionRe.ReplaceAllString(content, "")
	content = tableLabelRe.ReplaceAllString(content, "")
	content = rowColorRe.ReplaceAllString(content, "")
	content = defineColorRe.ReplaceAllString(content, "")
	content = renewCommandRe.ReplaceAllString(content, "")
	content = textColorRe.ReplaceAllString(content, "${1}")

	var rows []string
	for _, r := range rowSeparatorRe.Split(content, -1) {
		if r = strings.TrimSpace(r); r != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	joinCells := func(row string) string {
		cells := strings.Split(row, "&")
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		return strings.Join(cells, "|")
	}

	header := joinCells(rows[0])
	dataRows := rows[:1]
	for _, row := range rows[1:] {
		if joinCells(row) == header {
			continue // repeated longtable header
		}
		dataRows = append(dataRows, row)
	}

	var b strings.Builder
	b.WriteString(tableOpenTag)
	for i, row := range dataRows {
		cells := strings.Split(row, "&")
		if i == 0 {
			b.WriteString("<thead><tr>\n")
			for _, cell := range cells {
				b.WriteString(`  <th style="padding:10px 14px;font-weight:700;background:#1a365d;color:#fff;">`)
				b.WriteString(strings.TrimSpace(cell))
				b.WriteString("</th>\n")
			}
			b.WriteString("</tr></thead>\n<tbody>\n")
			continue
		}
		bg := "#f7fafc"
		if i%2 == 1 {
			bg = "#fff"
		}
		b.WriteString(`<tr style="background:` + bg + `;">` + "\n")
		for _, cell := range cells {
			border := ""
			if i < len(dataRows)-1 {
				border = "border-bottom:1px solid #e2e8f0;"
			}
			b.WriteString(`  <td style="padding:9px 14px;` + border + `">`)
			b.WriteString(strings.TrimSpace(cell))
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
