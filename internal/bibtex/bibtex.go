// Package bibtex parses BibTeX files into display-ready reference
// entries for the bibliography panel. It is a deliberately small regex
// parser: it reads the entry types, keys, and brace-delimited fields
// that reference managers emit, not the full BibTeX grammar.
package bibtex

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Sentinel errors for bibliography loading.
var (
	ErrBibNotFound = errors.New("bibliography file not found")
)

// Entry is one parsed reference with a pre-rendered display string.
type Entry struct {
	Type   string // localized entry type ("Sách", "Bài báo", ...)
	Text   string // display HTML: author bold, title italic
	Author string
	Year   string
	Title  string
}

var (
	entryRe = regexp.MustCompile(`(?s)@(\w+)\{([^,]+),\s*(.*?)\n\}`)
	fieldRe = regexp.MustCompile(`(?s)(\w+)\s*=\s*\{(.+?)\}(?:\s*,|\s*$)`)

	fieldItalicRe = regexp.MustCompile(`\\(?:textit|emph)\{([^}]*)\}`)
	fieldMathRe   = regexp.MustCompile(`\$[^$]+?\$`)
	fieldBraceRe  = regexp.MustCompile(`[{}]`)
	multiSpaceRe  = regexp.MustCompile(`\s{2,}`)
)

// typeLabels maps BibTeX entry types to Vietnamese panel labels.
var typeLabels = map[string]string{
	"article":       "Bài báo",
	"book":          "Sách",
	"inproceedings": "Hội nghị",
	"incollection":  "Chương sách",
	"phdthesis":     "Luận văn",
	"misc":          "Khác",
	"unpublished":   "Chưa xuất bản",
}

// ParseFile reads and parses a .bib file.
func ParseFile(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBibNotFound, path)
	}
	return Parse(string(data)), nil
}

// Parse extracts entries from BibTeX source. Unparseable text is
// skipped; the zero-entry result is valid.
func Parse(src string) map[string]Entry {
	entries := map[string]Entry{}

	for _, m := range entryRe.FindAllStringSubmatch(src, -1) {
		btype := strings.ToLower(m[1])
		key := strings.TrimSpace(m[2])

		fields := map[string]string{}
		for _, fm := range fieldRe.FindAllStringSubmatch(m[3], -1) {
			fields[strings.ToLower(fm[1])] = cleanField(fm[2])
		}

		author := fields["author"]
		if author == "" {
			author = "Unknown"
		}
		journal := fields["journal"]
		if journal == "" {
			journal = fields["booktitle"]
		}

		entries[key] = Entry{
			Type:   typeLabel(btype),
			Text:   displayText(author, fields["year"], fields["title"], journal, fields["volume"], fields["pages"], fields["publisher"]),
			Author: author,
			Year:   fields["year"],
			Title:  fields["title"],
		}
	}
	return entries
}

// SortedKeys returns entry keys ordered by lowercased author name, the
// order the reference panel lists them in.
func SortedKeys(entries map[string]Entry) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := strings.ToLower(entries[keys[i]].Author), strings.ToLower(entries[keys[j]].Author)
		if a == b {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

func typeLabel(btype string) string {
	if label, ok := typeLabels[btype]; ok {
		return label
	}
	if btype == "" {
		return ""
	}
	return strings.ToUpper(btype[:1]) + btype[1:]
}

// cleanField normalizes one field value: LaTeX wrappers unwrapped,
// grouping braces stripped with $...$ math protected, entities
// escaped.
func cleanField(val string) string {
	val = strings.TrimSpace(val)
	val = strings.ReplaceAll(val, "\n", " ")
	val = multiSpaceRe.ReplaceAllString(val, " ")
	val = fieldItalicRe.ReplaceAllString(val, "${1}")
	val = strings.ReplaceAll(val, `\-`, "")

	// Braces inside math are meaningful; swap the math out first.
	var math []string
	val = fieldMathRe.ReplaceAllStringFunc(val, func(m string) string {
		math = append(math, m)
		return fmt.Sprintf("\x00MATH%d\x00", len(math)-1)
	})
	val = fieldBraceRe.ReplaceAllString(val, "")
	for i, m := range math {
		val = strings.Replace(val, fmt.Sprintf("\x00MATH%d\x00", i), m, 1)
	}

	val = strings.ReplaceAll(val, `\&`, "&amp;")
	val = strings.ReplaceAll(val, "&amp;", "\x00AMP\x00")
	val = strings.ReplaceAll(val, "&", "&amp;")
	val = strings.ReplaceAll(val, "\x00AMP\x00", "&amp;")
	val = strings.ReplaceAll(val, "---", "&mdash;")
	val = strings.ReplaceAll(val, "--", "&ndash;")
	return val
}

func displayText(author, year, title, journal, volume, pages, publisher string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>%s</strong>", author)
	if year != "" {
		fmt.Fprintf(&b, " (%s)", year)
	}
	if title != "" {
		fmt.Fprintf(&b, ". <em>%s</em>", title)
	}
	if journal != "" {
		b.WriteString(". " + journal)
		if volume != "" {
			b.WriteString(" vol. " + volume)
		}
		if pages != "" {
			b.WriteString(", pp. " + pages)
		}
	}
	if publisher != "" {
		b.WriteString(". " + publisher)
	}
	b.WriteString(".")
	return b.String()
}
