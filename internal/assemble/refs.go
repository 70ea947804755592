package assemble

import (
	"sort"
	"strings"

	"github.com/tuanvm/go-tex2html/internal/bibtex"
)

// defaultKatexMacros are browser-side math shorthands every book gets;
// macros parsed from the preamble or configured explicitly override
// them.
var defaultKatexMacros = map[string]string{
	`\Sha`:   `\mathrm{Sha}`,
	`\Q`:     `\mathbb{Q}`,
	`\Z`:     `\mathbb{Z}`,
	`\R`:     `\mathbb{R}`,
	`\C`:     `\mathbb{C}`,
	`\F`:     `\mathbb{F}`,
	`\A`:     `\mathbb{A}`,
	`\GL`:    `\mathrm{GL}`,
	`\SL`:    `\mathrm{SL}`,
	`\Gal`:   `\mathrm{Gal}`,
	`\Aut`:   `\mathrm{Aut}`,
	`\Hom`:   `\mathrm{Hom}`,
	`\End`:   `\mathrm{End}`,
	`\Ker`:   `\mathrm{Ker}`,
	`\ord`:   `\mathrm{ord}`,
	`\rk`:    `\mathrm{rk}`,
	`\Tr`:    `\mathrm{Tr}`,
	`\Spec`:  `\mathrm{Spec}`,
	`\Image`: `\mathrm{Im}`,
}

func escapeJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// RefsJS renders the REFS JavaScript object literal mapping citation
// keys to display text, ordered by author name.
func RefsJS(entries map[string]bibtex.Entry) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, key := range bibtex.SortedKeys(entries) {
		b.WriteString("    '" + key + "': '" + escapeJS(entries[key].Text) + "',\n")
	}
	b.WriteString("  }")
	return b.String()
}

// RefsURLsJS renders the REFS_URLS object literal mapping citation keys
// to external links.
func RefsURLsJS(urls map[string]string) string {
	if len(urls) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{\n")
	for _, k := range keys {
		b.WriteString("    '" + k + "': '" + escapeJS(urls[k]) + "',\n")
	}
	b.WriteString("  }")
	return b.String()
}

// KatexMacrosJS renders the macro object body for the page's math
// renderer, defaults merged with (and overridden by) extra.
func KatexMacrosJS(extra map[string]string) string {
	macros := map[string]string{}
	for k, v := range defaultKatexMacros {
		macros[k] = v
	}
	for k, v := range extra {
		macros[k] = v
	}

	keys := make([]string, 0, len(macros))
	for k := range macros {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, "    '"+escapeJS(k)+"': '"+escapeJS(macros[k])+"'")
	}
	return "{\n" + strings.Join(entries, ",\n") + "\n  }"
}
