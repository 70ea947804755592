package assemble

import (
	"fmt"
	"io"
	"regexp"
	"sort"
)

var placeholderRe = regexp.MustCompile(`__([A-Z][A-Z0-9_]+)__`)

// ReplacePlaceholders substitutes __MARKER__ tokens in the skeleton
// template. Markers without a replacement stay in place with a warning;
// replacements no marker consumes get an informational note. Both go to
// diag.
func ReplacePlaceholders(skeleton string, replacements map[string]string, diag io.Writer) string {
	if diag == nil {
		diag = io.Discard
	}

	found := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(skeleton, -1) {
		found[m[1]] = true
	}

	var missing, unused []string
	for name := range found {
		if _, ok := replacements[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range replacements {
		if !found[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(unused)
	for _, m := range missing {
		fmt.Fprintf(diag, "WARNING: placeholder __%s__ found in skeleton but no replacement provided\n", m)
	}
	for _, u := range unused {
		fmt.Fprintf(diag, "INFO: replacement %q provided but no __%s__ found in skeleton\n", u, u)
	}

	return placeholderRe.ReplaceAllStringFunc(skeleton, func(m string) string {
		name := m[2 : len(m)-2]
		if val, ok := replacements[name]; ok {
			return val
		}
		return m
	})
}
