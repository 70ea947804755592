package pipeline

import (
	"regexp"
	"strings"
)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Blocks starting with one of these are already block-level HTML and
// must not be wrapped in <p>. Math and code tokens lead their own
// blocks when the source set them off with blank lines.
var blockStartPrefixes = []string{
	"<div", "<h4", "<h5", "<h6", "<ul", "<ol", "<table", "<pre", "<br",
	"<img", "<p", mathTokenPrefix, codeTokenPrefix,
}

// Blocks containing one of these anywhere hold block-level content
// that cannot legally sit inside <p>. Math and inline-code tokens are
// deliberately absent: formulas and \verb spans inside prose must not
// unwrap the paragraph. codeTokenPrefix here matches block listings
// only.
var blockContainsMarkers = []string{
	"<div", "<h4", "<h5", "<h6", "<table", "<pre", codeTokenPrefix,
}

// wrapParagraphs splits on blank lines and wraps plain prose blocks in
// <p> tags, leaving block-level HTML alone.
func wrapParagraphs(text string) string {
	var out []string
	for _, block := range blankLineRe.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if startsWithAny(block, blockStartPrefixes) || containsAny(block, blockContainsMarkers) {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+block+"</p>")
	}
	return strings.Join(out, "\n\n")
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
