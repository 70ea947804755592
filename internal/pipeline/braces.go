package pipeline

import "strings"

// braceArg extracts the content of the first {...} group at or after
// position start, counting depth so nested braces stay intact. It
// returns the inner content and the index just past the closing brace.
// When no opening brace exists, it returns ("", start).
func braceArg(text string, start int) (string, int) {
	if start > len(text) {
		return "", start
	}
	idx := strings.Index(text[start:], "{")
	if idx < 0 {
		return "", start
	}
	idx += start
	depth := 0
	for i := idx; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[idx+1 : i], i + 1
			}
		}
	}
	return text[idx+1:], len(text)
}
