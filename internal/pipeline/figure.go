package pipeline

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

var (
	figureEnvRe   = regexp.MustCompile(`(?s)\\begin\{figure\}\s*(?:\[[^\]]*\])?\s*(.*?)\\end\{figure\}`)
	tableFloatRe  = regexp.MustCompile(`(?s)\\begin\{table\}\s*(?:\[[^\]]*\])?\s*(.*?)\\end\{table\}`)
	floatCapRe    = regexp.MustCompile(`\\caption\{((?:[^{}]|\{[^{}]*\})*)\}`)
	centeringRe   = regexp.MustCompile(`\\centering\s*`)
	centerEnvRe   = regexp.MustCompile(`\\(?:begin|end)\{center\}\s*`)
	includeGfxRe  = regexp.MustCompile(`\\includegraphics\s*(?:\[([^\]]*)\])?\s*\{([^}]*)\}`)
	widthFracRe   = regexp.MustCompile(`width\s*=\s*([\d.]+)\\(?:textwidth|linewidth)`)
	widthAbsRe    = regexp.MustCompile(`width\s*=\s*([\d.]+(?:cm|mm|in|pt|em))`)
)

// numberFloatCaptions rewrites the first \caption inside each figure
// and table float to carry a numbered label like "Hình 8.2: ...". The
// counters are owned by the caller and shared across every card of a
// chapter, so figure numbers keep advancing across card boundaries.
// The rewritten caption stays LaTeX; convertCaptions renders it later.
func numberFloatCaptions(text string, cardSTT int, figureLabel, tableLabel string, figures, tables *Counter) string {
	prefix := cardPrefix(cardSTT)

	unwrap := func(envRe *regexp.Regexp, label string, counter *Counter) func(string) string {
		return func(m string) string {
			body := envRe.FindStringSubmatch(m)[1]
			num := numberWith(prefix, counter.Next())
			done := false
			return floatCapRe.ReplaceAllStringFunc(body, func(cm string) string {
				if done {
					return cm
				}
				done = true
				inner := floatCapRe.FindStringSubmatch(cm)[1]
				return fmt.Sprintf(`\caption{%s %s: %s}`, label, num, inner)
			})
		}
	}

	text = figureEnvRe.ReplaceAllStringFunc(text, unwrap(figureEnvRe, figureLabel, figures))
	text = tableFloatRe.ReplaceAllStringFunc(text, unwrap(tableFloatRe, tableLabel, tables))
	return text
}

// convertCaptions renders every remaining \caption as a centered
// italic paragraph and drops \centering.
func convertCaptions(text string) string {
	text = centeringRe.ReplaceAllString(text, "")
	return floatCapRe.ReplaceAllString(text,
		`<p class="table-caption" style="text-align:center"><em>${1}</em></p>`)
}

// stripCenterEnv removes center wrappers after their contents have
// been converted.
func stripCenterEnv(text string) string {
	return centerEnvRe.ReplaceAllString(text, "")
}

// convertImages rewrites \includegraphics into <img> tags with base64
// data URIs so the output document stays self-contained. Image files
// are resolved against every configured directory, each directory's
// parent, and the usual figure subdirectories. A missing or unreadable
// file degrades to a visible placeholder paragraph instead of failing
// the conversion; the warning goes to diag.
func convertImages(text string, imageDirs []string, diag io.Writer) string {
	if len(imageDirs) == 0 {
		return includeGfxRe.ReplaceAllString(text, "")
	}

	search := imageSearchDirs(imageDirs)

	return includeGfxRe.ReplaceAllStringFunc(text, func(m string) string {
		g := includeGfxRe.FindStringSubmatch(m)
		opts, filename := g[1], strings.TrimSpace(g[2])

		var styleParts []string
		if w := widthFracRe.FindStringSubmatch(opts); w != nil {
			var frac float64
			fmt.Sscanf(w[1], "%f", &frac)
			styleParts = append(styleParts, fmt.Sprintf("max-width:%.0f%%", frac*100))
		}
		if w := widthAbsRe.FindStringSubmatch(opts); w != nil {
			styleParts = append(styleParts, "max-width:"+w[1])
		}

		path := findImage(search, filename)
		if path == "" {
			fmt.Fprintf(diag, "  WARNING: image not found: %s (searched: %s)\n",
				filename, strings.Join(imageDirs, ", "))
			return imagePlaceholder("Image", filename)
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			fmt.Fprintf(diag, "  WARNING: PDF image skipped: %s\n", path)
			return imagePlaceholder("PDF Image", filename)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(diag, "  WARNING: failed to read image %s: %v\n", path, err)
			return imagePlaceholder("Image", filename)
		}

		style := "max-width:80%"
		if len(styleParts) > 0 {
			style = strings.Join(styleParts, "; ")
		}
		style += "; display:block; margin:0.8em auto"

		fmt.Fprintf(diag, "  Embedded image: %s (%dKB)\n", filepath.Base(path), len(data)/1024)
		return fmt.Sprintf(`<img src="data:%s;base64,%s" style="%s" alt="%s">`,
			imageMIME(path, data), base64.StdEncoding.EncodeToString(data), style, filename)
	})
}

func imagePlaceholder(kind, filename string) string {
	return fmt.Sprintf(`<p class="table-caption" style="text-align:center"><em>[%s: %s]</em></p>`,
		kind, filename)
}

// imageSearchDirs expands the configured directories with their
// parents and the conventional figure subdirectories, preserving
// order and dropping duplicates.
func imageSearchDirs(dirs []string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(d string) {
		if d != "" && !seen[d] {
			out = append(out, d)
			seen[d] = true
		}
	}
	for _, d := range dirs {
		add(d)
		parent := filepath.Dir(d)
		if parent != d {
			add(parent)
			for _, sub := range []string{"figures", "fig", "imgs"} {
				add(filepath.Join(parent, sub))
			}
		}
	}
	return out
}

// findImage resolves a LaTeX image reference, trying the name as
// written and then with the usual extensions appended.
func findImage(dirs []string, filename string) string {
	exts := []string{"", ".png", ".jpg", ".jpeg", ".svg", ".pdf"}
	for _, d := range dirs {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			continue
		}
		base := filepath.Join(d, filename)
		for _, ext := range exts {
			candidate := base + ext
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// imageMIME sniffs the content type from the file bytes. SVG is plain
// text and has no magic number, so it falls back to the extension, as
// does anything else the sniffer cannot place.
func imageMIME(path string, data []byte) string {
	if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
		switch t {
		case matchers.TypePng, matchers.TypeJpeg, matchers.TypeGif, matchers.TypeWebp:
			return t.MIME.Value
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	}
	return "image/png"
}
