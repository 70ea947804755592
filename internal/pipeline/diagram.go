package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
)

// DiagramRenderer compiles a self-contained LaTeX picture environment
// to a PNG. Kind is the environment name ("tikzpicture" or "tikzcd")
// so the renderer can pick the right preamble.
type DiagramRenderer interface {
	Render(ctx context.Context, source, kind string) ([]byte, error)
}

var (
	tikzPictureRe = regexp.MustCompile(`(?s)\\begin\{tikzpicture\}.*?\\end\{tikzpicture\}`)
	tikzCDRe      = regexp.MustCompile(`(?s)\\begin\{tikzcd\}.*?\\end\{tikzcd\}`)
)

const diagramPlaceholderStyle = "background:#fff3cd;border:1px solid #ffc107;" +
	"border-radius:6px;padding:1em;margin:1em 0;text-align:center"

// convertDiagrams pre-renders tikzpicture and tikzcd environments into
// embedded PNG images. With no renderer configured, or when rendering
// fails, the diagram degrades to a visible placeholder box so the rest
// of the document still converts.
func convertDiagrams(ctx context.Context, text string, r DiagramRenderer, diag io.Writer) string {
	if r == nil {
		placeholder := fmt.Sprintf(`<div style=%q><em>[TikZ diagram skipped: no renderer available]</em></div>`,
			diagramPlaceholderStyle)
		text = tikzPictureRe.ReplaceAllString(text, placeholder)
		return tikzCDRe.ReplaceAllString(text, placeholder)
	}

	count := 0
	render := func(kind, alt string) func(string) string {
		return func(source string) string {
			count++
			fmt.Fprintf(diag, "  Pre-rendering %s diagram #%d...\n", kind, count)

			png, err := r.Render(ctx, source, kind)
			if err != nil {
				fmt.Fprintf(diag, "  WARNING: %s #%d rendering failed: %v\n", kind, count, err)
				return fmt.Sprintf(`<div style=%q><em>[%s #%d rendering failed]</em></div>`,
					diagramPlaceholderStyle, alt, count)
			}

			fmt.Fprintf(diag, "  Embedded %s #%d: %dKB\n", kind, count, len(png)/1024)
			return fmt.Sprintf(`<div style="text-align:center;margin:1em 0">`+
				`<img src="data:image/png;base64,%s" style="max-width:90%%;display:inline-block" alt="%s %d">`+
				`</div>`,
				base64.StdEncoding.EncodeToString(png), alt, count)
		}
	}

	text = tikzPictureRe.ReplaceAllStringFunc(text, render("tikzpicture", "TikZ diagram"))
	text = tikzCDRe.ReplaceAllStringFunc(text, render("tikzcd", "Commutative diagram"))
	return text
}
