package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Inline styles keep the emitted fragment self-contained; the final
// document carries no stylesheet for code.
const (
	codeBlockStyle = "background:#f6f8fa; border:1px solid #e1e4e8; border-radius:6px; " +
		"padding:1em; overflow-x:auto; font-size:0.9em; line-height:1.5"
	codeCaptionStyle = "text-align:center;font-size:0.9em;color:#586069"
	inlineCodeStyle  = "background:#f0f0f0; padding:0.15em 0.4em; border-radius:3px; " +
		"font-family:monospace; font-size:0.9em"
	langBadgeStyle = "text-align:right;font-size:0.8em;color:#6a737d;margin-bottom:0.3em"
)

var (
	verbatimRe = regexp.MustCompile(`(?s)\\begin\{verbatim\}(.*?)\\end\{verbatim\}`)

	lstlistingRe = regexp.MustCompile(`(?s)\\begin\{lstlisting\}\s*(?:\[([^\]]*)\])?\s*(.*?)\\end\{lstlisting\}`)
	mintedRe     = regexp.MustCompile(`(?s)\\begin\{minted\}\s*(?:\[([^\]]*)\])?\s*\{(\w+)\}\s*(.*?)\\end\{minted\}`)

	langOptRe    = regexp.MustCompile(`language\s*=\s*(\w+)`)
	captionOptRe = regexp.MustCompile(`caption\s*=\s*\{?((?:[^},]|\{[^}]*\})*)`)

	verbPipeRe      = regexp.MustCompile(`\\verb\|([^|]*)\|`)
	verbPlusRe      = regexp.MustCompile(`\\verb\+([^+]*)\+`)
	lstinlinePipeRe = regexp.MustCompile(`\\lstinline\|([^|]*)\|`)
	lstinlineBrcRe  = regexp.MustCompile(`\\lstinline\{([^}]*)\}`)
	mintinlineRe    = regexp.MustCompile(`\\mintinline\{\w+\}\{([^}]*)\}`)
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeHTML escapes ampersand, less-than, and greater-than exactly
// once. Code content goes through this and nothing else.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// extractCode pulls verbatim, lstlisting, minted, and inline code spans
// out of the text before any other pass can touch them, replacing each
// with an opaque token. The stored value is the final HTML, so restored
// code is never re-escaped or re-scanned for LaTeX commands. Block
// listings and inline spans go to separate stores: only block tokens
// suppress paragraph wrapping.
//
// Must run before math protection: code content may contain $, \[ and
// similar sequences that would otherwise be treated as math.
func extractCode(text string, cardSTT int) (string, *tokenStore, *tokenStore) {
	store := newCodeStore()
	inlineStore := newInlineCodeStore()
	prefix := cardPrefix(cardSTT)
	listingCount := 0

	captionHTML := func(caption string) string {
		if caption == "" {
			return ""
		}
		listingCount++
		num := numberWith(prefix, listingCount)
		return fmt.Sprintf(`<p style=%q><em>Listing %s: %s</em></p>`, codeCaptionStyle, num, caption)
	}

	text = verbatimRe.ReplaceAllStringFunc(text, func(m string) string {
		body := escapeHTML(strings.TrimSpace(verbatimRe.FindStringSubmatch(m)[1]))
		return store.Add(fmt.Sprintf(`<pre style=%q><code>%s</code></pre>`, codeBlockStyle, body))
	})

	text = lstlistingRe.ReplaceAllStringFunc(text, func(m string) string {
		g := lstlistingRe.FindStringSubmatch(m)
		opts, body := g[1], strings.TrimSpace(g[2])
		lang := ""
		if lm := langOptRe.FindStringSubmatch(opts); lm != nil {
			lang = lm[1]
		}
		caption := ""
		if cm := captionOptRe.FindStringSubmatch(opts); cm != nil {
			caption = strings.Trim(strings.TrimSpace(cm[1]), "{}")
		}
		return store.Add(listingHTML(body, lang, captionHTML(caption)))
	})

	text = mintedRe.ReplaceAllStringFunc(text, func(m string) string {
		g := mintedRe.FindStringSubmatch(m)
		opts, lang, body := g[1], g[2], strings.TrimSpace(g[3])
		caption := ""
		if cm := captionOptRe.FindStringSubmatch(opts); cm != nil {
			caption = strings.Trim(strings.TrimSpace(cm[1]), "{}")
		}
		return store.Add(listingHTML(body, lang, captionHTML(caption)))
	})

	inline := func(re *regexp.Regexp) {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			body := escapeHTML(re.FindStringSubmatch(m)[1])
			return inlineStore.Add(fmt.Sprintf(`<code style=%q>%s</code>`, inlineCodeStyle, body))
		})
	}
	inline(verbPipeRe)
	inline(verbPlusRe)
	inline(lstinlinePipeRe)
	inline(lstinlineBrcRe)
	inline(mintinlineRe)

	return text, store, inlineStore
}

// listingHTML renders a code listing with an optional language badge
// and caption. Known languages get chroma token coloring; anything else
// falls back to plain escaped text.
func listingHTML(body, lang, caption string) string {
	rendered, ok := highlightCode(body, lang)
	if !ok {
		rendered = escapeHTML(body)
	}

	badge := ""
	dataLang := ""
	if lang != "" {
		badge = fmt.Sprintf(`<div style=%q>%s</div>`, langBadgeStyle, lang)
		dataLang = fmt.Sprintf(` data-lang="%s"`, lang)
	}
	return fmt.Sprintf(`%s<pre style=%q%s><code>%s</code></pre>%s`,
		badge, codeBlockStyle, dataLang, rendered, caption)
}

// highlightCode tokenizes source with chroma and emits spans with
// inline colors. Returns ok=false when the language is unknown so the
// caller can fall back to plain escaping.
func highlightCode(code, lang string) (string, bool) {
	if lang == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	style := styles.Get("github")
	var b strings.Builder
	for tok := it(); tok != chroma.EOF; tok = it() {
		entry := style.Get(tok.Type)
		escaped := escapeHTML(tok.Value)
		if entry.Colour.IsSet() {
			fmt.Fprintf(&b, `<span style="color:%s">%s</span>`, entry.Colour.String(), escaped)
		} else {
			b.WriteString(escaped)
		}
	}
	return b.String(), true
}
