package pipeline

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Counter is a running number shared across the cards of one chapter,
// so figures and tables keep counting across card boundaries.
type Counter struct {
	n int
}

// Next advances the counter and returns the new value.
func (c *Counter) Next() int {
	c.n++
	return c.n
}

// Value returns the current count without advancing.
func (c *Counter) Value() int { return c.n }

// Options configures one conversion run. Labels and environment
// mappings come from the book configuration; counters are shared by
// the caller across the cards of a chapter.
type Options struct {
	// Environments maps LaTeX environment names to their rendering.
	// Nil means no custom environments are converted.
	Environments map[string]EnvSpec

	// Display labels, already localized by the caller.
	ProofLabel     string
	CrossRefText   string
	FigureLabel    string
	TableLabel     string
	AlgorithmLabel string

	// ImageDirs are the directories searched for \includegraphics
	// targets. Empty means images are stripped.
	ImageDirs []string

	// CardSTT is the card's sequential number, used as the numbering
	// prefix for headings, floats, listings, and environments.
	CardSTT int

	// FigureCounter and TableCounter persist across cards of the same
	// chapter. Nil gets a fresh counter local to this call.
	FigureCounter *Counter
	TableCounter  *Counter

	// Diagrams pre-renders tikzpicture/tikzcd environments. Nil
	// degrades diagrams to placeholder boxes.
	Diagrams DiagramRenderer

	// Diag receives progress and warning lines. Nil discards them.
	Diag io.Writer
}

func (o Options) withDefaults() Options {
	if o.ProofLabel == "" {
		o.ProofLabel = "Proof"
	}
	if o.CrossRefText == "" {
		o.CrossRefText = "(see related section)"
	}
	if o.FigureLabel == "" {
		o.FigureLabel = "Figure"
	}
	if o.TableLabel == "" {
		o.TableLabel = "Table"
	}
	if o.AlgorithmLabel == "" {
		o.AlgorithmLabel = "Algorithm"
	}
	if o.FigureCounter == nil {
		o.FigureCounter = &Counter{}
	}
	if o.TableCounter == nil {
		o.TableCounter = &Counter{}
	}
	if o.Diag == nil {
		o.Diag = io.Discard
	}
	return o
}

var (
	pageBreakRe      = regexp.MustCompile(`\\(newpage|clearpage|cleardoublepage)\b`)
	anyLabelRe       = regexp.MustCompile(`\\label\{[^}]*\}`)
	setlengthRe      = regexp.MustCompile(`\\setlength\{[^}]*\}\{[^}]*\}\s*`)
	excessBlanksRe   = regexp.MustCompile(`\n{3,}`)
)

// Convert runs the full LaTeX-to-HTML pipeline over one card's
// content. The pass order is load-bearing:
//
//   - code is extracted first so nothing else rewrites its contents,
//     and restored last so even math restoration cannot touch it;
//   - math is protected before any structural pass and restored after
//     paragraph wrapping;
//   - floats are numbered before captions render, captions render
//     before tables are flattened;
//   - lists convert before headings and inline formatting, which see
//     only the list items' inner text.
func Convert(ctx context.Context, texContent string, opts Options) string {
	opts = opts.withDefaults()

	text := StripComments(texContent)

	text, codeStore, inlineCodeStore := extractCode(text, opts.CardSTT)
	text = convertDiagrams(ctx, text, opts.Diagrams, opts.Diag)

	text = pageBreakRe.ReplaceAllString(text, "")
	text = anyLabelRe.ReplaceAllString(text, "")
	text = texorpdfstringRe.ReplaceAllString(text, "${1}")
	text = defineColorRe.ReplaceAllString(text, "")
	text = renewCommandRe.ReplaceAllString(text, "")
	text = setlengthRe.ReplaceAllString(text, "")

	text, mathStore := protectMath(text)

	text = convertAlgorithms(text, opts.CardSTT, opts.AlgorithmLabel)
	text = convertEnvironments(text, opts.Environments, opts.ProofLabel, opts.CardSTT)

	text = numberFloatCaptions(text, opts.CardSTT,
		opts.FigureLabel, opts.TableLabel, opts.FigureCounter, opts.TableCounter)
	text = convertCaptions(text)
	text = convertImages(text, opts.ImageDirs, opts.Diag)
	text = convertTables(text)
	text = stripCenterEnv(text)

	text = convertLists(text)
	text = convertHeadings(text, opts.CardSTT)
	text = convertInline(text, opts.CrossRefText)
	text = convertSpecialChars(text)

	text = wrapParagraphs(text)

	text = mathStore.Restore(text)
	text = codeStore.Restore(text)
	text = inlineCodeStore.Restore(text)

	text = excessBlanksRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// cardPrefix formats a card number as a numbering prefix. Card zero
// means unprefixed numbering.
func cardPrefix(cardSTT int) string {
	if cardSTT > 0 {
		return strconv.Itoa(cardSTT)
	}
	return ""
}

// numberWith joins a prefix and a running count into "8.2" form, or
// just the count when the prefix is empty.
func numberWith(prefix string, n int) string {
	if prefix != "" {
		return prefix + "." + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
