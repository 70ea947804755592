package tex2html

import (
	"context"
	"io"
)

// Card is one converted reference card's metadata.
type Card struct {
	STT     int    // sequential number across the book
	Chapter int    // source chapter number
	Title   string // primary-language title
	TitleEN string // secondary-language title
	Diff    int    // difficulty level 1-10
}

// Part groups chapters under a Roman-numeral part heading.
type Part struct {
	Num      string
	Name     string
	Chapters []int
}

// SectionInfo identifies one detected section, for dry-run listings.
type SectionInfo struct {
	Chapter int
	Index   int // 0-based position within the chapter
	Title   string
}

// Result holds everything a conversion run produces.
type Result struct {
	// CardsHTML is the concatenated card divs, the __CARDS_HTML__
	// payload for page assembly.
	CardsHTML string

	// MetaJSON is the metadata side-table (cards, chapter titles,
	// parts) as indented JSON.
	MetaJSON []byte

	Cards    []Card
	Chapters map[int]string
	Parts    []Part

	// Book metadata for the assembly step. Title and Author fall back
	// to what main.tex declares; KatexMacros merges preamble macros
	// with configured ones; BibFile is empty when no bibliography was
	// found.
	Title       string
	Author      string
	Language    string
	KatexMacros map[string]string
	BibFile     string
}

// DiagramRenderer compiles a LaTeX picture environment source to PNG
// bytes. Kind is the environment name ("tikzpicture" or "tikzcd").
type DiagramRenderer interface {
	Render(ctx context.Context, source, kind string) ([]byte, error)
}

// Option customizes a Converter.
type Option func(*Converter)

// WithConfigFile loads conversion settings from a JSON or YAML file.
// Option order does not matter: explicit options override file values
// regardless of position.
func WithConfigFile(path string) Option {
	return func(c *Converter) { c.opts.configPath = path }
}

// WithBookDir sets the book's root directory.
func WithBookDir(dir string) Option {
	return func(c *Converter) { c.opts.bookDir = dir }
}

// WithChapter restricts conversion to a single chapter number.
func WithChapter(n int) Option {
	return func(c *Converter) { c.opts.chapter = n }
}

// WithLanguage overrides the book language ("vi" or "en"), which
// selects localized labels for proofs, figures, and tables.
func WithLanguage(lang string) Option {
	return func(c *Converter) { c.opts.language = lang }
}

// WithTitle overrides the book title.
func WithTitle(title string) Option {
	return func(c *Converter) { c.opts.title = title }
}

// WithChaptersDir overrides the chapter subdirectory (default
// "chapters").
func WithChaptersDir(dir string) Option {
	return func(c *Converter) { c.opts.chaptersDir = dir }
}

// WithChapterPattern overrides the chapter filename pattern (default
// "ch%02d.tex").
func WithChapterPattern(pattern string) Option {
	return func(c *Converter) { c.opts.chapterPattern = pattern }
}

// WithNumChapters caps pattern-based chapter discovery.
func WithNumChapters(n int) Option {
	return func(c *Converter) { c.opts.numChapters = n }
}

// WithDefaultDifficulty sets the difficulty assigned to cards without
// explicit metadata (default 5).
func WithDefaultDifficulty(diff int) Option {
	return func(c *Converter) { c.opts.defaultDiff = diff }
}

// WithDiagnostics directs progress and warning lines to w. The default
// discards them.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Converter) { c.diag = w }
}

// WithDiagramRenderer injects a custom diagram renderer, mainly for
// tests.
func WithDiagramRenderer(r DiagramRenderer) Option {
	return func(c *Converter) { c.diagrams = r }
}

// WithTikzRendering enables pre-rendering of TikZ environments via the
// local LaTeX toolchain.
func WithTikzRendering() Option {
	return func(c *Converter) { c.renderTikz = true }
}
