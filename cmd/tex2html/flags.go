package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every mode.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// bookFlags holds book discovery and override flags.
type bookFlags struct {
	bookDir        string
	chaptersDir    string
	chapterPattern string
	numChapters    int
	lang           string
	title          string
	defaultDiff    int
}

// outputFlags holds output destination flags.
type outputFlags struct {
	output string
	meta   string
	dryRun bool
}

// renderFlags holds rendering and assembly flags.
type renderFlags struct {
	tikz     bool
	skeleton string
}

// convertFlags holds all CLI flags.
type convertFlags struct {
	common  commonFlags
	book    bookFlags
	output  outputFlags
	render  renderFlags
	chapter int
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "f", "", "config file name or path (JSON or YAML)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show conversion summary")
}

func addBookFlags(fs *flag.FlagSet, f *bookFlags) {
	fs.StringVarP(&f.bookDir, "book-dir", "d", "", "book root directory")
	fs.StringVar(&f.chaptersDir, "chapters-dir", "", "chapter subdirectory (default: chapters)")
	fs.StringVar(&f.chapterPattern, "chapter-pattern", "", "chapter filename pattern (default: ch%02d.tex)")
	fs.IntVar(&f.numChapters, "num-chapters", 0, "number of chapters to look for (0 = auto-detect)")
	fs.StringVar(&f.lang, "lang", "", "book language: vi, en")
	fs.StringVar(&f.title, "title", "", "book title override")
	fs.IntVar(&f.defaultDiff, "default-diff", 0, "difficulty for cards without metadata (1-10)")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "cards HTML output file (default: stdout)")
	fs.StringVarP(&f.meta, "meta", "m", "", "metadata JSON output file (default: <output>_meta.json)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "list detected sections without converting")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.tikz, "tikz", false, "pre-render TikZ diagrams via xelatex/pdflatex")
	fs.StringVar(&f.skeleton, "skeleton", "", "assemble a full page from this skeleton template")
}

// parseFlags parses CLI flags and returns remaining positional args.
func parseFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("tex2html", flag.ContinueOnError)
	f := &convertFlags{}

	fs.IntVarP(&f.chapter, "chapter", "c", 0, "convert only this chapter number")

	addCommonFlags(fs, &f.common)
	addBookFlags(fs, &f.book)
	addOutputFlags(fs, &f.output)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
