package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tex2html "github.com/tuanvm/go-tex2html"
	"github.com/tuanvm/go-tex2html/internal/assemble"
	"github.com/tuanvm/go-tex2html/internal/bibtex"
)

// Sentinel errors for CLI operations.
var (
	ErrReadSkeleton = errors.New("failed to read skeleton file")
	ErrWriteOutput  = errors.New("failed to write output file")
)

const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// run drives one conversion from parsed flags. A positional argument
// doubles as the book directory when --book-dir is absent.
func run(flags *convertFlags, args []string) error {
	if flags.book.bookDir == "" && len(args) > 0 {
		flags.book.bookDir = args[0]
	}

	diag := io.Writer(os.Stderr)
	if flags.common.quiet {
		diag = io.Discard
	}

	conv, err := tex2html.NewConverter(buildOptions(flags, diag)...)
	if err != nil {
		return err
	}

	if flags.output.dryRun {
		return printSections(conv, os.Stdout)
	}

	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		return err
	}

	html := result.CardsHTML
	var entries map[string]bibtex.Entry
	if flags.render.skeleton != "" {
		html, entries, err = assemblePage(flags.render.skeleton, result, diag)
		if err != nil {
			return err
		}
	}

	if err := writeOutputs(flags, html, result.MetaJSON); err != nil {
		return err
	}

	if flags.render.skeleton != "" && !flags.common.quiet {
		report := assemble.Validate(html, len(result.Cards), entries)
		report.Print(diag, len(result.Cards), len(entries))
	}
	if flags.common.verbose {
		printSummary(diag, result)
	}
	return nil
}

// buildOptions maps CLI flags to converter options. Flags override
// config file values regardless of option order.
func buildOptions(flags *convertFlags, diag io.Writer) []tex2html.Option {
	opts := []tex2html.Option{tex2html.WithDiagnostics(diag)}

	if flags.common.config != "" {
		opts = append(opts, tex2html.WithConfigFile(flags.common.config))
	}
	if flags.book.bookDir != "" {
		opts = append(opts, tex2html.WithBookDir(flags.book.bookDir))
	}
	if flags.chapter > 0 {
		opts = append(opts, tex2html.WithChapter(flags.chapter))
	}
	if flags.book.lang != "" {
		opts = append(opts, tex2html.WithLanguage(flags.book.lang))
	}
	if flags.book.title != "" {
		opts = append(opts, tex2html.WithTitle(flags.book.title))
	}
	if flags.book.chaptersDir != "" {
		opts = append(opts, tex2html.WithChaptersDir(flags.book.chaptersDir))
	}
	if flags.book.chapterPattern != "" {
		opts = append(opts, tex2html.WithChapterPattern(flags.book.chapterPattern))
	}
	if flags.book.numChapters > 0 {
		opts = append(opts, tex2html.WithNumChapters(flags.book.numChapters))
	}
	if flags.book.defaultDiff > 0 {
		opts = append(opts, tex2html.WithDefaultDifficulty(flags.book.defaultDiff))
	}
	if flags.render.tikz {
		opts = append(opts, tex2html.WithTikzRendering())
	}
	return opts
}

// printSections lists detected sections without converting.
func printSections(conv *tex2html.Converter, w io.Writer) error {
	sections, err := conv.Sections()
	if err != nil {
		return err
	}
	for _, s := range sections {
		fmt.Fprintf(w, "Ch.%d [%d] %s\n", s.Chapter, s.Index, s.Title)
	}
	fmt.Fprintf(w, "%d sections\n", len(sections))
	return nil
}

// assemblePage substitutes the conversion results into a skeleton
// template, producing the full page instead of bare card divs.
func assemblePage(skeletonPath string, result *tex2html.Result, diag io.Writer) (string, map[string]bibtex.Entry, error) {
	skeleton, err := os.ReadFile(skeletonPath) // #nosec G304 -- user-provided path
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrReadSkeleton, err)
	}

	entries := map[string]bibtex.Entry{}
	if result.BibFile != "" {
		entries, err = bibtex.ParseFile(result.BibFile)
		if err != nil {
			return "", nil, err
		}
	}

	replacements := map[string]string{
		"TITLE":        result.Title,
		"AUTHOR":       result.Author,
		"CARDS_HTML":   result.CardsHTML,
		"CARD_COUNT":   strconv.Itoa(len(result.Cards)),
		"KATEX_MACROS": assemble.KatexMacrosJS(result.KatexMacros),
		"REFS":         assemble.RefsJS(entries),
		"REFS_URLS":    assemble.RefsURLsJS(nil),
	}
	return assemble.ReplacePlaceholders(string(skeleton), replacements, diag), entries, nil
}

// writeOutputs writes the HTML and metadata JSON. Without --output the
// HTML goes to stdout and the metadata is skipped unless --meta names a
// file explicitly.
func writeOutputs(flags *convertFlags, html string, metaJSON []byte) error {
	outPath := flags.output.output
	if outPath == "" || outPath == "-" {
		fmt.Print(html)
	} else {
		if err := os.WriteFile(outPath, []byte(html), filePermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	metaPath := flags.output.meta
	if metaPath == "" {
		if outPath == "" || outPath == "-" {
			return nil
		}
		metaPath = defaultMetaPath(outPath)
	}
	if err := os.WriteFile(metaPath, metaJSON, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// defaultMetaPath derives the metadata path from the HTML output path.
func defaultMetaPath(outPath string) string {
	ext := filepath.Ext(outPath)
	return strings.TrimSuffix(outPath, ext) + "_meta.json"
}

// printSummary writes per-chapter and difficulty breakdowns.
func printSummary(w io.Writer, result *tex2html.Result) {
	perChapter := map[int]int{}
	perDiff := map[int]int{}
	for _, c := range result.Cards {
		perChapter[c.Chapter]++
		perDiff[c.Diff]++
	}

	fmt.Fprintf(w, "\nConverted %d cards\n", len(result.Cards))

	chapters := make([]int, 0, len(perChapter))
	for ch := range perChapter {
		chapters = append(chapters, ch)
	}
	sort.Ints(chapters)
	for _, ch := range chapters {
		title := result.Chapters[ch]
		fmt.Fprintf(w, "  Ch.%d %s: %d cards\n", ch, title, perChapter[ch])
	}

	diffs := make([]int, 0, len(perDiff))
	for d := range perDiff {
		diffs = append(diffs, d)
	}
	sort.Ints(diffs)
	fmt.Fprintln(w, "Difficulty:")
	for _, d := range diffs {
		fmt.Fprintf(w, "  %2d: %d\n", d, perDiff[d])
	}
}
