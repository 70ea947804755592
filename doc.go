// Package tex2html converts a LaTeX book into collapsible HTML
// reference cards plus a metadata JSON side-table, ready for assembly
// into a single self-contained page.
//
// # Quick Start
//
// Point a converter at a book directory and convert:
//
//	conv, err := tex2html.NewConverter(
//	    tex2html.WithBookDir("/books/graphs"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.ConvertBook(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("cards.html", []byte(result.CardsHTML), 0644)
//	os.WriteFile("cards_meta.json", result.MetaJSON, 0644)
//
// Each \section of each chapter becomes one card. Card titles,
// difficulty levels, and numbering come from an optional JSON or YAML
// config file; without one, everything is auto-detected from the
// sources.
//
// # Conversion Pipeline
//
// The conversion follows these stages:
//
//  1. Project resolution: \input/\include inlining from main.tex,
//     part/chapter detection, preamble metadata and macro extraction
//  2. Section splitting per chapter (exercise sections skipped)
//  3. LaTeX-to-HTML rewriting per card: code extraction and syntax
//     highlighting, math protection for browser-side rendering,
//     theorem-style environments, algorithms, figures, tables, lists,
//     headings, inline formatting
//  4. Card HTML generation with difficulty badges, plus the metadata
//     JSON used by the page's sidebar and tabs
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := tex2html.NewConverter(
//	    tex2html.WithConfigFile("book.json"),
//	    tex2html.WithChapter(3),
//	    tex2html.WithDiagnostics(os.Stderr),
//	)
//
// # TikZ Diagrams
//
// With WithTikzRendering, tikzpicture and tikzcd environments are
// pre-rendered to embedded PNGs using a local LaTeX installation
// (xelatex or pdflatex, plus pdftoppm). Without it, or when the
// toolchain is missing, diagrams degrade to visible placeholder boxes.
package tex2html
