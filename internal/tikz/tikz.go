// Package tikz pre-renders TikZ and tikz-cd environments to PNG by
// compiling a standalone LaTeX document with xelatex (or pdflatex) and
// rasterizing the resulting PDF with pdftoppm. It implements the
// pipeline's DiagramRenderer contract; callers degrade to placeholder
// boxes when rendering is unavailable.
package tikz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tuanvm/go-tex2html/internal/fileutil"
)

// Sentinel errors for diagram rendering.
var (
	ErrNoLatex       = errors.New("xelatex/pdflatex not available")
	ErrNoPdftoppm    = errors.New("pdftoppm not available")
	ErrCompileFailed = errors.New("latex compilation failed")
	ErrRasterFailed  = errors.New("pdf rasterization failed")
)

// Compile and rasterization bounds. TikZ sources come from the book
// being converted, so a runaway picture must not stall the whole run.
const (
	compileTimeout = 30 * time.Second
	rasterTimeout  = 10 * time.Second
	rasterDPI      = "200"
)

// tikzLibraries are loaded for every standalone tikzpicture document,
// covering what book diagrams commonly use.
const tikzLibraries = "arrows,arrows.meta,shapes,shapes.geometric," +
	"positioning,calc,decorations.pathreplacing,fit,backgrounds," +
	"matrix,patterns"

// CommandRunner abstracts external command execution to enable testing
// without a TeX installation.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	LookPath(name string) (string, error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Run()
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Renderer compiles diagram sources to PNG bytes.
type Renderer struct {
	Runner CommandRunner

	// Preamble is appended to the standalone document, carrying the
	// book's \usetikzlibrary and pgfplots settings.
	Preamble string
}

// NewRenderer returns a Renderer running real commands.
func NewRenderer(preamble string) *Renderer {
	return &Renderer{Runner: ExecRunner{}, Preamble: preamble}
}

// Available reports whether the LaTeX toolchain needed for rendering is
// installed.
func (r *Renderer) Available() bool {
	if _, err := r.latexCommand(); err != nil {
		return false
	}
	_, err := r.Runner.LookPath("pdftoppm")
	return err == nil
}

// latexCommand prefers xelatex, which handles UTF-8 natively.
func (r *Renderer) latexCommand() (string, error) {
	if path, err := r.Runner.LookPath("xelatex"); err == nil {
		return path, nil
	}
	if path, err := r.Runner.LookPath("pdflatex"); err == nil {
		return path, nil
	}
	return "", ErrNoLatex
}

// Render compiles one diagram environment to PNG. Kind selects the
// preamble: "tikzcd" documents load tikz-cd, everything else gets the
// full tikz library set.
func (r *Renderer) Render(ctx context.Context, source, kind string) ([]byte, error) {
	latex, err := r.latexCommand()
	if err != nil {
		return nil, err
	}
	if _, err := r.Runner.LookPath("pdftoppm"); err != nil {
		return nil, ErrNoPdftoppm
	}

	texPath, cleanup, err := fileutil.WriteTempFile(r.standaloneDoc(source, kind), "tex")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outDir, err := os.MkdirTemp("", "tikz-out-")
	if err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	compileCtx, cancel := context.WithTimeout(ctx, compileTimeout)
	defer cancel()
	err = r.Runner.Run(compileCtx, outDir, latex,
		"-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", outDir, texPath)

	base := stripExt(filepath.Base(texPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	// The compiler exits nonzero on recoverable warnings too; the PDF
	// existing is the real success signal.
	if !fileutil.FileExists(pdfPath) {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompileFailed, err)
		}
		return nil, ErrCompileFailed
	}

	pngPrefix := filepath.Join(outDir, base)
	rasterCtx, cancel := context.WithTimeout(ctx, rasterTimeout)
	defer cancel()
	if err := r.Runner.Run(rasterCtx, outDir, "pdftoppm",
		"-png", "-r", rasterDPI, "-singlefile", pdfPath, pngPrefix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterFailed, err)
	}

	png, err := os.ReadFile(pngPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterFailed, err)
	}
	return png, nil
}

// standaloneDoc wraps a diagram source in a minimal compilable
// document.
func (r *Renderer) standaloneDoc(source, kind string) string {
	doc := "\\documentclass[border=5pt]{standalone}\n" +
		"\\usepackage{fontspec}\n" +
		"\\usepackage{tikz}\n"
	if kind == "tikzcd" {
		doc += "\\usepackage{tikz-cd}\n"
	} else {
		doc += "\\usetikzlibrary{" + tikzLibraries + "}\n"
	}
	doc += "\\usepackage{amsmath,amssymb}\n"
	if r.Preamble != "" {
		doc += r.Preamble + "\n"
	}
	return doc + "\\begin{document}\n" + source + "\n\\end{document}\n"
}

func stripExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
