// Package resolve analyzes a LaTeX project starting from its main
// file: it recursively inlines \input/\include/\subimport, splits
// preamble from body, extracts metadata and custom macros from the
// preamble, and detects the part/chapter structure. The result is a
// normalized Project the conversion pipeline can process without
// touching the filesystem again.
package resolve

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tuanvm/go-tex2html/internal/fileutil"
)

// Sentinel errors for project resolution.
var (
	ErrMainNotFound = errors.New("main tex file not found")
)

// maxIncludeDepth bounds recursive include resolution.
const maxIncludeDepth = 20

// Chapter is one top-level unit of the book with its content fully
// inlined.
type Chapter struct {
	Num     int
	Title   string
	Content string
	Source  string
}

// Part groups chapters under a Roman-numeral part heading.
type Part struct {
	Num      string
	Name     string
	Chapters []int
}

// CustomEnv is an environment declared in the preamble via \newtheorem
// or tcolorbox.
type CustomEnv struct {
	Label string
	Kind  string // "theorem" or "box"
}

// Project is the fully resolved structure of a LaTeX book.
type Project struct {
	RootDir  string
	MainTex  string
	DocClass string
	Title    string
	Subtitle string
	Author   string
	Date     string
	Preamble string
	Body     string

	Parts    []Part
	Chapters []Chapter

	BibFile      string
	ImageDirs    []string
	CustomEnvs   map[string]CustomEnv
	KatexMacros  map[string]string
	TikzPreamble string

	// raw preamble references, resolved against the filesystem later
	bibReference  string
	graphicsPaths []string
}

// Resolver reads and resolves LaTeX projects. Diag receives warnings
// about unresolvable includes and similar soft failures.
type Resolver struct {
	Diag io.Writer
}

// NewResolver returns a Resolver writing diagnostics to diag. Nil
// discards them.
func NewResolver(diag io.Writer) *Resolver {
	if diag == nil {
		diag = io.Discard
	}
	return &Resolver{Diag: diag}
}

var (
	inputCmdRe     = regexp.MustCompile(`\\(input|include)\{([^}]*)\}`)
	subimportCmdRe = regexp.MustCompile(`\\(?:sub)?import\{([^}]*)\}\{([^}]*)\}`)
	beginDocRe     = regexp.MustCompile(`\\begin\{document\}`)
	endDocRe       = regexp.MustCompile(`\\end\{document\}`)
	usePackageRe   = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{([^}]+)\}`)
)

// Project resolves a LaTeX project from its main .tex file.
func (r *Resolver) Project(mainTexPath string) (*Project, error) {
	abs, err := filepath.Abs(mainTexPath)
	if err != nil {
		return nil, fmt.Errorf("resolving main tex path: %w", err)
	}
	if !fileutil.FileExists(abs) {
		return nil, fmt.Errorf("%w: %s", ErrMainNotFound, mainTexPath)
	}

	rootDir := filepath.Dir(abs)
	p := &Project{
		RootDir:     rootDir,
		MainTex:     abs,
		DocClass:    "book",
		CustomEnvs:  map[string]CustomEnv{},
		KatexMacros: map[string]string{},
	}

	full := r.resolveIncludes(abs, rootDir, map[string]bool{}, 0)

	if loc := beginDocRe.FindStringIndex(full); loc != nil {
		p.Preamble = full[:loc[0]]
		body := full[loc[1]:]
		if end := endDocRe.FindStringIndex(body); end != nil {
			body = body[:end[0]]
		}
		p.Body = body
	} else {
		p.Body = full
	}

	// Local .sty files carry macro and environment declarations too.
	p.Preamble += r.inlineLocalStyles(p.Preamble, rootDir)

	parsePreamble(p)
	r.resolveBibFile(p)
	r.resolveImageDirs(p)

	body := stripComments(p.Body)
	p.Parts, p.Chapters = detectStructure(body, p.DocClass)

	return p, nil
}

// resolveIncludes recursively inlines include commands. Missing files
// and circular includes degrade to warnings, leaving the command in
// place or dropping the cycle.
func (r *Resolver) resolveIncludes(path, rootDir string, visited map[string]bool, depth int) string {
	if depth > maxIncludeDepth {
		fmt.Fprintf(r.Diag, "  WARNING: max include depth (%d) reached at %s\n", maxIncludeDepth, path)
		return ""
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	if visited[abs] {
		fmt.Fprintf(r.Diag, "  WARNING: circular include detected: %s\n", path)
		return ""
	}
	visited[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		fmt.Fprintf(r.Diag, "  WARNING: cannot read %s: %v\n", path, err)
		return ""
	}
	text := string(data)
	currentDir := filepath.Dir(abs)

	text = replaceOutsideComments(text, inputCmdRe, func(g []string) (string, bool) {
		cmd, filename := g[1], strings.TrimSpace(g[2])
		resolved := resolveFilePath(filename, currentDir, rootDir)
		if resolved == "" {
			fmt.Fprintf(r.Diag, "  WARNING: include not found: \\%s{%s} (from %s)\n", cmd, filename, path)
			return "", false
		}
		content := r.resolveIncludes(resolved, rootDir, visited, depth+1)
		if cmd == "include" {
			content = "\n\\clearpage\n" + content + "\n\\clearpage\n"
		}
		return content, true
	})

	text = replaceOutsideComments(text, subimportCmdRe, func(g []string) (string, bool) {
		subdir, filename := strings.TrimSpace(g[1]), strings.TrimSpace(g[2])
		searchDir := currentDir
		if subdir != "" {
			searchDir = filepath.Join(currentDir, subdir)
		}
		resolved := resolveFilePath(filename, searchDir, rootDir)
		if resolved == "" {
			fmt.Fprintf(r.Diag, "  WARNING: subimport not found: %s%s (from %s)\n", subdir, filename, path)
			return "", false
		}
		return r.resolveIncludes(resolved, rootDir, visited, depth+1), true
	})

	return text
}

// replaceOutsideComments substitutes re matches unless the match sits
// behind an unescaped % on its line. Each match is checked at its own
// offset, so a commented-out duplicate of a line elsewhere in the file
// cannot shadow the real one. fn returns the replacement and whether to
// replace at all.
func replaceOutsideComments(text string, re *regexp.Regexp, fn func(groups []string) (string, bool)) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		b.WriteString(text[last:start])
		last = end

		lineStart := strings.LastIndexByte(text[:start], '\n') + 1
		if hasUnescapedPercent(text[lineStart:start]) {
			b.WriteString(text[start:end])
			continue
		}

		groups := make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				groups = append(groups, "")
			} else {
				groups = append(groups, text[loc[i]:loc[i+1]])
			}
		}
		out, ok := fn(groups)
		if !ok {
			out = text[start:end]
		}
		b.WriteString(out)
	}
	b.WriteString(text[last:])
	return b.String()
}

// hasUnescapedPercent reports whether the line fragment contains a %
// that starts a comment. \% is a literal percent sign, not a comment.
func hasUnescapedPercent(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i == 0 || s[i-1] != '\\') {
			return true
		}
	}
	return false
}

// resolveFilePath finds a referenced .tex file relative to the current
// file's directory, then the project root, trying the name as written
// and with .tex appended.
func resolveFilePath(filename, currentDir, rootDir string) string {
	var candidates []string
	add := func(dir string) {
		candidates = append(candidates, filepath.Join(dir, filename))
		if !strings.HasSuffix(filename, ".tex") {
			candidates = append(candidates, filepath.Join(dir, filename+".tex"))
		}
	}
	add(currentDir)
	if currentDir != rootDir {
		add(rootDir)
	}
	for _, c := range candidates {
		if fileutil.FileExists(c) {
			abs, err := filepath.Abs(c)
			if err == nil {
				return abs
			}
		}
	}
	return ""
}

// inlineLocalStyles returns the concatenated contents of local .sty
// files referenced by \usepackage, so their macro declarations are
// visible to preamble parsing.
func (r *Resolver) inlineLocalStyles(preamble, rootDir string) string {
	var extra strings.Builder
	for _, m := range usePackageRe.FindAllStringSubmatch(preamble, -1) {
		pkg := m[1]
		for _, candidate := range []string{
			filepath.Join(rootDir, pkg+".sty"),
			filepath.Join(rootDir, pkg),
		} {
			data, err := os.ReadFile(candidate)
			if err == nil {
				extra.WriteString("\n")
				extra.Write(data)
				break
			}
		}
	}
	return extra.String()
}

func (r *Resolver) resolveBibFile(p *Project) {
	bib := p.bibReference
	if bib == "" {
		return
	}
	for _, candidate := range []string{
		filepath.Join(p.RootDir, bib),
		filepath.Join(p.RootDir, "references.bib"),
		filepath.Join(p.RootDir, "bibliography.bib"),
		filepath.Join(p.RootDir, "refs.bib"),
	} {
		if fileutil.FileExists(candidate) {
			p.BibFile = candidate
			return
		}
	}
	fmt.Fprintf(r.Diag, "  WARNING: bibliography file not found: %s\n", bib)
}

func (r *Resolver) resolveImageDirs(p *Project) {
	seen := map[string]bool{}
	add := func(d string) {
		if seen[d] {
			return
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			p.ImageDirs = append(p.ImageDirs, d)
			seen[d] = true
		}
	}
	for _, d := range p.graphicsPaths {
		add(filepath.Join(p.RootDir, d))
	}
	for _, name := range []string{"images", "figures", "imgs", "fig"} {
		add(filepath.Join(p.RootDir, name))
	}
}
