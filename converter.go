package tex2html

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tuanvm/go-tex2html/internal/assemble"
	"github.com/tuanvm/go-tex2html/internal/config"
	"github.com/tuanvm/go-tex2html/internal/fileutil"
	"github.com/tuanvm/go-tex2html/internal/pipeline"
	"github.com/tuanvm/go-tex2html/internal/resolve"
	"github.com/tuanvm/go-tex2html/internal/tikz"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.DiagramRenderer = (*tikz.Renderer)(nil)
	_ pipeline.DiagramRenderer = (rendererAdapter{})
)

// converterOptions collects option values so explicit options can
// override config-file values regardless of option order.
type converterOptions struct {
	configPath     string
	bookDir        string
	language       string
	title          string
	chaptersDir    string
	chapterPattern string
	numChapters    int
	defaultDiff    int
	chapter        int
}

// Converter turns a LaTeX book into HTML reference cards. Create with
// NewConverter; a Converter is safe for sequential reuse.
type Converter struct {
	opts       converterOptions
	cfg        *config.Config
	diag       io.Writer
	diagrams   DiagramRenderer
	renderTikz bool
}

// rendererAdapter bridges the public DiagramRenderer to the pipeline's
// internal contract.
type rendererAdapter struct {
	r DiagramRenderer
}

func (a rendererAdapter) Render(ctx context.Context, source, kind string) ([]byte, error) {
	return a.r.Render(ctx, source, kind)
}

// NewConverter creates a Converter. Settings come from an optional
// config file plus explicit options; explicit options win.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{diag: io.Discard}
	for _, opt := range opts {
		opt(c)
	}

	if c.opts.configPath != "" {
		path, err := config.Find(c.opts.configPath, c.opts.bookDir)
		if err != nil {
			return nil, err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		c.cfg = cfg
	} else {
		c.cfg = config.DefaultConfig()
	}

	if c.opts.bookDir != "" {
		c.cfg.BookDir = c.opts.bookDir
	}
	if c.opts.language != "" {
		c.cfg.Language = c.opts.language
	}
	if c.opts.title != "" {
		c.cfg.Title = c.opts.title
	}
	if c.opts.chaptersDir != "" {
		c.cfg.ChaptersDir = c.opts.chaptersDir
	}
	if c.opts.chapterPattern != "" {
		c.cfg.ChapterPattern = c.opts.chapterPattern
	}
	if c.opts.numChapters > 0 {
		c.cfg.NumChapters = c.opts.numChapters
	}
	if c.opts.defaultDiff > 0 {
		c.cfg.DefaultDifficulty = c.opts.defaultDiff
	}

	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// chapterSource is one chapter's content ready for section splitting.
type chapterSource struct {
	num     int
	title   string
	content string
}

var (
	chapterTitleRe = regexp.MustCompile(`\\chapter\*?\{((?:[^{}]|\{[^{}]*\})*)\}`)
	chapterNumRe   = regexp.MustCompile(`\d+`)
)

// ConvertBook converts the configured book (or the single chapter
// selected with WithChapter) into cards and metadata.
func (c *Converter) ConvertBook(ctx context.Context) (*Result, error) {
	sources, proj, err := c.chapterSources()
	if err != nil {
		return nil, err
	}

	// Card numbering spans the whole book, so metadata is built from
	// every chapter even when converting just one.
	meta, explicit := c.cardMeta(sources)

	selected := sources
	if c.opts.chapter > 0 {
		selected = nil
		for _, src := range sources {
			if src.num == c.opts.chapter {
				selected = append(selected, src)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: chapter %d", ErrChapterNotFound, c.opts.chapter)
		}
	}

	renderer := c.diagramRenderer(proj)
	envs := c.environments(proj)
	imageDirs := c.imageDirs(proj)

	var htmls []string
	var infos []assemble.CardInfo

	for _, src := range selected {
		fmt.Fprintf(c.diag, "Chapter %d: %s\n", src.num, src.title)

		figures := &pipeline.Counter{}
		tables := &pipeline.Counter{}
		sections := pipeline.SplitSections(pipeline.StripComments(src.content), c.cfg.ExerciseKeywords)

		for idx, sec := range sections {
			cm, ok := meta[sectionKey{src.num, idx}]
			if !ok {
				cm = cardEntry{
					stt:  900 + idx,
					en:   assemble.CleanTitleForEN(sec.Title),
					diff: c.cfg.DefaultDifficulty,
				}
				if explicit {
					fmt.Fprintf(c.diag, "  WARNING: no metadata for (%d,%d): %q -> stt=%d\n",
						src.num, idx, sec.Title, cm.stt)
				}
			}

			html := pipeline.Convert(ctx, sec.Content, pipeline.Options{
				Environments:   envs,
				ProofLabel:     c.cfg.ResolvedProofLabel(),
				CrossRefText:   c.cfg.ResolvedCrossRefText(),
				FigureLabel:    c.cfg.FigureLabel(),
				TableLabel:     c.cfg.TableLabel(),
				AlgorithmLabel: c.cfg.AlgorithmLabel(),
				ImageDirs:      imageDirs,
				CardSTT:        cm.stt,
				FigureCounter:  figures,
				TableCounter:   tables,
				Diagrams:       renderer,
				Diag:           c.diag,
			})

			info := assemble.CardInfo{
				STT:     cm.stt,
				Chapter: src.num,
				Title:   sec.Title,
				TitleEN: cm.en,
				Diff:    cm.diff,
			}
			htmls = append(htmls, assemble.CardHTML(info, html, c.cfg.DiffColors))
			infos = append(infos, info)
			fmt.Fprintf(c.diag, "  Card %3d: Ch.%d [%d] %s\n", cm.stt, src.num, cm.diff, sec.Title)
		}
	}

	return c.buildResult(sources, proj, htmls, infos)
}

// Sections lists detected sections per chapter without converting,
// for dry-run output.
func (c *Converter) Sections() ([]SectionInfo, error) {
	sources, _, err := c.chapterSources()
	if err != nil {
		return nil, err
	}

	var out []SectionInfo
	for _, src := range sources {
		if c.opts.chapter > 0 && src.num != c.opts.chapter {
			continue
		}
		sections := pipeline.SplitSections(pipeline.StripComments(src.content), c.cfg.ExerciseKeywords)
		for idx, sec := range sections {
			out = append(out, SectionInfo{Chapter: src.num, Index: idx, Title: sec.Title})
		}
	}
	if c.opts.chapter > 0 && len(out) == 0 {
		return nil, fmt.Errorf("%w: chapter %d", ErrChapterNotFound, c.opts.chapter)
	}
	return out, nil
}

// chapterSources locates and reads the book's chapters: the configured
// filename pattern first, then any .tex files in the chapters
// directory, then chapters inlined in main.tex.
func (c *Converter) chapterSources() ([]chapterSource, *resolve.Project, error) {
	if c.cfg.BookDir == "" {
		return nil, nil, ErrNoBookDir
	}

	var proj *resolve.Project
	if mainTex := c.cfg.MainTexPath(); fileutil.FileExists(mainTex) {
		p, err := resolve.NewResolver(c.diag).Project(mainTex)
		if err != nil {
			fmt.Fprintf(c.diag, "WARNING: cannot resolve %s: %v\n", mainTex, err)
		} else {
			proj = p
		}
	}

	chaptersDir, err := c.cfg.ChaptersPath()
	if err != nil {
		return nil, nil, err
	}

	var sources []chapterSource
	if c.cfg.NumChapters > 0 {
		for num := 1; num <= c.cfg.NumChapters; num++ {
			path := filepath.Join(chaptersDir, fmt.Sprintf(c.cfg.ChapterPattern, num))
			if src, ok := c.readChapter(path, num, proj); ok {
				sources = append(sources, src)
			}
		}
	} else {
		matches, _ := filepath.Glob(filepath.Join(chaptersDir, "*.tex"))
		sort.Strings(matches)
		for i, path := range matches {
			if src, ok := c.readChapter(path, chapterNumFromName(path, i+1), proj); ok {
				sources = append(sources, src)
			}
		}
	}

	if len(sources) == 0 && proj != nil {
		for _, ch := range proj.Chapters {
			sources = append(sources, chapterSource{num: ch.Num, title: ch.Title, content: ch.Content})
		}
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("%w: in %s", ErrNoChapters, chaptersDir)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].num < sources[j].num })
	return sources, proj, nil
}

func (c *Converter) readChapter(path string, num int, proj *resolve.Project) (chapterSource, bool) {
	data, err := os.ReadFile(path) // #nosec G304 -- chapter path from book config
	if err != nil {
		fmt.Fprintf(c.diag, "WARNING: cannot read %s: %v\n", path, err)
		return chapterSource{}, false
	}
	content := string(data)
	return chapterSource{num: num, title: c.chapterTitle(content, num, proj), content: content}, true
}

func (c *Converter) chapterTitle(content string, num int, proj *resolve.Project) string {
	if m := chapterTitleRe.FindStringSubmatch(content); m != nil {
		return resolve.CleanLatex(m[1])
	}
	if proj != nil {
		for _, ch := range proj.Chapters {
			if ch.Num == num {
				return ch.Title
			}
		}
	}
	if c.cfg.Language == "vi" {
		return fmt.Sprintf("Chương %d", num)
	}
	return fmt.Sprintf("Chapter %d", num)
}

// chapterNumFromName extracts a chapter number from a filename like
// ch07.tex, falling back to the file's position.
func chapterNumFromName(path string, fallback int) int {
	digits := chapterNumRe.FindString(filepath.Base(path))
	if digits != "" {
		if n, err := strconv.Atoi(digits); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

type sectionKey struct {
	ch, idx int
}

type cardEntry struct {
	stt  int
	en   string
	diff int
}

// cardMeta builds the per-section card lookup. With explicit cards in
// the config, sections map to them by per-chapter order; otherwise
// cards are auto-numbered by scanning every chapter's section titles.
func (c *Converter) cardMeta(sources []chapterSource) (map[sectionKey]cardEntry, bool) {
	meta := map[sectionKey]cardEntry{}

	if len(c.cfg.Cards) > 0 {
		cards := append([]config.Card(nil), c.cfg.Cards...)
		sort.Slice(cards, func(i, j int) bool { return cards[i].STT < cards[j].STT })
		perChapter := map[int]int{}
		for _, card := range cards {
			idx := perChapter[card.Chapter]
			perChapter[card.Chapter] = idx + 1
			diff := card.Diff
			if diff == 0 {
				diff = c.cfg.DefaultDifficulty
			}
			meta[sectionKey{card.Chapter, idx}] = cardEntry{stt: card.STT, en: card.TitleEN, diff: diff}
		}
		return meta, true
	}

	stt := 1
	for _, src := range sources {
		sections := pipeline.SplitSections(pipeline.StripComments(src.content), c.cfg.ExerciseKeywords)
		for idx, sec := range sections {
			meta[sectionKey{src.num, idx}] = cardEntry{
				stt:  stt,
				en:   assemble.CleanTitleForEN(sec.Title),
				diff: c.cfg.DefaultDifficulty,
			}
			stt++
		}
	}
	return meta, false
}

// environments merges the config's environment mapping with theorem
// and box environments declared in the book's preamble.
func (c *Converter) environments(proj *resolve.Project) map[string]pipeline.EnvSpec {
	envs := map[string]pipeline.EnvSpec{}
	for name, env := range c.cfg.ResolveEnvironments() {
		envs[name] = pipeline.EnvSpec{CSS: env.CSS, Label: env.Label}
	}
	if proj != nil {
		for name, env := range proj.CustomEnvs {
			if _, ok := envs[name]; ok {
				continue
			}
			css := "box-note"
			if env.Kind == "theorem" {
				css = "env-theorem"
			}
			envs[name] = pipeline.EnvSpec{CSS: css, Label: env.Label}
		}
	}
	return envs
}

func (c *Converter) imageDirs(proj *resolve.Project) []string {
	if proj != nil && len(proj.ImageDirs) > 0 {
		return proj.ImageDirs
	}
	var dirs []string
	for _, name := range []string{"images", "figures", "imgs", "fig"} {
		dir := filepath.Join(c.cfg.BookDir, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// diagramRenderer picks the diagram backend: an injected renderer
// first, then the local LaTeX toolchain when enabled and present.
func (c *Converter) diagramRenderer(proj *resolve.Project) pipeline.DiagramRenderer {
	if c.diagrams != nil {
		return rendererAdapter{r: c.diagrams}
	}
	if !c.renderTikz {
		return nil
	}
	preamble := ""
	if proj != nil {
		preamble = proj.TikzPreamble
	}
	r := tikz.NewRenderer(preamble)
	if !r.Available() {
		fmt.Fprintln(c.diag, "WARNING: xelatex/pdflatex or pdftoppm not found, TikZ diagrams become placeholders")
		return nil
	}
	return r
}

func (c *Converter) buildResult(sources []chapterSource, proj *resolve.Project, htmls []string, infos []assemble.CardInfo) (*Result, error) {
	chapterTitles := map[int]string{}
	metaChapters := map[string]string{}
	for _, src := range sources {
		chapterTitles[src.num] = src.title
		metaChapters[strconv.Itoa(src.num)] = src.title
	}

	var parts []Part
	var metaParts []assemble.PartInfo
	if proj != nil {
		for _, p := range proj.Parts {
			parts = append(parts, Part{Num: p.Num, Name: p.Name, Chapters: p.Chapters})
			metaParts = append(metaParts, assemble.PartInfo{Num: p.Num, Name: p.Name, Chapters: p.Chapters})
		}
	}

	metaJSON, err := assemble.Metadata{Cards: infos, Chapters: metaChapters, Parts: metaParts}.MarshalIndent()
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}

	cards := make([]Card, len(infos))
	for i, info := range infos {
		cards[i] = Card{STT: info.STT, Chapter: info.Chapter, Title: info.Title, TitleEN: info.TitleEN, Diff: info.Diff}
	}

	result := &Result{
		CardsHTML:   strings.Join(htmls, "\n\n") + "\n",
		MetaJSON:    metaJSON,
		Cards:       cards,
		Chapters:    chapterTitles,
		Parts:       parts,
		Title:       c.cfg.Title,
		Author:      c.cfg.Author,
		Language:    c.cfg.Language,
		KatexMacros: map[string]string{},
	}
	if proj != nil {
		if proj.Title != "" && (c.cfg.Title == "" || c.cfg.Title == config.DefaultConfig().Title) && c.opts.title == "" {
			result.Title = proj.Title
		}
		if result.Author == "" {
			result.Author = proj.Author
		}
		result.BibFile = proj.BibFile
		for k, v := range proj.KatexMacros {
			result.KatexMacros[k] = v
		}
	}
	for k, v := range c.cfg.KatexMacros {
		result.KatexMacros[k] = v
	}
	return result, nil
}
