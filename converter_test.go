package tex2html

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeBook builds a minimal two-chapter book fixture.
func writeBook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("main.tex", `\documentclass{book}
\title{Lý thuyết đồ thị}
\author{Nguyễn Văn A}
\begin{document}
\part{Nền tảng}
\input{chapters/ch01}
\input{chapters/ch02}
\end{document}`)

	write("chapters/ch01.tex", `\chapter{Đồ thị cơ bản}
\section{Đồ thị là gì}
Một \textbf{đồ thị} gồm đỉnh và cạnh với $G = (V, E)$.
\section{Bậc của đỉnh}
Tổng bậc bằng $2|E|$.
\section*{Bài tập}
\begin{enumerate}\item Bỏ qua.\end{enumerate}`)

	write("chapters/ch02.tex", `\chapter{Cây}
\section{Cây khung}
\begin{dinhly}
Mọi đồ thị liên thông có cây khung.
\end{dinhly}`)

	return dir
}

func TestConvertBook(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	conv, err := NewConverter(WithBookDir(writeBook(t)), WithDiagnostics(&diag))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		t.Fatalf("ConvertBook() error = %v", err)
	}

	// Three sections total; the starred exercise section is skipped.
	if len(result.Cards) != 3 {
		t.Fatalf("got %d cards, want 3: %+v", len(result.Cards), result.Cards)
	}
	if result.Cards[0].STT != 1 || result.Cards[2].STT != 3 {
		t.Errorf("auto stt wrong: %+v", result.Cards)
	}
	if result.Cards[2].Chapter != 2 || result.Cards[2].Title != "Cây khung" {
		t.Errorf("card 3 wrong: %+v", result.Cards[2])
	}

	if !strings.Contains(result.CardsHTML, `class="concept-card"`) {
		t.Error("cards html missing card divs")
	}
	if !strings.Contains(result.CardsHTML, `data-stt="1"`) {
		t.Error("cards html missing data attributes")
	}
	// The theorem environment converts with the localized label.
	if !strings.Contains(result.CardsHTML, "Định lý 3.1") {
		t.Errorf("environment numbering missing:\n%s", result.CardsHTML)
	}
	// Inline math survives for browser-side rendering.
	if !strings.Contains(result.CardsHTML, "$G = (V, E)$") {
		t.Error("math not preserved")
	}

	if result.Title != "Lý thuyết đồ thị" || result.Author != "Nguyễn Văn A" {
		t.Errorf("book metadata wrong: %q / %q", result.Title, result.Author)
	}
	if len(result.Parts) != 1 || result.Parts[0].Num != "I" {
		t.Errorf("parts wrong: %+v", result.Parts)
	}
	if result.Chapters[1] != "Đồ thị cơ bản" {
		t.Errorf("chapter title wrong: %+v", result.Chapters)
	}

	var meta struct {
		Cards []struct {
			STT int `json:"stt"`
			Ch  int `json:"ch"`
		} `json:"cards"`
		Chapters map[string]string `json:"chapters"`
	}
	if err := json.Unmarshal(result.MetaJSON, &meta); err != nil {
		t.Fatalf("metadata not valid JSON: %v", err)
	}
	if len(meta.Cards) != 3 || meta.Chapters["2"] != "Cây" {
		t.Errorf("metadata wrong: %+v", meta)
	}
}

func TestConvertBookSingleChapter(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithBookDir(writeBook(t)), WithChapter(2))
	if err != nil {
		t.Fatal(err)
	}

	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		t.Fatalf("ConvertBook() error = %v", err)
	}
	if len(result.Cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(result.Cards))
	}
	// Numbering still spans the whole book.
	if result.Cards[0].STT != 3 {
		t.Errorf("stt = %d, want 3", result.Cards[0].STT)
	}

	conv, err = NewConverter(WithBookDir(writeBook(t)), WithChapter(99))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conv.ConvertBook(context.Background()); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("error = %v, want ErrChapterNotFound", err)
	}
}

func TestConvertBookExplicitCards(t *testing.T) {
	t.Parallel()

	dir := writeBook(t)
	cfg := `{
		"book_dir": ` + jsonString(dir) + `,
		"cards": [
			{"stt": 10, "ch": 1, "en": "What is a graph", "diff": 2},
			{"stt": 11, "ch": 1, "en": "Degree", "diff": 4},
			{"stt": 12, "ch": 2, "en": "Spanning tree", "diff": 7}
		]
	}`
	cfgPath := filepath.Join(dir, "book.json")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	conv, err := NewConverter(WithConfigFile(cfgPath))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		t.Fatalf("ConvertBook() error = %v", err)
	}

	if result.Cards[0].STT != 10 || result.Cards[0].Diff != 2 {
		t.Errorf("explicit card not applied: %+v", result.Cards[0])
	}
	if result.Cards[2].TitleEN != "Spanning tree" {
		t.Errorf("english title wrong: %+v", result.Cards[2])
	}
	if !strings.Contains(result.CardsHTML, `data-stt="12"`) {
		t.Error("explicit stt missing from html")
	}
}

func TestConvertBookMissingMeta(t *testing.T) {
	t.Parallel()

	dir := writeBook(t)
	// Only one card configured; the other two sections get fallback stt.
	cfg := `{"book_dir": ` + jsonString(dir) + `, "cards": [{"stt": 1, "ch": 1, "en": "First", "diff": 3}]}`
	cfgPath := filepath.Join(dir, "book.json")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var diag bytes.Buffer
	conv, err := NewConverter(WithConfigFile(cfgPath), WithDiagnostics(&diag))
	if err != nil {
		t.Fatal(err)
	}
	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Cards[1].STT != 901 {
		t.Errorf("fallback stt = %d, want 901", result.Cards[1].STT)
	}
	if !strings.Contains(diag.String(), "WARNING: no metadata") {
		t.Errorf("missing-metadata warning absent: %q", diag.String())
	}
}

func TestConverterOverrides(t *testing.T) {
	t.Parallel()

	dir := writeBook(t)
	conv, err := NewConverter(
		WithBookDir(dir),
		WithTitle("Custom"),
		WithLanguage("en"),
	)
	if err != nil {
		t.Fatal(err)
	}
	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Title != "Custom" {
		t.Errorf("title override lost: %q", result.Title)
	}
	if result.Language != "en" {
		t.Errorf("language override lost: %q", result.Language)
	}
	// English labels apply to environments.
	if strings.Contains(result.CardsHTML, "Định lý 3.1") {
		t.Error("vi label used despite en language")
	}
}

func TestConverterNoBookDir(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conv.ConvertBook(context.Background()); !errors.Is(err, ErrNoBookDir) {
		t.Errorf("error = %v, want ErrNoBookDir", err)
	}
}

func TestConverterNoChapters(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithBookDir(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conv.ConvertBook(context.Background()); !errors.Is(err, ErrNoChapters) {
		t.Errorf("error = %v, want ErrNoChapters", err)
	}
}

func TestSections(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithBookDir(writeBook(t)))
	if err != nil {
		t.Fatal(err)
	}
	sections, err := conv.Sections()
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3: %+v", len(sections), sections)
	}
	if sections[0].Chapter != 1 || sections[0].Index != 0 || sections[0].Title != "Đồ thị là gì" {
		t.Errorf("first section wrong: %+v", sections[0])
	}
	if sections[2].Chapter != 2 || sections[2].Title != "Cây khung" {
		t.Errorf("last section wrong: %+v", sections[2])
	}
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(ctx context.Context, source, kind string) ([]byte, error) {
	s.calls++
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func TestConvertBookDiagramRenderer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "chapters"), 0o755); err != nil {
		t.Fatal(err)
	}
	chapter := `\chapter{Hình}
\section{Sơ đồ}
\begin{tikzpicture}\node{x};\end{tikzpicture}`
	if err := os.WriteFile(filepath.Join(dir, "chapters", "ch01.tex"), []byte(chapter), 0o644); err != nil {
		t.Fatal(err)
	}

	stub := &stubRenderer{}
	conv, err := NewConverter(WithBookDir(dir), WithDiagramRenderer(stub))
	if err != nil {
		t.Fatal(err)
	}
	result, err := conv.ConvertBook(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stub.calls != 1 {
		t.Errorf("renderer calls = %d, want 1", stub.calls)
	}
	if !strings.Contains(result.CardsHTML, "data:image/png;base64,") {
		t.Error("rendered diagram not embedded")
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
