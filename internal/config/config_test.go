package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "book.json", `{
		"book_dir": "/books/graphs",
		"language": "vi",
		"title": "Đồ thị",
		"num_chapters": 12,
		"cards": [
			{"stt": 1, "ch": 1, "vi": "Đồ thị là gì", "en": "What is a graph", "diff": 2}
		],
		"environments": {
			"_comment": {"css": "x", "label": "ignored"},
			"dieukien": {"css": "box-green", "label": "Điều kiện"}
		}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "Đồ thị" || cfg.NumChapters != 12 {
		t.Errorf("fields not loaded: %+v", cfg)
	}
	// Defaults survive for omitted fields.
	if cfg.ChaptersDir != "chapters" || cfg.ChapterPattern != "ch%02d.tex" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if len(cfg.Cards) != 1 || cfg.Cards[0].Title != "Đồ thị là gì" {
		t.Errorf("cards not loaded: %+v", cfg.Cards)
	}

	envs := cfg.ResolveEnvironments()
	if _, ok := envs["_comment"]; ok {
		t.Error("comment key leaked into environments")
	}
	if envs["dieukien"].Label != "Điều kiện" {
		t.Errorf("user environment missing: %+v", envs["dieukien"])
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "book.yaml", `
book_dir: /books/algebra
language: en
title: Algebra
proof_label: Q.E.D.
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BookDir != "/books/algebra" || cfg.Language != "en" {
		t.Errorf("fields not loaded: %+v", cfg)
	}
	if got := cfg.ResolvedProofLabel(); got != "Q.E.D." {
		t.Errorf("ResolvedProofLabel() = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bad.json", `{not json`)
	if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
		t.Errorf("error = %v, want ErrConfigParse", err)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	if err := os.WriteFile(path, []byte("language: vi"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Find("book", dir)
	if err != nil || got != path {
		t.Errorf("Find(name) = %q, %v", got, err)
	}

	got, err = Find(path)
	if err != nil || got != path {
		t.Errorf("Find(path) = %q, %v", got, err)
	}

	if _, err := Find("absent", dir); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
	if _, err := Find(filepath.Join(dir, "absent.json")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestValidateDifficulty(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.DefaultDifficulty = 11
	if err := cfg.Validate(); !errors.Is(err, ErrBadDifficulty) {
		t.Errorf("error = %v, want ErrBadDifficulty", err)
	}

	cfg = DefaultConfig()
	cfg.Cards = []Card{{STT: 1, Diff: -3}}
	if err := cfg.Validate(); !errors.Is(err, ErrBadDifficulty) {
		t.Errorf("error = %v, want ErrBadDifficulty", err)
	}
}

func TestResolveEnvironmentsVietnamese(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	envs := cfg.ResolveEnvironments()

	if envs["dinhly"].Label != "Định lý" {
		t.Errorf("vi label not applied: %+v", envs["dinhly"])
	}
	if envs["theorem"].Label != "Theorem" {
		t.Errorf("english environment changed: %+v", envs["theorem"])
	}

	cfg.Language = "en"
	envs = cfg.ResolveEnvironments()
	if envs["dinhly"].Label != "Dinh ly" {
		t.Errorf("en config should keep ascii label: %+v", envs["dinhly"])
	}
}

func TestLocalizedLabels(t *testing.T) {
	t.Parallel()

	vi := DefaultConfig()
	if vi.FigureLabel() != "Hình" || vi.TableLabel() != "Bảng" || vi.AlgorithmLabel() != "Thuật toán" {
		t.Error("vi labels wrong")
	}
	if vi.ResolvedProofLabel() != "Chứng minh" {
		t.Errorf("vi proof label = %q", vi.ResolvedProofLabel())
	}

	en := DefaultConfig()
	en.Language = "en"
	if en.FigureLabel() != "Figure" || en.ResolvedCrossRefText() != "(see related section)" {
		t.Error("en labels wrong")
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	cfg := FromBookDir("/books/x")
	chapters, err := cfg.ChaptersPath()
	if err != nil || chapters != filepath.Join("/books/x", "chapters") {
		t.Errorf("ChaptersPath() = %q, %v", chapters, err)
	}
	if cfg.MainTexPath() != filepath.Join("/books/x", "main.tex") {
		t.Errorf("MainTexPath() = %q", cfg.MainTexPath())
	}

	if _, err := DefaultConfig().ChaptersPath(); !errors.Is(err, ErrNoBookDir) {
		t.Errorf("error = %v, want ErrNoBookDir", err)
	}
}

func TestDiffColor(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.DiffColor(1) != "#48bb78" {
		t.Errorf("DiffColor(1) = %q", cfg.DiffColor(1))
	}
	if cfg.DiffColor(99) != "#4299e1" {
		t.Errorf("DiffColor(99) should fall back: %q", cfg.DiffColor(99))
	}
}
