// Package config holds the book conversion configuration: chapter
// discovery settings, environment mappings, localized labels, and card
// metadata. Configs load from JSON or YAML files; every field has a
// usable default so a bare book directory converts without any config
// at all.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/tuanvm/go-tex2html/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrNoBookDir      = errors.New("book directory is not set")
	ErrBadDifficulty  = errors.New("difficulty out of range")
)

// MaxConfigSize limits config input to prevent memory exhaustion.
var MaxConfigSize = 1 << 20

// Environment describes how one LaTeX environment renders.
type Environment struct {
	CSS   string `yaml:"css" json:"css"`
	Label string `yaml:"label" json:"label"`
}

// Card is explicit per-card metadata from the config. When the config
// carries no card list, cards are auto-detected from the chapters.
type Card struct {
	STT     int    `yaml:"stt" json:"stt"`
	Chapter int    `yaml:"ch" json:"ch"`
	Title   string `yaml:"vi" json:"vi"`
	TitleEN string `yaml:"en" json:"en"`
	Diff    int    `yaml:"diff" json:"diff"`
}

// Config holds all configuration for a conversion run.
type Config struct {
	BookDir        string `yaml:"book_dir" json:"book_dir"`
	ChaptersDir    string `yaml:"chapters_dir" json:"chapters_dir"`
	ChapterPattern string `yaml:"chapter_pattern" json:"chapter_pattern"`
	NumChapters    int    `yaml:"num_chapters" json:"num_chapters"`
	MainTex        string `yaml:"main_tex" json:"main_tex"`
	Language       string `yaml:"language" json:"language"`
	Title          string `yaml:"title" json:"title"`
	Author         string `yaml:"author" json:"author"`

	Environments      map[string]Environment `yaml:"environments" json:"environments"`
	Cards             []Card                 `yaml:"cards" json:"cards"`
	ExerciseKeywords  []string               `yaml:"exercise_keywords" json:"exercise_keywords"`
	KatexMacros       map[string]string      `yaml:"katex_macros" json:"katex_macros"`
	DiffColors        map[int]string         `yaml:"diff_colors" json:"diff_colors"`
	CrossRefText      string                 `yaml:"cross_ref_text" json:"cross_ref_text"`
	ProofLabel        string                 `yaml:"proof_label" json:"proof_label"`
	DefaultDifficulty int                    `yaml:"default_difficulty" json:"default_difficulty"`
}

// DefaultConfig returns the configuration used when no config file is
// given: Vietnamese book, auto-detected chapters and cards.
func DefaultConfig() *Config {
	return &Config{
		ChaptersDir:       "chapters",
		ChapterPattern:    "ch%02d.tex",
		MainTex:           "main.tex",
		Language:          "vi",
		Title:             "LaTeX Book",
		ExerciseKeywords:  append([]string(nil), defaultExerciseKeywords...),
		DiffColors:        copyColors(defaultDiffColors),
		DefaultDifficulty: 5,
	}
}

// FromBookDir creates a config by pointing the defaults at a book
// directory, for auto-detect mode.
func FromBookDir(bookDir string) *Config {
	cfg := DefaultConfig()
	cfg.BookDir = bookDir
	return cfg
}

// Load reads a config file, JSON or YAML by extension, and fills in
// defaults for everything the file leaves out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: config too large (%d bytes)", ErrConfigParse, len(data))
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find resolves a config argument that may be a file path or a bare
// name. A bare name is tried with .json, .yaml, and .yml extensions in
// each search directory.
func Find(nameOrPath string, searchDirs ...string) (string, error) {
	if fileutil.IsFilePath(nameOrPath) {
		if fileutil.FileExists(nameOrPath) {
			return nameOrPath, nil
		}
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, nameOrPath)
	}
	for _, dir := range append(searchDirs, ".") {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			candidate := filepath.Join(dir, nameOrPath+ext)
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, nameOrPath)
}

// Validate checks cross-field consistency. Called by Load, available
// to consumers constructing a Config manually.
func (c *Config) Validate() error {
	if c.DefaultDifficulty < 1 || c.DefaultDifficulty > 10 {
		return fmt.Errorf("%w: default_difficulty %d (must be 1-10)", ErrBadDifficulty, c.DefaultDifficulty)
	}
	for _, card := range c.Cards {
		if card.Diff != 0 && (card.Diff < 1 || card.Diff > 10) {
			return fmt.Errorf("%w: card %d has diff %d (must be 1-10)", ErrBadDifficulty, card.STT, card.Diff)
		}
	}
	return nil
}

// ChaptersPath returns the full path to the chapters directory.
func (c *Config) ChaptersPath() (string, error) {
	if c.BookDir == "" {
		return "", ErrNoBookDir
	}
	return filepath.Join(c.BookDir, c.ChaptersDir), nil
}

// MainTexPath returns the full path to the book's main file, or empty
// when no book directory is set.
func (c *Config) MainTexPath() string {
	if c.BookDir == "" {
		return ""
	}
	return filepath.Join(c.BookDir, c.MainTex)
}

// ResolveEnvironments builds the final environment mapping: built-in
// defaults, localized labels for the configured language, then user
// overrides on top.
func (c *Config) ResolveEnvironments() map[string]Environment {
	envs := make(map[string]Environment, len(defaultEnvironments)+len(c.Environments))
	for name, env := range defaultEnvironments {
		envs[name] = env
	}
	if c.Language == "vi" {
		for name, label := range viLabels {
			if env, ok := envs[name]; ok {
				env.Label = label
				envs[name] = env
			}
		}
	}
	for name, env := range c.Environments {
		if strings.HasPrefix(name, "_") {
			continue // comment keys
		}
		if env.CSS == "" {
			env.CSS = "env-theorem"
		}
		if env.Label == "" {
			env.Label = name
		}
		envs[name] = env
	}
	return envs
}

// ResolvedProofLabel returns the proof heading, localized unless the
// config overrides it.
func (c *Config) ResolvedProofLabel() string {
	if c.ProofLabel != "" {
		return c.ProofLabel
	}
	if c.Language == "vi" {
		return "Chứng minh"
	}
	return "Proof"
}

// ResolvedCrossRefText returns the replacement text for unresolvable
// cross references.
func (c *Config) ResolvedCrossRefText() string {
	if c.CrossRefText != "" {
		return c.CrossRefText
	}
	if c.Language == "vi" {
		return "(xem phần liên quan)"
	}
	return "(see related section)"
}

func (c *Config) FigureLabel() string {
	if c.Language == "vi" {
		return "Hình"
	}
	return "Figure"
}

func (c *Config) TableLabel() string {
	if c.Language == "vi" {
		return "Bảng"
	}
	return "Table"
}

func (c *Config) AlgorithmLabel() string {
	if c.Language == "vi" {
		return "Thuật toán"
	}
	return "Algorithm"
}

// DiffColor returns the badge color for a difficulty level.
func (c *Config) DiffColor(diff int) string {
	if color, ok := c.DiffColors[diff]; ok {
		return color
	}
	return "#4299e1"
}

func copyColors(src map[int]string) map[int]string {
	dst := make(map[int]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
