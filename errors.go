package tex2html

import "errors"

// Sentinel errors for book conversion.
var (
	// ErrNoBookDir is returned when neither a config file nor an option
	// supplies the book directory.
	ErrNoBookDir = errors.New("book directory not set")

	// ErrNoChapters is returned when no chapter .tex files can be found.
	ErrNoChapters = errors.New("no chapter files found")

	// ErrChapterNotFound is returned when a requested chapter number has
	// no corresponding file.
	ErrChapterNotFound = errors.New("chapter not found")
)
