// Package pipeline implements the LaTeX-to-HTML content transformation
// pipeline: an ordered sequence of text-rewriting passes that turn raw
// LaTeX section content into a self-contained HTML fragment.
//
// The pass order is fixed and load-bearing. Code blocks are extracted
// before anything else so their content is never reinterpreted as
// LaTeX; math is protected behind opaque placeholder tokens before the
// structural conversions run; paragraph wrapping happens while math and
// code are still single atomic tokens; and restoration happens last,
// math strictly before code.
//
// The pipeline never fails on malformed input. Unrecognized commands
// and environments pass through unchanged.
package pipeline
