package pipeline

import (
	"strings"
	"testing"
)

func TestConvertInlineFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bold",
			input:    `\textbf{strong}`,
			expected: "<strong>strong</strong>",
		},
		{
			name:     "italic",
			input:    `\textit{slanted}`,
			expected: "<em>slanted</em>",
		},
		{
			name:     "emph",
			input:    `\emph{noted}`,
			expected: "<em>noted</em>",
		},
		{
			name:     "teletype",
			input:    `\texttt{mono}`,
			expected: "<code>mono</code>",
		},
		{
			name:     "small caps unwrapped",
			input:    `\textsc{Name}`,
			expected: "Name",
		},
		{
			name:     "underline",
			input:    `\underline{below}`,
			expected: "<u>below</u>",
		},
		{
			name:     "nested bold italic",
			input:    `\textbf{\textit{both}}`,
			expected: "<strong><em>both</em></strong>",
		},
		{
			name:     "three levels deep",
			input:    `\textbf{\textit{\texttt{all}}}`,
			expected: "<strong><em><code>all</code></em></strong>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := convertInline(tt.input, "(see related section)")
			if got != tt.expected {
				t.Errorf("convertInline() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConvertInlineTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "termfull",
			input:    `\termfull{đồ thị}{graph}{một cấu trúc}`,
			expected: "<strong>đồ thị</strong> (<em>graph</em>): một cấu trúc",
		},
		{
			name:     "term",
			input:    `\term{đỉnh}{vertex}`,
			expected: "<strong>đỉnh</strong> (<em>vertex</em>)",
		},
		{
			name:     "termshort",
			input:    `\termshort{cạnh}`,
			expected: "<strong>cạnh</strong>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := convertInline(tt.input, "")
			if got != tt.expected {
				t.Errorf("convertInline() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConvertInlineReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "cite single",
			input:    `\cite{knuth}`,
			expected: `<span class="cite">[knuth]</span>`,
		},
		{
			name:     "cite multiple",
			input:    `\cite{a, b,c}`,
			expected: `<span class="cite">[a, b, c]</span>`,
		},
		{
			name:     "cref",
			input:    `\cref{sec:intro}`,
			expected: "(xem mục liên quan)",
		},
		{
			name:     "capital Cref",
			input:    `\Cref{sec:intro}`,
			expected: "(xem mục liên quan)",
		},
		{
			name:     "eqref",
			input:    `\eqref{eq:1}`,
			expected: "(PT)",
		},
		{
			name:     "ref",
			input:    `\ref{fig:2}`,
			expected: "(?)",
		},
		{
			name:     "footnote",
			input:    `text\footnote{a note}`,
			expected: "text (a note)",
		},
		{
			name:     "url",
			input:    `\url{https://example.com}`,
			expected: `<a href="https://example.com" target="_blank">https://example.com</a>`,
		},
		{
			name:     "href",
			input:    `\href{https://example.com}{site}`,
			expected: `<a href="https://example.com" target="_blank">site</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := convertInline(tt.input, "(xem mục liên quan)")
			if got != tt.expected {
				t.Errorf("convertInline() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConvertInlineRemovesSpacing(t *testing.T) {
	t.Parallel()

	input := `a\vspace{1em}b\bigskip c\noindent d\phantom{xx}e`
	got := convertInline(input, "")
	if strings.ContainsAny(got, `\`) {
		t.Errorf("spacing commands leaked: %q", got)
	}
}

func TestConvertSpecialChars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "escaped ampersand",
			input:    `a \& b`,
			expected: "a &amp; b",
		},
		{
			name:     "escaped percent and underscore",
			input:    `5\% of x\_y`,
			expected: "5% of x_y",
		},
		{
			name:     "em dash before en dash",
			input:    "a---b--c",
			expected: "a&mdash;b&ndash;c",
		},
		{
			name:     "quote ligatures",
			input:    "``quoted''",
			expected: "“quoted”",
		},
		{
			name:     "ellipsis",
			input:    `wait\ldots done`,
			expected: "wait… done",
		},
		{
			name:     "nonbreaking space",
			input:    "Fig.~3",
			expected: "Fig. 3",
		},
		{
			name:     "checkmark",
			input:    `\checkmark`,
			expected: "✓",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := convertSpecialChars(tt.input)
			if got != tt.expected {
				t.Errorf("convertSpecialChars() = %q, want %q", got, tt.expected)
			}
		})
	}
}
