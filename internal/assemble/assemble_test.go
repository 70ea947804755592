package assemble

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tuanvm/go-tex2html/internal/bibtex"
)

func TestCardHTML(t *testing.T) {
	t.Parallel()

	info := CardInfo{STT: 42, Chapter: 7, Title: `Đồ thị "phẳng"`, TitleEN: "Planar graph", Diff: 6}
	got := CardHTML(info, "<p>body</p>", nil)

	for _, want := range []string{
		`id="c-42"`,
		`data-stt="42"`,
		`data-ch="7"`,
		`data-vi="Đồ thị &quot;phẳng&quot;"`,
		`data-en="Planar graph"`,
		`data-diff="6"`,
		`onclick="toggleCard(42)"`,
		`<span class="stt-badge">42</span> Đồ thị "phẳng"`,
		`<span class="ch-badge">Ch.7</span>`,
		`style="background:#ed8936"`,
		`id="cb-42"`,
		"<p>body</p>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("card missing %q:\n%s", want, got)
		}
	}
}

func TestDiffColor(t *testing.T) {
	t.Parallel()

	if got := DiffColor(1, nil); got != "#48bb78" {
		t.Errorf("DiffColor(1) = %q", got)
	}
	if got := DiffColor(9, nil); got != "#805ad5" {
		t.Errorf("DiffColor(9) = %q", got)
	}
	if got := DiffColor(15, nil); got != "#805ad5" {
		t.Errorf("DiffColor(15) should use top band: %q", got)
	}
	custom := map[int]string{3: "#000000"}
	if got := DiffColor(3, custom); got != "#000000" {
		t.Errorf("custom color ignored: %q", got)
	}
}

func TestCleanTitleForEN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "texorpdfstring",
			input:    `\texorpdfstring{$p$-adic}{p-adic} numbers`,
			expected: "$p$-adic numbers",
		},
		{
			name:     "command with arg",
			input:    `\textbf{Euler} circuits`,
			expected: "Euler circuits",
		},
		{
			name:     "bare command removed",
			input:    `Big \LaTeX ideas`,
			expected: "Big ideas",
		},
		{
			name:     "all stripped falls back",
			input:    `\relax`,
			expected: `\relax`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CleanTitleForEN(tt.input)
			if got != tt.expected {
				t.Errorf("CleanTitleForEN(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMetadataMarshal(t *testing.T) {
	t.Parallel()

	m := Metadata{
		Cards:    []CardInfo{{STT: 1, Chapter: 2, Title: "A", TitleEN: "A", Diff: 3}},
		Chapters: map[string]string{"2": "Cây"},
		Parts:    []PartInfo{{Num: "I", Name: "Nền tảng", Chapters: []int{1, 2}}},
	}
	data, err := m.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent() error = %v", err)
	}

	var round Metadata
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if round.Cards[0].Title != "A" || round.Chapters["2"] != "Cây" || round.Parts[0].Num != "I" {
		t.Errorf("round trip lost data: %+v", round)
	}

	// Empty side-table still emits arrays and objects.
	data, err = Metadata{}.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("empty metadata contains null: %s", data)
	}
}

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	skeleton := `<title>__TITLE__</title>
<body>__CARDS_HTML__ and __UNFILLED__</body>`

	var diag bytes.Buffer
	got := ReplacePlaceholders(skeleton, map[string]string{
		"TITLE":      "Book",
		"CARDS_HTML": "<div>cards</div>",
		"EXTRA":      "never used",
	}, &diag)

	if !strings.Contains(got, "<title>Book</title>") {
		t.Errorf("title not replaced: %q", got)
	}
	if !strings.Contains(got, "<div>cards</div>") {
		t.Errorf("cards not replaced: %q", got)
	}
	if !strings.Contains(got, "__UNFILLED__") {
		t.Errorf("unfilled marker should remain: %q", got)
	}
	out := diag.String()
	if !strings.Contains(out, "__UNFILLED__") || !strings.Contains(out, "WARNING") {
		t.Errorf("missing-placeholder warning absent: %q", out)
	}
	if !strings.Contains(out, `"EXTRA"`) || !strings.Contains(out, "INFO") {
		t.Errorf("unused-replacement note absent: %q", out)
	}
}

func TestRefsJS(t *testing.T) {
	t.Parallel()

	entries := map[string]bibtex.Entry{
		"zkey": {Author: "Abel", Text: "<strong>Abel</strong>. <em>It's \\alpha</em>."},
		"akey": {Author: "Borel", Text: "<strong>Borel</strong>."},
	}
	got := RefsJS(entries)

	// Ordered by author, not key.
	if strings.Index(got, "'zkey'") > strings.Index(got, "'akey'") {
		t.Errorf("entries not author-ordered:\n%s", got)
	}
	if !strings.Contains(got, `\'s`) {
		t.Errorf("quote not escaped:\n%s", got)
	}
	if !strings.Contains(got, `\\alpha`) {
		t.Errorf("backslash not escaped:\n%s", got)
	}
}

func TestRefsURLsJS(t *testing.T) {
	t.Parallel()

	if got := RefsURLsJS(nil); got != "{}" {
		t.Errorf("empty map = %q, want {}", got)
	}
	got := RefsURLsJS(map[string]string{"k": "https://example.org/x"})
	if !strings.Contains(got, "'k': 'https://example.org/x'") {
		t.Errorf("url missing: %q", got)
	}
}

func TestKatexMacrosJS(t *testing.T) {
	t.Parallel()

	got := KatexMacrosJS(map[string]string{`\Q`: `\mathbb{Q}_p`, `\norm`: `\lVert #1 \rVert`})

	if !strings.Contains(got, `'\\Z': '\\mathbb{Z}'`) {
		t.Errorf("default macro missing:\n%s", got)
	}
	if !strings.Contains(got, `'\\Q': '\\mathbb{Q}_p'`) {
		t.Errorf("override not applied:\n%s", got)
	}
	if !strings.Contains(got, `'\\norm'`) {
		t.Errorf("extra macro missing:\n%s", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	entries := map[string]bibtex.Entry{"known": {Author: "A"}}

	html := `<div id="sidebarContainer"><div id="content-cards">
<div class="concept-card">x <span class="cite" title="t">[known]</span></div>
<div class="concept-card">y <span class="cite">[known, ghost]</span></div>
</div></div>
<div id="refPanel"></div><div id="aboutModal"></div>`

	r := Validate(html, 2, entries)
	if r.CardCount != 2 {
		t.Errorf("CardCount = %d", r.CardCount)
	}
	if r.OpenDivs != r.CloseDivs {
		t.Errorf("fixture divs unbalanced: %d/%d", r.OpenDivs, r.CloseDivs)
	}
	if r.UniqueCites != 2 {
		t.Errorf("UniqueCites = %d", r.UniqueCites)
	}
	if len(r.MissingRefs) != 1 || r.MissingRefs[0] != "ghost" {
		t.Errorf("MissingRefs = %v", r.MissingRefs)
	}
	if r.OK() {
		t.Error("missing ref should fail validation")
	}

	// Card count mismatch is reported.
	r = Validate(html, 5, entries)
	found := false
	for _, issue := range r.Issues {
		if strings.Contains(issue, "card count mismatch") {
			found = true
		}
	}
	if !found {
		t.Errorf("card count issue missing: %v", r.Issues)
	}

	var report bytes.Buffer
	r.Print(&report, 5, len(entries))
	if !strings.Contains(report.String(), "ASSEMBLY REPORT") {
		t.Errorf("report header missing: %q", report.String())
	}
}
