package bibtex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseEntryTypes(t *testing.T) {
	t.Parallel()

	src := `@book{silverman2009,
  author = {Silverman, Joseph H.},
  title = {The Arithmetic of Elliptic Curves},
  publisher = {Springer},
  year = {2009}
}

@article{wiles1995,
  author = {Wiles, Andrew},
  title = {Modular elliptic curves and Fermat's Last Theorem},
  journal = {Annals of Mathematics},
  volume = {141},
  pages = {443--551},
  year = {1995}
}
`

	entries := Parse(src)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	book := entries["silverman2009"]
	if book.Type != "Sách" {
		t.Errorf("book type = %q", book.Type)
	}
	if book.Year != "2009" || !strings.Contains(book.Author, "Silverman") {
		t.Errorf("book fields wrong: %+v", book)
	}
	want := "<strong>Silverman, Joseph H.</strong> (2009). <em>The Arithmetic of Elliptic Curves</em>. Springer."
	if book.Text != want {
		t.Errorf("book text = %q, want %q", book.Text, want)
	}

	article := entries["wiles1995"]
	if article.Type != "Bài báo" {
		t.Errorf("article type = %q", article.Type)
	}
	if !strings.Contains(article.Text, "Annals of Mathematics vol. 141, pp. 443&ndash;551") {
		t.Errorf("article text = %q", article.Text)
	}
}

func TestParseMathInField(t *testing.T) {
	t.Parallel()

	src := `@article{k, author = {A}, title = {On ${L}$-functions and {Galois} groups}, year = {2020}
}`

	entries := Parse(src)
	e, ok := entries["k"]
	if !ok {
		t.Fatalf("entry missing: %+v", entries)
	}
	// Braces inside $...$ survive; grouping braces outside do not.
	if !strings.Contains(e.Title, "${L}$-functions") {
		t.Errorf("math braces lost: %q", e.Title)
	}
	if strings.Contains(e.Title, "{Galois}") {
		t.Errorf("grouping braces kept: %q", e.Title)
	}
	if !strings.Contains(e.Title, "Galois groups") {
		t.Errorf("title mangled: %q", e.Title)
	}
}

func TestParseFieldCleanup(t *testing.T) {
	t.Parallel()

	src := `@misc{m, author = {Knuth \& Plass}, title = {Breaking paragraphs --- the \textit{optimal} way}, year = {1981}
}`

	e := Parse(src)["m"]
	if e.Author != "Knuth &amp; Plass" {
		t.Errorf("ampersand not escaped: %q", e.Author)
	}
	if !strings.Contains(e.Title, "&mdash;") {
		t.Errorf("em dash not converted: %q", e.Title)
	}
	if !strings.Contains(e.Title, "optimal way") || strings.Contains(e.Title, `\textit`) {
		t.Errorf("italic wrapper kept: %q", e.Title)
	}
	if e.Type != "Khác" {
		t.Errorf("misc type = %q", e.Type)
	}
}

func TestParseMissingAuthor(t *testing.T) {
	t.Parallel()

	e := Parse(`@misc{anon, title = {Untitled notes}, year = {2021}
}`)["anon"]
	if e.Author != "Unknown" {
		t.Errorf("author = %q, want Unknown", e.Author)
	}
	if !strings.HasPrefix(e.Text, "<strong>Unknown</strong> (2021)") {
		t.Errorf("text = %q", e.Text)
	}
}

func TestParseBooktitleFallback(t *testing.T) {
	t.Parallel()

	e := Parse(`@inproceedings{p, author = {B}, title = {T}, booktitle = {Proc. STOC}, year = {2000}
}`)["p"]
	if e.Type != "Hội nghị" {
		t.Errorf("type = %q", e.Type)
	}
	if !strings.Contains(e.Text, ". Proc. STOC") {
		t.Errorf("booktitle not used as journal: %q", e.Text)
	}
}

func TestParseUnknownTypeCapitalized(t *testing.T) {
	t.Parallel()

	e := Parse(`@techreport{t, author = {C}, title = {T}, year = {1999}
}`)["t"]
	if e.Type != "Techreport" {
		t.Errorf("type = %q", e.Type)
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	entries := map[string]Entry{
		"z": {Author: "adams"},
		"a": {Author: "Zorn"},
		"m": {Author: "Adams"},
	}
	got := SortedKeys(entries)
	// "adams" and "Adams" tie on lowercased author; key order breaks it.
	want := []string{"m", "z", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedKeys() = %v, want %v", got, want)
		}
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := os.WriteFile(path, []byte("@book{k, author = {A}, title = {T}, year = {2000}\n}"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries", len(entries))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.bib")); !errors.Is(err, ErrBibNotFound) {
		t.Errorf("error = %v, want ErrBibNotFound", err)
	}
}
