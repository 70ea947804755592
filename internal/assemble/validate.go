package assemble

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/tuanvm/go-tex2html/internal/bibtex"
)

var (
	openDivRe   = regexp.MustCompile(`<div[\s>]`)
	closeDivRe  = regexp.MustCompile(`</div>`)
	cardDivRe   = regexp.MustCompile(`class="concept-card"`)
	citeSpanRe  = regexp.MustCompile(`class="cite"[^>]*>\[([^\]]+)\]`)
	citeClassRe = regexp.MustCompile(`class="cite"`)
)

// Report summarizes structural checks on assembled HTML.
type Report struct {
	OpenDivs    int
	CloseDivs   int
	CardCount   int
	CiteCount   int
	UniqueCites int
	MissingRefs []string
	Issues      []string
}

// OK reports whether all checks passed.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Validate runs structural checks on the assembled page: div balance,
// card count against the metadata, citation keys against the
// bibliography, and the presence of the elements the page script needs.
func Validate(html string, expectedCards int, entries map[string]bibtex.Entry) Report {
	r := Report{
		OpenDivs:  len(openDivRe.FindAllString(html, -1)),
		CloseDivs: len(closeDivRe.FindAllString(html, -1)),
		CardCount: len(cardDivRe.FindAllString(html, -1)),
		CiteCount: len(citeClassRe.FindAllString(html, -1)),
	}

	citeKeys := map[string]bool{}
	for _, m := range citeSpanRe.FindAllStringSubmatch(html, -1) {
		for _, key := range strings.Split(m[1], ",") {
			citeKeys[strings.TrimSpace(key)] = true
		}
	}
	r.UniqueCites = len(citeKeys)
	for key := range citeKeys {
		if _, ok := entries[key]; !ok {
			r.MissingRefs = append(r.MissingRefs, key)
		}
	}
	sort.Strings(r.MissingRefs)

	if r.OpenDivs != r.CloseDivs {
		r.Issues = append(r.Issues, fmt.Sprintf("div balance mismatch: %d open / %d close", r.OpenDivs, r.CloseDivs))
	}
	if r.CardCount != expectedCards {
		r.Issues = append(r.Issues, fmt.Sprintf("card count mismatch: found %d, expected %d", r.CardCount, expectedCards))
	}
	if len(r.MissingRefs) > 0 {
		r.Issues = append(r.Issues, "citations not in bib: "+strings.Join(r.MissingRefs, ", "))
	}
	for _, id := range []string{"sidebarContainer", "content-cards", "refPanel", "aboutModal"} {
		if !strings.Contains(html, `id="`+id+`"`) {
			r.Issues = append(r.Issues, `missing essential element: id="`+id+`"`)
		}
	}
	return r
}

// Print writes the human-readable assembly report.
func (r Report) Print(w io.Writer, expectedCards, bibEntries int) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ASSEMBLY REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Cards:        %d (expected %d)\n", r.CardCount, expectedCards)
	balance := "OK"
	if r.OpenDivs != r.CloseDivs {
		balance = "MISMATCH"
	}
	fmt.Fprintf(w, "  Div balance:  %d open / %d close %s\n", r.OpenDivs, r.CloseDivs, balance)
	fmt.Fprintf(w, "  Citations:    %d total, %d unique keys\n", r.CiteCount, r.UniqueCites)
	fmt.Fprintf(w, "  Bib entries:  %d\n", bibEntries)
	if len(r.MissingRefs) > 0 {
		fmt.Fprintf(w, "  Missing refs: %s\n", strings.Join(r.MissingRefs, ", "))
	}
	if len(r.Issues) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "WARNINGS:")
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "All checks passed.")
	}
	fmt.Fprintln(w, rule)
}
