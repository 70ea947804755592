package pipeline

import (
	"strings"
	"testing"
)

var testEnvs = map[string]EnvSpec{
	"dinhly":    {CSS: "env-theorem", Label: "Định lý"},
	"dinhnghia": {CSS: "env-definition", Label: "Định nghĩa"},
	"vidu":      {CSS: "env-example", Label: "Ví dụ"},
	"luuy":      {CSS: "box-note", Label: "Lưu ý"},
}

func TestConvertEnvironmentsNumbering(t *testing.T) {
	t.Parallel()

	input := `\begin{dinhly}First theorem.\end{dinhly}
\begin{dinhnghia}A definition.\end{dinhnghia}
\begin{dinhly}Second theorem.\end{dinhly}`

	got := convertEnvironments(input, testEnvs, "Chứng minh", 8)

	// Counters run per label: theorems number independently from
	// definitions.
	for _, want := range []string{
		"Định lý 8.1:", "Định lý 8.2:", "Định nghĩa 8.1:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, `<div class="env-theorem">`) {
		t.Errorf("theorem div class missing:\n%s", got)
	}
}

func TestConvertEnvironmentsWithTitle(t *testing.T) {
	t.Parallel()

	input := `\begin{dinhly}[Pythagoras]Body.\end{dinhly}`
	got := convertEnvironments(input, testEnvs, "Chứng minh", 0)

	if !strings.Contains(got, "<strong>Định lý 1 (Pythagoras):</strong>") {
		t.Errorf("titled heading wrong:\n%s", got)
	}
}

func TestConvertEnvironmentsBoxesUnnumbered(t *testing.T) {
	t.Parallel()

	input := `\begin{luuy}Watch out.\end{luuy}
\begin{luuy}Again.\end{luuy}`
	got := convertEnvironments(input, testEnvs, "Chứng minh", 8)

	if strings.Contains(got, "Lưu ý 8.1") {
		t.Errorf("box environment should not be numbered:\n%s", got)
	}
	if strings.Count(got, "<strong>Lưu ý:</strong>") != 2 {
		t.Errorf("expected two plain box headings:\n%s", got)
	}
}

func TestConvertEnvironmentsProof(t *testing.T) {
	t.Parallel()

	input := `\begin{proof}Trivial.\end{proof}`
	got := convertEnvironments(input, testEnvs, "Chứng minh", 8)

	if !strings.Contains(got, `<div class="env-proof"><strong>Chứng minh:</strong>`) {
		t.Errorf("proof conversion wrong:\n%s", got)
	}
	if strings.Contains(got, "Chứng minh 8") {
		t.Errorf("proof should not be numbered:\n%s", got)
	}
}

func TestConvertEnvironmentsUnknownPassthrough(t *testing.T) {
	t.Parallel()

	input := `\begin{mystery}Left alone.\end{mystery}`
	got := convertEnvironments(input, testEnvs, "Chứng minh", 0)
	if got != input {
		t.Errorf("unknown environment was rewritten: %q", got)
	}
}
