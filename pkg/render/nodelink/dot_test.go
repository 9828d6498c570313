package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/fractaldraw/pkg/curve"
)

func lookup(t *testing.T, key string) *curve.Descriptor {
	t.Helper()
	d, err := curve.Builtin().Lookup(key)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(lookup(t, "hilbert-curve"), Options{})

	for _, want := range []string{
		`"axiom" -> "A";`,
		`"axiom" -> "B";`,
		`"axiom" -> "F";`,
		`"A" -> "B";`,
		`"B" -> "A";`,
		`"F" [label="F", fillcolor="#ffd27f"];`,
		`"A" [label="A", style="rounded,filled,dashed"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"F" ->`) {
		t.Error("terminal F should have no outgoing edges")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(lookup(t, "dragon-curve"), Options{Detailed: true})
	if !strings.Contains(dot, `label="F → F-G"`) || !strings.Contains(dot, `label="G → F+G"`) {
		t.Errorf("detailed labels missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"F" -> "G";`) || !strings.Contains(dot, `"G" -> "F";`) {
		t.Errorf("dragon rules should reference each other:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(lookup(t, "moore-curve"), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("unexpected SVG header: %.200s", svg)
	}
}

func TestRenderSVGBadDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for malformed DOT")
	}
}
