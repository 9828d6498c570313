package curve

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
)

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	if c.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", c.Len())
	}
	if c != Builtin() {
		t.Error("Builtin should be built once")
	}

	names := c.Names()
	if names[0] != "The Koch snowflake" || names[15] != "Fractal plant" {
		t.Errorf("unexpected catalog order: first %q, last %q", names[0], names[15])
	}
}

func TestCatalogBaseCase(t *testing.T) {
	for _, d := range Builtin().All() {
		got, err := d.Expand(1)
		if err != nil {
			t.Fatalf("%s: %v", d.Name, err)
		}
		if got != d.Axiom {
			t.Errorf("%s: Expand(1) = %q, want axiom %q", d.Name, got, d.Axiom)
		}
	}
}

func TestCatalogCompositional(t *testing.T) {
	for _, d := range Builtin().All() {
		prev, _ := d.Expand(1)
		for level := 2; level <= 4; level++ {
			cur, err := d.Expand(level)
			if err != nil {
				t.Fatalf("%s level %d: %v", d.Name, level, err)
			}
			if want := lsystem.Rewrite(prev, d.Rules); cur != want {
				t.Errorf("%s: level %d is not one rewrite pass over level %d", d.Name, level, level-1)
			}
			prev = cur
		}
	}
}

func TestCatalogStackBalance(t *testing.T) {
	for _, d := range Builtin().All() {
		for level := 1; level <= 6; level++ {
			s, err := d.Expand(level)
			if err != nil {
				t.Fatalf("%s level %d: %v", d.Name, level, err)
			}
			if push, pop := strings.Count(s, "["), strings.Count(s, "]"); push != pop {
				t.Errorf("%s level %d: %d pushes, %d pops", d.Name, level, push, pop)
			}
		}
	}
}

func TestCatalogDrawCounts(t *testing.T) {
	ipow := func(b, e int) int { return int(math.Pow(float64(b), float64(e))) }
	tests := []struct {
		slug string
		want func(level int) int
	}{
		{"koch-snowflake", func(l int) int { return 3 * ipow(4, l-1) }},
		{"quadratic-koch-curve", func(l int) int { return ipow(5, l-1) }},
		{"minkowski-sausage", func(l int) int { return ipow(8, l-1) }},
		{"hilbert-curve", func(l int) int { return ipow(4, l) - 1 }},
		{"dragon-curve", func(l int) int { return ipow(2, l-1) }},
		{"sierpinski-triangle", func(l int) int { return ipow(3, l) }},
		{"gosper-curve", func(l int) int { return ipow(7, l-1) }},
		{"moore-curve", func(l int) int { return ipow(4, l) - 1 }},
		{"peano-curve", func(l int) int { return ipow(9, l) - 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			d, err := Builtin().Lookup(tt.slug)
			if err != nil {
				t.Fatal(err)
			}
			for level := 1; level <= 5; level++ {
				got, err := d.DrawCount(level)
				if err != nil {
					t.Fatal(err)
				}
				if want := tt.want(level); got != want {
					t.Errorf("level %d: DrawCount = %d, want %d", level, got, want)
				}
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c := Builtin()
	tests := []struct {
		key  string
		want string
	}{
		{"1", "The Koch snowflake"},
		{"16", "Fractal plant"},
		{"hilbert-curve", "The Hilbert curve"},
		{"The Sierpiński curve", "The Sierpiński curve"},
		{"the dragon curve", "The dragon curve"},
		{"cesaro-fractal", "The Cesàro fractal"},
		{"fractal-binary-tree", "Fractal (binary) tree"},
	}

	for _, tt := range tests {
		d, err := c.Lookup(tt.key)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", tt.key, err)
			continue
		}
		if d.Name != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.key, d.Name, tt.want)
		}
	}

	for _, bad := range []string{"0", "17", "mandelbrot"} {
		if _, err := c.Lookup(bad); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Lookup(%q) error = %v, want NOT_FOUND", bad, err)
		}
	}
}

func TestCatalogWith(t *testing.T) {
	levy := &Descriptor{
		Name:  "Levy C curve",
		Axiom: "F",
		Rules: lsystem.Rules{'F': "+F--F+"},
		Angle: 45,
		Scale: Constant(1.0),
	}
	c, err := Builtin().With(levy)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 17 || Builtin().Len() != 16 {
		t.Errorf("With should extend a copy: got %d / %d", c.Len(), Builtin().Len())
	}
	if d, _ := c.Lookup("levy-c-curve"); d != levy {
		t.Error("added curve not found by slug")
	}

	if _, err := c.With(levy); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate curve error = %v, want INVALID_INPUT", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"The Koch snowflake":             "koch-snowflake",
		"The Sierpiński arrowhead curve": "sierpinski-arrowhead-curve",
		"The Cesàro fractal":             "cesaro-fractal",
		"Fractal (binary) tree":          "fractal-binary-tree",
		"  Theory of Everything ":        "theory-of-everything",
	}
	got := make(map[string]string, len(tests))
	for in := range tests {
		got[in] = Slugify(in)
	}
	if diff := cmp.Diff(tests, got); diff != "" {
		t.Errorf("Slugify mismatch (-want +got):\n%s", diff)
	}
}
