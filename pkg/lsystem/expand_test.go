package lsystem

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

func TestExpandSimultaneousSubstitution(t *testing.T) {
	rules := Rules{'F': "F+G", 'G': "F-G"}
	tests := []struct {
		level int
		want  string
	}{
		{1, "F"},
		{2, "F+G"},
		{3, "F+G+F-G"},
		{4, "F+G+F-G+F+G-F-G"},
	}

	for _, tt := range tests {
		got, err := Expand("F", rules, tt.level)
		if err != nil {
			t.Fatalf("Expand(level=%d) error: %v", tt.level, err)
		}
		if got != tt.want {
			t.Errorf("Expand(level=%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestExpandDoesNotRescanReplacements(t *testing.T) {
	// A sequential rewriter would turn the freshly emitted B into C in the
	// same pass.
	rules := Rules{'A': "B", 'B': "C"}
	got, err := Expand("A", rules, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "B" {
		t.Errorf("Expand = %q, want %q", got, "B")
	}
}

func TestExpandBaseCase(t *testing.T) {
	axiom := "-BF+AFA+FB-"
	got, err := Expand(axiom, Rules{'A': "-BF+AFA+FB-", 'B': "+AF-BFB-FA+"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != axiom {
		t.Errorf("Expand(level=1) = %q, want axiom %q", got, axiom)
	}
}

func TestExpandEmptyRules(t *testing.T) {
	got, err := Expand("F++F++F++", nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != "F++F++F++" {
		t.Errorf("identity rules changed the axiom: %q", got)
	}
}

func TestExpandCompositional(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	alphabet := "FGXY+-[]"
	randomString := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[r.IntN(len(alphabet))])
		}
		return b.String()
	}

	for trial := 0; trial < 50; trial++ {
		rules := Rules{
			'F': randomString(1 + r.IntN(5)),
			'X': randomString(1 + r.IntN(5)),
		}
		axiom := randomString(1 + r.IntN(4))
		for level := 1; level < 5; level++ {
			cur, err := Expand(axiom, rules, level)
			if err != nil {
				t.Fatal(err)
			}
			next, err := Expand(axiom, rules, level+1)
			if err != nil {
				t.Fatal(err)
			}
			if want := Rewrite(cur, rules); next != want {
				t.Fatalf("Expand(%q, %v, %d) is not one pass over level %d:\n got %q\nwant %q",
					axiom, rules, level+1, level, next, want)
			}
		}
	}
}

func TestExpandInvalidLevel(t *testing.T) {
	for _, level := range []int{0, -1, DefaultMaxLevel + 1} {
		_, err := Expand("F", Rules{'F': "FF"}, level)
		if !errors.Is(err, errors.ErrCodeInvalidLevel) {
			t.Errorf("Expand(level=%d) error = %v, want INVALID_LEVEL", level, err)
		}
	}

	if _, err := Expand("F", nil, 40, WithMaxLevel(64)); err != nil {
		t.Errorf("WithMaxLevel(64) should accept level 40: %v", err)
	}
}

func TestExpandResourceExhaustion(t *testing.T) {
	rules := Rules{'F': "FF"}

	// Level 11 has 1024 symbols.
	if _, err := Expand("F", rules, 11, WithMaxLength(1024)); err != nil {
		t.Fatalf("exact bound should succeed: %v", err)
	}

	_, err := Expand("F", rules, 12, WithMaxLength(1024))
	if !errors.Is(err, errors.ErrCodeResourceExhausted) {
		t.Fatalf("error = %v, want RESOURCE_EXHAUSTED", err)
	}
	if !strings.Contains(err.Error(), "generation 12") {
		t.Errorf("diagnostic should name the failing generation: %v", err)
	}

	_, err = Expand("FFFF", rules, 1, WithMaxLength(2))
	if !errors.Is(err, errors.ErrCodeResourceExhausted) {
		t.Errorf("oversized axiom error = %v, want RESOURCE_EXHAUSTED", err)
	}
}

func TestLengthMatchesExpand(t *testing.T) {
	rules := Rules{'F': "F+G++G-F--FF-G+", 'G': "-F+GG++G+F--F-G"}
	for level := 1; level <= 5; level++ {
		s, err := Expand("F", rules, level)
		if err != nil {
			t.Fatal(err)
		}
		n, err := Length("F", rules, level)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(s) {
			t.Errorf("Length(level=%d) = %d, want %d", level, n, len(s))
		}
	}
}

func TestCountSymbols(t *testing.T) {
	rules := Rules{'F': "F-F+F+F-F"}
	got, err := CountSymbols("F", rules, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := map[byte]int{'F': 25, '+': 12, '-': 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CountSymbols mismatch (-want +got):\n%s", diff)
	}
}

func TestCountSymbolsSaturates(t *testing.T) {
	_, err := Length("F", Rules{'F': "FFFFFFFFFF"}, 30, WithMaxLength(math.MaxInt))
	if !errors.Is(err, errors.ErrCodeResourceExhausted) {
		t.Errorf("error = %v, want RESOURCE_EXHAUSTED on overflow", err)
	}
}

func TestParseRules(t *testing.T) {
	got, err := ParseRules(map[string]string{"F": "F+F", "X": "[X]"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Rules{'F': "F+F", 'X': "[X]"}, got); diff != "" {
		t.Errorf("ParseRules mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []map[string]string{
		{"FG": "F"},
		{"": "F"},
		{"ś": "F"},
		{"F": "ś"},
	} {
		if _, err := ParseRules(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseRules(%v) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestRulesKeys(t *testing.T) {
	r := Rules{'X': "", 'A': "", 'F': ""}
	if diff := cmp.Diff([]byte("AFX"), r.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	c := r.Clone()
	c['Z'] = "Z"
	if _, ok := r['Z']; ok {
		t.Error("Clone should not share storage")
	}
}
