package lsystem

import (
	"strings"
	"testing"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

func collect(t *testing.T, axiom string, rules Rules, level int) string {
	t.Helper()
	seq, err := Stream(axiom, rules, level)
	if err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	var b strings.Builder
	for c := range seq {
		b.WriteByte(c)
	}
	return b.String()
}

func TestStreamMatchesExpand(t *testing.T) {
	grammars := []struct {
		name  string
		axiom string
		rules Rules
	}{
		{"substitution", "F", Rules{'F': "F+G", 'G': "F-G"}},
		{"plant", "-X", Rules{'F': "FF", 'X': "F+[[X]-X]-F[-FX]+X"}},
		{"peano", "XFYFX+F+YFXFY-F-XFYFX", Rules{
			'X': "XFYFX+F+YFXFY-F-XFYFX",
			'Y': "YFXFY-F-XFYFX+F+YFXFY",
		}},
		{"identity", "F++F", nil},
	}

	for _, g := range grammars {
		t.Run(g.name, func(t *testing.T) {
			for level := 1; level <= 4; level++ {
				want, err := Expand(g.axiom, g.rules, level)
				if err != nil {
					t.Fatal(err)
				}
				if got := collect(t, g.axiom, g.rules, level); got != want {
					t.Errorf("level %d: Stream differs from Expand (len %d vs %d)", level, len(got), len(want))
				}
			}
		})
	}
}

func TestStreamStopsEarly(t *testing.T) {
	seq, err := Stream("F", Rules{'F': "FF"}, 30)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range seq {
		n++
		if n == 10 {
			break
		}
	}
	if n != 10 {
		t.Errorf("consumed %d symbols, want 10", n)
	}
}

func TestStreamInvalidLevel(t *testing.T) {
	if _, err := Stream("F", nil, 0); !errors.Is(err, errors.ErrCodeInvalidLevel) {
		t.Errorf("error = %v, want INVALID_LEVEL", err)
	}
}
