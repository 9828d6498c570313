package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
)

const levy = `
palette = "alt"
delay = "250ms"
max_level = 12

[server]
addr = "127.0.0.1:9000"
cache_ttl = "1h"

[[curve]]
name = "Levy C curve"
axiom = "F"
rules = { F = "+F--F+" }
angle = 45
position = [-0.25, 0.25]
scale_base = 1.41421356
scale_offset = 1
`

func TestParse(t *testing.T) {
	cfg, err := Parse(levy)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Palette != "alt" || cfg.Delay.Duration != 250*time.Millisecond || cfg.MaxLevel != 12 {
		t.Errorf("top level = %q %s %d", cfg.Palette, cfg.Delay, cfg.MaxLevel)
	}
	if cfg.CanvasSize != 500 || cfg.Margin != 0.1 {
		t.Errorf("unset keys should keep defaults, got %v %v", cfg.CanvasSize, cfg.Margin)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.CacheTTL.Duration != time.Hour {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.RequestTimeout.Duration != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %s", cfg.Server.RequestTimeout)
	}
	if len(cfg.Curves) != 1 {
		t.Fatalf("got %d curves, want 1", len(cfg.Curves))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `palette = `},
		{"unknown key", `colour = "red"`},
		{"bad duration", `delay = "soon"`},
		{"negative margin", `margin = -1.0`},
		{"palette", `palette = "sepia"`},
		{"background", `background = "#12"`},
		{"negative stroke", `stroke = -2.0`},
		{"zero canvas", `canvas_size = 0`},
		{"max level", `max_level = 0`},
		{"rule key", "[[curve]]\nname = \"X\"\naxiom = \"F\"\nrules = { FF = \"F\" }\nscale_base = 2.0"},
		{"scale base", "[[curve]]\nname = \"X\"\naxiom = \"F\"\nscale_base = 0.0"},
		{"unbalanced", "[[curve]]\nname = \"X\"\naxiom = \"F[\"\nscale_base = 2.0"},
		{"duplicate", "[[curve]]\nname = \"The Hilbert curve\"\naxiom = \"F\"\nscale_base = 2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestCurveDescriptor(t *testing.T) {
	cfg, err := Parse(levy)
	if err != nil {
		t.Fatal(err)
	}
	d, err := cfg.Curves[0].Descriptor()
	if err != nil {
		t.Fatal(err)
	}

	if d.Slug() != "levy-c-curve" {
		t.Errorf("Slug() = %q", d.Slug())
	}
	for level, want := range map[int]float64{1: 1, 2: 1.41421356, 3: 1.41421356 * 1.41421356} {
		if got := d.Scale.At(level); math.Abs(got-want) > 1e-9 {
			t.Errorf("Scale.At(%d) = %v, want %v", level, got, want)
		}
	}
	if got := d.Position.At(5); got != (curve.Point{X: -0.25, Y: 0.25}) {
		t.Errorf("Position = %+v", got)
	}
	s, err := d.Expand(2)
	if err != nil || s != "+F--F+" {
		t.Errorf("Expand(2) = %q, %v", s, err)
	}
}

func TestCatalog(t *testing.T) {
	cfg, err := Parse(levy)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := cfg.Catalog(curve.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 17 {
		t.Errorf("catalog has %d curves, want 17", cat.Len())
	}
	if d, err := cat.Lookup("17"); err != nil || d.Name != "Levy C curve" {
		t.Errorf("Lookup(17) = %v, %v", d, err)
	}

	if same, _ := Default().Catalog(curve.Builtin()); same != curve.Builtin() {
		t.Error("no user curves should return the base catalog")
	}
}

func TestOptions(t *testing.T) {
	cfg, _ := Parse(levy)
	opts := cfg.Options()
	if opts.Palette != "alt" || opts.Delay != 250*time.Millisecond || opts.LevelLimit != 12 {
		t.Errorf("Options() = %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("config options should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte(levy), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path || cfg.Palette != "alt" {
		t.Errorf("Load = %q palette %q", cfg.Path, cfg.Palette)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("explicit missing file error = %v", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "fractaldraw", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}

	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte(`palette = "#ff0000,#0000ff"`), 0o644)
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Palette != "#ff0000,#0000ff" || cfg.Path != path {
		t.Errorf("Load(\"\") = %q from %q", cfg.Palette, cfg.Path)
	}
}
