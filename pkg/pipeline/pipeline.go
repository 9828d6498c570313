// Package pipeline drives curve rendering for the CLI and the HTTP API.
//
// A render is expand → interpret → encode: the grammar engine produces the
// symbol string for one level, the turtle interpreter turns it into pen
// movements on a [render.Pen], and the sinks encode the collected drawing as
// SVG, PNG or JSON. Centralizing this here keeps the command line and the
// server byte-for-byte consistent.
//
// # Usage
//
// Render one level to files:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Curve:   "hilbert-curve",
//	    Level:   5,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Animate levels 1..MaxLevel on any [turtle.Renderer]:
//
//	err := runner.Animate(ctx, d, pen, opts, func(level int, stats turtle.Stats) error {
//	    // show the frame
//	    return nil
//	})
//
// Every failure is scoped to one level and reported as an
// [errors.LevelError], so callers can tell which level broke and why.
package pipeline

import (
	"image/color"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fractaldraw/pkg/cache"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/render/sink"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLevel is the level rendered when none is requested.
	DefaultLevel = 4

	// DefaultAnimateLevels is the number of levels animated when none is
	// requested.
	DefaultAnimateLevels = 6

	// DefaultDelay is the pause between animated levels.
	DefaultDelay = time.Second

	// NoDelay disables pacing. A zero Delay means DefaultDelay.
	NoDelay time.Duration = -1

	// DefaultMargin is the blank border around the canvas as a fraction of
	// the canvas size.
	DefaultMargin = sink.DefaultMargin

	// DefaultSize is the output image edge length in pixels.
	DefaultSize = sink.DefaultSize
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// FormatNames returns the supported output formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options contains all configuration for rendering a curve.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Curve is a catalog name, slug or 1-based index. Only Execute uses it;
	// the other Runner methods take a resolved descriptor.
	Curve string `json:"curve,omitempty"`

	// Level is the single level Execute and Artifacts render.
	Level int `json:"level,omitempty"`

	// MaxLevel is the last level Animate draws, starting at 1.
	MaxLevel int `json:"max_level,omitempty"`

	// LevelLimit rejects levels above it (INVALID_LEVEL).
	LevelLimit int `json:"-"`

	// Expansion options
	MaxLength int  `json:"-"`
	Stream    bool `json:"stream,omitempty"`

	// Drawing options
	CanvasSize float64 `json:"canvas_size,omitempty"`
	Palette    string  `json:"palette,omitempty"`

	// Output options
	Formats []string `json:"formats,omitempty"`
	Margin  float64  `json:"margin,omitempty"`
	Size    int      `json:"size,omitempty"`
	Fit     bool     `json:"fit,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Stroke is the line width in output pixels; zero keeps each sink's own
	// default. Background is a colour name or hex value, black when empty.
	Stroke     float64 `json:"stroke,omitempty"`
	Background string  `json:"background,omitempty"`

	// Animation options
	Delay      time.Duration `json:"-"`
	SkipFailed bool          `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// palette is the parsed Palette string.
	palette palette.Palette

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a single-level render.
type Result struct {
	// Curve is the resolved curve name.
	Curve string

	// Slug is the curve's URL-safe identifier.
	Slug string

	// Level is the rendered level.
	Level int

	// SessionID identifies this render in logs.
	SessionID string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool

	// Duration is the wall time of the render.
	Duration time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// uniqueFormats drops repeated formats, keeping first occurrences.
func uniqueFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	o.Formats = uniqueFormats(o.Formats)

	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidatePositive("canvas size", o.CanvasSize); err != nil {
		return err
	}
	if err := errors.ValidateFinite("margin", o.Margin); err != nil {
		return err
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %v", o.Margin)
	}
	if o.Size < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be at least 1, got %d", o.Size)
	}
	if o.MaxLength < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max length must be at least 1, got %d", o.MaxLength)
	}
	if err := errors.ValidateLevel(o.Level, o.LevelLimit); err != nil {
		return err
	}
	if err := errors.ValidateLevel(o.MaxLevel, o.LevelLimit); err != nil {
		return err
	}
	if o.Delay < 0 && o.Delay != NoDelay {
		return errors.New(errors.ErrCodeInvalidInput, "delay must not be negative, got %s", o.Delay)
	}
	if err := errors.ValidateFinite("stroke", o.Stroke); err != nil {
		return err
	}
	if o.Stroke < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stroke must not be negative, got %v", o.Stroke)
	}
	if _, err := o.BackgroundColor(); err != nil {
		return err
	}

	pal, err := palette.Parse(o.Palette)
	if err != nil {
		return err
	}
	o.palette = pal
	o.validated = true
	return nil
}

// SetDefaults fills zero-valued fields with their defaults.
func (o *Options) SetDefaults() {
	if o.LevelLimit == 0 {
		o.LevelLimit = lsystem.DefaultMaxLevel
	}
	if o.Level == 0 {
		o.Level = min(DefaultLevel, o.LevelLimit)
	}
	if o.MaxLevel == 0 {
		o.MaxLevel = min(DefaultAnimateLevels, o.LevelLimit)
	}
	if o.MaxLength == 0 {
		o.MaxLength = lsystem.DefaultMaxLength
	}
	if o.CanvasSize == 0 {
		o.CanvasSize = turtle.DefaultCanvasSize
	}
	if o.Palette == "" {
		o.Palette = palette.Default
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Delay == 0 {
		o.Delay = DefaultDelay
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PaletteColors returns the parsed palette. It is empty until
// ValidateAndSetDefaults has succeeded.
func (o *Options) PaletteColors() palette.Palette {
	return o.palette
}

// BackgroundColor parses Background, falling back to [palette.Background].
func (o *Options) BackgroundColor() (color.RGBA, error) {
	if strings.TrimSpace(o.Background) == "" {
		return palette.Background, nil
	}
	return palette.ParseColor(o.Background)
}

// ExpandOptions returns the grammar engine bounds.
func (o *Options) ExpandOptions() []lsystem.Option {
	return []lsystem.Option{
		lsystem.WithMaxLength(o.MaxLength),
		lsystem.WithMaxLevel(o.LevelLimit),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, grammar string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Grammar:    grammar,
		CanvasSize: o.CanvasSize,
		Margin:     o.Margin,
		Size:       o.Size,
		Fit:        o.Fit,
		Palette:    o.Palette,
		Stroke:     o.Stroke,
		Background: strings.ToLower(strings.TrimSpace(o.Background)),
	}
}
