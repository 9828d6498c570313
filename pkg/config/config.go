// Package config loads fractaldraw settings from a TOML file.
//
// Settings resolve in three layers: command-line flags override the config
// file, which overrides built-in defaults. The file lives at
// $XDG_CONFIG_HOME/fractaldraw/config.toml (~/.config/fractaldraw/config.toml
// when XDG_CONFIG_HOME is unset) unless a path is given explicitly.
//
// # File Format
//
//	canvas_size = 500
//	margin = 0.1
//	palette = "rainbow"        # or "alt" or "#ff0000,#00ff00"
//	delay = "1s"
//	max_length = 16777216
//	max_level = 32
//
//	[server]
//	addr = ":8080"
//	redis_addr = ""
//	cache_ttl = "24h"
//
//	[[curve]]
//	name = "Levy C curve"
//	axiom = "F"
//	rules = { F = "+F--F+" }
//	angle = 45
//	position = [-0.25, 0.25]
//	scale_base = 1.41421356
//	scale_offset = 1           # scale(L) = scale_base^(L - scale_offset)
//
// Each [[curve]] table adds a user-defined curve to the built-in catalog.
// Its geometry is constant across levels except for the scale.
package config

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
)

const (
	appName  = "fractaldraw"
	fileName = "config.toml"

	// DefaultAddr is the HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultRequestTimeout bounds one HTTP request, render included.
	DefaultRequestTimeout = 30 * time.Second
)

// Config is the decoded config file.
type Config struct {
	CanvasSize float64  `toml:"canvas_size"`
	Margin     float64  `toml:"margin"`
	Size       int      `toml:"size"`
	Fit        bool     `toml:"fit"`
	Palette    string   `toml:"palette"`
	Background string   `toml:"background"`
	Stroke     float64  `toml:"stroke"`
	Delay      Duration `toml:"delay"`
	MaxLength  int      `toml:"max_length"`
	MaxLevel   int      `toml:"max_level"`

	Server ServerConfig  `toml:"server"`
	Curves []CurveConfig `toml:"curve"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RedisAddr      string   `toml:"redis_addr"`
	RedisPassword  string   `toml:"redis_password"`
	RedisDB        int      `toml:"redis_db"`
	CachePrefix    string   `toml:"cache_prefix"`
	CacheTTL       Duration `toml:"cache_ttl"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// CurveConfig is a user-defined curve.
type CurveConfig struct {
	Name        string            `toml:"name"`
	Axiom       string            `toml:"axiom"`
	Rules       map[string]string `toml:"rules"`
	Angle       float64           `toml:"angle"`
	Position    [2]float64        `toml:"position"`
	Heading     float64           `toml:"heading"`
	Draw        string            `toml:"draw"`
	Move        string            `toml:"move"`
	Stamp       string            `toml:"stamp"`
	ScaleBase   float64           `toml:"scale_base"`
	ScaleOffset int               `toml:"scale_offset"`
}

// Duration is a time.Duration written as a string ("1s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		CanvasSize: 500,
		Margin:     pipeline.DefaultMargin,
		Size:       pipeline.DefaultSize,
		Palette:    palette.Default,
		Delay:      Duration{pipeline.DefaultDelay},
		MaxLength:  lsystem.DefaultMaxLength,
		MaxLevel:   lsystem.DefaultMaxLevel,
		Server: ServerConfig{
			Addr:           DefaultAddr,
			CachePrefix:    appName + ":",
			CacheTTL:       Duration{24 * time.Hour},
			RequestTimeout: Duration{DefaultRequestTimeout},
		},
	}
}

// DefaultPath returns the config file location, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the config file at path over the defaults. An empty path means
// DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	return cfg, nil
}

// Validate checks value ranges and the user-defined curves.
func (c *Config) Validate() error {
	if err := errors.ValidatePositive("canvas_size", c.CanvasSize); err != nil {
		return err
	}
	if err := errors.ValidateFinite("margin", c.Margin); err != nil {
		return err
	}
	if c.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %v", c.Margin)
	}
	if c.Size < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be at least 1, got %d", c.Size)
	}
	if _, err := palette.Parse(c.Palette); err != nil {
		return err
	}
	if c.Background != "" {
		if _, err := palette.ParseColor(c.Background); err != nil {
			return err
		}
	}
	if err := errors.ValidateFinite("stroke", c.Stroke); err != nil {
		return err
	}
	if c.Stroke < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stroke must not be negative, got %v", c.Stroke)
	}
	if c.Delay.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "delay must not be negative, got %s", c.Delay)
	}
	if c.MaxLength < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max_length must be at least 1, got %d", c.MaxLength)
	}
	if c.MaxLevel < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max_level must be at least 1, got %d", c.MaxLevel)
	}
	if c.Server.CacheTTL.Duration < 0 || c.Server.RequestTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server durations must not be negative")
	}
	_, err := c.Catalog(curve.Builtin())
	return err
}

// Options returns pipeline options carrying the configured defaults.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		CanvasSize: c.CanvasSize,
		Margin:     c.Margin,
		Size:       c.Size,
		Fit:        c.Fit,
		Palette:    c.Palette,
		Background: c.Background,
		Stroke:     c.Stroke,
		Delay:      c.Delay.Duration,
		MaxLength:  c.MaxLength,
		LevelLimit: c.MaxLevel,
	}
}

// Catalog returns base extended with the user-defined curves.
func (c *Config) Catalog(base *curve.Catalog) (*curve.Catalog, error) {
	if len(c.Curves) == 0 {
		return base, nil
	}
	ds := make([]*curve.Descriptor, 0, len(c.Curves))
	for i := range c.Curves {
		d, err := c.Curves[i].Descriptor()
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return base.With(ds...)
}

// Descriptor converts the entry to a curve descriptor.
func (cc *CurveConfig) Descriptor() (*curve.Descriptor, error) {
	rules, err := lsystem.ParseRules(cc.Rules)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "curve %q", cc.Name)
	}
	if err := errors.ValidatePositive(cc.Name+" scale_base", cc.ScaleBase); err != nil {
		return nil, err
	}
	base, offset := cc.ScaleBase, cc.ScaleOffset
	d := &curve.Descriptor{
		Name:     cc.Name,
		Axiom:    cc.Axiom,
		Rules:    rules,
		Angle:    cc.Angle,
		Heading:  curve.Constant(cc.Heading),
		Position: curve.Constant(curve.Point{X: cc.Position[0], Y: cc.Position[1]}),
		Scale: curve.Formula(func(level int) float64 {
			return math.Pow(base, float64(level-offset))
		}),
		Draw:  cc.Draw,
		Move:  cc.Move,
		Stamp: cc.Stamp,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
