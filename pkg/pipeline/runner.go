package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fractaldraw/pkg/cache"
	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/observability"
	"github.com/matzehuels/fractaldraw/pkg/render/nodelink"
)

// Runner encapsulates rendering with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// render results. Multiple goroutines can safely use the same Runner as long
// as each brings its own renderer.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Catalog *curve.Catalog

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration

	// Pacer waits between animated levels.
	Pacer Pacer
}

// NewRunner creates a runner over the built-in catalog.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Catalog: curve.Builtin(),
		TTL:     cache.DefaultTTL,
		Pacer:   SleepPacer{},
	}
}

// Curves returns the names of the available curves in catalog order.
func (r *Runner) Curves() []string {
	return r.Catalog.Names()
}

// Lookup resolves a curve by name, slug or 1-based index.
func (r *Runner) Lookup(key string) (*curve.Descriptor, error) {
	return r.Catalog.Lookup(key)
}

// Execute renders opts.Level of opts.Curve in every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	d, err := r.Lookup(opts.Curve)
	if err != nil {
		return nil, err
	}

	session := uuid.NewString()
	opts.Logger = opts.Logger.With("session", session)

	start := time.Now()
	artifacts, hit, err := r.Artifacts(ctx, d, opts.Level, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Curve:     d.Name,
		Slug:      d.Slug(),
		Level:     opts.Level,
		SessionID: session,
		Artifacts: artifacts,
		CacheHit:  hit,
		Duration:  time.Since(start),
	}

	opts.Logger.Info("rendered outputs",
		"curve", d.Name,
		"level", opts.Level,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Duration)
	return result, nil
}

// Artifacts renders one level of d in every format of opts.Formats.
// The boolean reports whether all artifacts came from the cache.
func (r *Runner) Artifacts(ctx context.Context, d *curve.Descriptor, level int, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	if err := errors.ValidateLevel(level, opts.LevelLimit); err != nil {
		return nil, false, levelError(d, level, err)
	}
	grammar, err := artifactFingerprint(d, level, opts.CanvasSize)
	if err != nil {
		return nil, false, levelError(d, level, err)
	}
	key := func(f string) string {
		return r.Keyer.ArtifactKey(d.Slug(), level, opts.ArtifactKeyOpts(f, grammar))
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, "artifact", opts, key); ok {
			return artifacts, true, nil
		}
	}

	drawing, stats, err := r.Draw(ctx, d, level, opts)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := Encode(drawing, d, level, stats, format, opts)
		if err != nil {
			return nil, false, levelError(d, level, fmt.Errorf("render %s: %w", format, err))
		}
		artifacts[format] = data
		r.store(ctx, "artifact", key(format), data, opts)
	}
	return artifacts, false, nil
}

// Grammar renders the production-rule graph of d as SVG or PNG.
// The boolean reports a cache hit.
func (r *Runner) Grammar(ctx context.Context, d *curve.Descriptor, format string, detailed bool) ([]byte, bool, error) {
	if format != FormatSVG && format != FormatPNG {
		return nil, false, errors.New(errors.ErrCodeInvalidFormat, "invalid grammar format: %q (must be one of: png, svg)", format)
	}
	opts := Options{Formats: []string{format}, Logger: r.Logger}
	key := func(f string) string {
		return r.Keyer.GrammarKey(d.Slug(), cache.GrammarKeyOpts{
			Format:   f,
			Grammar:  grammarFingerprint(d),
			Detailed: detailed,
		})
	}
	if artifacts, ok := r.cached(ctx, "grammar", opts, key); ok {
		return artifacts[format], true, nil
	}

	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: detailed})
	var (
		data []byte
		err  error
	)
	if format == FormatPNG {
		data, err = nodelink.RenderPNG(ctx, dot)
	} else {
		data, err = nodelink.RenderSVG(ctx, dot)
	}
	if err != nil {
		return nil, false, fmt.Errorf("render %s grammar: %w", d.Name, err)
	}
	r.store(ctx, "grammar", key(format), data, opts)
	return data, false, nil
}

// cached returns every format from the cache, or false if any is missing.
func (r *Runner) cached(ctx context.Context, keyType string, opts Options, key func(string) string) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, key(format))
		if err != nil {
			opts.Logger.Warn("cache read failed", "type", keyType, "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().CacheAccessed(ctx, observability.CacheEvent{Kind: keyType, Outcome: observability.CacheMiss})
			return nil, false
		}
		artifacts[format] = data
	}
	observability.Cache().CacheAccessed(ctx, observability.CacheEvent{Kind: keyType, Outcome: observability.CacheHit})
	return artifacts, true
}

// store writes one entry; failures are logged, never returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, opts Options) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().CacheAccessed(ctx, observability.CacheEvent{Kind: keyType, Outcome: observability.CacheStore, Bytes: len(data)})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
