package pipeline

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/matzehuels/fractaldraw/pkg/cache"
	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
	"github.com/matzehuels/fractaldraw/pkg/observability"
	"github.com/matzehuels/fractaldraw/pkg/render"
	"github.com/matzehuels/fractaldraw/pkg/render/sink"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

// RenderLevel draws one level of d on rend.
//
// The renderer is reset first if it has a Reset method, then the level is
// expanded (or streamed when opts.Stream is set) and interpreted. Streaming
// skips opts.MaxLength only when rend draws onto a [render.Bounded]
// surface. Any failure is returned as an [errors.LevelError] for this
// level; the renderer keeps whatever was drawn before the failure.
func (r *Runner) RenderLevel(ctx context.Context, d *curve.Descriptor, level int, rend turtle.Renderer, opts Options) (turtle.Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return turtle.Stats{}, fmt.Errorf("invalid options: %w", err)
	}
	return r.renderLevel(ctx, d, level, rend, &opts)
}

func (r *Runner) renderLevel(ctx context.Context, d *curve.Descriptor, level int, rend turtle.Renderer, opts *Options) (turtle.Stats, error) {
	if err := errors.ValidateLevel(level, opts.LevelLimit); err != nil {
		return turtle.Stats{}, levelError(d, level, err)
	}
	if rs, ok := rend.(interface{ Reset() }); ok {
		rs.Reset()
	}

	hooks := observability.Pipeline()
	ev := observability.LevelEvent{Curve: d.Slug(), Level: level, Stream: opts.Stream}
	hooks.LevelStarted(ctx, ev.Curve, level)
	runOpt := turtle.WithCanvasSize(opts.CanvasSize)
	start := time.Now()

	var stats turtle.Stats
	var err error
	if opts.Stream {
		// A renderer that keeps every segment still needs the length bound.
		if !bounded(rend) {
			_, err = lsystem.Length(d.Axiom, d.Rules, level, opts.ExpandOptions()...)
		}
		var stream iter.Seq[byte]
		if err == nil {
			stream, err = d.Stream(level, opts.ExpandOptions()...)
		}
		if err == nil {
			stats, err = turtle.RunSeq(ctx, stream, d, level, opts.palette, rend, runOpt)
		}
	} else {
		var symbols string
		if symbols, err = d.Expand(level, opts.ExpandOptions()...); err == nil {
			ev.Expand = time.Since(start)
			stats, err = turtle.Run(ctx, symbols, d, level, opts.palette, rend, runOpt)
		}
	}
	ev.Draw = time.Since(start) - ev.Expand
	ev.Symbols, ev.Segments, ev.Err = stats.Symbols, stats.Segments, err
	hooks.LevelFinished(ctx, ev)
	if err != nil {
		return stats, levelError(d, level, err)
	}

	opts.Logger.Debug("rendered level",
		"curve", d.Name,
		"level", level,
		"symbols", stats.Symbols,
		"segments", stats.Segments,
		"duration", time.Since(start))
	return stats, nil
}

// bounded reports whether rend draws onto fixed-size storage.
func bounded(rend turtle.Renderer) bool {
	b, ok := rend.(render.Bounded)
	return ok && b.Bounded()
}

// Draw renders one level into a fresh [render.Drawing].
func (r *Runner) Draw(ctx context.Context, d *curve.Descriptor, level int, opts Options) (*render.Drawing, turtle.Stats, error) {
	drawing := &render.Drawing{}
	stats, err := r.RenderLevel(ctx, d, level, render.NewPen(drawing), opts)
	if err != nil {
		return nil, stats, err
	}
	return drawing, stats, nil
}

// Encode writes a finished drawing in one output format.
func Encode(drawing *render.Drawing, d *curve.Descriptor, level int, stats turtle.Stats, format string, opts Options) ([]byte, error) {
	opts.SetDefaults()
	vp := viewport(drawing, opts)
	bg, err := opts.BackgroundColor()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{
			sink.WithViewport(vp),
			sink.WithSize(opts.Size),
			sink.WithTitle(fmt.Sprintf("%s, level %d", d.Name, level)),
			sink.WithBackground(bg),
		}
		if opts.Stroke > 0 {
			svgOpts = append(svgOpts, sink.WithStrokeWidth(opts.Stroke))
		}
		return sink.RenderSVG(drawing, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{
			sink.WithPNGViewport(vp),
			sink.WithPNGSize(opts.Size),
			sink.WithPNGBackground(bg),
		}
		if opts.Stroke > 0 {
			pngOpts = append(pngOpts, sink.WithLineWidth(opts.Stroke))
		}
		return sink.RenderPNG(drawing, pngOpts...)
	case FormatJSON:
		return sink.RenderJSON(drawing,
			sink.WithJSONCurve(d.Name, level),
			sink.WithJSONStats(stats),
		)
	default:
		return nil, ValidateFormat(format)
	}
}

// viewport is the fitted bounding square when opts.Fit is set, otherwise
// the fixed canvas every catalog curve is centred on.
func viewport(drawing *render.Drawing, opts Options) render.Viewport {
	if opts.Fit {
		return render.FitViewport(drawing.Bounds(), opts.CanvasSize, opts.Margin)
	}
	return render.CanvasViewport(opts.CanvasSize, opts.Margin)
}

func levelError(d *curve.Descriptor, level int, err error) error {
	return &errors.LevelError{Curve: d.Name, Level: level, Err: err}
}

// grammarFingerprint identifies everything about d that shapes its rule
// graph, so user curves that reuse a built-in slug get their own keys.
func grammarFingerprint(d *curve.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\x00%s\x00%g\x00%s\x00%s\x00%s", d.Name, d.Axiom, d.Angle, d.Draw, d.Move, d.Stamp)
	for _, k := range d.Rules.Keys() {
		fmt.Fprintf(&b, "\x00%c=%s", k, d.Rules[k])
	}
	return cache.Hash([]byte(b.String()))
}

// artifactFingerprint adds the resolved geometry of level, which formula
// values only reveal once evaluated.
func artifactFingerprint(d *curve.Descriptor, level int, canvasSize float64) (string, error) {
	g, err := d.Resolve(level, canvasSize)
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("%s\x00%g\x00%g\x00%g\x00%g", grammarFingerprint(d), g.Start.X, g.Start.Y, g.Start.Heading, g.Step)
	return cache.Hash([]byte(s)), nil
}
