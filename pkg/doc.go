// Package pkg provides the core libraries for fractaldraw.
//
// # Overview
//
// fractaldraw expands Lindenmayer-system grammars and draws the resulting
// symbol strings with a turtle. The pkg directory is organized into three
// areas:
//
//  1. Domain logic: [lsystem], [curve], [turtle], [palette]
//  2. Output: [render] and its [render/sink] and [render/nodelink] subpackages
//  3. Orchestration and infrastructure: [pipeline], [cache], [config],
//     [server], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow for one level of one curve:
//
//	curve.Descriptor (axiom, rules, angle, step, start pose)
//	         ↓
//	    [lsystem] package (rewrite the axiom level-1 times)
//	         ↓
//	    [turtle] package (interpret symbols against a Renderer)
//	         ↓
//	    [render] package (Pen + Drawing or a live Surface)
//	         ↓
//	    SVG/PNG/JSON/braille output
//
// # Quick Start
//
//	d, _ := curve.Builtin().Lookup("hilbert-curve")
//	symbols, _ := d.Expand(4)
//
//	pal, _ := palette.Named(palette.Default)
//	drawing := &render.Drawing{}
//	stats, _ := turtle.Run(ctx, symbols, d, 4, pal, render.NewPen(drawing))
//
// Most callers go through [pipeline.Runner] instead, which adds option
// validation, caching and level-by-level animation.
//
// # Main Packages
//
// [lsystem] - Parallel rewriting of an axiom under a rule set, either into a
// string or as a lazy byte sequence, with a length guard against runaway
// growth.
//
// [curve] - Curve descriptors and the built-in catalog of sixteen curves.
// Step length, start position and heading may depend on the level.
//
// [turtle] - The interpreter. Draw, move, turn, push, pop and stamp symbols
// drive any [turtle.Renderer].
//
// [palette] - Named colour palettes and hex palette parsing.
//
// [render] - The standard pen plus recorded drawings and viewports.
//
// [pipeline] - Render, cache and animate curves. Shared by the CLI and the
// HTTP server so both behave the same way.
//
// [cache] - File, Redis and null caches behind one interface.
//
// [server] - HTTP API over the catalog and the renderer.
//
// [lsystem]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/lsystem
// [curve]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/curve
// [turtle]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/turtle
// [turtle.Renderer]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/turtle#Renderer
// [palette]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/palette
// [render]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/fractaldraw/pkg/buildinfo
package pkg
