package turtle

import (
	"context"
	"fmt"
	"iter"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/palette"
)

// Run draws symbols, the expansion of d at level, on r.
//
// The renderer is not reset; callers that reuse one renderer across levels
// must reset it first. ctx is checked before every symbol and the run stops
// as soon as it is cancelled.
func Run(ctx context.Context, symbols string, d *curve.Descriptor, level int, pal palette.Palette, r Renderer, opts ...Option) (Stats, error) {
	m, err := start(d, level, pal, r, opts)
	if err != nil {
		return Stats{}, err
	}
	done := ctx.Done()
	for i := 0; i < len(symbols); i++ {
		select {
		case <-done:
			return m.stats, m.cancelled(ctx)
		default:
		}
		if err := m.step(symbols[i]); err != nil {
			return m.stats, err
		}
	}
	return m.stats, m.finish()
}

// RunSeq is Run over a lazily generated sequence such as lsystem.Stream.
func RunSeq(ctx context.Context, symbols iter.Seq[byte], d *curve.Descriptor, level int, pal palette.Palette, r Renderer, opts ...Option) (Stats, error) {
	m, err := start(d, level, pal, r, opts)
	if err != nil {
		return Stats{}, err
	}
	done := ctx.Done()
	for sym := range symbols {
		select {
		case <-done:
			return m.stats, m.cancelled(ctx)
		default:
		}
		if err := m.step(sym); err != nil {
			return m.stats, err
		}
	}
	return m.stats, m.finish()
}

type machine struct {
	r      Renderer
	ops    curve.OpTable
	geom   curve.Geometry
	colors *palette.Cursor
	stack  []curve.Pose
	stats  Stats
	name   string
	level  int
}

func start(d *curve.Descriptor, level int, pal palette.Palette, r Renderer, opts []Option) (*machine, error) {
	o := newOptions(opts)
	geom, err := d.Resolve(level, o.canvasSize)
	if err != nil {
		return nil, err
	}
	m := &machine{
		r:      r,
		ops:    d.Table(),
		geom:   geom,
		colors: pal.Cursor(),
		name:   d.Name,
		level:  level,
	}
	r.Teleport(geom.Start.X, geom.Start.Y)
	r.SetHeading(geom.Start.Heading)
	r.PenDown()
	return m, nil
}

func (m *machine) step(sym byte) error {
	m.stats.Symbols++
	switch m.ops[sym] {
	case curve.OpDraw:
		m.r.PenColor(m.colors.Next())
		m.r.Forward(m.geom.Step)
		m.stats.Segments++
	case curve.OpMove:
		m.r.PenUp()
		m.r.Forward(m.geom.Step)
		m.r.PenDown()
		m.stats.Moves++
	case curve.OpTurnRight:
		m.r.TurnRight(m.geom.Angle)
	case curve.OpTurnLeft:
		m.r.TurnLeft(m.geom.Angle)
	case curve.OpPush:
		x, y := m.r.Position()
		m.stack = append(m.stack, curve.Pose{X: x, Y: y, Heading: m.r.Heading()})
		m.stats.MaxDepth = max(m.stats.MaxDepth, len(m.stack))
	case curve.OpPop:
		n := len(m.stack)
		if n == 0 {
			return errors.New(errors.ErrCodeStackUnderflow,
				"%s level %d: pop at symbol %d with empty stack", m.name, m.level, m.stats.Symbols)
		}
		p := m.stack[n-1]
		m.stack = m.stack[:n-1]
		m.r.Teleport(p.X, p.Y)
		m.r.SetHeading(p.Heading)
	case curve.OpStamp:
		m.r.Stamp()
		m.stats.Stamps++
	case curve.OpNoop:
	}
	return nil
}

func (m *machine) finish() error {
	if n := len(m.stack); n > 0 {
		return errors.New(errors.ErrCodeMalformedGrammar,
			"%s level %d: %d unmatched push(es) at end of input", m.name, m.level, n)
	}
	return nil
}

func (m *machine) cancelled(ctx context.Context) error {
	return fmt.Errorf("%s level %d interrupted after %d symbols: %w", m.name, m.level, m.stats.Symbols, ctx.Err())
}
