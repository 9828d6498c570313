package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/observability"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

// FrameFunc is called after each level has been drawn. Returning an error
// stops the animation with that error.
type FrameFunc func(level int, stats turtle.Stats) error

// Pacer waits between animated levels.
type Pacer interface {
	// Pace blocks for d or until ctx is done, whichever comes first.
	Pace(ctx context.Context, d time.Duration) error
}

// PacerFunc adapts a function to the Pacer interface.
type PacerFunc func(ctx context.Context, d time.Duration) error

// Pace calls f(ctx, d).
func (f PacerFunc) Pace(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// SleepPacer waits on a timer.
type SleepPacer struct{}

// Pace sleeps for d, returning early with ctx.Err() on cancellation.
func (SleepPacer) Pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Animate draws levels 1 through opts.MaxLevel of d on rend, one after the
// other, calling frame after each and pausing opts.Delay between levels.
// With [NoDelay] the pacer is never called.
//
// The renderer is reset at the start of every level, so each frame shows a
// single level. Cancellation is checked at every level boundary as well as
// during interpretation. A failed level aborts the run unless
// opts.SkipFailed is set, in which case it is logged and the next level
// starts immediately.
func (r *Runner) Animate(ctx context.Context, d *curve.Descriptor, rend turtle.Renderer, opts Options, frame FrameFunc) error {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	pacer := r.Pacer
	if pacer == nil {
		pacer = SleepPacer{}
	}

	logger := opts.Logger.With("session", uuid.NewString(), "curve", d.Name)
	opts.Logger = logger
	logger.Info("animation started", "levels", opts.MaxLevel, "delay", max(opts.Delay, 0))

	drawn := 0
	for level := 1; level <= opts.MaxLevel; level++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("animate %s before level %d: %w", d.Name, level, err)
		}

		stats, err := r.renderLevel(ctx, d, level, rend, &opts)
		if err != nil {
			if opts.SkipFailed && ctx.Err() == nil {
				logger.Warn("skipping level", "level", level, "err", err)
				observability.Pipeline().LevelSkipped(ctx, d.Slug(), level, err)
				continue
			}
			return err
		}
		drawn++

		if frame != nil {
			if err := frame(level, stats); err != nil {
				return err
			}
		}
		if level < opts.MaxLevel && opts.Delay != NoDelay {
			if err := pacer.Pace(ctx, opts.Delay); err != nil {
				return fmt.Errorf("animate %s after level %d: %w", d.Name, level, err)
			}
		}
	}

	logger.Info("animation finished", "drawn", drawn, "skipped", opts.MaxLevel-drawn)
	return nil
}
