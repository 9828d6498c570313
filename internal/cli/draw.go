package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
	"github.com/matzehuels/fractaldraw/pkg/render"
	"github.com/matzehuels/fractaldraw/pkg/render/sink"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	levels     int
	delay      time.Duration
	delaySet   bool // --delay given explicitly; 0 then means no pause
	palette    string
	rows       int // canvas height in terminal rows; width is twice this
	stream     bool
	skipFailed bool
	plain      bool // print frames to stdout instead of running the TUI
}

const defaultDrawRows = 24

// drawCommand animates a curve level by level in the terminal.
func (c *CLI) drawCommand() *cobra.Command {
	opts := drawOpts{rows: defaultDrawRows}

	cmd := &cobra.Command{
		Use:   "draw [curve]",
		Short: "Animate a curve level by level in the terminal",
		Long: `Draw levels 1 through N of a curve in the terminal, pausing between levels.
Without a curve argument an interactive picker opens, followed by a prompt for
the number of levels.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.curveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.delaySet = cmd.Flags().Changed("delay")
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			return c.runDraw(cmd.Context(), key, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.levels, "levels", "n", 0, "number of levels to draw (prompted when omitted)")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "pause between levels, 0 for none (default from config, 1s)")
	cmd.Flags().StringVarP(&opts.palette, "palette", "p", "", "palette name or comma-separated hex colours")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "canvas height in terminal rows")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "interpret symbols as they are generated")
	cmd.Flags().BoolVar(&opts.skipFailed, "skip-failed", false, "skip levels that fail instead of stopping")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print each level to stdout without the interactive view")

	return cmd
}

func (c *CLI) runDraw(ctx context.Context, key string, do *drawOpts) error {
	opts := c.options()
	do.apply(&opts)

	d, err := c.pickCurve(key)
	if d == nil || err != nil {
		return err
	}
	levels, err := pickLevels(d, do.levels, opts)
	if levels == 0 || err != nil {
		return err
	}
	opts.MaxLevel = levels
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	rows := max(do.rows, 4)
	canvas := sink.NewBraille(2*rows, rows, render.CanvasViewport(opts.CanvasSize, opts.Margin))
	pen := render.NewPen(canvas)

	if do.plain {
		return animatePlain(ctx, runner, d, pen, canvas, opts, os.Stdout)
	}
	return c.animateTUI(ctx, runner, d, pen, canvas, opts)
}

// apply copies the flags that override the configured options.
func (do *drawOpts) apply(opts *pipeline.Options) {
	opts.Stream = do.stream
	opts.SkipFailed = do.skipFailed
	if do.delaySet {
		opts.Delay = do.delay
		if do.delay == 0 {
			opts.Delay = pipeline.NoDelay
		}
	}
	if do.palette != "" {
		opts.Palette = do.palette
	}
}

// pickCurve resolves key, or opens the picker when key is empty. A nil
// descriptor with a nil error means the user backed out.
func (c *CLI) pickCurve(key string) (*curve.Descriptor, error) {
	if key != "" {
		return c.lookup(key)
	}
	final, err := tea.NewProgram(NewCurveListModel(c.curves().All()), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("curve picker: %w", err)
	}
	return final.(CurveListModel).Selected, nil
}

// pickLevels returns n, or prompts for it when n is zero. Zero with a nil
// error means the user backed out.
func pickLevels(d *curve.Descriptor, n int, opts pipeline.Options) (int, error) {
	if n != 0 {
		return n, nil
	}
	final, err := tea.NewProgram(NewLevelPromptModel(d.Name, opts.LevelLimit)).Run()
	if err != nil {
		return 0, fmt.Errorf("level prompt: %w", err)
	}
	return final.(LevelPromptModel).Level, nil
}

func (c *CLI) animateTUI(ctx context.Context, runner *pipeline.Runner, d *curve.Descriptor, pen *render.Pen, canvas *sink.Braille, opts pipeline.Options) error {
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log lines would tear the alternate screen.
	opts.Logger = newLogger(io.Discard, c.Logger.GetLevel())

	p := tea.NewProgram(newAnimationModel(d.Name, opts.MaxLevel, cancel), tea.WithAltScreen())
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		err := runner.Animate(actx, d, pen, opts, func(level int, stats turtle.Stats) error {
			p.Send(frameMsg{level: level, stats: stats, canvas: canvas.String()})
			return nil
		})
		p.Send(animDoneMsg{err: err})
	}()
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-finished:
		}
	}()

	final, err := p.Run()
	cancel()
	<-finished
	if err != nil {
		return fmt.Errorf("animation: %w", err)
	}

	m := final.(AnimationModel)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case m.Err != nil && !errors.Is(m.Err, context.Canceled):
		return m.Err
	case m.Quit:
		printWarning("Stopped at level %d of %d", m.Level, m.MaxLevel)
	default:
		printSuccess("Drew %s, levels 1-%d", d.Name, m.MaxLevel)
	}
	if m.Level > 0 {
		printStats(m.Stats, false)
	}
	return nil
}

// animatePlain writes every level as uncoloured braille text.
func animatePlain(ctx context.Context, runner *pipeline.Runner, d *curve.Descriptor, pen *render.Pen, canvas *sink.Braille, opts pipeline.Options, w io.Writer) error {
	return runner.Animate(ctx, d, pen, opts, func(level int, stats turtle.Stats) error {
		_, err := fmt.Fprintf(w, "%s, level %d/%d\n%s\n%s\n\n",
			d.Name, level, opts.MaxLevel, canvas.Plain(), statsLine(stats))
		return err
	})
}
