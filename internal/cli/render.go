package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // base path; files are <base>_L<level>.<format>
	formats   string // comma-separated output formats
	level     int
	allLevels bool // render every level from 1 through level
	palette   string
	size      int
	stroke    float64
	bg        string
	fit       bool
	stream    bool
	noCache   bool
	refresh   bool
}

// renderCommand writes image files for one or more levels of a curve.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{level: pipeline.DefaultLevel}

	cmd := &cobra.Command{
		Use:   "render <curve>",
		Short: "Render a curve level to SVG, PNG or JSON",
		Example: `  fractaldraw render hilbert-curve -l 5
  fractaldraw render 3 -l 6 -f svg,png -o out/cesaro
  fractaldraw render dragon-curve -l 12 --all-levels --fit
  fractaldraw render "fractal plant" -l 6 --background white --stroke 2`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.curveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default <slug>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().IntVarP(&opts.level, "level", "l", opts.level, "level to render")
	cmd.Flags().BoolVar(&opts.allLevels, "all-levels", false, "render every level from 1 through --level")
	cmd.Flags().StringVarP(&opts.palette, "palette", "p", "", "palette name or comma-separated hex colours (default from config)")
	cmd.Flags().IntVar(&opts.size, "size", 0, "image size in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.stroke, "stroke", 0, "line width in pixels (default from config)")
	cmd.Flags().StringVar(&opts.bg, "background", "", "background colour name or hex (default from config, black)")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "crop to the drawing instead of the fixed canvas")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "interpret symbols as they are generated")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, key string, ro *renderOpts) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}

	opts := c.options()
	opts.Curve = key
	opts.Formats = parseFormats(ro.formats)
	opts.Stream = ro.stream
	opts.Refresh = ro.refresh
	opts.Fit = opts.Fit || ro.fit
	if ro.palette != "" {
		opts.Palette = ro.palette
	}
	if ro.size > 0 {
		opts.Size = ro.size
	}
	if ro.stroke > 0 {
		opts.Stroke = ro.stroke
	}
	if ro.bg != "" {
		opts.Background = ro.bg
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if err := errors.ValidateLevel(ro.level, opts.LevelLimit); err != nil {
		return err
	}

	runner, err := c.newRunner(ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	base := basePath(ro.output, d.Slug())
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	first := ro.level
	if ro.allLevels {
		first = 1
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", d.Name))
	spinner.Start()

	var (
		files  []string
		cached int
	)
	for level := first; level <= ro.level; level++ {
		spinner.Update("Rendering %s, level %d...", d.Name, level)
		opts.Level = level
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			if spinner.Cancelled() {
				spinner.StopWithError("Cancelled")
			} else {
				spinner.Stop()
			}
			return err
		}
		if result.CacheHit {
			cached++
		}
		for _, format := range opts.Formats {
			path := outputPath(base, level, format)
			if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
				spinner.Stop()
				return fmt.Errorf("write %s: %w", path, err)
			}
			files = append(files, path)
		}
	}
	elapsed := prog.done("rendered", "curve", d.Name, "files", len(files))
	levels := ro.level - first + 1
	took := StyleDim.Render("(" + formatDuration(elapsed) + ")")
	if levels == 1 {
		spinner.StopWithSuccess(fmt.Sprintf("Rendered %s, level %d %s", d.Name, ro.level, took))
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Rendered %s, levels %d-%d %s", d.Name, first, ro.level, took))
	}
	for _, f := range files {
		printFile(f)
	}
	if cached > 0 {
		printDetail("%d of %d levels from cache", cached, levels)
	}
	return nil
}

// basePath strips a known format extension from output, or falls back to
// the curve slug.
func basePath(output, slug string) string {
	if output == "" {
		return slug
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one level and format: out_L3.svg.
func outputPath(base string, level int, format string) string {
	return fmt.Sprintf("%s_L%d.%s", base, level, format)
}

// formatFromPath returns the format named by path's extension, or def.
func formatFromPath(path, def string) string {
	if f := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); pipeline.ValidFormats[f] {
		return f
	}
	return def
}

// formatDuration is d rounded for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
