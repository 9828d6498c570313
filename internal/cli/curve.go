package cli

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/lsystem"
	"github.com/matzehuels/fractaldraw/pkg/pipeline"
)

// lookup resolves a curve argument against the configured catalog.
func (c *CLI) lookup(key string) (*curve.Descriptor, error) {
	if err := errors.ValidateCurveName(key); err != nil {
		return nil, err
	}
	return c.curves().Lookup(key)
}

// levelOptions returns the config options with level validated against the
// configured limit.
func (c *CLI) levelOptions(level int) (pipeline.Options, error) {
	opts := c.options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if err := errors.ValidateLevel(level, opts.LevelLimit); err != nil {
		return opts, err
	}
	return opts, nil
}

// expandCommand prints the symbol string of one level.
func (c *CLI) expandCommand() *cobra.Command {
	var (
		level  int
		stream bool
	)

	cmd := &cobra.Command{
		Use:               "expand <curve>",
		Short:             "Print the symbol string of a curve level",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.curveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			opts, err := c.levelOptions(level)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			if !stream {
				s, err := d.Expand(level, opts.ExpandOptions()...)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, s)
				return nil
			}

			// Streaming is bounded by level only, not by length.
			seq, err := d.Stream(level, lsystem.WithMaxLevel(opts.LevelLimit))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			n := 0
			for sym := range seq {
				if n%4096 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				w.WriteByte(sym)
				n++
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", pipeline.DefaultLevel, "level to expand (1 is the axiom)")
	cmd.Flags().BoolVar(&stream, "stream", false, "stream symbols without building the string or applying max_length")
	return cmd
}

// infoCommand prints a curve's grammar, counts and geometry.
func (c *CLI) infoCommand() *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:               "info <curve>",
		Short:             "Show a curve's grammar and statistics",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.curveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			opts, err := c.levelOptions(level)
			if err != nil {
				return err
			}
			return printCurveInfo(d, level, opts)
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", pipeline.DefaultLevel, "level to describe")
	return cmd
}

func printCurveInfo(d *curve.Descriptor, level int, opts pipeline.Options) error {
	// Counting never builds the string, so it is bounded by int range only.
	countOpts := []lsystem.Option{lsystem.WithMaxLength(int(^uint(0) >> 1)), lsystem.WithMaxLevel(opts.LevelLimit)}
	counts, err := lsystem.CountSymbols(d.Axiom, d.Rules, level, countOpts...)
	if err != nil {
		return err
	}
	length := 0
	for _, n := range counts {
		length += n
	}
	geo, err := d.Resolve(level, opts.CanvasSize)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(d.Name))
	printNewline()
	printKeyValue("Slug", d.Slug())
	printKeyValue("Axiom", d.Axiom)
	for _, k := range d.Rules.Keys() {
		printKeyValue("Rule "+string(k), d.Rules[k])
	}
	printKeyValue("Angle", strconv.FormatFloat(d.Angle, 'f', -1, 64)+"°")
	printNewline()

	printKeyValue("Level", strconv.Itoa(level))
	printKeyValue("Length", strconv.Itoa(length))
	if length > opts.MaxLength {
		printWarning("longer than max_length %d; use --stream or raise the limit", opts.MaxLength)
	}
	syms := make([]byte, 0, len(counts))
	for s := range counts {
		syms = append(syms, s)
	}
	slices.Sort(syms)
	for _, s := range syms {
		printKeyValue(fmt.Sprintf("  %q", s), fmt.Sprintf("%d (%s)", counts[s], d.Classify(s)))
	}
	printNewline()

	printKeyValue("Start", fmt.Sprintf("(%.2f, %.2f) heading %.1f°", geo.Start.X, geo.Start.Y, geo.Start.Heading))
	printKeyValue("Step", strconv.FormatFloat(geo.Step, 'f', 3, 64))
	printKeyValue("Scale", strconv.FormatFloat(d.Scale.At(level), 'f', -1, 64))
	return nil
}

// grammarCommand renders the production-rule graph.
func (c *CLI) grammarCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:               "grammar <curve>",
		Short:             "Draw a curve's production rules as a graph",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.curveArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = d.Slug() + "_grammar.svg"
			}
			format := formatFromPath(output, pipeline.FormatSVG)

			runner, err := c.newRunner(false)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, hit, err := runner.Grammar(cmd.Context(), d, format, detailed)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Grammar of %s", d.Name)
			printFile(output)
			if hit {
				printDetail(iconCached)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .svg or .png (default <slug>_grammar.svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their full replacement")
	return cmd
}
