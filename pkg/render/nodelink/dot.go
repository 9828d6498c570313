package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/errors"
)

// Options configures rule graph rendering.
type Options struct {
	// Detailed includes each rule's replacement text in its node label.
	// When false, only the symbol is shown.
	Detailed bool
}

// axiomID is the node id of the start symbol sequence.
const axiomID = "axiom"

// ToDOT converts a curve's production rules to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// There is one node for the axiom and one for every rule key or drawing
// symbol the grammar reaches. An edge k -> s means the replacement of k
// mentions s. Drawing symbols are filled; inert nonterminals are dashed.
func ToDOT(d *curve.Descriptor, opts Options) string {
	table := d.Table()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	axiomLabel := d.Name
	if opts.Detailed {
		axiomLabel += "\n" + d.Axiom
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n", axiomID, axiomLabel)

	for _, sym := range nodes(d, table) {
		label := string(sym)
		if repl, ok := d.Rules[sym]; ok && opts.Detailed {
			label += " → " + repl
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if table[sym] == curve.OpDraw {
			attrs = append(attrs, "fillcolor=\"#ffd27f\"")
		} else {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", string(sym), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, to := range mentions(d.Axiom, d, table) {
		fmt.Fprintf(&buf, "  %q -> %q;\n", axiomID, string(to))
	}
	for _, from := range d.Rules.Keys() {
		for _, to := range mentions(d.Rules[from], d, table) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", string(from), string(to))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodes returns the rule keys and drawing symbols in the grammar, sorted.
func nodes(d *curve.Descriptor, table curve.OpTable) []byte {
	var seen [256]bool
	for _, k := range d.Rules.Keys() {
		seen[k] = true
	}
	for _, s := range append([]string{d.Axiom}, ruleValues(d)...) {
		for i := 0; i < len(s); i++ {
			if table[s[i]] == curve.OpDraw {
				seen[s[i]] = true
			}
		}
	}
	var out []byte
	for c := range seen {
		if seen[c] {
			out = append(out, byte(c))
		}
	}
	return out
}

func ruleValues(d *curve.Descriptor) []string {
	out := make([]string, 0, len(d.Rules))
	for _, k := range d.Rules.Keys() {
		out = append(out, d.Rules[k])
	}
	return out
}

// mentions returns the distinct graph symbols in s, sorted.
func mentions(s string, d *curve.Descriptor, table curve.OpTable) []byte {
	var seen [256]bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if _, isRule := d.Rules[c]; isRule || table[c] == curve.OpDraw {
			seen[c] = true
		}
	}
	var out []byte
	for c := range seen {
		if seen[c] {
			out = append(out, byte(c))
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
