package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/curve"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// listCommand prints the curve catalog.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the available curves",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(curveTable(c.curves().All(), -1))
			printNewline()
			printNextStep("Animate one", "fractaldraw draw <number|slug>")
			return nil
		},
	}
}

// curveTable renders ds as a table; the row at index cursor is highlighted.
func curveTable(ds []*curve.Descriptor, cursor int) string {
	rows := make([][]string, len(ds))
	for i, d := range ds {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			d.Name,
			d.Slug(),
			strconv.FormatFloat(d.Angle, 'f', -1, 64) + "°",
			d.Axiom,
			formatRules(d),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Curve", "Slug", "Angle", "Axiom", "Rules").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 0 || col == 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// formatRules lists rules as "A→… B→…" in key order.
func formatRules(d *curve.Descriptor) string {
	parts := make([]string, 0, len(d.Rules))
	for _, k := range d.Rules.Keys() {
		parts = append(parts, string(k)+"→"+d.Rules[k])
	}
	return strings.Join(parts, "  ")
}
