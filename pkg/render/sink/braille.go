package sink

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/render"
)

var _ render.Surface = (*Braille)(nil)

// Braille is a terminal canvas of Unicode braille cells, each holding a 2×4
// grid of dots. Each cell shows the colour of the last stroke through it.
//
// Terminal cells are roughly twice as tall as wide, so a grid of 2n columns
// by n rows shows a square viewport without distortion.
type Braille struct {
	cols, rows int
	viewport   render.Viewport
	cells      []brailleCell
	styles     map[color.RGBA]lipgloss.Style
}

type brailleCell struct {
	bits  uint8
	color color.RGBA
}

// dotBits maps a dot's (x, y) within a cell to its bit in the braille block.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// NewBraille returns a cols×rows canvas showing v.
func NewBraille(cols, rows int, v render.Viewport) *Braille {
	cols, rows = max(cols, 1), max(rows, 1)
	return &Braille{
		cols:     cols,
		rows:     rows,
		viewport: v,
		cells:    make([]brailleCell, cols*rows),
		styles:   make(map[color.RGBA]lipgloss.Style),
	}
}

// Size returns the canvas dimensions in cells.
func (b *Braille) Size() (cols, rows int) { return b.cols, b.rows }

// Bounded reports true: the canvas never grows with the drawing.
func (b *Braille) Bounded() bool { return true }

func (b *Braille) Reset() {
	clear(b.cells)
}

// Line plots s dot by dot.
func (b *Braille) Line(s render.Segment) {
	w, h := float64(2*b.cols), float64(4*b.rows)
	x1, y1 := b.viewport.Map(s.From, w, h)
	x2, y2 := b.viewport.Map(s.To, w, h)
	steps := int(math.Ceil(math.Max(math.Abs(x2-x1), math.Abs(y2-y1))))
	if steps == 0 {
		b.set(x1, y1, s.Color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		b.set(x1+(x2-x1)*t, y1+(y2-y1)*t, s.Color)
	}
}

// Dot plots the mark's position.
func (b *Braille) Dot(m render.Mark) {
	x, y := b.viewport.Map(m.At, float64(2*b.cols), float64(4*b.rows))
	b.set(x, y, m.Color)
}

func (b *Braille) set(fx, fy float64, c color.RGBA) {
	x, y := int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || y < 0 || x >= 2*b.cols || y >= 4*b.rows {
		return
	}
	cell := &b.cells[(y/4)*b.cols+x/2]
	cell.bits |= dotBits[y%4][x%2]
	cell.color = c
}

// String renders the canvas with lipgloss colours, one line per row.
func (b *Braille) String() string {
	return b.render(true)
}

// Plain renders the canvas without colour.
func (b *Braille) Plain() string {
	return b.render(false)
}

func (b *Braille) render(colored bool) string {
	var sb strings.Builder
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range b.cells[row*b.cols : (row+1)*b.cols] {
			if cell.bits == 0 {
				sb.WriteByte(' ')
				continue
			}
			ch := string(rune(0x2800 + int(cell.bits)))
			if colored {
				ch = b.style(cell.color).Render(ch)
			}
			sb.WriteString(ch)
		}
	}
	return sb.String()
}

func (b *Braille) style(c color.RGBA) lipgloss.Style {
	s, ok := b.styles[c]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(c)))
		b.styles[c] = s
	}
	return s
}
