package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	promptStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// =============================================================================
// CurveListModel - Interactive curve selection
// =============================================================================

// CurveListModel is the bubbletea model for picking a curve.
type CurveListModel struct {
	Curves   []*curve.Descriptor
	Cursor   int
	Offset   int
	Height   int
	Selected *curve.Descriptor
}

// NewCurveListModel creates a picker over curves.
func NewCurveListModel(curves []*curve.Descriptor) CurveListModel {
	return CurveListModel{Curves: curves, Height: 16}
}

func (m CurveListModel) Init() tea.Cmd {
	return nil
}

func (m CurveListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.Curves))
		case "end", "G":
			m.move(len(m.Curves))
		case "enter":
			if len(m.Curves) > 0 {
				m.Selected = m.Curves[m.Cursor]
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		// Title, help, table borders and footer take about ten lines.
		m.Height = max(msg.Height-10, 3)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, keeping it in the window.
func (m *CurveListModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.Curves)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m CurveListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Curve"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Curves))
	b.WriteString(curveTable(m.Curves[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Curves))))

	return b.String()
}

// =============================================================================
// LevelPromptModel - Ask how many levels to draw
// =============================================================================

// LevelPromptModel asks for the number of levels until it gets a whole
// number from 1 through Limit.
type LevelPromptModel struct {
	Curve string
	Limit int
	Input string
	Err   string
	Level int
}

// NewLevelPromptModel creates a prompt for curve's level count.
func NewLevelPromptModel(curve string, limit int) LevelPromptModel {
	return LevelPromptModel{Curve: curve, Limit: limit}
}

func (m LevelPromptModel) Init() tea.Cmd {
	return nil
}

func (m LevelPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyBackspace:
		if m.Input != "" {
			m.Input = m.Input[:len(m.Input)-1]
		}
	case tea.KeyEnter:
		if n, err := m.parse(); err != nil {
			m.Err = err.Error()
			m.Input = ""
		} else {
			m.Level = n
			return m, tea.Quit
		}
	case tea.KeyRunes:
		if len(m.Input) < 6 {
			m.Input += string(key.Runes)
		}
		m.Err = ""
	}
	return m, nil
}

func (m LevelPromptModel) parse() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(m.Input))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a valid input", m.Input)
	}
	if m.Limit > 0 && n > m.Limit {
		return 0, fmt.Errorf("%d is above the limit of %d", n, m.Limit)
	}
	return n, nil
}

func (m LevelPromptModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Curve))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("How many levels do you want? "))
	b.WriteString(StyleValue.Render(m.Input))
	b.WriteString(listDimStyle.Render("▏"))
	b.WriteString("\n")
	if m.Err != "" {
		b.WriteString(StyleError.Render(iconError + " " + m.Err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎ confirm  esc quit"))
	return b.String()
}

// =============================================================================
// AnimationModel - Terminal playback of Runner.Animate
// =============================================================================

// frameMsg carries one finished level from the animation goroutine.
type frameMsg struct {
	level  int
	stats  turtle.Stats
	canvas string
}

// animDoneMsg reports the end of the animation.
type animDoneMsg struct{ err error }

// AnimationModel shows the latest frame. The final frame stays on screen
// until the user quits.
type AnimationModel struct {
	Curve    string
	MaxLevel int
	Level    int
	Stats    turtle.Stats
	Canvas   string
	Done     bool
	Err      error
	Quit     bool

	cancel context.CancelFunc
}

func newAnimationModel(curve string, maxLevel int, cancel context.CancelFunc) AnimationModel {
	return AnimationModel{Curve: curve, MaxLevel: maxLevel, cancel: cancel}
}

func (m AnimationModel) Init() tea.Cmd {
	return nil
}

func (m AnimationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quit = !m.Done
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case frameMsg:
		m.Level, m.Stats, m.Canvas = msg.level, msg.stats, msg.canvas
	case animDoneMsg:
		m.Done, m.Err = true, msg.err
		if msg.err != nil {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AnimationModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Curve))
	if m.Level > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  level %d/%d", m.Level, m.MaxLevel)))
	}
	b.WriteString("\n")
	b.WriteString(m.Canvas)
	b.WriteString("\n")
	if m.Level > 0 {
		b.WriteString(statsLine(m.Stats))
		b.WriteString("\n")
	}
	if m.Done {
		b.WriteString(listDimStyle.Render("done  q quit"))
	} else {
		b.WriteString(listDimStyle.Render("drawing…  q stop"))
	}
	return b.String()
}
