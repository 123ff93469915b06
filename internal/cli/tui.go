package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Block colors per mode, close to the in-game textures.
var modeStyles = map[chain.Mode]lipgloss.Style{
	chain.ModeImpulse: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	chain.ModeChain:   lipgloss.NewStyle().Foreground(lipgloss.Color("79")),
	chain.ModeRepeat:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
}

// maxCommandWidth truncates commands in block tables.
const maxCommandWidth = 48

// =============================================================================
// LayerViewModel - Interactive layer browser
// =============================================================================

// LayerViewModel is the bubbletea model for browsing a layout one Y level
// at a time.
type LayerViewModel struct {
	Layout  *layout.Layout
	Layers  []layout.Layer
	Current int // index into Layers
	Cursor  int // selected block within the current layer
	Indices bool
	Height  int
	Offset  int
}

// NewLayerViewModel creates a layer view starting at the bottom level.
func NewLayerViewModel(l *layout.Layout) LayerViewModel {
	return LayerViewModel{
		Layout: l,
		Layers: l.Layers(),
		Height: 10,
	}
}

func (m LayerViewModel) Init() tea.Cmd {
	return nil
}

func (m LayerViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "pgup":
			if m.Current < len(m.Layers)-1 {
				m.Current++
				m.Cursor, m.Offset = 0, 0
			}
		case "left", "h", "pgdown":
			if m.Current > 0 {
				m.Current--
				m.Cursor, m.Offset = 0, 0
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.layer().Blocks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "i":
			m.Indices = !m.Indices
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 16
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

// layer returns the current layer or an empty one.
func (m LayerViewModel) layer() layout.Layer {
	if m.Current < 0 || m.Current >= len(m.Layers) {
		return layout.Layer{}
	}
	return m.Layers[m.Current]
}

// selected returns the index of the highlighted block, or -1.
func (m LayerViewModel) selected() int {
	blocks := m.layer().Blocks
	if m.Cursor < 0 || m.Cursor >= len(blocks) {
		return -1
	}
	return blocks[m.Cursor].Index
}

func (m LayerViewModel) View() string {
	var b strings.Builder

	title := "Layout"
	if m.Layout.Name != "" {
		title = m.Layout.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ layer  ↑/↓ block  i indices  q quit"))
	b.WriteString("\n\n")

	if len(m.Layers) == 0 {
		b.WriteString(listDimStyle.Render("  (empty layout)"))
		b.WriteString("\n")
		return b.String()
	}

	layer := m.layer()
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		StyleHighlight.Render(fmt.Sprintf("y = %d", layer.Y)),
		listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.Current+1, len(m.Layers)))))

	sel := m.selected()
	grid := render.FormatLayer(m.Layout, layer.Y, render.GridOptions{
		Indices: m.Indices,
		Cell: func(blk *layout.Block, text string) string {
			style := modeStyles[blk.Mode]
			if blk.Index == sel {
				style = listSelectedStyle.Reverse(true)
			}
			return style.Render(text)
		},
	})
	for _, line := range strings.Split(strings.TrimRight(grid, "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	end := m.Offset + m.Height
	if end > len(layer.Blocks) {
		end = len(layer.Blocks)
	}
	b.WriteString(blockTable(layer.Blocks[m.Offset:end], sel))
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Block tables
// =============================================================================

// blockTable renders blocks as a table. The row whose chain index equals
// selected is highlighted; pass -1 for none.
func blockTable(blocks []layout.Block, selected int) string {
	rows := make([][]string, 0, len(blocks))
	for _, blk := range blocks {
		cond := ""
		if blk.Conditional {
			cond = "?"
		}
		rows = append(rows, []string{
			strconv.Itoa(blk.Index),
			blk.Position.String(),
			render.Arrow(blk.Facing) + " " + blk.Facing.String(),
			string(blk.Mode),
			cond,
			truncate(blk.Command, maxCommandWidth),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Position", "Facing", "Mode", "", "Command").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(blocks) {
				return lipgloss.NewStyle()
			}
			blk := blocks[row]
			base := lipgloss.NewStyle().Padding(0, 1)
			if blk.Index == selected {
				return base.Foreground(colorCyan).Bold(true)
			}
			if col == 3 {
				return base.Inherit(modeStyles[blk.Mode])
			}
			if col == 1 || col == 2 {
				return base.Foreground(colorGray)
			}
			return base
		})

	return t.Render()
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
