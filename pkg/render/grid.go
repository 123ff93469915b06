package render

import (
	"strconv"
	"strings"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/layout"
)

var arrows = map[coord.Direction]string{
	coord.East:  "→",
	coord.West:  "←",
	coord.South: "↓",
	coord.North: "↑",
	coord.Up:    "⊙",
	coord.Down:  "⊗",
}

// Arrow returns the top-down symbol for a facing. North points up the
// screen; Up and Down point out of and into it.
func Arrow(d coord.Direction) string {
	if a, ok := arrows[d]; ok {
		return a
	}
	return "?"
}

// LayerGrid returns the blocks of level y seen from above. Rows run along Z
// and columns along X, both spanning the bounds of the whole layout so that
// every level shares one frame. Empty cells are nil.
func LayerGrid(l *layout.Layout, y int) [][]*layout.Block {
	lo, hi, ok := l.Bounds()
	if !ok {
		return nil
	}
	grid := make([][]*layout.Block, hi.Z-lo.Z+1)
	for z := range grid {
		grid[z] = make([]*layout.Block, hi.X-lo.X+1)
	}
	for i := range l.Blocks {
		b := &l.Blocks[i]
		if b.Position.Y == y {
			grid[b.Position.Z-lo.Z][b.Position.X-lo.X] = b
		}
	}
	return grid
}

// GridOptions configures [FormatLayer].
type GridOptions struct {
	// Indices prints chain indices instead of facing arrows.
	Indices bool

	// Cell styles each non-empty cell, for example with lipgloss. It
	// receives the padded cell text.
	Cell func(b *layout.Block, text string) string
}

// FormatLayer renders level y as text, one line per Z row.
func FormatLayer(l *layout.Layout, y int, opts GridOptions) string {
	grid := LayerGrid(l, y)
	width := 1
	if opts.Indices {
		width = len(strconv.Itoa(len(l.Blocks) - 1))
	}

	var b strings.Builder
	for _, row := range grid {
		for x, blk := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			if blk == nil {
				b.WriteString(strings.Repeat("·", width))
				continue
			}
			text := Arrow(blk.Facing)
			if opts.Indices {
				text = strconv.Itoa(blk.Index)
			}
			if pad := width - len([]rune(text)); pad > 0 {
				text = strings.Repeat(" ", pad) + text
			}
			if opts.Cell != nil {
				text = opts.Cell(blk, text)
			}
			b.WriteString(text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
