package structure

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/structure/nbt"
)

// Options configures [FromLayout].
type Options struct {
	Author      string
	DataVersion int
	Background  *BlockState
}

// Air is a common background fill that clears the area on placement.
var Air = BlockState{Name: "minecraft:air"}

// BlockName returns the command block id for a mode.
func BlockName(m chain.Mode) string {
	switch m {
	case chain.ModeRepeat:
		return "minecraft:repeating_command_block"
	case chain.ModeChain:
		return "minecraft:chain_command_block"
	}
	return "minecraft:command_block"
}

// CommandBlock returns the structure block for a placed command. Positions
// are left as placed; FromLayout shifts them.
func CommandBlock(b layout.Block) Block {
	name := BlockName(b.Mode)
	return Block{
		State: BlockState{
			Name: name,
			Properties: map[string]string{
				"facing":      b.Facing.String(),
				"conditional": strconv.FormatBool(b.Conditional),
			},
		},
		Position: b.Position,
		NBT: nbt.Compound{
			"id":          name,
			"Command":     b.Command,
			"CustomName":  customName(b.Name),
			"auto":        nbt.Bool(b.Mode == chain.ModeChain),
			"TrackOutput": nbt.Bool(true),
			"powered":     nbt.Bool(false),
		},
	}
}

// customName returns the JSON text component shown as the block's name.
func customName(name string) string {
	if name == "" {
		name = "@"
	}
	data, _ := json.Marshal(map[string]string{"text": name})
	return string(data)
}

// FromLayout builds a structure of command blocks. The occupied box of l is
// moved to the origin.
func FromLayout(l *layout.Layout, opts Options) (*Structure, error) {
	if err := errors.ValidateAuthor(opts.Author); err != nil {
		return nil, err
	}
	if opts.DataVersion == 0 {
		opts.DataVersion = DefaultDataVersion
	}
	s := New(opts.DataVersion, opts.Author)
	s.Background = opts.Background

	lo, _, ok := l.Bounds()
	if !ok {
		return s, nil
	}
	for _, b := range l.Blocks {
		cb := CommandBlock(b)
		cb.Position = b.Position.Sub(lo)
		if err := s.AddBlock(cb); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "block %d", b.Index)
		}
	}
	return s, nil
}
