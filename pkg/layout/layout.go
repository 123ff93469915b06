package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/placement"
)

// =============================================================================
// Layout
// =============================================================================

// Layout is a placed command chain.
type Layout struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	ChainHash string    `json:"chain_hash,omitempty" bson:"chain_hash,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Search input
	Orientation coord.Orientation `json:"orientation" bson:"orientation"`
	Min         coord.Coordinate  `json:"min" bson:"min"`
	Max         coord.Coordinate  `json:"max" bson:"max"`

	// Search outcome
	SideLength int              `json:"side_length" bson:"side_length"`
	Attempts   int              `json:"attempts" bson:"attempts"`
	Corner     coord.Coordinate `json:"corner" bson:"corner"`

	Blocks []Block `json:"blocks" bson:"blocks"`
}

// Block is one placed command.
type Block struct {
	Index       int              `json:"index" bson:"index"`
	Command     string           `json:"command" bson:"command"`
	Name        string           `json:"name,omitempty" bson:"name,omitempty"`
	Mode        chain.Mode       `json:"mode" bson:"mode"`
	Conditional bool             `json:"conditional,omitempty" bson:"conditional,omitempty"`
	Position    coord.Coordinate `json:"position" bson:"position"`
	Facing      coord.Direction  `json:"facing" bson:"facing"`
}

// Factory returns the placement factory that turns placed commands into
// blocks.
func Factory() placement.Factory[chain.Command, Block] {
	return func(index int, cmd chain.Command, at coord.Coordinate, facing coord.Direction) Block {
		mode := cmd.Mode
		if mode == "" {
			mode = chain.ModeChain
			if index == 0 {
				mode = chain.ModeImpulse
			}
		}
		return Block{
			Index:       index,
			Command:     cmd.Text,
			Name:        cmd.Name,
			Mode:        mode,
			Conditional: cmd.Conditional,
			Position:    at,
			Facing:      facing,
		}
	}
}

// New builds a layout from a successful search.
func New(c *chain.Chain, min, max coord.Coordinate, o coord.Orientation, res *placement.Result[chain.Command]) *Layout {
	return &Layout{
		ID:          uuid.NewString(),
		Name:        c.Name,
		ChainHash:   chain.Hash(c.Commands),
		CreatedAt:   time.Now().UTC(),
		Orientation: o,
		Min:         min,
		Max:         max,
		SideLength:  res.SideLength,
		Attempts:    res.Attempts,
		Corner:      res.Corner,
		Blocks:      placement.Transform(res.Placements, Factory()),
	}
}

// Place runs the placement search for c and returns the resulting layout.
// A nil placer selects [placement.Sequential].
func Place(ctx context.Context, c *chain.Chain, min, max coord.Coordinate, o coord.Orientation, placer placement.Placer[chain.Command], opts ...placement.Option) (*Layout, error) {
	if c == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "chain is required")
	}
	if placer == nil {
		placer = placement.Sequential[chain.Command]{}
	}
	res, err := placement.Search(ctx, c.Commands, min, max, o, placer, opts...)
	if err != nil {
		return nil, err
	}
	return New(c, min, max, o, res), nil
}

// Chain rebuilds the command chain the layout was placed from.
func (l *Layout) Chain() *chain.Chain {
	c := &chain.Chain{Name: l.Name, Commands: make([]chain.Command, len(l.Blocks))}
	for i, b := range l.Blocks {
		c.Commands[i] = chain.Command{Text: b.Command, Conditional: b.Conditional, Mode: b.Mode, Name: b.Name}
	}
	return c
}

// Validate checks that blocks are in chain order, occupy distinct cells
// inside the search box and face valid directions.
func (l *Layout) Validate() error {
	if err := l.Orientation.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout orientation")
	}
	seen := make(map[coord.Coordinate]int, len(l.Blocks))
	for i, b := range l.Blocks {
		if b.Index != i {
			return errors.New(errors.ErrCodeInvalidFormat, "block %d has index %d", i, b.Index)
		}
		if !b.Facing.Valid() {
			return errors.New(errors.ErrCodeInvalidFormat, "block %d has no facing", i)
		}
		if prev, ok := seen[b.Position]; ok {
			return errors.New(errors.ErrCodeInvalidFormat, "blocks %d and %d share position %s", prev, i, b.Position)
		}
		seen[b.Position] = i
		if !inside(b.Position, l.Min, l.Max) {
			return errors.New(errors.ErrCodeInvalidFormat, "block %d at %s is outside %s..%s", i, b.Position, l.Min, l.Max)
		}
	}
	return nil
}

func inside(p, min, max coord.Coordinate) bool {
	return p.X >= min.X && p.Y >= min.Y && p.Z >= min.Z &&
		p.X < max.X && p.Y < max.Y && p.Z < max.Z
}

// =============================================================================
// Geometry
// =============================================================================

// Bounds returns the inclusive bounding box of all blocks. It reports false
// for an empty layout.
func (l *Layout) Bounds() (lo, hi coord.Coordinate, ok bool) {
	if len(l.Blocks) == 0 {
		return coord.Coordinate{}, coord.Coordinate{}, false
	}
	lo, hi = l.Blocks[0].Position, l.Blocks[0].Position
	for _, b := range l.Blocks[1:] {
		lo = lo.Min(b.Position)
		hi = hi.Max(b.Position)
	}
	return lo, hi, true
}

// Size returns the extent of the occupied bounding box.
func (l *Layout) Size() coord.Coordinate {
	lo, hi, ok := l.Bounds()
	if !ok {
		return coord.Coordinate{}
	}
	return hi.Sub(lo).Add(coord.Uniform(1))
}

// Layer is the set of blocks sharing one Y level.
type Layer struct {
	Y      int
	Blocks []Block
}

// Layers groups blocks by Y level, bottom up. Blocks keep chain order
// within a layer.
func (l *Layout) Layers() []Layer {
	byY := make(map[int][]Block)
	for _, b := range l.Blocks {
		byY[b.Position.Y] = append(byY[b.Position.Y], b)
	}
	layers := make([]Layer, 0, len(byY))
	for y, blocks := range byY {
		layers = append(layers, Layer{Y: y, Blocks: blocks})
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Y < layers[j].Y })
	return layers
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a layout to pretty-printed JSON.
func Marshal(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal decodes and validates a JSON layout.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteFile writes a layout as JSON.
func WriteFile(l *Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a JSON layout.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
