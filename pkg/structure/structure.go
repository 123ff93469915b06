package structure

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/structure/nbt"
)

// DefaultDataVersion is the data version of Minecraft 1.20.4.
const DefaultDataVersion = 3700

// BlockState is a block id with its state properties.
type BlockState struct {
	Name       string
	Properties map[string]string
}

// key returns the canonical "name[k=v,...]" form used for palette lookup.
func (s BlockState) key() string {
	if len(s.Properties) == 0 {
		return s.Name
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s.Properties[k])
	}
	b.WriteByte(']')
	return b.String()
}

// String returns the state in command syntax.
func (s BlockState) String() string { return s.key() }

func (s BlockState) toNBT() nbt.Compound {
	c := nbt.Compound{"Name": s.Name}
	if len(s.Properties) > 0 {
		props := nbt.Compound{}
		for k, v := range s.Properties {
			props[k] = v
		}
		c["Properties"] = props
	}
	return c
}

// Block is a block state at a position, with optional tile entity data.
type Block struct {
	State    BlockState
	Position coord.Coordinate
	NBT      nbt.Compound
}

// Entity is an entity at an exact position. NBT holds the entity data and
// must carry its "id", e.g. "minecraft:armor_stand".
type Entity struct {
	Pos [3]float64
	NBT nbt.Compound
}

// BlockPos returns the block containing the entity.
func (e Entity) BlockPos() coord.Coordinate {
	return coord.Of(int(math.Floor(e.Pos[0])), int(math.Floor(e.Pos[1])), int(math.Floor(e.Pos[2])))
}

func (e Entity) toNBT() nbt.Compound {
	c := nbt.Compound{
		"pos":      nbt.List{e.Pos[0], e.Pos[1], e.Pos[2]},
		"blockPos": intList(e.BlockPos()),
	}
	if e.NBT != nil {
		c["nbt"] = e.NBT
	}
	return c
}

// Structure is the content of a structure file.
type Structure struct {
	DataVersion int
	Author      string

	// Background fills every empty cell of the bounding box when set.
	Background *BlockState

	blocks   map[coord.Coordinate]Block
	entities []Entity
}

// New returns an empty structure.
func New(dataVersion int, author string) *Structure {
	return &Structure{
		DataVersion: dataVersion,
		Author:      author,
		blocks:      make(map[coord.Coordinate]Block),
	}
}

// AddBlock adds b. It fails if a block already occupies b's position or the
// position is negative.
func (s *Structure) AddBlock(b Block) error {
	if _, ok := s.blocks[b.Position]; ok {
		return errors.New(errors.ErrCodeInvalidArgument, "block already present at %s", b.Position)
	}
	return s.ReplaceBlock(b)
}

// ReplaceBlock adds b, replacing any block at the same position.
func (s *Structure) ReplaceBlock(b Block) error {
	if b.Position.X < 0 || b.Position.Y < 0 || b.Position.Z < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "block position %s is negative", b.Position)
	}
	if b.State.Name == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "block at %s has no name", b.Position)
	}
	if s.blocks == nil {
		s.blocks = make(map[coord.Coordinate]Block)
	}
	s.blocks[b.Position] = b
	return nil
}

// Block returns the block at p.
func (s *Structure) Block(p coord.Coordinate) (Block, bool) {
	b, ok := s.blocks[p]
	return b, ok
}

// AddEntity appends e. Its position must be finite and not negative, and its
// NBT must name the entity id.
func (s *Structure) AddEntity(e Entity) error {
	for _, v := range e.Pos {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.New(errors.ErrCodeInvalidArgument, "entity position %v is invalid", e.Pos)
		}
	}
	if id, _ := e.NBT["id"].(string); id == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "entity at %v has no id", e.Pos)
	}
	s.entities = append(s.entities, e)
	return nil
}

// Entities returns the added entities in insertion order.
func (s *Structure) Entities() []Entity {
	return append([]Entity(nil), s.entities...)
}

// Len returns the number of explicitly added blocks.
func (s *Structure) Len() int { return len(s.blocks) }

// Size returns the extent from the origin to the farthest block or entity,
// plus one on every axis. An empty structure has size zero.
func (s *Structure) Size() coord.Coordinate {
	if len(s.blocks) == 0 && len(s.entities) == 0 {
		return coord.Coordinate{}
	}
	var hi coord.Coordinate
	for p := range s.blocks {
		hi = hi.Max(p)
	}
	for _, e := range s.entities {
		hi = hi.Max(e.BlockPos())
	}
	return hi.Add(coord.Uniform(1))
}

// Blocks returns all blocks, including the background fill, sorted by
// Y, Z, then X.
func (s *Structure) Blocks() []Block {
	out := make([]Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, b)
	}
	if s.Background != nil {
		size := s.Size()
		for x := 0; x < size.X; x++ {
			for y := 0; y < size.Y; y++ {
				for z := 0; z < size.Z; z++ {
					p := coord.Of(x, y, z)
					if _, ok := s.blocks[p]; !ok {
						out = append(out, Block{State: *s.Background, Position: p})
					}
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}

// NBT returns the root compound of the structure file.
func (s *Structure) NBT() nbt.Compound {
	blocks := s.Blocks()

	var palette nbt.List
	index := make(map[string]int32)
	blockList := make(nbt.List, 0, len(blocks))
	for _, b := range blocks {
		k := b.State.key()
		i, ok := index[k]
		if !ok {
			i = int32(len(palette))
			index[k] = i
			palette = append(palette, b.State.toNBT())
		}
		entry := nbt.Compound{
			"state": i,
			"pos":   intList(b.Position),
		}
		if b.NBT != nil {
			entry["nbt"] = b.NBT
		}
		blockList = append(blockList, entry)
	}
	if palette == nil {
		palette = nbt.List{}
	}
	entities := make(nbt.List, 0, len(s.entities))
	for _, e := range s.entities {
		entities = append(entities, e.toNBT())
	}

	return nbt.Compound{
		"DataVersion": int32(s.DataVersion),
		"author":      s.Author,
		"size":        intList(s.Size()),
		"palette":     palette,
		"blocks":      blockList,
		"entities":    entities,
	}
}

// Encode writes the gzip-compressed NBT structure file to w.
func (s *Structure) Encode(w io.Writer) error {
	zw := gzip.NewWriter(w)
	if err := nbt.Encode(zw, "", s.NBT()); err != nil {
		zw.Close()
		return fmt.Errorf("encode structure: %w", err)
	}
	return zw.Close()
}

// WriteFile writes the structure file to path, creating parent directories.
func (s *Structure) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode reads a gzip-compressed structure file and returns its root
// compound.
func Decode(r io.Reader) (nbt.Compound, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open structure")
	}
	defer zr.Close()
	_, root, err := nbt.Decode(zr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode structure")
	}
	return root, nil
}

func intList(c coord.Coordinate) nbt.List {
	return nbt.List{int32(c.X), int32(c.Y), int32(c.Z)}
}
