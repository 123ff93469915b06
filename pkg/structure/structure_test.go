package structure

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/structure/nbt"
)

func stone(x, y, z int) Block {
	return Block{State: BlockState{Name: "minecraft:stone"}, Position: coord.Of(x, y, z)}
}

func TestAddBlock(t *testing.T) {
	s := New(DefaultDataVersion, "me")
	if err := s.AddBlock(stone(0, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBlock(stone(0, 0, 0)); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("duplicate err = %v", err)
	}
	if err := s.AddBlock(stone(-1, 0, 0)); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("negative err = %v", err)
	}
	dirt := Block{State: BlockState{Name: "minecraft:dirt"}, Position: coord.Of(0, 0, 0)}
	if err := s.ReplaceBlock(dirt); err != nil {
		t.Fatal(err)
	}
	if b, _ := s.Block(coord.Of(0, 0, 0)); b.State.Name != "minecraft:dirt" {
		t.Errorf("replace kept %s", b.State.Name)
	}
}

func TestSize(t *testing.T) {
	s := New(DefaultDataVersion, "")
	if s.Size() != (coord.Coordinate{}) {
		t.Errorf("empty size = %v", s.Size())
	}
	_ = s.AddBlock(stone(2, 0, 1))
	_ = s.AddBlock(stone(0, 3, 0))
	if want := coord.Of(3, 4, 2); s.Size() != want {
		t.Errorf("size = %v, want %v", s.Size(), want)
	}
}

func TestEntities(t *testing.T) {
	stand := Entity{Pos: [3]float64{0.5, 4.25, 2.5}, NBT: nbt.Compound{"id": "minecraft:armor_stand"}}
	tests := []struct {
		name string
		e    Entity
		ok   bool
	}{
		{"armor stand", stand, true},
		{"negative", Entity{Pos: [3]float64{-0.5, 0, 0}, NBT: stand.NBT}, false},
		{"nan", Entity{Pos: [3]float64{math.NaN(), 0, 0}, NBT: stand.NBT}, false},
		{"no id", Entity{Pos: [3]float64{1, 1, 1}, NBT: nbt.Compound{"CustomName": "x"}}, false},
		{"nil nbt", Entity{Pos: [3]float64{1, 1, 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(DefaultDataVersion, "").AddEntity(tt.e)
			if tt.ok && err != nil {
				t.Fatalf("AddEntity: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("err = %v, want INVALID_ARGUMENT", err)
			}
		})
	}

	s := New(DefaultDataVersion, "")
	_ = s.AddBlock(stone(1, 0, 0))
	if err := s.AddEntity(stand); err != nil {
		t.Fatal(err)
	}
	if want := coord.Of(2, 5, 3); s.Size() != want {
		t.Errorf("size = %v, want %v", s.Size(), want)
	}
	if got := stand.BlockPos(); got != coord.Of(0, 4, 2) {
		t.Errorf("BlockPos() = %v", got)
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	root, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := nbt.List{nbt.Compound{
		"pos":      nbt.List{0.5, 4.25, 2.5},
		"blockPos": nbt.List{int32(0), int32(4), int32(2)},
		"nbt":      nbt.Compound{"id": "minecraft:armor_stand"},
	}}
	if diff := cmp.Diff(want, root["entities"]); diff != "" {
		t.Errorf("entities (-want +got):\n%s", diff)
	}
	if len(s.Entities()) != 1 {
		t.Errorf("Entities() = %v", s.Entities())
	}
}

func TestBackgroundFill(t *testing.T) {
	s := New(DefaultDataVersion, "")
	s.Background = &Air
	_ = s.AddBlock(stone(1, 1, 1))
	blocks := s.Blocks()
	if len(blocks) != 8 {
		t.Fatalf("blocks = %d, want 8", len(blocks))
	}
	if last := blocks[len(blocks)-1]; last.State.Name != "minecraft:stone" {
		t.Errorf("last block = %v", last)
	}

	root := s.NBT()
	if got := len(root["palette"].(nbt.List)); got != 2 {
		t.Errorf("palette size = %d, want 2", got)
	}
}

func TestPaletteDeduplicates(t *testing.T) {
	s := New(DefaultDataVersion, "")
	for x := 0; x < 4; x++ {
		_ = s.AddBlock(stone(x, 0, 0))
	}
	root := s.NBT()
	palette := root["palette"].(nbt.List)
	if len(palette) != 1 {
		t.Fatalf("palette = %v", palette)
	}
	for _, b := range root["blocks"].(nbt.List) {
		if state := b.(nbt.Compound)["state"]; state != int32(0) {
			t.Errorf("state = %v", state)
		}
	}
}

func TestBlockStateKey(t *testing.T) {
	s := BlockState{Name: "minecraft:chain_command_block", Properties: map[string]string{"facing": "up", "conditional": "true"}}
	if got, want := s.String(), "minecraft:chain_command_block[conditional=true,facing=up]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func testLayout(t *testing.T) *layout.Layout {
	t.Helper()
	c := &chain.Chain{Commands: []chain.Command{
		{Text: "say a", Mode: chain.ModeRepeat},
		{Text: "say b", Mode: chain.ModeChain, Name: "second"},
		{Text: "say c", Mode: chain.ModeChain},
	}}
	l, err := layout.Place(context.Background(), c, coord.Of(10, 64, -20), coord.Of(20, 80, -10), coord.DefaultOrientation, nil)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestFromLayout(t *testing.T) {
	l := testLayout(t)
	s, err := FromLayout(l, Options{Author: "tester"})
	if err != nil {
		t.Fatalf("FromLayout: %v", err)
	}
	if s.DataVersion != DefaultDataVersion || s.Len() != 3 {
		t.Errorf("version=%d len=%d", s.DataVersion, s.Len())
	}

	first, ok := s.Block(coord.Of(0, 0, 0))
	if !ok {
		t.Fatal("no block at origin")
	}
	want := BlockState{
		Name:       "minecraft:repeating_command_block",
		Properties: map[string]string{"facing": "east", "conditional": "false"},
	}
	if diff := cmp.Diff(want, first.State); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	if first.NBT["Command"] != "say a" || first.NBT["auto"] != int8(0) {
		t.Errorf("nbt = %v", first.NBT)
	}

	second, _ := s.Block(coord.Of(1, 0, 0))
	if second.NBT["auto"] != int8(1) || second.NBT["CustomName"] != `{"text":"second"}` {
		t.Errorf("nbt = %v", second.NBT)
	}
}

func TestFromLayoutRejectsAuthor(t *testing.T) {
	if _, err := FromLayout(testLayout(t), Options{Author: "a\nb"}); err == nil {
		t.Error("FromLayout accepted control characters in author")
	}
}

func TestEncodeDecode(t *testing.T) {
	s, err := FromLayout(testLayout(t), Options{Author: "tester", DataVersion: 1343})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out", "chain.nbt")
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	root, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(s.NBT(), root); diff != "" {
		t.Errorf("decoded (-want +got):\n%s", diff)
	}
	if root["DataVersion"] != int32(1343) || root["author"] != "tester" {
		t.Errorf("header = %v %v", root["DataVersion"], root["author"])
	}
	if diff := cmp.Diff(nbt.List{int32(2), int32(2), int32(1)}, root["size"]); diff != "" {
		t.Errorf("size (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsPlainData(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not gzip"))); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v", err)
	}
}
