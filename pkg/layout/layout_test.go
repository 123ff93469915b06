package layout

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
)

func testChain(n int) *chain.Chain {
	c := &chain.Chain{Name: "test"}
	for i := 0; i < n; i++ {
		c.Commands = append(c.Commands, chain.Command{Text: "say " + strings.Repeat("x", i+1)})
	}
	return c
}

func placeTest(t *testing.T, n int) *Layout {
	t.Helper()
	l, err := Place(context.Background(), testChain(n), coord.Of(0, 0, 0), coord.Of(8, 8, 8), coord.DefaultOrientation, nil)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	return l
}

func TestPlace(t *testing.T) {
	l := placeTest(t, 8)
	if len(l.Blocks) != 8 {
		t.Fatalf("blocks = %d, want 8", len(l.Blocks))
	}
	if l.SideLength != 2 || l.Attempts != 1 {
		t.Errorf("side=%d attempts=%d", l.SideLength, l.Attempts)
	}
	if l.ID == "" || l.ChainHash == "" || l.CreatedAt.IsZero() {
		t.Errorf("missing metadata: %+v", l)
	}
	if l.Blocks[0].Mode != chain.ModeImpulse || l.Blocks[1].Mode != chain.ModeChain {
		t.Errorf("modes = %s, %s", l.Blocks[0].Mode, l.Blocks[1].Mode)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPlaceNotEnoughSpace(t *testing.T) {
	_, err := Place(context.Background(), testChain(9), coord.Of(0, 0, 0), coord.Of(2, 2, 2), coord.DefaultOrientation, nil)
	if !errors.Is(err, errors.ErrCodeNotEnoughSpace) {
		t.Errorf("err = %v, want NOT_ENOUGH_SPACE", err)
	}
}

func TestBoundsAndLayers(t *testing.T) {
	l := placeTest(t, 8)
	lo, hi, ok := l.Bounds()
	if !ok || lo != coord.Of(0, 0, 0) || hi != coord.Of(1, 1, 1) {
		t.Errorf("bounds = %v %v %v", lo, hi, ok)
	}
	if l.Size() != coord.Of(2, 2, 2) {
		t.Errorf("size = %v", l.Size())
	}

	layers := l.Layers()
	if len(layers) != 2 || layers[0].Y != 0 || layers[1].Y != 1 {
		t.Fatalf("layers = %+v", layers)
	}
	for _, layer := range layers {
		if len(layer.Blocks) != 4 {
			t.Errorf("layer %d has %d blocks", layer.Y, len(layer.Blocks))
		}
		for i := 1; i < len(layer.Blocks); i++ {
			if layer.Blocks[i].Index < layer.Blocks[i-1].Index {
				t.Errorf("layer %d out of chain order", layer.Y)
			}
		}
	}

	empty := &Layout{}
	if _, _, ok := empty.Bounds(); ok {
		t.Error("empty layout reported bounds")
	}
}

func TestFileRoundTrip(t *testing.T) {
	l := placeTest(t, 12)
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteFile(l, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testChain(12).Commands, stripModes(got.Chain().Commands)); diff != "" {
		t.Errorf("chain (-want +got):\n%s", diff)
	}
}

func stripModes(cmds []chain.Command) []chain.Command {
	out := make([]chain.Command, len(cmds))
	for i, c := range cmds {
		c.Mode = ""
		out[i] = c
	}
	return out
}

func TestJSONShape(t *testing.T) {
	l := placeTest(t, 2)
	data, err := Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"orientation": "east,up,south"`, `"facing": "east"`, `"mode": "impulse"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("json missing %s:\n%s", want, data)
		}
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":       `{`,
		"orientation":  `{"orientation": "east,west,up", "blocks": []}`,
		"index":        `{"orientation": "east,up,south", "max": [2,2,2], "blocks": [{"index": 1, "position": [0,0,0], "facing": "up"}]}`,
		"outside":      `{"orientation": "east,up,south", "max": [2,2,2], "blocks": [{"index": 0, "position": [5,0,0], "facing": "up"}]}`,
		"duplicate":    `{"orientation": "east,up,south", "max": [2,2,2], "blocks": [{"index": 0, "position": [0,0,0], "facing": "up"}, {"index": 1, "position": [0,0,0], "facing": "up"}]}`,
		"no facing":    `{"orientation": "east,up,south", "max": [2,2,2], "blocks": [{"index": 0, "position": [0,0,0]}]}`,
		"unknown face": `{"orientation": "east,up,south", "max": [2,2,2], "blocks": [{"index": 0, "position": [0,0,0], "facing": "sideways"}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(data)); err == nil {
				t.Error("Unmarshal succeeded")
			}
		})
	}
}
