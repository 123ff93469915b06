package curve

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cmdtower/pkg/coord"
)

// allOrientations returns the 48 valid orientations.
func allOrientations() []coord.Orientation {
	var out []coord.Orientation
	for _, p := range coord.Directions {
		for _, s := range coord.Directions {
			for _, t := range coord.Directions {
				if o, err := coord.NewOrientation(p, s, t); err == nil {
					out = append(out, o)
				}
			}
		}
	}
	return out
}

var boxes = []struct {
	name string
	a, b coord.Coordinate
}{
	{"single", coord.Of(0, 0, 0), coord.Of(0, 0, 0)},
	{"unit cube", coord.Of(0, 0, 0), coord.Of(1, 1, 1)},
	{"odd cube", coord.Of(0, 0, 0), coord.Of(2, 2, 2)},
	{"flat", coord.Of(0, 0, 0), coord.Of(3, 0, 2)},
	{"line", coord.Of(5, 5, 5), coord.Of(5, 9, 5)},
	{"negative", coord.Of(-3, -1, -2), coord.Of(-1, 2, 0)},
	{"mixed parity", coord.Of(0, 0, 0), coord.Of(2, 3, 4)},
}

func TestAllOrientationsCount(t *testing.T) {
	if got := len(allOrientations()); got != 48 {
		t.Fatalf("orientations = %d, want 48", got)
	}
}

func TestSnakeProperties(t *testing.T) {
	for _, box := range boxes {
		for _, o := range allOrientations() {
			t.Run(fmt.Sprintf("%s/%s", box.name, o.Signed()), func(t *testing.T) {
				c := Snake(box.a, box.b, o)

				if want := Volume(box.a, box.b); len(c) != want {
					t.Fatalf("len = %d, want %d", len(c), want)
				}

				seen := make(map[coord.Coordinate]bool, len(c))
				for i, p := range c {
					if seen[p] {
						t.Fatalf("duplicate %v at %d", p, i)
					}
					seen[p] = true
					if i > 0 && c[i-1].Manhattan(p) != 1 {
						t.Fatalf("step %d: %v -> %v is not adjacent", i, c[i-1], p)
					}
				}

				lo, hi := c[0], c[0]
				for _, p := range c {
					lo, hi = lo.Min(p), hi.Max(p)
				}
				if lo != box.a.Min(box.b) || hi != box.a.Max(box.b) {
					t.Errorf("bounds = %v..%v, want %v..%v", lo, hi, box.a.Min(box.b), box.a.Max(box.b))
				}
			})
		}
	}
}

func TestSnakeStartsAtOrientedCorner(t *testing.T) {
	lo, hi := coord.Of(-2, 0, 1), coord.Of(3, 4, 2)
	for _, o := range allOrientations() {
		c := Snake(lo, hi, o)
		want := lo
		for _, d := range o.Directions() {
			if !d.Positive() {
				want = want.With(d.Axis(), hi.Get(d.Axis()))
			}
		}
		if c[0] != want {
			t.Errorf("%s: first = %v, want %v", o.Signed(), c[0], want)
		}
	}
}

func TestSnakeCornerOrderInvariance(t *testing.T) {
	for _, o := range allOrientations() {
		a := Snake(coord.Of(3, 3, 3), coord.Of(0, 0, 0), o)
		b := Snake(coord.Of(0, 0, 0), coord.Of(3, 3, 3), o)
		if diff := cmp.Diff(b, a); diff != "" {
			t.Fatalf("%s: swapped corners differ (-want +got):\n%s", o.Signed(), diff)
		}
	}

	// Mixed corners (neither is the minimum) normalize to the same cuboid.
	a := Snake(coord.Of(0, 4, 0), coord.Of(2, 0, 1), coord.DefaultOrientation)
	b := Snake(coord.Of(0, 0, 0), coord.Of(2, 4, 1), coord.DefaultOrientation)
	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("mixed corners differ (-want +got):\n%s", diff)
	}
}

func TestSnakeDeterministic(t *testing.T) {
	o := coord.Orientation{Primary: coord.North, Secondary: coord.West, Tertiary: coord.Up}
	a := Snake(coord.Of(0, 0, 0), coord.Of(4, 3, 2), o)
	b := Snake(coord.Of(0, 0, 0), coord.Of(4, 3, 2), o)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated call differs:\n%s", diff)
	}
}

func TestSnakeUnitCubeOrder(t *testing.T) {
	got := Snake(coord.Of(0, 0, 0), coord.Of(1, 1, 1), coord.DefaultOrientation)
	want := []coord.Coordinate{
		coord.Of(0, 0, 0), coord.Of(1, 0, 0), coord.Of(1, 1, 0), coord.Of(0, 1, 0),
		coord.Of(0, 1, 1), coord.Of(1, 1, 1), coord.Of(1, 0, 1), coord.Of(0, 0, 1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snake mismatch (-want +got):\n%s", diff)
	}
}

func TestSnakeEndpointDependsOnParity(t *testing.T) {
	// The unit cube ends next to its start, not at the opposite corner.
	c := Snake(coord.Of(0, 0, 0), coord.Of(1, 1, 1), coord.DefaultOrientation)
	if last := c[len(c)-1]; last != coord.Of(0, 0, 1) {
		t.Errorf("last = %v, want (0, 0, 1)", last)
	}

	// Odd extents everywhere do end at the opposite corner.
	c = Snake(coord.Of(0, 0, 0), coord.Of(2, 2, 2), coord.DefaultOrientation)
	if last := c[len(c)-1]; last != coord.Of(2, 2, 2) {
		t.Errorf("last = %v, want (2, 2, 2)", last)
	}
}

func TestVolume(t *testing.T) {
	tests := []struct {
		a, b coord.Coordinate
		want int
	}{
		{coord.Of(0, 0, 0), coord.Of(0, 0, 0), 1},
		{coord.Of(0, 0, 0), coord.Of(1, 1, 1), 8},
		{coord.Of(3, 3, 3), coord.Of(0, 0, 0), 64},
		{coord.Of(-1, 0, 0), coord.Of(1, 0, 4), 15},
	}
	for _, tt := range tests {
		if got := Volume(tt.a, tt.b); got != tt.want {
			t.Errorf("Volume(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCheckedVolume(t *testing.T) {
	tests := []struct {
		name string
		a, b coord.Coordinate
		want int
		ok   bool
	}{
		{"unit", coord.Of(0, 0, 0), coord.Of(0, 0, 0), 1, true},
		{"cube", coord.Of(0, 0, 0), coord.Of(63, 63, 63), 262144, true},
		{"full axis", coord.Of(math.MinInt, 0, 0), coord.Of(math.MaxInt, 0, 0), math.MaxInt, false},
		{"edge at limit", coord.Of(0, 0, 0), coord.Of(math.MaxInt, 0, 0), math.MaxInt, false},
		{"product", coord.Of(0, 0, 0), coord.Of(1<<30, 1<<30, 1<<30), math.MaxInt, false},
		{"widest edge", coord.Of(1, 0, 0), coord.Of(math.MaxInt, 0, 0), math.MaxInt, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CheckedVolume(tt.a, tt.b)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CheckedVolume() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
			if Volume(tt.a, tt.b) != tt.want {
				t.Errorf("Volume() = %d, want %d", Volume(tt.a, tt.b), tt.want)
			}
		})
	}
}
