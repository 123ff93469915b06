package curve_test

import (
	"fmt"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/curve"
)

func ExampleSnake() {
	c := curve.Snake(coord.Of(0, 0, 0), coord.Of(2, 1, 0), coord.DefaultOrientation)
	for _, p := range c {
		fmt.Println(p)
	}
	// Output:
	// (0, 0, 0)
	// (1, 0, 0)
	// (2, 0, 0)
	// (2, 1, 0)
	// (1, 1, 0)
	// (0, 1, 0)
}

func ExampleSnake_orientation() {
	// Walk down first, then north, layering towards the west.
	o, _ := coord.ParseOrientation("down,north,west")
	c := curve.Snake(coord.Of(0, 0, 0), coord.Of(1, 1, 1), o)
	fmt.Println(c[0], c[1], c[len(c)-1])
	// Output: (1, 1, 1) (1, 0, 1) (0, 1, 1)
}
