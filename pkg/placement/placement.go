package placement

import "github.com/matzehuels/cmdtower/pkg/coord"

// Placement assigns a command to a cell and a facing.
type Placement[C any] struct {
	Command    C
	Coordinate coord.Coordinate
	Direction  coord.Direction
}

// Attempt is the outcome of fitting a chain along one curve.
type Attempt[C any] struct {
	// Placements holds one entry per command in chain order when Fit is true.
	Placements []Placement[C]

	// Fit reports whether every command was placed.
	Fit bool

	// Placed counts the commands that could be placed before the attempt
	// failed. It equals len(chain) when Fit is true.
	Placed int
}

// Fitted returns a successful attempt.
func Fitted[C any](placements []Placement[C]) Attempt[C] {
	return Attempt[C]{Placements: placements, Fit: true, Placed: len(placements)}
}

// Misfit returns a failed attempt that managed to place the first placed
// commands.
func Misfit[C any](placed int) Attempt[C] {
	return Attempt[C]{Placed: placed}
}

// Placer fits a chain along a curve.
//
// Implementations must consume curve cells in order, never reuse a cell and
// either place every command or report a misfit.
type Placer[C any] interface {
	Place(chain []C, curve []coord.Coordinate) Attempt[C]
}

// PlacerFunc adapts a function to the Placer interface.
type PlacerFunc[C any] func(chain []C, curve []coord.Coordinate) Attempt[C]

// Place calls f(chain, curve).
func (f PlacerFunc[C]) Place(chain []C, curve []coord.Coordinate) Attempt[C] {
	return f(chain, curve)
}

// Factory maps a placed command to the caller's result type.
// It is called once per command in ascending index order.
type Factory[C, R any] func(index int, cmd C, at coord.Coordinate, facing coord.Direction) R

// Transform applies factory to every placement in order.
func Transform[C, R any](placements []Placement[C], factory Factory[C, R]) []R {
	result := make([]R, 0, len(placements))
	for i, p := range placements {
		result = append(result, factory(i, p.Command, p.Coordinate, p.Direction))
	}
	return result
}
