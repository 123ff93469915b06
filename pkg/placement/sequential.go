package placement

import "github.com/matzehuels/cmdtower/pkg/coord"

// ConditionalCommand is implemented by commands that only run when their
// predecessor succeeded. The block behind a conditional command (opposite
// its facing) must be its predecessor, so it cannot sit where the curve
// turns.
type ConditionalCommand interface {
	IsConditional() bool
}

// Sequential places chain[i] on curve[i], facing the next cell of the
// curve. The last command keeps the facing of the step that reached it.
//
// Commands implementing [ConditionalCommand] that would sit on a turn make
// the attempt a misfit, which lets the search retry with longer rows.
type Sequential[C any] struct {
	// Facing is used when neither a next nor a previous cell exists.
	// Zero means Up.
	Facing coord.Direction
}

// Place implements [Placer].
func (s Sequential[C]) Place(chain []C, curve []coord.Coordinate) Attempt[C] {
	if len(curve) < len(chain) {
		return Misfit[C](len(curve))
	}

	n := len(chain)
	out := make([]Placement[C], n)
	for i, cmd := range chain {
		facing := s.facing(curve, i, n)
		if i > 0 && isConditional(cmd) && curve[i].Move(facing.Opposite()) != curve[i-1] {
			return Misfit[C](i)
		}
		out[i] = Placement[C]{Command: cmd, Coordinate: curve[i], Direction: facing}
	}
	return Fitted(out)
}

func (s Sequential[C]) facing(curve []coord.Coordinate, i, n int) coord.Direction {
	if i < n-1 {
		if d, ok := curve[i].DirectionTo(curve[i+1]); ok {
			return d
		}
	}
	if i > 0 {
		if d, ok := curve[i-1].DirectionTo(curve[i]); ok {
			return d
		}
	}
	if len(curve) > 1 {
		if d, ok := curve[0].DirectionTo(curve[1]); ok {
			return d
		}
	}
	if s.Facing.Valid() {
		return s.Facing
	}
	return coord.Up
}

func isConditional(cmd any) bool {
	c, ok := cmd.(ConditionalCommand)
	return ok && c.IsConditional()
}
