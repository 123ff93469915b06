package coord

import (
	"fmt"
	"strings"
)

// Direction is a signed axis. The zero value is [NoDirection], which is not
// a valid facing.
type Direction uint8

const (
	NoDirection Direction = iota
	East                  // +X
	West                  // -X
	Up                    // +Y
	Down                  // -Y
	South                 // +Z
	North                 // -Z
)

// Directions lists the six valid directions.
var Directions = [6]Direction{East, West, Up, Down, South, North}

var directionNames = [...]string{
	NoDirection: "none",
	East:        "east",
	West:        "west",
	Up:          "up",
	Down:        "down",
	South:       "south",
	North:       "north",
}

// DirectionOf returns the direction along axis a with the given sign.
func DirectionOf(a Axis, positive bool) Direction {
	switch a {
	case X:
		if positive {
			return East
		}
		return West
	case Y:
		if positive {
			return Up
		}
		return Down
	case Z:
		if positive {
			return South
		}
		return North
	}
	return NoDirection
}

// Valid reports whether d is one of the six directions.
func (d Direction) Valid() bool { return d >= East && d <= North }

// Axis returns the axis d points along.
// It panics for NoDirection.
func (d Direction) Axis() Axis {
	switch d {
	case East, West:
		return X
	case Up, Down:
		return Y
	case South, North:
		return Z
	}
	panic(fmt.Sprintf("coord: axis of invalid direction %d", uint8(d)))
}

// Positive reports whether d points towards increasing coordinates.
func (d Direction) Positive() bool {
	return d == East || d == Up || d == South
}

// Sign returns +1 or -1, and 0 for NoDirection.
func (d Direction) Sign() int {
	if !d.Valid() {
		return 0
	}
	if d.Positive() {
		return 1
	}
	return -1
}

// Opposite returns the direction pointing the other way.
// NoDirection is its own opposite.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return NoDirection
	}
	return DirectionOf(d.Axis(), !d.Positive())
}

// Vector returns the unit coordinate offset of d.
func (d Direction) Vector() Coordinate {
	if !d.Valid() {
		return Coordinate{}
	}
	return Coordinate{}.Plus(d.Sign(), d.Axis())
}

// String returns the facing name ("east", "up", ...).
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Signed returns the signed-axis form ("+x", "-y", ...).
func (d Direction) Signed() string {
	if !d.Valid() {
		return "none"
	}
	if d.Positive() {
		return "+" + d.Axis().String()
	}
	return "-" + d.Axis().String()
}

// ParseDirection parses a facing name ("north") or a signed axis ("+x",
// "-z", "y").
func ParseDirection(s string) (Direction, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Directions {
		if v == directionNames[d] {
			return d, nil
		}
	}

	positive := true
	switch {
	case strings.HasPrefix(v, "+"):
		v = v[1:]
	case strings.HasPrefix(v, "-"):
		positive = false
		v = v[1:]
	}
	a, err := ParseAxis(v)
	if err != nil {
		return NoDirection, fmt.Errorf("unknown direction %q", s)
	}
	return DirectionOf(a, positive), nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("marshal invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
