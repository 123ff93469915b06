package coord

import (
	"fmt"
	"strings"
)

// Axis is one of the three lattice axes.
type Axis uint8

const (
	X Axis = iota
	Y
	Z
)

// Axes lists all axes in X, Y, Z order.
var Axes = [3]Axis{X, Y, Z}

// String returns the lowercase axis name.
func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Valid reports whether a is one of X, Y, Z.
func (a Axis) Valid() bool { return a <= Z }

// ParseAxis parses "x", "y" or "z" (case-insensitive).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}
