package coord

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is an immutable integer 3-vector.
type Coordinate struct {
	X int `bson:"x"`
	Y int `bson:"y"`
	Z int `bson:"z"`
}

// Of returns the coordinate (x, y, z).
func Of(x, y, z int) Coordinate {
	return Coordinate{X: x, Y: y, Z: z}
}

// Uniform returns (n, n, n).
func Uniform(n int) Coordinate {
	return Coordinate{X: n, Y: n, Z: n}
}

// Get returns the component along a.
func (c Coordinate) Get(a Axis) int {
	switch a {
	case X:
		return c.X
	case Y:
		return c.Y
	case Z:
		return c.Z
	}
	panic(fmt.Sprintf("coord: invalid axis %d", uint8(a)))
}

// With returns c with the component along a replaced by v.
func (c Coordinate) With(a Axis, v int) Coordinate {
	switch a {
	case X:
		c.X = v
	case Y:
		c.Y = v
	case Z:
		c.Z = v
	default:
		panic(fmt.Sprintf("coord: invalid axis %d", uint8(a)))
	}
	return c
}

// Plus returns c moved by n along a.
func (c Coordinate) Plus(n int, a Axis) Coordinate {
	return c.With(a, c.Get(a)+n)
}

// Add returns the component-wise sum.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Sub returns the component-wise difference c - o.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// Min returns the component-wise minimum.
func (c Coordinate) Min(o Coordinate) Coordinate {
	return Coordinate{X: min(c.X, o.X), Y: min(c.Y, o.Y), Z: min(c.Z, o.Z)}
}

// Max returns the component-wise maximum.
func (c Coordinate) Max(o Coordinate) Coordinate {
	return Coordinate{X: max(c.X, o.X), Y: max(c.Y, o.Y), Z: max(c.Z, o.Z)}
}

// Less reports whether c is strictly smaller than o on every axis.
func (c Coordinate) Less(o Coordinate) bool {
	return c.X < o.X && c.Y < o.Y && c.Z < o.Z
}

// Move returns the neighbour of c in direction d.
func (c Coordinate) Move(d Direction) Coordinate {
	return c.Add(d.Vector())
}

// Manhattan returns the L1 distance between c and o.
func (c Coordinate) Manhattan(o Coordinate) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y) + abs(c.Z-o.Z)
}

// DirectionTo returns the direction from c to o when o is a direct
// neighbour of c. It returns false otherwise.
func (c Coordinate) DirectionTo(o Coordinate) (Direction, bool) {
	if c.Manhattan(o) != 1 {
		return NoDirection, false
	}
	d := o.Sub(c)
	for _, a := range Axes {
		if v := d.Get(a); v != 0 {
			return DirectionOf(a, v > 0), true
		}
	}
	return NoDirection, false
}

// Array returns the components as [x, y, z].
func (c Coordinate) Array() [3]int {
	return [3]int{c.X, c.Y, c.Z}
}

// String returns "(x, y, z)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// ParseCoordinate parses "x,y,z" (spaces and surrounding parentheses are
// ignored).
func ParseCoordinate(s string) (Coordinate, error) {
	v := strings.Trim(strings.TrimSpace(s), "()[]")
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: need x,y,z", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Coordinate{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		n[i] = v
	}
	return Of(n[0], n[1], n[2]), nil
}

// MarshalText implements encoding.TextMarshaler as "x,y,z".
func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Coordinate) UnmarshalText(text []byte) error {
	v, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalJSON encodes c as [x, y, z].
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Array())
}

// UnmarshalJSON accepts [x, y, z], {"x":..,"y":..,"z":..} or "x,y,z".
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var arr [3]int
	if err := json.Unmarshal(data, &arr); err == nil {
		*c = Of(arr[0], arr[1], arr[2])
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.UnmarshalText([]byte(s))
	}
	var obj struct{ X, Y, Z int }
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid coordinate %s", data)
	}
	*c = Of(obj.X, obj.Y, obj.Z)
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
