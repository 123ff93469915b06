package coord

import (
	"fmt"
	"regexp"
	"strings"
)

// Orientation is an ordered triple of directions over three distinct axes.
// The zero value is invalid; use [NewOrientation], [ParseOrientation] or
// [DefaultOrientation].
type Orientation struct {
	Primary   Direction
	Secondary Direction
	Tertiary  Direction
}

// DefaultOrientation walks east first, then up, then south.
var DefaultOrientation = Orientation{Primary: East, Secondary: Up, Tertiary: South}

// NewOrientation returns the orientation (primary, secondary, tertiary) or an
// error if a direction is invalid or two directions share an axis.
func NewOrientation(primary, secondary, tertiary Direction) (Orientation, error) {
	o := Orientation{Primary: primary, Secondary: secondary, Tertiary: tertiary}
	if err := o.Validate(); err != nil {
		return Orientation{}, err
	}
	return o, nil
}

// Validate checks that all three directions are valid and that their axes
// form a permutation of X, Y, Z.
func (o Orientation) Validate() error {
	dirs := o.Directions()
	var seen [3]Direction
	for i, d := range dirs {
		if !d.Valid() {
			return fmt.Errorf("orientation: %s direction is not set", orientationSlots[i])
		}
		a := d.Axis()
		if prev := seen[a]; prev != NoDirection {
			return fmt.Errorf("orientation: %s and %s share the %s axis", prev, d, a)
		}
		seen[a] = d
	}
	return nil
}

var orientationSlots = [3]string{"primary", "secondary", "tertiary"}

// Directions returns primary, secondary and tertiary in order.
func (o Orientation) Directions() [3]Direction {
	return [3]Direction{o.Primary, o.Secondary, o.Tertiary}
}

// String returns the comma separated facing names, e.g. "east,up,south".
func (o Orientation) String() string {
	return o.Primary.String() + "," + o.Secondary.String() + "," + o.Tertiary.String()
}

// Signed returns the compact signed-axis form, e.g. "+x+y+z".
func (o Orientation) Signed() string {
	return o.Primary.Signed() + o.Secondary.Signed() + o.Tertiary.Signed()
}

var compactOrientation = regexp.MustCompile(`^([+-]?[xyz])([+-]?[xyz])([+-]?[xyz])$`)

// ParseOrientation parses three directions separated by commas or spaces
// ("east,up,south", "+x -y z") or the compact signed form ("+x-y+z", "xyz").
func ParseOrientation(s string) (Orientation, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 1 {
		m := compactOrientation.FindStringSubmatch(fields[0])
		if m == nil {
			return Orientation{}, fmt.Errorf("invalid orientation %q", s)
		}
		fields = m[1:]
	}
	if len(fields) != 3 {
		return Orientation{}, fmt.Errorf("invalid orientation %q: need three directions", s)
	}

	var dirs [3]Direction
	for i, f := range fields {
		d, err := ParseDirection(f)
		if err != nil {
			return Orientation{}, fmt.Errorf("invalid orientation %q: %w", s, err)
		}
		dirs[i] = d
	}
	return NewOrientation(dirs[0], dirs[1], dirs[2])
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
