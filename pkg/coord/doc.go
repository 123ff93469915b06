// Package coord provides the directional frame primitives used by cmdtower.
//
// All types in this package are small immutable values compared with ==:
//
//   - [Axis]: one of X, Y, Z
//   - [Direction]: one of six signed axes, named after Minecraft facings
//   - [Orientation]: an ordered (primary, secondary, tertiary) triple of
//     directions whose axes form a permutation of X, Y, Z
//   - [Coordinate]: an integer 3-vector
//
// # Directions
//
// Direction names follow the game's block facings:
//
//	East  = +X    West  = -X
//	Up    = +Y    Down  = -Y
//	South = +Z    North = -Z
//
// [ParseDirection] accepts either the facing name or a signed axis such as
// "+x", "-y" or "z" (an unsigned axis is positive).
//
// # Orientations
//
// An Orientation describes the traversal frame of a space-filling curve: the
// primary direction is walked first, the secondary next and the tertiary
// last. [ParseOrientation] understands "east,up,south", "+x +y +z" and the
// compact "+x+y+z" forms:
//
//	o, err := coord.ParseOrientation("+x-z+y")
//	// o == coord.Orientation{Primary: coord.East, Secondary: coord.North, Tertiary: coord.Up}
package coord
