// Package curve generates space-filling traversals of integer cuboids.
//
// [Snake] walks every lattice point of an inclusive cuboid exactly once so
// that consecutive points are direct neighbours. The walk nests three
// loops taken from an [coord.Orientation]:
//
//   - tertiary (outermost): advances monotonically in its direction
//   - secondary: reverses its sweep every time the tertiary index advances
//   - primary (innermost): reverses its sweep every time the secondary index
//     advances, across tertiary layers as well
//
// The result is a continuous 3D boustrophedon ("snake"), not a fractal curve.
// It starts at the corner selected by the orientation's three signs. Where it
// ends depends on the parity of the primary and secondary extents, so callers
// should rely on coverage and adjacency only.
//
// # Example
//
//	c := curve.Snake(coord.Of(0, 0, 0), coord.Of(1, 1, 1), coord.DefaultOrientation)
//	// len(c) == 8, c[0] == (0, 0, 0), c[1] == (1, 0, 0), c[2] == (1, 1, 0), ...
package curve
