package curve

import (
	"math"

	"github.com/matzehuels/cmdtower/pkg/coord"
)

// Snake returns every lattice point of the inclusive cuboid spanned by
// corner1 and corner2 in snake order. The corners may be given in any order.
func Snake(corner1, corner2 coord.Coordinate, o coord.Orientation) []coord.Coordinate {
	lo := corner1.Min(corner2)
	hi := corner1.Max(corner2)

	tDir, sDir, pDir := o.Tertiary, o.Secondary, o.Primary
	tAxis, sAxis, pAxis := tDir.Axis(), sDir.Axis(), pDir.Axis()
	minT, maxT := lo.Get(tAxis), hi.Get(tAxis)
	minS, maxS := lo.Get(sAxis), hi.Get(sAxis)
	minP, maxP := lo.Get(pAxis), hi.Get(pAxis)

	result := make([]coord.Coordinate, 0, Volume(lo, hi))
	backwardsSecondary := false
	backwardsPrimary := false

	tStart, tStep := sweep(minT, maxT, tDir.Positive())
	for t := tStart; minT <= t && t <= maxT; t += tStep {
		sStart, sStep := sweep(minS, maxS, sDir.Positive() != backwardsSecondary)
		for s := sStart; minS <= s && s <= maxS; s += sStep {
			pStart, pStep := sweep(minP, maxP, pDir.Positive() != backwardsPrimary)
			for p := pStart; minP <= p && p <= maxP; p += pStep {
				result = append(result, coord.Coordinate{}.
					With(pAxis, p).
					With(sAxis, s).
					With(tAxis, t))
			}
			backwardsPrimary = !backwardsPrimary
		}
		backwardsSecondary = !backwardsSecondary
	}
	return result
}

// sweep returns the first index and step of a loop over [lo, hi].
func sweep(lo, hi int, forward bool) (start, step int) {
	if forward {
		return lo, 1
	}
	return hi, -1
}

// Volume returns the number of lattice points in the inclusive cuboid
// spanned by corner1 and corner2, saturating at math.MaxInt.
func Volume(corner1, corner2 coord.Coordinate) int {
	v, _ := CheckedVolume(corner1, corner2)
	return v
}

// CheckedVolume is Volume that reports false, with math.MaxInt, when the
// point count or an edge length does not fit in an int.
func CheckedVolume(corner1, corner2 coord.Coordinate) (int, bool) {
	lo, hi := corner1.Min(corner2), corner1.Max(corner2)
	v := 1
	for _, e := range [3][2]int{{lo.X, hi.X}, {lo.Y, hi.Y}, {lo.Z, hi.Z}} {
		n, ok := span(e[0], e[1])
		if !ok || v > math.MaxInt/n {
			return math.MaxInt, false
		}
		v *= n
	}
	return v, true
}

// span returns hi-lo+1 for lo <= hi.
func span(lo, hi int) (int, bool) {
	d := hi - lo
	if d < 0 || d == math.MaxInt {
		return 0, false
	}
	return d + 1, true
}
