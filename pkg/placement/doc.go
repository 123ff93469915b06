// Package placement lays out a chain of commands one per cell inside a
// bounding box so that consecutive commands occupy adjacent cells and the
// occupied region is as small a cube as practical.
//
// # Overview
//
// The search starts with the smallest cube that could hold the chain
// (side length ⌈∛N⌉), generates a [curve.Snake] over it and asks a [Placer]
// to fit the chain along that curve. When the placer reports that the chain
// does not fit, the cube grows by one and the search retries. Near the
// bounding box the candidate is clipped to a cuboid. Once the side length
// reaches the largest extent of the box the search gives up with an
// [errors.ErrCodeNotEnoughSpace] error.
//
// A single attempt never returns an error: [Placer.Place] reports an
// [Attempt] whose Fit flag drives the growth loop directly.
//
// # Usage
//
//	blocks, err := placement.Place(ctx, chain,
//	    coord.Of(0, 0, 0), coord.Of(16, 16, 16),
//	    coord.DefaultOrientation,
//	    placement.Sequential[chain.Command]{},
//	    func(i int, cmd chain.Command, at coord.Coordinate, facing coord.Direction) Block {
//	        return Block{Index: i, Text: cmd.Text, At: at, Facing: facing}
//	    })
//	if errors.Is(err, errors.ErrCodeNotEnoughSpace) {
//	    // the box is too small for the chain
//	}
//
// Results are produced in chain order: the factory sees index 0 first and
// N-1 last. All functions are pure and safe for concurrent use.
package placement
