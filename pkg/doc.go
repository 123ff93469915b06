// Package pkg provides the core libraries for cmdtower command block placement.
//
// # Overview
//
// cmdtower packs a chain of Minecraft commands into the smallest cube of
// command blocks that fits inside a bounding box. Blocks follow a 3D snake
// curve so that every block faces the next one and the chain executes in
// order. The pkg directory is organized into three main areas:
//
//  1. Domain logic ([coord], [curve], [placement], [chain], [layout])
//  2. Output ([structure], [render])
//  3. Infrastructure ([pipeline], [cache], [store], [config], [observability])
//
// # Architecture
//
// The typical data flow through cmdtower:
//
//	Chain document (.mcc / .yaml / .toml / .json)
//	         ↓
//	    [chain] package (parse + validate commands)
//	         ↓
//	    [placement] package (cube-size search over [curve] snakes)
//	         ↓
//	    [layout] package (placed blocks with facings)
//	         ↓
//	    [structure] / [render] (NBT structure file, DOT/SVG/PNG, layer grids)
//
// # Quick Start
//
// Place a chain and export a structure file:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/cmdtower/pkg/chain"
//	    "github.com/matzehuels/cmdtower/pkg/coord"
//	    "github.com/matzehuels/cmdtower/pkg/layout"
//	    "github.com/matzehuels/cmdtower/pkg/structure"
//	)
//
//	// 1. Load the chain
//	c, _ := chain.Load("tower.mcc")
//
//	// 2. Place it inside a 16³ box at y=64
//	min := coord.Of(0, 64, 0)
//	l, _ := layout.Place(ctx, c, min, min.Add(coord.Uniform(16)), coord.DefaultOrientation, nil)
//
//	// 3. Encode the structure file
//	s, _ := structure.FromLayout(l, structure.Options{})
//	_ = s.WriteFile("tower.nbt")
//
// # Main Packages
//
// ## Core Domain Logic
//
// [coord] - Block coordinates, the six facings and snake orientations.
//
// [curve] - The snake curve: every point of a cuboid, ordered so consecutive
// points are neighbours.
//
// [placement] - Generic cube-size search. Starting from the smallest cube
// that could hold the chain, grows the cube until a [placement.Placer]
// fits every command or the bounding box is exhausted.
//
// [chain] - Commands, modes and the text, YAML, TOML and JSON documents that
// describe a chain.
//
// [layout] - The placed chain: one block per command with position, facing
// and mode. Serializes as JSON and BSON.
//
// ## Output
//
// [structure] - Minecraft structure files (gzip NBT) built from layouts.
//
// [render] - Graphviz diagrams and per-layer text grids.
//
// [logevent] - Parser for command block output in server logs.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (place → export) used by CLI and API.
// Ensures consistent defaults, caching and logging across entry points.
//
// [cache] - Byte caches for layouts and artifacts (file, Redis, null).
//
// [store] - Layout persistence (memory, file, MongoDB).
//
// [config] - TOML configuration with XDG paths.
//
// [observability] - Hooks for placement, cache and HTTP metrics.
//
// [errors] - Coded errors shared by every package.
//
// [coord]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/coord
// [curve]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/curve
// [placement]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/placement
// [placement.Placer]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/placement#Placer
// [chain]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/chain
// [layout]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/layout
// [structure]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/structure
// [render]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/render
// [logevent]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/logevent
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cmdtower/pkg/errors
package pkg
