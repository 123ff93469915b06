// Package render draws placed command chains.
//
// # Overview
//
// Two views are supported:
//
//   - Graph view: [ToDOT] turns a layout into Graphviz DOT source where every
//     command is a node, chain order is drawn as edges and each Y level is a
//     cluster. [RenderSVG] and [RenderPNG] render DOT in-process.
//   - Layer view: [LayerGrid] and [FormatLayer] show one Y level from above
//     as a grid of facing arrows. The CLI viewer uses this.
//
// # Usage
//
//	dot := render.ToDOT(l, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
//	fmt.Print(render.FormatLayer(l, 64, render.GridOptions{}))
//
// # Dependencies
//
// Graph rendering uses [github.com/goccy/go-graphviz], which embeds
// Graphviz so no system installation is needed.
package render
