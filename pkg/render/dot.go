package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the command text to node labels.
	Detailed bool
}

// Fill colors per block mode, matching the in-game block colors.
var modeColors = map[chain.Mode]string{
	chain.ModeImpulse: "#f0a35e",
	chain.ModeChain:   "#7fc8a9",
	chain.ModeRepeat:  "#9b7fd1",
}

// maxLabelCommand bounds command text in detailed labels.
const maxLabelCommand = 40

// ToDOT converts a layout to Graphviz DOT. Blocks are grouped into one
// cluster per Y level; conditional links are drawn dashed.
func ToDOT(l *layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"monospace\", fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, layer := range l.Layers() {
		fmt.Fprintf(&buf, "  subgraph \"cluster_y%d\" {\n", layer.Y)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("y = %d", layer.Y))
		buf.WriteString("    style=dashed;\n")
		for _, b := range layer.Blocks {
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeID(b.Index), strings.Join(fmtAttrs(b, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for i := 1; i < len(l.Blocks); i++ {
		attrs := ""
		if l.Blocks[i].Conditional {
			attrs = " [style=dashed]"
		}
		fmt.Fprintf(&buf, "  %s -> %s%s;\n", nodeID(i-1), nodeID(i), attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "b" + strconv.Itoa(i) }

func fmtLabel(b layout.Block, detailed bool) string {
	head := fmt.Sprintf("%d %s %s", b.Index, Arrow(b.Facing), b.Position)
	if b.Name != "" {
		head = fmt.Sprintf("%d %s %s", b.Index, b.Name, Arrow(b.Facing))
	}
	if !detailed {
		return head
	}
	return head + "\n" + truncate(b.Command, maxLabelCommand)
}

func fmtAttrs(b layout.Block, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(b, detailed))}
	if c, ok := modeColors[b.Mode]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if b.Conditional {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a
// unitless one so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
