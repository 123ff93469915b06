package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/render"
	"github.com/matzehuels/cmdtower/pkg/structure"
)

// Export encodes l in every requested format.
func Export(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		data, err := ExportFormat(ctx, l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// ExportFormat encodes l in a single format.
func ExportFormat(ctx context.Context, l *layout.Layout, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return layout.Marshal(l)
	case FormatNBT:
		s, err := structure.FromLayout(l, opts.StructureOptions())
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := s.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatText:
		return chain.MarshalText(l.Chain()), nil
	}

	dot := render.ToDOT(l, render.Options{Detailed: opts.Detailed})
	switch format {
	case FormatSVG:
		return render.RenderSVG(ctx, dot)
	case FormatPNG:
		return render.RenderPNG(ctx, dot)
	}
	return []byte(dot), nil
}
