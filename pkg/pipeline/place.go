package pipeline

import (
	"context"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/placement"
)

// Place runs the cube-size search for c with the sequential placer.
func Place(ctx context.Context, c *chain.Chain, opts Options) (*layout.Layout, error) {
	if err := opts.ValidateForPlace(); err != nil {
		return nil, err
	}
	return layout.Place(ctx, c, opts.Min, opts.Max, opts.Orientation, nil,
		placement.WithLogger(opts.logger()))
}
