package placement

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/curve"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/observability"
)

// Result is a successful search outcome.
type Result[C any] struct {
	// Placements holds one entry per command in chain order.
	Placements []Placement[C]

	// SideLength is the cube side length of the successful attempt.
	SideLength int

	// Attempts counts placer invocations, including the successful one.
	Attempts int

	// Corner is the far corner of the cuboid the chain was placed in.
	// The near corner is always the search minimum.
	Corner coord.Coordinate
}

// Option configures a search.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger that receives one debug entry per attempt.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Search finds the smallest cube anchored at min, clipped to the
// exclusive bound max, in which placer fits chain along a [curve.Snake]
// with orientation o.
//
// Search returns an [errors.ErrCodeInvalidArgument] error for a nil placer,
// an invalid orientation, a bounding box where min is not strictly below
// max on every axis, or a box whose cell count overflows an int. It returns an [errors.ErrCodeNotEnoughSpace] error once
// the side length has reached the largest extent of the box without a fit.
// The context is checked between attempts.
func Search[C any](ctx context.Context, chain []C, min, max coord.Coordinate, o coord.Orientation, placer Placer[C], opts ...Option) (*Result[C], error) {
	cfg := options{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(&cfg)
	}

	if placer == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "placer is required")
	}
	if err := o.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid orientation")
	}
	if !min.Less(max) {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "min %s must be below max %s on every axis", min, max)
	}
	if _, ok := curve.CheckedVolume(min, max.Sub(coord.Uniform(1))); !ok {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "box between %s and %s is too large", min, max)
	}

	n := len(chain)
	extent := LargestExtent(min, max)
	hooks := observability.Placement()
	hooks.OnSearchStart(ctx, n, extent)
	start := time.Now()

	attempts := 0
	for side := InitialSideLength(n); ; side++ {
		if err := ctx.Err(); err != nil {
			err = errors.Wrap(errors.ErrCodeInternal, err, "placement search cancelled")
			hooks.OnSearchComplete(ctx, n, side, attempts, time.Since(start), err)
			return nil, err
		}

		far, path := candidate(min, max, side, o)
		attempt := placer.Place(chain, path)
		attempts++
		hooks.OnAttempt(ctx, side, len(path), attempt.Fit)
		cfg.logger.Debug("placement attempt",
			"side", side,
			"curve", len(path),
			"fit", attempt.Fit,
			"placed", attempt.Placed)

		if attempt.Fit {
			if len(attempt.Placements) != n {
				err := errors.New(errors.ErrCodeInternal, "placer returned %d placements for %d commands", len(attempt.Placements), n)
				hooks.OnSearchComplete(ctx, n, side, attempts, time.Since(start), err)
				return nil, err
			}
			hooks.OnSearchComplete(ctx, n, side, attempts, time.Since(start), nil)
			return &Result[C]{
				Placements: attempt.Placements,
				SideLength: side,
				Attempts:   attempts,
				Corner:     far,
			}, nil
		}

		if side >= extent {
			err := errors.New(errors.ErrCodeNotEnoughSpace, "cannot fit %d commands between %s and %s", n, min, max)
			hooks.OnSearchComplete(ctx, n, side, attempts, time.Since(start), err)
			return nil, err
		}
	}
}

// Place runs [Search] and maps every placement through factory in chain
// order. A nil factory is rejected before the search starts.
func Place[C, R any](ctx context.Context, chain []C, min, max coord.Coordinate, o coord.Orientation, placer Placer[C], factory Factory[C, R], opts ...Option) ([]R, error) {
	if factory == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "factory is required")
	}
	res, err := Search(ctx, chain, min, max, o, placer, opts...)
	if err != nil {
		return nil, err
	}
	return Transform(res.Placements, factory), nil
}

// InitialSideLength returns the smallest s with s³ >= n.
func InitialSideLength(n int) int {
	if n <= 0 {
		return 0
	}
	s := 1
	for s*s*s < n {
		s++
	}
	return s
}

// LargestExtent returns the largest of max-min over the three axes.
func LargestExtent(min, max coord.Coordinate) int {
	d := max.Sub(min)
	return maxInt(d.X, maxInt(d.Y, d.Z))
}

// IsNotEnoughSpace reports whether err signals an exhausted bounding box.
func IsNotEnoughSpace(err error) bool {
	return errors.Is(err, errors.ErrCodeNotEnoughSpace)
}

// candidate returns the far corner and curve of the cube with the given
// side length, clipped to the bounding box. A zero side yields an empty
// curve.
func candidate(min, max coord.Coordinate, side int, o coord.Orientation) (coord.Coordinate, []coord.Coordinate) {
	if side <= 0 {
		return min, nil
	}
	far := max.Sub(coord.Uniform(1)).Min(min.Add(coord.Uniform(side - 1)))
	return far, curve.Snake(min, far, o)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
