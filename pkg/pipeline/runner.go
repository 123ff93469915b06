package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cmdtower/pkg/cache"
	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the optional store and the
// logger. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Store, when set, receives every layout produced by Execute.
	Store store.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The cache is wrapped so that cache hooks fire on every lookup.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrumented(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete place → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, c *chain.Chain, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if c == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "chain is required")
	}
	r.applyLogger(&opts)

	result := &Result{
		Chain:     c,
		ChainHash: chain.Hash(c.Commands),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Place
	placeStart := time.Now()
	l, placeHit, err := r.PlaceWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Layout = l
	result.Stats.Commands = c.Len()
	result.Stats.SideLength = l.SideLength
	result.Stats.Attempts = l.Attempts
	result.Stats.PlaceTime = time.Since(placeStart)
	result.CacheInfo.PlaceHit = placeHit

	r.Logger.Info("placed chain",
		"commands", c.Len(),
		"side", l.SideLength,
		"attempts", l.Attempts,
		"cached", placeHit,
		"duration", result.Stats.PlaceTime)

	if r.Store != nil {
		if err := r.Store.Save(ctx, l); err != nil {
			return nil, fmt.Errorf("save layout: %w", err)
		}
		r.Logger.Debug("saved layout", "id", l.ID)
	}

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// PlaceWithCacheInfo places a chain with caching and returns cache hit info.
//
// A cached layout keeps its blocks and search outcome but receives a fresh
// ID, creation time and the name of c.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, c *chain.Chain, opts Options) (*layout.Layout, bool, error) {
	if err := opts.ValidateForPlace(); err != nil {
		return nil, false, err
	}
	if c == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidArgument, "chain is required")
	}
	if err := c.Validate(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(chain.Hash(c.Commands), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				cached.ID = uuid.NewString()
				cached.CreatedAt = time.Now().UTC()
				cached.Name = c.Name
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	l, err := Place(ctx, c, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := layout.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return l, false, nil
}

// Place is a convenience wrapper that calls PlaceWithCacheInfo and discards the cache hit info.
func (r *Runner) Place(ctx context.Context, c *chain.Chain, opts Options) (*layout.Layout, error) {
	l, _, err := r.PlaceWithCacheInfo(ctx, c, opts)
	return l, err
}

// ExportWithCacheInfo exports a layout with caching and returns cache hit info.
// The hit flag is true only when every cacheable format came from cache.
// JSON and text are rebuilt on every call since they carry the layout identity.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	if l == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidArgument, "layout is required")
	}
	r.applyLogger(&opts)

	blocks, err := json.Marshal(l.Blocks)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(blocks)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached, anyCacheable := true, false
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		cacheable := format != FormatJSON && format != FormatText
		anyCacheable = anyCacheable || cacheable
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))

		if cacheable && !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		if cacheable {
			allCached = false
		}

		data, err := ExportFormat(ctx, l, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
		opts.Logger.Debug("exported", "format", format, "bytes", len(data))

		if cacheable {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		}
	}

	return artifacts, allCached && anyCacheable, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (the cache and the store).
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
