// Package pipeline provides the place → export pipeline for cmdtower.
//
// This package implements the complete pipeline used by the CLI and the HTTP
// API. Centralizing it keeps defaults, caching and logging identical across
// entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Place: search for the smallest snake cube that holds the chain
//  2. Export: encode the layout as JSON, a structure file, DOT, SVG, PNG or text
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	c, err := chain.Load("tower.mcc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, c, pipeline.Options{
//	    Max:     coord.Of(8, 8, 8),
//	    Formats: []string{"nbt"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nbt := result.Artifacts["nbt"]
//
// Run individual stages:
//
//	l, err := runner.Place(ctx, c, opts)
//	artifacts, err := runner.Export(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cmdtower/pkg/cache"
	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/curve"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/structure"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultBoxSize is the edge length of the placement box when no Max is given.
	DefaultBoxSize = 16

	// DefaultAuthor is recorded in exported structure files.
	DefaultAuthor = "cmdtower"

	// DefaultDataVersion is the Minecraft data version of exported structures.
	DefaultDataVersion = structure.DefaultDataVersion
)

// Output formats.
const (
	FormatJSON = "json"
	FormatNBT  = "nbt"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatText = "txt"
)

// DefaultOrientation walks east, then up, then south.
var DefaultOrientation = coord.DefaultOrientation

// DefaultFormats is used when no output format is requested.
var DefaultFormats = []string{FormatJSON}

// =============================================================================
// Valid Values
// =============================================================================

// ValidFormats lists every export format.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatNBT:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatText: true,
}

// Options configures a pipeline run.
type Options struct {
	// Placement box, min inclusive and max exclusive.
	Min coord.Coordinate `json:"min"`
	Max coord.Coordinate `json:"max"`

	// Orientation of the snake curve. The zero value selects DefaultOrientation.
	Orientation coord.Orientation `json:"orientation"`

	// MaxVolume caps the number of cells in the placement box. Every search
	// attempt materializes the curve of a cube up to the box size, so servers
	// set this to bound memory. Zero means no limit.
	MaxVolume int `json:"max_volume,omitempty"`

	// Export options
	Formats     []string `json:"formats,omitempty"`
	Author      string   `json:"author,omitempty"`
	DataVersion int      `json:"data_version,omitempty"`
	Background  bool     `json:"background,omitempty"` // fill the structure bounds with air
	Detailed    bool     `json:"detailed,omitempty"`   // command text in DOT/SVG/PNG labels

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chain is the placed chain.
	Chain *chain.Chain

	// ChainHash is the content hash of the chain commands.
	ChainHash string

	// Layout is the placed layout.
	Layout *layout.Layout

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commands   int
	SideLength int
	Attempts   int
	PlaceTime  time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaceHit  bool // Whether the layout came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be json, nbt, dot, svg, png or txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBox checks that min is strictly less than max on every axis and
// that the box holds at most maxVolume cells. A maxVolume of zero or less only
// rejects boxes whose cell count overflows an int.
func ValidateBox(min, max coord.Coordinate, maxVolume int) error {
	if !min.Less(max) {
		return errors.New(errors.ErrCodeInvalidArgument, "min %s must be less than max %s on every axis", min, max)
	}
	vol, ok := curve.CheckedVolume(min, max.Sub(coord.Uniform(1)))
	if !ok {
		return errors.New(errors.ErrCodeInvalidArgument, "box between %s and %s is too large", min, max)
	}
	if maxVolume > 0 && vol > maxVolume {
		return errors.New(errors.ErrCodeInvalidArgument, "box between %s and %s has %d cells (limit %d)", min, max, vol, maxVolume)
	}
	return nil
}

// ValidateAndSetDefaults validates options and fills in defaults.
// Safe to call multiple times; later calls are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlace(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetPlacementDefaults fills in the box and orientation.
func (o *Options) SetPlacementDefaults() {
	if o.Max == (coord.Coordinate{}) {
		o.Max = o.Min.Add(coord.Uniform(DefaultBoxSize))
	}
	if o.Orientation == (coord.Orientation{}) {
		o.Orientation = DefaultOrientation
	}
}

// ValidateForPlace sets placement defaults and validates placement options.
func (o *Options) ValidateForPlace() error {
	o.SetPlacementDefaults()
	if o.MaxVolume < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "max volume must not be negative")
	}
	if err := ValidateBox(o.Min, o.Max, o.MaxVolume); err != nil {
		return err
	}
	if err := o.Orientation.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrientation, err, "invalid orientation")
	}
	return nil
}

// SetExportDefaults fills in formats and structure metadata.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Author == "" {
		o.Author = DefaultAuthor
	}
	if o.DataVersion == 0 {
		o.DataVersion = DefaultDataVersion
	}
}

// ValidateForExport sets export defaults and validates export options.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateAuthor(o.Author); err != nil {
		return err
	}
	if o.DataVersion < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "data version must be positive")
	}
	return nil
}

// LayoutKeyOpts returns the cache key options for the placement stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Min:         o.Min.Array(),
		Max:         o.Max.Array(),
		Orientation: o.Orientation.String(),
		Placer:      "sequential",
	}
}

// ArtifactKeyOpts returns the cache key options for one export format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatNBT:
		opts.Author = o.Author
		opts.DataVersion = o.DataVersion
		if o.Background {
			opts.Format += "+air"
		}
	case FormatDOT, FormatSVG, FormatPNG:
		opts.Detailed = o.Detailed
	}
	return opts
}

// StructureOptions returns the structure export options.
func (o *Options) StructureOptions() structure.Options {
	opts := structure.Options{Author: o.Author, DataVersion: o.DataVersion}
	if o.Background {
		bg := structure.Air
		opts.Background = &bg
	}
	return opts
}

// logger returns the configured logger or a discarding one.
func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
