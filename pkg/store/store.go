// Package store persists placed layouts.
//
// The HTTP API keeps every layout it computes so clients can fetch exports
// later by ID. Backends:
//
//   - [MemoryStore]: process-local, for development and tests
//   - [FileStore]: one JSON file per layout, for single-node deployments
//   - [MongoStore]: MongoDB collection for multi-instance deployments
//
// Missing layouts are reported with [errors.ErrCodeNotFound].
package store

import (
	"context"
	"sort"
	"time"

	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
)

// Store is the interface for layout storage backends.
type Store interface {
	// Save inserts or replaces a layout by ID.
	Save(ctx context.Context, l *layout.Layout) error

	// Get returns the layout with the given ID.
	Get(ctx context.Context, id string) (*layout.Layout, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a layout. Deleting a missing layout is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored layout without its blocks.
type Summary struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	ChainHash  string    `json:"chain_hash,omitempty" bson:"chain_hash,omitempty"`
	Blocks     int       `json:"blocks" bson:"block_count"`
	SideLength int       `json:"side_length" bson:"side_length"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Summarize returns the summary of l.
func Summarize(l *layout.Layout) Summary {
	return Summary{
		ID:         l.ID,
		Name:       l.Name,
		ChainHash:  l.ChainHash,
		Blocks:     len(l.Blocks),
		SideLength: l.SideLength,
		CreatedAt:  l.CreatedAt,
	}
}

// DefaultListLimit applies when List is called with a non-positive limit.
const DefaultListLimit = 50

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
}

func validateForSave(l *layout.Layout) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "layout is required")
	}
	return errors.ValidateLayoutID(l.ID)
}

// newestFirst sorts summaries by creation time, newest first, and trims
// them to limit.
func newestFirst(s []Summary, limit int) []Summary {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.After(s[j].CreatedAt)
		}
		return s[i].ID < s[j].ID
	})
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
