// Package observability lets callers watch the placement search, cache
// traffic and HTTP requests without the libraries depending on a metrics
// backend.
//
// Three hook interfaces cover the three event sources. Each has a Noop
// implementation, which is what the package hands out until something is
// registered:
//
//	observability.SetPlacementHooks(observability.NewLogHooks(logger))
//	defer observability.Reset()
//
// Libraries fetch the current hooks at the point of use:
//
//	hooks := observability.Placement()
//	hooks.OnSearchStart(ctx, len(chain), extent)
package observability

import (
	"context"
	"sync"
	"time"
)

// PlacementHooks receives events from the cube-size search.
type PlacementHooks interface {
	// OnSearchStart fires once per search before the first attempt.
	OnSearchStart(ctx context.Context, chainLen, largestExtent int)
	// OnAttempt fires after every placer invocation.
	OnAttempt(ctx context.Context, sideLength, curveLen int, fit bool)
	// OnSearchComplete fires once per search with the outcome.
	OnSearchComplete(ctx context.Context, chainLen, sideLength, attempts int, duration time.Duration, err error)
}

// CacheHooks receives events from the instrumented cache. keyType is the
// key prefix, e.g. "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API middleware. route is the chi
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnSearchStart(context.Context, int, int)                               {}
func (NoopPlacementHooks) OnAttempt(context.Context, int, int, bool)                             {}
func (NoopPlacementHooks) OnSearchComplete(context.Context, int, int, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set ignores nil so a missing implementation never replaces the default.
func (s *slot[T]) set(v T) {
	if any(v) == nil {
		return
	}
	s.mu.Lock()
	s.cur = v
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	placementSlot = newSlot[PlacementHooks](NoopPlacementHooks{})
	cacheSlot     = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot      = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPlacementHooks registers h. A nil h is ignored.
func SetPlacementHooks(h PlacementHooks) { placementSlot.set(h) }

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

func Placement() PlacementHooks { return placementSlot.get() }
func Cache() CacheHooks         { return cacheSlot.get() }
func HTTP() HTTPHooks           { return httpSlot.get() }

// Reset restores the Noop hooks.
func Reset() {
	placementSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
