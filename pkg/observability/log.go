package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports placement and cache events on a logger: attempts and
// cache traffic at debug level, failed searches as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) LogHooks {
	if l == nil {
		l = log.Default()
	}
	return LogHooks{logger: l}
}

func (h LogHooks) OnSearchStart(_ context.Context, chainLen, largestExtent int) {
	h.logger.Debug("search started", "commands", chainLen, "extent", largestExtent)
}

func (h LogHooks) OnAttempt(_ context.Context, side, curveLen int, fit bool) {
	h.logger.Debug("placement attempt", "side", side, "cells", curveLen, "fit", fit)
}

func (h LogHooks) OnSearchComplete(_ context.Context, chainLen, side, attempts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("search failed", "commands", chainLen, "attempts", attempts, "err", err)
		return
	}
	h.logger.Debug("search complete", "commands", chainLen, "side", side, "attempts", attempts, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PlacementHooks = LogHooks{}
	_ CacheHooks     = LogHooks{}
)
