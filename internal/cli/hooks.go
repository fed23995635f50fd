package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topodraw/pkg/observability"
)

// logHooks reports render and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.RenderHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnRenderStart(_ context.Context, format string, nodeCount int) {
	h.logger.Debug("render started", "format", format, "nodes", nodeCount)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "duration", duration.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "bytes", size, "duration", duration.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
