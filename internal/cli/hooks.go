package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// debugHooks logs calculation and cache events. It is installed by
// SetLogLevel when --verbose is given.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnCalculateStart(_ context.Context, design string) {
	h.logger.Debug("calculate", "design", design)
}

func (h debugHooks) OnCalculateComplete(_ context.Context, design string, total int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("calculate failed", "design", design, "err", err, "took", d)
		return
	}
	h.logger.Debug("calculated", "design", design, "total", total, "took", d)
}

func (h debugHooks) OnPack(_ context.Context, n1, n2, cellSize int, d time.Duration) {
	h.logger.Debug("packed", "n1", n1, "n2", n2, "cell", cellSize, "took", d)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
