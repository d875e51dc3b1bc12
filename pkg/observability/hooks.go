// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. Consumers register hooks
// at startup and receive events about calculations, cache operations and
// HTTP requests served by the API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Hook interfaces per event category
//   - No-op defaults
//   - A global registry written once at startup
//
// Libraries never import a metrics framework; main wires one in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCalculationHooks(&myHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Calculation().OnCalculateStart(ctx, "cohort")
//	// ... calculate ...
//	observability.Calculation().OnCalculateComplete(ctx, "cohort", total, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Calculation Hooks
// =============================================================================

// CalculationHooks receives events from the calculation pipeline.
type CalculationHooks interface {
	OnCalculateStart(ctx context.Context, design string)
	OnCalculateComplete(ctx context.Context, design string, total int, duration time.Duration, err error)

	// OnPack fires after a grid layout is computed.
	OnPack(ctx context.Context, n1, n2, cellSize int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request before routing.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the status written for a request. route is the
	// matched pattern, e.g. /v1/calculate/{design}.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an internal error or panic.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCalculationHooks is a no-op implementation of CalculationHooks.
type NoopCalculationHooks struct{}

func (NoopCalculationHooks) OnCalculateStart(context.Context, string) {}
func (NoopCalculationHooks) OnCalculateComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopCalculationHooks) OnPack(context.Context, int, int, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	calculationHooks CalculationHooks = NoopCalculationHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetCalculationHooks registers custom calculation hooks. nil is ignored.
func SetCalculationHooks(h CalculationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		calculationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Calculation returns the registered calculation hooks.
func Calculation() CalculationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return calculationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	calculationHooks = NoopCalculationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
