// Package cache stores serialized calculation results between runs.
//
// Calculations are cheap, so the cache exists for the surfaces around them:
// batch runs over large scenario files, the HTTP API behind a shared Redis,
// and repeated CLI invocations with identical inputs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (API deployments)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the design, the
// parameters and the grid area together with [EngineVersion], so bumping
// the version invalidates every stored result. [RedisCache] namespaces its
// keys with a configurable prefix so deployments can share one database.
package cache

import (
	"context"
	"time"
)

// TTLResult is the default lifetime of a cached calculation.
const TTLResult = 30 * 24 * time.Hour

// EngineVersion is mixed into every result key. Bump it when a formula or
// rounding rule changes.
const EngineVersion = "1"

// Cache is a byte-oriented key/value store with per-entry expiry.
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ResultKeyOpts are the non-parameter inputs that change a cached outcome.
type ResultKeyOpts struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies one calculation: design name plus its parameters.
	// params must marshal to JSON deterministically (a struct, not a map).
	// An error means the inputs have no stable key and must not be cached.
	ResultKey(design string, params any, opts ResultKeyOpts) (string, error)
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements [Keyer].
func (DefaultKeyer) ResultKey(design string, params any, opts ResultKeyOpts) (string, error) {
	return hashKey("result:"+design, EngineVersion, params, opts)
}
