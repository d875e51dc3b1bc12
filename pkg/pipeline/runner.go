package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/samplesize/pkg/cache"
	"github.com/matzehuels/samplesize/pkg/design"
	"github.com/matzehuels/samplesize/pkg/grid"
	"github.com/matzehuels/samplesize/pkg/observability"
)

const keyTypeResult = "result"

// Runner executes requests with caching.
//
// The Runner holds no per-request state: multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored outcomes (cache.TTLResult when zero).
	TTL time.Duration
}

// NewRunner creates a runner. A nil keyer uses cache.DefaultKeyer, a nil
// cache disables caching and a nil logger uses log.Default().
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLResult,
	}
}

// Run validates req, calculates, packs the grid when an area is given and
// stores the outcome. Calculation failures are returned as *errors.Error and
// are never cached.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key, err := r.Keyer.ResultKey(string(req.Design), req.Params, req.KeyOpts())
	if err != nil {
		r.Logger.Debug("skipping cache", "design", req.Design, "error", err)
	}
	cacheable := err == nil
	if cacheable && !req.Refresh {
		if out, ok := r.lookup(ctx, key); ok {
			out.Stats.Total = time.Since(start)
			r.Logger.Debug("cache hit", "design", req.Design, "primary", out.Result.Primary)
			return out, nil
		}
	}

	hooks := observability.Calculation()
	hooks.OnCalculateStart(ctx, string(req.Design))
	calcStart := time.Now()
	res, err := design.Calculate(req.Design, req.Params)
	calcTime := time.Since(calcStart)
	total := 0
	if res != nil {
		total = res.Primary
	}
	hooks.OnCalculateComplete(ctx, string(req.Design), total, calcTime, err)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Result: res, Stats: Stats{CalculateTime: calcTime}}
	if req.WantsGrid() {
		n1, n2 := res.Counts()
		packStart := time.Now()
		layout := r.Pack(ctx, n1, n2, req.Width, req.Height)
		out.Grid = &layout
		out.Stats.PackTime = time.Since(packStart)
	}

	if cacheable {
		r.store(ctx, key, out)
	}
	out.Stats.Total = time.Since(start)
	r.Logger.Debug("calculated",
		"design", req.Design,
		"primary", res.Primary,
		"duration", out.Stats.Total)
	return out, nil
}

// Pack lays out n1 + n2 dots in a width×height area and reports the
// placement to the calculation hooks.
func (r *Runner) Pack(ctx context.Context, n1, n2 int, width, height float64) grid.Layout {
	start := time.Now()
	layout := grid.Pack(n1, n2, width, height)
	observability.Calculation().OnPack(ctx, n1, n2, layout.CellSize, time.Since(start))
	return layout
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Outcome, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}

	var out Outcome
	if err := json.Unmarshal(data, &out); err != nil || out.Result == nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key)
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	out.CacheHit = true
	observability.Cache().OnCacheHit(ctx, keyTypeResult)
	return &out, true
}

func (r *Runner) store(ctx context.Context, key string, out *Outcome) {
	data, err := json.Marshal(out)
	if err != nil {
		r.Logger.Warn("cache encode failed", "error", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLResult
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
}
