package pipeline

import (
	"context"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/samplesize/pkg/cache"
	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/observability"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantCode errs.Code
	}{
		{"valid", Request{Design: design.Cohort, Params: design.DefaultParams(design.Cohort)}, ""},
		{"valid with grid", Request{Design: design.Prevalence, Params: design.DefaultParams(design.Prevalence), Width: 600, Height: 400}, ""},
		{"unknown design", Request{Design: "x"}, errs.ErrCodeInvalidDesign},
		{"bad params", Request{Design: design.Cohort, Params: design.Params{Confidence: 95, Power: 50}}, errs.ErrCodeInvalidInput},
		{"negative width", Request{Design: design.Prevalence, Params: design.DefaultParams(design.Prevalence), Width: -1}, errs.ErrCodeInvalidInput},
		{"nan height", Request{Design: design.Prevalence, Params: design.DefaultParams(design.Prevalence), Height: math.NaN()}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if got := errs.GetCode(err); got != tt.wantCode {
				t.Errorf("Validate() = %v, want code %q", err, tt.wantCode)
			}
		})
	}
}

func TestRunCalculatesAndPacks(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	out, err := r.Run(context.Background(), Request{
		Design: design.CaseControl,
		Params: design.DefaultParams(design.CaseControl),
		Width:  DefaultWidth,
		Height: DefaultHeight,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Result.Primary != 284 {
		t.Errorf("Primary = %d, want 284", out.Result.Primary)
	}
	if out.CacheHit {
		t.Error("NullCache run should not be a hit")
	}
	if out.Grid == nil {
		t.Fatal("Grid should be set when an area is given")
	}
	if out.Grid.CellSize != 20 || out.Grid.Scale != 1 {
		t.Errorf("Grid = %+v, want 20px unscaled", *out.Grid)
	}
	if out.Grid.ScaledN1 != 142 || out.Grid.ScaledN2 != 142 {
		t.Errorf("Grid counts = %d/%d", out.Grid.ScaledN1, out.Grid.ScaledN2)
	}
}

func TestRunWithoutArea(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	out, err := r.Run(context.Background(), Request{
		Design: design.Prevalence,
		Params: design.DefaultParams(design.Prevalence),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Grid != nil {
		t.Error("Grid should be nil without an area")
	}
	if out.Result.Primary != 400 {
		t.Errorf("Primary = %d, want 400", out.Result.Primary)
	}
}

func TestRunCaches(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()
	req := Request{Design: design.TwoMeans, Params: design.DefaultParams(design.TwoMeans), Width: 300, Height: 200}

	first, err := r.Run(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}

	second, err := r.Run(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if second.Result.Primary != first.Result.Primary || *second.Result.Groups != *first.Result.Groups {
		t.Errorf("cached result differs: %+v vs %+v", second.Result, first.Result)
	}
	if second.Grid == nil || *second.Grid != *first.Grid {
		t.Error("cached grid differs")
	}

	req.Refresh = true
	third, err := r.Run(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
	if mc.sets != 2 {
		t.Errorf("sets = %d, want 2", mc.sets)
	}

	req.Refresh = false
	req.Params.Dropout = true
	fourth, err := r.Run(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Error("different params should not hit")
	}
}

func TestRunErrorsAreNotCached(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	p := design.DefaultParams(design.RandomizedTrial)
	p.Proportion2 = p.Proportion1

	out, err := r.Run(context.Background(), Request{Design: design.RandomizedTrial, Params: p})
	if out != nil {
		t.Error("expected nil outcome")
	}
	if !errs.Is(err, errs.ErrCodeEqualProportions) {
		t.Errorf("err = %v, want EQUAL_PROPORTIONS", err)
	}
	if mc.sets != 0 {
		t.Errorf("errors should not be cached, sets = %d", mc.sets)
	}
}

func TestRunIgnoresCorruptCacheEntry(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	req := Request{Design: design.Prevalence, Params: design.DefaultParams(design.Prevalence)}
	key, err := r.Keyer.ResultKey(string(req.Design), req.Params, req.KeyOpts())
	if err != nil {
		t.Fatal(err)
	}
	mc.data[key] = []byte("{not json")

	out, err := r.Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if out.CacheHit {
		t.Error("corrupt entry should be treated as a miss")
	}
}

func TestRunSkipsCacheForUnencodableParams(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	// Mean1 is unused by prevalence, so the calculation succeeds.
	first := design.DefaultParams(design.Prevalence)
	first.Mean1 = math.NaN()
	second := first
	second.Prevalence = 10

	a, err := r.Run(context.Background(), Request{Design: design.Prevalence, Params: first})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Run(context.Background(), Request{Design: design.Prevalence, Params: second})
	if err != nil {
		t.Fatal(err)
	}
	if a.Result.Primary != 400 || b.Result.Primary != 144 {
		t.Errorf("primary = %d, %d, want 400, 144", a.Result.Primary, b.Result.Primary)
	}
	if b.CacheHit {
		t.Error("params with NaN should never hit the cache")
	}
}

func TestRunWithFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()
	req := Request{Design: design.Cohort, Params: design.DefaultParams(design.Cohort)}

	if _, err := r.Run(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	out, err := r.Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !out.CacheHit || out.Result.Primary != 402 {
		t.Errorf("file cache round trip: hit %v primary %d", out.CacheHit, out.Result.Primary)
	}
}

type countingHooks struct {
	observability.NoopCalculationHooks
	observability.NoopCacheHooks
	mu                       sync.Mutex
	starts, completes, packs int
	hits, misses, sets       int
	lastErr                  error
}

func (h *countingHooks) OnCalculateStart(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *countingHooks) OnCalculateComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
	h.lastErr = err
}

func (h *countingHooks) OnPack(context.Context, int, int, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.packs++
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestRunFiresHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCalculationHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), nil, quietLogger())
	ctx := context.Background()
	req := Request{Design: design.Cohort, Params: design.DefaultParams(design.Cohort), Width: 100, Height: 100}

	for i := 0; i < 2; i++ {
		if _, err := r.Run(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("calculate hooks = %d/%d, want 1/1", hooks.starts, hooks.completes)
	}
	if hooks.packs != 1 {
		t.Errorf("pack hooks = %d, want 1", hooks.packs)
	}
	if hooks.misses != 1 || hooks.hits != 1 || hooks.sets != 1 {
		t.Errorf("cache hooks miss/hit/set = %d/%d/%d", hooks.misses, hooks.hits, hooks.sets)
	}

	bad := req
	bad.Params.ExposedRisk = bad.Params.UnexposedRisk
	if _, err := r.Run(ctx, bad); err == nil {
		t.Fatal("expected error")
	}
	if !errs.Is(hooks.lastErr, errs.ErrCodeEqualProportions) {
		t.Errorf("OnCalculateComplete err = %v", hooks.lastErr)
	}
}

func TestRunConcurrent(t *testing.T) {
	r := NewRunner(newMemCache(), nil, quietLogger())
	var wg sync.WaitGroup
	for _, d := range design.All {
		wg.Add(1)
		go func(d design.Design) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := r.Run(context.Background(), Request{Design: d, Params: design.DefaultParams(d)}); err != nil {
					t.Errorf("%s: %v", d, err)
					return
				}
			}
		}(d)
	}
	wg.Wait()
}
