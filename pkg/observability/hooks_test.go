package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopCalculationHooks{}
	p.OnCalculateStart(ctx, "cohort")
	p.OnCalculateComplete(ctx, "cohort", 402, time.Millisecond, nil)
	p.OnPack(ctx, 201, 201, 12, time.Microsecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/calculate/{design}")
	h.OnResponse(ctx, "POST", "/v1/calculate/{design}", 200, time.Millisecond)
	h.OnError(ctx, "POST", "/v1/calculate/{design}", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Calculation().(NoopCalculationHooks); !ok {
		t.Error("Calculation() should return NoopCalculationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customCalc := &testCalculationHooks{}
	SetCalculationHooks(customCalc)
	if Calculation() != customCalc {
		t.Error("SetCalculationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Calculation().(NoopCalculationHooks); !ok {
		t.Error("Reset() should restore NoopCalculationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testCalculationHooks{}
	SetCalculationHooks(custom)
	SetCalculationHooks(nil)

	if Calculation() != custom {
		t.Error("SetCalculationHooks(nil) should be ignored")
	}
}

type testCalculationHooks struct{ NoopCalculationHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
