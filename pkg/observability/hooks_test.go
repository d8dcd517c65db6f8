package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnSeedStart(ctx, 100, 3)
	e.OnSeedComplete(ctx, 100, time.Second)
	e.OnSimulateStart(ctx, 100)
	e.OnSimulateComplete(ctx, 100, 500, time.Second)
	e.OnGroupComplete(ctx, 5, time.Second)
	e.OnProjectComplete(ctx, 40, 3)
	e.OnCrossingsComplete(ctx, 7, time.Second)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
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

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)
	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should keep the previous hooks")
	}

	Reset()
}

// Test hook implementations that record invocation.

type testEngineHooks struct {
	NoopEngineHooks
	simulateStarts int
}

func (h *testEngineHooks) OnSimulateStart(ctx context.Context, nodeCount int) {
	h.simulateStarts++
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

type testHTTPHooks struct {
	NoopHTTPHooks
	requests int
}

func (h *testHTTPHooks) OnRequest(ctx context.Context, method, path string) {
	h.requests++
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	hooks := &testEngineHooks{}
	SetEngineHooks(hooks)

	Engine().OnSimulateStart(context.Background(), 42)
	Engine().OnSimulateStart(context.Background(), 7)

	if hooks.simulateStarts != 2 {
		t.Errorf("simulateStarts = %d, want 2", hooks.simulateStarts)
	}
}
