package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolveHooks{}
	r.OnResolveStart(ctx, "package.json", "skypack")
	r.OnResolveComplete(ctx, "package.json", "skypack", 3, 1, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "manifest")
	c.OnCacheMiss(ctx, "manifest")
	c.OnCacheSet(ctx, "manifest", 512)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "raw.githubusercontent.com", "/acme/app/main/package.json")
	h.OnResponse(ctx, "GET", "raw.githubusercontent.com", "/acme/app/main/package.json", 200, time.Second)
	h.OnError(ctx, "GET", "raw.githubusercontent.com", "/acme/app/main/package.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
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
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testResolveHooks{}
	SetResolveHooks(custom)
	SetResolveHooks(nil)

	if Resolve() != custom {
		t.Error("SetResolveHooks(nil) should be ignored")
	}
}

type testResolveHooks struct{ NoopResolveHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
