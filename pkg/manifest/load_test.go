package manifest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npmap/pkg/cache"
	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/httputil"
)

const testManifest = `{"dependencies": {"lodash": "^4.17.0"}}`

func newTestLoader(t *testing.T, c cache.Cache) *Loader {
	t.Helper()
	client := httputil.NewClient(nil, httputil.WithRetry(1, time.Millisecond))
	return NewLoader(client, c, time.Hour, log.New(io.Discard))
}

func TestLoaderLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := newTestLoader(t, nil).Load(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if spec, _ := m.Dependencies.Get("lodash"); spec != "^4.17.0" {
		t.Errorf("lodash = %q, want ^4.17.0", spec)
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`[1, 2]`), 0o644)

	tests := []struct {
		name   string
		source string
		want   apperr.Code
	}{
		{"empty source", "  ", apperr.ErrCodeInvalidInput},
		{"missing file", filepath.Join(dir, "nope.json"), apperr.ErrCodeFileNotFound},
		{"directory", dir, apperr.ErrCodeInvalidInput},
		{"not an object", bad, apperr.ErrCodeInvalidManifest},
		{"url without host", "https://", apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(t, nil).Load(context.Background(), tt.source, false)
			if !apperr.Is(err, tt.want) {
				t.Errorf("Load(%q) error = %v, want %s", tt.source, err, tt.want)
			}
		})
	}
}

func TestLoaderRemoteCaching(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, testManifest)
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	l := newTestLoader(t, c)
	ctx := context.Background()
	url := srv.URL + "/package.json"

	if _, hit, err := l.LoadWithCacheInfo(ctx, url, false); err != nil || hit {
		t.Fatalf("first load: hit %v, err %v", hit, err)
	}
	m, hit, err := l.LoadWithCacheInfo(ctx, url, false)
	if err != nil || !hit {
		t.Fatalf("second load: hit %v, err %v; want cache hit", hit, err)
	}
	if m.Dependencies.Len() != 1 {
		t.Errorf("cached manifest has %d dependencies", m.Dependencies.Len())
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}

	if _, hit, _ := l.LoadWithCacheInfo(ctx, url, true); hit {
		t.Error("refresh should bypass the cache")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls after refresh = %d, want 2", got)
	}
}

func TestLoaderRemoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestLoader(t, nil).Load(context.Background(), srv.URL+"/package.json", false)
	if !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want NOT_FOUND", err)
	}
}

func TestLoaderRemoteInvalidNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	c, _ := cache.NewFileCache(t.TempDir())
	url := srv.URL + "/package.json"
	_, err := newTestLoader(t, c).Load(context.Background(), url, false)
	if !apperr.Is(err, apperr.ErrCodeInvalidManifest) {
		t.Errorf("Load() error = %v, want INVALID_MANIFEST", err)
	}
	if _, hit, _ := c.Get(context.Background(), cache.ManifestKey(url)); hit {
		t.Error("an invalid manifest should not be cached")
	}
}
