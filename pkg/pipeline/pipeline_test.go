package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npmap/pkg/cache"
	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/httputil"
	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/manifest"
	"github.com/matzehuels/npmap/pkg/observability"
)

const appManifest = `{
  "name": "app",
  "dependencies": {"react": "^18.2.0", "left-pad": "git+https://x.com/y"},
  "devDependencies": {"vite": "5.0.0", "@types/react": "^18.0.0"},
  "peerDependencies": {"react": "17.0.0"}
}`

func newTestRunner(t *testing.T, c cache.Cache, logs io.Writer) *Runner {
	t.Helper()
	logger := log.New(logs)
	client := httputil.NewClient(nil, httputil.WithRetry(1, time.Millisecond))
	return NewRunner(manifest.NewLoader(client, c, time.Hour, logger), logger)
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecuteLocal(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRunner(t, nil, &logs)

	res, err := r.Execute(context.Background(), Options{
		Source:    writeManifest(t, appManifest),
		CDN:       importmap.ESM,
		Selection: manifest.Selection{Dev: true, Peer: true},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := map[string]string{
		"vite":  "https://esm.sh/vite@5.0.0",
		"react": "https://esm.sh/react@%5E18.2.0",
	}
	for k, v := range want {
		if got, _ := res.Document.Imports.Get(k); got != v {
			t.Errorf("imports[%s] = %q, want %q", k, got, v)
		}
	}
	if res.Stats.Resolved != 2 || res.Stats.Skipped != 2 {
		t.Errorf("Stats = %+v, want 2 resolved, 2 skipped", res.Stats)
	}
	if res.CacheHit {
		t.Error("local manifests are never cached")
	}
	if !strings.Contains(logs.String(), "left-pad") {
		t.Errorf("expected a warning about left-pad in logs:\n%s", logs.String())
	}
}

func TestExecuteValidation(t *testing.T) {
	r := newTestRunner(t, nil, io.Discard)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Source: "package.json", CDN: importmap.CDN(9)}); !apperr.Is(err, apperr.ErrCodeInvalidCDN) {
		t.Errorf("invalid cdn error = %v", err)
	}
	if _, err := r.Execute(ctx, Options{}); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("empty source error = %v", err)
	}
	_, err := r.Execute(ctx, Options{Source: filepath.Join(t.TempDir(), "missing.json")})
	if !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestExecuteRemoteCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, appManifest)
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, c, io.Discard)
	opts := Options{Source: srv.URL + "/package.json", CDN: importmap.Unpkg}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}

	a, _ := first.Document.Marshal()
	b, _ := second.Document.Marshal()
	if !bytes.Equal(a, b) {
		t.Errorf("cached run produced different output:\n%s\n---\n%s", a, b)
	}
}

type recordingHooks struct {
	observability.NoopResolveHooks
	started, completed int
	lastErr            error
}

func (h *recordingHooks) OnResolveStart(context.Context, string, string) { h.started++ }
func (h *recordingHooks) OnResolveComplete(_ context.Context, _, _ string, _, _ int, _ time.Duration, err error) {
	h.completed++
	h.lastErr = err
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetResolveHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newTestRunner(t, nil, io.Discard)
	_, _ = r.Execute(context.Background(), Options{Source: writeManifest(t, appManifest)})
	_, err := r.Execute(context.Background(), Options{Source: filepath.Join(t.TempDir(), "nope.json")})

	if hooks.started != 2 || hooks.completed != 2 {
		t.Errorf("hooks started %d, completed %d; want 2, 2", hooks.started, hooks.completed)
	}
	if hooks.lastErr == nil || hooks.lastErr.Error() != err.Error() {
		t.Errorf("OnResolveComplete err = %v, want %v", hooks.lastErr, err)
	}
}

func TestExecuteManifest(t *testing.T) {
	m, err := manifest.Parse([]byte(appManifest))
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, nil, io.Discard)

	res, err := r.ExecuteManifest(context.Background(), m, Options{CDN: importmap.Skypack})
	if err != nil {
		t.Fatalf("ExecuteManifest() error = %v", err)
	}
	if got, _ := res.Document.Imports.Get("react"); got != "https://cdn.skypack.dev/react@%5E18.2.0" {
		t.Errorf("react = %q", got)
	}
	if res.Document.Imports.Len() != 1 {
		t.Errorf("imports = %v, want only react", res.Document.Imports.Keys())
	}

	if _, err := r.ExecuteManifest(context.Background(), m, Options{CDN: importmap.CDN(-1)}); !apperr.Is(err, apperr.ErrCodeInvalidCDN) {
		t.Errorf("invalid cdn error = %v", err)
	}
}
