package manifest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npmap/pkg/cache"
	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/httputil"
	"github.com/matzehuels/npmap/pkg/observability"
)

// DefaultTTL is how long a fetched remote manifest stays cached.
const DefaultTTL = 24 * time.Hour

// Loader reads manifests from disk or over HTTP.
// Remote documents are cached by URL; local files never are.
type Loader struct {
	Client *httputil.Client
	Cache  cache.Cache
	TTL    time.Duration
	Logger *log.Logger
}

// NewLoader creates a Loader. A nil client gets default headers, a nil
// cache disables caching, and a zero ttl uses [DefaultTTL].
func NewLoader(client *httputil.Client, c cache.Cache, ttl time.Duration, logger *log.Logger) *Loader {
	if client == nil {
		client = httputil.NewClient(nil)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Client: client, Cache: c, TTL: ttl, Logger: logger}
}

// Load reads the manifest at source. When refresh is set, a cached copy of a
// remote manifest is ignored and replaced.
func (l *Loader) Load(ctx context.Context, source string, refresh bool) (*Manifest, error) {
	m, _, err := l.LoadWithCacheInfo(ctx, source, refresh)
	return m, err
}

// LoadWithCacheInfo is like Load and also reports whether the document came
// from the cache.
func (l *Loader) LoadWithCacheInfo(ctx context.Context, source string, refresh bool) (*Manifest, bool, error) {
	if err := apperr.ValidateSource(source); err != nil {
		return nil, false, err
	}
	if apperr.IsRemote(source) {
		return l.loadRemote(ctx, source, refresh)
	}
	m, err := l.loadFile(source)
	return m, false, err
}

func (l *Loader) loadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "manifest %s not found", path)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read %s", path)
	}
	l.Logger.Debug("read manifest", "path", path, "bytes", len(data))
	return Parse(data)
}

func (l *Loader) loadRemote(ctx context.Context, rawURL string, refresh bool) (*Manifest, bool, error) {
	key := cache.ManifestKey(rawURL)
	hooks := observability.Cache()

	if !refresh {
		data, hit, err := l.Cache.Get(ctx, key)
		if err != nil {
			l.Logger.Warn("cache read failed", "url", rawURL, "error", err)
		}
		if hit {
			if m, err := Parse(data); err == nil {
				hooks.OnCacheHit(ctx, cache.KeyTypeManifest)
				l.Logger.Debug("manifest cache hit", "url", rawURL)
				return m, true, nil
			}
			_ = l.Cache.Delete(ctx, key)
		}
	}
	hooks.OnCacheMiss(ctx, cache.KeyTypeManifest)

	l.Logger.Debug("fetching manifest", "url", rawURL)
	data, err := l.Client.Get(ctx, rawURL)
	if err != nil {
		return nil, false, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, false, err
	}

	if err := l.Cache.Set(ctx, key, data, l.TTL); err != nil {
		l.Logger.Warn("cache write failed", "url", rawURL, "error", err)
	} else {
		hooks.OnCacheSet(ctx, cache.KeyTypeManifest, len(data))
	}
	return m, false, nil
}
