package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/manifest"
	"github.com/matzehuels/npmap/pkg/observability"
)

// Runner executes the pipeline with a shared manifest loader.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Loader *manifest.Loader
	Logger *log.Logger
}

// NewRunner creates a runner. A nil loader gets a default one that does not
// cache; a nil logger uses the default charmbracelet logger.
func NewRunner(loader *manifest.Loader, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if loader == nil {
		loader = manifest.NewLoader(nil, nil, 0, logger)
	}
	return &Runner{Loader: loader, Logger: logger}
}

// Execute loads the manifest named by opts.Source and resolves it.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	hooks := observability.Resolve()
	start := time.Now()
	hooks.OnResolveStart(ctx, opts.Source, opts.CDN.String())
	defer func() {
		resolved, skipped := 0, 0
		if res != nil {
			resolved, skipped = res.Stats.Resolved, res.Stats.Skipped
		}
		hooks.OnResolveComplete(ctx, opts.Source, opts.CDN.String(), resolved, skipped, time.Since(start), err)
	}()

	m, hit, err := r.Loader.LoadWithCacheInfo(ctx, opts.Source, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(start)
	logger.Debug("loaded manifest", "source", opts.Source, "cached", hit, "duration", loadTime)

	res = r.resolve(m, opts, logger)
	res.Stats.LoadTime = loadTime
	res.CacheHit = hit
	return res, nil
}

// ExecuteManifest resolves an already parsed manifest. The HTTP server uses
// it for uploaded documents.
func (r *Runner) ExecuteManifest(ctx context.Context, m *manifest.Manifest, opts Options) (*Result, error) {
	if err := opts.validateCDN(); err != nil {
		return nil, err
	}
	source := opts.Source
	if source == "" {
		source = "<upload>"
	}

	hooks := observability.Resolve()
	start := time.Now()
	hooks.OnResolveStart(ctx, source, opts.CDN.String())
	res := r.resolve(m, opts, r.logger(opts))
	hooks.OnResolveComplete(ctx, source, opts.CDN.String(), res.Stats.Resolved, res.Stats.Skipped, time.Since(start), nil)
	return res, nil
}

func (r *Runner) resolve(m *manifest.Manifest, opts Options, logger *log.Logger) *Result {
	start := time.Now()
	out := importmap.Resolve(m, opts.Selection.Fields(), importmap.Options{CDN: opts.CDN})
	for _, s := range out.Skipped {
		logger.Warn("skipping dependency",
			"section", s.Section,
			"name", s.Name,
			"value", s.Specifier,
			"reason", s.Reason)
	}

	res := &Result{
		Manifest: m,
		Document: importmap.Emit(out.Imports),
		Skipped:  out.Skipped,
	}
	res.Stats.Resolved = out.Imports.Len()
	res.Stats.Skipped = len(out.Skipped)
	res.Stats.ResolveTime = time.Since(start)

	logger.Info("resolved import map",
		"cdn", opts.CDN,
		"imports", res.Stats.Resolved,
		"skipped", res.Stats.Skipped,
		"duration", res.Stats.ResolveTime)
	return res
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
