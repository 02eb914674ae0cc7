// Package pipeline runs the load → resolve → emit flow shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read package.json from disk or fetch it over HTTP (cached)
//  2. Resolve: classify every selected dependency and build its CDN URL
//  3. Emit: wrap the mapping in an import map document
//
// # Usage
//
//	runner := pipeline.NewRunner(loader, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:    "package.json",
//	    CDN:       importmap.ESM,
//	    Selection: manifest.Selection{Dev: true},
//	})
//	if err != nil {
//	    return err
//	}
//	result.Document.WriteTo(os.Stdout)
//
// Skipped dependencies are logged as warnings on the runner's logger and
// returned in [Result.Skipped]. They never fail the run.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/manifest"
)

// Options contains all configuration for one pipeline run.
type Options struct {
	// Source is a local path or http(s) URL of a package.json.
	Source string `json:"source"`

	// CDN selects the provider for every generated URL.
	CDN importmap.CDN `json:"cdn"`

	// Selection picks the extra dependency sections to include.
	Selection manifest.Selection `json:"selection"`

	// Refresh bypasses the manifest cache for remote sources.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Validate checks options that can be rejected before any I/O.
func (o Options) Validate() error {
	if err := o.validateCDN(); err != nil {
		return err
	}
	return apperr.ValidateSource(o.Source)
}

func (o Options) validateCDN() error {
	if !o.CDN.Valid() {
		return apperr.New(apperr.ErrCodeInvalidCDN, "unknown cdn %d", int(o.CDN))
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Manifest is the parsed package.json.
	Manifest *manifest.Manifest

	// Document is the generated import map.
	Document *importmap.Document

	// Skipped lists dependencies left out of the map.
	Skipped []importmap.Skip

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when a remote manifest came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Resolved    int
	Skipped     int
	LoadTime    time.Duration
	ResolveTime time.Duration
}
