package importmap

import (
	"strings"

	"github.com/matzehuels/npmap/pkg/manifest"
)

// SkipReason explains why a dependency was left out of the import map.
type SkipReason string

const (
	SkipTypesOnly SkipReason = "types-only"
	SkipGit       SkipReason = "git"
	SkipLocalPath SkipReason = "local-path"
	SkipURL       SkipReason = "url"
	SkipGitHub    SkipReason = "github"
)

var skipReasons = map[Kind]SkipReason{
	GitRef:    SkipGit,
	LocalPath: SkipLocalPath,
	RemoteURL: SkipURL,
	GitHubRef: SkipGitHub,
}

// Skip records one dependency that was not resolved.
type Skip struct {
	Section   string     `json:"section"`
	Name      string     `json:"name"`
	Specifier string     `json:"specifier"`
	Reason    SkipReason `json:"reason"`
}

// Options configures [Resolve].
type Options struct {
	CDN CDN
	// Logger receives one message per skipped dependency. Nil discards them.
	Logger func(format string, args ...any)
}

func (o Options) warnf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger(format, args...)
	}
}

// Result is the outcome of resolving a set of manifest sections.
type Result struct {
	Imports *Imports
	Skipped []Skip
}

// Resolve builds the import map for the manifest sections named by fields,
// processed in the given order. Use [manifest.Selection.Fields] for the
// standard precedence.
func Resolve(m *manifest.Manifest, fields []string, opts Options) *Result {
	return ResolveSections(m.Sections(fields), opts)
}

// ResolveSections builds the import map for sections in order. A name seen
// in a later section overwrites the URL from an earlier one.
func ResolveSections(sections []manifest.Section, opts Options) *Result {
	res := &Result{Imports: NewImports()}
	for _, s := range sections {
		for _, e := range s.Entries {
			if u, reason, ok := resolveEntry(e, opts.CDN); ok {
				res.Imports.Set(e.Name, u)
			} else {
				res.skip(s.Field, e, reason, opts)
			}
		}
	}
	return res
}

func resolveEntry(e manifest.Entry, cdn CDN) (string, SkipReason, bool) {
	if strings.HasPrefix(e.Name, TypesPrefix) {
		return "", SkipTypesOnly, false
	}
	c := Classify(e.Name, e.Specifier)
	if !c.Kind.Supported() {
		return "", skipReasons[c.Kind], false
	}
	return BuildURL(cdn, e.Name, c.Version), "", true
}

func (r *Result) skip(section string, e manifest.Entry, reason SkipReason, opts Options) {
	r.Skipped = append(r.Skipped, Skip{
		Section:   section,
		Name:      e.Name,
		Specifier: e.Specifier,
		Reason:    reason,
	})
	if reason == SkipTypesOnly {
		opts.warnf("skipping %s: type-only package", e.Name)
		return
	}
	opts.warnf("skipping %s@%s: %s dependencies are not supported", e.Name, e.Specifier, reason)
}
