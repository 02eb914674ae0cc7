package importmap

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// TypesPrefix marks type-only packages, which have no runtime code.
const TypesPrefix = "@types/"

// Kind is the category of a version specifier.
type Kind int

const (
	ExactVersion Kind = iota // "1.2.3"
	Range                    // "^1.2.0", ">=1 <2", "1.x || 2.x"
	Wildcard                 // "" or "*"
	GitRef                   // "git+https://...", "git://..."
	LocalPath                // name starts with ".", "~" or "/"
	RemoteURL                // "https://.../pkg.tgz"
	GitHubRef                // "user/repo#branch"
	OpaqueTag                // "latest", "next", anything else
)

var kindNames = [...]string{
	ExactVersion: "exact",
	Range:        "range",
	Wildcard:     "wildcard",
	GitRef:       "git",
	LocalPath:    "local-path",
	RemoteURL:    "url",
	GitHubRef:    "github",
	OpaqueTag:    "tag",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Supported reports whether a CDN URL can be built for the kind.
func (k Kind) Supported() bool {
	switch k {
	case ExactVersion, Range, Wildcard, OpaqueTag:
		return true
	}
	return false
}

// Classification is the result of [Classify].
type Classification struct {
	Kind Kind
	// Version is the value passed to the CDN builder. It is the normalized
	// version for ExactVersion, and the specifier unchanged for Range and
	// OpaqueTag. It is empty for every other kind.
	Version string
}

// Classify categorizes the specifier declared for the dependency name.
// The checks run in a fixed order and the first match wins, since several
// categories overlap in form ("1.x" is a range, not a tag).
//
// The local path check looks at name rather than specifier. npm never
// publishes names starting with ".", "~" or "/", so in practice path
// specifiers such as "file:../lib" fall through to GitHubRef, which is
// also skipped.
func Classify(name, specifier string) Classification {
	trimmed := strings.TrimSpace(specifier)

	if v, ok := exactVersion(trimmed); ok {
		return Classification{Kind: ExactVersion, Version: v}
	}
	if isRange(trimmed) {
		return Classification{Kind: Range, Version: specifier}
	}

	switch {
	case trimmed == "" || trimmed == "*":
		return Classification{Kind: Wildcard}
	case strings.HasPrefix(specifier, "git+") || strings.HasPrefix(specifier, "git:"):
		return Classification{Kind: GitRef}
	case isPathLike(name):
		return Classification{Kind: LocalPath}
	case strings.HasPrefix(specifier, "http://") || strings.HasPrefix(specifier, "https://"):
		return Classification{Kind: RemoteURL}
	case strings.Contains(specifier, "/"):
		return Classification{Kind: GitHubRef}
	}
	return Classification{Kind: OpaqueTag, Version: specifier}
}

// exactVersion accepts a full major.minor.patch version with optional
// prerelease and build metadata, tolerating a single leading "v".
func exactVersion(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	v, err := semver.StrictNewVersion(strings.TrimPrefix(s, "v"))
	if err != nil {
		return "", false
	}
	return v.String(), true
}

// isRange reports whether s parses as a semver constraint. The bare
// wildcard forms are left to the Wildcard case so they build
// version-less URLs.
func isRange(s string) bool {
	if s == "" || s == "*" {
		return false
	}
	_, err := semver.NewConstraint(s)
	return err == nil
}

func isPathLike(name string) bool {
	return name != "" && strings.ContainsRune(".~/", rune(name[0]))
}
