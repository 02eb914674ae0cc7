package importmap

import (
	"net/url"
	"strings"

	apperr "github.com/matzehuels/npmap/pkg/errors"
)

// CDN selects the provider that generated URLs point at.
type CDN int

const (
	Skypack CDN = iota
	ESM
	JSPM
	Unpkg
)

// DefaultCDN is used when no provider is configured.
const DefaultCDN = Skypack

type cdnTemplate struct {
	name      string
	base      string // prepended to the package name
	bareSlash bool   // version-less URLs end with "/"
}

var cdnTemplates = [...]cdnTemplate{
	Skypack: {name: "skypack", base: "https://cdn.skypack.dev/", bareSlash: true},
	ESM:     {name: "esm", base: "https://esm.sh/"},
	JSPM:    {name: "jspm", base: "https://jspm.dev/npm:"},
	Unpkg:   {name: "unpkg", base: "https://unpkg.com/"},
}

// CDNs returns every supported provider in declaration order.
func CDNs() []CDN { return []CDN{Skypack, ESM, JSPM, Unpkg} }

// ParseCDN maps a provider name to its CDN, ignoring case and surrounding
// whitespace.
func ParseCDN(name string) (CDN, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range CDNs() {
		if cdnTemplates[c].name == n {
			return c, nil
		}
	}
	return DefaultCDN, apperr.New(apperr.ErrCodeInvalidCDN,
		"unknown cdn %q (expected one of %s)", name, strings.Join(CDNNames(), ", "))
}

// CDNNames returns the provider names accepted by [ParseCDN].
func CDNNames() []string {
	names := make([]string, 0, len(cdnTemplates))
	for _, c := range CDNs() {
		names = append(names, c.String())
	}
	return names
}

// Valid reports whether c is one of the declared providers.
func (c CDN) Valid() bool { return c >= 0 && int(c) < len(cdnTemplates) }

func (c CDN) template() cdnTemplate {
	if !c.Valid() {
		return cdnTemplates[DefaultCDN]
	}
	return cdnTemplates[c]
}

// String returns the provider name, e.g. "esm".
func (c CDN) String() string { return c.template().name }

// BaseURL returns the URL prefix every import for c starts with.
func (c CDN) BaseURL() string { return c.template().base }

// MarshalText implements encoding.TextMarshaler.
func (c CDN) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CDN) UnmarshalText(text []byte) error {
	parsed, err := ParseCDN(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Set implements pflag.Value so a CDN can back a command-line flag.
func (c *CDN) Set(s string) error { return c.UnmarshalText([]byte(s)) }

// Type implements pflag.Value.
func (c *CDN) Type() string { return "cdn" }

// BuildURL returns the import URL for name on cdn. An empty version yields
// the provider's unversioned form. Values outside the declared set build
// against [DefaultCDN].
func BuildURL(cdn CDN, name, version string) string {
	t := cdn.template()
	if version == "" {
		if t.bareSlash {
			return t.base + name + "/"
		}
		return t.base + name
	}
	return t.base + name + "@" + EncodeComponent(version)
}

var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s like a browser's encodeURIComponent:
// letters, digits and -_.!~*'() are kept and everything else, including
// spaces, is escaped.
func EncodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}
