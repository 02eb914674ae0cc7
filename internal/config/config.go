// Package config loads npmap's user configuration from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/npmap/config.toml (falling back to
// ~/.config/npmap/config.toml) unless a path is given explicitly:
//
//	cdn = "esm"
//	dev = true
//
//	[cache]
//	ttl = "12h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// A missing default file is not an error; every field has a default. The
// NPMAP_CDN environment variable overrides the file's cdn.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/manifest"
)

const (
	appName     = "npmap"
	fileName    = "config.toml"
	envCDN      = "NPMAP_CDN"
	defaultAddr = ":8080"
)

// Config is the merged configuration.
type Config struct {
	CDN      importmap.CDN `toml:"cdn"`
	Dev      bool          `toml:"dev"`
	Peer     bool          `toml:"peer"`
	Optional bool          `toml:"optional"`
	Cache    CacheConfig   `toml:"cache"`
	Server   ServerConfig  `toml:"server"`

	// Path is the file the configuration was read from, empty when only
	// defaults apply.
	Path string `toml:"-"`

	// Unknown lists keys in the file that npmap does not recognize.
	Unknown []string `toml:"-"`
}

// CacheConfig controls the manifest cache.
type CacheConfig struct {
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
	Disabled bool          `toml:"disabled"`
}

// ServerConfig controls `npmap serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir, _ := DefaultCacheDir()
	return &Config{
		CDN:    importmap.DefaultCDN,
		Cache:  CacheConfig{Dir: dir, TTL: manifest.DefaultTTL},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// Selection returns the configured section selection.
func (c *Config) Selection() manifest.Selection {
	return manifest.Selection{Dev: c.Dev, Peer: c.Peer, Optional: c.Optional}
}

// Load reads the configuration at path. An empty path means the default
// location, where a missing file yields [Default]. An explicit path must
// exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return applyEnv(Default())
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return applyEnv(Default())
	case errors.Is(err, fs.ErrNotExist):
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s not found", path)
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	cfg.Path = path
	for _, k := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, k.String())
	}
	if cfg.Cache.TTL < 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "%s: cache.ttl must not be negative", path)
	}
	return applyEnv(cfg)
}

func applyEnv(cfg *Config) (*Config, error) {
	if v := os.Getenv(envCDN); v != "" {
		cdn, err := importmap.ParseCDN(v)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidCDN, err, "%s", envCDN)
		}
		cfg.CDN = cdn
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// DefaultCacheDir returns the cache directory using the XDG convention
// (~/.cache/npmap/).
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
