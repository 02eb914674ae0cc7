// Package cli implements the npmap command-line interface.
//
// The root command turns a package.json into an import map:
//
//	npmap [flags] PACKAGE
//
// PACKAGE is a local path or an http(s) URL. The import map is written to
// stdout (or --out); logs, warnings and status lines go to stderr so the
// output can be piped.
//
// # Commands
//
//   - cache: Inspect or clear the manifest cache
//   - serve: Run the HTTP API
//   - lookup: Resolve a specifier against an existing import map
//   - config: Show the effective configuration
//   - completion: Generate shell completion scripts
//
// # Logging
//
// Info-level logs are on by default; --verbose enables debug output. The
// logger is passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/npmap/internal/config"
	"github.com/matzehuels/npmap/pkg/buildinfo"
	"github.com/matzehuels/npmap/pkg/cache"
	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/httputil"
	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/manifest"
	"github.com/matzehuels/npmap/pkg/observability"
	"github.com/matzehuels/npmap/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "npmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stdout io.Writer
	stderr io.Writer

	// Set by persistent flags.
	verbose    bool
	configPath string

	// cfg is loaded before any command runs.
	cfg *config.Config
}

// New creates a CLI that writes results to stdout and diagnostics to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// PrintError reports err on stderr in its user-facing form.
func (c *CLI) PrintError(err error) {
	printError(c.stderr, "%s", apperr.UserMessage(err))
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	opts := &generateOpts{}

	root := &cobra.Command{
		Use:   "npmap [flags] PACKAGE",
		Short: "Generate a browser import map from package.json",
		Long: `npmap reads the dependencies of an npm package.json and writes an import map
that points every package at a CDN, ready for <script type="importmap">.

PACKAGE is a path or an http(s) URL. Dependencies declared as git, URL,
GitHub or local path references cannot be served by a CDN and are skipped
with a warning, as are @types packages.

Examples:
  npmap package.json
  npmap -c esm -d package.json -o importmap.json
  npmap https://raw.githubusercontent.com/user/repo/main/package.json`,
		Version:       buildinfo.Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	root.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/npmap/config.toml)")

	opts.register(root)
	root.SetGlobalNormalizationFunc(flagAliases)
	_ = root.RegisterFlagCompletionFunc("cdn", completeCDN)

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.lookupCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := &logHooks{logger: c.Logger}
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	for _, k := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", k, "file", cfg.Path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// flagAliases accepts --opt as a short spelling of --optional.
func flagAliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "opt" {
		name = "optional"
	}
	return pflag.NormalizedName(name)
}

func completeCDN(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return importmap.CDNNames(), cobra.ShellCompDirectiveNoFileComp
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner. The returned close function releases
// the cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, func() error) {
	store := c.newCache(ctx, noCache)
	client := httputil.NewClient(map[string]string{"User-Agent": buildinfo.UserAgent()})
	loader := manifest.NewLoader(client, store, c.cfg.Cache.TTL, c.Logger)
	return pipeline.NewRunner(loader, c.Logger), store.Close
}

// newCache picks the configured backend. Backends that fail to open are
// logged and replaced by a NullCache so a broken cache never blocks a run.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cc := c.cfg.Cache
	switch {
	case noCache || cc.Disabled:
		return cache.NewNullCache()
	case cc.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL, "")
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache()
		}
		return rc
	case cc.Dir == "":
		return cache.NewNullCache()
	}

	fc, err := cache.NewFileCache(cc.Dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", cc.Dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}
