package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/pipeline"
)

// generateOpts holds the root command's flags.
// Values only take effect when set on the command line; otherwise the
// configuration file decides.
type generateOpts struct {
	cdn         importmap.CDN
	dev         bool
	peer        bool
	optional    bool
	out         string // output file (stdout if empty)
	refresh     bool   // bypass the manifest cache
	noCache     bool   // disable the manifest cache
	interactive bool   // pick the CDN in a TUI
}

func (o *generateOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.VarP(&o.cdn, "cdn", "c", "CDN provider: skypack, esm, jspm or unpkg")
	f.BoolVarP(&o.dev, "dev", "d", false, "include devDependencies")
	f.BoolVarP(&o.peer, "peer", "p", false, "include peerDependencies")
	f.BoolVar(&o.optional, "optional", false, "include optionalDependencies (alias --opt)")
	f.StringVarP(&o.out, "out", "o", "", "write the import map to FILE instead of stdout")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached remote manifests")
	f.BoolVar(&o.noCache, "no-cache", false, "do not read or write the manifest cache")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "choose the CDN interactively")
}

// pipelineOptions merges flags over the loaded configuration.
func (c *CLI) pipelineOptions(cmd *cobra.Command, source string, o *generateOpts) pipeline.Options {
	f := cmd.Flags()
	opts := pipeline.Options{
		Source:    source,
		CDN:       c.cfg.CDN,
		Selection: c.cfg.Selection(),
		Refresh:   o.refresh,
	}
	if f.Changed("cdn") {
		opts.CDN = o.cdn
	}
	if f.Changed("dev") {
		opts.Selection.Dev = o.dev
	}
	if f.Changed("peer") {
		opts.Selection.Peer = o.peer
	}
	if f.Changed("optional") {
		opts.Selection.Optional = o.optional
	}
	return opts
}

func (c *CLI) runGenerate(cmd *cobra.Command, source string, o *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts := c.pipelineOptions(cmd, source, o)

	if err := apperr.ValidateSource(source); err != nil {
		return err
	}
	if o.interactive {
		cdn, ok, err := pickCDN(ctx, opts.CDN, c.stderr)
		if err != nil {
			return err
		}
		if !ok {
			return context.Canceled
		}
		opts.CDN = cdn
	}

	runner, closeCache := c.newRunner(ctx, o.noCache)
	defer closeCache()

	var spin *Spinner
	if apperr.IsRemote(source) && !c.verbose && isTerminal(c.stderr) {
		spin = newSpinnerWithContext(ctx, c.stderr, "Fetching "+source)
		spin.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	logger.Debug("pipeline finished",
		"load", res.Stats.LoadTime,
		"resolve", res.Stats.ResolveTime,
		"cached", res.CacheHit)

	if o.out == "" {
		_, err := res.Document.WriteTo(c.stdout)
		return err
	}
	return c.writeFile(o.out, res)
}

func (c *CLI) writeFile(path string, res *pipeline.Result) error {
	var buf bytes.Buffer
	if _, err := res.Document.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "write %s", path)
	}

	printSuccess(c.stderr, "Wrote %s", pluralize(res.Stats.Resolved, "import"))
	printFile(c.stderr, path)
	printStats(c.stderr, res.Stats.Resolved, res.Stats.Skipped, res.CacheHit)
	printNextStep(c.stderr, "Check a specifier", fmt.Sprintf("%s lookup %s <package>", appName, path))
	return nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
