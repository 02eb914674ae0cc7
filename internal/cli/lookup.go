package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/importmap"
)

// lookupCommand creates the "lookup" command that resolves a specifier
// against an import map file.
func (c *CLI) lookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup IMPORTMAP SPECIFIER",
		Short: "Resolve a module specifier against an import map",
		Long: `Print the URL a browser would load for SPECIFIER.

IMPORTMAP is a file written by npmap, or - for stdin. Subpaths such as
react/jsx-runtime resolve through their package entry.

Examples:
  npmap lookup importmap.json react
  npmap package.json | npmap lookup - lodash/fp`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readImportMap(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			u, ok := doc.Lookup(args[1])
			if !ok {
				return apperr.New(apperr.ErrCodeNotFound, "%s is not mapped in %s", args[1], args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
}

func readImportMap(stdin io.Reader, path string) (*importmap.Document, error) {
	if path == "-" {
		return importmap.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "import map %s not found", path)
		}
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return importmap.Parse(f)
}
