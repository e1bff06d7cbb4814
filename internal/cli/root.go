// Package cli provides the command-line interface for Curio.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/logging"
	"github.com/jmylchreest/curio/internal/store"
	"github.com/jmylchreest/curio/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose bool
	quiet   bool
	dataDir string
	noColor bool
}

// NewRootCmd builds the curio command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "curio",
		Short: "A colour conversion, harmony and moodboard toolkit",
		Long: `Curio converts colours between hex and HSL, generates harmony schemes
from a base colour, and extracts moodboard palettes from images.

Palettes and moodboard items are kept in a local library that can be
exported and imported as JSON (optionally xz-compressed).`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose && opts.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			logger := logging.New(logging.Options{
				Verbose: opts.verbose,
				Quiet:   opts.quiet,
				Output:  cmd.ErrOrStderr(),
				Color:   !opts.noColor,
			})
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "library directory (default: $"+store.EnvDataDir+" or $XDG_DATA_HOME/curio)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output and previews")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConvertCmd(opts),
		newSchemesCmd(opts),
		newSoftCmd(opts),
		newHueCmd(opts),
		newExtractCmd(opts),
		newPaletteCmd(opts),
		newMoodboardCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// openLibrary opens the library in --data-dir, or the default data directory.
func (o *globalOptions) openLibrary(cmd *cobra.Command) (*store.Library, error) {
	dir := o.dataDir
	if dir == "" {
		var err error
		if dir, err = store.DataDir(); err != nil {
			return nil, err
		}
	}
	return store.Open(dir, logging.FromContext(cmd.Context()))
}
