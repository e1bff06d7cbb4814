package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/logging"
)

func newExportCmd(g *globalOptions) *cobra.Command {
	var compress bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export palettes and the moodboard as JSON",
		Long: `Export the library's palettes and moodboard as indented JSON.

Writes to stdout when no file is given. Files ending in .xz, or any
output with --xz, are xz-compressed.

Examples:
  curio export library.json
  curio export --xz > library.json.xz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return lib.Export(cmd.OutOrStdout(), compress)
			}

			path := args[0]
			compress = compress || strings.EqualFold(filepath.Ext(path), ".xz")
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304 - User-specified export path
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := errors.Join(lib.Export(f, compress), f.Close()); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("exported library", "path", path, "compressed", compress)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported library to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&compress, "xz", false, "compress the export with xz")
	return cmd
}

func newImportCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import palettes and the moodboard from an export",
		Long: `Import an export produced by 'curio export', plain or xz-compressed.

Imported custom palettes and moodboard items replace the current ones.
Palettes named like a built-in sample are skipped. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0]) // #nosec G304 - User-specified import path
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer f.Close()
				in = f
			}

			res, err := lib.Import(in)
			if err != nil {
				return err
			}
			if !res.PalettesChanged && !res.MoodChanged {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}
			if err := lib.Save(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d palettes and %d moodboard items\n", res.Palettes, res.MoodItems)
			if res.SkippedSamples > 0 {
				fmt.Fprintf(out, "Skipped %d sample palettes\n", res.SkippedSamples)
			}
			return nil
		},
	}
}
