package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/colour"
	"github.com/jmylchreest/curio/internal/store"
	"github.com/jmylchreest/curio/internal/util"
)

func newPaletteCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "palette",
		Aliases: []string{"palettes"},
		Short:   "Manage saved palettes",
		Long: `Manage the palettes saved in the library.

Five sample palettes are always available and cannot be deleted. Custom
palettes hold up to 6 colours and must have unique names.`,
	}

	cmd.AddCommand(
		newPaletteListCmd(g),
		newPaletteShowCmd(g),
		newPaletteAddCmd(g),
		newPaletteDeleteCmd(g),
		newPaletteSearchCmd(g),
	)
	return cmd
}

func newPaletteListCmd(g *globalOptions) *cobra.Command {
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List palettes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writePaletteTable(out, lib.Palettes(), g.showPreview(preview, out))
			return nil
		},
	}

	preview = addPreviewFlag(cmd)
	return cmd
}

func newPaletteSearchCmd(g *globalOptions) *cobra.Command {
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search palettes by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			found := lib.SearchPalettes(args[0])
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintf(out, "No palettes match %q\n", args[0])
				return nil
			}
			writePaletteTable(out, found, g.showPreview(preview, out))
			return nil
		},
	}

	preview = addPreviewFlag(cmd)
	return cmd
}

func newPaletteShowCmd(g *globalOptions) *cobra.Command {
	format := newChoice("text", "text", "json")
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the colours of a palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			p, err := lib.Palette(args[0])
			if err != nil {
				return err
			}

			pal, err := colour.NewPaletteFromHex(p.Colors)
			if err != nil {
				return fmt.Errorf("palette %q: %w", p.Name, err)
			}
			out := cmd.OutOrStdout()
			if format.String() == "json" {
				data, err := pal.ToJSON()
				if err != nil {
					return fmt.Errorf("failed to convert to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			show := g.showPreview(preview, out)
			fmt.Fprintln(out, p.Name)
			for _, c := range pal.Colors {
				if show {
					fmt.Fprintf(out, "  %s\n", colour.FormatColourWithLabel(c, c.HSL().String(), 0))
					continue
				}
				fmt.Fprintf(out, "  %s  %s\n", c.Hex(), c.HSL())
			}
			return nil
		},
	}

	cmd.Flags().VarP(format, "format", "f", "output format (text, json)")
	preview = addPreviewFlag(cmd)
	return cmd
}

func newPaletteAddCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <colour>...",
		Short: "Save a custom palette",
		Long: `Save a custom palette of 1 to 6 colours.

Colours are six-digit hex values with or without the leading #, given as
separate arguments or as a comma separated list.

Examples:
  curio palette add "Forest Floor" 2d4a22 6b8f47 c9b27c
  curio palette add Dusk '#1b1f3b,#53354a,#903749'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}

			var colors []string
			for _, a := range args[1:] {
				colors = append(colors, util.SplitList(a)...)
			}

			p, err := lib.AddPalette(strings.TrimSpace(args[0]), colors)
			if err != nil {
				return err
			}
			if err := lib.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved palette %q (%s)\n", p.Name, strings.Join(p.Colors, " "))
			return nil
		},
	}
}

func newPaletteDeleteCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a custom palette",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			if err := lib.DeletePalette(args[0]); err != nil {
				return err
			}
			if err := lib.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted palette %q\n", args[0])
			return nil
		},
	}
}

func writePaletteTable(w io.Writer, palettes []store.Palette, preview bool) {
	table := NewTable([]string{"NAME", "TYPE", "COLOURS"})
	for _, p := range palettes {
		kind := "custom"
		if p.Sample {
			kind = "sample"
		}
		colors := strings.Join(p.Colors, " ")
		if preview {
			colors = colour.SwatchRow(p.Colors, 0)
		}
		table.AddRow([]string{p.Name, kind, colors})
	}
	fmt.Fprint(w, table.Render())
}
