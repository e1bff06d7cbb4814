package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/colour"
	"github.com/jmylchreest/curio/internal/util"
)

type schemesOptions struct {
	scheme  string
	format  *choiceValue
	preview *choiceValue
}

func newSchemesCmd(g *globalOptions) *cobra.Command {
	opts := &schemesOptions{format: newChoice("text", "text", "json")}

	cmd := &cobra.Command{
		Use:   "schemes <hex>",
		Short: "Generate harmony schemes from a base colour",
		Long: `Generate colour harmony schemes from a base colour.

Schemes: analogous, complementary, triadic, tetradic, monochromatic
and soft. Names are matched case-insensitively.

Examples:
  # All schemes
  curio schemes 0066cc

  # One scheme with swatches
  curio schemes --scheme triadic --preview '#ff6b35'

  # JSON output
  curio schemes -f json 0066cc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemes(cmd, g, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.scheme, "scheme", "s", "", "only show this scheme")
	cmd.Flags().VarP(opts.format, "format", "f", "output format (text, json)")
	opts.preview = addPreviewFlag(cmd)
	return cmd
}

func runSchemes(cmd *cobra.Command, g *globalOptions, opts *schemesOptions, hex string) error {
	set, err := colour.GenerateAllSchemes(util.EnsureHash(hex))
	if err != nil {
		return err
	}

	schemes := colour.AllSchemes()
	if opts.scheme != "" {
		s, err := colour.ParseScheme(opts.scheme)
		if err != nil {
			return err
		}
		schemes = []colour.Scheme{s}
	}

	out := cmd.OutOrStdout()
	if opts.format.String() == "json" {
		if opts.scheme != "" {
			return writeJSON(out, struct {
				Name   string   `json:"name"`
				Colors []string `json:"colors"`
			}{schemes[0].String(), set.Get(schemes[0])})
		}
		data, err := set.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	preview := g.showPreview(opts.preview, out)
	for _, s := range schemes {
		writeColourRow(out, s.String(), set.Get(s), preview)
	}
	return nil
}

func newSoftCmd(g *globalOptions) *cobra.Command {
	format := newChoice("text", "text", "json")
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:   "soft <hex>",
		Short: "Generate a soft pastel palette from a base colour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			colors, err := colour.GenerateSoftPalette(util.EnsureHash(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format.String() == "json" {
				return writeJSON(out, colors)
			}
			if g.showPreview(preview, out) {
				fmt.Fprintln(out, colour.SwatchRow(colors, 0))
				return nil
			}
			for _, c := range colors {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}

	cmd.Flags().VarP(format, "format", "f", "output format (text, json)")
	preview = addPreviewFlag(cmd)
	return cmd
}

func newHueCmd(g *globalOptions) *cobra.Command {
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:   "hue <degrees>",
		Short: "Show the slider colour for a hue with its complementary and analogous schemes",
		Long: `Show the fully saturated, mid-lightness colour for a hue in degrees.
Values outside 0-359 wrap around.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: hue %q is not a number", colour.ErrInvalidFormat, args[0])
			}
			hex, err := colour.HSLToHexStrict(h, 100, 50)
			if err != nil {
				return err
			}
			set, err := colour.GenerateAllSchemes(hex)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			show := g.showPreview(preview, out)
			writeColourRow(out, "hue", []string{hex}, show)
			for _, s := range []colour.Scheme{colour.SchemeComplementary, colour.SchemeAnalogous} {
				writeColourRow(out, s.String(), set.Get(s), show)
			}
			return nil
		},
	}

	preview = addPreviewFlag(cmd)
	return cmd
}

// writeColourRow prints a labelled list of colours, as swatches when preview
// is set.
func writeColourRow(w io.Writer, label string, colors []string, preview bool) {
	if preview {
		fmt.Fprintf(w, "%-20s %s\n", label, colour.SwatchRow(colors, 0))
		return
	}
	fmt.Fprintf(w, "%-20s %s\n", label, strings.Join(colors, " "))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to convert to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
