package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/colour"
	"github.com/jmylchreest/curio/internal/logging"
	"github.com/jmylchreest/curio/internal/util"
)

type convertOptions struct {
	hsl     string
	format  *choiceValue
	preview *choiceValue
}

func newConvertCmd(g *globalOptions) *cobra.Command {
	opts := &convertOptions{format: newChoice("text", "text", "json")}

	cmd := &cobra.Command{
		Use:   "convert [hex]",
		Short: "Convert colours between hex and HSL",
		Long: `Convert a hex colour to HSL, or an HSL triple to hex.

Hex colours may be given as #RGB or #RRGGBB; the leading # is optional
(quote it in shells that treat # as a comment).

Examples:
  # Hex to HSL
  curio convert 0066cc

  # HSL to hex
  curio convert --hsl 210,100,40

  # JSON output
  curio convert --format json '#ff6b35'`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.hsl != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.hsl, "hsl", "", "convert an h,s,l triple (degrees, percent, percent) to hex")
	cmd.Flags().VarP(opts.format, "format", "f", "output format (text, json)")
	opts.preview = addPreviewFlag(cmd)
	return cmd
}

type conversionJSON struct {
	Hex string     `json:"hex"`
	HSL colour.HSL `json:"hsl"`
}

func runConvert(cmd *cobra.Command, g *globalOptions, opts *convertOptions, args []string) error {
	logger := logging.FromContext(cmd.Context())
	out := cmd.OutOrStdout()

	var result conversionJSON
	if opts.hsl != "" {
		h, s, l, err := parseHSLTriple(opts.hsl)
		if err != nil {
			return err
		}
		hex, err := colour.HSLToHexStrict(h, s, l)
		if err != nil {
			return fmt.Errorf("invalid HSL %q: %w", opts.hsl, err)
		}
		// Report the HSL the hex actually encodes.
		hsl, err := colour.HexToHSL(hex)
		if err != nil {
			return err
		}
		result = conversionJSON{Hex: hex, HSL: hsl}
		logger.Debug("converted HSL to hex", "input", opts.hsl, "hex", hex)
	} else {
		hex, err := colour.NormaliseHex(util.EnsureHash(args[0]))
		if err != nil {
			return err
		}
		hsl, err := colour.HexToHSL(hex)
		if err != nil {
			return err
		}
		result = conversionJSON{Hex: hex, HSL: hsl}
		logger.Debug("converted hex to HSL", "hex", hex, "hsl", hsl.String())
	}

	if opts.format.String() == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	primary := result.HSL.String()
	if opts.hsl != "" {
		primary = result.Hex
	}
	if g.showPreview(opts.preview, out) {
		rgb, _ := colour.ParseHex(result.Hex)
		fmt.Fprintf(out, "%s %s\n", colour.ColourPreview(rgb, 0), primary)
		return nil
	}
	fmt.Fprintln(out, primary)
	return nil
}

// parseHSLTriple parses "h,s,l", tolerating an hsl() wrapper and % signs.
func parseHSLTriple(s string) (h, sat, light float64, err error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "hsl("), ")")
	parts := util.SplitList(strings.ReplaceAll(trimmed, "%", ""))
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: expected h,s,l but got %q", colour.ErrInvalidFormat, s)
	}

	vals := make([]float64, 3)
	for i, p := range parts {
		v, perr := strconv.ParseFloat(p, 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q is not a number", colour.ErrInvalidFormat, p)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}
