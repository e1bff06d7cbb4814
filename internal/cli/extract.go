package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/colour"
	"github.com/jmylchreest/curio/internal/image"
	"github.com/jmylchreest/curio/internal/logging"
	"github.com/jmylchreest/curio/internal/util/imagecache"
)

type extractOptions struct {
	colours   int
	algorithm colour.Algorithm
	format    *choiceValue
	output    string
	preview   *choiceValue
}

func newExtractCmd(g *globalOptions) *cobra.Command {
	defaults := colour.DefaultExtractorConfig()
	opts := &extractOptions{
		colours:   defaults.ColorCount,
		algorithm: defaults.Algorithm,
		format:    newChoice("hex", "hex", "rgb", "json"),
	}

	cmd := &cobra.Command{
		Use:   "extract <image>...",
		Short: "Extract a colour palette from images",
		Long: `Extract a colour palette from one or more images.

The moodboard algorithm samples the image on a 200x200 grid, favours up
to two warm accents and the most frequent colour, then fills the palette
with colours that are far apart from each other. It always yields 10
colours. The dominant algorithm simply ranks quantised colours by
frequency.

Arguments may be image files, directories (scanned for images) or
HTTPS URLs on public hosts. Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Moodboard palette from an image
  curio extract photo.jpg

  # Six most frequent colours as RGB with swatches
  curio extract -a dominant -c 6 -f rgb --preview photo.png

  # Every image in a directory, as JSON
  curio extract -f json -o palettes.json ~/Pictures/moodboard`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, g, opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.colours, "colours", "c", defaults.ColorCount, "number of colours for the dominant algorithm (1-256)")
	cmd.Flags().VarP(&opts.algorithm, "algorithm", "a", "extraction algorithm (moodboard, dominant)")
	cmd.Flags().VarP(opts.format, "format", "f", "output format (hex, rgb, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	opts.preview = addPreviewFlag(cmd)
	return cmd
}

type extractedPalette struct {
	Image   string          `json:"image"`
	Palette json.RawMessage `json:"palette"`
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, g *globalOptions, opts *extractOptions, args []string) error {
	logger := logging.FromContext(cmd.Context())

	config := colour.ExtractorConfig{
		Algorithm:  opts.algorithm,
		ColorCount: opts.colours,
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := image.ExpandImagePaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", strings.Join(args, ", "))
	}

	extractor, err := colour.NewExtractor(config.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	loader := image.NewSmartLoader(cmd.Context())
	showPreview := opts.output == "" && g.showPreview(opts.preview, cmd.OutOrStdout())

	var (
		text    strings.Builder
		results []extractedPalette
	)
	for _, path := range paths {
		if !imagecache.IsURL(path) {
			if err := image.ValidateImagePath(path); err != nil {
				return fmt.Errorf("invalid image path: %w", err)
			}
		}

		logger.Debug("loading image", "path", path)
		img, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		bounds := img.Bounds()
		logger.Debug("image loaded", "path", path, "width", bounds.Dx(), "height", bounds.Dy())

		palette, err := extractor.Extract(img, config.ColorCount)
		if err != nil {
			return fmt.Errorf("failed to extract colours from %s: %w", path, err)
		}
		logger.Info("extracted palette", "path", path, "algorithm", config.Algorithm, "colours", palette.Len())

		if opts.format.String() == "json" {
			data, err := palette.ToJSON()
			if err != nil {
				return fmt.Errorf("failed to convert to JSON: %w", err)
			}
			results = append(results, extractedPalette{Image: path, Palette: data})
			continue
		}

		if len(paths) > 1 {
			fmt.Fprintf(&text, "# %s\n", path)
		}
		text.WriteString(formatPalette(palette, opts.format.String(), showPreview))
	}

	output := text.String()
	if opts.format.String() == "json" {
		var v any = results
		if len(results) == 1 {
			v = results[0].Palette
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		output = string(data) + "\n"
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("wrote palette", "path", opts.output)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// formatPalette renders a palette as hex or RGB lines.
func formatPalette(palette *colour.Palette, format string, showPreview bool) string {
	var b strings.Builder
	for _, c := range palette.Colors {
		value := c.Hex()
		if format == "rgb" {
			value = c.String()
		}
		if showPreview {
			b.WriteString(colour.ColourPreview(c, 0) + " ")
		}
		b.WriteString(value + "\n")
	}
	return b.String()
}
