package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/curio/internal/colour"
	"github.com/jmylchreest/curio/internal/image"
	"github.com/jmylchreest/curio/internal/imagegen"
	"github.com/jmylchreest/curio/internal/logging"
	"github.com/jmylchreest/curio/internal/render"
	"github.com/jmylchreest/curio/internal/store"
	"github.com/jmylchreest/curio/internal/util/imagecache"
)

func newMoodboardCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "moodboard",
		Aliases: []string{"mood"},
		Short:   "Manage the moodboard",
		Long: `Manage moodboard images and their extracted palettes.

Each added image is copied into the library and analysed for a 10 colour
palette. Up to 15 custom images can be stored; sample items are read-only.`,
	}

	cmd.AddCommand(
		newMoodboardListCmd(g),
		newMoodboardAddCmd(g),
		newMoodboardDeleteCmd(g),
		newMoodboardGenerateCmd(g),
		newMoodboardExportImageCmd(g),
		newMoodboardInfoCmd(g),
	)
	return cmd
}

func newMoodboardListCmd(g *globalOptions) *cobra.Command {
	var preview *choiceValue

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List moodboard items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			items := lib.MoodItems()
			if len(items) == 0 {
				fmt.Fprintln(out, "The moodboard is empty. Add an image with: curio moodboard add <image>")
				return nil
			}

			show := g.showPreview(preview, out)
			table := NewTable([]string{"ID", "CAPTION", "TYPE", "ADDED", "COLOURS"})
			table.SetColumnMaxWidth(1, 30)
			for _, item := range items {
				kind := "custom"
				if item.Sample {
					kind = "sample"
				}
				added := ""
				if !item.AddedAt.IsZero() {
					added = item.AddedAt.Local().Format(time.DateOnly)
				}
				colors := fmt.Sprintf("%d", len(item.Colors))
				if show {
					colors = swatchStrip(item.Colors)
				}
				table.AddRow([]string{shortID(item.ID), item.Caption, kind, added, colors})
			}
			fmt.Fprint(out, table.Render())
			fmt.Fprintln(out, lib.StorageInfo())
			return nil
		},
	}

	preview = addPreviewFlag(cmd)
	return cmd
}

func newMoodboardInfoCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show moodboard storage usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			info := lib.StorageInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, info)
			fmt.Fprintf(out, "%d remaining\n", info.Remaining)
			if info.NearLimit {
				fmt.Fprintln(out, "Storage is nearly full; delete images to make room.")
			}
			fmt.Fprintf(out, "Library: %s\n", lib.Path())
			return nil
		},
	}
}

type moodAddOptions struct {
	caption string
}

func newMoodboardAddCmd(g *globalOptions) *cobra.Command {
	opts := &moodAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <image|url>",
		Short: "Add an image to the moodboard",
		Long: `Add an image to the moodboard and extract its 10 colour palette.

The image may be a local file or an HTTPS URL on a public host; remote images are cached
before being copied into the library. Images must be under 2 MiB.

Examples:
  curio moodboard add --caption "Harbour at dawn" harbour.jpg
  curio moodboard add https://example.com/texture.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}

			src := args[0]
			if imagecache.IsURL(src) {
				cacheDir, err := imagecache.DefaultCacheDir()
				if err != nil {
					return err
				}
				logging.FromContext(cmd.Context()).Debug("downloading image", "url", src)
				src, err = imagecache.DownloadAndCache(cmd.Context(), src, imagecache.CacheOptions{
					CacheDir: cacheDir,
					MaxBytes: image.MaxUploadBytes,
				})
				if err != nil {
					return fmt.Errorf("failed to download image: %w", err)
				}
			}

			item, err := addMoodImage(cmd.Context(), lib, src, opts.caption)
			if err != nil {
				return err
			}
			printMoodItem(cmd.OutOrStdout(), "Added", item)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.caption, "caption", "", "caption shown with the image")
	return cmd
}

type moodGenerateOptions struct {
	caption string
	cfg     imagegen.Config
	backend string
}

func newMoodboardGenerateCmd(g *globalOptions) *cobra.Command {
	opts := &moodGenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate an image from a prompt and add it to the moodboard",
		Long: `Generate an image with Google's Gen AI models and add it to the moodboard.

Requires the ` + imagegen.EnvAPIKey + ` environment variable for the Gemini API
backend. Generated images are cached, so repeating a prompt reuses the
previous image unless --overwrite is given.

Examples:
  curio moodboard generate "misty pine forest at dawn"
  curio moodboard generate --model imagen-4.0-generate-001 --aspect-ratio 16:9 "desert dunes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			// Check capacity before spending an API call.
			if lib.StorageInfo().Remaining == 0 {
				return fmt.Errorf("%w: maximum %d images; delete some to add new ones", store.ErrLimitReached, store.MaxCustomItems)
			}

			prompt := strings.Join(args, " ")
			cfg := opts.cfg
			cfg.Backend = imagegen.Backend(opts.backend)
			if cfg.OutputDir == "" {
				if cfg.OutputDir, err = imagecache.DefaultCacheDir(); err != nil {
					return err
				}
			}

			gen, err := imagegen.New(cfg, logging.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			path, err := gen.Generate(cmd.Context(), prompt)
			if err != nil {
				return err
			}

			caption := opts.caption
			if caption == "" {
				caption = prompt
			}
			item, err := addMoodImage(cmd.Context(), lib, path, caption)
			if err != nil {
				return err
			}
			printMoodItem(cmd.OutOrStdout(), "Generated", item)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.caption, "caption", "", "caption (default: the prompt)")
	cmd.Flags().StringVar(&opts.cfg.Model, "model", imagegen.DefaultModel, "model to use (gemini-* or imagen-*)")
	cmd.Flags().StringVar(&opts.backend, "backend", string(imagegen.BackendGeminiAPI), "API backend (gemini-api, vertex-ai)")
	cmd.Flags().StringVar(&opts.cfg.AspectRatio, "aspect-ratio", imagegen.DefaultAspectRatio, "aspect ratio (1:1, 3:4, 4:3, 9:16, 16:9)")
	cmd.Flags().StringVar(&opts.cfg.OutputDir, "output-dir", "", "directory for generated images (default: image cache)")
	cmd.Flags().BoolVar(&opts.cfg.Overwrite, "overwrite", false, "regenerate even if a cached image exists")
	cmd.Flags().BoolVar(&opts.cfg.NoEnhance, "no-enhance", false, "send the prompt without moodboard styling")
	return cmd
}

func newMoodboardDeleteCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a custom moodboard item",
		Long:    `Delete a custom moodboard item. The ID may be shortened to any unique prefix.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			item, err := lib.MoodItem(args[0])
			if err != nil {
				return err
			}
			if err := lib.DeleteMoodItem(item.ID); err != nil {
				return err
			}
			if err := lib.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted moodboard item %s\n", shortID(item.ID))
			return nil
		},
	}
}

type moodExportOptions struct {
	output string
	width  int
	noTrim bool
}

func newMoodboardExportImageCmd(g *globalOptions) *cobra.Command {
	opts := &moodExportOptions{}

	cmd := &cobra.Command{
		Use:   "export-image <id>",
		Short: "Export a moodboard item as a PNG with its palette",
		Long: `Render a moodboard item as a PNG: the image with a row of its palette
swatches underneath, trimmed of surrounding white space.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := g.openLibrary(cmd)
			if err != nil {
				return err
			}
			item, err := lib.MoodItem(args[0])
			if err != nil {
				return err
			}
			if item.ImagePath == "" {
				return fmt.Errorf("moodboard item %s has no image", shortID(item.ID))
			}

			img, err := image.NewFileLoader().Load(item.ImagePath)
			if err != nil {
				return fmt.Errorf("failed to load image: %w", err)
			}

			sheetOpts := render.DefaultSheetOptions()
			if opts.width > 0 {
				sheetOpts.Width = opts.width
			}
			sheet, err := render.SwatchSheet(img, item.Colors, sheetOpts)
			if err != nil {
				return err
			}

			out := opts.output
			if out == "" {
				out = exportFilename(item, time.Now())
			}
			if opts.noTrim {
				err = render.SavePNG(out, sheet)
			} else {
				err = render.SavePNG(out, render.TrimWhitespace(sheet, render.DefaultTrimTolerance))
			}
			if err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("exported moodboard image", "id", item.ID, "path", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG path (default: curio-<caption>-<timestamp>.png)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "sheet width in pixels (default 800)")
	cmd.Flags().BoolVar(&opts.noTrim, "no-trim", false, "keep the white border")
	return cmd
}

// addMoodImage copies a local image into the library, extracts its palette
// and saves the new item.
func addMoodImage(ctx context.Context, lib *store.Library, path, caption string) (store.MoodItem, error) {
	logger := logging.FromContext(ctx)

	if info := lib.StorageInfo(); info.Remaining == 0 {
		return store.MoodItem{}, fmt.Errorf("%w: maximum %d images; delete some to add new ones", store.ErrLimitReached, info.Limit)
	}
	if err := image.ValidateImagePath(path); err != nil {
		return store.MoodItem{}, fmt.Errorf("invalid image path: %w", err)
	}
	if err := image.CheckSize(path); err != nil {
		return store.MoodItem{}, err
	}

	img, err := image.NewFileLoader().Load(path)
	if err != nil {
		return store.MoodItem{}, fmt.Errorf("failed to load image: %w", err)
	}
	palette, err := (&colour.MoodboardExtractor{}).Extract(img, colour.PaletteSize)
	if err != nil {
		return store.MoodItem{}, fmt.Errorf("failed to extract colours: %w", err)
	}
	logger.Debug("extracted moodboard palette", "path", path, "colours", palette.ToHex())

	f, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return store.MoodItem{}, fmt.Errorf("failed to open image file: %w", err)
	}
	stored, err := lib.StoreImage(f, filepath.Ext(path))
	f.Close()
	if err != nil {
		return store.MoodItem{}, err
	}

	item, err := lib.AddMoodItem(store.MoodItem{
		Caption:   strings.TrimSpace(caption),
		ImagePath: stored,
		Colors:    palette.ToHex(),
	})
	if err != nil {
		os.Remove(stored)
		return store.MoodItem{}, err
	}
	if err := lib.Save(); err != nil {
		if derr := lib.DeleteMoodItem(item.ID); derr != nil {
			os.Remove(stored)
		}
		return store.MoodItem{}, err
	}

	if info := lib.StorageInfo(); info.NearLimit {
		logger.Warn("moodboard storage nearly full", "used", info.Custom, "limit", info.Limit)
	}
	return item, nil
}

func printMoodItem(w io.Writer, verb string, item store.MoodItem) {
	label := shortID(item.ID)
	if item.Caption != "" {
		label += " (" + item.Caption + ")"
	}
	fmt.Fprintf(w, "%s moodboard item %s\n", verb, label)
	fmt.Fprintln(w, strings.Join(item.Colors, " "))
}

// swatchStrip renders colours as adjacent two-cell blocks.
func swatchStrip(colors []string) string {
	var b strings.Builder
	for _, c := range colors {
		if rgb, err := colour.ParseHex(c); err == nil {
			b.WriteString(colour.ColourPreview(rgb, 2))
		}
	}
	return b.String()
}

// shortID returns the first 8 characters of a moodboard ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// exportFilename names an exported sheet after the caption, or the short ID
// when there is none.
func exportFilename(item store.MoodItem, now time.Time) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(item.Caption, "-"), "-.")
	if name == "" {
		name = shortID(item.ID)
	}
	return fmt.Sprintf("curio-%s-%d.png", name, now.Unix())
}
