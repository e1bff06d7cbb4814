// Package render composes moodboard export images.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/jmylchreest/curio/internal/colour"
)

// DefaultTrimTolerance treats channels within this distance of 255 as white.
const DefaultTrimTolerance = 10

// SheetOptions configures SwatchSheet.
type SheetOptions struct {
	Width        int
	SwatchHeight int
	Padding      int
	Background   color.Color
}

// DefaultSheetOptions returns an 800px wide sheet on white.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{
		Width:        800,
		SwatchHeight: 80,
		Padding:      20,
		Background:   color.White,
	}
}

func (o SheetOptions) withDefaults() SheetOptions {
	def := DefaultSheetOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.SwatchHeight <= 0 {
		o.SwatchHeight = def.SwatchHeight
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Background == nil {
		o.Background = def.Background
	}
	return o
}

// SwatchSheet draws img scaled to the sheet width with a row of colour
// swatches beneath it.
func SwatchSheet(img image.Image, colors []string, opts SheetOptions) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("image cannot be empty")
	}
	opts = opts.withDefaults()

	inner := opts.Width - 2*opts.Padding
	if inner < 1 {
		return nil, fmt.Errorf("sheet width %d leaves no room inside %dpx padding", opts.Width, opts.Padding)
	}

	swatches := make([]color.Color, len(colors))
	for i, hex := range colors {
		rgb, err := colour.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("swatch %d: %w", i, err)
		}
		swatches[i] = rgb.Color()
	}

	scaled := imaging.Resize(img, inner, 0, imaging.Lanczos)
	height := opts.Padding + scaled.Bounds().Dy() + opts.Padding
	if len(swatches) > 0 {
		height += opts.SwatchHeight + opts.Padding
	}

	sheet := imaging.New(opts.Width, height, opts.Background)
	sheet = imaging.Paste(sheet, scaled, image.Pt(opts.Padding, opts.Padding))

	if len(swatches) == 0 {
		return sheet, nil
	}

	y := opts.Padding + scaled.Bounds().Dy() + opts.Padding
	cell := inner / len(swatches)
	x := opts.Padding
	for i, c := range swatches {
		w := cell
		// The last swatch absorbs the rounding remainder.
		if i == len(swatches)-1 {
			w = opts.Padding + inner - x
		}
		if w <= 0 {
			continue
		}
		sheet = imaging.Paste(sheet, imaging.New(w, opts.SwatchHeight, c), image.Pt(x, y))
		x += w
	}
	return sheet, nil
}

// TrimWhitespace crops away borders whose pixels are all near white or fully
// transparent. An all-white image is returned unchanged.
func TrimWhitespace(img image.Image, tolerance int) image.Image {
	b := img.Bounds()
	limit := uint8(255 - min(max(tolerance, 0), 255))

	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 || (c.R > limit && c.G > limit && c.B > limit) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if minX > maxX {
		return img
	}
	return transform.Crop(img, image.Rect(minX, minY, maxX+1, maxY+1))
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
