// Package colour provides colour conversion, harmony generation and palette
// extraction.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// RGB represents a colour as 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the colour in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// HSL returns the colour in HSL form.
func (rgb RGB) HSL() HSL {
	// Hex() always yields a valid #rrggbb string.
	hsl, _ := HexToHSL(rgb.Hex())
	return hsl
}

// Color converts the colour to an opaque color.RGBA.
func (rgb RGB) Color() color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Palette is an ordered set of colours, optionally with the number of sampled
// pixels each colour represents.
type Palette struct {
	Colors []RGB
	Counts []int
}

// NewPalette creates a palette from the given colours.
func NewPalette(colors []RGB) *Palette {
	return &Palette{Colors: colors}
}

// NewPaletteWithCounts creates a palette whose colours carry pixel counts.
// counts must be parallel to colors; missing entries are treated as zero.
func NewPaletteWithCounts(colors []RGB, counts []int) *Palette {
	c := make([]int, len(colors))
	copy(c, counts)
	return &Palette{Colors: colors, Counts: c}
}

// NewPaletteFromHex parses hex strings into a palette.
func NewPaletteFromHex(hexes []string) (*Palette, error) {
	colors := make([]RGB, 0, len(hexes))
	for _, h := range hexes {
		rgb, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		colors = append(colors, rgb)
	}
	return NewPalette(colors), nil
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// Count returns the pixel count recorded for the colour at index i, or 0.
func (p *Palette) Count(i int) int {
	if i < 0 || i >= len(p.Counts) {
		return 0
	}
	return p.Counts[i]
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexColors[i] = c.Hex()
	}
	return hexColors
}

// ColorJSON represents a colour in JSON output.
type ColorJSON struct {
	Hex   string `json:"hex"`
	RGB   RGB    `json:"rgb"`
	HSL   HSL    `json:"hsl"`
	Count int    `json:"count,omitempty"`
}

// PaletteJSON represents the palette in JSON output.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Colors []ColorJSON `json:"colors"`
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	colors := make([]ColorJSON, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = ColorJSON{
			Hex:   c.Hex(),
			RGB:   c,
			HSL:   c.HSL(),
			Count: p.Count(i),
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:  len(p.Colors),
		Colors: colors,
	}, "", "  ")
}

// String returns a human-readable listing of the palette.
func (p *Palette) String() string {
	if len(p.Colors) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours:\n", len(p.Colors))
	for i, c := range p.Colors {
		result += fmt.Sprintf("  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return result
}

// Get returns the colour at the specified index.
func (p *Palette) Get(index int) (RGB, error) {
	if index < 0 || index >= len(p.Colors) {
		return RGB{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Colors))
	}
	return p.Colors[index], nil
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, RGB) bool) {
	return func(yield func(int, RGB) bool) {
		for i, c := range p.Colors {
			if !yield(i, c) {
				return
			}
		}
	}
}
