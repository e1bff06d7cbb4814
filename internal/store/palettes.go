package store

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/jmylchreest/curio/internal/colour"
	"github.com/jmylchreest/curio/internal/util"
)

// MaxPaletteColors is the most colours a saved palette may hold.
const MaxPaletteColors = 6

var sixDigitHex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Palette is a named list of hex colours.
type Palette struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
	Sample bool     `json:"-"`
}

var samplePalettes = []Palette{
	{Name: "Ocean Breeze", Colors: []string{"#0077be", "#00a8cc", "#40e0d0", "#87ceeb", "#f0f8ff", "#e6f3ff"}},
	{Name: "Sunset Vibes", Colors: []string{"#ff6b35", "#f7931e", "#ffd23f", "#06ffa5", "#118ab2", "#073b4c"}},
	{Name: "Warm Retro Palette", Colors: []string{"#01204e", "#028391", "#f6dcac", "#faa968", "#f85525"}},
	{Name: "Classic 80s Retro", Colors: []string{"#270245", "#871a85", "#ff2941", "#feff38", "#fe18d3"}},
	{Name: "Vintage Americana", Colors: []string{"#272324", "#83b799", "#e2cd6d", "#c2b28f", "#e4d8b4", "#e86f68"}},
}

// SamplePalettes returns the built-in palettes.
func SamplePalettes() []Palette {
	out := make([]Palette, len(samplePalettes))
	for i, p := range samplePalettes {
		out[i] = Palette{Name: p.Name, Colors: slices.Clone(p.Colors), Sample: true}
	}
	return out
}

func isSampleName(name string) bool {
	return slices.ContainsFunc(samplePalettes, func(p Palette) bool { return p.Name == name })
}

// Palettes returns the samples followed by custom palettes. Custom palettes
// that reuse a sample name are hidden.
func (l *Library) Palettes() []Palette {
	out := SamplePalettes()
	for _, p := range l.data.Palettes {
		if isSampleName(p.Name) {
			continue
		}
		out = append(out, Palette{Name: p.Name, Colors: slices.Clone(p.Colors)})
	}
	return out
}

// Palette returns the palette with the given name.
func (l *Library) Palette(name string) (Palette, error) {
	for _, p := range l.Palettes() {
		if p.Name == name {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("palette %q: %w", name, ErrNotFound)
}

// SearchPalettes returns palettes whose name contains term, ignoring case.
// An empty term matches everything.
func (l *Library) SearchPalettes(term string) []Palette {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []Palette
	for _, p := range l.Palettes() {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// normalisePaletteColors validates 1..MaxPaletteColors six-digit hex colours,
// with or without a leading #, and returns them lowercase with #.
func normalisePaletteColors(colors []string) ([]string, error) {
	if len(colors) == 0 || len(colors) > MaxPaletteColors {
		return nil, fmt.Errorf("%w: need 1 to %d colours, got %d", ErrInvalidPalette, MaxPaletteColors, len(colors))
	}
	out := make([]string, len(colors))
	for i, c := range colors {
		hex := util.EnsureHash(c)
		if !sixDigitHex.MatchString(hex) {
			return nil, fmt.Errorf("%w: %q (expected 6 hex digits)", colour.ErrInvalidFormat, c)
		}
		norm, err := colour.NormaliseHex(hex)
		if err != nil {
			return nil, err
		}
		out[i] = norm
	}
	return out, nil
}

// AddPalette stores a custom palette.
func (l *Library) AddPalette(name string, colors []string) (Palette, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Palette{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidPalette)
	}
	if _, err := l.Palette(name); err == nil || isSampleName(name) {
		return Palette{}, fmt.Errorf("palette %q: %w", name, ErrDuplicateName)
	}

	norm, err := normalisePaletteColors(colors)
	if err != nil {
		return Palette{}, err
	}

	p := Palette{Name: name, Colors: norm}
	l.data.Palettes = append(l.data.Palettes, p)
	l.logger.Debug("added palette", "name", name, "colors", len(norm))
	return p, nil
}

// DeletePalette removes a custom palette.
func (l *Library) DeletePalette(name string) error {
	if isSampleName(name) {
		return fmt.Errorf("palette %q: %w", name, ErrSampleReadOnly)
	}
	idx := slices.IndexFunc(l.data.Palettes, func(p Palette) bool { return p.Name == name })
	if idx < 0 {
		return fmt.Errorf("palette %q: %w", name, ErrNotFound)
	}
	l.data.Palettes = slices.Delete(l.data.Palettes, idx, idx+1)
	l.logger.Debug("deleted palette", "name", name)
	return nil
}
