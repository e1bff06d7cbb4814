package colour

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// SampleSize is the width and height of the grid images are resampled to
// before extraction.
const SampleSize = 200

// SampleImage resamples img onto a SampleSize×SampleSize grid and returns its
// non-premultiplied RGBA bytes, row by row.
func SampleImage(img image.Image) []byte {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	grid := imaging.Resize(img, SampleSize, SampleSize, imaging.Linear)
	return grid.Pix
}

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	// The count parameter specifies the number of colours to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmMoodboard is the greedy accent/diversity selection used for
	// moodboard swatches. It always yields PaletteSize colours.
	AlgorithmMoodboard Algorithm = "moodboard"

	// AlgorithmDominant ranks quantised colours purely by frequency.
	AlgorithmDominant Algorithm = "dominant"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmMoodboard,
		AlgorithmDominant,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// NewExtractor creates a new Extractor based on the specified algorithm.
func NewExtractor(alg Algorithm) (Extractor, error) {
	switch alg {
	case AlgorithmMoodboard:
		return &MoodboardExtractor{}, nil
	case AlgorithmDominant:
		return &DominantExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	Algorithm  Algorithm
	ColorCount int
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:  AlgorithmMoodboard,
		ColorCount: PaletteSize,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s", c.Algorithm)
	}
	if c.ColorCount < 1 {
		return fmt.Errorf("colour count must be at least 1, got %d", c.ColorCount)
	}
	if c.ColorCount > 256 {
		return fmt.Errorf("colour count too large: %d (maximum: 256)", c.ColorCount)
	}
	if c.Algorithm == AlgorithmMoodboard && c.ColorCount != PaletteSize {
		return fmt.Errorf("the %s algorithm always yields %d colours, got %d", c.Algorithm, PaletteSize, c.ColorCount)
	}
	return nil
}

// Set implements pflag.Value.
func (a *Algorithm) Set(s string) error {
	alg := Algorithm(strings.ToLower(s))
	if !IsValidAlgorithm(alg) {
		return fmt.Errorf("must be one of %v", ValidAlgorithms())
	}
	*a = alg
	return nil
}

// String implements pflag.Value.
func (a *Algorithm) String() string { return string(*a) }

// Type implements pflag.Value.
func (a *Algorithm) Type() string { return "algorithm" }

// MoodboardExtractor implements the moodboard swatch heuristic.
type MoodboardExtractor struct{}

// Extract resamples img and selects PaletteSize colours.
func (e *MoodboardExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count != PaletteSize {
		return nil, fmt.Errorf("moodboard extraction yields %d colours, got request for %d", PaletteSize, count)
	}

	ranked, err := rankColours(SampleImage(img))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(ranked))
	for _, c := range ranked {
		counts[c.hex] = c.count
	}

	hexes := selectPalette(ranked)
	colors := make([]RGB, len(hexes))
	weights := make([]int, len(hexes))
	for i, h := range hexes {
		// selectPalette only emits canonical hex strings.
		colors[i], _ = ParseHex(h)
		weights[i] = counts[h]
	}
	return NewPaletteWithCounts(colors, weights), nil
}

// DominantExtractor returns the most frequent quantised colours.
type DominantExtractor struct{}

// Extract resamples img and returns up to count colours by frequency.
func (e *DominantExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", count)
	}

	ranked, err := dominantColours(SampleImage(img), count)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("no opaque pixels found in image")
	}

	colors := make([]RGB, len(ranked))
	counts := make([]int, len(ranked))
	for i, c := range ranked {
		colors[i] = c.rgb
		counts[i] = c.count
	}
	return NewPaletteWithCounts(colors, counts), nil
}
