package colour

import (
	"fmt"
	"slices"
)

const (
	// PaletteSize is the number of colours ExtractPaletteColors returns.
	PaletteSize = 10

	// PaddingColour fills the palette when an image lacks enough colours.
	PaddingColour = "#cccccc"

	// alphaCutoff is the minimum alpha for a pixel to be counted.
	alphaCutoff = 125

	// quantStep merges near-identical shades before counting.
	quantStep = 8

	maxWarmAccents     = 2
	minWarmOccurrences = 3
)

// diversityThresholds are tried in order, each pass accepting colours whose
// distance to every selected colour exceeds the threshold.
var diversityThresholds = []int{80, 60, 45}

// colourCount is a quantised colour and the number of pixels mapped to it.
type colourCount struct {
	rgb   RGB
	hex   string
	count int
}

// ManhattanDistance returns |Δr|+|Δg|+|Δb| between two colours.
func ManhattanDistance(a, b RGB) int {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// quantise rounds v to the nearest multiple of quantStep, capped at 255.
func quantise(v uint8) uint8 {
	q := (int(v) + quantStep/2) / quantStep * quantStep
	return uint8(min(q, 255))
}

// rankColours counts quantised opaque pixels in an RGBA buffer and returns
// the distinct colours ordered by descending count. Ties keep the order in
// which colours first appear in the buffer.
func rankColours(pixels []byte) ([]colourCount, error) {
	if len(pixels)%4 != 0 {
		return nil, fmt.Errorf("%w: pixel buffer length %d is not a multiple of 4", ErrInvalidFormat, len(pixels))
	}

	index := make(map[RGB]int)
	var ranked []colourCount
	for i := 0; i < len(pixels); i += 4 {
		if pixels[i+3] < alphaCutoff {
			continue
		}
		rgb := RGB{R: quantise(pixels[i]), G: quantise(pixels[i+1]), B: quantise(pixels[i+2])}
		if idx, ok := index[rgb]; ok {
			ranked[idx].count++
			continue
		}
		index[rgb] = len(ranked)
		ranked = append(ranked, colourCount{rgb: rgb, hex: rgb.Hex(), count: 1})
	}

	slices.SortStableFunc(ranked, func(a, b colourCount) int {
		return b.count - a.count
	})
	return ranked, nil
}

// isWarmAccent matches gold and orange tones: bright, red-leaning, low blue.
func isWarmAccent(c colourCount) bool {
	r, g, b := int(c.rgb.R), int(c.rgb.G), int(c.rgb.B)
	brightness := float64(r+g+b) / 3
	return brightness > 120 &&
		r > 160 &&
		g > 130 &&
		b < 140 &&
		r >= g &&
		c.count >= minWarmOccurrences
}

// selection tracks the colours chosen so far.
type selection struct {
	colours []RGB
	hexes   []string
	seen    map[string]bool
}

func (s *selection) add(c colourCount) {
	s.colours = append(s.colours, c.rgb)
	s.hexes = append(s.hexes, c.hex)
	s.seen[c.hex] = true
}

func (s *selection) full() bool {
	return len(s.hexes) >= PaletteSize
}

// farFrom reports whether c is more than threshold away from every selected
// colour. An empty selection accepts anything.
func (s *selection) farFrom(c RGB, threshold int) bool {
	for _, sel := range s.colours {
		if ManhattanDistance(sel, c) <= threshold {
			return false
		}
	}
	return true
}

// ExtractPaletteColors picks PaletteSize representative colours from an RGBA
// pixel buffer (4 bytes per pixel, non-premultiplied).
//
// Selection is a greedy heuristic rather than a clustering: up to two warm
// accents first, then the most frequent colour, then colours that are far from
// everything already chosen (thresholds 80, 60, 45 in frequency order), and
// finally padding from the frequency list or PaddingColour.
func ExtractPaletteColors(pixels []byte) ([]string, error) {
	ranked, err := rankColours(pixels)
	if err != nil {
		return nil, err
	}
	return selectPalette(ranked), nil
}

func selectPalette(ranked []colourCount) []string {
	sel := &selection{seen: make(map[string]bool)}

	warm := 0
	for _, c := range ranked {
		if warm == maxWarmAccents {
			break
		}
		if !isWarmAccent(c) {
			continue
		}
		warm++
		if !sel.seen[c.hex] {
			sel.add(c)
		}
	}

	if len(ranked) > 0 && !sel.seen[ranked[0].hex] {
		sel.add(ranked[0])
	}

	for _, threshold := range diversityThresholds {
		if sel.full() {
			break
		}
		for _, c := range ranked {
			if sel.full() {
				break
			}
			if sel.seen[c.hex] {
				continue
			}
			if sel.farFrom(c.rgb, threshold) {
				sel.add(c)
			}
		}
	}

	for !sel.full() {
		n := len(sel.hexes)
		if n < len(ranked) && !sel.seen[ranked[n].hex] {
			sel.add(ranked[n])
			continue
		}
		sel.hexes = append(sel.hexes, PaddingColour)
		sel.colours = append(sel.colours, RGB{R: 0xcc, G: 0xcc, B: 0xcc})
	}

	return sel.hexes
}

// dominantColours returns up to count colours by raw frequency.
func dominantColours(pixels []byte, count int) ([]colourCount, error) {
	ranked, err := rankColours(pixels)
	if err != nil {
		return nil, err
	}
	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked, nil
}
