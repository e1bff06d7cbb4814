package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Scheme identifies a colour harmony rule.
type Scheme int

// Harmony schemes in display order.
const (
	SchemeAnalogous Scheme = iota
	SchemeComplementary
	SchemeTriadic
	SchemeTetradic
	SchemeMonochromatic
	SchemeSoft
)

// SoftPaletteSize is the number of colours produced by GenerateSoftPalette.
const SoftPaletteSize = 5

var schemeNames = [...]string{
	SchemeAnalogous:     "Analogous",
	SchemeComplementary: "Complementary",
	SchemeTriadic:       "Triadic",
	SchemeTetradic:      "Tetradic",
	SchemeMonochromatic: "Monochromatic",
	SchemeSoft:          "Soft",
}

// AllSchemes returns every scheme in display order.
func AllSchemes() []Scheme {
	return []Scheme{
		SchemeAnalogous,
		SchemeComplementary,
		SchemeTriadic,
		SchemeTetradic,
		SchemeMonochromatic,
		SchemeSoft,
	}
}

// String returns the display label of the scheme.
func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// ParseScheme resolves a scheme label, ignoring case.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range AllSchemes() {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scheme: %s (valid: %s)", name, strings.Join(schemeNames[:], ", "))
}

// SchemeSet holds the colours generated for each scheme.
type SchemeSet struct {
	Base    string
	schemes [len(schemeNames)][]string
}

// Get returns the colours generated for a scheme.
func (ss *SchemeSet) Get(s Scheme) []string {
	if s < 0 || int(s) >= len(ss.schemes) {
		return nil
	}
	return ss.schemes[s]
}

// Schemes returns the schemes held by the set in display order.
func (ss *SchemeSet) Schemes() []Scheme {
	return AllSchemes()
}

// All returns an iterator over schemes and their colours in display order.
func (ss *SchemeSet) All() func(func(Scheme, []string) bool) {
	return func(yield func(Scheme, []string) bool) {
		for _, s := range AllSchemes() {
			if !yield(s, ss.schemes[s]) {
				return
			}
		}
	}
}

type schemeJSON struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// ToJSON renders the set as an ordered list of named schemes.
func (ss *SchemeSet) ToJSON() ([]byte, error) {
	out := struct {
		Base    string       `json:"base"`
		Schemes []schemeJSON `json:"schemes"`
	}{Base: ss.Base}
	for s, colours := range ss.All() {
		out.Schemes = append(out.Schemes, schemeJSON{Name: s.String(), Colors: colours})
	}
	return json.MarshalIndent(out, "", "  ")
}

// RotateHue adds offset degrees to h and wraps the result into [0,360).
func RotateHue(h, offset int) int {
	return ((h+offset)%360 + 360) % 360
}

// hslTransform describes a derived colour relative to a base HSL colour.
type hslTransform struct {
	hueOffset int
	satMul    float64
	lightMul  float64
}

func (t hslTransform) apply(base HSL) string {
	return HSLToHex(
		float64(RotateHue(base.H, t.hueOffset)),
		clamp(base.S*t.satMul, 0, 100),
		clamp(base.L*t.lightMul, 0, 100),
	)
}

var softTransforms = [SoftPaletteSize]hslTransform{
	{hueOffset: 0, satMul: 0.5, lightMul: 0.9},
	{hueOffset: 30, satMul: 0.4, lightMul: 0.85},
	{hueOffset: -30, satMul: 0.4, lightMul: 0.85},
	{hueOffset: 180, satMul: 0.3, lightMul: 0.88},
	{hueOffset: 0, satMul: 0.6, lightMul: 0.95},
}

// schemeTransforms lists the colours derived after the base colour for each
// base-anchored scheme.
var schemeTransforms = map[Scheme][]hslTransform{
	SchemeAnalogous: {
		{hueOffset: 30, satMul: 1, lightMul: 1},
		{hueOffset: -30, satMul: 1, lightMul: 1},
		{hueOffset: 0, satMul: 0.8, lightMul: 1.1},
	},
	SchemeComplementary: {
		{hueOffset: 180, satMul: 1, lightMul: 1},
	},
	SchemeTriadic: {
		{hueOffset: 120, satMul: 1, lightMul: 1},
		{hueOffset: 240, satMul: 1, lightMul: 1},
	},
	SchemeTetradic: {
		{hueOffset: 90, satMul: 1, lightMul: 1},
		{hueOffset: 180, satMul: 1, lightMul: 1},
		{hueOffset: 270, satMul: 1, lightMul: 1},
	},
	SchemeMonochromatic: {
		{hueOffset: 0, satMul: 0.7, lightMul: 0.7},
		{hueOffset: 0, satMul: 0.5, lightMul: 0.5},
		{hueOffset: 0, satMul: 0.3, lightMul: 1.2},
	},
}

// GenerateSoftPalette derives five muted pastel colours from a base colour.
func GenerateSoftPalette(baseHex string) ([]string, error) {
	base, err := HexToHSL(baseHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base colour: %w", err)
	}
	return softPalette(base), nil
}

func softPalette(base HSL) []string {
	out := make([]string, 0, SoftPaletteSize)
	for _, t := range softTransforms {
		out = append(out, t.apply(base))
	}
	return out
}

// GenerateAllSchemes derives every harmony scheme from a base colour.
// Each scheme except Soft starts with baseHex exactly as given.
func GenerateAllSchemes(baseHex string) (*SchemeSet, error) {
	base, err := HexToHSL(baseHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base colour: %w", err)
	}

	ss := &SchemeSet{Base: baseHex}
	for _, s := range AllSchemes() {
		if s == SchemeSoft {
			ss.schemes[s] = softPalette(base)
			continue
		}
		transforms := schemeTransforms[s]
		colours := make([]string, 0, len(transforms)+1)
		colours = append(colours, baseHex)
		for _, t := range transforms {
			colours = append(colours, t.apply(base))
		}
		ss.schemes[s] = colours
	}
	return ss, nil
}

// HueSliderColour returns the fully saturated mid-lightness colour for a hue,
// as used to seed schemes from a hue slider.
func HueSliderColour(h float64) string {
	return HSLToHex(h, 100, 50)
}
