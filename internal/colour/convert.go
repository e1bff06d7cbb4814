package colour

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidFormat is returned when a hex colour string is malformed.
	ErrInvalidFormat = errors.New("invalid colour format")

	// ErrOutOfRange is returned when an HSL component is NaN or infinite.
	ErrOutOfRange = errors.New("colour component out of range")
)

var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// HSL is a colour in hue/saturation/lightness form.
// H is in degrees [0,360), S and L are percentages [0,100] with one decimal.
type HSL struct {
	H int     `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// String returns the colour in CSS notation, e.g. "hsl(210, 100.0%, 40.0%)".
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %.1f%%, %.1f%%)", c.H, c.S, c.L)
}

// parseHex validates a #RGB or #RRGGBB string and decodes it.
func parseHex(hex string) (colorful.Color, error) {
	if !hexPattern.MatchString(hex) {
		return colorful.Color{}, fmt.Errorf("%w: %q (expected #RGB or #RRGGBB)", ErrInvalidFormat, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, hex, err)
	}
	return c, nil
}

// ParseHex decodes a #RGB or #RRGGBB string into 8-bit channels.
func ParseHex(hex string) (RGB, error) {
	c, err := parseHex(hex)
	if err != nil {
		return RGB{}, err
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// NormaliseHex returns the canonical lowercase 6-digit form of a hex colour.
func NormaliseHex(hex string) (string, error) {
	rgb, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// HexToHSL converts a #RGB or #RRGGBB colour to HSL.
// Saturation and lightness are rounded to one decimal place and hue to the
// nearest whole degree.
func HexToHSL(hex string) (HSL, error) {
	rgb, err := ParseHex(hex)
	if err != nil {
		return HSL{}, err
	}
	// Divide rather than use colorful's channels, which multiply by 1/255 and
	// drift off exact half-degree hues.
	r, g, b := float64(rgb.R)/255, float64(rgb.G)/255, float64(rgb.B)/255

	cmin := math.Min(r, math.Min(g, b))
	cmax := math.Max(r, math.Max(g, b))
	delta := cmax - cmin

	var h float64
	switch {
	case delta == 0:
		h = 0
	case cmax == r:
		h = math.Mod((g-b)/delta, 6)
	case cmax == g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}

	hue := int(roundHalfUp(h * 60))
	if hue < 0 {
		hue += 360
	}
	// Hues just below 360 round up to 360.
	hue %= 360

	l := (cmax + cmin) / 2
	s := 0.0
	if delta != 0 {
		s = delta / (1 - math.Abs(2*l-1))
	}

	return HSL{
		H: hue,
		S: roundTenth(s * 100),
		L: roundTenth(l * 100),
	}, nil
}

// HSLToHex converts hue (degrees), saturation and lightness (percent) to a
// lowercase #rrggbb string. Hue wraps modulo 360 and saturation/lightness are
// clamped to [0,100]; NaN components are treated as zero.
func HSLToHex(h, s, l float64) string {
	h = wrapHue(sanitise(h))
	s = clamp(sanitise(s), 0, 100) / 100
	l = clamp(sanitise(l), 0, 100) / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return colorful.Color{R: r + m, G: g + m, B: b + m}.Clamped().Hex()
}

// HSLToHexStrict behaves like HSLToHex but rejects NaN and infinite input.
func HSLToHexStrict(h, s, l float64) (string, error) {
	components := []struct {
		name  string
		value float64
	}{{"hue", h}, {"saturation", s}, {"lightness", l}}
	for _, c := range components {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return "", fmt.Errorf("%w: %s is %v", ErrOutOfRange, c.name, c.value)
		}
	}
	return HSLToHex(h, s, l), nil
}

// Hex returns the colour as a #rrggbb string.
func (c HSL) Hex() string {
	return HSLToHex(float64(c.H), c.S, c.L)
}

// roundHalfUp rounds to the nearest integer with halves rounded towards +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// roundTenth rounds to one decimal place using the exact decimal value of v,
// with exact ties rounded up.
func roundTenth(v float64) float64 {
	// A float64 lies exactly halfway between tenths only when it is an odd
	// multiple of 0.25, and FormatFloat would round those to even.
	if q := v * 4; q == math.Trunc(q) && math.Mod(q, 2) != 0 {
		return (math.Floor(v*10) + 1) / 10
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return math.Round(v*10) / 10
	}
	return r
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// -1e-20 + 360 rounds to 360 in float64.
	if h >= 360 {
		h = 0
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sanitise(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
