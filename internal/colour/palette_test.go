package colour

import (
	"strings"
	"testing"
)

var primaries = []RGB{
	{R: 255, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
}

func TestNewPalette(t *testing.T) {
	palette := NewPalette(primaries)

	if palette == nil {
		t.Fatal("NewPalette returned nil")
	}

	if palette.Len() != 3 {
		t.Errorf("Expected palette length 3, got %d", palette.Len())
	}
}

func TestNewPaletteFromHex(t *testing.T) {
	tests := []struct {
		name    string
		hexes   []string
		want    int
		wantErr bool
	}{
		{
			name:  "empty",
			hexes: []string{},
			want:  0,
		},
		{
			name:  "mixed forms",
			hexes: []string{"#f00", "#00FF00", "#0000ff"},
			want:  3,
		},
		{
			name:    "missing hash",
			hexes:   []string{"#ff0000", "00ff00"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette, err := NewPaletteFromHex(tt.hexes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPaletteFromHex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && palette.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", palette.Len(), tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{
			name: "red",
			rgb:  RGB{R: 255, G: 0, B: 0},
			want: "#ff0000",
		},
		{
			name: "black",
			rgb:  RGB{R: 0, G: 0, B: 0},
			want: "#000000",
		},
		{
			name: "grey",
			rgb:  RGB{R: 128, G: 128, B: 128},
			want: "#808080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rgb.Hex()
			if got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
			back, err := ParseHex(got)
			if err != nil || back != tt.rgb {
				t.Errorf("ParseHex(%s) = %+v, %v, want %+v", got, back, err, tt.rgb)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	rgb := RGB{R: 0, G: 102, B: 204}
	if got, want := rgb.String(), "rgb(0, 102, 204)"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
	if got, want := rgb.HSL(), (HSL{H: 210, S: 100, L: 40}); got != want {
		t.Errorf("HSL() = %+v, want %+v", got, want)
	}
}

func TestPaletteToHex(t *testing.T) {
	palette := NewPalette(primaries)
	hexColors := palette.ToHex()

	want := []string{"#ff0000", "#00ff00", "#0000ff"}

	if len(hexColors) != len(want) {
		t.Fatalf("ToHex() returned %d colors, want %d", len(hexColors), len(want))
	}

	for i, got := range hexColors {
		if got != want[i] {
			t.Errorf("ToHex()[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestPaletteCounts(t *testing.T) {
	palette := NewPaletteWithCounts(primaries, []int{7, 3})

	tests := []struct {
		index int
		want  int
	}{
		{index: 0, want: 7},
		{index: 1, want: 3},
		{index: 2, want: 0},
		{index: -1, want: 0},
		{index: 9, want: 0},
	}

	for _, tt := range tests {
		if got := palette.Count(tt.index); got != tt.want {
			t.Errorf("Count(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestPaletteToJSON(t *testing.T) {
	palette := NewPaletteWithCounts(primaries[:2], []int{12, 0})
	jsonBytes, err := palette.ToJSON()

	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	jsonStr := string(jsonBytes)
	expectedStrings := []string{
		`"count": 2`,
		`"hex": "#ff0000"`,
		`"hex": "#00ff00"`,
		`"r": 255`,
		`"g": 255`,
		`"h": 120`,
		`"count": 12`,
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(jsonStr, expected) {
			t.Errorf("ToJSON() output missing expected string: %s", expected)
		}
	}
	// Zero counts are omitted.
	if strings.Count(jsonStr, `"count"`) != 2 {
		t.Errorf("ToJSON() = %s, want exactly two count fields", jsonStr)
	}
}

func TestPaletteGet(t *testing.T) {
	palette := NewPalette(primaries)

	tests := []struct {
		name    string
		index   int
		wantErr bool
	}{
		{
			name:  "valid index 0",
			index: 0,
		},
		{
			name:  "valid index 2",
			index: 2,
		},
		{
			name:    "negative index",
			index:   -1,
			wantErr: true,
		},
		{
			name:    "index out of bounds",
			index:   3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := palette.Get(tt.index)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != primaries[tt.index] {
				t.Errorf("Get(%d) = %+v, want %+v", tt.index, got, primaries[tt.index])
			}
		})
	}
}

func TestPaletteAll(t *testing.T) {
	palette := NewPalette(primaries)

	count := 0
	for i, c := range palette.All() {
		if i != count {
			t.Errorf("Expected index %d, got %d", count, i)
		}
		if c != primaries[i] {
			t.Errorf("Colour at index %d = %+v, want %+v", i, c, primaries[i])
		}
		count++
	}

	if count != 3 {
		t.Errorf("Expected to iterate over 3 colors, got %d", count)
	}
}

func TestPaletteString(t *testing.T) {
	if got := NewPalette(nil).String(); got != "Empty palette" {
		t.Errorf("String() = %q, want %q", got, "Empty palette")
	}

	str := NewPalette(primaries).String()
	for _, want := range []string{"3 colours", "#ff0000", "rgb(0, 0, 255)"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, missing %q", str, want)
		}
	}
}
