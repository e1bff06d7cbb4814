package colour

import (
	"image"
	"image/color"
	"slices"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// quadrantImage returns a SampleSize square split into red, green, blue and
// white quadrants.
func quadrantImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SampleSize, SampleSize))
	half := SampleSize / 2
	for y := range SampleSize {
		for x := range SampleSize {
			var c color.NRGBA
			switch {
			case x < half && y < half:
				c = color.NRGBA{R: 255, A: 255}
			case y < half:
				c = color.NRGBA{G: 255, A: 255}
			case x < half:
				c = color.NRGBA{B: 255, A: 255}
			default:
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSampleImage(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "larger image", img: solidImage(640, 480, color.NRGBA{R: 10, A: 255})},
		{name: "smaller image", img: solidImage(20, 50, color.NRGBA{R: 10, A: 255})},
		{name: "exact size", img: quadrantImage()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleImage(tt.img)
			if want := SampleSize * SampleSize * 4; len(got) != want {
				t.Errorf("len(SampleImage()) = %d, want %d", len(got), want)
			}
		})
	}

	if got := SampleImage(nil); got != nil {
		t.Errorf("SampleImage(nil) = %d bytes, want nil", len(got))
	}
}

func TestMoodboardExtractor(t *testing.T) {
	ext, err := NewExtractor(AlgorithmMoodboard)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}

	tests := []struct {
		name       string
		img        image.Image
		want       []string
		wantCounts []int
	}{
		{
			name:       "solid colour",
			img:        solidImage(300, 120, color.NRGBA{R: 100, G: 150, B: 200, A: 255}),
			want:       padded("#6898c8"),
			wantCounts: []int{SampleSize * SampleSize},
		},
		{
			name:       "quadrants",
			img:        quadrantImage(),
			want:       padded("#ff0000", "#00ff00", "#0000ff", "#ffffff"),
			wantCounts: []int{10000, 10000, 10000, 10000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette, err := ext.Extract(tt.img, PaletteSize)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got := palette.ToHex(); !slices.Equal(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
			for i, want := range tt.wantCounts {
				if got := palette.Count(i); got != want {
					t.Errorf("Count(%d) = %d, want %d", i, got, want)
				}
			}
			if got := palette.Count(PaletteSize - 1); got != 0 {
				t.Errorf("padding Count() = %d, want 0", got)
			}
		})
	}

	if _, err := ext.Extract(quadrantImage(), 5); err == nil {
		t.Error("Extract() with count 5 expected error, got nil")
	}
	if _, err := ext.Extract(nil, PaletteSize); err == nil {
		t.Error("Extract(nil) expected error, got nil")
	}
}

func TestDominantExtractor(t *testing.T) {
	ext, err := NewExtractor(AlgorithmDominant)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}

	palette, err := ext.Extract(quadrantImage(), 2)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{"#ff0000", "#00ff00"}
	if got := palette.ToHex(); !slices.Equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}

	transparent := solidImage(SampleSize, SampleSize, color.NRGBA{R: 255})
	if _, err := ext.Extract(transparent, 4); err == nil {
		t.Error("Extract() of a transparent image expected error, got nil")
	}
}

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		alg     Algorithm
		wantErr bool
	}{
		{alg: AlgorithmMoodboard},
		{alg: AlgorithmDominant},
		{alg: "kmeans", wantErr: true},
		{alg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			ext, err := NewExtractor(tt.alg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExtractor(%q) error = %v, wantErr %v", tt.alg, err, tt.wantErr)
			}
			if !tt.wantErr && ext == nil {
				t.Errorf("NewExtractor(%q) returned nil extractor", tt.alg)
			}
		})
	}
}

func TestExtractorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ExtractorConfig
		wantErr bool
	}{
		{name: "default", config: DefaultExtractorConfig()},
		{name: "dominant", config: ExtractorConfig{Algorithm: AlgorithmDominant, ColorCount: 32}},
		{name: "unknown algorithm", config: ExtractorConfig{Algorithm: "median", ColorCount: 10}, wantErr: true},
		{name: "zero count", config: ExtractorConfig{Algorithm: AlgorithmDominant, ColorCount: 0}, wantErr: true},
		{name: "too many", config: ExtractorConfig{Algorithm: AlgorithmDominant, ColorCount: 257}, wantErr: true},
		{name: "moodboard fixed size", config: ExtractorConfig{Algorithm: AlgorithmMoodboard, ColorCount: 8}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAlgorithmSet(t *testing.T) {
	var alg Algorithm
	if err := alg.Set("Dominant"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if alg != AlgorithmDominant {
		t.Errorf("Set() = %q, want %q", alg, AlgorithmDominant)
	}
	if err := alg.Set("octree"); err == nil {
		t.Error("Set(octree) expected error, got nil")
	}
}
