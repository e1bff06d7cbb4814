package imagegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{OutputDir: "/tmp/x"}},
		{name: "vertex", cfg: Config{OutputDir: "/tmp/x", Backend: BackendVertexAI}},
		{name: "bad backend", cfg: Config{OutputDir: "/tmp/x", Backend: "openai"}, wantErr: true},
		{name: "no output dir", cfg: Config{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (cfg.Model != DefaultModel && tt.cfg.Model == "") {
				t.Errorf("Validate() Model = %q, want default", cfg.Model)
			}
		})
	}
}

func TestPromptAndOutputPath(t *testing.T) {
	dir := t.TempDir()
	g, err := New(Config{OutputDir: dir}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := g.Prompt("  autumn forest "); !strings.HasPrefix(got, "autumn forest, moodboard") {
		t.Errorf("Prompt() = %q, want enhanced prompt", got)
	}

	p1 := g.OutputPath("autumn forest")
	if p1 != g.OutputPath("autumn forest") {
		t.Error("OutputPath() is not deterministic")
	}
	if p1 == g.OutputPath("winter lake") {
		t.Error("OutputPath() collides for different prompts")
	}
	if filepath.Dir(p1) != dir || filepath.Ext(p1) != ".png" {
		t.Errorf("OutputPath() = %q, want png inside %q", p1, dir)
	}

	raw, err := New(Config{OutputDir: dir, NoEnhance: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := raw.Prompt("autumn forest"); got != "autumn forest" {
		t.Errorf("Prompt() with NoEnhance = %q", got)
	}
}

func TestGenerateUsesCache(t *testing.T) {
	dir := t.TempDir()
	g, err := New(Config{OutputDir: dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cached := g.OutputPath("sea glass")
	if err := os.WriteFile(cached, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIKey, "")
	got, err := g.Generate(context.Background(), "sea glass")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != cached {
		t.Errorf("Generate() = %q, want cached %q", got, cached)
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	g, err := New(Config{OutputDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Generate(context.Background(), "sea glass"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Generate() error = %v, want ErrMissingAPIKey", err)
	}
	if _, err := g.Generate(context.Background(), "   "); err == nil {
		t.Error("Generate() with blank prompt expected error, got nil")
	}
}

func TestInlineImage(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "nil", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name: "text only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}}},
			}},
			wantErr: true,
		},
		{
			name: "image after text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{
					{Text: "here you go"},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("img")}},
				}}},
			}},
			want: "img",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inlineImage(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("inlineImage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("inlineImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratedImage(t *testing.T) {
	filtered := &genai.GenerateImagesResponse{GeneratedImages: []*genai.GeneratedImage{{RAIFilteredReason: "unsafe"}}}
	if _, err := generatedImage(filtered); err == nil {
		t.Error("generatedImage() of filtered image expected error, got nil")
	}

	ok := &genai.GenerateImagesResponse{GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: []byte("png")}}}}
	got, err := generatedImage(ok)
	if err != nil || string(got) != "png" {
		t.Errorf("generatedImage() = %q, %v, want png", got, err)
	}
}

func TestIsGeminiModel(t *testing.T) {
	if !isGeminiModel(DefaultModel) {
		t.Errorf("isGeminiModel(%q) = false", DefaultModel)
	}
	if isGeminiModel("imagen-4.0-generate-001") {
		t.Error("isGeminiModel(imagen) = true")
	}
}
