// Package imagegen generates moodboard images from text prompts with Google's
// Gen AI models.
package imagegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"
)

const (
	// EnvAPIKey holds the Gemini API key.
	EnvAPIKey = "GOOGLE_API_KEY"

	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gemini-2.5-flash-image"

	// DefaultAspectRatio suits a moodboard tile.
	DefaultAspectRatio = "1:1"

	// moodboardEnhancement steers prompts towards colour-rich reference images.
	moodboardEnhancement = ", moodboard reference photograph, rich and cohesive colour palette, no text, no borders"
)

// Backend selects the Gen AI service.
type Backend string

const (
	BackendGeminiAPI Backend = "gemini-api"
	BackendVertexAI  Backend = "vertex-ai"
)

// ErrMissingAPIKey is returned when the Gemini API backend has no key.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable is required")

// Config configures a Generator.
type Config struct {
	Model       string
	Backend     Backend
	AspectRatio string
	// OutputDir receives generated images.
	OutputDir string
	// Overwrite regenerates even when a cached image exists.
	Overwrite bool
	// NoEnhance sends the prompt verbatim.
	NoEnhance bool
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Backend == "" {
		c.Backend = BackendGeminiAPI
	}
	if c.AspectRatio == "" {
		c.AspectRatio = DefaultAspectRatio
	}
	if c.Backend != BackendGeminiAPI && c.Backend != BackendVertexAI {
		return fmt.Errorf("unknown backend %q (valid: %s, %s)", c.Backend, BackendGeminiAPI, BackendVertexAI)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	return nil
}

// Generator turns prompts into image files.
type Generator struct {
	cfg    Config
	logger hclog.Logger
}

// New creates a Generator.
func New(cfg Config, logger hclog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Generator{cfg: cfg, logger: logger.Named("imagegen")}, nil
}

// Prompt returns the text sent to the model for a user prompt.
func (g *Generator) Prompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if g.cfg.NoEnhance {
		return prompt
	}
	return prompt + moodboardEnhancement
}

// OutputPath returns where the image for prompt is written. The name is
// derived from the model, aspect ratio and prompt, so identical requests
// reuse the same file.
func (g *Generator) OutputPath(prompt string) string {
	sum := sha256.Sum256([]byte(g.cfg.Model + "\x00" + g.cfg.AspectRatio + "\x00" + g.Prompt(prompt)))
	return filepath.Join(g.cfg.OutputDir, "genai-"+hex.EncodeToString(sum[:8])+".png")
}

// Generate produces an image for prompt and returns its path. A previously
// generated image is reused unless Overwrite is set.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	path := g.OutputPath(prompt)
	if !g.cfg.Overwrite {
		if _, err := os.Stat(path); err == nil {
			g.logger.Info("using cached image", "path", path)
			return path, nil
		}
	}

	client, err := g.clientSetup(ctx)
	if err != nil {
		return "", err
	}

	var data []byte
	if isGeminiModel(g.cfg.Model) {
		data, err = g.generateWithGemini(ctx, client, prompt)
	} else {
		data, err = g.generateWithImagen(ctx, client, prompt)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write image to file: %w", err)
	}
	g.logger.Info("generated image", "path", path, "bytes", len(data))
	return path, nil
}

func (g *Generator) clientSetup(ctx context.Context) (*genai.Client, error) {
	clientConfig := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if g.cfg.Backend == BackendVertexAI {
		clientConfig.Backend = genai.BackendVertexAI
	}

	if clientConfig.Backend == genai.BackendGeminiAPI {
		apiKey := os.Getenv(EnvAPIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%w\nGet one at: https://aistudio.google.com/api-keys", ErrMissingAPIKey)
		}
		clientConfig.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}
	g.logger.Debug("created Gen AI client", "backend", g.cfg.Backend, "model", g.cfg.Model)
	return client, nil
}

// isGeminiModel reports whether a model uses GenerateContent rather than the
// Imagen GenerateImages API.
func isGeminiModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

func (g *Generator) generateWithGemini(ctx context.Context, client *genai.Client, prompt string) ([]byte, error) {
	text := fmt.Sprintf("Generate an image with aspect ratio %s: %s", g.cfg.AspectRatio, g.Prompt(prompt))
	g.logger.Debug("calling GenerateContent", "model", g.cfg.Model, "prompt", text)

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"Image"},
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	return inlineImage(resp)
}

func (g *Generator) generateWithImagen(ctx context.Context, client *genai.Client, prompt string) ([]byte, error) {
	g.logger.Debug("calling GenerateImages", "model", g.cfg.Model, "aspect_ratio", g.cfg.AspectRatio)

	resp, err := client.Models.GenerateImages(ctx, g.cfg.Model, g.Prompt(prompt), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    g.cfg.AspectRatio,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	return generatedImage(resp)
}

// inlineImage returns the first inline image part of a GenerateContent response.
func inlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no image data in response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("no inline image data found in response")
}

// generatedImage returns the first image of a GenerateImages response.
func generatedImage(resp *genai.GenerateImagesResponse) ([]byte, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("no images generated in response")
	}
	img := resp.GeneratedImages[0]
	if img.RAIFilteredReason != "" {
		return nil, fmt.Errorf("image was filtered by safety system: %s", img.RAIFilteredReason)
	}
	if img.Image == nil || len(img.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("generated image has no image data")
	}
	return img.Image.ImageBytes, nil
}
