// Package image provides utilities for loading and processing images.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/curio/internal/security"
	httputil "github.com/jmylchreest/curio/internal/util/http"
	"github.com/jmylchreest/curio/internal/util/imagecache"
)

// validateURL vets remote image URLs before they are fetched.
var validateURL = security.ValidateHTTPURL

// MaxUploadBytes is the largest image accepted onto the moodboard.
const MaxUploadBytes = 2 << 20

// ErrTooLarge is returned when an image exceeds MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}

// CheckSize returns ErrTooLarge if the file at path is bigger than
// MaxUploadBytes.
func CheckSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.Size() > MaxUploadBytes {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, info.Size(), MaxUploadBytes)
	}
	return nil
}

// ValidateImagePath checks if the given path is valid and points to a supported image file or directory.
// Supports both local file paths, directories, and HTTP(S) URLs.
// For local files, it verifies the file exists and can be decoded.
// For directories, it verifies the directory exists (actual scanning happens later).
// For HTTP(S) URLs, it just validates the URL format (actual fetching happens later).
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	if imagecache.IsURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}

	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}

	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages scans a directory and returns all valid image files
// in name order. It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Skip broken symlinks and unreadable entries.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}

		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}

	return imageFiles, nil
}

// ExpandImagePaths resolves each argument to image paths. Directories expand
// to the images they contain; files and URLs are returned as-is.
func ExpandImagePaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if imagecache.IsURL(p) {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access path: %w", err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := ScanDirectoryForImages(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader
	ctx        context.Context
}

// NewSmartLoader creates a new SmartLoader instance. Remote fetches are bound
// to ctx.
func NewSmartLoader(ctx context.Context) *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		ctx:        ctx,
	}
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(path string) (image.Image, error) {
	if imagecache.IsURL(path) {
		return l.loadFromURL(path)
	}
	return l.fileLoader.Load(path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(url string) (image.Image, error) {
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateURL(url); err != nil {
		return nil, fmt.Errorf("refusing to fetch image: %w", err)
	}
	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{MaxBytes: MaxUploadBytes})
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		return nil, fmt.Errorf("%w: %s: %v", ErrTooLarge, url, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}
