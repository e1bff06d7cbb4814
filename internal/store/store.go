// Package store persists the user's palette and moodboard library.
//
// A Library is owned by its caller: commands open it, mutate it and call Save.
// Nothing is shared between processes beyond the JSON file on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvDataDir overrides the data directory.
	EnvDataDir = "CURIO_DATA_DIR"

	// LibraryFile is the name of the library file inside the data directory.
	LibraryFile = "library.json"

	// ImagesDir holds moodboard images copied into the data directory.
	ImagesDir = "images"

	// MaxLibraryBytes caps the encoded library, mirroring the browser storage
	// quota the library was designed around.
	MaxLibraryBytes = 5 << 20
)

var (
	// ErrNotFound is returned when a palette or moodboard item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a palette name is already taken.
	ErrDuplicateName = errors.New("name already exists")

	// ErrSampleReadOnly is returned when deleting a built-in sample.
	ErrSampleReadOnly = errors.New("samples are read-only")

	// ErrLimitReached is returned when the moodboard is full.
	ErrLimitReached = errors.New("moodboard limit reached")

	// ErrTooLarge is returned when the library or an import exceeds MaxLibraryBytes.
	ErrTooLarge = errors.New("library too large")

	// ErrInvalidPalette is returned for palettes with a bad name or colour count.
	ErrInvalidPalette = errors.New("invalid palette")
)

// DataDir returns the directory holding the library: $CURIO_DATA_DIR,
// $XDG_DATA_HOME/curio, or ~/.local/share/curio.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "curio"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "curio"), nil
}

// libraryData is the on-disk and export layout.
type libraryData struct {
	Palettes  []Palette  `json:"palettes"`
	Moodboard []MoodItem `json:"moodboard"`
}

// Library holds custom palettes and moodboard items.
type Library struct {
	dir    string
	logger hclog.Logger
	data   libraryData
}

// Open loads the library stored in dir. A missing library file yields an
// empty library.
func Open(dir string, logger hclog.Logger) (*Library, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	lib := &Library{
		dir:    dir,
		logger: logger.Named("store"),
	}

	path := lib.Path()
	raw, err := os.ReadFile(path) // #nosec G304 - Library path is derived from the data directory
	if errors.Is(err, os.ErrNotExist) {
		lib.logger.Debug("no library file, starting empty", "path", path)
		return lib, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	if err := json.Unmarshal(raw, &lib.data); err != nil {
		return nil, fmt.Errorf("failed to parse library %s: %w", path, err)
	}
	lib.logger.Debug("loaded library", "path", path,
		"palettes", len(lib.data.Palettes), "moodboard", len(lib.data.Moodboard))
	return lib, nil
}

// Dir returns the data directory.
func (l *Library) Dir() string {
	return l.dir
}

// Path returns the library file path.
func (l *Library) Path() string {
	return filepath.Join(l.dir, LibraryFile)
}

// ImageDir returns the directory moodboard images are copied into.
func (l *Library) ImageDir() string {
	return filepath.Join(l.dir, ImagesDir)
}

// Save writes the library atomically with owner-only permissions.
func (l *Library) Save() error {
	raw, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	if len(raw) > MaxLibraryBytes {
		return fmt.Errorf("%w: %d bytes (limit %d); delete some moodboard items", ErrTooLarge, len(raw), MaxLibraryBytes)
	}

	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(l.dir, LibraryFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write library: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set library permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close library: %w", err)
	}
	if err := os.Rename(tmpPath, l.Path()); err != nil {
		return fmt.Errorf("failed to replace library: %w", err)
	}

	l.logger.Debug("saved library", "path", l.Path(), "bytes", len(raw))
	return nil
}
