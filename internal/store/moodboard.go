package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/curio/internal/security"
)

const (
	// MaxCustomItems is the most non-sample moodboard items allowed.
	MaxCustomItems = 15

	// sampleSeedCount is how many leading items become samples when none are.
	sampleSeedCount = 3

	// nearLimitMargin flags storage as nearly full this many items early.
	nearLimitMargin = 2
)

// MoodItem is an image on the moodboard with its extracted colours.
type MoodItem struct {
	ID        string    `json:"id"`
	Caption   string    `json:"caption"`
	ImagePath string    `json:"imagePath"`
	Colors    []string  `json:"colors"`
	Sample    bool      `json:"isSample"`
	AddedAt   time.Time `json:"addedAt"`
}

// StorageInfo summarises moodboard capacity.
type StorageInfo struct {
	Custom    int
	Limit     int
	Remaining int
	NearLimit bool
}

// String renders the usage line, e.g. "3/15 images uploaded".
func (s StorageInfo) String() string {
	return fmt.Sprintf("%d/%d images uploaded", s.Custom, s.Limit)
}

// MoodItems returns the moodboard in insertion order.
func (l *Library) MoodItems() []MoodItem {
	out := make([]MoodItem, len(l.data.Moodboard))
	for i, item := range l.data.Moodboard {
		item.Colors = slices.Clone(item.Colors)
		out[i] = item
	}
	return out
}

// MoodItem returns the item with the given ID. A unique ID prefix is accepted.
func (l *Library) MoodItem(id string) (MoodItem, error) {
	idx, err := l.moodIndex(id)
	if err != nil {
		return MoodItem{}, err
	}
	return l.MoodItems()[idx], nil
}

func (l *Library) moodIndex(id string) (int, error) {
	if id == "" {
		return -1, fmt.Errorf("moodboard item %q: %w", id, ErrNotFound)
	}
	match := -1
	for i, item := range l.data.Moodboard {
		if item.ID == id {
			return i, nil
		}
		if strings.HasPrefix(item.ID, id) {
			if match >= 0 {
				return -1, fmt.Errorf("moodboard item prefix %q is ambiguous", id)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("moodboard item %q: %w", id, ErrNotFound)
	}
	return match, nil
}

func (l *Library) customCount() int {
	n := 0
	for _, item := range l.data.Moodboard {
		if !item.Sample {
			n++
		}
	}
	return n
}

// StorageInfo reports how many custom items are stored and how many remain.
func (l *Library) StorageInfo() StorageInfo {
	custom := l.customCount()
	return StorageInfo{
		Custom:    custom,
		Limit:     MaxCustomItems,
		Remaining: max(MaxCustomItems-custom, 0),
		NearLimit: custom >= MaxCustomItems-nearLimitMargin,
	}
}

// AddMoodItem appends a custom item, assigning its ID and timestamp.
func (l *Library) AddMoodItem(item MoodItem) (MoodItem, error) {
	if l.customCount() >= MaxCustomItems {
		return MoodItem{}, fmt.Errorf("%w: maximum %d images; delete some to add new ones", ErrLimitReached, MaxCustomItems)
	}
	item.ID = uuid.New().String()
	item.Sample = false
	item.Colors = slices.Clone(item.Colors)
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	l.data.Moodboard = append(l.data.Moodboard, item)
	l.logger.Debug("added moodboard item", "id", item.ID, "caption", item.Caption)
	return item, nil
}

// DeleteMoodItem removes a custom item and any image copied into the data
// directory for it.
func (l *Library) DeleteMoodItem(id string) error {
	idx, err := l.moodIndex(id)
	if err != nil {
		return err
	}
	item := l.data.Moodboard[idx]
	if item.Sample {
		return fmt.Errorf("moodboard item %s: %w", item.ID, ErrSampleReadOnly)
	}
	l.data.Moodboard = slices.Delete(l.data.Moodboard, idx, idx+1)

	if item.ImagePath != "" && security.ValidateWithinDir(item.ImagePath, l.ImageDir()) == nil {
		if err := os.Remove(item.ImagePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("failed to remove moodboard image", "path", item.ImagePath, "error", err)
		}
	}
	l.logger.Debug("deleted moodboard item", "id", item.ID)
	return nil
}

// EnsureSamples marks the first items as samples when none are marked.
// It reports whether anything changed.
func (l *Library) EnsureSamples() bool {
	if slices.ContainsFunc(l.data.Moodboard, func(item MoodItem) bool { return item.Sample }) {
		return false
	}
	n := min(sampleSeedCount, len(l.data.Moodboard))
	for i := range n {
		l.data.Moodboard[i].Sample = true
	}
	return n > 0
}

// StoreImage copies an image into ImageDir under a fresh name and returns the
// new path. ext should include the leading dot.
func (l *Library) StoreImage(r io.Reader, ext string) (string, error) {
	dir := l.ImageDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(dir, uuid.New().String()+strings.ToLower(ext))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 - Path is generated inside the data directory
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store image: %w", errors.Join(copyErr, closeErr))
	}
	return path, nil
}
