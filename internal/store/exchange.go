package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/curio/internal/security"
)

// xzMagic is the stream header of an xz file.
var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// bundle is the exchange format. Absent fields leave the library untouched
// on import.
type bundle struct {
	Palettes  *[]Palette  `json:"palettes,omitempty"`
	Moodboard *[]MoodItem `json:"moodboard,omitempty"`
}

// ImportResult reports what Import changed.
type ImportResult struct {
	Palettes        int
	SkippedSamples  int
	MoodItems       int
	PalettesChanged bool
	MoodChanged     bool
}

// Export writes every palette (samples included) and the moodboard as
// indented JSON, xz-compressed when compress is set.
func (l *Library) Export(w io.Writer, compress bool) error {
	palettes := l.Palettes()
	mood := l.MoodItems()
	raw, err := json.MarshalIndent(bundle{Palettes: &palettes, Moodboard: &mood}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if !compress {
		_, err := w.Write(raw)
		return err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := xw.Write(raw); err != nil {
		xw.Close()
		return fmt.Errorf("failed to compress export: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// Import replaces custom palettes and the moodboard with the contents of an
// exported bundle. xz input is detected automatically. Palettes named like a
// sample are dropped. Empty or repeated palette names fail the whole import.
func (l *Library) Import(r io.Reader) (ImportResult, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, _ := br.Peek(len(xzMagic)); bytes.Equal(head, xzMagic) {
		xr, err := xz.NewReader(br)
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to create xz reader: %w", err)
		}
		src = xr
	}

	raw, err := io.ReadAll(security.NewLimitedReader(src, MaxLibraryBytes))
	if errors.Is(err, security.ErrLimitExceeded) {
		return ImportResult{}, fmt.Errorf("%w: import exceeds %d bytes", ErrTooLarge, MaxLibraryBytes)
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read import: %w", err)
	}

	var b bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return ImportResult{}, fmt.Errorf("invalid import file: %w", err)
	}

	var res ImportResult
	if b.Palettes != nil {
		custom := make([]Palette, 0, len(*b.Palettes))
		seen := make(map[string]bool, len(*b.Palettes))
		for _, p := range *b.Palettes {
			name := strings.TrimSpace(p.Name)
			if isSampleName(name) {
				res.SkippedSamples++
				continue
			}
			if name == "" {
				return ImportResult{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidPalette)
			}
			if seen[name] {
				return ImportResult{}, fmt.Errorf("palette %q: %w", name, ErrDuplicateName)
			}
			seen[name] = true
			colors, err := normalisePaletteColors(p.Colors)
			if err != nil {
				return ImportResult{}, fmt.Errorf("palette %q: %w", name, err)
			}
			custom = append(custom, Palette{Name: name, Colors: colors})
		}
		l.data.Palettes = custom
		res.Palettes = len(custom)
		res.PalettesChanged = true
	}

	if b.Moodboard != nil {
		l.data.Moodboard = *b.Moodboard
		for i := range l.data.Moodboard {
			if l.data.Moodboard[i].ID == "" {
				l.data.Moodboard[i].ID = uuid.New().String()
			}
		}
		l.EnsureSamples()
		res.MoodItems = len(l.data.Moodboard)
		res.MoodChanged = true
	}

	l.logger.Info("imported library", "palettes", res.Palettes,
		"skipped_samples", res.SkippedSamples, "moodboard", res.MoodItems)
	return res, nil
}
