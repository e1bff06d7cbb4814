package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/curio/internal/colour"
)

func openTemp(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(t.TempDir(), hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return lib
}

func TestDataDir(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv("XDG_DATA_HOME", "/xdg")
	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error = %v", err)
	}
	if got != filepath.Join("/xdg", "curio") {
		t.Errorf("DataDir() = %q, want /xdg/curio", got)
	}

	t.Setenv(EnvDataDir, "/custom")
	if got, _ := DataDir(); got != "/custom" {
		t.Errorf("DataDir() with %s = %q, want /custom", EnvDataDir, got)
	}
}

func TestOpenSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lib, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(lib.MoodItems()) != 0 {
		t.Fatalf("new library has %d moodboard items", len(lib.MoodItems()))
	}

	if _, err := lib.AddPalette("Forest", []string{"#228B22", "8fbc8f"}); err != nil {
		t.Fatalf("AddPalette() error = %v", err)
	}
	item, err := lib.AddMoodItem(MoodItem{Caption: "moss", Colors: []string{"#223322"}})
	if err != nil {
		t.Fatalf("AddMoodItem() error = %v", err)
	}
	if err := lib.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(lib.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("library permissions = %o, want 600", perm)
	}

	reopened, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	p, err := reopened.Palette("Forest")
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}
	if want := []string{"#228b22", "#8fbc8f"}; !slices.Equal(p.Colors, want) {
		t.Errorf("Palette().Colors = %v, want %v", p.Colors, want)
	}
	got, err := reopened.MoodItem(item.ID)
	if err != nil {
		t.Fatalf("MoodItem() error = %v", err)
	}
	if got.Caption != "moss" {
		t.Errorf("MoodItem().Caption = %q, want moss", got.Caption)
	}
}

func TestOpenCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LibraryFile), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir, nil); err == nil {
		t.Error("Open() of corrupt library expected error, got nil")
	}
}

func TestPalettesSamplesFirst(t *testing.T) {
	lib := openTemp(t)
	if _, err := lib.AddPalette("Mine", []string{"#000000"}); err != nil {
		t.Fatal(err)
	}
	// A custom palette smuggled in with a sample name stays hidden.
	lib.data.Palettes = append(lib.data.Palettes, Palette{Name: "Ocean Breeze", Colors: []string{"#ffffff"}})

	all := lib.Palettes()
	if len(all) != len(samplePalettes)+1 {
		t.Fatalf("Palettes() returned %d, want %d", len(all), len(samplePalettes)+1)
	}
	for i := range samplePalettes {
		if !all[i].Sample {
			t.Errorf("Palettes()[%d] = %q, want a sample", i, all[i].Name)
		}
	}
	if last := all[len(all)-1]; last.Name != "Mine" || last.Sample {
		t.Errorf("last palette = %+v, want custom Mine", last)
	}
	if all[0].Colors[0] != "#0077be" {
		t.Errorf("Ocean Breeze first colour = %s, want #0077be", all[0].Colors[0])
	}
}

func TestAddPalette(t *testing.T) {
	tests := []struct {
		name    string
		pname   string
		colors  []string
		wantErr error
	}{
		{name: "valid", pname: "Dusk", colors: []string{"#112233", "445566"}},
		{name: "empty name", pname: "  ", colors: []string{"#112233"}, wantErr: ErrInvalidPalette},
		{name: "sample name", pname: "Sunset Vibes", colors: []string{"#112233"}, wantErr: ErrDuplicateName},
		{name: "duplicate", pname: "Existing", colors: []string{"#112233"}, wantErr: ErrDuplicateName},
		{name: "no colours", pname: "Empty", colors: nil, wantErr: ErrInvalidPalette},
		{name: "too many", pname: "Seven", colors: []string{"#000000", "#111111", "#222222", "#333333", "#444444", "#555555", "#666666"}, wantErr: ErrInvalidPalette},
		{name: "shorthand rejected", pname: "Short", colors: []string{"#abc"}, wantErr: colour.ErrInvalidFormat},
		{name: "not hex", pname: "Words", colors: []string{"blue"}, wantErr: colour.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := openTemp(t)
			if _, err := lib.AddPalette("Existing", []string{"#000000"}); err != nil {
				t.Fatal(err)
			}
			_, err := lib.AddPalette(tt.pname, tt.colors)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("AddPalette() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddPalette() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeletePalette(t *testing.T) {
	lib := openTemp(t)
	if _, err := lib.AddPalette("Temp", []string{"#010203"}); err != nil {
		t.Fatal(err)
	}

	if err := lib.DeletePalette("Ocean Breeze"); !errors.Is(err, ErrSampleReadOnly) {
		t.Errorf("DeletePalette(sample) error = %v, want ErrSampleReadOnly", err)
	}
	if err := lib.DeletePalette("Nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeletePalette(missing) error = %v, want ErrNotFound", err)
	}
	if err := lib.DeletePalette("Temp"); err != nil {
		t.Fatalf("DeletePalette() error = %v", err)
	}
	if _, err := lib.Palette("Temp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Palette() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSearchPalettes(t *testing.T) {
	lib := openTemp(t)
	if _, err := lib.AddPalette("Retro Neon", []string{"#ff00ff"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		term string
		want []string
	}{
		{term: "retro", want: []string{"Warm Retro Palette", "Classic 80s Retro", "Retro Neon"}},
		{term: "OCEAN", want: []string{"Ocean Breeze"}},
		{term: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got []string
			for _, p := range lib.SearchPalettes(tt.term) {
				got = append(got, p.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("SearchPalettes(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}

	if got := len(lib.SearchPalettes("")); got != len(samplePalettes)+1 {
		t.Errorf("SearchPalettes(\"\") returned %d, want all %d", got, len(samplePalettes)+1)
	}
}

func TestMoodboardLimit(t *testing.T) {
	lib := openTemp(t)
	lib.data.Moodboard = append(lib.data.Moodboard, MoodItem{ID: "sample-1", Sample: true})

	for i := range MaxCustomItems {
		if _, err := lib.AddMoodItem(MoodItem{Caption: strings.Repeat("x", i)}); err != nil {
			t.Fatalf("AddMoodItem() #%d error = %v", i, err)
		}
	}
	if _, err := lib.AddMoodItem(MoodItem{}); !errors.Is(err, ErrLimitReached) {
		t.Errorf("AddMoodItem() over limit error = %v, want ErrLimitReached", err)
	}

	info := lib.StorageInfo()
	if info.Custom != MaxCustomItems || info.Remaining != 0 || !info.NearLimit {
		t.Errorf("StorageInfo() = %+v, want full", info)
	}
	if got := info.String(); got != "15/15 images uploaded" {
		t.Errorf("StorageInfo().String() = %q", got)
	}
}

func TestStorageInfoNearLimit(t *testing.T) {
	lib := openTemp(t)
	for range MaxCustomItems - 3 {
		if _, err := lib.AddMoodItem(MoodItem{}); err != nil {
			t.Fatal(err)
		}
	}
	if lib.StorageInfo().NearLimit {
		t.Error("StorageInfo().NearLimit = true with 3 slots left")
	}
	if _, err := lib.AddMoodItem(MoodItem{}); err != nil {
		t.Fatal(err)
	}
	if info := lib.StorageInfo(); !info.NearLimit || info.Remaining != 2 {
		t.Errorf("StorageInfo() = %+v, want near limit with 2 remaining", info)
	}
}

func TestDeleteMoodItem(t *testing.T) {
	lib := openTemp(t)
	imgPath, err := lib.StoreImage(strings.NewReader("png-bytes"), ".PNG")
	if err != nil {
		t.Fatalf("StoreImage() error = %v", err)
	}
	if filepath.Ext(imgPath) != ".png" {
		t.Errorf("StoreImage() ext = %s, want .png", filepath.Ext(imgPath))
	}

	outside := filepath.Join(t.TempDir(), "keep.png")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	stored, err := lib.AddMoodItem(MoodItem{ImagePath: imgPath})
	if err != nil {
		t.Fatal(err)
	}
	external, err := lib.AddMoodItem(MoodItem{ImagePath: outside})
	if err != nil {
		t.Fatal(err)
	}
	lib.data.Moodboard = append(lib.data.Moodboard, MoodItem{ID: "fixed-sample", Sample: true})

	if err := lib.DeleteMoodItem("fixed-sample"); !errors.Is(err, ErrSampleReadOnly) {
		t.Errorf("DeleteMoodItem(sample) error = %v, want ErrSampleReadOnly", err)
	}
	if err := lib.DeleteMoodItem("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteMoodItem(missing) error = %v, want ErrNotFound", err)
	}

	if err := lib.DeleteMoodItem(stored.ID[:8]); err != nil {
		t.Fatalf("DeleteMoodItem(prefix) error = %v", err)
	}
	if _, err := os.Stat(imgPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stored image still present after delete: %v", err)
	}

	if err := lib.DeleteMoodItem(external.ID); err != nil {
		t.Fatalf("DeleteMoodItem() error = %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("image outside the data directory was removed: %v", err)
	}
}

func TestEnsureSamples(t *testing.T) {
	lib := openTemp(t)
	if lib.EnsureSamples() {
		t.Error("EnsureSamples() on empty moodboard reported a change")
	}

	for range 5 {
		lib.data.Moodboard = append(lib.data.Moodboard, MoodItem{})
	}
	if !lib.EnsureSamples() {
		t.Fatal("EnsureSamples() reported no change")
	}
	for i, item := range lib.MoodItems() {
		if want := i < 3; item.Sample != want {
			t.Errorf("item %d Sample = %v, want %v", i, item.Sample, want)
		}
	}
	if lib.EnsureSamples() {
		t.Error("second EnsureSamples() reported a change")
	}
}

func TestExportImport(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "json"
		if compress {
			name = "xz"
		}
		t.Run(name, func(t *testing.T) {
			src := openTemp(t)
			if _, err := src.AddPalette("Moss", []string{"#223322", "#445544"}); err != nil {
				t.Fatal(err)
			}
			for _, caption := range []string{"a", "b", "c", "d"} {
				if _, err := src.AddMoodItem(MoodItem{Caption: caption}); err != nil {
					t.Fatal(err)
				}
			}

			var buf bytes.Buffer
			if err := src.Export(&buf, compress); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if compress != bytes.HasPrefix(buf.Bytes(), xzMagic) {
				t.Fatalf("Export(compress=%v) xz header present = %v", compress, !compress)
			}

			dst := openTemp(t)
			if _, err := dst.AddPalette("Replaced", []string{"#000000"}); err != nil {
				t.Fatal(err)
			}
			res, err := dst.Import(&buf)
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if res.Palettes != 1 || res.SkippedSamples != len(samplePalettes) || res.MoodItems != 4 {
				t.Errorf("Import() = %+v", res)
			}
			if _, err := dst.Palette("Replaced"); !errors.Is(err, ErrNotFound) {
				t.Errorf("custom palette survived import: %v", err)
			}
			if _, err := dst.Palette("Moss"); err != nil {
				t.Errorf("Palette(Moss) after import error = %v", err)
			}
			if got := dst.StorageInfo().Custom; got != 1 {
				t.Errorf("custom items after import = %d, want 1 (first three become samples)", got)
			}
		})
	}
}

func TestImportPartial(t *testing.T) {
	lib := openTemp(t)
	if _, err := lib.AddPalette("Keep", []string{"#abcdef"}); err != nil {
		t.Fatal(err)
	}

	res, err := lib.Import(strings.NewReader(`{"moodboard": [{"caption": "only mood"}]}`))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.PalettesChanged {
		t.Error("Import() without palettes changed palettes")
	}
	if _, err := lib.Palette("Keep"); err != nil {
		t.Errorf("Palette(Keep) error = %v", err)
	}
	items := lib.MoodItems()
	if len(items) != 1 || items[0].ID == "" {
		t.Errorf("MoodItems() = %+v, want one item with an ID", items)
	}
}

func TestImportInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "not json", input: "hello"},
		{name: "bad colour", input: `{"palettes": [{"name": "x", "colors": ["#zzzzzz"]}]}`, wantErr: colour.ErrInvalidFormat},
		{name: "duplicate name", input: `{"palettes": [{"name": "Mine", "colors": ["#111111"]}, {"name": "Mine", "colors": ["#222222"]}]}`, wantErr: ErrDuplicateName},
		{name: "duplicate after trim", input: `{"palettes": [{"name": "Mine", "colors": ["#111111"]}, {"name": " Mine ", "colors": ["#222222"]}]}`, wantErr: ErrDuplicateName},
		{name: "empty name", input: `{"palettes": [{"name": "  ", "colors": ["#111111"]}]}`, wantErr: ErrInvalidPalette},
		{name: "too large", input: `{"palettes": [], "pad": "` + strings.Repeat("a", MaxLibraryBytes) + `"}`, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := openTemp(t)
			before := lib.Palettes()
			_, err := lib.Import(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Import() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Import() error = %v, want %v", err, tt.wantErr)
			}
			if got := lib.Palettes(); len(got) != len(before) {
				t.Errorf("failed Import() changed palettes: %d, want %d", len(got), len(before))
			}
		})
	}
}
