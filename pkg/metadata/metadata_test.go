package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "abc123.jpg")

	meta := &PhotoMetadata{
		ID:           "abc123",
		AltText:      "a foggy forest",
		Width:        6000,
		Height:       4000,
		Photographer: Photographer{Name: "Jane Doe", Username: "janed"},
		SourceURL:    "https://unsplash.com/photos/abc123/download",
		FileSize:     2048,
		DownloadedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, meta.Save(photo))
	assert.True(t, Exists(photo))
	assert.FileExists(t, photo+".json")

	loaded, err := Load(photo)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
	assert.False(t, Exists(filepath.Join(t.TempDir(), "nope.jpg")))
}

func TestAttribution(t *testing.T) {
	tests := []struct {
		name string
		p    Photographer
		want string
	}{
		{"name and username", Photographer{Name: "Jane Doe", Username: "janed"}, "Photo by Jane Doe (@janed) on Unsplash"},
		{"username only", Photographer{Username: "janed"}, "Photo by janed on Unsplash"},
		{"nothing known", Photographer{}, "Photo on Unsplash"},
	}
	for _, tt := range tests {
		m := &PhotoMetadata{Photographer: tt.p}
		if got := m.Attribution(); got != tt.want {
			t.Errorf("%s: Attribution() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{1920, 1080, "16:9"},
		{2560, 1600, "16:10"},
		{3440, 1440, "21:9"},
		{6000, 4000, "3:2"},
		{1024, 768, "4:3"},
		{1000, 1000, "1:1"},
		{1080, 1920, "9:16"},
		{1000, 300, "3.33:1"},
		{0, 100, "unknown"},
	}
	for _, tt := range tests {
		m := &PhotoMetadata{Width: tt.w, Height: tt.h}
		if got := m.AspectRatio(); got != tt.want {
			t.Errorf("AspectRatio(%dx%d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestCleanOrphaned(t *testing.T) {
	dir := t.TempDir()

	kept := filepath.Join(dir, "kept.jpg")
	require.NoError(t, os.WriteFile(kept, []byte("img"), 0644))
	require.NoError(t, (&PhotoMetadata{ID: "kept"}).Save(kept))
	require.NoError(t, (&PhotoMetadata{ID: "gone"}).Save(filepath.Join(dir, "gone.jpg")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	removed, err := CleanOrphaned(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, Exists(kept))
	assert.NoFileExists(t, filepath.Join(dir, "gone.jpg.json"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}
