package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Suffix is appended to a photo's path to name its sidecar file
const Suffix = ".json"

// PhotoMetadata is the credit and description kept next to a saved photo
type PhotoMetadata struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	AltText     string `json:"alt_description,omitempty"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color,omitempty"`

	Photographer Photographer `json:"photographer"`
	PageURL      string       `json:"page_url,omitempty"`
	SourceURL    string       `json:"source_url"`

	FileSize     int64     `json:"file_size,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// Photographer is the Unsplash user who took the photo
type Photographer struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Attribution is the credit line Unsplash asks apps to show
func (m *PhotoMetadata) Attribution() string {
	name := m.Photographer.Name
	if name == "" {
		name = m.Photographer.Username
	}
	if name == "" {
		return "Photo on Unsplash"
	}
	if m.Photographer.Username != "" && m.Photographer.Username != name {
		return fmt.Sprintf("Photo by %s (@%s) on Unsplash", name, m.Photographer.Username)
	}
	return fmt.Sprintf("Photo by %s on Unsplash", name)
}

// Save writes the metadata next to photoPath
func (m *PhotoMetadata) Save(photoPath string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(photoPath+Suffix, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// Load reads the metadata saved next to photoPath
func Load(photoPath string) (*PhotoMetadata, error) {
	data, err := os.ReadFile(photoPath + Suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta PhotoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// AspectRatio names common wallpaper ratios and falls back to w/h
func (m *PhotoMetadata) AspectRatio() string {
	if m.Width <= 0 || m.Height <= 0 {
		return "unknown"
	}

	ratio := float64(m.Width) / float64(m.Height)
	switch {
	case ratio > 2.3 && ratio < 2.4:
		return "21:9"
	case ratio > 1.7 && ratio < 1.8:
		return "16:9"
	case ratio > 1.55 && ratio < 1.65:
		return "16:10"
	case ratio > 1.45 && ratio < 1.55:
		return "3:2"
	case ratio > 1.3 && ratio < 1.4:
		return "4:3"
	case ratio > 0.95 && ratio < 1.05:
		return "1:1"
	case ratio > 0.55 && ratio < 0.57:
		return "9:16"
	default:
		return fmt.Sprintf("%.2f:1", ratio)
	}
}

// Exists reports whether photoPath has a sidecar
func Exists(photoPath string) bool {
	_, err := os.Stat(photoPath + Suffix)
	return err == nil
}

// CleanOrphaned removes sidecars whose photo is gone and returns how many
// it removed
func CleanOrphaned(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Suffix) {
			continue
		}

		photoPath := filepath.Join(dir, strings.TrimSuffix(name, Suffix))
		if _, err := os.Stat(photoPath); !os.IsNotExist(err) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove orphaned metadata %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
