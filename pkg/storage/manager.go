package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"screenpapers/pkg/errors"
)

// Extension is appended to every saved image. The name is nominal: the
// bytes are written as served, whatever their real format.
const Extension = ".jpg"

// Manager writes downloaded images into one output directory and remembers
// which image ids are already on disk
type Manager struct {
	outputDir string
	saved     map[string]bool
	mu        sync.RWMutex
}

// NewManager creates the output directory if needed and indexes the
// images already present
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeStorage, err, "failed to create output directory")
	}

	m := &Manager{
		outputDir: outputDir,
		saved:     make(map[string]bool),
	}

	if err := m.scanExistingFiles(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeStorage, err, "failed to read output directory")
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && filepath.Ext(name) == Extension {
			m.saved[strings.TrimSuffix(name, Extension)] = true
		}
	}
	return nil
}

// validID rejects ids that would escape the output directory
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// PathFor returns where the image with this id is (or would be) stored
func (m *Manager) PathFor(id string) string {
	return filepath.Join(m.outputDir, id+Extension)
}

// IsDownloaded checks the index first and falls back to the filesystem,
// so files written by another process are noticed too
func (m *Manager) IsDownloaded(id string) bool {
	m.mu.RLock()
	known := m.saved[id]
	m.mu.RUnlock()
	if known {
		return true
	}

	if !validID(id) {
		return false
	}
	if _, err := os.Stat(m.PathFor(id)); err != nil {
		return false
	}

	m.mu.Lock()
	m.saved[id] = true
	m.mu.Unlock()
	return true
}

// Save streams r to <output>/<id>.jpg through a temp file and a rename, so
// a failed or interrupted download never leaves a partial image behind.
// It returns the final path and the number of bytes written.
func (m *Manager) Save(id string, r io.Reader) (string, int64, error) {
	if !validID(id) {
		return "", 0, errors.New(errors.ErrorTypeStorage, fmt.Sprintf("invalid image id %q", id))
	}

	final := m.PathFor(id)

	tmp, err := os.CreateTemp(m.outputDir, "."+id+"-*.tmp")
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrorTypeStorage, err, "failed to create temporary file")
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tmpName)
		return "", n, errors.Wrap(errors.ErrorTypeStorage, err, "failed to write image data")
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return "", n, errors.Wrap(errors.ErrorTypeStorage, closeErr, "failed to close file")
	}

	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", n, errors.Wrap(errors.ErrorTypeStorage, err, "failed to rename temporary file")
	}

	m.mu.Lock()
	m.saved[id] = true
	m.mu.Unlock()

	return final, n, nil
}

func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns how many images are known to be on disk
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
