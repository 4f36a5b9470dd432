package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"screenpapers/pkg/logger"
)

const (
	sessionFile = "session.json"
	version     = 1
)

// Session is the last search a user was looking at
type Session struct {
	Query     string    `json:"query"`
	Page      int       `json:"page"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// Manager reads and writes the session file
type Manager struct {
	path   string
	logger logger.Logger
}

// NewManager keeps the session in dir. An empty dir means the platform
// data directory.
func NewManager(dir string, log logger.Logger) (*Manager, error) {
	if dir == "" {
		var err error
		dir, err = getDataDirectory()
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Manager{
		path:   filepath.Join(dir, sessionFile),
		logger: log.WithField("component", "checkpoint"),
	}, nil
}

// Path returns the session file location
func (m *Manager) Path() string {
	return m.path
}

// Record saves the given search as the current session. A blank query is
// ignored.
func (m *Manager) Record(query string, page, total int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if page < 1 {
		page = 1
	}
	return m.Save(&Session{Query: query, Page: page, Total: total})
}

// Load returns the saved session, or nil when there is none
func (m *Manager) Load() (*Session, error) {
	file, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	var s Session
	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Version > version {
		return nil, fmt.Errorf("session file version %d is newer than supported version %d", s.Version, version)
	}

	m.logger.DebugWithFields("session loaded", map[string]interface{}{
		"query":      s.Query,
		"page":       s.Page,
		"updated_at": s.UpdatedAt,
	})
	return &s, nil
}

// Save writes the session atomically
func (m *Manager) Save(s *Session) error {
	s.UpdatedAt = time.Now()
	s.Version = version

	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary session file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync session file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	m.logger.DebugWithFields("session saved", map[string]interface{}{
		"query": s.Query,
		"page":  s.Page,
	})
	return nil
}

// Delete removes the session file
func (m *Manager) Delete() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// getDataDirectory returns the data directory for the current OS
func getDataDirectory() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "screenpapers"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "screenpapers"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "screenpapers"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "screenpapers"), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
