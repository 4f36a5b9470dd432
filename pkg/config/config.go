package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// PerPage is the fixed page size sent to the search endpoint
	PerPage = 20

	// DefaultBaseURL is the Unsplash API root
	DefaultBaseURL = "https://api.unsplash.com"
)

// Config holds all configuration options for screenpapers
type Config struct {
	// Unsplash API settings
	Unsplash UnsplashConfig `yaml:"unsplash" json:"unsplash"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// UnsplashConfig holds API-specific configuration
type UnsplashConfig struct {
	AccessKey string        `yaml:"access_key" json:"access_key"`
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	PerPage   int           `yaml:"per_page" json:"per_page"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Directory     string        `yaml:"directory" json:"directory"`
	Concurrent    int           `yaml:"concurrent" json:"concurrent"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts"`
	Overwrite     bool          `yaml:"overwrite" json:"overwrite"`

	// Metadata saves a <id>.jpg.json credit file next to each photo
	Metadata bool `yaml:"metadata" json:"metadata"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnDownload bool `yaml:"on_download" json:"on_download"`
	OnError    bool `yaml:"on_error" json:"on_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Unsplash: UnsplashConfig{
			BaseURL:   DefaultBaseURL,
			PerPage:   PerPage,
			Timeout:   15 * time.Second,
			UserAgent: "screenpapers/1.0",
		},
		Download: DownloadConfig{
			Directory:     "./downloads",
			Concurrent:    3,
			Timeout:       60 * time.Second,
			RetryAttempts: 3,
			Overwrite:     false,
			Metadata:      true,
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			OnDownload: true,
			OnError:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// REACT_APP_ is the legacy prefix; the plain name wins when both are set
	if key := os.Getenv("REACT_APP_UNSPLASH_ACCESS_KEY"); key != "" {
		c.Unsplash.AccessKey = key
	}
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		c.Unsplash.AccessKey = key
	}
	if baseURL := os.Getenv("SCREENPAPERS_BASE_URL"); baseURL != "" {
		c.Unsplash.BaseURL = baseURL
	}

	if dir := os.Getenv("SCREENPAPERS_OUTPUT_DIR"); dir != "" {
		c.Download.Directory = dir
	}
	if concurrent := os.Getenv("SCREENPAPERS_CONCURRENT_DOWNLOADS"); concurrent != "" {
		val, err := strconv.Atoi(concurrent)
		if err != nil {
			return fmt.Errorf("invalid SCREENPAPERS_CONCURRENT_DOWNLOADS: %w", err)
		}
		if val > 0 {
			c.Download.Concurrent = val
		}
	}

	if notifEnabled := os.Getenv("SCREENPAPERS_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	if logLevel := os.Getenv("SCREENPAPERS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("SCREENPAPERS_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".screenpapers.yaml",
		".screenpapers.yml",
		filepath.Join(home, ".config", "screenpapers", "config.yaml"),
		filepath.Join(home, ".config", "screenpapers", "config.yml"),
		filepath.Join(home, ".screenpapers.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// A missing access key is deliberately not checked here: the search
// controller reports it to the user instead of refusing to start.
func (c *Config) Validate() error {
	var errs []error

	if c.Unsplash.BaseURL == "" {
		errs = append(errs, errors.New("unsplash base URL is required"))
	}
	if c.Unsplash.PerPage != PerPage {
		errs = append(errs, fmt.Errorf("per page is fixed at %d", PerPage))
	}
	if c.Unsplash.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Download.Directory == "" {
		errs = append(errs, errors.New("download directory is required"))
	}
	if c.Download.Concurrent <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.Concurrent > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// HasAccessKey reports whether a credential has been resolved
func (c *Config) HasAccessKey() bool {
	return strings.TrimSpace(c.Unsplash.AccessKey) != ""
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if key, ok := flags["access-key"].(string); ok && key != "" {
		c.Unsplash.AccessKey = key
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Unsplash.BaseURL = baseURL
	}
	if dir, ok := flags["output"].(string); ok && dir != "" {
		c.Download.Directory = dir
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.Concurrent = concurrent
	}
	if overwrite, ok := flags["overwrite"].(bool); ok {
		c.Download.Overwrite = overwrite
	}
	if notify, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = notify
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".screenpapers.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
