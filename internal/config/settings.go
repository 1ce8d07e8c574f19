// Package config loads and persists the exporter's user settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-md2overleaf/internal/fileutil"
	"github.com/alnah/go-md2overleaf/internal/yamlutil"
)

// Sentinel errors for settings operations.
var (
	ErrSettingsParse     = errors.New("failed to parse settings")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidUploadHost = errors.New("invalid upload host")
	ErrUnknownKey        = errors.New("unknown settings key")
	ErrInvalidValue      = errors.New("invalid settings value")
)

// DefaultUploadHost is the paste host used when none is configured.
const DefaultUploadHost = "https://x0.at"

// MaxURLLength bounds the upload host (browser limit).
const MaxURLLength = 2048

const (
	appDirName       = "go-md2overleaf"
	settingsFileName = "settings.yaml"
)

// Settings holds the two persisted user preferences.
type Settings struct {
	UploadHost string `yaml:"uploadHost"` // multipart upload endpoint
	AutoOpen   bool   `yaml:"autoOpen"`   // open the deep link after upload
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() *Settings {
	return &Settings{
		UploadHost: DefaultUploadHost,
		AutoOpen:   true,
	}
}

// Validate checks the upload host. An empty host is valid and means
// DefaultUploadHost.
func (s *Settings) Validate() error {
	host := strings.TrimSpace(s.UploadHost)
	if len(host) > MaxURLLength {
		return fmt.Errorf("%w: uploadHost (%d chars, max %d)", ErrFieldTooLong, len(host), MaxURLLength)
	}
	if host != "" && !fileutil.IsURL(host) {
		return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidUploadHost, host)
	}
	return nil
}

// Set updates one setting from its CLI spelling ("upload-host", "auto-open")
// or its file spelling ("uploadHost", "autoOpen").
func (s *Settings) Set(key, value string) error {
	switch key {
	case "upload-host", "uploadHost":
		next := *s
		next.UploadHost = strings.TrimSpace(value)
		if err := next.Validate(); err != nil {
			return err
		}
		*s = next
	case "auto-open", "autoOpen":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: auto-open expects true or false, got %q", ErrInvalidValue, value)
		}
		s.AutoOpen = b
	default:
		return fmt.Errorf("%w: %q (known: upload-host, auto-open)", ErrUnknownKey, key)
	}
	return nil
}

// DefaultPath returns <UserConfigDir>/go-md2overleaf/settings.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, settingsFileName), nil
}

// Store reads and writes Settings at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store for the given settings file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file and merges it over the defaults.
// A missing or empty file yields DefaultSettings.
func (s *Store) Load() (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.path) // #nosec G304 -- settings path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return settings, nil
	}

	if err := yamlutil.UnmarshalStrict(data, settings); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSettingsParse, s.path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save validates and writes settings, creating the parent directory.
func (s *Store) Save(settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := yamlutil.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return fileutil.WriteFile(s.path, string(data))
}
