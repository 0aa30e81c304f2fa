// Package config loads and validates the mdnotes YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdnotes/internal/dateutil"
	"github.com/alnah/go-mdnotes/internal/fileutil"
	"github.com/alnah/go-mdnotes/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under os.UserConfigDir holding config files
// and the default note database.
const AppDirName = "go-mdnotes"

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxStyleLength   = 256
	MaxDurationLen   = 20
	MaxAddrLength    = 255
	MaxEnumLength    = 20
	MaxWordWrap      = 500
	MinPageMarginMM  = 5.0
	MaxPageMarginMM  = 50.0
	DefaultMarginMM  = 15.0
	DefaultWordWrap  = 80
	DefaultTimeout   = 30 * time.Second
	DefaultAddr      = "127.0.0.1:8484"
	DefaultGlamour   = "dracula"
	DefaultStyleName = "default"
)

// Enumerated values accepted by Validate.
var (
	StoreDrivers  = []string{"sqlite", "memory"}
	ExportFormats = []string{"html", "word", "pdf", "markdown"}
	PageSizes     = []string{"a4", "letter", "legal"}
	GlamourStyles = []string{"ascii", "auto", "dark", "dracula", "light", "notty", "pink", "tokyo-night"}
)

// Config holds all mdnotes settings.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Export  ExportConfig  `yaml:"export"`
	Page    PageConfig    `yaml:"page"`
	Display DisplayConfig `yaml:"display"`
	Preview PreviewConfig `yaml:"preview"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// StoreConfig selects where notes live.
type StoreConfig struct {
	Path   string `yaml:"path"`   // sqlite file (empty = <user config dir>/go-mdnotes/notes.db)
	Driver string `yaml:"driver"` // "sqlite" or "memory"
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = current directory
	Format     string `yaml:"format"`
	Style      string `yaml:"style"`   // style name, CSS file path or raw CSS
	Timeout    string `yaml:"timeout"` // Go duration, PDF only
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size   string  `yaml:"size"`
	Margin float64 `yaml:"margin"` // millimeters
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	DateFormat   string `yaml:"dateFormat"`
	GlamourStyle string `yaml:"glamourStyle"`
	WordWrap     int    `yaml:"wordWrap"`
}

// PreviewConfig controls the local preview server.
type PreviewConfig struct {
	Addr     string `yaml:"addr"`
	Sanitize bool   `yaml:"sanitize"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// DefaultConfig returns the settings used when no config file is given.
// LoadConfig decodes files on top of these values.
func DefaultConfig() *Config {
	return &Config{
		Store:   StoreConfig{Driver: "sqlite"},
		Export:  ExportConfig{Format: "html", Style: DefaultStyleName, Timeout: DefaultTimeout.String()},
		Page:    PageConfig{Size: "a4", Margin: DefaultMarginMM},
		Display: DisplayConfig{DateFormat: dateutil.DefaultDateFormat, GlamourStyle: DefaultGlamour, WordWrap: DefaultWordWrap},
		Preview: PreviewConfig{Addr: DefaultAddr, Sanitize: true},
	}
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"store.path", c.Store.Path, MaxPathLength},
		{"export.defaultDir", c.Export.DefaultDir, MaxPathLength},
		{"export.style", c.Export.Style, MaxStyleLength},
		{"export.timeout", c.Export.Timeout, MaxDurationLen},
		{"preview.addr", c.Preview.Addr, MaxAddrLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"page.size", c.Page.Size, MaxEnumLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	enums := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"store.driver", c.Store.Driver, StoreDrivers},
		{"export.format", c.Export.Format, ExportFormats},
		{"page.size", c.Page.Size, PageSizes},
		{"display.glamourStyle", c.Display.GlamourStyle, GlamourStyles},
	}
	for _, e := range enums {
		if err := validateEnum(e.field, e.value, e.allowed); err != nil {
			return err
		}
	}

	if c.Export.Timeout != "" {
		d, err := time.ParseDuration(c.Export.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: export.timeout %q (must be a positive duration like 45s)", ErrInvalidValue, c.Export.Timeout)
		}
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinPageMarginMM || c.Page.Margin > MaxPageMarginMM) {
		return fmt.Errorf("%w: page.margin %.1f (must be between %.0f and %.0f mm)", ErrInvalidValue, c.Page.Margin, MinPageMarginMM, MaxPageMarginMM)
	}
	if c.Display.DateFormat != "" {
		if _, err := dateutil.ResolveFormat(c.Display.DateFormat); err != nil {
			return fmt.Errorf("display.dateFormat: %w", err)
		}
	}
	if c.Display.WordWrap < 0 || c.Display.WordWrap > MaxWordWrap {
		return fmt.Errorf("%w: display.wordWrap %d (must be between 0 and %d)", ErrInvalidValue, c.Display.WordWrap, MaxWordWrap)
	}

	return nil
}

// ExportTimeout returns the parsed export timeout, or DefaultTimeout when unset.
func (c *Config) ExportTimeout() time.Duration {
	d, err := time.ParseDuration(c.Export.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// StorePath returns the configured database path, or the default location
// under the user config directory.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, "notes.db"), nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed (case-insensitive).
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched with SearchPaths.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists, in lookup order, the files LoadConfig tries for a name:
// <name>.yaml and <name>.yml in the working directory, then in the
// user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
