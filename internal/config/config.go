// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for composer.
//
// Configuration is TOML with built-in defaults, environment variable
// overrides, and validation.
//
// Configuration file location:
//   - ~/.composer/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete composer configuration.
type Config struct {
	Version string `toml:"version"`

	UI     UIConfig     `toml:"ui"`
	Files  FilesConfig  `toml:"files"`
	Upload UploadConfig `toml:"upload"`
	Log    LogConfig    `toml:"log"`
}

// UIConfig contains composer display settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme"`
	// Language is a BCP 47 tag used for translated strings
	Language string `toml:"language"`
	// Mode is the initial chat mode: "chat" or "builder"
	Mode string `toml:"mode"`
	// MenuWidth is the mention popup width in columns
	MenuWidth int `toml:"menu_width"`
	// MenuMaxVisible is the number of suggestions shown at once
	MenuMaxVisible int `toml:"menu_max_visible"`
	// ResizeDebounceMs delays popup repositioning after a resize
	ResizeDebounceMs int `toml:"resize_debounce_ms"`
	// PreviewLines is the number of file lines previewed in the popup (0 = off)
	PreviewLines int `toml:"preview_lines"`
}

// FilesConfig contains virtual file table settings.
type FilesConfig struct {
	// Placeholder is the file seeded into folders created empty
	Placeholder string `toml:"placeholder"`
	// Initial files loaded when no snapshot exists
	Initial []files.Entry `toml:"initial"`
	// MirrorDir, when set, mirrors the table to disk
	MirrorDir string `toml:"mirror_dir"`
	// Watch reloads external edits made in MirrorDir
	Watch bool `toml:"watch"`
	// DatabasePath is the SQLite snapshot location (empty = ~/.composer/files.db)
	DatabasePath string `toml:"database_path"`
}

// UploadConfig contains image paste settings.
type UploadConfig struct {
	// Endpoint receives multipart image uploads (empty = uploads disabled)
	Endpoint string `toml:"endpoint"`
	// UseImage enables paste-to-upload
	UseImage bool `toml:"use_image"`
	// TimeoutSecs bounds a single upload request
	TimeoutSecs int `toml:"timeout_secs"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Path of the log file (empty = ~/.composer/composer.log)
	Path string `toml:"path"`
	// Level is debug, info, warn or error
	Level string `toml:"level"`
}

// ResizeDebounce returns the resize debounce as a duration.
func (u UIConfig) ResizeDebounce() time.Duration {
	return time.Duration(u.ResizeDebounceMs) * time.Millisecond
}

// Timeout returns the upload timeout as a duration.
func (u UploadConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",

		UI: UIConfig{
			Theme:            "auto",
			Language:         "en",
			Mode:             "chat",
			MenuWidth:        40,
			MenuMaxVisible:   8,
			ResizeDebounceMs: 100,
			PreviewLines:     6,
		},

		Files: FilesConfig{
			Placeholder: files.DefaultPlaceholder,
			Initial:     []files.Entry{{Path: "README.md", Content: ""}},
		},

		Upload: UploadConfig{
			UseImage:    true,
			TimeoutSecs: 30,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the composer configuration directory path.
func Dir() (string, error) {
	if dir := os.Getenv("COMPOSER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".composer"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath returns the configured snapshot path or the default one.
func (c *Config) DatabasePath() (string, error) {
	if c.Files.DatabasePath != "" {
		return c.Files.DatabasePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "files.db"), nil
}

// LogPath returns the configured log path or the default one.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "composer.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default path, falling back to defaults
// when the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	// Initial files in the file replace the defaults rather than merging with them.
	cfg.Files.Initial = nil

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if !md.IsDefined("files", "initial") {
		cfg.Files.Initial = Default().Files.Initial
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# composer configuration file\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{"ui.theme", "must be dark, light or auto"})
	}
	switch c.UI.Mode {
	case "chat", "builder":
	default:
		errs = append(errs, ValidationError{"ui.mode", "must be chat or builder"})
	}
	if c.UI.MenuWidth < 10 {
		errs = append(errs, ValidationError{"ui.menu_width", "must be at least 10"})
	}
	if c.UI.MenuMaxVisible < 1 {
		errs = append(errs, ValidationError{"ui.menu_max_visible", "must be at least 1"})
	}
	if c.UI.ResizeDebounceMs < 0 {
		errs = append(errs, ValidationError{"ui.resize_debounce_ms", "must not be negative"})
	}
	if c.UI.PreviewLines < 0 {
		errs = append(errs, ValidationError{"ui.preview_lines", "must not be negative"})
	}

	if c.Files.Placeholder == "" || strings.Contains(c.Files.Placeholder, "/") {
		errs = append(errs, ValidationError{"files.placeholder", "must be a plain file name"})
	}
	seen := make(map[string]bool, len(c.Files.Initial))
	for _, e := range c.Files.Initial {
		if e.Path == "" {
			errs = append(errs, ValidationError{"files.initial", "path must not be empty"})
			continue
		}
		if seen[e.Path] {
			errs = append(errs, ValidationError{"files.initial", "duplicate path " + e.Path})
		}
		seen[e.Path] = true
	}

	if c.Upload.Endpoint != "" {
		u, err := url.Parse(c.Upload.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{"upload.endpoint", "must be an http(s) URL"})
		}
	}
	if c.Upload.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{"upload.timeout_secs", "must be positive"})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"log.level", "must be debug, info, warn or error"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies COMPOSER_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COMPOSER_LANG"); v != "" {
		c.UI.Language = v
	}
	if v := os.Getenv("COMPOSER_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("COMPOSER_MIRROR_DIR"); v != "" {
		c.Files.MirrorDir = v
	}
	if v := os.Getenv("COMPOSER_DB"); v != "" {
		c.Files.DatabasePath = v
	}
	if v := os.Getenv("COMPOSER_UPLOAD_URL"); v != "" {
		c.Upload.Endpoint = v
	}
	if v := os.Getenv("COMPOSER_USE_IMAGE"); v != "" {
		c.Upload.UseImage = v == "1" || strings.ToLower(v) == "true"
	}
	if v := os.Getenv("COMPOSER_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.menu_width").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a scalar configuration value from its string form using dot notation.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: expected an integer: %w", key, err)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected a boolean: %w", key, err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%s: cannot set %s values", key, field.Kind())
	}
	return nil
}

// lookup resolves a dot-notation key to a settable field by its toml tag.
func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
