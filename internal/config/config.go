// Package config provides configuration loading for the server and the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/cv-builder/internal/rendering"
	"golang.org/x/text/language"
)

// DefaultPort is the HTTP port used when none is configured.
const DefaultPort = 8080

// Config represents the settings that can be loaded from a JSON file.
// All fields are optional; flags and environment variables fill the gaps.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL; in-memory storage when empty
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for the shared delete guard

	// Server
	Port int `json:"port,omitempty"`

	// Export
	Locale        string   `json:"locale,omitempty"`         // BCP 47 tag for section labels and dates
	ChromePath    string   `json:"chrome_path,omitempty"`    // Chrome/Chromium binary for PDF export
	PDFEngine     string   `json:"pdf_engine,omitempty"`     // "chrome" (default) or "latex"
	LaTeXTemplate string   `json:"latex_template,omitempty"` // Path to a custom LaTeX template
	OutputDir     string   `json:"output_dir,omitempty"`     // Directory for CLI exports
	Formats       []string `json:"formats,omitempty"`        // Default CLI export formats

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the settings carried by environment variables.
func FromEnv() (Config, error) {
	port, err := envInt("PORT", 0)
	if err != nil {
		return Config{}, err
	}
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Port:        port,
		Locale:      os.Getenv("RESUME_LOCALE"),
		ChromePath:  os.Getenv("CHROME_PATH"),
		PDFEngine:   os.Getenv("PDF_ENGINE"),
	}, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			return fmt.Errorf("config error: invalid locale %q: %w", c.Locale, err)
		}
	}

	if _, err := rendering.ParsePDFEngine(c.PDFEngine); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.LaTeXTemplate != "" {
		if _, err := os.Stat(c.LaTeXTemplate); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.LaTeXTemplate)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file and environment values beneath CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.PDFEngine == "" {
		result.PDFEngine = defaults.PDFEngine
	}
	if result.LaTeXTemplate == "" {
		result.LaTeXTemplate = defaults.LaTeXTemplate
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if len(result.Formats) == 0 {
		result.Formats = append([]string(nil), defaults.Formats...)
	}

	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// envInt reads an integer environment variable, returning def when unset.
func envInt(name string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}
