// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Style
	Style     string `json:"style,omitempty"`      // Built-in style profile name
	StyleFile string `json:"style_file,omitempty"` // Path to a YAML or JSON style profile
	Template  string `json:"template,omitempty"`   // Path to a LaTeX template for tex output

	// Output
	Format string `json:"format,omitempty"` // pdf, docx or tex
	Out    string `json:"out,omitempty"`    // Output file or directory

	// Limits
	MaxPages    int `json:"max_pages,omitempty"`   // Page budget checked by validate
	Concurrency int `json:"concurrency,omitempty"` // Parallel renders in batch mode

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print a layout summary
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// formats accepted in config files; the rendering package owns the aliases
var formats = map[string]bool{"": true, "pdf": true, "docx": true, "word": true, "tex": true, "latex": true}

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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Style != "" && c.StyleFile != "" {
		return fmt.Errorf("config error: 'style' and 'style_file' are mutually exclusive")
	}

	if !formats[c.Format] {
		return fmt.Errorf("config error: unknown 'format' %q", c.Format)
	}

	if c.MaxPages < 0 {
		return fmt.Errorf("config error: 'max_pages' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	if c.StyleFile != "" {
		if _, err := os.Stat(c.StyleFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: style file not found: %s", c.StyleFile)
		}
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Style == "" && result.StyleFile == "" {
		result.Style = defaults.Style
		result.StyleFile = defaults.StyleFile
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
