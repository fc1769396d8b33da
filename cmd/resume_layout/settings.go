package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/style"
)

// defaults apply after the config file and the flags
var defaults = config.Config{
	Style:       style.DefaultName,
	Format:      string(rendering.FormatPDF),
	Concurrency: 4,
}

// resolveConfig layers flags over the --config file over defaults.
func resolveConfig(flags config.Config) (config.Config, error) {
	var file config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		file = *loaded
		if flags.Verbose || file.Verbose {
			log.Printf("[config] loaded %s", configPath)
		}
	}

	cfg := flags.MergeWithDefaults(file)
	cfg.Verbose = flags.Verbose || file.Verbose
	cfg = cfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveStyle loads the profile a config selects.
func resolveStyle(cfg config.Config) (*style.Profile, error) {
	if cfg.StyleFile != "" {
		return style.Load(cfg.StyleFile)
	}
	return style.Builtin(cfg.Style)
}

// renderOptions turns config and flag values into rendering options.
func renderOptions(cfg config.Config, created string) ([]rendering.Option, error) {
	var opts []rendering.Option
	if cfg.Template != "" {
		opts = append(opts, rendering.WithTemplate(cfg.Template))
	}
	if created != "" {
		t, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("invalid --created date (want RFC 3339): %w", err)
		}
		opts = append(opts, rendering.WithCreationDate(t))
	}
	return opts, nil
}

// outputPath decides where a document is written. An empty out writes to the
// working directory; an existing directory receives fileName.
func outputPath(out, fileName string) string {
	if out == "" {
		return fileName
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, fileName)
	}
	return out
}

// writeFile writes data, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
