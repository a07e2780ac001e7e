// Package config loads the oclhelpers YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cwbudde/oclhelpers/ocl"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by all commands. Command-line flags
// override whatever the file provides.
type Config struct {
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	Device       string `yaml:"device"`
	Platform     string `yaml:"platform"`
	BuildOptions string `yaml:"build_options"`
	ReportDir    string `yaml:"report_dir"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Device:    "default",
		ReportDir: "./data",
	}
}

// Load reads the file at path on top of DefaultConfig. An empty path yields
// the defaults; a path that cannot be read is an error. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q (want json or text)", c.LogFormat)
	}
	if _, err := ocl.ParseDeviceType(c.Device); err != nil {
		return err
	}
	if c.ReportDir == "" {
		return errors.New("report_dir cannot be empty")
	}
	return nil
}

// DeviceType returns the configured device as an ocl.DeviceType.
func (c Config) DeviceType() ocl.DeviceType {
	t, err := ocl.ParseDeviceType(c.Device)
	if err != nil {
		return ocl.DeviceTypeUnknown
	}
	return t
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
