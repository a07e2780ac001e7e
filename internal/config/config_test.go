package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/oclhelpers/ocl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oclhelpers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, ocl.DeviceTypeDefault, cfg.DeviceType())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
log_format: text
device: cpu
platform: Portable
build_options: -cl-fast-relaxed-math
report_dir: /var/lib/oclhelpers
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ocl.DeviceTypeCPU, cfg.DeviceType())
	assert.Equal(t, "Portable", cfg.Platform)
	assert.Equal(t, "-cl-fast-relaxed-math", cfg.BuildOptions)
	assert.Equal(t, "/var/lib/oclhelpers", cfg.ReportDir)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "device: gpu\n"))
	require.NoError(t, err)
	assert.Equal(t, "gpu", cfg.Device)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./data", cfg.ReportDir)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"unknown key", "log_levle: debug\n"},
		{"bad level", "log_level: verbose\n"},
		{"bad format", "log_format: xml\n"},
		{"bad device", "device: fpga\n"},
		{"empty report dir", "report_dir: \"\"\n"},
		{"malformed", "device: [gpu\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.contents))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
