package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwbudde/oclhelpers/internal/config"
)

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	c := config.DefaultConfig()

	newLogger(&buf, c).Info("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("Expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	c.LogFormat = "text"
	newLogger(&buf, c).Info("hello", "k", 1)
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("Expected text output, got %q", buf.String())
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	c := config.DefaultConfig()
	c.LogLevel = "warn"

	logger := newLogger(&buf, c)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Warn should be enabled at warn level")
	}
}

func TestVersionCommand(t *testing.T) {
	resetCommandState(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := buf.String(); got != "oclhelpers version "+version+"\n" {
		t.Errorf("Output = %q", got)
	}
}

func TestErrstrCommandNegativeCode(t *testing.T) {
	resetCommandState(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"errstr", "-11", "-30"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("errstr failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "CL_BUILD_PROGRAM_FAILURE") || !strings.Contains(out, "CL_INVALID_VALUE") {
		t.Errorf("Unexpected output %q", out)
	}
}
