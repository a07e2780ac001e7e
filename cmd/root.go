package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cwbudde/oclhelpers/internal/config"
	"github.com/cwbudde/oclhelpers/ocl"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	reportDir  string

	// cfg is the configuration after flag overrides, resolved in PersistentPreRunE.
	cfg    = config.DefaultConfig()
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "oclhelpers",
	Short: "Inspect OpenCL platforms and compile kernels",
	Long: `oclhelpers enumerates OpenCL platforms and devices, compiles kernel
source files for a chosen device, translates OpenCL status codes and keeps
reports of past builds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// initCommand resolves the configuration and installs the logger before any
// command runs.
func initCommand(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyRootFlags(&loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger = newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return nil
}

func init() {
	rootCmd.PersistentPreRunE = initCommand

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "./data", "Base directory for build reports")
}

// applyRootFlags copies the persistent flags the user set explicitly over
// the loaded configuration.
func applyRootFlags(c *config.Config) {
	flags := rootCmd.PersistentFlags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}
	if flags.Changed("report-dir") {
		c.ReportDir = reportDir
	}
}

// newLogger builds the slog handler selected by c. Logs go to w so that
// command output on stdout stays machine readable.
func newLogger(w io.Writer, c config.Config) *slog.Logger {
	level, err := config.ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(c.LogFormat, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// newRuntime opens the OpenCL runtime builds and listings run on. Tests
// replace it with a runtime over an in-memory driver.
var newRuntime = func(buildOptions string) (*ocl.Runtime, error) {
	rt, err := ocl.NewNative(
		ocl.WithLogger(slog.Default()),
		ocl.WithBuildOptions(buildOptions),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open OpenCL runtime: %w", err)
	}
	return rt, nil
}
