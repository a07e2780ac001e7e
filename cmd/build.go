package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cwbudde/oclhelpers/internal/report"
	"github.com/cwbudde/oclhelpers/ocl"
	"github.com/spf13/cobra"
)

var (
	buildDevice   string
	buildPlatform string
	buildOptions  string
	saveReport    bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile an OpenCL kernel source file",
	Long: `Builds the kernel source file for the selected device and lists the kernels it
defines. When the build fails the native compiler log is printed and the command
exits with a non-zero status.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDevice, "device", "default", "Device type: gpu, cpu, accel, all, default")
	buildCmd.Flags().StringVar(&buildPlatform, "platform", "", "Use the first platform whose name contains this string")
	buildCmd.Flags().StringVar(&buildOptions, "options", "", "Options passed to the OpenCL compiler")
	buildCmd.Flags().BoolVar(&saveReport, "save-report", false, "Store a build report in the report directory")
	rootCmd.AddCommand(buildCmd)
}

// buildSettings resolves the build flags over the loaded configuration.
func buildSettings(cmd *cobra.Command) (ocl.Selection, string, error) {
	device, platform, options := cfg.Device, cfg.Platform, cfg.BuildOptions
	flags := cmd.Flags()
	if flags.Changed("device") {
		device = buildDevice
	}
	if flags.Changed("platform") {
		platform = buildPlatform
	}
	if flags.Changed("options") {
		options = buildOptions
	}

	typ, err := ocl.ParseDeviceType(device)
	if err != nil {
		return ocl.Selection{}, "", err
	}
	return ocl.Selection{Platform: platform, Device: typ}, options, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	filename := args[0]

	sel, options, err := buildSettings(cmd)
	if err != nil {
		return err
	}

	rt, err := newRuntime(options)
	if err != nil {
		return err
	}

	slog.Info("Building kernel source", "file", filename, "selection", sel.String(), "options", options)

	rep := report.New(filename, ocl.ReadKernelFromFile(filename), options)
	start := time.Now()
	compiled, err := rt.CompileFile(filename, sel)
	elapsed := time.Since(start)

	if err != nil {
		rep.Failed(err, elapsed)
		if saveReport {
			storeReport(cmd.ErrOrStderr(), rep)
		}
		return buildFailure(cmd.ErrOrStderr(), filename, err)
	}
	defer compiled.Release()

	kernels, err := compiled.Program.KernelNames()
	if err != nil {
		return fmt.Errorf("failed to list kernels: %w", err)
	}
	rep.Succeeded(compiled, kernels, elapsed)

	writeBuildSummary(cmd.OutOrStdout(), rep)
	if saveReport {
		storeReport(cmd.OutOrStdout(), rep)
	}
	return nil
}

// buildFailure prints the compiler log, if any, and returns the error the
// command exits with.
func buildFailure(w io.Writer, filename string, err error) error {
	log := ocl.BuildLog(err)
	if log == "" {
		return fmt.Errorf("build of %s failed: %w", filename, err)
	}

	fmt.Fprintf(w, "Build log for %s:\n%s\n", filename, strings.TrimRight(log, "\n"))
	if status, ok := ocl.StatusOf(err); ok {
		return fmt.Errorf("build of %s failed: %s", filename, status.String())
	}
	return fmt.Errorf("build of %s failed", filename)
}

func writeBuildSummary(w io.Writer, rep *report.Report) {
	fmt.Fprintf(w, "Built %s for %s (%s) on %s in %s\n",
		rep.Source,
		rep.Device,
		rep.DeviceType,
		rep.Platform,
		rep.Duration.Round(time.Microsecond),
	)
	if rep.Options != "" {
		fmt.Fprintf(w, "Options: %s\n", rep.Options)
	}
	if len(rep.Kernels) == 0 {
		fmt.Fprintln(w, "No kernels defined.")
		return
	}
	fmt.Fprintf(w, "Kernels (%d):\n", len(rep.Kernels))
	for _, name := range rep.Kernels {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

// storeReport saves rep under the configured report directory. A failure to
// save is logged but does not change the outcome of the build.
func storeReport(w io.Writer, rep *report.Report) {
	store, err := report.NewFSStore(cfg.ReportDir)
	if err != nil {
		slog.Error("Failed to open report store", "dir", cfg.ReportDir, "error", err)
		return
	}
	if err := store.Save(rep); err != nil {
		slog.Error("Failed to save build report", "id", rep.ID, "error", err)
		return
	}
	fmt.Fprintf(w, "Report saved: %s\n", rep.ID)
}
