package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/oclhelpers/internal/report"
	"github.com/spf13/cobra"
)

var (
	keepLast      int
	olderThanDays int
	forceClean    bool
	showJSON      bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage stored build reports",
	Long: `Manage the build reports written by "build --save-report", including listing,
inspecting and cleaning old reports.`,
}

var listReportsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored build reports",
	Long:  `Display all build reports with their ID, timestamp, source file, device, outcome and size on disk.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := report.NewFSStore(cfg.ReportDir)
		if err != nil {
			return fmt.Errorf("failed to create report store: %w", err)
		}
		return listReports(cmd.OutOrStdout(), store)
	},
}

var showReportCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one build report including its compiler log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := report.NewFSStore(cfg.ReportDir)
		if err != nil {
			return fmt.Errorf("failed to create report store: %w", err)
		}
		rep, err := store.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load report: %w", err)
		}
		if showJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		writeReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

var cleanReportsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old build reports",
	Long: `Delete old build reports based on retention policy.
You can keep only the newest N reports and/or delete reports older than N days.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keepLast == 0 && olderThanDays == 0 {
			return fmt.Errorf("must specify either --keep-last or --older-than")
		}
		store, err := report.NewFSStore(cfg.ReportDir)
		if err != nil {
			return fmt.Errorf("failed to create report store: %w", err)
		}
		return cleanReports(cmd.InOrStdin(), cmd.OutOrStdout(), store, keepLast, olderThanDays, forceClean)
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)

	reportsCmd.AddCommand(listReportsCmd)
	reportsCmd.AddCommand(showReportCmd)
	reportsCmd.AddCommand(cleanReportsCmd)

	showReportCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw report as JSON")

	cleanReportsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N reports (0 = keep all)")
	cleanReportsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete reports older than N days (0 = no age limit)")
	cleanReportsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func listReports(w io.Writer, store *report.FSStore) error {
	infos, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No build reports found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIMESTAMP\tSOURCE\tDEVICE\tRESULT\tSIZE")
	fmt.Fprintln(tw, "--\t---------\t------\t------\t------\t----")

	for _, info := range infos {
		sizeStr := "unknown"
		if size, err := getDirSize(store.Dir(info.ID)); err == nil {
			sizeStr = formatBytes(size)
		}

		device := info.Device
		if device == "" {
			device = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(info.ID),
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Source,
			device,
			outcome(info.Success),
			sizeStr,
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal reports: %d\n", len(infos))
	return nil
}

func writeReport(w io.Writer, rep *report.Report) {
	fmt.Fprintf(w, "ID:        %s\n", rep.ID)
	fmt.Fprintf(w, "Source:    %s\n", rep.Source)
	if rep.SourceSHA256 != "" {
		fmt.Fprintf(w, "SHA-256:   %s\n", rep.SourceSHA256)
	}
	fmt.Fprintf(w, "Timestamp: %s\n", rep.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:  %s\n", rep.Duration)
	fmt.Fprintf(w, "Result:    %s\n", outcome(rep.Success))
	if rep.Platform != "" {
		fmt.Fprintf(w, "Platform:  %s\n", rep.Platform)
	}
	if rep.Device != "" {
		fmt.Fprintf(w, "Device:    %s (%s)\n", rep.Device, rep.DeviceType)
	}
	if rep.Options != "" {
		fmt.Fprintf(w, "Options:   %s\n", rep.Options)
	}
	if len(rep.Kernels) > 0 {
		fmt.Fprintf(w, "Kernels:   %s\n", strings.Join(rep.Kernels, ", "))
	}
	if rep.Status != "" {
		fmt.Fprintf(w, "Status:    %s\n", rep.Status)
	}
	if rep.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", firstLine(rep.Error))
	}
	if rep.Log != "" {
		fmt.Fprintf(w, "\nBuild log:\n%s\n", strings.TrimRight(rep.Log, "\n"))
	}
}

func cleanReports(in io.Reader, w io.Writer, store *report.FSStore, keepLast, olderThanDays int, force bool) error {
	infos, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No reports to clean.")
		return nil
	}

	toDelete := report.SelectForDeletion(infos, keepLast, olderThanDays, time.Now())
	if len(toDelete) == 0 {
		fmt.Fprintln(w, "No reports match deletion criteria.")
		return nil
	}

	fmt.Fprintf(w, "Found %d report(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Fprintf(w, "  - %s (%s, %s)\n",
			shortID(info.ID),
			info.Source,
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	if !force {
		fmt.Fprint(w, "\nProceed with deletion? [y/N]: ")
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := store.Delete(info.ID); err != nil {
			slog.Error("Failed to delete build report", "id", info.ID, "error", err)
			failed++
		} else {
			slog.Info("Deleted build report", "id", info.ID)
			deleted++
		}
	}

	fmt.Fprintf(w, "\nDeleted %d report(s), %d failed.\n", deleted, failed)
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

func outcome(success bool) string {
	if success {
		return "ok"
	}
	return "failed"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
