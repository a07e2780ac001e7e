package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/oclhelpers/ocl"
	"github.com/spf13/cobra"
)

var platformsJSON bool

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List OpenCL platforms and their devices",
	Long:  `Enumerates every OpenCL platform visible to the ICD loader together with all of its devices.`,
	Args:  cobra.NoArgs,
	RunE:  runPlatforms,
}

func init() {
	platformsCmd.Flags().BoolVar(&platformsJSON, "json", false, "Print the inventory as JSON")
	rootCmd.AddCommand(platformsCmd)
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cfg.BuildOptions)
	if err != nil {
		return err
	}

	inventory, err := rt.Inventory()
	if err != nil {
		return fmt.Errorf("failed to enumerate platforms: %w", err)
	}
	slog.Debug("Enumerated platforms", "count", len(inventory))

	if platformsJSON {
		return writeInventoryJSON(cmd.OutOrStdout(), inventory)
	}
	return writeInventory(cmd.OutOrStdout(), inventory)
}

func writeInventoryJSON(w io.Writer, inventory []ocl.PlatformSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(inventory)
}

// writeInventory prints one block per platform followed by a device table.
func writeInventory(w io.Writer, inventory []ocl.PlatformSummary) error {
	for i, p := range inventory {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Platform %d: %s\n", i, p.Name)
		fmt.Fprintf(w, "  Vendor:  %s\n", p.Vendor)
		fmt.Fprintf(w, "  Version: %s\n", p.Version)
		if p.Profile != "" {
			fmt.Fprintf(w, "  Profile: %s\n", p.Profile)
		}

		if len(p.Devices) == 0 {
			fmt.Fprintln(w, "  No devices.")
			continue
		}

		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  #\tDEVICE\tTYPE\tUNITS\tWORK GROUP\tGLOBAL MEM\tLOCAL MEM\tAVAILABLE")
		for j, d := range p.Devices {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
				j,
				d.Name,
				d.Type,
				d.MaxComputeUnits,
				d.MaxWorkGroupSize,
				formatBytes(int64(d.GlobalMemSize)),
				formatBytes(int64(d.LocalMemSize)),
				strconv.FormatBool(d.Available),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
