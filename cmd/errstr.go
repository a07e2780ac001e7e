package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/oclhelpers/ocl"
	"github.com/spf13/cobra"
)

var errstrCmd = &cobra.Command{
	Use:   "errstr <code>... | --all",
	Short: "Translate OpenCL status codes into names",
	Long: `Prints the symbolic name of each OpenCL status code. Codes may be given in
decimal or with a 0x prefix; negative codes are accepted as-is (e.g. "errstr -11")
and 32-bit hex values such as 0xfffffff5 are read as the signed cl_int.
With --all the whole table is printed.`,
	// Flag parsing is done here so that negative codes are not mistaken for
	// shorthand flags.
	DisableFlagParsing: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flagArgs, _, err := splitRootFlags(args)
		if err != nil {
			return err
		}
		if err := rootCmd.PersistentFlags().Parse(flagArgs); err != nil {
			return err
		}
		return initCommand(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rest, err := splitRootFlags(args)
		if err != nil {
			return err
		}
		all, help, codes, err := parseErrstrArgs(rest)
		if err != nil {
			return err
		}
		if help {
			return cmd.Help()
		}
		if all {
			return writeStatusTable(cmd.OutOrStdout())
		}
		return writeCodes(cmd.OutOrStdout(), codes)
	},
}

func init() {
	rootCmd.AddCommand(errstrCmd)
}

// splitRootFlags separates the root persistent flags (--log-level debug,
// --config=x.yaml, ...) from the remaining arguments.
func splitRootFlags(args []string) (flagArgs []string, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			rest = append(rest, arg)
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		flag := rootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			rest = append(rest, arg)
			continue
		}

		flagArgs = append(flagArgs, arg)
		if hasValue || flag.NoOptDefVal != "" {
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag needs an argument: --%s", name)
		}
		i++
		flagArgs = append(flagArgs, args[i])
	}
	return flagArgs, rest, nil
}

func parseErrstrArgs(args []string) (all bool, help bool, codes []int, err error) {
	for _, arg := range args {
		switch arg {
		case "--all", "-a":
			all = true
			continue
		case "--help", "-h":
			help = true
			continue
		}

		code, err := parseStatusCode(arg)
		if err != nil {
			return false, false, nil, err
		}
		codes = append(codes, code)
	}

	if !all && !help && len(codes) == 0 {
		return false, false, nil, fmt.Errorf("expected at least one status code or --all")
	}
	return all, help, codes, nil
}

// parseStatusCode accepts decimal or 0x-prefixed codes. Values in the upper
// half of the uint32 range are the two's complement form printed by
// Status.Error and are read back as negative cl_int values.
func parseStatusCode(arg string) (int, error) {
	code, err := strconv.ParseInt(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid status code %q", arg)
	}
	if code > math.MaxInt32 && code <= math.MaxUint32 {
		code = int64(int32(uint32(code)))
	}
	if code < math.MinInt32 || code > math.MaxInt32 {
		return 0, fmt.Errorf("status code %q does not fit a cl_int", arg)
	}
	return int(code), nil
}

func writeCodes(w io.Writer, codes []int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, code := range codes {
		fmt.Fprintf(tw, "%d\t%s\n", code, ocl.ErrorString(code))
	}
	return tw.Flush()
}

func writeStatusTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME")
	for _, status := range ocl.KnownStatuses() {
		fmt.Fprintf(tw, "%d\t%s\n", int32(status), status.String())
	}
	return tw.Flush()
}
