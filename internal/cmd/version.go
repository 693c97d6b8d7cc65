package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for build, Go, Gofulmen and Crucible versions.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeVersion(cmd.OutOrStdout(), binaryName(), extended)
		return nil
	},
}

func binaryName() string {
	if identity := GetAppIdentity(); identity != nil && identity.BinaryName != "" {
		return identity.BinaryName
	}
	return "xtractor"
}

func writeVersion(w io.Writer, name string, full bool) {
	_, _ = fmt.Fprintf(w, "%s %s\n", name, versionInfo.Version)
	if !full {
		return
	}

	version := crucible.GetVersion()
	_, _ = fmt.Fprintf(w, "Commit:   %s\n", versionInfo.Commit)
	_, _ = fmt.Fprintf(w, "Built:    %s\n", versionInfo.BuildDate)
	_, _ = fmt.Fprintf(w, "Go:       %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(w, "Gofulmen: %s\n", version.Gofulmen)
	_, _ = fmt.Fprintf(w, "Crucible: %s\n", version.Crucible)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
}
