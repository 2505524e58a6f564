package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "palabra", version)
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fmt.Fprintln(w, "go     ", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision", "vcs.time", "vcs.modified":
				fmt.Fprintf(w, "%-7s %s\n", s.Key[len("vcs."):], s.Value)
			}
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Also print Go and VCS build details")
}
