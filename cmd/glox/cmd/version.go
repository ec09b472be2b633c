package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the glox release version; overridden at build time via
// -ldflags "-X github.com/sdecook/glox/cmd/glox/cmd.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the glox version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("glox version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
