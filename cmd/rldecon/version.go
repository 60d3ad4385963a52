package main

import (
	"github.com/spf13/cobra"
)

// Version information (set by build)
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("rldecon version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
