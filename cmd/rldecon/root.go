package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rldecon",
	Short: "Richardson-Lucy deconvolution for microscopy images",
	Long: `rldecon removes blur from microscopy frames given a measured
point-spread function. Use "file" for single images and "run" for
batch processing of an acquisition tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}
