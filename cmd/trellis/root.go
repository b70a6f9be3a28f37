package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trellis",
	Short: "A content discovery and page-build pipeline",
	Long:  "Trellis discovers content from local, remote, and in-memory origins and builds it into a routable site, served dynamically or flattened to static output.",
}

func init() {
	rootCmd.PersistentFlags().String("config", "trellis.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
