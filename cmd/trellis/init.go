package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmorelli/trellis/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new site skeleton",
	Long:  "Scaffold a config, starter content, and a default layout into a new directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = dir
		}
		if err := scaffold.NewSite(dir, title); err != nil {
			return err
		}
		fmt.Printf("Created %s. Next steps:\n\n  cd %s\n  trellis serve\n", dir, dir)
		return nil
	},
}

func init() {
	initCmd.Flags().String("title", "", "site title (defaults to the directory name)")
	rootCmd.AddCommand(initCmd)
}
