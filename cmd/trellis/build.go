package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmorelli/trellis/internal/config"
	"github.com/jmorelli/trellis/internal/router"
	"github.com/jmorelli/trellis/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	Long:  "Discover all content origins, build every page, and write the static output.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.OutputDir = out
		}
		if eager, _ := cmd.Flags().GetBool("eager"); eager {
			cfg.Eager.Enabled = true
		}

		s, err := site.FromConfig(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := s.Discover(ctx); err != nil {
			return fmt.Errorf("discovering content: %w", err)
		}
		if err := s.EagerLoad(ctx); err != nil {
			return err
		}

		result, err := router.Generate(ctx, s, cfg.OutputDir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d page(s) in %s\n",
			len(result.Written), result.Duration.Round(time.Millisecond))
		for url, pageErr := range result.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "  failed %s: %v\n", url, pageErr)
		}
		return result.Err()
	},
}

func init() {
	buildCmd.Flags().String("output", "", "output directory (overrides config)")
	buildCmd.Flags().Bool("eager", false, "enable eager loading and the pages index")

	rootCmd.AddCommand(buildCmd)
}
