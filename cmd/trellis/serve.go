package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmorelli/trellis/internal/config"
	"github.com/jmorelli/trellis/internal/server"
	"github.com/jmorelli/trellis/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server",
	Long:  "Serve pages dynamically with watch-driven invalidation and live reload.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}
		if host, _ := cmd.Flags().GetString("bind"); host != "" {
			cfg.Server.Host = host
		}
		if noReload, _ := cmd.Flags().GetBool("no-live-reload"); noReload {
			cfg.Server.LiveReload = false
		}
		if eager, _ := cmd.Flags().GetBool("eager"); eager {
			cfg.Eager.Enabled = true
		}

		s, err := site.FromConfig(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if err := s.Discover(ctx); err != nil {
			// A partial site still serves; a site with no routes does not.
			if len(s.Sources()) == 0 {
				return fmt.Errorf("discovering content: %w", err)
			}
			log.Printf("warning: some origins failed discovery: %v", err)
		}
		if err := s.EagerLoad(ctx); err != nil {
			return err
		}

		srv := server.New(s, server.Options{
			Host:       cfg.Server.Host,
			Port:       cfg.Server.Port,
			LiveReload: cfg.Server.LiveReload,
		})

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Println("\nShutting down...")
			cancel()
		}()

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().String("bind", "", "bind address (overrides config)")
	serveCmd.Flags().Bool("no-live-reload", false, "disable live reload")
	serveCmd.Flags().Bool("eager", false, "enable eager loading and the pages index")

	rootCmd.AddCommand(serveCmd)
}
