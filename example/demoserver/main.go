// Command demoserver runs a small content site that embeds the search/filter
// shortcode: a search page backed by a Postgres content query, the default
// stylesheet, and a health endpoint. The seed subcommand bootstraps the schema
// and loads demo content.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "demoserver",
		Short:         "Demo content site embedding the search/filter shortcode",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCommand(), seedCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the demo HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

			pool, err := openPool(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			server, err := NewServer(cfg, pool, logger)
			if err != nil {
				return err
			}

			logger.Info("demo server listening", "addr", cfg.Listen.Addr)

			return server.Run(cfg.Listen.Addr)
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo schema and load demo content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			pool, err := openPool(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := Seed(cmd.Context(), pool); err != nil {
				return err
			}

			fmt.Println("demo schema and content created")

			return nil
		},
	}
}

func openPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url failed: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres failed: %w", err)
	}

	return pool, nil
}
