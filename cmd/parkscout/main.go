// Package main is the entry point for the parkscout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parkscout/parkscout/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parkscout",
		Short: "Semantic search over theme-park destination data",
		Long:  `Parkscout indexes destination attractions, restaurants, shows, and hotels and serves natural-language search over MCP.`,
	}

	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(ingestCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
