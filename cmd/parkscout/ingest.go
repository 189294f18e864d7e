package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parkscout/parkscout"
	"github.com/parkscout/parkscout/infrastructure/persistence"
	"github.com/parkscout/parkscout/internal/log"
)

func ingestCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "ingest <seed-file>...",
		Short: "Load destination seed files and generate embeddings",
		Long: `Load one or more YAML seed files describing a destination's
attractions, restaurants, shows, and hotels, store the entities, and
generate embeddings for any that are new or changed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, envFile, args)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runIngest(cmd *cobra.Command, envFile string, paths []string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	client, err := parkscout.New(
		parkscout.WithAppConfig(cfg),
		parkscout.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	ctx := cmd.Context()
	for _, path := range paths {
		entities, err := persistence.LoadSeedFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}

		regenerated, err := client.SaveEntities(ctx, entities)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		slogger.Info("seed file ingested",
			slog.String("path", path),
			slog.Int("entities", len(entities)),
			slog.Int("embeddings_regenerated", regenerated),
		)
	}

	return nil
}
