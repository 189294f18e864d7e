package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parkscout/parkscout"
	"github.com/parkscout/parkscout/domain/search"
	"github.com/parkscout/parkscout/internal/log"
)

func searchCmd() *cobra.Command {
	var (
		envFile       string
		entityType    string
		destinationID string
		limit         int
		minScore      float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stored entities from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, envFile, strings.Join(args, " "), entityType, destinationID, limit, minScore)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&entityType, "type", "", "Filter by entity type (ATTRACTION, RESTAURANT, SHOW, HOTEL)")
	cmd.Flags().StringVar(&destinationID, "destination", "", "Filter by destination ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of results to return")
	cmd.Flags().Float64Var(&minScore, "min-score", -1, "Minimum similarity score between 0 and 1")

	return cmd
}

func runSearch(cmd *cobra.Command, envFile, query, entityType, destinationID string, limit int, minScore float64) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
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

	var opts []search.Option
	if entityType != "" {
		opts = append(opts, search.WithEntityType(entityType))
	}
	if destinationID != "" {
		opts = append(opts, search.WithDestination(destinationID))
	}
	if limit > 0 {
		opts = append(opts, search.WithLimit(limit))
	}
	if minScore >= 0 {
		opts = append(opts, search.WithMinScore(minScore))
	}

	results, err := client.Search(cmd.Context(), query, opts...)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	for _, r := range results {
		e := r.Entity()
		fmt.Printf("%.3f  %-10s  %s", r.Score(), e.EntityType(), e.Name())
		if e.ParkName() != "" {
			fmt.Printf("  (%s)", e.ParkName())
		}
		fmt.Println()
	}

	return nil
}
