package main

import (
	"context"
	"fmt"
	"time"

	"github.com/neilpattanaik/ParlayWatch/external/livefeed"
	"github.com/neilpattanaik/ParlayWatch/internal/dashboard"
	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Print every game once and exit",
	Long: `Fetch the live-matches API once and print the All Games listing.

Examples:
  dashboard games
  dashboard games --api-url http://localhost:5001/api/live-matches`,
	Args: cobra.NoArgs,
	RunE: runGames,
}

func runGames(cmd *cobra.Command, _ []string) error {
	cfg, err := loadClientConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout)
	defer cancel()

	client := livefeed.NewClient(livefeed.ClientConfig{URL: cfg.APIURL, Timeout: cfg.FetchTimeout})
	sports, err := client.FetchSports(ctx)
	if err != nil {
		return fmt.Errorf("fetch games: %w", err)
	}

	return dashboard.NewRenderer(time.Local).RenderGames(cmd.OutOrStdout(), sports, nil)
}
