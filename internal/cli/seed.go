package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beaver-systems/beaver/internal/seeder"
)

var (
	seedAPIKey   string
	seedCount    int
	seedChannels []string
	seedInterval time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo events",
	Long: `Ingest generated demo traffic through the public event endpoint.

The target channels must already exist in the api key's project.

Examples:
  beaverctl seed --api-key KEY --count 500
  beaverctl seed --api-key KEY --channels payments,errors --interval 100ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := seeder.Run(cmd.Context(), seeder.Options{
			BaseURL:  serverURL,
			APIKey:   seedAPIKey,
			Channels: seedChannels,
			Count:    seedCount,
			Interval: seedInterval,
		})
		if n > 0 {
			fmt.Printf("Ingested %d events\n", n)
		}
		return err
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAPIKey, "api-key", "", "project api key")
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "number of events")
	seedCmd.Flags().StringSliceVar(&seedChannels, "channels", nil, "channels to seed (default: built-in set)")
	seedCmd.Flags().DurationVar(&seedInterval, "interval", 0, "pause between events")
	seedCmd.MarkFlagRequired("api-key")
	rootCmd.AddCommand(seedCmd)
}
