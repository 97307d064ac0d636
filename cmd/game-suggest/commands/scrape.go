package commands

import (
	"log/slog"
	"time"

	"github.com/JuanchoGithub/game-suggest/lib/serviceutil"

	"github.com/spf13/cobra"
)

var scrapeRefresh *bool

func init() {
	scrapeRefresh = scrapeCmd.Flags().Bool(
		"refresh", false, "Crawl the wishlist even when the store already has data.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--refresh]",
	Short: "Acquires the wishlist's records, crawling the web when no cached data exists.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, cleanup := createService(cfg)
		defer cleanup()

		t1 := time.Now()
		records, err := service.Acquire(cmd.Context(), *scrapeRefresh)
		if err != nil {
			serviceutil.Fatal("failed to acquire records", err)
		}
		t2 := time.Now()

		slog.Info("acquisition complete",
			"records", len(records),
			"seconds", t2.Sub(t1).Seconds())
	},
}
