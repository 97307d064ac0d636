package commands

import (
	"fmt"

	"github.com/JuanchoGithub/game-suggest/lib/serviceutil"
	"github.com/JuanchoGithub/game-suggest/services/suggest"

	"github.com/spf13/cobra"
)

var suggestRefresh *bool
var suggestLimit *int

func init() {
	suggestRefresh = suggestCmd.Flags().Bool(
		"refresh", false, "Crawl the wishlist even when the store already has data.")
	suggestLimit = suggestCmd.Flags().Int(
		"limit", 5, "How many games to show per category.")
	rootCmd.AddCommand(suggestCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [--refresh] [--limit <n>]",
	Short: "Ranks the wishlist and prints recommendations by category.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, cleanup := createService(cfg)
		defer cleanup()

		records, err := service.Acquire(cmd.Context(), *suggestRefresh)
		if err != nil {
			serviceutil.Fatal("failed to acquire records", err)
		}
		if len(records) == 0 {
			fmt.Println("No games found. Does the wishlist have any items?")
			return
		}

		ranked := suggest.Rank(records)
		n := *suggestLimit

		renderTopValue(suggest.TopValue(ranked, n))
		renderLikelyDiscounted(suggest.LikelyDiscounted(ranked, n))
		renderGoodDeals(suggest.GoodDeals(ranked, n))
		renderTopRated(suggest.TopRated(ranked, n))
		renderInsights(suggest.Summarize(ranked))
	},
}
