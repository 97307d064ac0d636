package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JuanchoGithub/game-suggest/services/suggest"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func fmtPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func fmtInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func renderTopValue(games []suggest.ScoredRecord) {
	fmt.Println("Best Value Games (High Score, Low Price):")

	t := newTable()
	t.AppendHeader(table.Row{
		"Title", "Price", "Avg Score", "Days Since Discount", "Avg Days Between", "Score",
	})
	for _, g := range games {
		t.AppendRow(table.Row{
			g.Title,
			fmtPrice(g.CurrentPrice),
			fmtFloat(g.AvgScore),
			fmtInt(g.DaysSinceLastDiscount),
			fmtFloat(g.AvgDaysBetweenDiscounts),
			fmt.Sprintf("%.3f", g.RecommendationScore),
		})
	}
	t.Render()
}

func renderLikelyDiscounted(games []suggest.ScoredRecord) {
	fmt.Println()
	fmt.Println("Most Likely to be Discounted Soon:")

	t := newTable()
	t.AppendHeader(table.Row{"Title", "Price", "Days Since Discount", "Avg Days Between"})
	for _, g := range games {
		t.AppendRow(table.Row{
			g.Title,
			fmtPrice(g.CurrentPrice),
			fmtInt(g.DaysSinceLastDiscount),
			fmtFloat(g.AvgDaysBetweenDiscounts),
		})
	}
	t.Render()
}

func renderGoodDeals(games []suggest.ScoredRecord) {
	fmt.Println()
	fmt.Println("Good Deals (Below Avg Price, Above Avg Rating):")
	if len(games) == 0 {
		fmt.Println("No games found matching this criteria.")
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"Title", "Price", "Avg Score", "Score"})
	for _, g := range games {
		t.AppendRow(table.Row{
			g.Title,
			fmtPrice(g.CurrentPrice),
			fmtFloat(g.AvgScore),
			fmt.Sprintf("%.3f", g.RecommendationScore),
		})
	}
	t.Render()
}

func renderTopRated(games []suggest.ScoredRecord) {
	fmt.Println()
	fmt.Println("Highest Rated Games:")

	t := newTable()
	t.AppendHeader(table.Row{"Title", "Price", "Metascore", "Openscore", "Steam Score", "Avg Score"})
	for _, g := range games {
		t.AppendRow(table.Row{
			g.Title,
			fmtPrice(g.CurrentPrice),
			fmtInt(g.Metascore),
			fmtInt(g.Openscore),
			fmtInt(g.SteamScore),
			fmtFloat(g.AvgScore),
		})
	}
	t.Render()
}

func renderInsights(insights suggest.Insights) {
	fmt.Println()
	fmt.Println("Statistical Insights:")

	t := newTable()
	t.AppendRow(table.Row{"Total games in wishlist", insights.Games})
	t.AppendRow(table.Row{"Average price", fmtPrice(insights.AvgPrice)})
	t.AppendRow(table.Row{"Average metascore", fmtFloat(insights.AvgMetascore)})
	t.AppendRow(table.Row{"Average days between discounts", fmtFloat(insights.AvgDaysBetweenDiscounts)})
	t.Render()
}
