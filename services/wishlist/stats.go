package wishlist

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/araddon/dateparse"
)

// discountStats summarizes an item's discount history table.
type discountStats struct {
	LastDiscount            *string
	AvgDaysBetweenDiscounts *float64
	DaysSinceLastDiscount   *int64
}

// computeDiscountStats parses the raw history dates and derives the
// most recent discount date, the whole days elapsed since it, and the
// mean day-gap between consecutive discounts. Unparseable dates are
// skipped. No parseable dates leaves every field absent, a single date
// leaves only the average absent. Same-day duplicate rows contribute a
// zero gap to the average.
func computeDiscountStats(ctx context.Context, rawDates []string, now time.Time) discountStats {
	var dates []time.Time
	for _, raw := range rawDates {
		date, err := dateparse.ParseAny(raw)
		if err != nil {
			slog.WarnContext(ctx, "skipping unparseable discount date", "raw", raw, "err", err)
			continue
		}
		dates = append(dates, date)
	}
	if len(dates) == 0 {
		return discountStats{}
	}

	// most recent first
	slices.SortFunc(dates, func(a, b time.Time) int {
		return b.Compare(a)
	})

	last := dates[0].Format(time.DateOnly)
	daysSince := int64(now.Sub(dates[0]).Hours() / 24)
	stats := discountStats{
		LastDiscount:          &last,
		DaysSinceLastDiscount: &daysSince,
	}

	var gaps []int64
	for i := 0; i < len(dates)-1; i++ {
		gap := int64(dates[i].Sub(dates[i+1]).Hours() / 24)
		if gap >= 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) > 0 {
		var sum int64
		for _, gap := range gaps {
			sum += gap
		}
		avg := float64(sum) / float64(len(gaps))
		stats.AvgDaysBetweenDiscounts = &avg
	}
	return stats
}
