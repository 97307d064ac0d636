package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeDiscountStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)

	t.Run("mixed date formats", func(t *testing.T) {
		stats := computeDiscountStats(ctx, []string{
			"January 10, 2024",
			"2024-02-09",
			"March 10, 2024",
		}, now)

		require.NotNil(t, stats.LastDiscount)
		require.Equal(t, "2024-03-10", *stats.LastDiscount)
		require.NotNil(t, stats.DaysSinceLastDiscount)
		require.EqualValues(t, 10, *stats.DaysSinceLastDiscount)
		require.NotNil(t, stats.AvgDaysBetweenDiscounts)
		require.InDelta(t, 30, *stats.AvgDaysBetweenDiscounts, 0.5)
	})

	t.Run("empty history", func(t *testing.T) {
		stats := computeDiscountStats(ctx, nil, now)
		require.Nil(t, stats.LastDiscount)
		require.Nil(t, stats.DaysSinceLastDiscount)
		require.Nil(t, stats.AvgDaysBetweenDiscounts)
	})

	t.Run("single date has no average", func(t *testing.T) {
		stats := computeDiscountStats(ctx, []string{"2024-03-10"}, now)
		require.NotNil(t, stats.LastDiscount)
		require.Equal(t, "2024-03-10", *stats.LastDiscount)
		require.NotNil(t, stats.DaysSinceLastDiscount)
		require.EqualValues(t, 10, *stats.DaysSinceLastDiscount)
		require.Nil(t, stats.AvgDaysBetweenDiscounts)
	})

	t.Run("unparseable dates are skipped", func(t *testing.T) {
		stats := computeDiscountStats(ctx, []string{
			"not a date at all",
			"2024-03-10",
		}, now)
		require.NotNil(t, stats.LastDiscount)
		require.Equal(t, "2024-03-10", *stats.LastDiscount)
		require.Nil(t, stats.AvgDaysBetweenDiscounts)
	})

	t.Run("same day duplicates keep a zero gap", func(t *testing.T) {
		stats := computeDiscountStats(ctx, []string{
			"2024-03-10",
			"2024-03-10",
			"2024-02-09",
		}, now)
		// gaps are 0 and 30, both retained
		require.NotNil(t, stats.AvgDaysBetweenDiscounts)
		require.InDelta(t, 15, *stats.AvgDaysBetweenDiscounts, 0.01)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		a := computeDiscountStats(ctx, []string{"2024-01-10", "2024-03-10", "2024-02-09"}, now)
		b := computeDiscountStats(ctx, []string{"2024-03-10", "2024-02-09", "2024-01-10"}, now)
		require.Equal(t, *a.LastDiscount, *b.LastDiscount)
		require.Equal(t, *a.AvgDaysBetweenDiscounts, *b.AvgDaysBetweenDiscounts)
	})
}
