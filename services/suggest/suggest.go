// Package suggest ranks acquired wishlist records. Ranking is a pure
// function over the full record set, every derived figure is
// recomputed from scratch on each call.
package suggest

import (
	"cmp"
	"slices"

	"github.com/JuanchoGithub/game-suggest/services/wishlist"
)

// ScoredRecord is a wishlist record plus the derived ranking figures.
// AvgScore is absent when the record carries no quality score at all,
// the remaining figures are always computed with absent inputs reading
// as zero.
type ScoredRecord struct {
	wishlist.Record

	AvgScore            *float64
	NormalizedPrice     float64
	NormalizedScore     float64
	DiscountProbability float64
	RecommendationScore float64
}

// Rank scores every record and returns the set ordered best first,
// ties keeping their input order.
//
// The score weighs quality against price against discount likelihood,
// 0.4/0.3/0.3. Price normalizes against the most expensive item in the
// set, quality min-max normalizes across the set's average scores, and
// the discount probability decays with the days since the last
// discount, a record with no discount history reading as 365 days.
func Rank(records []wishlist.Record) []ScoredRecord {
	scored := make([]ScoredRecord, len(records))
	for i, record := range records {
		scored[i] = ScoredRecord{
			Record:   record,
			AvgScore: avgScore(record),
		}
	}

	var maxPrice float64
	for _, s := range scored {
		maxPrice = max(maxPrice, s.CurrentPrice)
	}

	var minAvg, maxAvg float64
	haveAvg := false
	for _, s := range scored {
		if s.AvgScore == nil {
			continue
		}
		if !haveAvg {
			minAvg, maxAvg = *s.AvgScore, *s.AvgScore
			haveAvg = true
			continue
		}
		minAvg = min(minAvg, *s.AvgScore)
		maxAvg = max(maxAvg, *s.AvgScore)
	}
	scoreRange := maxAvg - minAvg

	for i := range scored {
		s := &scored[i]

		if maxPrice > 0 {
			s.NormalizedPrice = 1 - s.CurrentPrice/maxPrice
		}
		if s.AvgScore != nil && scoreRange > 0 {
			s.NormalizedScore = (*s.AvgScore - minAvg) / scoreRange
		}

		days := float64(365)
		if s.DaysSinceLastDiscount != nil {
			days = float64(*s.DaysSinceLastDiscount)
		}
		s.DiscountProbability = 1 / (days + 1)

		s.RecommendationScore = 0.4*s.NormalizedScore +
			0.3*s.NormalizedPrice +
			0.3*s.DiscountProbability
	}

	slices.SortStableFunc(scored, func(a, b ScoredRecord) int {
		return cmp.Compare(b.RecommendationScore, a.RecommendationScore)
	})
	return scored
}

// avgScore is the mean of whichever quality scores are present, absent
// when none are.
func avgScore(record wishlist.Record) *float64 {
	var sum float64
	n := 0
	for _, score := range []*int64{record.Metascore, record.Openscore, record.SteamScore} {
		if score == nil {
			continue
		}
		sum += float64(*score)
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// TopValue returns the n best records overall, in the ranking's own
// order.
func TopValue(ranked []ScoredRecord, n int) []ScoredRecord {
	return ranked[:min(n, len(ranked))]
}

// LikelyDiscounted returns the n records most likely to see a discount
// soon.
func LikelyDiscounted(ranked []ScoredRecord, n int) []ScoredRecord {
	out := slices.Clone(ranked)
	slices.SortStableFunc(out, func(a, b ScoredRecord) int {
		return cmp.Compare(b.DiscountProbability, a.DiscountProbability)
	})
	return out[:min(n, len(out))]
}

// GoodDeals returns records priced below the set's mean that rate
// above the set's mean score, best ranked first. Without a single
// scored record there is no threshold and no deals.
func GoodDeals(ranked []ScoredRecord, n int) []ScoredRecord {
	if len(ranked) == 0 {
		return nil
	}

	var priceSum, scoreSum float64
	scoredCount := 0
	for _, s := range ranked {
		priceSum += s.CurrentPrice
		if s.AvgScore != nil {
			scoreSum += *s.AvgScore
			scoredCount++
		}
	}
	if scoredCount == 0 {
		return nil
	}
	meanPrice := priceSum / float64(len(ranked))
	meanScore := scoreSum / float64(scoredCount)

	var deals []ScoredRecord
	for _, s := range ranked {
		if s.AvgScore == nil {
			continue
		}
		if s.CurrentPrice < meanPrice && *s.AvgScore > meanScore {
			deals = append(deals, s)
		}
	}
	if len(deals) > n {
		deals = deals[:n]
	}
	return deals
}

// TopRated returns the n highest rated records, records without a
// score sorting last.
func TopRated(ranked []ScoredRecord, n int) []ScoredRecord {
	out := slices.Clone(ranked)
	slices.SortStableFunc(out, func(a, b ScoredRecord) int {
		switch {
		case a.AvgScore == nil && b.AvgScore == nil:
			return 0
		case a.AvgScore == nil:
			return 1
		case b.AvgScore == nil:
			return -1
		}
		return cmp.Compare(*b.AvgScore, *a.AvgScore)
	})
	return out[:min(n, len(out))]
}

// Insights are the aggregate figures shown alongside the rankings.
// Averages over optional fields skip absent values and stay absent
// when no record carries one.
type Insights struct {
	Games                   int
	AvgPrice                float64
	AvgMetascore            *float64
	AvgDaysBetweenDiscounts *float64
}

func Summarize(ranked []ScoredRecord) Insights {
	out := Insights{Games: len(ranked)}
	if len(ranked) == 0 {
		return out
	}

	var priceSum, metaSum, daysSum float64
	metaCount, daysCount := 0, 0
	for _, s := range ranked {
		priceSum += s.CurrentPrice
		if s.Metascore != nil {
			metaSum += float64(*s.Metascore)
			metaCount++
		}
		if s.AvgDaysBetweenDiscounts != nil {
			daysSum += *s.AvgDaysBetweenDiscounts
			daysCount++
		}
	}
	out.AvgPrice = priceSum / float64(len(ranked))
	if metaCount > 0 {
		avg := metaSum / float64(metaCount)
		out.AvgMetascore = &avg
	}
	if daysCount > 0 {
		avg := daysSum / float64(daysCount)
		out.AvgDaysBetweenDiscounts = &avg
	}
	return out
}
