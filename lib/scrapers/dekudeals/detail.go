package dekudeals

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JuanchoGithub/game-suggest/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GameDetail holds what a detail page yields. A nil score means the
// page didn't carry one, which is distinct from a present score of
// zero. DiscountDates are the raw date strings out of the price
// history table, newest first as rendered.
type GameDetail struct {
	Metascore     *int64
	Openscore     *int64
	DiscountDates []string
}

// FetchGameDetail fetches (cache first) and parses one game's detail
// page.
func (c Client) FetchGameDetail(ctx context.Context, detailUrl string) (GameDetail, error) {
	ctx, span := tracer.Start(ctx, "FetchGameDetail")
	defer span.End()
	span.SetAttributes(attribute.String("url", detailUrl))

	body, err := c.fetchCached(ctx, detailUrl)
	if err != nil {
		return GameDetail{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse detail page")
		return GameDetail{}, err
	}

	detail := GameDetail{
		Metascore: scoreFromLabel(doc, "Metacritic"),
		Openscore: scoreFromLabel(doc, "OpenCritic"),
	}

	history := doc.Find(".price-history table").First()
	if history.Length() == 0 {
		slog.WarnContext(ctx, "no price history table found", "url", detailUrl)
		return detail, nil
	}
	detail.DiscountDates = discountDates(history)
	return detail, nil
}

// scoreFromLabel extracts the score link next to a labeled list entry.
// The text must be purely digits to count, "0" is a valid score while
// anything else (missing element, "tbd", negatives) reads as absent.
func scoreFromLabel(doc *goquery.Document, label string) *int64 {
	sel := doc.Find(fmt.Sprintf("li.list-group-item strong:contains('%s') + a", label))
	text := htmlutil.SelectionText(sel)
	if !digitsOnly(text) {
		return nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// discountDates pulls the first cell of every history row past the
// header. Rows without a date cell are skipped.
func discountDates(table *goquery.Selection) []string {
	var dates []string
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		text := htmlutil.SelectionText(row.Find("td").First())
		if text != "" {
			dates = append(dates, text)
		}
	})
	return dates
}
