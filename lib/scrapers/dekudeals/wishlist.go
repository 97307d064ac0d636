package dekudeals

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JuanchoGithub/game-suggest/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GameStub is a partially parsed listing card, the price is left as raw
// display text and the detail url may be empty when the card carries no
// link.
type GameStub struct {
	Title     string
	RawPrice  string
	DetailUrl string
}

// FetchWishlistPage fetches one listing page and extracts its stubs.
// The second return reports whether a further page exists. Page 1 is
// fetched without a page query parameter.
func (c Client) FetchWishlistPage(ctx context.Context, page int) ([]GameStub, bool, error) {
	ctx, span := tracer.Start(ctx, "FetchWishlistPage")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page))

	pageUrl := c.WishlistUrl
	if page > 1 {
		pageUrl = fmt.Sprintf("%s?page=%d", c.WishlistUrl, page)
	}

	body, err := c.fetchLive(ctx, pageUrl)
	if err != nil {
		return nil, false, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse listing page")
		return nil, false, err
	}

	stubs := c.extractStubs(ctx, doc)
	span.SetAttributes(attribute.Int("cards", len(stubs)))
	return stubs, hasNextPage(doc), nil
}

func (c Client) extractStubs(ctx context.Context, doc *goquery.Document) []GameStub {
	var stubs []GameStub
	doc.Find(".list-view").Each(func(i int, card *goquery.Selection) {
		title := htmlutil.SelectionText(card.Find(".main-link h6"))
		if title == "" {
			slog.WarnContext(ctx, "skipping card: no title found")
			return
		}

		stub := GameStub{
			Title:    title,
			RawPrice: htmlutil.SelectionText(card.Find("strong")),
		}
		if stub.RawPrice == "" {
			slog.WarnContext(ctx, "no price found", "title", title)
		}
		href := card.Find(".main-link").AttrOr("href", "")
		if href != "" {
			stub.DetailUrl = c.absoluteUrl(href)
		}
		stubs = append(stubs, stub)
	})
	return stubs
}

// hasNextPage looks for an explicit rel="next" link first and falls
// back to checking whether a page element follows the currently active
// one. Neither signal present means the crawl is done.
func hasNextPage(doc *goquery.Document) bool {
	if doc.Find(`a.page-link[rel="next"]`).Length() > 0 {
		return true
	}

	active := doc.Find("li.page-item.active span.page-link").First()
	if active.Length() == 0 {
		return false
	}
	nextItem := active.Closest("li").NextAllFiltered("li").First()
	return nextItem.Find("a.page-link").Length() > 0
}
