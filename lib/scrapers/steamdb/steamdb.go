// Package steamdb resolves a Steam review percentage for a game title
// through SteamDB: a keyword search yields the app id, the app page
// yields the score. Both fetches are cached under their own namespace
// and every miss along the way is a valid absent result, never an
// error for the caller.
package steamdb

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JuanchoGithub/game-suggest/lib/htmlutil"
	"github.com/JuanchoGithub/game-suggest/lib/pagecache"
	"github.com/JuanchoGithub/game-suggest/lib/restyutil"
	"github.com/JuanchoGithub/game-suggest/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"
)

var tracer = otel.Tracer("scrapers/steamdb")

var FetchFailed = fmt.Errorf("request failed")

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	cache   pagecache.Store
}

type ClientOptions struct {
	// e.g. https://steamdb.info
	BaseUrl string
	// the general page cache, the client scopes itself to its own
	// namespace within it
	Cache pagecache.Store
}

func NewClient(opts ClientOptions) (Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse base url: %w", err)
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return Client{}, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "scrapers/steamdb/http")
	restyutil.InstrumentClient(client, nil, restyInstrumentOutput)

	return Client{
		BaseUrl: baseUrl,
		Http:    client,
		cache:   opts.Cache.WithPrefix("steamdb_"),
	}, nil
}

func (c Client) fetchCached(ctx context.Context, pageUrl string) (string, error) {
	if body, ok := c.cache.Get(ctx, pageUrl); ok {
		return body, nil
	}

	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: %w", FetchFailed, err)
	}
	if res.IsError() {
		err := fmt.Errorf("%w: status %s", FetchFailed, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	body := string(res.Body())
	c.cache.Put(ctx, pageUrl, body)
	return body, nil
}

// SearchAppId looks the title up and returns the app id of the first
// result. No results is not an error, it returns an empty id.
func (c Client) SearchAppId(ctx context.Context, title string) (string, error) {
	ctx, span := tracer.Start(ctx, "SearchAppId")
	defer span.End()
	span.SetAttributes(attribute.String("title", title))

	searchUrl := fmt.Sprintf(
		"%s/search/?a=app&q=%s",
		strings.TrimSuffix(c.BaseUrl.String(), "/"),
		url.QueryEscape(title),
	)
	body, err := c.fetchCached(ctx, searchUrl)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search page")
		return "", err
	}

	link := doc.Find(".app a").First()
	if link.Length() == 0 {
		slog.WarnContext(ctx, "no search results found", "title", title, "url", searchUrl)
		span.AddEvent("search response", trace.WithAttributes(
			attribute.String("body", body),
		))
		return "", nil
	}

	href := link.AttrOr("href", "")
	segments := strings.Split(href, "/")
	if len(segments) < 3 || segments[2] == "" {
		slog.WarnContext(ctx, "could not read app id from result link", "title", title, "href", href)
		return "", nil
	}
	appId := segments[2]

	name := htmlutil.SelectionText(link)
	if name != "" {
		similarity := matchr.JaroWinkler(strings.ToLower(title), strings.ToLower(name), false)
		if similarity < 0.8 {
			slog.WarnContext(ctx, "first search result diverges from title",
				"title", title, "result", name, "similarity", similarity)
		}
	}

	span.SetAttributes(attribute.String("app_id", appId))
	return appId, nil
}

var reviewPercent = regexp.MustCompile(`([\d.]+)%`)

// ReviewPercent reads the review percentage off the app page, rounded
// to the nearest whole percent. A page without a readable review
// indicator yields nil.
func (c Client) ReviewPercent(ctx context.Context, appId string) (*int64, error) {
	if appId == "" {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "ReviewPercent")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", appId))

	appUrl := fmt.Sprintf(
		"%s/app/%s/",
		strings.TrimSuffix(c.BaseUrl.String(), "/"),
		appId,
	)
	body, err := c.fetchCached(ctx, appUrl)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse app page")
		return nil, err
	}

	review := doc.Find(`a[href*="#reviews"]`).First()
	if review.Length() == 0 {
		slog.WarnContext(ctx, "no review indicator found", "app_id", appId, "url", appUrl)
		return nil, nil
	}
	label := review.AttrOr("aria-label", "")
	if label == "" {
		slog.WarnContext(ctx, "review indicator has no aria-label", "app_id", appId, "url", appUrl)
		return nil, nil
	}
	match := reviewPercent.FindStringSubmatch(label)
	if match == nil {
		slog.WarnContext(ctx, "no percentage in review label", "app_id", appId, "label", label)
		return nil, nil
	}

	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		slog.WarnContext(ctx, "unparseable review percentage", "app_id", appId, "label", label)
		return nil, nil
	}
	score := int64(math.Round(percent))
	return &score, nil
}

// ReviewScore runs both lookup steps for a title. Any failure along
// the way reads as an absent score, network errors included, the
// resolver never blocks an item from being processed.
func (c Client) ReviewScore(ctx context.Context, title string) *int64 {
	appId, err := c.SearchAppId(ctx, title)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search for app", "title", title, "err", err)
		return nil
	}
	if appId == "" {
		return nil
	}

	score, err := c.ReviewPercent(ctx, appId)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch review score", "title", title, "app_id", appId, "err", err)
		return nil
	}
	return score
}
