// Package dekudeals scrapes a DekuDeals wishlist: the paginated listing
// with per-game price stubs and the per-game detail pages carrying
// review scores and the discount history table.
package dekudeals

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/JuanchoGithub/game-suggest/lib/pagecache"
	"github.com/JuanchoGithub/game-suggest/lib/restyutil"
	"github.com/JuanchoGithub/game-suggest/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

var tracer = otel.Tracer("scrapers/dekudeals")

var FetchFailed = fmt.Errorf("request failed")

type Client struct {
	WishlistUrl string
	Http        *resty.Client
	cache       pagecache.Store
	host        *url.URL
}

type ClientOptions struct {
	// full url of the wishlist, e.g. https://www.dekudeals.com/wishlist/8byr34kdnr
	WishlistUrl string
	Cache       pagecache.Store
}

func NewClient(opts ClientOptions) (Client, error) {
	wishlistUrl, err := url.Parse(opts.WishlistUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse wishlist url: %w", err)
	}
	host := &url.URL{Scheme: wishlistUrl.Scheme, Host: wishlistUrl.Host}

	client := resty.New()
	client.SetBaseURL(host.String())
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return Client{}, err
	}
	client.SetCookieJar(jar)

	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(wishlistUrl.Hostname()))
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "scrapers/dekudeals/http")
	restyutil.InstrumentClient(client, nil, restyInstrumentOutput)

	return Client{
		WishlistUrl: strings.TrimSuffix(wishlistUrl.String(), "/"),
		Http:        client,
		cache:       opts.Cache,
		host:        host,
	}, nil
}

// absoluteUrl resolves a listing card's href against the wishlist host.
func (c Client) absoluteUrl(href string) string {
	return c.host.String() + href
}

// fetchLive always issues the request, storing successful bodies in the
// page cache without ever reading from it. Listing pages go through
// here: their contents (prices, ordering) are too volatile to trust a
// cached copy during a crawl.
func (c Client) fetchLive(ctx context.Context, pageUrl string) (string, error) {
	ctx, span := tracer.Start(ctx, "fetchLive")
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

// fetchCached consults the page cache before going to the network.
// Detail pages go through here: their scores and history change rarely
// enough that a cached copy stays useful indefinitely.
func (c Client) fetchCached(ctx context.Context, pageUrl string) (string, error) {
	if body, ok := c.cache.Get(ctx, pageUrl); ok {
		return body, nil
	}
	return c.fetchLive(ctx, pageUrl)
}
