// Package wishlist implements the acquisition pipeline: a three tier
// lookup over the persistent store, the flat csv snapshot, and a live
// crawl of the wishlist, producing the full record set and persisting
// every newly observed item as soon as it is complete.
package wishlist

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/JuanchoGithub/game-suggest/lib/priceutil"
	"github.com/JuanchoGithub/game-suggest/lib/scrapers/dekudeals"
	"github.com/JuanchoGithub/game-suggest/services/wishlist/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("services/wishlist")

// ListingSource provides wishlist listing pages and item detail pages.
type ListingSource interface {
	FetchWishlistPage(ctx context.Context, page int) ([]dekudeals.GameStub, bool, error)
	FetchGameDetail(ctx context.Context, detailUrl string) (dekudeals.GameDetail, error)
}

// RatingSource resolves a third party review score for a title.
// Resolution failures read as an absent score, never an error.
type RatingSource interface {
	ReviewScore(ctx context.Context, title string) *int64
}

type Options struct {
	Dekudeals ListingSource
	Steamdb   RatingSource
	// path of the flat csv snapshot written after a crawl and restored
	// on the next run when the store is empty
	SnapshotCsv string
	// detail page fetch budget during a crawl
	RequestsPerSecond float64
}

type Service struct {
	db      *sql.DB
	qry     *db.Queries
	limiter *rate.Limiter

	Options
}

func NewService(database *sql.DB, options Options) Service {
	rps := options.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return Service{
		db:      database,
		qry:     db.New(database),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		Options: options,
	}
}

type tier int

const (
	tierStore tier = iota
	tierSnapshot
	tierCrawl
)

// planAcquisition picks the data source for this run. A forced refresh
// always crawls, otherwise a populated store wins over a readable
// snapshot and an empty store with no snapshot leaves only the crawl.
func planAcquisition(stored int64, snapshotOk bool, forceRefresh bool) tier {
	if forceRefresh {
		return tierCrawl
	}
	if stored > 0 {
		return tierStore
	}
	if snapshotOk {
		return tierSnapshot
	}
	return tierCrawl
}

// Acquire returns the full record set. forceRefresh skips straight to
// the crawl, items already in the store still keep their stored values
// because the crawl dedups against it.
func (s Service) Acquire(ctx context.Context, forceRefresh bool) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "Acquire")
	defer span.End()
	span.SetAttributes(attribute.Bool("force_refresh", forceRefresh))

	stored, err := s.qry.CountGames(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to count stored games", "err", err)
		stored = 0
	}

	var snapshot []Record
	snapshotOk := false
	if !forceRefresh && stored == 0 {
		snapshot, err = readSnapshot(s.SnapshotCsv)
		if err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to read csv snapshot", "path", s.SnapshotCsv, "err", err)
		}
		snapshotOk = err == nil && len(snapshot) > 0
	}

	switch planAcquisition(stored, snapshotOk, forceRefresh) {
	case tierStore:
		slog.InfoContext(ctx, "loading records from store", "count", stored)
		return s.loadStore(ctx)
	case tierSnapshot:
		slog.InfoContext(ctx, "restored records from csv snapshot", "count", len(snapshot))
		return snapshot, nil
	}
	return s.crawl(ctx)
}

func (s Service) loadStore(ctx context.Context) ([]Record, error) {
	rows, err := s.qry.GetGames(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = recordFromRow(row)
	}
	return records, nil
}

// crawl walks the listing pages in order, enriching and persisting
// every stub whose title is not in the store yet. Records persist one
// by one, an interrupted crawl keeps everything persisted so far.
func (s Service) crawl(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "crawl")
	defer span.End()

	var records []Record
	processed := 0

	for page := 1; ; page++ {
		stubs, hasNext, err := s.Dekudeals.FetchWishlistPage(ctx, page)
		if err != nil {
			// partial results are still worth returning
			slog.ErrorContext(ctx, "failed to fetch listing page", "page", page, "err", err)
			span.RecordError(err)
			break
		}
		if len(stubs) == 0 {
			slog.InfoContext(ctx, "no more cards found, stopping", "page", page)
			break
		}

		for _, stub := range stubs {
			exists, err := s.qry.GameExists(ctx, stub.Title)
			if err != nil {
				slog.WarnContext(ctx, "failed to check store for title", "title", stub.Title, "err", err)
			}
			if exists > 0 {
				slog.DebugContext(ctx, "skipping game already in store", "title", stub.Title)
				continue
			}
			processed++

			record, ok := s.processStub(ctx, stub)
			if !ok {
				continue
			}

			// persist before append so the record survives even if
			// the rest of the crawl does not
			err = s.qry.UpsertGame(ctx, record.upsertParams())
			if err != nil {
				slog.ErrorContext(ctx, "failed to persist record", "title", record.Title, "err", err)
			}
			records = append(records, record)
		}

		if !hasNext {
			slog.InfoContext(ctx, "no next page link found, stopping", "page", page)
			break
		}
	}

	return s.finishCrawl(ctx, records, processed)
}

// processStub enriches a listing stub into a full record. A missing
// detail link or a failed detail fetch drops the stub, an unparseable
// price or absent score does not.
func (s Service) processStub(ctx context.Context, stub dekudeals.GameStub) (Record, bool) {
	ctx, span := tracer.Start(ctx, "processStub")
	defer span.End()
	span.SetAttributes(attribute.String("title", stub.Title))

	if stub.DetailUrl == "" {
		slog.WarnContext(ctx, "no detail url found for card", "title", stub.Title)
		return Record{}, false
	}

	record := Record{Title: stub.Title}

	price, err := priceutil.Parse(stub.RawPrice)
	if err != nil {
		slog.WarnContext(ctx, "could not parse price", "title", stub.Title, "raw", stub.RawPrice)
	}
	record.CurrentPrice = price

	// politeness pause, applies even when the detail page comes out of
	// the cache
	err = s.limiter.Wait(ctx)
	if err != nil {
		return Record{}, false
	}
	jitter, err := random.IntRange(0, 250)
	if err == nil {
		time.Sleep(time.Duration(jitter) * time.Millisecond)
	}

	detail, err := s.Dekudeals.FetchGameDetail(ctx, stub.DetailUrl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch detail page",
			"title", stub.Title, "url", stub.DetailUrl, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Record{}, false
	}
	record.Metascore = detail.Metascore
	record.Openscore = detail.Openscore
	record.SteamScore = s.Steamdb.ReviewScore(ctx, stub.Title)

	stats := computeDiscountStats(ctx, detail.DiscountDates, time.Now())
	record.LastDiscount = stats.LastDiscount
	record.AvgDaysBetweenDiscounts = stats.AvgDaysBetweenDiscounts
	record.DaysSinceLastDiscount = stats.DaysSinceLastDiscount

	return record, true
}

func (s Service) finishCrawl(ctx context.Context, records []Record, processed int) ([]Record, error) {
	if len(records) == 0 && processed == 0 {
		// every card was either known already or the listing never
		// loaded, the store may still have everything
		slog.WarnContext(ctx, "crawl finished with no new games, reloading store")
		stored, err := s.loadStore(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to reload store after crawl", "err", err)
			return nil, nil
		}
		return stored, nil
	}
	if len(records) == 0 {
		slog.ErrorContext(ctx, "crawl processed games but produced no records", "processed", processed)
		return nil, nil
	}

	slog.InfoContext(ctx, "crawl complete", "new_games", len(records), "processed", processed)

	err := writeSnapshot(s.SnapshotCsv, records)
	if err != nil {
		slog.ErrorContext(ctx, "failed to write csv snapshot", "path", s.SnapshotCsv, "err", err)
	} else {
		slog.InfoContext(ctx, "updated csv snapshot", "path", s.SnapshotCsv, "count", len(records))
	}
	return records, nil
}
