package wishlist

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/JuanchoGithub/game-suggest/lib/scrapers/dekudeals"
	"github.com/JuanchoGithub/game-suggest/lib/testutil"
	"github.com/JuanchoGithub/game-suggest/services/wishlist/db"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func openTestDb(t *testing.T) (*sql.DB, *db.Queries) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/wishlist",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return setup.DB, db.New(setup.DB)
}

func testRecords() []Record {
	return []Record{
		{
			Title:                   "Celeste",
			CurrentPrice:            4.99,
			Metascore:               ptr[int64](94),
			Openscore:               ptr[int64](92),
			LastDiscount:            ptr("2024-03-10"),
			AvgDaysBetweenDiscounts: ptr(30.0),
			DaysSinceLastDiscount:   ptr[int64](10),
		},
		{
			Title:        "Hades",
			CurrentPrice: 12.49,
			SteamScore:   ptr[int64](0),
		},
	}
}

type fakeListing struct {
	pages       [][]dekudeals.GameStub
	details     map[string]dekudeals.GameDetail
	detailCalls []string
}

func (f *fakeListing) FetchWishlistPage(ctx context.Context, page int) ([]dekudeals.GameStub, bool, error) {
	if page > len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page-1], page < len(f.pages), nil
}

func (f *fakeListing) FetchGameDetail(ctx context.Context, detailUrl string) (dekudeals.GameDetail, error) {
	f.detailCalls = append(f.detailCalls, detailUrl)
	detail, ok := f.details[detailUrl]
	if !ok {
		return dekudeals.GameDetail{}, dekudeals.FetchFailed
	}
	return detail, nil
}

type fakeRatings map[string]*int64

func (f fakeRatings) ReviewScore(ctx context.Context, title string) *int64 {
	return f[title]
}

func TestPlanAcquisition(t *testing.T) {
	testCases := []struct {
		name         string
		stored       int64
		snapshotOk   bool
		forceRefresh bool
		want         tier
	}{
		{"populated store wins", 5, true, false, tierStore},
		{"empty store falls back to snapshot", 0, true, false, tierSnapshot},
		{"nothing available means crawl", 0, false, false, tierCrawl},
		{"force refresh always crawls", 5, true, true, tierCrawl},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := planAcquisition(testCase.stored, testCase.snapshotOk, testCase.forceRefresh)
			require.Equal(t, testCase.want, got)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, qry := openTestDb(t)

	// inserted out of title order on purpose
	records := testRecords()
	for i := len(records) - 1; i >= 0; i-- {
		err := qry.UpsertGame(ctx, records[i].upsertParams())
		if err != nil {
			t.Fatal(err)
		}
	}

	rows, err := qry.GetGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 2)

	restored := make([]Record, len(rows))
	for i, row := range rows {
		restored[i] = recordFromRow(row)
	}
	require.Equal(t, records, restored)

	// a stored zero score stays a zero score, not an absent one
	require.NotNil(t, restored[1].SteamScore)
	require.EqualValues(t, 0, *restored[1].SteamScore)
	require.Nil(t, restored[1].Metascore)
}

func TestGameExists(t *testing.T) {
	ctx := context.Background()
	_, qry := openTestDb(t)

	count, err := qry.GameExists(ctx, "Hades")
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 0, count)

	err = qry.UpsertGame(ctx, Record{Title: "Hades", CurrentPrice: 12.49}.upsertParams())
	if err != nil {
		t.Fatal(err)
	}

	count, err = qry.GameExists(ctx, "Hades")
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 1, count)
}

func TestUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	_, qry := openTestDb(t)

	err := qry.UpsertGame(ctx, Record{Title: "Hades", CurrentPrice: 19.99}.upsertParams())
	if err != nil {
		t.Fatal(err)
	}
	err = qry.UpsertGame(ctx, Record{
		Title:        "Hades",
		CurrentPrice: 12.49,
		Metascore:    ptr[int64](93),
	}.upsertParams())
	if err != nil {
		t.Fatal(err)
	}

	count, err := qry.CountGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 1, count)

	rows, err := qry.GetGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 12.49, rows[0].CurrentPrice)
	require.True(t, rows[0].Metascore.Valid)
}

func TestAcquireFromStore(t *testing.T) {
	ctx := context.Background()
	database, qry := openTestDb(t)
	for _, record := range testRecords() {
		err := qry.UpsertGame(ctx, record.upsertParams())
		if err != nil {
			t.Fatal(err)
		}
	}

	// no sources wired up: the store tier must never reach for them
	service := NewService(database, Options{
		SnapshotCsv: filepath.Join(t.TempDir(), "wishlist_cache.csv"),
	})

	records, err := service.Acquire(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, testRecords(), records)
}

func TestAcquireFromSnapshot(t *testing.T) {
	ctx := context.Background()
	database, _ := openTestDb(t)

	path := filepath.Join(t.TempDir(), "wishlist_cache.csv")
	err := writeSnapshot(path, testRecords())
	if err != nil {
		t.Fatal(err)
	}

	service := NewService(database, Options{SnapshotCsv: path})

	records, err := service.Acquire(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, testRecords(), records)
}

func TestAcquireCrawl(t *testing.T) {
	ctx := context.Background()
	database, qry := openTestDb(t)

	listing := &fakeListing{
		pages: [][]dekudeals.GameStub{
			{
				{Title: "Hades", RawPrice: "$12.49", DetailUrl: "https://www.dekudeals.com/items/hades"},
				{Title: "Linkless", RawPrice: "$1.00"},
			},
			{
				{Title: "Celeste", RawPrice: "ARS$ 4.799,00", DetailUrl: "https://www.dekudeals.com/items/celeste"},
				{Title: "Broken", RawPrice: "$5.00", DetailUrl: "https://www.dekudeals.com/items/broken"},
			},
		},
		details: map[string]dekudeals.GameDetail{
			"https://www.dekudeals.com/items/hades": {
				Metascore:     ptr[int64](93),
				DiscountDates: []string{"2024-02-09", "2024-03-10"},
			},
			"https://www.dekudeals.com/items/celeste": {
				Openscore: ptr[int64](92),
			},
		},
	}

	snapshotPath := filepath.Join(t.TempDir(), "wishlist_cache.csv")
	service := NewService(database, Options{
		Dekudeals:         listing,
		Steamdb:           fakeRatings{"Hades": ptr[int64](94)},
		SnapshotCsv:       snapshotPath,
		RequestsPerSecond: 1000,
	})

	records, err := service.Acquire(ctx, false)
	if err != nil {
		t.Fatal(err)
	}

	// the card without a detail link and the one whose detail fetch
	// failed are both excluded
	require.Len(t, records, 2)

	require.Equal(t, "Hades", records[0].Title)
	require.Equal(t, 12.49, records[0].CurrentPrice)
	require.NotNil(t, records[0].Metascore)
	require.EqualValues(t, 93, *records[0].Metascore)
	require.NotNil(t, records[0].SteamScore)
	require.EqualValues(t, 94, *records[0].SteamScore)
	require.NotNil(t, records[0].LastDiscount)
	require.Equal(t, "2024-03-10", *records[0].LastDiscount)
	require.NotNil(t, records[0].AvgDaysBetweenDiscounts)
	require.InDelta(t, 30, *records[0].AvgDaysBetweenDiscounts, 0.01)

	require.Equal(t, "Celeste", records[1].Title)
	require.Equal(t, 4799.0, records[1].CurrentPrice)
	require.NotNil(t, records[1].Openscore)
	require.Nil(t, records[1].SteamScore)

	// every record was persisted as it was scraped
	count, err := qry.CountGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 2, count)

	// and the crawl output was exported to the snapshot
	snapshot, err := readSnapshot(snapshotPath)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, records, snapshot)
}

func TestAcquireCrawlDedup(t *testing.T) {
	ctx := context.Background()
	database, qry := openTestDb(t)

	err := qry.UpsertGame(ctx, Record{Title: "Hades", CurrentPrice: 19.99}.upsertParams())
	if err != nil {
		t.Fatal(err)
	}

	listing := &fakeListing{
		pages: [][]dekudeals.GameStub{{
			{Title: "Hades", RawPrice: "$12.49", DetailUrl: "https://www.dekudeals.com/items/hades"},
			{Title: "Celeste", RawPrice: "$4.99", DetailUrl: "https://www.dekudeals.com/items/celeste"},
		}},
		details: map[string]dekudeals.GameDetail{
			"https://www.dekudeals.com/items/celeste": {},
		},
	}
	service := NewService(database, Options{
		Dekudeals:         listing,
		Steamdb:           fakeRatings{},
		SnapshotCsv:       filepath.Join(t.TempDir(), "wishlist_cache.csv"),
		RequestsPerSecond: 1000,
	})

	records, err := service.Acquire(ctx, true)
	if err != nil {
		t.Fatal(err)
	}

	// the known title's detail page was never re-fetched
	require.Equal(t, []string{"https://www.dekudeals.com/items/celeste"}, listing.detailCalls)
	require.Len(t, records, 1)
	require.Equal(t, "Celeste", records[0].Title)

	// and its stored values were left alone
	rows, err := qry.GetGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rows, 2)
	require.Equal(t, "Hades", rows[1].Title)
	require.Equal(t, 19.99, rows[1].CurrentPrice)
}

func TestAcquireCrawlNothingNewReturnsStore(t *testing.T) {
	ctx := context.Background()
	database, qry := openTestDb(t)

	err := qry.UpsertGame(ctx, Record{Title: "Hades", CurrentPrice: 19.99}.upsertParams())
	if err != nil {
		t.Fatal(err)
	}

	listing := &fakeListing{
		pages: [][]dekudeals.GameStub{{
			{Title: "Hades", RawPrice: "$12.49", DetailUrl: "https://www.dekudeals.com/items/hades"},
		}},
	}
	service := NewService(database, Options{
		Dekudeals:         listing,
		Steamdb:           fakeRatings{},
		SnapshotCsv:       filepath.Join(t.TempDir(), "wishlist_cache.csv"),
		RequestsPerSecond: 1000,
	})

	records, err := service.Acquire(ctx, true)
	if err != nil {
		t.Fatal(err)
	}

	// every card dedup-skipped, the stored set comes back instead
	require.Empty(t, listing.detailCalls)
	require.Len(t, records, 1)
	require.Equal(t, "Hades", records[0].Title)
	require.Equal(t, 19.99, records[0].CurrentPrice)
}

func TestAcquireCrawlEmptyListing(t *testing.T) {
	ctx := context.Background()
	database, _ := openTestDb(t)

	service := NewService(database, Options{
		Dekudeals:         &fakeListing{},
		Steamdb:           fakeRatings{},
		SnapshotCsv:       filepath.Join(t.TempDir(), "wishlist_cache.csv"),
		RequestsPerSecond: 1000,
	})

	records, err := service.Acquire(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, records)
}

func TestAcquireCrawlAllDetailsFail(t *testing.T) {
	ctx := context.Background()
	database, qry := openTestDb(t)

	listing := &fakeListing{
		pages: [][]dekudeals.GameStub{{
			{Title: "Broken", RawPrice: "$5.00", DetailUrl: "https://www.dekudeals.com/items/broken"},
		}},
	}
	snapshotPath := filepath.Join(t.TempDir(), "wishlist_cache.csv")
	service := NewService(database, Options{
		Dekudeals:         listing,
		Steamdb:           fakeRatings{},
		SnapshotCsv:       snapshotPath,
		RequestsPerSecond: 1000,
	})

	records, err := service.Acquire(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, records)

	// nothing persisted, nothing exported
	count, err := qry.CountGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 0, count)
	_, err = os.Stat(snapshotPath)
	require.True(t, os.IsNotExist(err))
}
