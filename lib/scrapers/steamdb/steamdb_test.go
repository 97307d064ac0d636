package steamdb

import (
	"context"
	_ "embed"
	"testing"

	"github.com/JuanchoGithub/game-suggest/lib/pagecache"

	"github.com/stretchr/testify/require"
)

//go:embed search_results_test.html
var searchResultsTest []byte

//go:embed search_empty_test.html
var searchEmptyTest []byte

//go:embed app_page_test.html
var appPageTest []byte

//go:embed app_page_noscore_test.html
var appPageNoscoreTest []byte

func testClient(t *testing.T) Client {
	client, err := NewClient(ClientOptions{
		BaseUrl: "https://steamdb.info",
		Cache:   pagecache.NewStore(t.TempDir()),
	})
	require.NoError(t, err)
	return client
}

func TestSearchAppId(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	client.cache.Put(ctx, "https://steamdb.info/search/?a=app&q=Hades", string(searchResultsTest))

	appId, err := client.SearchAppId(ctx, "Hades")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "1145360", appId)
}

func TestSearchAppIdNoResults(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	client.cache.Put(ctx,
		"https://steamdb.info/search/?a=app&q=Definitely+Not+A+Real+Game",
		string(searchEmptyTest))

	appId, err := client.SearchAppId(ctx, "Definitely Not A Real Game")
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, appId)
}

func TestReviewPercent(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	client.cache.Put(ctx, "https://steamdb.info/app/1145360/", string(appPageTest))

	score, err := client.ReviewPercent(ctx, "1145360")
	if err != nil {
		t.Fatal(err)
	}
	require.NotNil(t, score)
	require.EqualValues(t, 94, *score)
}

func TestReviewPercentNoIndicator(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	client.cache.Put(ctx, "https://steamdb.info/app/2400000/", string(appPageNoscoreTest))

	score, err := client.ReviewPercent(ctx, "2400000")
	if err != nil {
		t.Fatal(err)
	}
	require.Nil(t, score)
}

func TestReviewPercentEmptyId(t *testing.T) {
	score, err := testClient(t).ReviewPercent(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	require.Nil(t, score)
}

func TestReviewScore(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	client.cache.Put(ctx, "https://steamdb.info/search/?a=app&q=Hades", string(searchResultsTest))
	client.cache.Put(ctx, "https://steamdb.info/app/1145360/", string(appPageTest))

	score := client.ReviewScore(ctx, "Hades")
	require.NotNil(t, score)
	require.EqualValues(t, 94, *score)
}

func TestReviewScoreUnknownTitle(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	client.cache.Put(ctx,
		"https://steamdb.info/search/?a=app&q=Definitely+Not+A+Real+Game",
		string(searchEmptyTest))

	require.Nil(t, client.ReviewScore(ctx, "Definitely Not A Real Game"))
}
