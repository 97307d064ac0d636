package commands

import (
	"fmt"
	"path/filepath"

	"github.com/JuanchoGithub/game-suggest/lib/configuration"
	"github.com/JuanchoGithub/game-suggest/lib/configutil"
	"github.com/JuanchoGithub/game-suggest/lib/pagecache"
	"github.com/JuanchoGithub/game-suggest/lib/restyutil"
	"github.com/JuanchoGithub/game-suggest/lib/scrapers/dekudeals"
	"github.com/JuanchoGithub/game-suggest/lib/scrapers/steamdb"
	"github.com/JuanchoGithub/game-suggest/lib/serviceutil"
	"github.com/JuanchoGithub/game-suggest/services/wishlist"
	"github.com/JuanchoGithub/game-suggest/services/wishlist/db"
)

type Config struct {
	WishlistUrl       string                 `json:"wishlist_url"`
	SteamdbUrl        string                 `json:"steamdb_url"`
	Database          configuration.Database `json:"database"`
	CacheDir          string                 `json:"cache_dir"`
	SnapshotCsv       string                 `json:"snapshot_csv"`
	RequestsPerSecond float64                `json:"requests_per_second"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configFile)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.WishlistUrl == "" {
		serviceutil.Fatal("invalid config", fmt.Errorf("wishlist_url is required"))
	}
	if cfg.SteamdbUrl == "" {
		cfg.SteamdbUrl = "https://steamdb.info"
	}
	if cfg.Database.File == "" && cfg.Database.Url == "" {
		cfg.Database.File = "game_database.db"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "html_cache"
	}
	if cfg.SnapshotCsv == "" {
		cfg.SnapshotCsv = "wishlist_cache.csv"
	}
	return cfg
}

func createService(cfg Config) (wishlist.Service, func()) {
	if *debugHttp {
		dekudeals.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput(filepath.Join("resty_debug", "dekudeals")))
		steamdb.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput(filepath.Join("resty_debug", "steamdb")))
	}

	cache := pagecache.NewStore(cfg.CacheDir)

	deku, err := dekudeals.NewClient(dekudeals.ClientOptions{
		WishlistUrl: cfg.WishlistUrl,
		Cache:       cache,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize dekudeals client", err)
	}
	steam, err := steamdb.NewClient(steamdb.ClientOptions{
		BaseUrl: cfg.SteamdbUrl,
		Cache:   cache,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize steamdb client", err)
	}

	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}

	service := wishlist.NewService(database, wishlist.Options{
		Dekudeals:         deku,
		Steamdb:           steam,
		SnapshotCsv:       cfg.SnapshotCsv,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	return service, func() {
		database.Close()
	}
}
