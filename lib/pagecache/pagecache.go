// Package pagecache is a filesystem cache for raw fetched HTML, keyed by
// the fetch url. Entries never expire: a hit is trusted indefinitely and
// refreshing a page means deleting its file out of band.
package pagecache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var sanitizer = strings.NewReplacer("/", "_", ":", "_")

type Store struct {
	dir    string
	prefix string
}

func NewStore(dir string) Store {
	return Store{dir: dir}
}

// WithPrefix returns a store writing to the same directory under a
// filename prefix. Stores with different prefixes never collide, even
// for the same literal url.
func (s Store) WithPrefix(prefix string) Store {
	return Store{dir: s.dir, prefix: prefix}
}

func (s Store) Filename(url string) string {
	return filepath.Join(s.dir, s.prefix+sanitizer.Replace(url)+".html")
}

// Get returns the cached body for url. A missing entry and a failed
// read look the same to the caller: both report a miss, a read failure
// additionally logs a warning.
func (s Store) Get(ctx context.Context, url string) (string, bool) {
	contents, err := os.ReadFile(s.Filename(url))
	if os.IsNotExist(err) {
		return "", false
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read cached page", "url", url, "err", err)
		return "", false
	}
	slog.DebugContext(ctx, "cache hit", "url", url)
	return string(contents), true
}

// Put stores the body for url. Failures are logged and swallowed, the
// cache is opportunistic and never blocks a fetch from succeeding.
func (s Store) Put(ctx context.Context, url string, body string) {
	err := os.MkdirAll(s.dir, 0777)
	if err != nil {
		slog.WarnContext(ctx, "failed to create page cache directory", "dir", s.dir, "err", err)
		return
	}
	err = os.WriteFile(s.Filename(url), []byte(body), 0600)
	if err != nil {
		slog.WarnContext(ctx, "failed to write cached page", "url", url, "err", err)
	}
}
