// Package configuration holds config sections shared between commands.
package configuration

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/JuanchoGithub/game-suggest/lib/sqliteutil"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Database points at either a local sqlite file or a remote libsql
// server. Url wins when both are set.
type Database struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens the configured database and applies `schema` to it. The
// schema is expected to be written with CREATE TABLE IF NOT EXISTS so
// reapplying it is a no-op.
func (config Database) OpenDB(schema string) (*sql.DB, error) {
	if config.Url == "" {
		if config.File == "" {
			return nil, fmt.Errorf("a database file was not specified")
		}
		return sqliteutil.OpenDB(schema, config.File)
	}

	values := url.Values{}
	if config.AuthToken != "" {
		values.Add("authToken", config.AuthToken)
	}
	db, err := sql.Open("libsql", config.Url+"?"+values.Encode())
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, err
	}
	return db, nil
}
