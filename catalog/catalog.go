// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog keeps a PostgreSQL ledger of the files downloaded from
// Planet, so repeated runs can report what is already on disk.
package catalog

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/venicegeo/bf-planet-recipes/util"
)

// Download is one recorded file
type Download struct {
	Kind       string
	Ref        string
	Path       string
	Size       int64
	RecordedAt time.Time
}

// Catalog records downloads in the downloads table
type Catalog struct {
	db  *sql.DB
	ctx util.LogContext
}

// New wraps an open database
func New(ctx util.LogContext, db *sql.DB) *Catalog {
	return &Catalog{db: db, ctx: ctx}
}

// Open connects to the database at connStr. SSL is disabled unless the
// connection string asks for it.
func Open(ctx util.LogContext, connStr string) (*Catalog, error) {
	dbURI, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %v", err)
	}
	params := dbURI.Query()
	if params.Get("sslmode") == "" {
		params.Set("sslmode", "disable")
		dbURI.RawQuery = params.Encode()
	}

	redacted := *dbURI
	if redacted.User != nil {
		redacted.User = url.User(redacted.User.Username())
	}
	util.LogInfo(ctx, fmt.Sprintf("Creating database connection at: `%s`", redacted.String()))
	db, err := sql.Open("postgres", dbURI.String())
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return New(ctx, db), nil
}

// DB returns the underlying connection
func (c *Catalog) DB() *sql.DB {
	return c.db
}

// Close closes the connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

// RecordDownload inserts or refreshes the entry for a file
func (c *Catalog) RecordDownload(kind, ref, path string, size int64) error {
	_, err := c.db.Exec(`INSERT INTO public.downloads (kind, ref, path, size, recorded_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (kind, ref, path)
		DO UPDATE SET size = EXCLUDED.size, recorded_at = EXCLUDED.recorded_at`,
		kind, ref, path, size)
	if err != nil {
		return util.LogSimpleErr(c.ctx, fmt.Sprintf("Failed to record download of %v.", path), err)
	}
	return nil
}

// List returns recorded downloads, newest first. An empty kind lists all.
func (c *Catalog) List(kind string) ([]Download, error) {
	var (
		rows *sql.Rows
		err  error
	)
	const columns = `SELECT kind, ref, path, size, recorded_at FROM public.downloads`
	if kind == "" {
		rows, err = c.db.Query(columns + ` ORDER BY recorded_at DESC`)
	} else {
		rows, err = c.db.Query(columns+` WHERE kind = $1 ORDER BY recorded_at DESC`, kind)
	}
	if err != nil {
		return nil, util.LogSimpleErr(c.ctx, "Failed to list downloads.", err)
	}
	defer rows.Close()

	result := []Download{}
	for rows.Next() {
		var d Download
		if err = rows.Scan(&d.Kind, &d.Ref, &d.Path, &d.Size, &d.RecordedAt); err != nil {
			return nil, util.LogSimpleErr(c.ctx, "Failed to read download row.", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
