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

package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

// Up00001 creates the downloads ledger
func Up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS public.downloads
		(
			kind character varying(16) NOT NULL,
			ref text NOT NULL,
			path text NOT NULL,
			size bigint NOT NULL DEFAULT 0,
			recorded_at timestamp with time zone NOT NULL DEFAULT now(),
			CONSTRAINT downloads_kind_ref_path UNIQUE (kind, ref, path)
		);
		`)
	return err
}

// Down00001 undoes the effects of Up00001
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.downloads;`)
	return err
}
