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
	goose.AddMigration(Up00002, Down00002)
}

// Up00002 indexes downloads by kind and recording time for listing
func Up00002(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_downloads_kind_recorded
		ON public.downloads (kind, recorded_at DESC);`)
	return err
}

// Down00002 undoes the effects of Up00002
func Down00002(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP INDEX IF EXISTS public.idx_downloads_kind_recorded;`)
	return err
}
