/*
   sparsepoly - sparse polynomials with real coefficients

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published by
   the Free Software Foundation, version 3.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package pg provides a PostgreSQL implementation of the polynomial storage
// interface.
package pg

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"sparsepoly/poly"
	"sparsepoly/storage"
)

type store struct {
	*sql.DB
	storage.Listeners
}

var _ storage.Storage = (*store)(nil)

var crTablesSQL = []string{
	`CREATE TABLE IF NOT EXISTS polys (
name TEXT NOT NULL PRIMARY KEY,
doc TEXT NOT NULL,
digest TEXT NOT NULL,
ctime TIMESTAMP WITH TIME ZONE NOT NULL,
mtime TIMESTAMP WITH TIME ZONE NOT NULL
)`,
}

var crIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS polys_mtime ON polys(mtime);`,
}

// Dial returns PostgreSQL storage connected to the given database URL.
func Dial(url string) (storage.Storage, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return New(db)
}

// New returns PostgreSQL storage on an open database, creating the schema
// if needed.
func New(db *sql.DB) (storage.Storage, error) {
	st := &store{DB: db}
	if err := st.createTables(); err != nil {
		return nil, errors.Wrap(err, "failed to create tables")
	}
	if err := st.createIndexes(); err != nil {
		return nil, errors.Wrap(err, "failed to create indexes")
	}
	return st, nil
}

func (st *store) createTables() error {
	for _, crTableSQL := range crTablesSQL {
		if _, err := st.Exec(crTableSQL); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (st *store) createIndexes() error {
	for _, crIndexSQL := range crIndexesSQL {
		if _, err := st.Exec(crIndexSQL); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (st *store) Close() error {
	return errors.WithStack(st.DB.Close())
}

func (st *store) Names() ([]string, error) {
	rows, err := st.Query("SELECT name FROM polys ORDER BY name")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.WithStack(err)
		}
		names = append(names, name)
	}
	return names, errors.WithStack(rows.Err())
}

func (st *store) Fetch(names []string) ([]*storage.Record, error) {
	stmt, err := st.Prepare("SELECT doc, digest, ctime, mtime FROM polys WHERE name = $1")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer stmt.Close()

	var result []*storage.Record
	for _, name := range names {
		var text string
		rec := &storage.Record{Name: name}
		err := stmt.QueryRow(name).Scan(&text, &rec.Digest, &rec.CTime, &rec.MTime)
		if err == sql.ErrNoRows {
			continue
		} else if err != nil {
			return nil, errors.WithStack(err)
		}
		rec.Poly, err = poly.Parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt record %q", name)
		}
		result = append(result, rec)
	}
	if len(result) == 0 {
		return nil, errors.WithStack(storage.ErrPolyNotFound)
	}
	return result, nil
}

func (st *store) Insert(name string, p *poly.Poly) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := st.Exec(`INSERT INTO polys (name, doc, digest, ctime, mtime)
VALUES ($1, $2, $3, $4, $4) ON CONFLICT (name) DO NOTHING`,
		name, p.String(), p.Digest(), now)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errors.Wrapf(storage.ErrPolyExists, "%q", name)
	}
	return nil
}

func (st *store) Update(name string, p *poly.Poly, priorDigest string) error {
	tx, err := st.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer tx.Rollback()

	var digest string
	err = tx.QueryRow("SELECT digest FROM polys WHERE name = $1 FOR UPDATE", name).Scan(&digest)
	if err == sql.ErrNoRows {
		return errors.WithStack(storage.ErrPolyNotFound)
	} else if err != nil {
		return errors.WithStack(err)
	}
	if digest != priorDigest {
		return errors.Wrapf(storage.ErrDigestMismatch, "%q has %q, expected %q", name, digest, priorDigest)
	}
	_, err = tx.Exec("UPDATE polys SET doc = $2, digest = $3, mtime = $4 WHERE name = $1",
		name, p.String(), p.Digest(), time.Now().UTC())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(tx.Commit())
}

func (st *store) Delete(name string) error {
	res, err := st.Exec("DELETE FROM polys WHERE name = $1", name)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errors.WithStack(storage.ErrPolyNotFound)
	}
	return nil
}
