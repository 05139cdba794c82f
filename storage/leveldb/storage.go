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

// Package leveldb provides a key-value storage implementation of the
// polynomial storage interface.
package leveldb

import (
	"bytes"
	"encoding/gob"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"sparsepoly/poly"
	"sparsepoly/storage"
)

const keyPrefix = "poly:"

type store struct {
	storage.Listeners

	path string
	db   *leveldb.DB

	// mu serializes read-modify-write sequences.
	mu sync.Mutex
}

var _ storage.Storage = (*store)(nil)

// doc is the stored form of a polynomial. The canonical text is kept rather
// than the term list, so loading goes through poly.Parse.
type doc struct {
	Text   string
	Digest string
	CTime  time.Time
	MTime  time.Time
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}

// Open opens or creates a leveldb polynomial store at path.
func Open(path string) (storage.Storage, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open leveldb %q", path)
	}
	return &store{path: path, db: db}, nil
}

func (st *store) Close() error {
	return errors.WithStack(st.db.Close())
}

// Drop closes the store and removes its files.
func Drop(s storage.Storage) error {
	st, ok := s.(*store)
	if !ok {
		return errors.Errorf("not a leveldb store: %T", s)
	}
	if err := st.db.Close(); err != nil {
		log.Warningf("failed to close leveldb: %v", err)
	}
	return errors.WithStack(os.RemoveAll(st.path))
}

func (st *store) Names() ([]string, error) {
	iter := st.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()
	var names []string
	for iter.Next() {
		names = append(names, string(iter.Key()[len(keyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.WithStack(err)
	}
	sort.Strings(names)
	return names, nil
}

func (st *store) get(name string) (*doc, error) {
	buf, err := st.db.Get(key(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.WithStack(storage.ErrPolyNotFound)
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	var d doc
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "corrupt record %q", name)
	}
	return &d, nil
}

func (st *store) put(name string, d *doc) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(st.db.Put(key(name), buf.Bytes(), nil))
}

func (st *store) Fetch(names []string) ([]*storage.Record, error) {
	var result []*storage.Record
	for _, name := range names {
		d, err := st.get(name)
		if storage.IsNotFound(err) {
			continue
		} else if err != nil {
			return nil, err
		}
		p, err := poly.Parse(d.Text)
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt record %q", name)
		}
		result = append(result, &storage.Record{
			Name:   name,
			Poly:   p,
			Digest: d.Digest,
			CTime:  d.CTime,
			MTime:  d.MTime,
		})
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
	st.mu.Lock()
	defer st.mu.Unlock()
	_, err := st.get(name)
	if err == nil {
		return errors.Wrapf(storage.ErrPolyExists, "%q", name)
	} else if !storage.IsNotFound(err) {
		return err
	}
	now := time.Now().UTC()
	return st.put(name, &doc{Text: p.String(), Digest: p.Digest(), CTime: now, MTime: now})
}

func (st *store) Update(name string, p *poly.Poly, priorDigest string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	d, err := st.get(name)
	if err != nil {
		return err
	}
	if d.Digest != priorDigest {
		return errors.Wrapf(storage.ErrDigestMismatch, "%q has %q, expected %q", name, d.Digest, priorDigest)
	}
	d.Text, d.Digest, d.MTime = p.String(), p.Digest(), time.Now().UTC()
	return st.put(name, d)
}

func (st *store) Delete(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, err := st.get(name); err != nil {
		return err
	}
	return errors.WithStack(st.db.Delete(key(name), nil))
}
