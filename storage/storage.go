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

// Package storage defines the API for persisting named polynomials.
package storage

import (
	"fmt"
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/pkg/errors"

	"sparsepoly/poly"
)

var (
	ErrPolyNotFound   = errors.New("polynomial not found")
	ErrPolyExists     = errors.New("polynomial already exists")
	ErrDigestMismatch = errors.New("stored polynomial digest does not match")
	ErrInvalidName    = errors.New("invalid polynomial name")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolyNotFound)
}

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// ValidateName checks that name is usable as a storage key.
func ValidateName(name string) error {
	if !nameRE.MatchString(name) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// Record is a stored polynomial.
type Record struct {
	Name   string
	Poly   *poly.Poly
	Digest string

	CTime time.Time
	MTime time.Time
}

// Storage defines the API that is needed to implement a complete storage
// backend for named polynomials.
type Storage interface {
	io.Closer
	Queryer
	Updater
	Notifier
}

// Queryer defines the storage API for listing and retrieving polynomials.
type Queryer interface {

	// Names returns the names of all stored polynomials, sorted.
	Names() ([]string, error)

	// Fetch returns the records for the given names. Names that are not
	// stored are skipped; if none are found, ErrPolyNotFound is returned.
	Fetch([]string) ([]*Record, error)
}

// Updater defines the storage API for writing polynomials.
type Updater interface {

	// Insert stores a new polynomial. ErrPolyExists is returned if the name
	// is already taken.
	Insert(name string, p *poly.Poly) error

	// Update replaces the stored polynomial, if the digest of the current
	// contents matches priorDigest. If it does not, ErrDigestMismatch is
	// returned and the update should be retried.
	Update(name string, p *poly.Poly, priorDigest string) error

	// Delete removes a stored polynomial.
	Delete(name string) error
}

type Notifier interface {
	// Subscribe registers a change callback function.
	Subscribe(func(PolyChange) error)

	// Notify invokes all registered callbacks with a change notification.
	Notify(change PolyChange) error
}

type PolyChange interface {
	PolyName() string
}

type PolyAdded struct {
	Name   string
	Digest string
}

func (pa PolyAdded) PolyName() string { return pa.Name }

func (pa PolyAdded) String() string {
	return fmt.Sprintf("polynomial %q added %q", pa.Name, pa.Digest)
}

type PolyReplaced struct {
	Name      string
	OldDigest string
	NewDigest string
}

func (pr PolyReplaced) PolyName() string { return pr.Name }

func (pr PolyReplaced) String() string {
	return fmt.Sprintf("polynomial %q %q replaced %q", pr.Name, pr.NewDigest, pr.OldDigest)
}

type PolyRemoved struct {
	Name   string
	Digest string
}

func (pr PolyRemoved) PolyName() string { return pr.Name }

func (pr PolyRemoved) String() string {
	return fmt.Sprintf("polynomial %q removed %q", pr.Name, pr.Digest)
}

type PolyNotChanged struct {
	Name string
}

func (pnc PolyNotChanged) PolyName() string { return pnc.Name }

func (pnc PolyNotChanged) String() string {
	return fmt.Sprintf("polynomial %q not changed", pnc.Name)
}

// FetchOne returns the record stored under name.
func FetchOne(st Queryer, name string) (*Record, error) {
	records, err := st.Fetch([]string{name})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, record := range records {
		if record.Name == name {
			return record, nil
		}
	}
	return nil, errors.WithStack(ErrPolyNotFound)
}

// Upsert stores p under name, inserting it if the name is new and replacing
// it if the stored polynomial differs. Subscribers are notified of the
// resulting change.
func Upsert(st Storage, name string, p *poly.Poly) (PolyChange, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var change PolyChange
	last, err := FetchOne(st, name)
	if IsNotFound(err) {
		err = st.Insert(name, p)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		change = PolyAdded{Name: name, Digest: p.Digest()}
	} else if err != nil {
		return nil, errors.WithStack(err)
	} else if last.Digest == p.Digest() {
		return PolyNotChanged{Name: name}, nil
	} else {
		err = st.Update(name, p, last.Digest)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		change = PolyReplaced{Name: name, OldDigest: last.Digest, NewDigest: p.Digest()}
	}
	if err := st.Notify(change); err != nil {
		return nil, errors.WithStack(err)
	}
	return change, nil
}

// Remove deletes the polynomial stored under name and notifies subscribers.
func Remove(st Storage, name string) (PolyChange, error) {
	last, err := FetchOne(st, name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = st.Delete(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	change := PolyRemoved{Name: name, Digest: last.Digest}
	if err := st.Notify(change); err != nil {
		return nil, errors.WithStack(err)
	}
	return change, nil
}

// Listeners implements Notifier; backends embed it.
type Listeners struct {
	mu        sync.Mutex
	listeners []func(PolyChange) error
}

func (l *Listeners) Subscribe(f func(PolyChange) error) {
	l.mu.Lock()
	l.listeners = append(l.listeners, f)
	l.mu.Unlock()
}

func (l *Listeners) Notify(change PolyChange) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.listeners {
		if err := f(change); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
