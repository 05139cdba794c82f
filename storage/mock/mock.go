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

// Package mock provides a recording storage.Storage for unit tests.
package mock

import (
	"sparsepoly/poly"
	"sparsepoly/storage"
)

type MethodCall struct {
	Name string
	Args []interface{}
}

type Recorder struct {
	Calls []MethodCall
}

func (m *Recorder) record(name string, args ...interface{}) {
	m.Calls = append(m.Calls, MethodCall{Name: name, Args: args})
}

func (m *Recorder) MethodCount(name string) int {
	var n int
	for _, call := range m.Calls {
		if name == call.Name {
			n++
		}
	}
	return n
}

type closeFunc func() error
type namesFunc func() ([]string, error)
type fetchFunc func([]string) ([]*storage.Record, error)
type insertFunc func(string, *poly.Poly) error
type updateFunc func(string, *poly.Poly, string) error
type deleteFunc func(string) error

type Storage struct {
	Recorder
	storage.Listeners

	close_  closeFunc
	names   namesFunc
	fetch   fetchFunc
	insert  insertFunc
	update  updateFunc
	delete_ deleteFunc
}

var _ storage.Storage = (*Storage)(nil)

type Option func(*Storage)

func Close(f closeFunc) Option   { return func(m *Storage) { m.close_ = f } }
func Names(f namesFunc) Option   { return func(m *Storage) { m.names = f } }
func Fetch(f fetchFunc) Option   { return func(m *Storage) { m.fetch = f } }
func Insert(f insertFunc) Option { return func(m *Storage) { m.insert = f } }
func Update(f updateFunc) Option { return func(m *Storage) { m.update = f } }
func Delete(f deleteFunc) Option { return func(m *Storage) { m.delete_ = f } }

func NewStorage(options ...Option) *Storage {
	m := &Storage{}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Storage) Close() error {
	m.record("Close")
	if m.close_ != nil {
		return m.close_()
	}
	return nil
}
func (m *Storage) Names() ([]string, error) {
	m.record("Names")
	if m.names != nil {
		return m.names()
	}
	return nil, nil
}
func (m *Storage) Fetch(names []string) ([]*storage.Record, error) {
	m.record("Fetch", names)
	if m.fetch != nil {
		return m.fetch(names)
	}
	return nil, storage.ErrPolyNotFound
}
func (m *Storage) Insert(name string, p *poly.Poly) error {
	m.record("Insert", name, p)
	if m.insert != nil {
		return m.insert(name, p)
	}
	return nil
}
func (m *Storage) Update(name string, p *poly.Poly, priorDigest string) error {
	m.record("Update", name, p, priorDigest)
	if m.update != nil {
		return m.update(name, p, priorDigest)
	}
	return nil
}
func (m *Storage) Delete(name string) error {
	m.record("Delete", name)
	if m.delete_ != nil {
		return m.delete_(name)
	}
	return nil
}
