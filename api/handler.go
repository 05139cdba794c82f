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

// Package api serves polynomial arithmetic and named polynomial storage
// over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"sparsepoly/poly"
	"sparsepoly/storage"
)

const (
	DefaultCacheSize = 1024

	maxBodyBytes = 1 << 20
)

var errTooFewOperands = errors.New("at least two operands are required")

func httpError(w http.ResponseWriter, statusCode int, err error) {
	if statusCode != http.StatusNotFound {
		log.Errorf("HTTP %d: %+v", statusCode, err)
	}
	http.Error(w, http.StatusText(statusCode), statusCode)
}

func statusCode(err error) int {
	switch {
	case poly.IsMalformed(err),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, errTooFewOperands),
		errgo.Cause(err) == poly.ErrExponentOverflow:
		return http.StatusBadRequest
	case storage.IsNotFound(err):
		return http.StatusNotFound
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrDigestMismatch),
		errors.Is(err, storage.ErrPolyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func isTooLarge(err error) bool {
	for err != nil {
		if _, ok := errgo.Cause(err).(*http.MaxBytesError); ok {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

type Handler struct {
	storage storage.Storage

	// cache maps polynomial text to its parsed *poly.Poly. Parsed values
	// are immutable, so they are shared between requests.
	cache     *lru.Cache
	cacheSize int

	opFunc func(op string)
}

type HandlerOption func(h *Handler) error

// CacheSize sets the number of parsed operands kept in memory.
func CacheSize(size int) HandlerOption {
	return func(h *Handler) error {
		if size <= 0 {
			return errors.Errorf("invalid cache size %d", size)
		}
		h.cacheSize = size
		return nil
	}
}

// OpFunc registers a callback invoked for each arithmetic operation served.
func OpFunc(f func(op string)) HandlerOption {
	return func(h *Handler) error {
		h.opFunc = f
		return nil
	}
}

func NewHandler(st storage.Storage, options ...HandlerOption) (*Handler, error) {
	h := &Handler{
		storage:   st,
		cacheSize: DefaultCacheSize,
		opFunc:    func(string) {},
	}
	for _, option := range options {
		if err := option(h); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	var err error
	h.cache, err = lru.New(h.cacheSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return h, nil
}

func (h *Handler) Register(r *httprouter.Router) {
	r.GET("/polys", h.List)
	r.GET("/polys/:name", h.Get)
	r.PUT("/polys/:name", h.Put)
	r.DELETE("/polys/:name", h.Delete)
	r.GET("/polys/:name/eval", h.EvalStored)
	r.POST("/ops/add", h.Add)
	r.POST("/ops/mul", h.Mul)
	r.POST("/ops/eval", h.Eval)
}

func (h *Handler) parse(text string) (*poly.Poly, error) {
	if v, ok := h.cache.Get(text); ok {
		return v.(*poly.Poly), nil
	}
	p, err := poly.Parse(text)
	if err != nil {
		return nil, err
	}
	h.cache.Add(text, p)
	return p, nil
}

type termDoc struct {
	Coeff float64 `json:"coeff"`
	Exp   int     `json:"exp"`
}

type polyDoc struct {
	Name   string     `json:"name,omitempty"`
	Poly   *poly.Poly `json:"poly"`
	Digest string     `json:"digest"`
	Degree int        `json:"degree"`
	Terms  []termDoc  `json:"terms"`
	CTime  *time.Time `json:"ctime,omitempty"`
	MTime  *time.Time `json:"mtime,omitempty"`
}

func newPolyDoc(p *poly.Poly) *polyDoc {
	doc := &polyDoc{
		Poly:   p,
		Digest: p.Digest(),
		Degree: p.Degree(),
		Terms:  []termDoc{},
	}
	for _, t := range p.Terms() {
		doc.Terms = append(doc.Terms, termDoc{Coeff: t.Coeff, Exp: t.Exp})
	}
	return doc
}

type pointDoc struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
	Root  bool    `json:"root"`
}

type evalDoc struct {
	Poly   *poly.Poly `json:"poly"`
	Points []pointDoc `json:"points"`
}

func newEvalDoc(p *poly.Poly, xs []float64) *evalDoc {
	doc := &evalDoc{Poly: p, Points: []pointDoc{}}
	for _, x := range xs {
		doc.Points = append(doc.Points, pointDoc{X: x, Value: p.Eval(x), Root: p.HasRoot(x)})
	}
	return doc
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		httpError(w, http.StatusInternalServerError, errors.WithStack(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	names, err := h.storage.Names()
	if err != nil {
		httpError(w, statusCode(err), errors.WithStack(err))
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, struct {
		Names []string `json:"names"`
	}{names})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rec, err := storage.FetchOne(h.storage, ps.ByName("name"))
	if err != nil {
		httpError(w, statusCode(err), err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		poly.Write(w, rec.Poly)
		return
	}
	doc := newPolyDoc(rec.Poly)
	doc.Name = rec.Name
	doc.CTime, doc.MTime = &rec.CTime, &rec.MTime
	writeJSON(w, doc)
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := poly.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpError(w, statusCode(err), err)
		return
	}
	change, err := storage.Upsert(h.storage, ps.ByName("name"), p)
	if err != nil {
		httpError(w, statusCode(err), err)
		return
	}
	writeJSON(w, struct {
		Change string `json:"change"`
		Digest string `json:"digest"`
	}{fmt.Sprint(change), p.Digest()})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	change, err := storage.Remove(h.storage, ps.ByName("name"))
	if err != nil {
		httpError(w, statusCode(err), err)
		return
	}
	writeJSON(w, struct {
		Change string `json:"change"`
	}{fmt.Sprint(change)})
}

func parsePoints(values []string) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.New("no evaluation points")
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid point %q", v)
		}
		xs[i] = x
	}
	return xs, nil
}

func (h *Handler) EvalStored(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	xs, err := parsePoints(r.URL.Query()["x"])
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := storage.FetchOne(h.storage, ps.ByName("name"))
	if err != nil {
		httpError(w, statusCode(err), err)
		return
	}
	h.opFunc("eval")
	writeJSON(w, newEvalDoc(rec.Poly, xs))
}

type opsRequest struct {
	Operands []string `json:"operands"`
}

func (h *Handler) operands(r *http.Request) ([]*poly.Poly, error) {
	var req opsRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request")
	}
	if len(req.Operands) < 2 {
		return nil, errors.WithStack(errTooFewOperands)
	}
	var result []*poly.Poly
	for _, text := range req.Operands {
		p, err := h.parse(text)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func (h *Handler) fold(w http.ResponseWriter, r *http.Request, op string, f func(p, q *poly.Poly) (*poly.Poly, error)) {
	operands, err := h.operands(r)
	if err != nil {
		code := statusCode(err)
		if code == http.StatusInternalServerError {
			code = http.StatusBadRequest
		}
		httpError(w, code, err)
		return
	}
	result := operands[0]
	for _, q := range operands[1:] {
		result, err = f(result, q)
		if err != nil {
			httpError(w, statusCode(err), err)
			return
		}
	}
	h.opFunc(op)
	writeJSON(w, newPolyDoc(result))
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.fold(w, r, "add", func(p, q *poly.Poly) (*poly.Poly, error) {
		return p.Add(q), nil
	})
}

func (h *Handler) Mul(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.fold(w, r, "mul", (*poly.Poly).MulChecked)
}

type evalRequest struct {
	Poly string    `json:"poly"`
	X    []float64 `json:"x"`
}

func (h *Handler) Eval(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req evalRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil {
		httpError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request"))
		return
	}
	if len(req.X) == 0 {
		httpError(w, http.StatusBadRequest, errors.New("no evaluation points"))
		return
	}
	p, err := h.parse(req.Poly)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	h.opFunc("eval")
	writeJSON(w, newEvalDoc(p, req.X))
}
