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

// Package poly implements single-variable polynomials with real coefficients
// and non-negative integer exponents, stored as a sparse list of terms.
//
// Every Poly is kept in canonical form: no two terms share an exponent and no
// term has a zero coefficient. Values are immutable once constructed, so they
// may be shared between goroutines without locking.
package poly

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sort"

	"gopkg.in/basen.v1"
)

// Term is a single coeff·x^exp contribution to a polynomial.
type Term struct {
	Coeff float64
	Exp   int
}

// Poly represents a polynomial as a sparse list of terms.
type Poly struct {

	// terms is in canonical form, ordered by first occurrence of each
	// exponent in the list the polynomial was built from.
	terms []Term
}

// Zero returns the zero polynomial, which has no terms.
func Zero() *Poly {
	return &Poly{}
}

// New creates a polynomial from the given terms. Terms sharing an exponent
// are combined and zero coefficients are dropped.
//
// New panics if any exponent is negative; use FromLists to validate
// untrusted input.
func New(terms ...Term) *Poly {
	for _, t := range terms {
		if t.Exp < 0 {
			panic(fmt.Sprintf("negative exponent %d", t.Exp))
		}
	}
	return &Poly{terms: canonicalize(terms)}
}

// FromLists creates a polynomial from parallel coefficient and exponent
// lists. Lists of different lengths, negative exponents and non-finite
// coefficients are rejected.
func FromLists(coeffs []float64, exps []int) (*Poly, error) {
	if len(coeffs) != len(exps) {
		return nil, errLengthMismatch(len(coeffs), len(exps))
	}
	terms := make([]Term, len(coeffs))
	for i := range coeffs {
		if exps[i] < 0 {
			return nil, errNegativeExponent(i, exps[i])
		}
		if math.IsNaN(coeffs[i]) || math.IsInf(coeffs[i], 0) {
			return nil, errNonFinite(i, coeffs[i])
		}
		terms[i] = Term{Coeff: coeffs[i], Exp: exps[i]}
	}
	return &Poly{terms: canonicalize(terms)}, nil
}

// canonicalize returns a new term list with duplicate exponents combined
// into their first occurrence and zero coefficients removed. Combining
// happens first so that cancelling terms are dropped.
func canonicalize(terms []Term) []Term {
	result := make([]Term, 0, len(terms))
	index := make(map[int]int, len(terms))
	for _, t := range terms {
		if i, ok := index[t.Exp]; ok {
			result[i].Coeff += t.Coeff
			continue
		}
		index[t.Exp] = len(result)
		result = append(result, t)
	}

	n := 0
	for _, t := range result {
		if t.Coeff != 0 {
			result[n] = t
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return result[:n]
}

// Terms returns a copy of the polynomial's terms in canonical order.
func (p *Poly) Terms() []Term {
	if p == nil || len(p.terms) == 0 {
		return nil
	}
	return append([]Term(nil), p.terms...)
}

// Len returns the number of non-zero terms.
func (p *Poly) Len() int {
	if p == nil {
		return 0
	}
	return len(p.terms)
}

// IsZero returns whether p is the zero polynomial.
func (p *Poly) IsZero() bool {
	return p.Len() == 0
}

// Degree returns the highest exponent that appears in the polynomial.
// The zero polynomial has degree 0.
func (p *Poly) Degree() int {
	var degree int
	for _, t := range p.Terms() {
		if t.Exp > degree {
			degree = t.Exp
		}
	}
	return degree
}

// Coeff returns the coefficient of the term with the given exponent, or 0.
func (p *Poly) Coeff(exp int) float64 {
	for _, t := range p.Terms() {
		if t.Exp == exp {
			return t.Coeff
		}
	}
	return 0
}

// Add returns the sum of p and q.
func (p *Poly) Add(q *Poly) *Poly {
	terms := make([]Term, 0, p.Len()+q.Len())
	terms = append(terms, p.Terms()...)
	terms = append(terms, q.Terms()...)
	return &Poly{terms: canonicalize(terms)}
}

// Mul returns the product of p and q. It panics if an exponent of the
// product would overflow int; MulChecked reports that as an error instead.
func (p *Poly) Mul(q *Poly) *Poly {
	r, err := p.MulChecked(q)
	if err != nil {
		panic(err)
	}
	return r
}

// MulChecked returns the product of p and q, or an error whose cause is
// ErrExponentOverflow if the degree of the product does not fit in an int.
func (p *Poly) MulChecked(q *Poly) (*Poly, error) {
	if !p.IsZero() && !q.IsZero() && p.Degree() > math.MaxInt-q.Degree() {
		return nil, errExponentOverflow(p.Degree(), q.Degree())
	}
	x, y := p.Terms(), q.Terms()
	terms := make([]Term, 0, len(x)*len(y))
	for i := range x {
		for j := range y {
			terms = append(terms, Term{
				Coeff: x[i].Coeff * y[j].Coeff,
				Exp:   x[i].Exp + y[j].Exp,
			})
		}
	}
	return &Poly{terms: canonicalize(terms)}, nil
}

// Eval returns the value of the polynomial at x.
func (p *Poly) Eval(x float64) float64 {
	var sum float64
	for _, t := range p.Terms() {
		sum += t.Coeff * math.Pow(x, float64(t.Exp))
	}
	return sum
}

// HasRoot returns whether the polynomial evaluates to exactly 0 at x.
//
// No tolerance is applied. A polynomial that is mathematically zero at x may
// evaluate to a small non-zero value due to floating point rounding, in which
// case HasRoot reports false.
func (p *Poly) HasRoot(x float64) bool {
	return p.Eval(x) == 0
}

// Equal returns whether p and q have the same set of terms, regardless of
// term order.
func (p *Poly) Equal(q *Poly) bool {
	if p.Len() != q.Len() {
		return false
	}
	for _, t := range p.Terms() {
		if q.Coeff(t.Exp) != t.Coeff {
			return false
		}
	}
	return true
}

// sorted returns the terms ordered by ascending exponent.
func (p *Poly) sorted() *Poly {
	terms := p.Terms()
	sort.Slice(terms, func(i, j int) bool { return terms[i].Exp < terms[j].Exp })
	return &Poly{terms: terms}
}

// Digest returns a base58-encoded SHA-256 digest of the polynomial. Equal
// polynomials have equal digests, whatever order their terms are in.
func (p *Poly) Digest() string {
	h := sha256.New()
	h.Write([]byte(p.sorted().String()))
	return basen.Base58.EncodeToString(h.Sum(nil))
}
