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

// Package polytest provides random polynomial inputs and sample points for
// unit tests.
package polytest

import (
	"fmt"

	"github.com/jmcvetta/randutil"

	"sparsepoly/poly"
)

// MaxExp is the largest exponent produced by RandomTerms.
const MaxExp = 8

// SamplePoints are evaluation points whose powers up to MaxExp are exactly
// representable, so sums of term values do not depend on term order.
var SamplePoints = []float64{-2, -1.5, -1, -0.5, 0, 0.25, 0.5, 1, 2, 3}

func mustIntRange(min, max int) int {
	n, err := randutil.IntRange(min, max)
	if err != nil {
		panic(fmt.Errorf("cannot generate random int: %v", err))
	}
	return n
}

// RandomTerms returns n random terms with small integer coefficients in
// [-5, 5] and exponents in [0, MaxExp]. Duplicate exponents and zero
// coefficients are expected.
func RandomTerms(n int) []poly.Term {
	terms := make([]poly.Term, n)
	for i := range terms {
		terms[i] = poly.Term{
			Coeff: float64(mustIntRange(-5, 6)),
			Exp:   mustIntRange(0, MaxExp+1),
		}
	}
	return terms
}

// RandomPoly returns a polynomial built from up to maxTerms random terms.
func RandomPoly(maxTerms int) *poly.Poly {
	return poly.New(RandomTerms(mustIntRange(0, maxTerms+1))...)
}

// HasDuplicates returns whether any two terms share an exponent.
func HasDuplicates(terms []poly.Term) bool {
	for i := range terms {
		for j := 0; j < i; j++ {
			if terms[i].Exp == terms[j].Exp {
				return true
			}
		}
	}
	return false
}

// HasZeros returns whether any term has a zero coefficient.
func HasZeros(terms []poly.Term) bool {
	for _, t := range terms {
		if t.Coeff == 0 {
			return true
		}
	}
	return false
}
