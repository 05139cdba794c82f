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

package poly

import (
	"errors"

	"gopkg.in/errgo.v1"
)

var (
	ErrMalformed        = errgo.New("malformed polynomial text")
	ErrLengthMismatch   = errgo.New("coefficient and exponent lists differ in length")
	ErrNegativeExponent = errgo.New("negative exponent")
	ErrNonFinite        = errgo.New("non-finite coefficient")
	ErrExponentOverflow = errgo.New("exponent overflow")
)

// IsMalformed returns whether err was caused by unparseable polynomial text,
// looking through wrappers that only implement Unwrap.
func IsMalformed(err error) bool {
	for err != nil {
		if errgo.Cause(err) == ErrMalformed {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func malformedf(format string, args ...interface{}) error {
	return errgo.WithCausef(nil, ErrMalformed, "%v: "+format, append([]interface{}{ErrMalformed}, args...)...)
}

func errLengthMismatch(ncoeffs, nexps int) error {
	return errgo.WithCausef(nil, ErrLengthMismatch, "%v: %d coefficients, %d exponents", ErrLengthMismatch, ncoeffs, nexps)
}

func errNegativeExponent(i, exp int) error {
	return errgo.WithCausef(nil, ErrNegativeExponent, "%v %d at index %d", ErrNegativeExponent, exp, i)
}

func errNonFinite(i int, c float64) error {
	return errgo.WithCausef(nil, ErrNonFinite, "%v %v at index %d", ErrNonFinite, c, i)
}

func errExponentOverflow(d1, d2 int) error {
	return errgo.WithCausef(nil, ErrExponentOverflow, "%v: degree %d times degree %d", ErrExponentOverflow, d1, d2)
}
