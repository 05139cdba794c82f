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

// Package demo walks through the polynomial operations end to end, printing
// each result. It backs the polyctl demo command.
package demo

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"sparsepoly/poly"
	"sparsepoly/polytest"
)

// Run writes the walkthrough to w, saving and reloading a polynomial at path.
func Run(w io.Writer, path string) error {
	fmt.Fprintln(w, poly.Zero().Eval(3))

	p1, err := poly.FromLists([]float64{6, 0, 0, 5}, []int{0, 1, 2, 3})
	if err != nil {
		return errors.WithStack(err)
	}
	p2, err := poly.FromLists([]float64{0, -2, 0, 0, -9}, []int{0, 1, 2, 3, 4})
	if err != nil {
		return errors.WithStack(err)
	}

	s := p1.Add(p2)
	fmt.Fprintf(w, "s(0.1)=%v\n", s.Eval(0.1))
	if s.HasRoot(1) {
		fmt.Fprintln(w, "1 is a root of s")
	} else {
		fmt.Fprintln(w, "1 is not a root of s")
	}

	p12 := p1.Mul(p2)
	for i := 0; i < 10; i++ {
		x := float64(i)
		fmt.Fprintf(w, "p1(%d)*p2(%d) = %v = %v\n", i, i, p12.Eval(x), p1.Eval(x)*p2.Eval(x))
	}
	if polytest.HasDuplicates(p12.Terms()) {
		fmt.Fprintln(w, "p1*p2 has duplicates")
	} else {
		fmt.Fprintln(w, "p1*p2 does not have duplicates")
	}

	p3, err := poly.Parse("5-3x2+7x8")
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintf(w, "p3(1) = (%v)(1) = %v\n", p3, p3.Eval(1))

	fmt.Fprintf(w, "Saving p3 to %s\n", path)
	if err := poly.Save(path, p3); err != nil {
		return errors.WithStack(err)
	}
	p4, err := poly.Load(path)
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintf(w, "%v = %v\n", p3, p4)
	return nil
}
