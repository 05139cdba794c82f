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

package poly_test

import (
	gc "gopkg.in/check.v1"

	"sparsepoly/poly"
	"sparsepoly/polytest"
)

type PropertySuite struct{}

var _ = gc.Suite(&PropertySuite{})

const rounds = 200

func (s *PropertySuite) TestCanonicalForm(c *gc.C) {
	for i := 0; i < rounds; i++ {
		terms := polytest.RandomTerms(i % 20)
		p := poly.New(terms...)
		c.Assert(polytest.HasDuplicates(p.Terms()), gc.Equals, false, gc.Commentf("%v -> %v", terms, p))
		c.Assert(polytest.HasZeros(p.Terms()), gc.Equals, false, gc.Commentf("%v -> %v", terms, p))
		for _, x := range polytest.SamplePoints {
			var want float64
			for _, t := range terms {
				want += t.Coeff * pow(x, t.Exp)
			}
			c.Assert(p.Eval(x), gc.Equals, want)
		}
	}
}

func (s *PropertySuite) TestAdditiveIdentity(c *gc.C) {
	for i := 0; i < rounds; i++ {
		p := polytest.RandomPoly(12)
		z := p.Add(poly.Zero())
		for _, x := range polytest.SamplePoints {
			c.Assert(z.Eval(x), gc.Equals, p.Eval(x))
		}
	}
}

func (s *PropertySuite) TestCommutativity(c *gc.C) {
	for i := 0; i < rounds; i++ {
		a, b := polytest.RandomPoly(10), polytest.RandomPoly(10)
		c.Assert(a.Add(b).Equal(b.Add(a)), gc.Equals, true)
		c.Assert(a.Mul(b).Equal(b.Mul(a)), gc.Equals, true)
		for _, x := range polytest.SamplePoints {
			c.Assert(a.Add(b).Eval(x), gc.Equals, b.Add(a).Eval(x))
			c.Assert(a.Mul(b).Eval(x), gc.Equals, b.Mul(a).Eval(x))
		}
	}
}

func (s *PropertySuite) TestProductEvaluates(c *gc.C) {
	for i := 0; i < rounds; i++ {
		a, b := polytest.RandomPoly(6), polytest.RandomPoly(6)
		ab := a.Mul(b)
		c.Assert(polytest.HasDuplicates(ab.Terms()), gc.Equals, false)
		for _, x := range polytest.SamplePoints {
			c.Assert(ab.Eval(x), gc.Equals, a.Eval(x)*b.Eval(x), gc.Commentf("(%v)(%v) at %v", a, b, x))
		}
	}
}

func (s *PropertySuite) TestTextRoundTrip(c *gc.C) {
	for i := 0; i < rounds; i++ {
		p := polytest.RandomPoly(12)
		q, err := poly.Parse(p.String())
		c.Assert(err, gc.IsNil)
		c.Assert(q.Terms(), gc.DeepEquals, p.Terms())
		c.Assert(q.Digest(), gc.Equals, p.Digest())
	}
}

func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
