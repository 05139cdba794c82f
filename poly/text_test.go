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
	"encoding/json"
	"math"

	gc "gopkg.in/check.v1"
)

type TextSuite struct{}

var _ = gc.Suite(&TextSuite{})

func (s *TextSuite) TestParse(c *gc.C) {
	p, err := Parse("5-3x2+7x8")
	c.Assert(err, gc.IsNil)
	c.Assert(p.Terms(), gc.DeepEquals, []Term{{5, 0}, {-3, 2}, {7, 8}})
	c.Assert(p.Eval(1), gc.Equals, 9.0)
}

func (s *TextSuite) TestParseForms(c *gc.C) {
	for _, tc := range []struct {
		in    string
		terms []Term
	}{
		{"5", []Term{{5, 0}}},
		{"-5", []Term{{-5, 0}}},
		{"2.5x3", []Term{{2.5, 3}}},
		{"-.5x1", []Term{{-0.5, 1}}},
		{"5.x1", []Term{{5, 1}}},
		{"4x0+1", []Term{{5, 0}}},
		{"1x2.0", []Term{{1, 2}}},
		{"1x2.", []Term{{1, 2}}},
		{"1x2.00-1x2", nil},
		{"0", nil},
		{"-3x2-4x2+1", []Term{{-7, 2}, {1, 0}}},
		{"007x01", []Term{{7, 1}}},
	} {
		p, err := Parse(tc.in)
		c.Assert(err, gc.IsNil, gc.Commentf("%q", tc.in))
		c.Assert(p.Terms(), gc.DeepEquals, tc.terms, gc.Commentf("%q", tc.in))
	}
}

func (s *TextSuite) TestParseMalformed(c *gc.C) {
	for _, in := range []string{
		"",
		"+",
		"-",
		"+5",
		"5+",
		"5++3",
		"5--3",
		"x2",
		"5x",
		"5x-2",
		"5x2x3",
		"5y2",
		"5 + 3x2",
		" 5",
		"1e5",
		"1e5x2",
		"0x1p-2",
		"NaN",
		"Inf",
		"5x2.5",
		"abc",
		"5x99999999999999999999999",
	} {
		p, err := Parse(in)
		c.Assert(p, gc.IsNil, gc.Commentf("%q", in))
		c.Assert(err, gc.NotNil, gc.Commentf("%q", in))
		c.Assert(IsMalformed(err), gc.Equals, true, gc.Commentf("%q: %v", in, err))
		c.Assert(err, gc.ErrorMatches, "malformed polynomial text: .*")
	}
}

func (s *TextSuite) TestParseErrorNamesTerm(c *gc.C) {
	_, err := Parse("5-3x2+7y8")
	c.Assert(err, gc.ErrorMatches, `malformed polynomial text: term "7y8": invalid coefficient "7y8"`)
	_, err = Parse("5-3x")
	c.Assert(err, gc.ErrorMatches, `malformed polynomial text: term "-3x": invalid exponent ""`)
}

func (s *TextSuite) TestMustParsePanics(c *gc.C) {
	c.Assert(func() { MustParse("x") }, gc.PanicMatches, "malformed polynomial text: .*")
}

func (s *TextSuite) TestString(c *gc.C) {
	for _, tc := range []struct {
		p   *Poly
		out string
	}{
		{Zero(), "0"},
		{New(Term{5, 0}), "5"},
		{New(Term{-5, 0}), "-5"},
		{New(Term{5, 0}, Term{-3, 2}, Term{7, 8}), "5-3x2+7x8"},
		{New(Term{-3, 2}, Term{5, 0}), "-3x2+5"},
		{New(Term{2.5, 1}, Term{-0.125, 3}), "2.5x1-0.125x3"},
		{New(Term{1e21, 1}), "1000000000000000000000x1"},
		{New(Term{1e-7, 0}), "0.0000001"},
	} {
		c.Assert(tc.p.String(), gc.Equals, tc.out)
	}
}

func (s *TextSuite) TestRoundTrip(c *gc.C) {
	p := MustParse("5-3x2+7x8")
	q, err := Parse(p.String())
	c.Assert(err, gc.IsNil)
	c.Assert(q.Terms(), gc.DeepEquals, []Term{{5, 0}, {-3, 2}, {7, 8}})
	c.Assert(q.Equal(p), gc.Equals, true)
	c.Assert(q.Eval(1), gc.Equals, 9.0)

	for _, p := range []*Poly{
		Zero(),
		New(Term{math.Pi, 3}, Term{-math.E, 0}, Term{1e-300, 2}, Term{-1e300, 9}),
		New(Term{0.1, 1}, Term{0.2, 2}, Term{0.3, 3}),
	} {
		q, err := Parse(p.String())
		c.Assert(err, gc.IsNil, gc.Commentf("%v", p))
		c.Assert(q.Terms(), gc.DeepEquals, p.Terms())
	}
}

func (s *TextSuite) TestJSON(c *gc.C) {
	var doc struct {
		P *Poly `json:"p"`
	}
	err := json.Unmarshal([]byte(`{"p":"1x2-4"}`), &doc)
	c.Assert(err, gc.IsNil)
	c.Assert(doc.P.Terms(), gc.DeepEquals, []Term{{1, 2}, {-4, 0}})

	out, err := json.Marshal(doc)
	c.Assert(err, gc.IsNil)
	c.Assert(string(out), gc.Equals, `{"p":"1x2-4"}`)

	err = json.Unmarshal([]byte(`{"p":"1x"}`), &doc)
	c.Assert(err, gc.NotNil)
}
