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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	gc "gopkg.in/check.v1"
	"gopkg.in/errgo.v1"
)

type IOSuite struct {
	dir string
}

var _ = gc.Suite(&IOSuite{})

func (s *IOSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
}

func (s *IOSuite) TestWrite(c *gc.C) {
	var buf bytes.Buffer
	err := Write(&buf, MustParse("5-3x2+7x8"))
	c.Assert(err, gc.IsNil)
	c.Assert(buf.String(), gc.Equals, "5-3x2+7x8\n")
}

func (s *IOSuite) TestRead(c *gc.C) {
	for _, in := range []string{
		"5-3x2+7x8",
		"5-3x2+7x8\n",
		"  5-3x2+7x8\r\n\n",
		"\n\n5-3x2+7x8\n",
	} {
		p, err := Read(strings.NewReader(in))
		c.Assert(err, gc.IsNil, gc.Commentf("%q", in))
		c.Assert(p.Terms(), gc.DeepEquals, []Term{{5, 0}, {-3, 2}, {7, 8}})
	}
}

func (s *IOSuite) TestReadMalformed(c *gc.C) {
	for _, in := range []string{
		"",
		"\n \n",
		"5-3x2\n7x8\n",
		"5-3y2\n",
	} {
		_, err := Read(strings.NewReader(in))
		c.Assert(IsMalformed(err), gc.Equals, true, gc.Commentf("%q: %v", in, err))
	}
}

func (s *IOSuite) TestSaveLoadLarge(c *gc.C) {
	terms := make([]Term, 10000)
	for i := range terms {
		terms[i] = Term{Coeff: 1.5, Exp: i}
	}
	p := New(terms...)
	c.Assert(len(p.String()) > 64*1024, gc.Equals, true)

	path := filepath.Join(s.dir, "large.txt")
	c.Assert(Save(path, p), gc.IsNil)
	q, err := Load(path)
	c.Assert(err, gc.IsNil)
	c.Assert(q.Terms(), gc.DeepEquals, p.Terms())
}

type digits byte

func (d digits) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(d)
	}
	return len(p), nil
}

func (s *IOSuite) TestReadLineTooLong(c *gc.C) {
	_, err := Read(io.LimitReader(digits('1'), MaxLineBytes+1))
	c.Assert(IsMalformed(err), gc.Equals, true)
	c.Assert(err, gc.ErrorMatches, ".*line longer than .* bytes")
}

func (s *IOSuite) TestSaveLoad(c *gc.C) {
	path := filepath.Join(s.dir, "test.txt")
	p := MustParse("5-3x2+7x8")
	err := Save(path, p)
	c.Assert(err, gc.IsNil)

	contents, err := os.ReadFile(path)
	c.Assert(err, gc.IsNil)
	c.Assert(string(contents), gc.Equals, "5-3x2+7x8\n")

	q, err := Load(path)
	c.Assert(err, gc.IsNil)
	c.Assert(q.Equal(p), gc.Equals, true)
	for _, x := range []float64{-2, -1, 0, 0.5, 1, 3} {
		c.Assert(q.Eval(x), gc.Equals, p.Eval(x))
	}
}

func (s *IOSuite) TestSaveLoadZero(c *gc.C) {
	path := filepath.Join(s.dir, "zero.txt")
	err := Save(path, Zero())
	c.Assert(err, gc.IsNil)
	q, err := Load(path)
	c.Assert(err, gc.IsNil)
	c.Assert(q.IsZero(), gc.Equals, true)
}

func (s *IOSuite) TestSaveOverwrites(c *gc.C) {
	path := filepath.Join(s.dir, "p.txt")
	c.Assert(Save(path, MustParse("1x9+2x8+3x7+4x6")), gc.IsNil)
	c.Assert(Save(path, MustParse("1")), gc.IsNil)
	q, err := Load(path)
	c.Assert(err, gc.IsNil)
	c.Assert(q.String(), gc.Equals, "1")
}

func (s *IOSuite) TestLoadMissing(c *gc.C) {
	_, err := Load(filepath.Join(s.dir, "nope.txt"))
	c.Assert(err, gc.ErrorMatches, "cannot load polynomial: .*")
	c.Assert(os.IsNotExist(errgo.Cause(err)), gc.Equals, true)
	c.Assert(IsMalformed(err), gc.Equals, false)
}

func (s *IOSuite) TestLoadMalformed(c *gc.C) {
	path := filepath.Join(s.dir, "bad.txt")
	err := os.WriteFile(path, []byte("5x\n"), 0644)
	c.Assert(err, gc.IsNil)
	_, err = Load(path)
	c.Assert(IsMalformed(err), gc.Equals, true)
	c.Assert(err, gc.ErrorMatches, `cannot load polynomial from ".*bad.txt": malformed polynomial text: .*`)
}

func (s *IOSuite) TestSaveUnwritable(c *gc.C) {
	err := Save(filepath.Join(s.dir, "missing", "p.txt"), Zero())
	c.Assert(err, gc.ErrorMatches, "cannot save polynomial: .*")
	c.Assert(os.IsNotExist(errgo.Cause(err)), gc.Equals, true)
}
