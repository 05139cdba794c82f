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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/errgo.v1"
)

// MaxLineBytes is the longest line Read accepts. Longer lines are
// malformed.
const MaxLineBytes = 64 << 20

// Read parses a polynomial from the first line of r. Surrounding whitespace
// is ignored; any further non-blank line is malformed.
func Read(r io.Reader) (*Poly, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineBytes)
	var line string
	var found bool
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if found {
			return nil, malformedf("more than one polynomial in input")
		}
		line, found = text, true
	}
	if err := scanner.Err(); err == bufio.ErrTooLong {
		return nil, malformedf("line longer than %d bytes", MaxLineBytes)
	} else if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	if !found {
		return nil, malformedf("no polynomial in input")
	}
	p, err := Parse(line)
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	return p, nil
}

// Write writes the polynomial to w as a single line of text.
func Write(w io.Writer, p *Poly) error {
	_, err := fmt.Fprintln(w, p.String())
	return errgo.Mask(err, errgo.Any)
}

// Load reads a polynomial from the named file. I/O errors keep their cause,
// so os.IsNotExist(errgo.Cause(err)) works on a missing file.
func Load(path string) (*Poly, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errgo.NoteMask(err, "cannot load polynomial", errgo.Any)
	}
	defer f.Close()
	p, err := Read(f)
	if err != nil {
		return nil, errgo.NoteMask(err, fmt.Sprintf("cannot load polynomial from %q", path), errgo.Any)
	}
	return p, nil
}

// Save writes the polynomial to the named file as a single line of text,
// replacing any existing contents.
func Save(path string, p *Poly) error {
	f, err := os.Create(path)
	if err != nil {
		return errgo.NoteMask(err, "cannot save polynomial", errgo.Any)
	}
	err = Write(f, p)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errgo.NoteMask(err, fmt.Sprintf("cannot save polynomial to %q", path), errgo.Any)
	}
	return nil
}
