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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/errgo.v1"
)

var (
	coeffRE = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

	// Exponents are integers, optionally written as a decimal with an
	// all-zero fraction.
	expRE = regexp.MustCompile(`^(\d+)(\.0*)?$`)
)

// Parse reads a polynomial written as terms joined by '+', such as
// "5-3x2+7x8". Each term is either <coeff>x<exp> or, for degree 0, just
// <coeff>. A '-' implicitly starts a new term.
//
// Whitespace, implicit coefficients ("x2"), missing exponents ("5x"),
// scientific notation and explicit '+' signs on a term are rejected with an
// error whose cause is ErrMalformed.
func Parse(s string) (*Poly, error) {
	if s == "" {
		return nil, malformedf("empty text")
	}
	tokens := strings.Split(strings.ReplaceAll(s, "-", "+-"), "+")
	if strings.HasPrefix(s, "-") {
		tokens = tokens[1:]
	}
	terms := make([]Term, 0, len(tokens))
	for _, tok := range tokens {
		t, err := parseTerm(tok)
		if err != nil {
			return nil, errgo.Mask(err, errgo.Any)
		}
		terms = append(terms, t)
	}
	return &Poly{terms: canonicalize(terms)}, nil
}

// MustParse is like Parse but panics on malformed text.
func MustParse(s string) *Poly {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parseTerm(tok string) (Term, error) {
	if tok == "" {
		return Term{}, malformedf("empty term")
	}
	coeffText, expText, hasX := strings.Cut(tok, "x")
	if strings.Contains(expText, "x") {
		return Term{}, malformedf("term %q: more than one x", tok)
	}
	if !coeffRE.MatchString(coeffText) {
		return Term{}, malformedf("term %q: invalid coefficient %q", tok, coeffText)
	}
	coeff, err := strconv.ParseFloat(coeffText, 64)
	if err != nil {
		return Term{}, malformedf("term %q: %v", tok, err)
	}
	if !hasX {
		return Term{Coeff: coeff}, nil
	}
	m := expRE.FindStringSubmatch(expText)
	if m == nil {
		return Term{}, malformedf("term %q: invalid exponent %q", tok, expText)
	}
	exp, err := strconv.Atoi(m[1])
	if err != nil {
		return Term{}, malformedf("term %q: %v", tok, err)
	}
	return Term{Coeff: coeff, Exp: exp}, nil
}

// String formats the polynomial in the text form read by Parse, such as
// "5-3x2+7x8". The zero polynomial formats as "0".
func (p *Poly) String() string {
	terms := p.Terms()
	if len(terms) == 0 {
		return "0"
	}
	result := bytes.NewBuffer(nil)
	for i, t := range terms {
		if i > 0 && !(t.Coeff < 0) {
			result.WriteByte('+')
		}
		result.WriteString(strconv.FormatFloat(t.Coeff, 'f', -1, 64))
		if t.Exp > 0 {
			fmt.Fprintf(result, "x%d", t.Exp)
		}
	}
	return result.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p *Poly) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It is meant for
// decoding into a fresh value; constructed polynomials should be treated as
// immutable.
func (p *Poly) UnmarshalText(text []byte) error {
	q, err := Parse(string(text))
	if err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	p.terms = q.terms
	return nil
}
