package poly

import (
	"fmt"
	"math/big"
	"strings"
)

// Poly represents a polynomial with integer coefficients.
//
// A Poly can be indexed into, where index `i` will be the `i`th coefficient.
// For example, the constant term is index 0.
//
// Since this type just aliases a slice, all of the considerations of using a
// slice apply. In particular the coefficients are pointers, so modifying a
// coefficient returned by Coefficient modifies the polynomial.
type Poly []*big.Int

// NewFromSlice constructs a polynomial from the given coefficients, where the
// constant term comes first. The degree of the polynomial will be one less
// than the length of the slice.
//
// NOTE: The coefficients are not copied.
//
// Panics: This function will panic if the slice is empty.
func NewFromSlice(coeffs []*big.Int) Poly {
	if len(coeffs) == 0 {
		panic("cannot construct a polynomial without coefficients")
	}
	return Poly(coeffs)
}

// NewFromInt64s constructs a polynomial from the given coefficients, where the
// constant term comes first.
func NewFromInt64s(coeffs ...int64) Poly {
	p := make(Poly, len(coeffs))
	for i, c := range coeffs {
		p[i] = big.NewInt(c)
	}
	return NewFromSlice(p)
}

// String implements the Stringer interface.
func (p Poly) String() string {
	var sb strings.Builder
	sb.WriteString(p[0].String())
	for i := 1; i <= p.Degree(); i++ {
		if i == 1 {
			fmt.Fprintf(&sb, " + %v x", p[i])
		} else {
			fmt.Fprintf(&sb, " + %v x^%v", p[i], i)
		}
	}
	return sb.String()
}

// Degree returns the degree of the polynomial, as determined by its length.
// Leading zero coefficients are counted.
func (p Poly) Degree() int {
	return len(p) - 1
}

// Coefficient returns the `i`th coefficient of the polynomial.
//
// NOTE: If `i` is greater than the degree of the polynomial, this function
// will panic.
func (p Poly) Coefficient(i int) *big.Int {
	return p[i]
}

// Eq returns true if the two polynomials have the same coefficients and
// degree, and false otherwise.
func (p Poly) Eq(other Poly) bool {
	if p.Degree() != other.Degree() {
		return false
	}
	for i := range p {
		if p[i].Cmp(other[i]) != 0 {
			return false
		}
	}
	return true
}

// Evaluate computes the value of the polynomial at the given point using
// Horner's rule.
func (p Poly) Evaluate(x *big.Int) *big.Int {
	res := new(big.Int).Set(p[p.Degree()])
	for i := p.Degree() - 1; i >= 0; i-- {
		res.Mul(res, x)
		res.Add(res, p[i])
	}
	return res
}
