// Package poly implements integer polynomials and Lagrange interpolation over
// the rationals.
package poly

import (
	"errors"
	"fmt"
	"math/big"
)

// DefaultMantissa is the mantissa size of an x87 extended precision float.
const DefaultMantissa = 64

var (
	// ErrDegenerate is returned when two interpolation indices are equal, in
	// which case a Lagrange denominator is zero.
	ErrDegenerate = errors.New("degenerate interpolation")

	// ErrNoIndices is returned when an interpolator is constructed without
	// any indices.
	ErrNoIndices = errors.New("no interpolation indices")

	// ErrValueCount is returned when the number of values given to an
	// interpolator does not match the number of indices.
	ErrValueCount = errors.New("wrong number of values")
)

// Interpolator evaluates the interpolating polynomial of a set of points at a
// fixed point, without computing the polynomial itself. This is encapsulated
// in an object because when interpolating multiple sets of points, all of
// which have the same set of corresponding x coordinates, each interpolation
// can use the same setup.
//
// The Lagrange basis is kept both as exact rationals and as the integer
// numerator and denominator products, the latter being what the floating
// point evaluation works from. An Interpolator is not modified after
// construction and so can be used from multiple goroutines.
type Interpolator struct {
	at      *big.Int
	indices []*big.Int
	basis   []*big.Rat
	nums    []*big.Int
	denoms  []*big.Int
}

// NewInterpolator constructs an interpolator that evaluates at zero, which is
// where the constant term, and hence the secret, of a sharing polynomial is
// found. The indices represent the x coordinates of the points that will be
// interpolated. That is, if the set of indices is `{x0, x1, ..., xn}`, then
// the constructed interpolator will be able to interpolate any set of points
// of the form `{(x0, y0), (x1, y1), ..., (xn, yn)}` for any `y0, y1, ..., yn`.
func NewInterpolator(indices []*big.Int) (Interpolator, error) {
	return NewInterpolatorAt(indices, new(big.Int))
}

// NewInterpolatorAt is the same as NewInterpolator, but the interpolating
// polynomial will be evaluated at the given point instead of at zero. The
// basis value for index i is
//
//	L_i(at) = Π_{j≠i} (at - x_j) / (x_i - x_j).
//
// An error wrapping ErrDegenerate is returned if any two indices are equal.
// The indices are copied.
func NewInterpolatorAt(indices []*big.Int, at *big.Int) (Interpolator, error) {
	if len(indices) == 0 {
		return Interpolator{}, ErrNoIndices
	}

	interp := Interpolator{
		at:      new(big.Int).Set(at),
		indices: make([]*big.Int, len(indices)),
		basis:   make([]*big.Rat, len(indices)),
		nums:    make([]*big.Int, len(indices)),
		denoms:  make([]*big.Int, len(indices)),
	}
	for i := range indices {
		interp.indices[i] = new(big.Int).Set(indices[i])
	}

	var term big.Int
	for i := range indices {
		num := big.NewInt(1)
		denom := big.NewInt(1)

		for j := range indices {
			if i == j {
				continue
			}

			// Denominator xi - xj
			term.Sub(indices[i], indices[j])
			if term.Sign() == 0 {
				return Interpolator{}, fmt.Errorf("index %v appears at positions %v and %v: %w", indices[i], i, j, ErrDegenerate)
			}
			denom.Mul(denom, &term)

			// Numerator at - xj
			term.Sub(at, indices[j])
			num.Mul(num, &term)
		}

		interp.nums[i] = num
		interp.denoms[i] = denom
		interp.basis[i] = new(big.Rat).SetFrac(num, denom)
	}

	return interp, nil
}

// Len returns the number of indices.
func (interp *Interpolator) Len() int { return len(interp.indices) }

// At returns a copy of the point that the interpolator evaluates at.
func (interp *Interpolator) At() *big.Int { return new(big.Int).Set(interp.at) }

// Basis returns a copy of the Lagrange basis value for the `i`th index.
func (interp *Interpolator) Basis(i int) *big.Rat { return new(big.Rat).Set(interp.basis[i]) }

// Interpolate takes a set of values and computes the exact value of their
// interpolating polynomial at the interpolator's point. It is assumed that the
// values are in corresponding order to the indices that were used to
// construct the interpolator.
func (interp *Interpolator) Interpolate(values []*big.Int) (*big.Rat, error) {
	if len(values) != len(interp.basis) {
		return nil, fmt.Errorf("expected %v values, got %v: %w", len(interp.basis), len(values), ErrValueCount)
	}

	// The result is a linear combination of the Lagrange basis
	res := new(big.Rat)
	var term, y big.Rat
	for i, l := range interp.basis {
		y.SetInt(values[i])
		term.Mul(l, &y)
		res.Add(res, &term)
	}
	return res, nil
}

// InterpolateFloat is the same as Interpolate, but accumulates in floating
// point with the given mantissa size in bits. Each term is computed as
// `y_i * (num_i / denom_i)` where the numerator and denominator products are
// first rounded to floating point, so the result is only an approximation
// when the inputs are large relative to the mantissa. A mantissa of 0 selects
// DefaultMantissa.
func (interp *Interpolator) InterpolateFloat(values []*big.Int, mantissa uint) (*big.Float, error) {
	if len(values) != len(interp.basis) {
		return nil, fmt.Errorf("expected %v values, got %v: %w", len(interp.basis), len(values), ErrValueCount)
	}
	if mantissa == 0 {
		mantissa = DefaultMantissa
	}

	res := new(big.Float).SetPrec(mantissa)
	num := new(big.Float).SetPrec(mantissa)
	denom := new(big.Float).SetPrec(mantissa)
	term := new(big.Float).SetPrec(mantissa)
	for i := range interp.basis {
		num.SetInt(interp.nums[i])
		denom.SetInt(interp.denoms[i])
		term.Quo(num, denom)
		num.SetInt(values[i])
		term.Mul(term, num)
		res.Add(res, term)
	}
	return res, nil
}
