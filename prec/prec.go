// Package prec defines the integer precision that decoding and reconstruction
// are checked against.
package prec

import (
	"fmt"
	"math/big"
)

// Precision bounds the signed integers that may be produced when decoding
// share values or reconstructing a secret. A precision of w bits admits the
// range [-2^(w-1), 2^(w-1)-1], the same range as a w bit two's complement
// integer. The zero value is Unbounded, in which case every integer is
// representable.
type Precision struct {
	bits uint
	min  *big.Int
	max  *big.Int
}

var (
	// Unbounded admits every integer.
	Unbounded = Precision{}

	// Int64 is the range of a signed 64 bit integer.
	Int64 = Bits(64)

	// Int128 is the range of a signed 128 bit integer.
	Int128 = Bits(128)

	// Int256 is the range of a signed 256 bit integer.
	Int256 = Bits(256)
)

// Bits returns the precision of a signed integer with the given bit width. A
// width of 0 returns Unbounded.
func Bits(w uint) Precision {
	if w == 0 {
		return Unbounded
	}
	max := new(big.Int).Lsh(big.NewInt(1), w-1)
	min := new(big.Int).Neg(max)
	max.Sub(max, big.NewInt(1))
	return Precision{bits: w, min: min, max: max}
}

// Bits returns the bit width of the precision, or 0 if it is unbounded.
func (p Precision) Bits() uint { return p.bits }

// Bounded returns true if the precision has a finite range.
func (p Precision) Bounded() bool { return p.bits != 0 }

// Max returns a copy of the largest representable integer, or nil if the
// precision is unbounded.
func (p Precision) Max() *big.Int {
	if !p.Bounded() {
		return nil
	}
	return new(big.Int).Set(p.max)
}

// Min returns a copy of the smallest representable integer, or nil if the
// precision is unbounded.
func (p Precision) Min() *big.Int {
	if !p.Bounded() {
		return nil
	}
	return new(big.Int).Set(p.min)
}

// Contains returns true if v is representable.
func (p Precision) Contains(v *big.Int) bool {
	if !p.Bounded() {
		return true
	}
	return v.Cmp(p.min) >= 0 && v.Cmp(p.max) <= 0
}

// MaxQuoRem returns the quotient and remainder of Max() divided by the given
// positive divisor. A multiply-add v*d + a with 0 <= a < d stays in range
// exactly when v < q, or v == q and a <= r. Both results are nil if the
// precision is unbounded.
//
// Panics: This function will panic if d is not positive.
func (p Precision) MaxQuoRem(d int64) (q, r *big.Int) {
	if d <= 0 {
		panic(fmt.Sprintf("invalid divisor: expected d > 0, got d = %v", d))
	}
	if !p.Bounded() {
		return nil, nil
	}
	return new(big.Int).QuoRem(p.max, big.NewInt(d), new(big.Int))
}

// String implements the Stringer interface.
func (p Precision) String() string {
	if !p.Bounded() {
		return "unbounded"
	}
	return fmt.Sprintf("int%d", p.bits)
}
