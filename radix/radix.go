// Package radix converts digit strings in bases 2 to 16 into exact integers.
package radix

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/renproject/intshamir/prec"
)

// MinBase and MaxBase delimit the supported bases.
const (
	MinBase = 2
	MaxBase = 16
)

var (
	// ErrInvalidBase is returned when a base lies outside [MinBase, MaxBase].
	ErrInvalidBase = errors.New("invalid base")

	// ErrInvalidDigit is returned when a character is not a digit of the base.
	ErrInvalidDigit = errors.New("invalid digit")

	// ErrNumericOverflow is returned when a decoded value does not fit in the
	// requested precision.
	ErrNumericOverflow = errors.New("numeric overflow")

	// ErrEmptyValue is returned when there are no digits to decode.
	ErrEmptyValue = errors.New("empty value")
)

// Digit returns the value of the given digit character. Decimal digits map to
// 0 to 9 and letters, in either case, map to 10 onwards. The boolean is false
// for characters that are not a digit in any supported base.
func Digit(c rune) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// Decode interprets digits as a big-endian number in the given base and
// returns its value. The value is checked against the precision before every
// accumulation step, so a digit string that would leave the representable
// range results in ErrNumericOverflow instead of a truncated value.
func Decode(digits string, base int, p prec.Precision) (*big.Int, error) {
	if base < MinBase || base > MaxBase {
		return nil, fmt.Errorf("expected %v <= base <= %v, got base = %v: %w", MinBase, MaxBase, base, ErrInvalidBase)
	}
	if digits == "" {
		return nil, ErrEmptyValue
	}

	// Accumulating v*base + d stays in range iff v < q, or v == q and d <= r,
	// where q and r are the quotient and remainder of max / base.
	q, r := p.MaxQuoRem(int64(base))

	b := big.NewInt(int64(base))
	v := new(big.Int)
	var d big.Int
	for i, c := range digits {
		digit, ok := Digit(c)
		if !ok || digit >= base {
			return nil, fmt.Errorf("character %q at position %v for base %v: %w", c, i, base, ErrInvalidDigit)
		}
		d.SetInt64(int64(digit))

		if q != nil {
			if cmp := v.Cmp(q); cmp > 0 || (cmp == 0 && d.Cmp(r) > 0) {
				return nil, fmt.Errorf("%q in base %v exceeds %v at position %v: %w", digits, base, p, i, ErrNumericOverflow)
			}
		}

		v.Mul(v, b)
		v.Add(v, &d)
	}

	return v, nil
}

// Encode renders a non-negative integer as lower case digits in the given
// base. It is the inverse of Decode.
//
// Panics: This function will panic if the base is not supported or v is
// negative.
func Encode(v *big.Int, base int) string {
	if base < MinBase || base > MaxBase {
		panic(fmt.Sprintf("invalid base: expected %v <= base <= %v, got base = %v", MinBase, MaxBase, base))
	}
	if v.Sign() < 0 {
		panic(fmt.Sprintf("cannot encode negative value %v", v))
	}
	return strings.ToLower(v.Text(base))
}
