// Package shamir reconstructs secrets from Shamir secret shares over the
// integers. Shares are points on a polynomial with integer coefficients, and
// the secret is the constant term of that polynomial, recovered by Lagrange
// interpolation at zero.
package shamir

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/renproject/intshamir/poly"
	"github.com/renproject/intshamir/prec"
	"github.com/renproject/intshamir/radix"
)

var (
	// ErrInvalidBase is returned when a share's base lies outside [2, 16].
	ErrInvalidBase = radix.ErrInvalidBase

	// ErrInvalidDigit is returned when a share's digits are not valid in its
	// base.
	ErrInvalidDigit = radix.ErrInvalidDigit

	// ErrNumericOverflow is returned when a share's value does not fit in the
	// precision of the reconstruction.
	ErrNumericOverflow = radix.ErrNumericOverflow

	// ErrEmptyValue is returned when a share has no digits.
	ErrEmptyValue = radix.ErrEmptyValue

	// ErrDegenerateInterpolation is returned when two of the shares used for
	// a reconstruction have the same index.
	ErrDegenerateInterpolation = poly.ErrDegenerate

	// ErrInsufficientPoints is returned when there are fewer shares than the
	// threshold, or the threshold is not positive.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrResultOverflow is returned when the reconstructed secret does not fit
	// in the precision of the reconstruction.
	ErrResultOverflow = errors.New("result overflow")

	// ErrNonInteger is returned when the shares do not lie on a polynomial
	// with an integer constant term.
	ErrNonInteger = errors.New("non-integer result")

	// ErrInconsistentShares is returned when surplus shares do not lie on the
	// polynomial defined by the threshold shares.
	ErrInconsistentShares = errors.New("inconsistent shares")

	// ErrNoMajority is returned when no reconstructed secret is supported by
	// strictly more threshold subsets than every other.
	ErrNoMajority = errors.New("no majority secret")

	// ErrTooManySubsets is returned when enumerating every threshold subset
	// would exceed the given limit.
	ErrTooManySubsets = errors.New("too many subsets")
)

// Share represents a single share in a Shamir secret sharing scheme: the
// point (index, value) on the sharing polynomial.
type Share struct {
	index, value *big.Int
}

// NewShare constructs a new Shamir share from an index and a value. Both are
// copied.
func NewShare(index, value *big.Int) Share {
	return Share{index: new(big.Int).Set(index), value: new(big.Int).Set(value)}
}

// NewShareInt64 constructs a new Shamir share from a small index and value.
func NewShareInt64(index, value int64) Share {
	return Share{index: big.NewInt(index), value: big.NewInt(value)}
}

// Index returns a copy of the index (x coordinate) of the share.
func (s Share) Index() *big.Int { return new(big.Int).Set(s.index) }

// Value returns a copy of the value (y coordinate) of the share.
func (s Share) Value() *big.Int { return new(big.Int).Set(s.value) }

// Eq returns true if the two shares are equal, and false otherwise.
func (s Share) Eq(other Share) bool {
	return s.index.Cmp(other.index) == 0 && s.value.Cmp(other.value) == 0
}

// IndexEq returns true if the share has the given index, and false otherwise.
func (s Share) IndexEq(index *big.Int) bool {
	return s.index.Cmp(index) == 0
}

// String implements the Stringer interface.
func (s Share) String() string {
	return fmt.Sprintf("(%v, %v)", s.index, s.value)
}

// Shares represents a slice of Shamir shares.
type Shares []Share

// Sorted returns a copy of the shares ordered by index, with equal indices
// ordered by value. Reconstruction always uses the first shares of this
// order, which makes the result independent of the input order.
func (shares Shares) Sorted() Shares {
	sorted := make(Shares, len(shares))
	copy(sorted, shares)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].index.Cmp(sorted[j].index); c != 0 {
			return c < 0
		}
		return sorted[i].value.Cmp(sorted[j].value) < 0
	})
	return sorted
}

// Indices returns the indices of the shares. The integers are shared with the
// shares and must not be modified.
func (shares Shares) Indices() []*big.Int {
	indices := make([]*big.Int, len(shares))
	for i := range shares {
		indices[i] = shares[i].index
	}
	return indices
}

// Values returns the values of the shares. The integers are shared with the
// shares and must not be modified.
func (shares Shares) Values() []*big.Int {
	values := make([]*big.Int, len(shares))
	for i := range shares {
		values[i] = shares[i].value
	}
	return values
}

// EncodedShare is a share whose value is still written as a string of digits
// in some base.
type EncodedShare struct {
	Index  *big.Int
	Base   int
	Digits string
}

// Decode decodes the digits of the share, checking that the value fits in the
// given precision. The returned error names the share index.
func (es EncodedShare) Decode(p prec.Precision) (Share, error) {
	value, err := radix.Decode(es.Digits, es.Base, p)
	if err != nil {
		return Share{}, fmt.Errorf("share %v: %w", es.Index, err)
	}
	return Share{index: new(big.Int).Set(es.Index), value: value}, nil
}

// EncodedShares represents a slice of encoded shares.
type EncodedShares []EncodedShare

// Decode decodes every share, stopping at the first share that fails.
func (encoded EncodedShares) Decode(p prec.Precision) (Shares, error) {
	shares := make(Shares, 0, len(encoded))
	for _, es := range encoded {
		share, err := es.Decode(p)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, nil
}

// ReconstructSecret decodes the given shares and reconstructs the secret of a
// sharing with threshold k, using exact arithmetic checked against the given
// precision. Either the secret or an error is returned, never both.
func ReconstructSecret(encoded EncodedShares, k int, p prec.Precision) (*big.Int, error) {
	shares, err := encoded.Decode(p)
	if err != nil {
		return nil, err
	}
	r := NewReconstructor(p)
	return r.Open(shares, k)
}
