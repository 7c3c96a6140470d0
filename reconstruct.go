package shamir

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/renproject/intshamir/poly"
	"github.com/renproject/intshamir/prec"
)

// Arithmetic selects how a Reconstructor accumulates the Lagrange terms.
type Arithmetic uint8

const (
	// Exact accumulates with rationals and rejects secrets that are not
	// integers.
	Exact Arithmetic = iota

	// Float accumulates in floating point and rounds the result to the
	// nearest integer, with halves rounded away from zero.
	Float
)

// String implements the Stringer interface.
func (a Arithmetic) String() string {
	switch a {
	case Exact:
		return "exact"
	case Float:
		return "float"
	}
	return fmt.Sprintf("Arithmetic(%d)", uint8(a))
}

// Reconstructor is responsible for reconstructing shares into their
// corresponding secret. It holds no state besides its configuration, and so
// can be shared freely between goroutines.
type Reconstructor struct {
	prec       prec.Precision
	arithmetic Arithmetic
	mantissa   uint
}

// NewReconstructor returns a Reconstructor that uses exact arithmetic and
// checks share values and secrets against the given precision.
func NewReconstructor(p prec.Precision) Reconstructor {
	return Reconstructor{prec: p, arithmetic: Exact}
}

// NewFloatReconstructor returns a Reconstructor that accumulates in floating
// point with the given mantissa size in bits, and checks share values and
// secrets against the given precision. A mantissa of 0 selects
// poly.DefaultMantissa.
func NewFloatReconstructor(p prec.Precision, mantissa uint) Reconstructor {
	if mantissa == 0 {
		mantissa = poly.DefaultMantissa
	}
	return Reconstructor{prec: p, arithmetic: Float, mantissa: mantissa}
}

// Precision returns the precision that the Reconstructor checks against.
func (r Reconstructor) Precision() prec.Precision { return r.prec }

// Arithmetic returns the arithmetic that the Reconstructor uses.
func (r Reconstructor) Arithmetic() Arithmetic { return r.arithmetic }

// Open computes the secret of a sharing with threshold k from the given
// shares. The shares are ordered by index and the first k are interpolated at
// zero; any further shares are ignored. Properties that need to hold if this
// function is to correctly reconstruct the secret are:
//   - There are at least k shares.
//   - The first k shares have distinct indices.
//   - All shares are valid, in the sense that they have not been maliciously
//     modified. Use Verify or OpenMajority to check this.
func (r Reconstructor) Open(shares Shares, k int) (*big.Int, error) {
	if k < 1 {
		return nil, fmt.Errorf("expected k >= 1, got k = %v: %w", k, ErrInsufficientPoints)
	}
	if len(shares) < k {
		return nil, fmt.Errorf("expected at least %v shares, got %v: %w", k, len(shares), ErrInsufficientPoints)
	}

	chosen := shares.Sorted()[:k]
	for _, share := range chosen {
		if !r.prec.Contains(share.value) {
			return nil, fmt.Errorf("share %v: value exceeds %v: %w", share.index, r.prec, ErrNumericOverflow)
		}
	}
	interp, err := poly.NewInterpolator(chosen.Indices())
	if err != nil {
		return nil, err
	}

	secret, err := r.interpolate(&interp, chosen.Values())
	if err != nil {
		return nil, err
	}
	if !r.prec.Contains(secret) {
		return nil, fmt.Errorf("secret %v exceeds %v: %w", secret, r.prec, ErrResultOverflow)
	}
	return secret, nil
}

func (r Reconstructor) interpolate(interp *poly.Interpolator, values []*big.Int) (*big.Int, error) {
	switch r.arithmetic {
	case Float:
		f, err := interp.InterpolateFloat(values, r.mantissa)
		if err != nil {
			return nil, err
		}
		return roundHalfAway(f), nil
	default:
		q, err := interp.Interpolate(values)
		if err != nil {
			return nil, err
		}
		if !q.IsInt() {
			return nil, fmt.Errorf("secret %v: %w", q.RatString(), ErrNonInteger)
		}
		return new(big.Int).Set(q.Num()), nil
	}
}

// roundHalfAway rounds to the nearest integer, rounding halves away from zero.
func roundHalfAway(f *big.Float) *big.Int {
	half := new(big.Float).SetPrec(f.Prec() + 1).SetFloat64(0.5)
	g := new(big.Float).SetPrec(f.Prec() + 1)
	if f.Signbit() {
		g.Sub(f, half)
	} else {
		g.Add(f, half)
	}
	v, _ := g.Int(nil)
	return v
}

// Verify is the same as Open, but additionally requires every share beyond
// the first k to lie on the polynomial that the first k define. If any share
// does not, an error wrapping ErrInconsistentShares that lists the offending
// indices is returned instead of a secret. Verification happens in exact
// arithmetic.
func (r Reconstructor) Verify(shares Shares, k int) (*big.Int, error) {
	secret, err := r.Open(shares, k)
	if err != nil {
		return nil, err
	}

	sorted := shares.Sorted()
	chosen, rest := sorted[:k], sorted[k:]
	indices, values := chosen.Indices(), chosen.Values()

	var inconsistent []string
	for _, share := range rest {
		interp, err := poly.NewInterpolatorAt(indices, share.index)
		if err != nil {
			return nil, err
		}
		expected, err := interp.Interpolate(values)
		if err != nil {
			return nil, err
		}
		if !expected.IsInt() || expected.Num().Cmp(share.value) != 0 {
			inconsistent = append(inconsistent, share.index.String())
		}
	}
	if len(inconsistent) > 0 {
		return nil, fmt.Errorf("shares %v do not lie on the polynomial through the first %v shares: %w", strings.Join(inconsistent, ", "), k, ErrInconsistentShares)
	}
	return secret, nil
}
