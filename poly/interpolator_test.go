package poly_test

import (
	"errors"
	"math/big"
	"math/rand"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/intshamir/poly"
	"github.com/renproject/intshamir/poly/polyutil"
)

// distinctIndices returns n distinct non-zero indices in a random order.
func distinctIndices(n int) []*big.Int {
	perm := rand.Perm(4 * n)
	indices := make([]*big.Int, n)
	for i := range indices {
		indices[i] = big.NewInt(int64(perm[i] + 1))
	}
	return indices
}

func evaluateAll(p Poly, indices []*big.Int) []*big.Int {
	values := make([]*big.Int, len(indices))
	for i, index := range indices {
		values[i] = p.Evaluate(index)
	}
	return values
}

var _ = Describe("Polynomial interpolation", func() {
	Context("when interpolating at zero", func() {
		It("should recover the constant term of the polynomial", func() {
			trials := 100
			const maxPoints int = 15

			for i := 0; i < trials; i++ {
				numPoints := rand.Intn(maxPoints) + 1
				degree := rand.Intn(numPoints)

				indices := distinctIndices(numPoints)
				interpolator, err := NewInterpolator(indices)
				Expect(err).ToNot(HaveOccurred())

				p := polyutil.RandomPolynomial(degree, 128)
				secret, err := interpolator.Interpolate(evaluateAll(p, indices))
				Expect(err).ToNot(HaveOccurred())
				Expect(secret.IsInt()).To(BeTrue())
				Expect(secret.Num().Cmp(p.Coefficient(0))).To(Equal(0))
			}
		})

		It("should have basis values that sum to one", func() {
			indices := distinctIndices(10)
			interpolator, err := NewInterpolator(indices)
			Expect(err).ToNot(HaveOccurred())
			Expect(interpolator.Len()).To(Equal(10))

			sum := new(big.Rat)
			for i := 0; i < interpolator.Len(); i++ {
				sum.Add(sum, interpolator.Basis(i))
			}
			Expect(sum.Cmp(big.NewRat(1, 1))).To(Equal(0))
		})

		It("should interpolate the points (1, 4), (2, 7), (3, 12) to 3", func() {
			interpolator, err := NewInterpolator([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
			Expect(err).ToNot(HaveOccurred())
			secret, err := interpolator.Interpolate([]*big.Int{big.NewInt(4), big.NewInt(7), big.NewInt(12)})
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Cmp(big.NewRat(3, 1))).To(Equal(0))
		})

		It("should give a rational result for points on no integer polynomial", func() {
			interpolator, err := NewInterpolator([]*big.Int{big.NewInt(1), big.NewInt(3)})
			Expect(err).ToNot(HaveOccurred())
			secret, err := interpolator.Interpolate([]*big.Int{big.NewInt(0), big.NewInt(1)})
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Cmp(big.NewRat(-1, 2))).To(Equal(0))
		})
	})

	Context("when interpolating at an arbitrary point", func() {
		It("should agree with evaluating the polynomial", func() {
			trials := 100
			for i := 0; i < trials; i++ {
				numPoints := rand.Intn(10) + 1
				indices := distinctIndices(numPoints)
				at := polyutil.RandomInt(16)

				interpolator, err := NewInterpolatorAt(indices, at)
				Expect(err).ToNot(HaveOccurred())
				Expect(interpolator.At().Cmp(at)).To(Equal(0))

				p := polyutil.RandomPolynomial(rand.Intn(numPoints), 64)
				v, err := interpolator.Interpolate(evaluateAll(p, indices))
				Expect(err).ToNot(HaveOccurred())
				Expect(v.IsInt()).To(BeTrue())
				Expect(v.Num().Cmp(p.Evaluate(at))).To(Equal(0))
			}
		})
	})

	Context("when interpolating in floating point", func() {
		It("should round to the constant term for small polynomials", func() {
			trials := 100
			for i := 0; i < trials; i++ {
				numPoints := rand.Intn(5) + 1
				indices := distinctIndices(numPoints)
				interpolator, err := NewInterpolator(indices)
				Expect(err).ToNot(HaveOccurred())

				p := polyutil.RandomPolynomial(rand.Intn(numPoints), 8)
				f, err := interpolator.InterpolateFloat(evaluateAll(p, indices), 0)
				Expect(err).ToNot(HaveOccurred())

				expected := new(big.Float).SetInt(p.Coefficient(0))
				diff := new(big.Float).Sub(f, expected)
				Expect(diff.Abs(diff).Cmp(big.NewFloat(0.5))).To(Equal(-1))
			}
		})
	})

	Context("when two indices are equal", func() {
		It("should return a degenerate interpolation error", func() {
			trials := 100
			for i := 0; i < trials; i++ {
				n := rand.Intn(10) + 2
				indices := distinctIndices(n)
				first, second := rand.Intn(n), rand.Intn(n)
				for first == second {
					second = rand.Intn(n)
				}
				indices[second] = new(big.Int).Set(indices[first])

				_, err := NewInterpolator(indices)
				Expect(errors.Is(err, ErrDegenerate)).To(BeTrue())
			}
		})
	})

	Context("when the input sizes are wrong", func() {
		It("should not construct an interpolator without indices", func() {
			_, err := NewInterpolator(nil)
			Expect(errors.Is(err, ErrNoIndices)).To(BeTrue())
		})

		It("should reject the wrong number of values", func() {
			interpolator, err := NewInterpolator(distinctIndices(3))
			Expect(err).ToNot(HaveOccurred())

			_, err = interpolator.Interpolate([]*big.Int{big.NewInt(1)})
			Expect(errors.Is(err, ErrValueCount)).To(BeTrue())
			_, err = interpolator.InterpolateFloat([]*big.Int{big.NewInt(1)}, 64)
			Expect(errors.Is(err, ErrValueCount)).To(BeTrue())
		})
	})

	Context("when the indices are modified after construction", func() {
		It("should not affect the interpolator", func() {
			indices := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
			interpolator, err := NewInterpolator(indices)
			Expect(err).ToNot(HaveOccurred())
			indices[0].SetInt64(2)

			secret, err := interpolator.Interpolate([]*big.Int{big.NewInt(4), big.NewInt(7), big.NewInt(12)})
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Cmp(big.NewRat(3, 1))).To(Equal(0))
		})
	})
})
