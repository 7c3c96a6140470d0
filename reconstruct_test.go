package shamir_test

import (
	"errors"
	"math/big"
	"math/rand"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/intshamir"
	"github.com/renproject/intshamir/poly"
	"github.com/renproject/intshamir/prec"
	"github.com/renproject/intshamir/shamirutil"
)

var _ = Describe("Reconstruction", func() {
	Context("when opening shares of a random polynomial", func() {
		It("should reconstruct the constant term from any k shares", func() {
			trials := 100
			n := 20

			reconstructor := NewReconstructor(prec.Unbounded)
			for i := 0; i < trials; i++ {
				k := rand.Intn(n) + 1
				shares, p := shamirutil.RandomSharing(shamirutil.RandomIndices(n, 32), k, 256)
				shamirutil.Shuffle(shares)

				secret, err := reconstructor.Open(shares[:k+rand.Intn(n-k+1)], k)
				Expect(err).ToNot(HaveOccurred())
				Expect(secret.Cmp(p.Coefficient(0))).To(Equal(0))
			}
		})

		It("should not depend on which k shares are chosen", func() {
			trials := 20
			n := 10

			reconstructor := NewReconstructor(prec.Unbounded)
			for i := 0; i < trials; i++ {
				k := shamirutil.RandRange(1, n)
				shares, _ := shamirutil.RandomSharing(shamirutil.SequentialIndices(n), k, 64)
				shamirutil.Shuffle(shares)
				Expect(shamirutil.SharesAreConsistent(shares, reconstructor, k)).To(BeTrue())
			}
		})

		It("should not depend on the order of the shares", func() {
			reconstructor := NewReconstructor(prec.Unbounded)
			shares, _ := shamirutil.RandomSharing(shamirutil.SequentialIndices(12), 5, 64)
			expected, err := reconstructor.Open(shares, 5)
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 10; i++ {
				shamirutil.Shuffle(shares)
				secret, err := reconstructor.Open(shares, 5)
				Expect(err).ToNot(HaveOccurred())
				Expect(secret.Cmp(expected)).To(Equal(0))
			}
		})

		It("should ignore shares beyond the first k", func() {
			reconstructor := NewReconstructor(prec.Unbounded)
			shares := Shares{
				NewShareInt64(6, 39),
				NewShareInt64(1, 4),
				NewShareInt64(3, 12),
				NewShareInt64(2, 7),
				NewShareInt64(100, -1),
			}
			secret, err := reconstructor.Open(shares, 3)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(3)))
		})

		It("should reconstruct negative secrets", func() {
			reconstructor := NewReconstructor(prec.Int64)
			p := poly.NewFromInt64s(-42, 5, -3)
			shares := shamirutil.SharesFromPoly(p, shamirutil.SequentialIndices(3))
			secret, err := reconstructor.Open(shares, 3)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(-42)))
		})
	})

	Context("when there are not enough shares", func() {
		It("should give an error if there are fewer than k shares", func() {
			trials := 100
			n := 20

			reconstructor := NewReconstructor(prec.Unbounded)
			for i := 0; i < trials; i++ {
				k := rand.Intn(n) + 1
				lowK := rand.Intn(k)
				highK := rand.Intn(n-k+1) + k
				shares, _ := shamirutil.RandomSharing(shamirutil.SequentialIndices(n), k, 32)

				_, err := reconstructor.Open(shares[:lowK], k)
				Expect(errors.Is(err, ErrInsufficientPoints)).To(BeTrue())

				_, err = reconstructor.Open(shares[:highK], k)
				Expect(err).ToNot(HaveOccurred())
			}
		})

		It("should give an error if k is not positive", func() {
			reconstructor := NewReconstructor(prec.Unbounded)
			shares := Shares{NewShareInt64(1, 1)}
			for _, k := range []int{0, -1} {
				_, err := reconstructor.Open(shares, k)
				Expect(errors.Is(err, ErrInsufficientPoints)).To(BeTrue())
			}
		})
	})

	Context("when two shares have the same index", func() {
		It("should not open", func() {
			trials := 100
			n := 20

			reconstructor := NewReconstructor(prec.Unbounded)
			for i := 0; i < trials; i++ {
				shares, _ := shamirutil.RandomSharing(shamirutil.SequentialIndices(n), n, 32)
				shamirutil.AddDuplicateIndex(shares)

				secret, err := reconstructor.Open(shares, n)
				Expect(errors.Is(err, ErrDegenerateInterpolation)).To(BeTrue())
				Expect(secret).To(BeNil())
			}
		})

		It("should open when the duplicate is not among the first k", func() {
			reconstructor := NewReconstructor(prec.Unbounded)
			shares := Shares{NewShareInt64(1, 4), NewShareInt64(2, 7), NewShareInt64(3, 12), NewShareInt64(3, 12)}
			secret, err := reconstructor.Open(shares, 3)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(3)))
		})
	})

	Context("when the shares do not interpolate to an integer", func() {
		It("should not round the result in exact arithmetic", func() {
			reconstructor := NewReconstructor(prec.Unbounded)
			shares := Shares{NewShareInt64(1, 0), NewShareInt64(3, 1)}
			secret, err := reconstructor.Open(shares, 2)
			Expect(errors.Is(err, ErrNonInteger)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("-1/2"))
			Expect(secret).To(BeNil())
		})

		It("should round halves away from zero in floating point", func() {
			reconstructor := NewFloatReconstructor(prec.Int64, 0)
			Expect(reconstructor.Arithmetic()).To(Equal(Float))

			secret, err := reconstructor.Open(Shares{NewShareInt64(1, 0), NewShareInt64(3, 1)}, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(-1)))

			secret, err = reconstructor.Open(Shares{NewShareInt64(1, 0), NewShareInt64(3, -1)}, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(1)))
		})
	})

	Context("when reconstructing in floating point", func() {
		It("should agree with exact arithmetic for small shares", func() {
			trials := 100
			exact := NewReconstructor(prec.Int64)
			float := NewFloatReconstructor(prec.Int64, 64)

			for i := 0; i < trials; i++ {
				k := rand.Intn(6) + 1
				shares, p := shamirutil.RandomSharing(shamirutil.SequentialIndices(k), k, 8)

				e, err := exact.Open(shares, k)
				Expect(err).ToNot(HaveOccurred())
				f, err := float.Open(shares, k)
				Expect(err).ToNot(HaveOccurred())
				Expect(e.Cmp(p.Coefficient(0))).To(Equal(0))
				Expect(f.Cmp(e)).To(Equal(0))
			}
		})
	})

	Context("when the values do not fit in the precision", func() {
		It("should not open shares that are out of range", func() {
			reconstructor := NewReconstructor(prec.Bits(8))
			_, err := reconstructor.Open(Shares{NewShareInt64(1, 128)}, 1)
			Expect(errors.Is(err, ErrNumericOverflow)).To(BeTrue())
		})

		It("should ignore surplus shares that are out of range", func() {
			huge := new(big.Int).Lsh(big.NewInt(1), 100)
			shares := Shares{
				NewShare(big.NewInt(9), huge),
				NewShareInt64(1, 4),
				NewShareInt64(2, 7),
				NewShareInt64(3, 12),
			}

			secret, err := NewReconstructor(prec.Int64).Open(shares, 3)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(3)))

			_, err = NewReconstructor(prec.Int64).Open(shares, 4)
			Expect(errors.Is(err, ErrNumericOverflow)).To(BeTrue())
		})

		It("should not return a secret that is out of range", func() {
			reconstructor := NewReconstructor(prec.Bits(8))
			Expect(reconstructor.Precision()).To(Equal(prec.Bits(8)))

			// The line through (1, 100) and (2, 0) meets zero at 200.
			secret, err := reconstructor.Open(Shares{NewShareInt64(1, 100), NewShareInt64(2, 0)}, 2)
			Expect(errors.Is(err, ErrResultOverflow)).To(BeTrue())
			Expect(secret).To(BeNil())

			secret, err = NewReconstructor(prec.Int64).Open(Shares{NewShareInt64(1, 100), NewShareInt64(2, 0)}, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Int64()).To(Equal(int64(200)))
		})
	})

	Context("when verifying surplus shares", func() {
		It("should accept shares that lie on one polynomial", func() {
			trials := 50
			n := 15

			reconstructor := NewReconstructor(prec.Unbounded)
			for i := 0; i < trials; i++ {
				k := rand.Intn(n) + 1
				shares, p := shamirutil.RandomSharing(shamirutil.RandomIndices(n, 16), k, 64)
				secret, err := reconstructor.Verify(shares, k)
				Expect(err).ToNot(HaveOccurred())
				Expect(secret.Cmp(p.Coefficient(0))).To(Equal(0))
			}
		})

		It("should reject a share that has been modified", func() {
			trials := 50
			n := 15

			reconstructor := NewReconstructor(prec.Unbounded)
			for i := 0; i < trials; i++ {
				k := rand.Intn(n-1) + 1
				shares, _ := shamirutil.RandomSharing(shamirutil.SequentialIndices(n), k, 64)
				pos := rand.Intn(n)
				shares[pos] = shamirutil.PerturbValue(shares[pos])

				secret, err := reconstructor.Verify(shares, k)
				Expect(errors.Is(err, ErrInconsistentShares)).To(BeTrue())
				Expect(secret).To(BeNil())
			}
		})

		It("should name the shares that disagree", func() {
			reconstructor := NewReconstructor(prec.Unbounded)
			shares := Shares{NewShareInt64(1, 4), NewShareInt64(2, 7), NewShareInt64(3, 12), NewShareInt64(6, 40), NewShareInt64(4, 19)}
			_, err := reconstructor.Verify(shares, 3)
			Expect(errors.Is(err, ErrInconsistentShares)).To(BeTrue())
			Expect(err.Error()).To(HavePrefix("shares 6 do not lie"))
		})

		It("should report the reference share that has been tampered with", func() {
			shares, err := referenceShares.Decode(prec.Unbounded)
			Expect(err).ToNot(HaveOccurred())
			_, err = NewReconstructor(prec.Unbounded).Verify(shares, 7)
			Expect(errors.Is(err, ErrInconsistentShares)).To(BeTrue())
			Expect(err.Error()).To(HavePrefix("shares 8 do not lie"))
		})

		It("should accept exactly k shares", func() {
			secret, err := NewReconstructor(prec.Unbounded).Verify(Shares{NewShareInt64(5, 9)}, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(secret.Cmp(big.NewInt(9))).To(Equal(0))
		})
	})
})
