// Package shamirutil contains helpers for testing code that reconstructs
// Shamir secrets.
package shamirutil

import (
	"math/big"
	"math/rand"

	"github.com/renproject/intshamir"
	"github.com/renproject/intshamir/poly"
	"github.com/renproject/intshamir/poly/polyutil"
)

// RandomIndices initialises and returns a slice of n distinct indices, each of
// which is a random positive integer less than 2^bits. The indices are in a
// random order.
//
// Panics: This function will panic if there are fewer than n positive
// integers less than 2^bits.
func RandomIndices(n int, bits uint) []*big.Int {
	bound := new(big.Int).Lsh(big.NewInt(1), bits)
	if bound.Cmp(big.NewInt(int64(n))) <= 0 {
		panic("not enough distinct indices")
	}
	max := new(big.Int).Sub(bound, big.NewInt(1))
	rnd := rand.New(rand.NewSource(rand.Int63()))

	indices := make([]*big.Int, 0, n)
	seen := make(map[string]bool, n)
	for len(indices) < n {
		index := new(big.Int).Rand(rnd, max)
		index.Add(index, big.NewInt(1))
		if seen[index.String()] {
			continue
		}
		seen[index.String()] = true
		indices = append(indices, index)
	}
	return indices
}

// SequentialIndices initialises and returns a slice of n indices, where the
// slice index i is equal to i+1.
func SequentialIndices(n int) []*big.Int {
	indices := make([]*big.Int, n)
	for i := range indices {
		indices[i] = big.NewInt(int64(i) + 1)
	}
	return indices
}

// SharesFromPoly evaluates the polynomial at each of the indices and returns
// the corresponding shares.
func SharesFromPoly(p poly.Poly, indices []*big.Int) shamir.Shares {
	shares := make(shamir.Shares, len(indices))
	for i, index := range indices {
		shares[i] = shamir.NewShare(index, p.Evaluate(index))
	}
	return shares
}

// RandomSharing returns a sharing of a random secret: the shares at the given
// indices of a random polynomial of degree k-1 whose coefficients have
// absolute value less than 2^bits. The polynomial is also returned; its
// constant term is the secret.
func RandomSharing(indices []*big.Int, k int, bits uint) (shamir.Shares, poly.Poly) {
	p := polyutil.RandomPolynomial(k-1, bits)
	return SharesFromPoly(p, indices), p
}

// Shuffle randomises the order of the givens shares in the slice.
func Shuffle(shares shamir.Shares) {
	rand.Shuffle(len(shares), func(i, j int) {
		shares[i], shares[j] = shares[j], shares[i]
	})
}

// AddDuplicateIndex picks two random (distinct) indices in the given slice of
// shares and sets the share index of the second to be equal to that of the
// first.
func AddDuplicateIndex(shares shamir.Shares) {
	// Pick two distinct array indices.
	first, second := rand.Intn(len(shares)), rand.Intn(len(shares))
	for first == second {
		second = rand.Intn(len(shares))
	}

	// Set the second share to have the same index as the first.
	shares[second] = shamir.NewShare(shares[first].Index(), shares[second].Value())
}

// SharesAreConsistent returns true if the given shares are found to be
// consistent. Consistency is defined as every window of k consecutive shares
// reconstructing the same secret.
func SharesAreConsistent(shares shamir.Shares, reconstructor shamir.Reconstructor, k int) bool {
	if len(shares) < k {
		return true
	}

	secret, err := reconstructor.Open(shares[:k], k)
	if err != nil {
		return false
	}
	for i := 1; i <= len(shares)-k; i++ {
		recon, err := reconstructor.Open(shares[i:i+k], k)
		if err != nil || recon.Cmp(secret) != 0 {
			return false
		}
	}

	return true
}

// PerturbValue returns the given share with a different value.
func PerturbValue(share shamir.Share) shamir.Share {
	delta := big.NewInt(rand.Int63n(1<<16) + 1)
	if rand.Intn(2) == 0 {
		delta.Neg(delta)
	}
	return shamir.NewShare(
		share.Index(),
		delta.Add(delta, share.Value()), // Altered
	)
}

// PerturbIndex returns the given share with a different index.
func PerturbIndex(share shamir.Share) shamir.Share {
	delta := big.NewInt(rand.Int63n(1<<16) + 1)
	return shamir.NewShare(
		delta.Add(delta, share.Index()), // Altered
		share.Value(),
	)
}
