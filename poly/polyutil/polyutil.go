package polyutil

import (
	"math/big"
	"math/rand"

	"github.com/renproject/intshamir/poly"
)

// RandomPolynomial returns a random polynomial with the given degree. The
// absolute value of every coefficient is less than 2^bits, and the leading
// coefficient is non-zero.
func RandomPolynomial(degree int, bits uint) poly.Poly {
	p := make(poly.Poly, degree+1)
	for i := range p {
		p[i] = RandomInt(bits)
	}

	// Ensure that the leading term is non-zero.
	for p[degree].Sign() == 0 {
		p[degree] = RandomInt(bits)
	}

	return p
}

// RandomInt returns a random integer whose absolute value is less than
// 2^bits.
func RandomInt(bits uint) *big.Int {
	bound := new(big.Int).Lsh(big.NewInt(1), bits)
	v := new(big.Int).Rand(rand.New(rand.NewSource(rand.Int63())), bound)
	if rand.Intn(2) == 0 {
		v.Neg(v)
	}
	return v
}
