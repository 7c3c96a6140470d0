// Package util contains surge marshalling helpers for arbitrary precision
// integers.
package util

import (
	"math/big"

	"github.com/renproject/surge"
)

// Sign bytes for marshalled integers.
const (
	signNonNegative byte = 0
	signNegative    byte = 1
)

// MaxIntBytes is the largest magnitude, in bytes, that UnmarshalInt will
// accept. This keeps adversarial length prefixes from forcing large
// allocations.
const MaxIntBytes = 1 << 16

// SizeHintInt returns the number of bytes needed to marshal the given integer.
// An integer is marshalled as one sign byte, followed by the u32 length and the
// big endian bytes of its magnitude.
func SizeHintInt(v *big.Int) int {
	return 1 + surge.SizeHintU32 + (v.BitLen()+7)/8
}

// MarshalInt marshals the given integer into the buffer.
func MarshalInt(v *big.Int, buf []byte, rem int) ([]byte, int, error) {
	if len(buf) < 1 || rem < 1 {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	if v.Sign() < 0 {
		buf[0] = signNegative
	} else {
		buf[0] = signNonNegative
	}
	buf, rem = buf[1:], rem-1

	mag := v.Bytes()
	buf, rem, err := surge.MarshalU32(uint32(len(mag)), buf, rem)
	if err != nil {
		return buf, rem, err
	}
	if len(buf) < len(mag) || rem < len(mag) {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	copy(buf, mag)
	return buf[len(mag):], rem - len(mag), nil
}

// UnmarshalInt unmarshals an integer from the buffer into dst.
func UnmarshalInt(dst *big.Int, buf []byte, rem int) ([]byte, int, error) {
	if len(buf) < 1 || rem < 1 {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	sign := buf[0]
	if sign != signNonNegative && sign != signNegative {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}
	buf, rem = buf[1:], rem-1

	var l uint32
	buf, rem, err := surge.UnmarshalU32(&l, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	if l > MaxIntBytes {
		return buf, rem, surge.ErrLengthOverflow
	}
	n := int(l)
	if len(buf) < n || rem < n {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}

	dst.SetBytes(buf[:n])
	if sign == signNegative {
		dst.Neg(dst)
	}
	return buf[n:], rem - n, nil
}

// UnmarshalSliceLen32 unmarshals a uint32 and interprets it as a slice length
// for a slice with elements of at least minElemSize bytes. An error will be
// returned if the unmarshalling fails, or if the remaining buffer cannot hold
// that many elements.
func UnmarshalSliceLen32(dst *uint32, minElemSize int, buf []byte, rem int) ([]byte, int, error) {
	var l uint32
	buf, rem, err := surge.UnmarshalU32(&l, buf, rem)
	if err != nil {
		return buf, rem, err
	}

	c := uint64(l) * uint64(minElemSize)

	// Check if there was overflow in the multiplication.
	if l != 0 && c/uint64(l) != uint64(minElemSize) {
		return buf, rem, surge.ErrLengthOverflow
	}

	if uint64(len(buf)) < c || uint64(rem) < c {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}

	*dst = l
	return buf, rem, nil
}
