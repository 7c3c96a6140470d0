package shamir

import (
	"fmt"
	"math/big"
	"math/rand"
	"reflect"

	"github.com/renproject/intshamir/util"
	"github.com/renproject/surge"
)

// minShareSize is the size of the smallest marshalled share: two integers
// with empty magnitudes.
const minShareSize = 2 * (1 + surge.SizeHintU32)

// Generate implements the quick.Generator interface.
func (s Share) Generate(r *rand.Rand, _ int) reflect.Value {
	index := big.NewInt(r.Int63n(1<<16) + 1)
	value := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), 256))
	if r.Intn(2) == 0 {
		value.Neg(value)
	}
	return reflect.ValueOf(Share{index: index, value: value})
}

// SizeHint implements the surge.SizeHinter interface.
func (s Share) SizeHint() int {
	return util.SizeHintInt(s.index) + util.SizeHintInt(s.value)
}

// Marshal implements the surge.Marshaler interface.
func (s Share) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := util.MarshalInt(s.index, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	return util.MarshalInt(s.value, buf, rem)
}

// Unmarshal implements the surge.Unmarshaler interface.
func (s *Share) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	index, value := new(big.Int), new(big.Int)
	buf, rem, err := util.UnmarshalInt(index, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	buf, rem, err = util.UnmarshalInt(value, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	s.index, s.value = index, value
	return buf, rem, nil
}

// Generate implements the quick.Generator interface.
func (shares Shares) Generate(r *rand.Rand, size int) reflect.Value {
	s := make(Shares, r.Intn(size+1))
	for i := range s {
		s[i] = Share{}.Generate(r, size).Interface().(Share)
	}
	return reflect.ValueOf(s)
}

// SizeHint implements the surge.SizeHinter interface.
func (shares Shares) SizeHint() int {
	size := surge.SizeHintU32
	for i := range shares {
		size += shares[i].SizeHint()
	}
	return size
}

// Marshal implements the surge.Marshaler interface.
func (shares Shares) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.MarshalU32(uint32(len(shares)), buf, rem)
	if err != nil {
		return buf, rem, err
	}

	for i := range shares {
		buf, rem, err = shares[i].Marshal(buf, rem)
		if err != nil {
			return buf, rem, err
		}
	}

	return buf, rem, nil
}

// Unmarshal implements the surge.Unmarshaler interface.
func (shares *Shares) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	var l uint32
	buf, rem, err := util.UnmarshalSliceLen32(&l, minShareSize, buf, rem)
	if err != nil {
		return buf, rem, err
	}

	if *shares == nil {
		*shares = make(Shares, 0, l)
	}

	*shares = (*shares)[:0]
	for i := uint32(0); i < l; i++ {
		*shares = append(*shares, Share{})
		buf, rem, err = (*shares)[i].Unmarshal(buf, rem)
		if err != nil {
			return buf, rem, err
		}
	}

	return buf, rem, nil
}

// Bundle is a decoded reconstruction request: a threshold and the shares to
// reconstruct from.
type Bundle struct {
	K      int
	Shares Shares
}

// Open reconstructs the secret of the bundle with the given Reconstructor.
func (b Bundle) Open(r Reconstructor) (*big.Int, error) {
	return r.Open(b.Shares, b.K)
}

// SizeHint implements the surge.SizeHinter interface.
func (b Bundle) SizeHint() int {
	return surge.SizeHintU32 + b.Shares.SizeHint()
}

// Marshal implements the surge.Marshaler interface.
func (b Bundle) Marshal(buf []byte, rem int) ([]byte, int, error) {
	if b.K < 0 || int64(b.K) > int64(^uint32(0)) {
		return buf, rem, fmt.Errorf("threshold out of range: got k = %v", b.K)
	}
	buf, rem, err := surge.MarshalU32(uint32(b.K), buf, rem)
	if err != nil {
		return buf, rem, err
	}
	return b.Shares.Marshal(buf, rem)
}

// Unmarshal implements the surge.Unmarshaler interface.
func (b *Bundle) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	var k uint32
	buf, rem, err := surge.UnmarshalU32(&k, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	if uint64(k) > uint64(^uint(0)>>1) {
		return buf, rem, surge.ErrLengthOverflow
	}
	b.K = int(k)
	return b.Shares.Unmarshal(buf, rem)
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b Bundle) MarshalBinary() ([]byte, error) {
	buf := make([]byte, b.SizeHint())
	_, _, err := b.Marshal(buf, len(buf))
	return buf, err
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	rest, _, err := b.Unmarshal(data, len(data))
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("expected end of bundle, got %v trailing bytes", len(rest))
	}
	return nil
}
