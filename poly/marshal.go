package poly

import (
	"math/big"
	"math/rand"
	"reflect"

	"github.com/renproject/intshamir/util"
	"github.com/renproject/surge"
)

// Generate implements the quick.Generator interface.
func (p Poly) Generate(r *rand.Rand, size int) reflect.Value {
	poly := make(Poly, size+1)
	bound := new(big.Int).Lsh(big.NewInt(1), 128)
	for i := range poly {
		poly[i] = new(big.Int).Rand(r, bound)
		if r.Intn(2) == 0 {
			poly[i].Neg(poly[i])
		}
	}
	return reflect.ValueOf(poly)
}

// SizeHint implements the surge.SizeHinter interface.
func (p Poly) SizeHint() int {
	size := surge.SizeHintU32
	for _, c := range p {
		size += util.SizeHintInt(c)
	}
	return size
}

// Marshal implements the surge.Marshaler interface.
func (p Poly) Marshal(buf []byte, rem int) ([]byte, int, error) {
	buf, rem, err := surge.MarshalU32(uint32(len(p)), buf, rem)
	if err != nil {
		return buf, rem, err
	}
	for _, c := range p {
		buf, rem, err = util.MarshalInt(c, buf, rem)
		if err != nil {
			return buf, rem, err
		}
	}
	return buf, rem, nil
}

// Unmarshal implements the surge.Unmarshaler interface.
func (p *Poly) Unmarshal(buf []byte, rem int) ([]byte, int, error) {
	var l uint32
	buf, rem, err := util.UnmarshalSliceLen32(&l, 1+surge.SizeHintU32, buf, rem)
	if err != nil {
		return buf, rem, err
	}
	if l == 0 {
		return buf, rem, surge.ErrUnexpectedEndOfBuffer
	}

	*p = make(Poly, l)
	for i := range *p {
		(*p)[i] = new(big.Int)
		buf, rem, err = util.UnmarshalInt((*p)[i], buf, rem)
		if err != nil {
			return buf, rem, err
		}
	}
	return buf, rem, nil
}
