package fp

import (
	"encoding/binary"
	"math/big"
	"math/bits"
)

// Uint128 is an unsigned 128-bit integer stored as two 64-bit limbs.
type Uint128 struct {
	Hi, Lo uint64
}

// U128 lifts a uint64 into a Uint128.
func U128(x uint64) Uint128 {
	return Uint128{Lo: x}
}

// U128FromBig converts x, which must lie in [0, 2^128).
func U128FromBig(x *big.Int) Uint128 {
	var buf [16]byte
	x.FillBytes(buf[:])
	return Uint128{
		Hi: binary.BigEndian.Uint64(buf[0:8]),
		Lo: binary.BigEndian.Uint64(buf[8:16]),
	}
}

// Big returns x as a freshly allocated big.Int.
func (x Uint128) Big() *big.Int {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], x.Hi)
	binary.BigEndian.PutUint64(buf[8:16], x.Lo)
	return new(big.Int).SetBytes(buf[:])
}

// IsZero reports whether x == 0.
func (x Uint128) IsZero() bool {
	return x.Hi|x.Lo == 0
}

// Cmp returns -1, 0 or +1 depending on whether x <, ==, > y.
func (x Uint128) Cmp(y Uint128) int {
	switch {
	case x.Hi < y.Hi:
		return -1
	case x.Hi > y.Hi:
		return 1
	case x.Lo < y.Lo:
		return -1
	case x.Lo > y.Lo:
		return 1
	}
	return 0
}

// And returns x & y.
func (x Uint128) And(y Uint128) Uint128 {
	return Uint128{Hi: x.Hi & y.Hi, Lo: x.Lo & y.Lo}
}

// BitLen returns the number of bits needed to represent x.
func (x Uint128) BitLen() int {
	if x.Hi != 0 {
		return 64 + bits.Len64(x.Hi)
	}
	return bits.Len64(x.Lo)
}

// AppendLE appends the n least significant bytes of x in little-endian order.
func (x Uint128) AppendLE(dst []byte, n int) []byte {
	for i := 0; i < n; i++ {
		if i < 8 {
			dst = append(dst, byte(x.Lo>>(8*i)))
		} else {
			dst = append(dst, byte(x.Hi>>(8*(i-8))))
		}
	}
	return dst
}

// LoadLE decodes the first n (<= 16) bytes of b as a little-endian integer.
func LoadLE(b []byte, n int) Uint128 {
	var x Uint128
	for i := 0; i < n; i++ {
		if i < 8 {
			x.Lo |= uint64(b[i]) << (8 * i)
		} else {
			x.Hi |= uint64(b[i]) << (8 * (i - 8))
		}
	}
	return x
}

// add returns x + y and the carry out.
func add(x, y Uint128) (Uint128, uint64) {
	lo, c := bits.Add64(x.Lo, y.Lo, 0)
	hi, c := bits.Add64(x.Hi, y.Hi, c)
	return Uint128{Hi: hi, Lo: lo}, c
}

// sub returns x - y and the borrow out.
func sub(x, y Uint128) (Uint128, uint64) {
	lo, b := bits.Sub64(x.Lo, y.Lo, 0)
	hi, b := bits.Sub64(x.Hi, y.Hi, b)
	return Uint128{Hi: hi, Lo: lo}, b
}

// sel returns x when mask is all ones and y when mask is zero.
func sel(mask uint64, x, y Uint128) Uint128 {
	return Uint128{
		Hi: (x.Hi & mask) | (y.Hi &^ mask),
		Lo: (x.Lo & mask) | (y.Lo &^ mask),
	}
}

// mul returns the 256-bit product x*y as little-endian limbs; the fifth limb is
// scratch space for Montgomery reduction and is always zero on return.
func mul(x, y Uint128) [5]uint64 {
	h00, l00 := bits.Mul64(x.Lo, y.Lo)
	h01, l01 := bits.Mul64(x.Lo, y.Hi)
	h10, l10 := bits.Mul64(x.Hi, y.Lo)
	h11, l11 := bits.Mul64(x.Hi, y.Hi)

	var t [5]uint64
	var c uint64
	t[0] = l00
	t[1], c = bits.Add64(h00, l01, 0)
	t[2], c = bits.Add64(h01, l11, c)
	t[3], _ = bits.Add64(h11, 0, c)
	t[1], c = bits.Add64(t[1], l10, 0)
	t[2], c = bits.Add64(t[2], h10, c)
	t[3], _ = bits.Add64(t[3], 0, c)
	return t
}
