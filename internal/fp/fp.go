// Package fp holds the parameter tables of the supported prime fields and the
// Montgomery arithmetic engine every field element delegates to.
//
// Values handled by the engine are in Montgomery form x·R mod p with R = 2^128.
// They are kept in [0, p) by every operation, but callers must still go through
// FromElem before comparing or printing: the representation is not the value.
package fp

import (
	"math/big"
	"math/bits"
)

// Add returns a + b.
func (fp *Params) Add(a, b Uint128) Uint128 {
	s, _ := add(a, b) // a, b < p < 2^127
	return fp.reduceOnce(s)
}

// Sub returns a - b.
func (fp *Params) Sub(a, b Uint128) Uint128 {
	d, borrow := sub(a, b)
	s, _ := add(d, sel(-borrow, fp.P, Uint128{}))
	return s
}

// Neg returns -a.
func (fp *Params) Neg(a Uint128) Uint128 {
	return fp.Sub(Uint128{}, a)
}

// Mul returns a * b.
func (fp *Params) Mul(a, b Uint128) Uint128 {
	return fp.montRed(mul(a, b))
}

// Pow returns a^exp using left-to-right square-and-multiply. exp must be non-negative;
// exp = 0 yields one.
func (fp *Params) Pow(a Uint128, exp *big.Int) Uint128 {
	res := fp.one
	for i := exp.BitLen() - 1; i >= 0; i-- {
		res = fp.Mul(res, res)
		if exp.Bit(i) == 1 {
			res = fp.Mul(res, a)
		}
	}
	return res
}

// Inv returns a^(p-2), the inverse of a when a is non-zero. The output for a = 0 is
// unspecified (currently zero).
func (fp *Params) Inv(a Uint128) Uint128 {
	return fp.Pow(a, fp.pMinus2)
}

// Elem maps an integer x < 2^128 to its representation; x >= p is reduced mod p.
func (fp *Params) Elem(x Uint128) Uint128 {
	return fp.Mul(x, fp.r2)
}

// FromElem returns the canonical integer in [0, p) represented by a.
func (fp *Params) FromElem(a Uint128) Uint128 {
	return fp.montRed([5]uint64{a.Lo, a.Hi})
}

// One returns the representation of 1.
func (fp *Params) One() Uint128 {
	return fp.one
}

// montRed computes t·R^-1 mod p for t < p·R, the result lying in [0, p).
func (fp *Params) montRed(t [5]uint64) Uint128 {
	for i := 0; i < 2; i++ {
		m := t[i] * fp.pInv
		h0, l0 := bits.Mul64(m, fp.P.Lo)
		h1, l1 := bits.Mul64(m, fp.P.Hi)
		mp1, k := bits.Add64(h0, l1, 0)
		mp2 := h1 + k

		var c uint64
		t[i], c = bits.Add64(t[i], l0, 0)
		t[i+1], c = bits.Add64(t[i+1], mp1, c)
		t[i+2], c = bits.Add64(t[i+2], mp2, c)
		for j := i + 3; j < len(t); j++ {
			t[j], c = bits.Add64(t[j], 0, c)
		}
	}
	// t/R < 2p < 2^127, so t[4] is zero here.
	return fp.reduceOnce(Uint128{Hi: t[3], Lo: t[2]})
}

// reduceOnce maps x in [0, 2p) to [0, p) without branching on x.
func (fp *Params) reduceOnce(x Uint128) Uint128 {
	d, borrow := sub(x, fp.P)
	return sel(-borrow, x, d)
}

// negInv64 returns -q^-1 mod 2^64 for odd q.
func negInv64(q uint64) uint64 {
	inv := q // correct to 3 bits for odd q
	for i := 0; i < 5; i++ {
		inv *= 2 - q*inv
	}
	return -inv
}
