package fp

import (
	"fmt"
	"math/big"
)

// MaxRoots is the largest l for which a principal 2^l-th root of unity is tabulated.
const MaxRoots = 20

// Params describes GF(p) for a prime p with p - 1 = k·2^NumRoots.
type Params struct {
	P        Uint128 // prime modulus
	G        Uint128 // generator of the subgroup of order 2^NumRoots (engine form)
	BitMask  Uint128 // 2^bitlen(P) - 1
	NumRoots int
	Roots    [MaxRoots + 1]Uint128 // Roots[l] = G^(2^(NumRoots-l)) (engine form)
	Bytes    int                   // encoded width

	pInv    uint64  // -P^-1 mod 2^64
	one     Uint128 // R mod P
	r2      Uint128 // R^2 mod P
	pMinus2 *big.Int
}

var (
	// FP32 is GF(4293918721), 4095·2^20 + 1.
	FP32 = mustParams("4293918721", 20, 4)
	// FP64 is GF(15564440312192434177), 27·2^59 + 1.
	FP64 = mustParams("15564440312192434177", 59, 8)
	// FP80 is GF(779190469673491460259841), 165·2^72 + 1.
	FP80 = mustParams("779190469673491460259841", 72, 10)
	// FP126 is GF(74769074762901517850839147140769382401), 225·2^118 + 1.
	FP126 = mustParams("74769074762901517850839147140769382401", 118, 16)
)

func mustParams(p string, numRoots, nbytes int) *Params {
	q, ok := new(big.Int).SetString(p, 10)
	if !ok {
		panic(fmt.Sprintf("fp: bad modulus %q", p))
	}
	fp, err := NewParams(q, numRoots, nbytes)
	if err != nil {
		panic(err)
	}
	return fp
}

// NewParams validates p and derives the generator and root table for GF(p).
// p must be an odd prime below 2^127 with 2^numRoots dividing p - 1, numRoots >= MaxRoots,
// and nbytes must be wide enough to hold p.
func NewParams(p *big.Int, numRoots, nbytes int) (*Params, error) {
	if p.Sign() <= 0 || p.BitLen() > 127 || p.Bit(0) == 0 {
		return nil, fmt.Errorf("fp: modulus %s out of range", p)
	}
	if !p.ProbablyPrime(32) {
		return nil, fmt.Errorf("fp: modulus %s is not prime", p)
	}
	if numRoots < MaxRoots {
		return nil, fmt.Errorf("fp: numRoots=%d below table size %d", numRoots, MaxRoots)
	}
	if nbytes <= 0 || nbytes > 16 || p.BitLen() > 8*nbytes {
		return nil, fmt.Errorf("fp: %d bytes cannot hold a %d-bit modulus", nbytes, p.BitLen())
	}
	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	if pm1.TrailingZeroBits() < uint(numRoots) {
		return nil, fmt.Errorf("fp: 2^%d does not divide p-1", numRoots)
	}

	r := new(big.Int).Lsh(big.NewInt(1), 128)
	fp := &Params{
		P:        U128FromBig(p),
		NumRoots: numRoots,
		Bytes:    nbytes,
		pMinus2:  new(big.Int).Sub(p, big.NewInt(2)),
	}
	fp.pInv = negInv64(fp.P.Lo)
	fp.one = U128FromBig(new(big.Int).Mod(r, p))
	fp.r2 = U128FromBig(new(big.Int).Exp(r, big.NewInt(2), p))
	mask := new(big.Int).Lsh(big.NewInt(1), uint(p.BitLen()))
	fp.BitMask = U128FromBig(mask.Sub(mask, big.NewInt(1)))

	g, err := fp.findGenerator(pm1)
	if err != nil {
		return nil, err
	}
	fp.G = g
	for l := 0; l <= MaxRoots; l++ {
		e := new(big.Int).Lsh(big.NewInt(1), uint(numRoots-l))
		fp.Roots[l] = fp.Pow(g, e)
	}
	return fp, nil
}

// findGenerator returns h^k for the smallest h >= 2 such that h^k has order exactly
// 2^NumRoots, where p - 1 = k·2^NumRoots.
func (fp *Params) findGenerator(pm1 *big.Int) (Uint128, error) {
	k := new(big.Int).Rsh(pm1, uint(fp.NumRoots))
	half := new(big.Int).Lsh(big.NewInt(1), uint(fp.NumRoots-1))
	for h := uint64(2); h < 1<<16; h++ {
		g := fp.Pow(fp.Elem(U128(h)), k)
		if fp.FromElem(fp.Pow(g, half)) != U128(1) {
			return g, nil
		}
	}
	return Uint128{}, fmt.Errorf("fp: no generator of order 2^%d found", fp.NumRoots)
}
