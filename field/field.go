package field

import (
	"fmt"
	"math/big"

	"prio-field/internal/fp"
)

// Descriptor names a prime field. Implementations are zero-size types whose only
// job is to select a parameter table at compile time.
type Descriptor interface {
	Params() *fp.Params
}

// P32 selects GF(4293918721), a 32-bit field whose generator has order 2^20.
type P32 struct{}

// P64 selects GF(15564440312192434177), a 64-bit field whose generator has order 2^59.
// The parameters are experimental.
type P64 struct{}

// P80 selects GF(779190469673491460259841), an 80-bit field whose generator has order 2^72.
// The parameters are experimental.
type P80 struct{}

// P126 selects GF(74769074762901517850839147140769382401), a 126-bit field whose
// generator has order 2^118. The parameters are experimental.
type P126 struct{}

func (P32) Params() *fp.Params  { return fp.FP32 }
func (P64) Params() *fp.Params  { return fp.FP64 }
func (P80) Params() *fp.Params  { return fp.FP80 }
func (P126) Params() *fp.Params { return fp.FP126 }

type (
	Field32  = Elem[P32]
	Field64  = Elem[P64]
	Field80  = Elem[P80]
	Field126 = Elem[P126]
)

// Elem is an element of the prime field selected by D. The zero value is the
// additive identity. Elements are immutable values: every method returns a new
// element.
type Elem[D Descriptor] struct {
	r fp.Uint128 // engine representation, never exposed
}

func params[D Descriptor]() *fp.Params {
	var d D
	return d.Params()
}

// New returns the element congruent to x.
func New[D Descriptor](x uint64) Elem[D] {
	return Elem[D]{r: params[D]().Elem(fp.U128(x))}
}

// FromBig returns the element congruent to x. Negative values are mapped to their
// residue in [0, p).
func FromBig[D Descriptor](x *big.Int) Elem[D] {
	t := params[D]()
	v := x
	if x.Sign() < 0 || x.BitLen() > 128 {
		v = new(big.Int).Mod(x, t.P.Big())
	}
	return Elem[D]{r: t.Elem(fp.U128FromBig(v))}
}

// Zero returns the additive identity.
func Zero[D Descriptor]() Elem[D] {
	return Elem[D]{}
}

// One returns the multiplicative identity, the 2^0-th root of unity.
func One[D Descriptor]() Elem[D] {
	return Elem[D]{r: params[D]().Roots[0]}
}

// Modulus returns the prime p.
func Modulus[D Descriptor]() *big.Int {
	return params[D]().P.Big()
}

// Bytes returns the size of an encoded element.
func Bytes[D Descriptor]() int {
	return params[D]().Bytes
}

// Generator returns the generator of the multiplicative subgroup of order
// GeneratorOrder.
func Generator[D Descriptor]() Elem[D] {
	return Elem[D]{r: params[D]().G}
}

// GeneratorOrder returns 2^n, the order of the subgroup generated by Generator.
func GeneratorOrder[D Descriptor]() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(params[D]().NumRoots))
}

// Root returns the principal 2^l-th root of unity. ok is false when l is beyond the
// tabulated range; callers must not assume roots exist past fp.MaxRoots.
func Root[D Descriptor](l int) (Elem[D], bool) {
	t := params[D]()
	if l < 0 || l >= min(len(t.Roots), t.NumRoots+1) {
		return Elem[D]{}, false
	}
	return Elem[D]{r: t.Roots[l]}, true
}

func (x Elem[D]) Add(y Elem[D]) Elem[D] { return Elem[D]{r: params[D]().Add(x.r, y.r)} }
func (x Elem[D]) Sub(y Elem[D]) Elem[D] { return Elem[D]{r: params[D]().Sub(x.r, y.r)} }
func (x Elem[D]) Mul(y Elem[D]) Elem[D] { return Elem[D]{r: params[D]().Mul(x.r, y.r)} }
func (x Elem[D]) Neg() Elem[D]          { return Elem[D]{r: params[D]().Neg(x.r)} }

// Div returns x / y. Division by zero is not an error: it yields x * Inv(0), whose
// value is unspecified.
func (x Elem[D]) Div(y Elem[D]) Elem[D] {
	return x.Mul(y.Inv())
}

// Inv returns x^-1. The output is unspecified when x is zero.
func (x Elem[D]) Inv() Elem[D] {
	return Elem[D]{r: params[D]().Inv(x.r)}
}

// Pow returns x^exp. exp must be non-negative.
func (x Elem[D]) Pow(exp *big.Int) Elem[D] {
	return Elem[D]{r: params[D]().Pow(x.r, exp)}
}

// Equal compares canonical values.
func (x Elem[D]) Equal(y Elem[D]) bool {
	t := params[D]()
	return t.FromElem(x.r) == t.FromElem(y.r)
}

// IsZero reports whether x is the additive identity.
func (x Elem[D]) IsZero() bool {
	return params[D]().FromElem(x.r).IsZero()
}

// Cmp orders elements by canonical value.
func (x Elem[D]) Cmp(y Elem[D]) int {
	t := params[D]()
	return t.FromElem(x.r).Cmp(t.FromElem(y.r))
}

// Big returns the canonical value of x.
func (x Elem[D]) Big() *big.Int {
	return params[D]().FromElem(x.r).Big()
}

// Uint64 returns the low 64 bits of the canonical value of x.
func (x Elem[D]) Uint64() uint64 {
	return params[D]().FromElem(x.r).Lo
}

// String prints the canonical value in decimal.
func (x Elem[D]) String() string {
	return x.Big().String()
}

// Format makes %v, %d and %x observe the canonical value.
func (x Elem[D]) Format(s fmt.State, verb rune) {
	x.Big().Format(s, verb)
}
