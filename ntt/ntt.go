// Package ntt implements the cyclic number theoretic transform over the fields of
// package field, using their tabulated roots of unity.
package ntt

import (
	"errors"
	"math/bits"

	"prio-field/field"
	"prio-field/proof"
)

var (
	ErrNotPowerOfTwo = errors.New("ntt: length is not a power of two")
	ErrNoRoot        = errors.New("ntt: length exceeds the root table")
)

// logLen returns log2(n), checking that a root of order n is tabulated.
func logLen[D field.Descriptor](n int) (int, error) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, ErrNotPowerOfTwo
	}
	l := bits.Len(uint(n)) - 1
	if _, ok := field.Root[D](l); !ok {
		return 0, ErrNoRoot
	}
	return l, nil
}

// Forward returns the evaluations of the polynomial with coefficients values at the
// powers w^0..w^(n-1) of the principal n-th root w = Root(log2 n).
func Forward[D field.Descriptor](values []field.Elem[D]) ([]field.Elem[D], error) {
	if _, err := logLen[D](len(values)); err != nil {
		return nil, err
	}
	out := append([]field.Elem[D](nil), values...)
	transform(out, false)
	return out, nil
}

// Inverse undoes Forward.
func Inverse[D field.Descriptor](values []field.Elem[D]) ([]field.Elem[D], error) {
	if _, err := logLen[D](len(values)); err != nil {
		return nil, err
	}
	out := append([]field.Elem[D](nil), values...)
	transform(out, true)
	nInv := field.New[D](uint64(len(out))).Inv()
	for i := range out {
		out[i] = out[i].Mul(nInv)
	}
	return out, nil
}

// PolyMul returns the product of two coefficient vectors, of length
// len(a)+len(b)-1, or nil when either is empty.
func PolyMul[D field.Descriptor](a, b []field.Elem[D]) ([]field.Elem[D], error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	m := len(a) + len(b) - 1
	n := proof.NextPowerOfTwo(m)
	if _, err := logLen[D](n); err != nil {
		return nil, err
	}
	fa := make([]field.Elem[D], n)
	fb := make([]field.Elem[D], n)
	copy(fa, a)
	copy(fb, b)
	transform(fa, false)
	transform(fb, false)
	for i := range fa {
		fa[i] = fa[i].Mul(fb[i])
	}
	out, err := Inverse(fa)
	if err != nil {
		return nil, err
	}
	return out[:m], nil
}

// transform is an in-place iterative radix-2 Cooley-Tukey butterfly. len(a) must
// be a power of two with a tabulated root.
func transform[D field.Descriptor](a []field.Elem[D], inverse bool) {
	n := len(a)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
	for l, size := 1, 2; size <= n; l, size = l+1, size<<1 {
		w, _ := field.Root[D](l)
		if inverse {
			w = w.Inv()
		}
		half := size >> 1
		for start := 0; start < n; start += size {
			wk := field.One[D]()
			for k := 0; k < half; k++ {
				u := a[start+k]
				v := a[start+k+half].Mul(wk)
				a[start+k] = u.Add(v)
				a[start+k+half] = u.Sub(v)
				wk = wk.Mul(w)
			}
		}
	}
}
