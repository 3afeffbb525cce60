// Package share implements additive secret sharing and elementwise vector
// arithmetic over the fields of package field.
//
// Length mismatches are reported two ways on purpose: MergeVector returns
// field.ErrInputSizeMismatch, while ReconstructShares reports a bare ok=false.
package share

import (
	"prio-field/field"
	"prio-field/prng"
)

// VectorWithLength returns a zero vector of length n.
func VectorWithLength[D field.Descriptor](n int) []field.Elem[D] {
	return make([]field.Elem[D], n)
}

// MergeVector adds other into acc elementwise. It fails with
// field.ErrInputSizeMismatch when the lengths differ, leaving acc untouched.
func MergeVector[D field.Descriptor](acc, other []field.Elem[D]) error {
	if len(acc) != len(other) {
		return field.ErrInputSizeMismatch
	}
	for i := range acc {
		acc[i] = acc[i].Add(other[i])
	}
	return nil
}

// Rand returns n independent uniform elements drawn from a fresh CSPRNG.
func Rand[D field.Descriptor](n int) ([]field.Elem[D], error) {
	p, err := prng.New[D]()
	if err != nil {
		return nil, err
	}
	return RandFrom(p, n)
}

// RandFrom returns the next n elements of p.
func RandFrom[D field.Descriptor](p *prng.PRNG[D], n int) ([]field.Elem[D], error) {
	out := make([]field.Elem[D], n)
	if err := p.Fill(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Split returns an additive sharing of in into numShares vectors, using a fresh
// CSPRNG. numShares == 0 yields no shares and no error.
func Split[D field.Descriptor](in []field.Elem[D], numShares int) ([][]field.Elem[D], error) {
	if numShares == 0 {
		return [][]field.Elem[D]{}, nil
	}
	p, err := prng.New[D]()
	if err != nil {
		return nil, err
	}
	return SplitWith(p, in, numShares)
}

// SplitWith is Split with an explicit element stream. Shares 1..numShares-1 are
// filled in that order, each position by one draw, and share 0 is in minus their
// sum, so the consumption order of p is fixed.
func SplitWith[D field.Descriptor](p *prng.PRNG[D], in []field.Elem[D], numShares int) ([][]field.Elem[D], error) {
	if numShares <= 0 {
		return [][]field.Elem[D]{}, nil
	}
	out := make([][]field.Elem[D], numShares)
	out[0] = append(VectorWithLength[D](0), in...)
	for i := 1; i < numShares; i++ {
		out[i] = VectorWithLength[D](len(in))
		for j := range in {
			r, err := p.Next()
			if err != nil {
				return nil, err
			}
			out[i][j] = r
			out[0][j] = out[0][j].Sub(r)
		}
	}
	return out, nil
}

// ReconstructShares returns a + b elementwise, or ok == false when the lengths differ.
func ReconstructShares[D field.Descriptor](a, b []field.Elem[D]) (sum []field.Elem[D], ok bool) {
	if len(a) != len(b) {
		return nil, false
	}
	sum = VectorWithLength[D](len(a))
	for i := range sum {
		sum[i] = a[i].Add(b[i])
	}
	return sum, true
}

// Reconstruct sums any number of shares. It fails with field.ErrInputSizeMismatch
// when the shares have different lengths and returns nil for no shares.
func Reconstruct[D field.Descriptor](shares [][]field.Elem[D]) ([]field.Elem[D], error) {
	if len(shares) == 0 {
		return nil, nil
	}
	acc := append(VectorWithLength[D](0), shares[0]...)
	for _, s := range shares[1:] {
		if err := MergeVector(acc, s); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
