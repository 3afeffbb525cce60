// Package proof defines the flat layout of a packed sum-check proof.
//
// For a data dimension d, a proof is a vector of ProofLength(d) field elements:
//
//	[0, d)        data
//	d             f0, zeroth coefficient of f
//	d+1           g0, zeroth coefficient of g
//	d+2           h0, zeroth coefficient of h
//	[d+3, end)    non-zero evaluation points of h
//
// Unpacking never copies: the views alias the caller's vector.
package proof

import (
	"errors"
	"fmt"
	"math/bits"

	"prio-field/field"
)

var (
	// ErrIncompleteChunk is returned when the last chunk of an encoded vector is too
	// short to hold an element.
	ErrIncompleteChunk = errors.New("proof: last chunk of bytes is incomplete")
	// ErrUnpackInputSizeMismatch is returned when a proof vector does not have
	// ProofLength(dimension) elements.
	ErrUnpackInputSizeMismatch = errors.New("proof: serialized input has wrong length")
)

// SerializeError wraps a field or codec failure encountered while (de)serializing.
type SerializeError struct {
	Op  string
	Err error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("proof: %s: %v", e.Op, e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

// NextPowerOfTwo returns the smallest power of two >= n; NextPowerOfTwo(0) = 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// ProofLength returns the number of elements in a proof for dimension data elements:
// the data, the three zero terms and the NextPowerOfTwo(dimension+1) points of h.
func ProofLength(dimension int) int {
	return dimension + 3 + NextPowerOfTwo(dimension+1)
}

// UnpackedProof is a read-only view of a proof vector.
type UnpackedProof[D field.Descriptor] struct {
	proof []field.Elem[D]
	dim   int
}

// UnpackProof validates the length of proof and returns a view over it.
func UnpackProof[D field.Descriptor](proof []field.Elem[D], dimension int) (UnpackedProof[D], error) {
	if dimension < 0 || len(proof) != ProofLength(dimension) {
		return UnpackedProof[D]{}, ErrUnpackInputSizeMismatch
	}
	return UnpackedProof[D]{proof: proof, dim: dimension}, nil
}

// Data returns the data segment. The slice aliases the proof and must not be modified.
func (u UnpackedProof[D]) Data() []field.Elem[D] {
	return u.proof[:u.dim:u.dim]
}

func (u UnpackedProof[D]) F0() field.Elem[D] { return u.proof[u.dim] }
func (u UnpackedProof[D]) G0() field.Elem[D] { return u.proof[u.dim+1] }
func (u UnpackedProof[D]) H0() field.Elem[D] { return u.proof[u.dim+2] }

// PointsHPacked returns the packed points of h. The slice aliases the proof and must
// not be modified.
func (u UnpackedProof[D]) PointsHPacked() []field.Elem[D] {
	return u.proof[u.dim+3:]
}

// UnpackedProofMut is a writable view of a proof vector; writes through its fields
// land in the underlying vector.
type UnpackedProofMut[D field.Descriptor] struct {
	Data          []field.Elem[D]
	F0            *field.Elem[D]
	G0            *field.Elem[D]
	H0            *field.Elem[D]
	PointsHPacked []field.Elem[D]
}

// UnpackProofMut validates the length of proof and returns a writable view over it.
func UnpackProofMut[D field.Descriptor](proof []field.Elem[D], dimension int) (UnpackedProofMut[D], error) {
	if dimension < 0 || len(proof) != ProofLength(dimension) {
		return UnpackedProofMut[D]{}, ErrUnpackInputSizeMismatch
	}
	return UnpackedProofMut[D]{
		Data:          proof[:dimension:dimension],
		F0:            &proof[dimension],
		G0:            &proof[dimension+1],
		H0:            &proof[dimension+2],
		PointsHPacked: proof[dimension+3:],
	}, nil
}
