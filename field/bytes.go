package field

import (
	"errors"
	"fmt"

	"prio-field/internal/fp"
)

var (
	// ErrInputSizeMismatch is returned by elementwise operations on vectors of different lengths.
	ErrInputSizeMismatch = errors.New("field: input sizes do not match")
	// ErrFromBytesShortRead is returned when fewer than Bytes bytes are available.
	ErrFromBytesShortRead = errors.New("field: short read from byte slice")
	// ErrFromBytesModulusOverflow is returned when the decoded integer is not below the modulus.
	ErrFromBytesModulusOverflow = errors.New("field: read from byte slice exceeds modulus")
)

// AppendTo appends exactly Bytes little-endian bytes of the canonical value of x to
// dst and returns the extended slice.
func (x Elem[D]) AppendTo(dst []byte) []byte {
	t := params[D]()
	return t.FromElem(x.r).AppendLE(dst, t.Bytes)
}

// ReadFrom decodes the first Bytes bytes of b as an element. No bits are masked: an
// encoding of an integer >= p is rejected with ErrFromBytesModulusOverflow.
func ReadFrom[D Descriptor](b []byte) (Elem[D], error) {
	return fromBytes[D](b, fp.Uint128{Hi: ^uint64(0), Lo: ^uint64(0)})
}

// TryFromRandom converts Bytes random bytes into an element by clearing the bits above
// the modulus length and rejecting values >= p. Callers retry with fresh bytes on
// ErrFromBytesModulusOverflow. It must not be used to decode serialized elements.
func TryFromRandom[D Descriptor](b []byte) (Elem[D], error) {
	return fromBytes[D](b, params[D]().BitMask)
}

func fromBytes[D Descriptor](b []byte, mask fp.Uint128) (Elem[D], error) {
	t := params[D]()
	if len(b) < t.Bytes {
		return Elem[D]{}, ErrFromBytesShortRead
	}
	v := fp.LoadLE(b, t.Bytes).And(mask)
	if v.Cmp(t.P) >= 0 {
		return Elem[D]{}, ErrFromBytesModulusOverflow
	}
	return Elem[D]{r: t.Elem(v)}, nil
}

// MarshalBinary returns the fixed-width encoding of x.
func (x Elem[D]) MarshalBinary() ([]byte, error) {
	return x.AppendTo(make([]byte, 0, Bytes[D]())), nil
}

// UnmarshalBinary decodes a fixed-width encoding; b must be exactly Bytes long.
func (x *Elem[D]) UnmarshalBinary(b []byte) error {
	if n := Bytes[D](); len(b) > n {
		return fmt.Errorf("field: encoded element has %d bytes, want %d", len(b), n)
	}
	v, err := ReadFrom[D](b)
	if err != nil {
		return err
	}
	*x = v
	return nil
}
