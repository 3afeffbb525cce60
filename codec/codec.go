// Package codec encodes field vectors as a fixed-width byte stream and as a
// self-describing CBOR envelope.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"prio-field/field"
	"prio-field/proof"
)

const countBytes = 8

// Serialize returns the element count as 8 little-endian bytes followed by the
// canonical encoding of every element.
func Serialize[D field.Descriptor](data []field.Elem[D]) []byte {
	out := make([]byte, countBytes, countBytes+len(data)*field.Bytes[D]())
	binary.LittleEndian.PutUint64(out, uint64(len(data)))
	return appendElems(out, data)
}

// Deserialize is the inverse of Serialize. It fails with proof.ErrIncompleteChunk
// when the header or the last element is truncated.
func Deserialize[D field.Descriptor](b []byte) ([]field.Elem[D], error) {
	if len(b) < countBytes {
		return nil, proof.ErrIncompleteChunk
	}
	n := binary.LittleEndian.Uint64(b)
	return decodeElems[D](b[countBytes:], n)
}

func appendElems[D field.Descriptor](dst []byte, data []field.Elem[D]) []byte {
	for _, x := range data {
		dst = x.AppendTo(dst)
	}
	return dst
}

func decodeElems[D field.Descriptor](b []byte, n uint64) ([]field.Elem[D], error) {
	w := field.Bytes[D]()
	if n > uint64(len(b)/w) {
		return nil, proof.ErrIncompleteChunk
	}
	if uint64(len(b)) != n*uint64(w) {
		return nil, &proof.SerializeError{
			Op:  "decode",
			Err: fmt.Errorf("%d trailing bytes after %d elements", uint64(len(b))-n*uint64(w), n),
		}
	}
	out := make([]field.Elem[D], n)
	for i := range out {
		x, err := field.ReadFrom[D](b[i*w:])
		if err != nil {
			return nil, &proof.SerializeError{Op: fmt.Sprintf("decode element %d", i), Err: err}
		}
		out[i] = x
	}
	return out, nil
}

// envelope is the CBOR wire form of a vector.
type envelope struct {
	Bytes int    `cbor:"bytes"`
	Count uint64 `cbor:"count"`
	Data  []byte `cbor:"data"`
}

// MarshalCBOR encodes data as a CBOR map carrying the element width and count.
func MarshalCBOR[D field.Descriptor](data []field.Elem[D]) ([]byte, error) {
	env := envelope{
		Bytes: field.Bytes[D](),
		Count: uint64(len(data)),
		Data:  appendElems(make([]byte, 0, len(data)*field.Bytes[D]()), data),
	}
	b, err := cbor.Marshal(&env)
	if err != nil {
		return nil, &proof.SerializeError{Op: "cbor marshal", Err: err}
	}
	return b, nil
}

// UnmarshalCBOR decodes an envelope produced by MarshalCBOR for the same field.
func UnmarshalCBOR[D field.Descriptor](b []byte) ([]field.Elem[D], error) {
	var env envelope
	if err := cbor.Unmarshal(b, &env); err != nil {
		return nil, &proof.SerializeError{Op: "cbor unmarshal", Err: err}
	}
	if env.Bytes != field.Bytes[D]() {
		return nil, &proof.SerializeError{
			Op:  "cbor unmarshal",
			Err: fmt.Errorf("%w: envelope holds %d-byte elements, field uses %d", field.ErrInputSizeMismatch, env.Bytes, field.Bytes[D]()),
		}
	}
	return decodeElems[D](env.Data, env.Count)
}
