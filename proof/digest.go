package proof

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"prio-field/field"
)

const digestDomain = "prio-field/proof/v1"

// Digest returns a 32-byte SHAKE-256 digest of proof, bound to the field width and
// the vector length.
func Digest[D field.Descriptor](proof []field.Elem[D]) [32]byte {
	h := sha3.NewShake256()
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[:8], uint64(field.Bytes[D]()))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(len(proof)))
	h.Write([]byte(digestDomain))
	h.Write(hdr[:])
	buf := make([]byte, 0, field.Bytes[D]())
	for _, x := range proof {
		buf = x.AppendTo(buf[:0])
		h.Write(buf)
	}
	var out [32]byte
	h.Read(out[:])
	return out
}
