// Package prng turns a cryptographic byte stream into a stream of uniformly
// random field elements by rejection sampling.
package prng

import (
	"fmt"
	"io"

	"prio-field/field"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// bufferElems is the number of element-sized blocks fetched from the source at once.
const bufferElems = 128

// Stats counts the blocks consumed by a PRNG.
type Stats struct {
	Draws      uint64 // blocks read from the source
	Rejections uint64 // blocks that decoded to a value >= p
}

// PRNG yields elements of the field D. It is not safe for concurrent use.
type PRNG[D field.Descriptor] struct {
	src   io.Reader
	buf   []byte
	pos   int
	stats Stats
}

// New returns a PRNG keyed from the system CSPRNG.
func New[D field.Descriptor]() (*PRNG[D], error) {
	src, err := utils.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("prng: %w", err)
	}
	return NewFromSource[D](src), nil
}

// NewKeyed returns a deterministic PRNG: two instances built from the same key yield
// the same elements in the same order.
func NewKeyed[D field.Descriptor](key []byte) (*PRNG[D], error) {
	src, err := utils.NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("prng: %w", err)
	}
	return NewFromSource[D](src), nil
}

// NewFromSource wraps an arbitrary byte source. src must deliver uniform bytes.
func NewFromSource[D field.Descriptor](src io.Reader) *PRNG[D] {
	n := field.Bytes[D]() * bufferElems
	return &PRNG[D]{src: src, buf: make([]byte, n), pos: n}
}

// Next returns the next uniform element. Blocks that decode to a value >= p are
// discarded silently; the only error is a failure of the byte source.
func (p *PRNG[D]) Next() (field.Elem[D], error) {
	n := field.Bytes[D]()
	for {
		if p.pos+n > len(p.buf) {
			if _, err := io.ReadFull(p.src, p.buf); err != nil {
				return field.Elem[D]{}, fmt.Errorf("prng read: %w", err)
			}
			p.pos = 0
		}
		block := p.buf[p.pos : p.pos+n]
		p.pos += n
		p.stats.Draws++
		x, err := field.TryFromRandom[D](block)
		if err == nil {
			return x, nil
		}
		p.stats.Rejections++
	}
}

// Fill overwrites dst with fresh elements.
func (p *PRNG[D]) Fill(dst []field.Elem[D]) error {
	for i := range dst {
		x, err := p.Next()
		if err != nil {
			return err
		}
		dst[i] = x
	}
	return nil
}

// Stats returns the block counters accumulated so far.
func (p *PRNG[D]) Stats() Stats {
	return p.stats
}
