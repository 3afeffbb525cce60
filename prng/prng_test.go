package prng

import (
	"errors"
	"testing"

	"prio-field/field"
)

// cycleReader repeats pattern forever.
type cycleReader struct {
	pattern []byte
	off     int
}

func (r *cycleReader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = r.pattern[r.off]
		r.off = (r.off + 1) % len(r.pattern)
	}
	return len(b), nil
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestKeyedIsDeterministic(t *testing.T) {
	key := []byte("prng-test-key")
	a, err := NewKeyed[field.P64](key)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewKeyed[field.P64](key)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		x, err := a.Next()
		if err != nil {
			t.Fatal(err)
		}
		y, err := b.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !x.Equal(y) {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestRejectsOutOfRangeBlocks(t *testing.T) {
	// 0xffffffff >= p32 is skipped, 7 is accepted.
	src := &cycleReader{pattern: []byte{0xff, 0xff, 0xff, 0xff, 7, 0, 0, 0}}
	p := NewFromSource[field.P32](src)
	for i := 0; i < 300; i++ {
		x, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !x.Equal(field.New[field.P32](7)) {
			t.Fatalf("draw %d: got %v want 7", i, x)
		}
	}
	st := p.Stats()
	if st.Draws != 600 || st.Rejections != 300 {
		t.Fatalf("stats %+v, want 600 draws and 300 rejections", st)
	}
}

func TestMaskAppliedBeforeRejection(t *testing.T) {
	// The top two bits of a 16-byte block are cleared for the 126-bit field, so a
	// block that is 5 plus those two bits decodes to 5 instead of being rejected.
	pattern := make([]byte, 16)
	pattern[0] = 5
	pattern[15] = 0xc0
	p := NewFromSource[field.P126](&cycleReader{pattern: pattern})
	x, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !x.Equal(field.New[field.P126](5)) {
		t.Fatalf("got %v want 5", x)
	}
}

func TestSourceErrorPropagates(t *testing.T) {
	boom := errors.New("entropy exhausted")
	p := NewFromSource[field.P80](failingReader{err: boom})
	if _, err := p.Next(); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped %v", err, boom)
	}
	dst := make([]field.Field80, 3)
	if err := p.Fill(dst); !errors.Is(err, boom) {
		t.Fatalf("Fill: got %v, want wrapped %v", err, boom)
	}
}

func TestFillProducesCanonicalElements(t *testing.T) {
	p, err := New[field.P126]()
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]field.Field126, 256)
	if err := p.Fill(dst); err != nil {
		t.Fatal(err)
	}
	mod := field.Modulus[field.P126]()
	distinct := map[string]bool{}
	for _, x := range dst {
		if x.Big().Cmp(mod) >= 0 {
			t.Fatalf("element %v not below modulus", x)
		}
		distinct[x.String()] = true
	}
	if len(distinct) < 250 {
		t.Fatalf("only %d distinct elements out of 256", len(distinct))
	}
}
