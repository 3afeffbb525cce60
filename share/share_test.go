package share

import (
	"errors"
	"testing"

	"prio-field/field"
	"prio-field/prng"
)

func TestAccumulate(t *testing.T) {
	lhs := VectorWithLength[field.P32](10)
	rhs := VectorWithLength[field.P32](10)
	for i := range lhs {
		lhs[i] = field.New[field.P32](1)
		rhs[i] = field.New[field.P32](2)
	}
	if err := MergeVector(lhs, rhs); err != nil {
		t.Fatal(err)
	}
	for i := range lhs {
		if !lhs[i].Equal(field.New[field.P32](3)) {
			t.Fatalf("lhs[%d] = %v, want 3", i, lhs[i])
		}
		if !rhs[i].Equal(field.New[field.P32](2)) {
			t.Fatalf("rhs[%d] = %v, want 2", i, rhs[i])
		}
	}

	wrongLen := VectorWithLength[field.P32](9)
	if err := MergeVector(lhs, wrongLen); !errors.Is(err, field.ErrInputSizeMismatch) {
		t.Fatalf("got %v, want ErrInputSizeMismatch", err)
	}
	if !lhs[0].Equal(field.New[field.P32](3)) {
		t.Fatal("failed merge modified the accumulator")
	}
}

func splitRoundTrip[D field.Descriptor](t *testing.T) {
	in := VectorWithLength[D](10)
	in[3] = field.New[D](21)
	in[8] = field.New[D](123)
	for _, n := range []int{1, 2, 3, 7} {
		shares, err := Split(in, n)
		if err != nil {
			t.Fatal(err)
		}
		if len(shares) != n {
			t.Fatalf("got %d shares want %d", len(shares), n)
		}
		for i, s := range shares {
			if len(s) != len(in) {
				t.Fatalf("share %d has length %d", i, len(s))
			}
		}
		got, err := Reconstruct(shares)
		if err != nil {
			t.Fatal(err)
		}
		for j := range in {
			if !got[j].Equal(in[j]) {
				t.Fatalf("n=%d pos %d: got %v want %v", n, j, got[j], in[j])
			}
		}
	}
}

func TestSplitField32(t *testing.T)  { splitRoundTrip[field.P32](t) }
func TestSplitField64(t *testing.T)  { splitRoundTrip[field.P64](t) }
func TestSplitField80(t *testing.T)  { splitRoundTrip[field.P80](t) }
func TestSplitField126(t *testing.T) { splitRoundTrip[field.P126](t) }

func TestSplitZeroShares(t *testing.T) {
	shares, err := Split([]field.Field32{field.New[field.P32](1)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if shares == nil || len(shares) != 0 {
		t.Fatalf("got %v, want empty", shares)
	}
}

func TestSplitOneShareIsInput(t *testing.T) {
	in := []field.Field64{field.New[field.P64](5), field.New[field.P64](6)}
	shares, err := Split(in, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !shares[0][0].Equal(in[0]) || !shares[0][1].Equal(in[1]) {
		t.Fatalf("got %v want %v", shares[0], in)
	}
	// The share must not alias the input.
	shares[0][0] = field.Zero[field.P64]()
	if in[0].IsZero() {
		t.Fatal("share aliases input")
	}
}

func TestSplitDrawOrder(t *testing.T) {
	key := []byte("split draw order")
	in := []field.Field80{field.New[field.P80](1), field.New[field.P80](2), field.New[field.P80](3)}

	p, err := prng.NewKeyed[field.P80](key)
	if err != nil {
		t.Fatal(err)
	}
	shares, err := SplitWith(p, in, 4)
	if err != nil {
		t.Fatal(err)
	}

	// Replay the stream: share-major, position-minor.
	ref, err := prng.NewKeyed[field.P80](key)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 4; i++ {
		for j := range in {
			want, err := ref.Next()
			if err != nil {
				t.Fatal(err)
			}
			if !shares[i][j].Equal(want) {
				t.Fatalf("share %d pos %d: got %v want %v", i, j, shares[i][j], want)
			}
		}
	}
	for j := range in {
		want := in[j]
		for i := 1; i < 4; i++ {
			want = want.Sub(shares[i][j])
		}
		if !shares[0][j].Equal(want) {
			t.Fatalf("share 0 pos %d: got %v want %v", j, shares[0][j], want)
		}
	}
}

func TestReconstructShares(t *testing.T) {
	share1 := VectorWithLength[field.P32](10)
	share1[3] = field.New[field.P32](21)
	share1[8] = field.New[field.P32](123)
	original := append([]field.Field32(nil), share1...)

	random, err := Rand[field.P32](len(share1))
	if err != nil {
		t.Fatal(err)
	}
	for i := range share1 {
		share1[i] = share1[i].Sub(random[i])
	}

	got, ok := ReconstructShares(share1, random)
	if !ok {
		t.Fatal("ReconstructShares reported a mismatch")
	}
	for i := range got {
		if !got[i].Equal(original[i]) {
			t.Fatalf("pos %d: got %v want %v", i, got[i], original[i])
		}
	}

	if got, ok := ReconstructShares(share1, random[:9]); ok || got != nil {
		t.Fatalf("mismatched lengths: got %v, %v", got, ok)
	}
}

func TestReconstructMismatch(t *testing.T) {
	shares := [][]field.Field32{VectorWithLength[field.P32](2), VectorWithLength[field.P32](3)}
	if _, err := Reconstruct(shares); !errors.Is(err, field.ErrInputSizeMismatch) {
		t.Fatalf("got %v", err)
	}
	if got, err := Reconstruct[field.P32](nil); got != nil || err != nil {
		t.Fatalf("empty: got %v, %v", got, err)
	}
}

func TestRandLength(t *testing.T) {
	v, err := Rand[field.P126](33)
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 33 {
		t.Fatalf("got %d elements", len(v))
	}
	empty, err := Rand[field.P126](0)
	if err != nil || len(empty) != 0 {
		t.Fatalf("Rand(0): %v, %v", empty, err)
	}
}
