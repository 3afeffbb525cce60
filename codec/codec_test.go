package codec

import (
	"errors"
	"testing"

	"prio-field/field"
	"prio-field/proof"
	"prio-field/share"
)

func TestSerializeRoundTrip(t *testing.T) {
	v, err := share.Rand[field.P80](17)
	if err != nil {
		t.Fatal(err)
	}
	b := Serialize(v)
	if len(b) != 8+17*10 {
		t.Fatalf("encoded %d bytes", len(b))
	}
	got, err := Deserialize[field.P80](b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(v) {
		t.Fatalf("got %d elements want %d", len(got), len(v))
	}
	for i := range v {
		if !got[i].Equal(v[i]) {
			t.Fatalf("pos %d: got %v want %v", i, got[i], v[i])
		}
	}

	empty, err := Deserialize[field.P80](Serialize([]field.Field80{}))
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty: %v, %v", empty, err)
	}
}

func TestDeserializeErrors(t *testing.T) {
	v := []field.Field32{field.New[field.P32](1), field.New[field.P32](2)}
	b := Serialize(v)

	if _, err := Deserialize[field.P32](b[:5]); !errors.Is(err, proof.ErrIncompleteChunk) {
		t.Fatalf("short header: got %v", err)
	}
	if _, err := Deserialize[field.P32](b[:len(b)-1]); !errors.Is(err, proof.ErrIncompleteChunk) {
		t.Fatalf("short chunk: got %v", err)
	}
	var se *proof.SerializeError
	if _, err := Deserialize[field.P32](append(b, 0)); !errors.As(err, &se) {
		t.Fatalf("trailing byte: got %v", err)
	}

	bad := append([]byte(nil), b...)
	copy(bad[8:], []byte{0xff, 0xff, 0xff, 0xff})
	if _, err := Deserialize[field.P32](bad); !errors.Is(err, field.ErrFromBytesModulusOverflow) {
		t.Fatalf("non-canonical element: got %v", err)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	v, err := share.Rand[field.P126](5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalCBOR(v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalCBOR[field.P126](b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range v {
		if !got[i].Equal(v[i]) {
			t.Fatalf("pos %d: got %v want %v", i, got[i], v[i])
		}
	}
}

func TestCBORRejectsWidthMismatch(t *testing.T) {
	b, err := MarshalCBOR([]field.Field64{field.New[field.P64](7)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalCBOR[field.P32](b); !errors.Is(err, field.ErrInputSizeMismatch) {
		t.Fatalf("got %v", err)
	}
	if _, err := UnmarshalCBOR[field.P64]([]byte{0xff}); err == nil {
		t.Fatal("accepted garbage")
	}
}
