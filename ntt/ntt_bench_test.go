package ntt

import (
	"testing"

	"prio-field/field"
)

func BenchmarkForwardInverse(b *testing.B) {
	v := make([]field.Field64, 512)
	for i := range v {
		v[i] = field.New[field.P64](uint64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, _ := Forward(v)
		v, _ = Inverse(f)
	}
}

func BenchmarkPolyMul126(b *testing.B) {
	a := make([]field.Field126, 256)
	c := make([]field.Field126, 256)
	for i := range a {
		a[i] = field.New[field.P126](uint64(i + 1))
		c[i] = field.New[field.P126](uint64(3*i + 7))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = PolyMul(a, c)
	}
}
