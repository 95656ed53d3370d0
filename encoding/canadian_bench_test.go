package encoding

import (
	"math/rand"
	"testing"
)

func BenchmarkEncoder_Compress(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	samples := seismicSamples(rng, 4000)
	enc := NewEncoder(NewScratch(len(samples)))
	buf := make([]byte, 0, MaxCompressedSize(len(samples)))

	b.SetBytes(int64(len(samples) * 4))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var err error
		buf, err = enc.AppendCompress(buf[:0], samples, 0)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecompressInto(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	samples := seismicSamples(rng, 4000)
	data, err := Compress(samples, 0)
	if err != nil {
		b.Fatal(err)
	}
	out := make([]int32, len(samples))

	b.SetBytes(int64(len(samples) * 4))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := DecompressInto(out, data, len(samples)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSelectWidth(b *testing.B) {
	groups := [][4]int32{{0, 1, -1, 2}, {1 << 12, -3, 7, 0}, {1 << 28, 0, 0, -1}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SelectWidth(groups[i%len(groups)])
	}
}
