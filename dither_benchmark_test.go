package dither

import (
	"context"
	"testing"
)

const (
	benchWidth  = 1024
	benchHeight = 768
)

func benchmarkDitherer(b *testing.B, d Ditherer) {
	src := gradient(benchWidth, benchHeight)
	r := src.Clone()

	b.SetBytes(int64(len(src.Pix)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(r.Pix, src.Pix)
		if err := d.Dither(r, DefaultBiLevel); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFloydSteinberg(b *testing.B) {
	benchmarkDitherer(b, ErrorDiffuser{Kernel: FloydSteinbergKernel})
}

func BenchmarkAtkinson(b *testing.B) {
	benchmarkDitherer(b, ErrorDiffuser{Kernel: AtkinsonKernel})
}

func BenchmarkSierraLite(b *testing.B) {
	benchmarkDitherer(b, ErrorDiffuser{Kernel: SierraLiteKernel})
}

func BenchmarkBayer(b *testing.B) {
	benchmarkDitherer(b, Ordered{Matrix: Bayer8x8, Workers: 1})
}

func BenchmarkBayerParallel(b *testing.B) {
	benchmarkDitherer(b, Ordered{Matrix: Bayer8x8})
}

func BenchmarkRandom(b *testing.B) {
	benchmarkDitherer(b, Random{Seed: 1})
}

func BenchmarkSuite(b *testing.B) {
	src := gradient(benchWidth, benchHeight)
	suite := NewSuite(DefaultBiLevel, Options{Seed: 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := suite.Run(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}
