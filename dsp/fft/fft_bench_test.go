package fft

import "testing"

func benchmarkRoundTrip(b *testing.B, n int) {
	buf := randomComplex(1, n)

	b.ResetTimer()

	for range b.N {
		Forward(buf)
		Inverse(buf)
	}
}

func BenchmarkRoundTrip1024(b *testing.B) { benchmarkRoundTrip(b, 1024) }

func BenchmarkRoundTrip4096(b *testing.B) { benchmarkRoundTrip(b, 4096) }
