package fft

import (
	"math"
	"math/bits"
)

// Forward performs an in-place radix-2 decimation-in-frequency FFT.
//
// len(buf) must be a power of two; other lengths produce undefined results.
// The output is in natural (bit-reversal corrected) order and unscaled.
func Forward(buf []complex128) {
	n := len(buf)
	if n < 2 {
		return
	}

	theta := math.Pi / float64(n)
	phi := complex(math.Cos(theta), -math.Sin(theta))

	for span := n; span > 1; {
		step := span
		span >>= 1
		phi *= phi

		twiddle := complex(1, 0)
		for l := range span {
			for a := l; a < n; a += step {
				b := a + span
				t := buf[a] - buf[b]
				buf[a] += buf[b]
				buf[b] = t * twiddle
			}

			twiddle *= phi
		}
	}

	shift := 32 - Log2(n)
	for a := range n {
		b := int(bits.Reverse32(uint32(a)) >> shift)
		if b > a {
			buf[a], buf[b] = buf[b], buf[a]
		}
	}
}

// Inverse performs an in-place inverse FFT scaled by 1/len(buf).
//
// It conjugates, runs [Forward], conjugates again and divides by the length.
func Inverse(buf []complex128) {
	n := len(buf)
	if n == 0 {
		return
	}

	conjugate(buf)
	Forward(buf)

	scale := 1 / float64(n)
	for i, v := range buf {
		buf[i] = complex(real(v)*scale, -imag(v)*scale)
	}
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns floor(log2(n)) for n > 0 and 0 otherwise.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}

	return bits.Len(uint(n)) - 1
}

func conjugate(buf []complex128) {
	for i, v := range buf {
		buf[i] = complex(real(v), -imag(v))
	}
}
