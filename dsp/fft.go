package dsp

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of x. Power-of-two
// lengths use the iterative radix-2 path directly; other lengths go
// through Bluestein's chirp-z reduction, so the spy buffer depth does
// not need to be a power of two.
func FFT(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}
	if n&(n-1) == 0 {
		return fftPow2(x)
	}
	return fftBluestein(x)
}

// fftPow2 is an iterative radix-2 Cooley-Tukey FFT. len(x) must be a
// power of two.
func fftPow2(x []complex128) []complex128 {
	n := len(x)

	// Bit-reversal permutation
	result := make([]complex128, n)
	bits := 0
	for temp := n; temp > 1; temp >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := 0
		for k := 0; k < bits; k++ {
			if i&(1<<k) != 0 {
				j |= 1 << (bits - 1 - k)
			}
		}
		result[j] = x[i]
	}

	for size := 2; size <= n; size *= 2 {
		halfSize := size / 2
		tableStep := n / size
		for i := 0; i < n; i += size {
			k := 0
			for j := i; j < i+halfSize; j++ {
				angle := -2 * math.Pi * float64(k) / float64(n)
				w := cmplx.Exp(complex(0, angle))

				t := result[j+halfSize] * w
				result[j+halfSize] = result[j] - t
				result[j] = result[j] + t
				k += tableStep
			}
		}
	}

	return result
}

// fftBluestein computes an arbitrary-length DFT as a circular
// convolution of chirp-modulated sequences, each a power-of-two FFT.
func fftBluestein(x []complex128) []complex128 {
	n := len(x)

	m := 1
	for m < 2*n-1 {
		m <<= 1
	}

	// chirp[k] = exp(-i*pi*k^2/n); the exponent is reduced mod 2n to
	// keep the angle small regardless of k.
	chirp := make([]complex128, n)
	for k := 0; k < n; k++ {
		kk := (k * k) % (2 * n)
		angle := -math.Pi * float64(kk) / float64(n)
		chirp[k] = cmplx.Exp(complex(0, angle))
	}

	a := make([]complex128, m)
	for k := 0; k < n; k++ {
		a[k] = x[k] * chirp[k]
	}

	b := make([]complex128, m)
	b[0] = cmplx.Conj(chirp[0])
	for k := 1; k < n; k++ {
		c := cmplx.Conj(chirp[k])
		b[k] = c
		b[m-k] = c
	}

	fa := fftPow2(a)
	fb := fftPow2(b)
	for i := range fa {
		fa[i] *= fb[i]
	}
	conv := ifftPow2(fa)

	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		out[k] = conv[k] * chirp[k]
	}
	return out
}

// ifftPow2 is the inverse of fftPow2, computed via conjugation.
func ifftPow2(x []complex128) []complex128 {
	n := len(x)
	tmp := make([]complex128, n)
	for i, v := range x {
		tmp[i] = cmplx.Conj(v)
	}
	tmp = fftPow2(tmp)
	inv := complex(1/float64(n), 0)
	for i, v := range tmp {
		tmp[i] = cmplx.Conj(v) * inv
	}
	return tmp
}
