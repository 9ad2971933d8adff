package dsp

import (
	"math/cmplx"
	"time"
)

// SpectrumBins returns the number of non-negative frequency bins in
// the DFT of an n-point series: n/2 for even n, (n+1)/2 for odd n.
func SpectrumBins(n int) int {
	return (n + 1) / 2
}

// FrequencyAxis returns the non-negative DFT frequencies in Hz for an
// n-point series sampled at interval dt. The axis is strictly
// increasing and must be recomputed per capture since the spy buffer
// depth varies between reads.
func FrequencyAxis(n int, dt time.Duration) []float64 {
	bins := SpectrumBins(n)
	freq := make([]float64, bins)
	step := 1 / (float64(n) * dt.Seconds())
	for k := range freq {
		freq[k] = float64(k) * step
	}
	return freq
}

// PowerSpectrum computes the squared DFT magnitude of one channel's
// timestep series, keeping only the non-negative frequency bins. The
// zero bin carries the squared sum of the samples (DC power).
func PowerSpectrum(samples []uint16) []float64 {
	n := len(samples)
	if n == 0 {
		return nil
	}

	x := make([]complex128, n)
	for i, v := range samples {
		x[i] = complex(float64(v), 0)
	}

	spectrum := FFT(x)
	power := make([]float64, SpectrumBins(n))
	for k := range power {
		mag := cmplx.Abs(spectrum[k])
		power[k] = mag * mag
	}
	return power
}
