// Package dsp provides the numeric transforms behind the diagnostic
// views: per-channel statistics, sample histograms, and power spectra.
// All functions are pure; inputs are never modified or retained.
package dsp

import "math"

// MeanStd returns the arithmetic mean and population standard
// deviation of samples. An empty slice yields (0, 0).
func MeanStd(samples []uint16) (mean, std float64) {
	if len(samples) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range samples {
		sum += float64(v)
	}
	mean = sum / float64(len(samples))

	var sq float64
	for _, v := range samples {
		d := float64(v) - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(samples)))
	return mean, std
}

// HistogramBins is the number of equal-width histogram bins, one per
// possible 14-bit ADC count.
const HistogramBins = 16384

// Histogram bins samples into HistogramBins unit-width bins over
// [0, HistogramBins). Values outside the range are dropped, matching
// the ADC contract that samples never exceed 14 bits.
func Histogram(samples []uint16) []int {
	counts := make([]int, HistogramBins)
	for _, v := range samples {
		if int(v) < HistogramBins {
			counts[v]++
		}
	}
	return counts
}
