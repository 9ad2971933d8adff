package view

import (
	"fmt"

	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/dsp"
)

// spectrumState is the derived state of one Load, replaced wholesale.
type spectrumState struct {
	// power[channel][bin] squared DFT magnitude over non-negative
	// frequencies.
	power [][]float64
	// freq is the axis in Hz, recomputed per capture.
	freq []float64
}

// SpectrumView shows a channel x frequency power spectrum of the
// monitored FEMB as a heat map with a logarithmic color scale.
type SpectrumView struct {
	state *spectrumState
}

// NewSpectrumView creates an empty spectrum view.
func NewSpectrumView() *SpectrumView {
	return &SpectrumView{}
}

// Title implements View.
func (v *SpectrumView) Title() string {
	return "Power Spectrum"
}

// Load implements View. The frequency axis depends on the capture's
// timestep count, so it is rebuilt on every load rather than cached.
func (v *SpectrumView) Load(c *daq.Capture) error {
	state := &spectrumState{
		power: make([][]float64, daq.NumChannels),
		freq:  dsp.FrequencyAxis(c.NumSamples, daq.SampleInterval),
	}
	for ch := 0; ch < daq.NumChannels; ch++ {
		state.power[ch] = dsp.PowerSpectrum(c.Channel(monitorFEMB, ch))
	}
	v.state = state
	return nil
}

// Power returns the channel x frequency power matrix of the last
// capture, nil before the first Load.
func (v *SpectrumView) Power() [][]float64 {
	if v.state == nil {
		return nil
	}
	return v.state.power
}

// Frequencies returns the frequency axis in Hz of the last capture,
// nil before the first Load.
func (v *SpectrumView) Frequencies() []float64 {
	if v.state == nil {
		return nil
	}
	return v.state.freq
}

// Render implements View.
func (v *SpectrumView) Render(width, height int) string {
	if v.state == nil {
		return placeholder
	}
	maxKHz := v.state.freq[len(v.state.freq)-1] / 1000
	plot := heatmap(v.state.power, width, height-1, true, func(frac float64) string {
		return fmt.Sprintf("%.0fk", frac*maxKHz)
	})
	return plot + "\n" + colorbar("1", "max (log)")
}
