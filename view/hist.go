package view

import (
	"fmt"

	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/dsp"
)

// histState is the derived state of one Load, replaced wholesale.
type histState struct {
	// counts[channel][bin] over the full ADC range.
	counts [][]float64
}

// HistView shows a channel x ADC-count sample histogram of the
// monitored FEMB as a heat map with a linear color scale.
type HistView struct {
	state *histState
}

// NewHistView creates an empty histogram view.
func NewHistView() *HistView {
	return &HistView{}
}

// Title implements View.
func (v *HistView) Title() string {
	return "Sample Histogram"
}

// Load implements View. Each channel's timestep values are binned
// into dsp.HistogramBins unit-width bins.
func (v *HistView) Load(c *daq.Capture) error {
	state := &histState{counts: make([][]float64, daq.NumChannels)}
	for ch := 0; ch < daq.NumChannels; ch++ {
		counts := dsp.Histogram(c.Channel(monitorFEMB, ch))
		row := make([]float64, len(counts))
		for i, n := range counts {
			row[i] = float64(n)
		}
		state.counts[ch] = row
	}
	v.state = state
	return nil
}

// Counts returns the channel x bin count matrix of the last capture,
// nil before the first Load.
func (v *HistView) Counts() [][]float64 {
	if v.state == nil {
		return nil
	}
	return v.state.counts
}

// Render implements View.
func (v *HistView) Render(width, height int) string {
	if v.state == nil {
		return placeholder
	}
	plot := heatmap(v.state.counts, width, height-1, false, func(frac float64) string {
		return fmt.Sprintf("%d", int(frac*float64(dsp.HistogramBins-1)))
	})
	return plot + "\n" + colorbar("0", "max")
}
