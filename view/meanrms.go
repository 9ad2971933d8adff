package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/dsp"
)

var (
	meanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	rmsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// meanRMSState is the derived state of one Load, replaced wholesale.
type meanRMSState struct {
	mean []float64
	rms  []float64
}

// MeanRMSView shows the per-channel mean and RMS of the monitored
// FEMB as two step series against channel number.
type MeanRMSView struct {
	state *meanRMSState
}

// NewMeanRMSView creates an empty mean/RMS view.
func NewMeanRMSView() *MeanRMSView {
	return &MeanRMSView{}
}

// Title implements View.
func (v *MeanRMSView) Title() string {
	return "Mean / RMS"
}

// Load implements View. Mean is the arithmetic mean and RMS the
// population standard deviation over the timestep axis.
func (v *MeanRMSView) Load(c *daq.Capture) error {
	state := &meanRMSState{
		mean: make([]float64, daq.NumChannels),
		rms:  make([]float64, daq.NumChannels),
	}
	for ch := 0; ch < daq.NumChannels; ch++ {
		state.mean[ch], state.rms[ch] = dsp.MeanStd(c.Channel(monitorFEMB, ch))
	}
	v.state = state
	return nil
}

// Mean returns the per-channel mean of the last capture, nil before
// the first Load.
func (v *MeanRMSView) Mean() []float64 {
	if v.state == nil {
		return nil
	}
	return v.state.mean
}

// RMS returns the per-channel RMS of the last capture, nil before the
// first Load.
func (v *MeanRMSView) RMS() []float64 {
	if v.state == nil {
		return nil
	}
	return v.state.rms
}

// Render implements View. The pane is split into a mean chart on top
// and an RMS chart underneath, sharing the channel axis.
func (v *MeanRMSView) Render(width, height int) string {
	if v.state == nil {
		return placeholder
	}
	if width < 10 || height < 6 {
		return ""
	}

	half := (height - 1) / 2
	top := stepChart(v.state.mean, width, half, meanStyle, "mean")
	bottom := stepChart(v.state.rms, width, height-1-half, rmsStyle, "rms")
	legend := meanStyle.Render("- mean ADC") + "  " + rmsStyle.Render("- RMS ADC")

	return top + "\n" + bottom + "\n" + legend
}

// stepChart renders one series as a block-character column chart with
// min/max labels on the left.
func stepChart(series []float64, width, height int, style lipgloss.Style, label string) string {
	const labelWidth = 7
	plotW := width - labelWidth
	if plotW < 4 || height < 2 {
		return ""
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	// One column per screen cell; channels reduce by mean within the
	// column so a flat series stays flat.
	cols := make([]float64, plotW)
	for x := 0; x < plotW; x++ {
		c0, c1 := spanOf(x, plotW, len(series))
		sum := 0.0
		for i := c0; i < c1; i++ {
			sum += series[i]
		}
		cols[x] = sum / float64(c1-c0)
	}

	blocks := []rune(" ▁▂▃▄▅▆▇█")
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, plotW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}
	for x, val := range cols {
		// Total fill in eighths over the full column height.
		frac := (val - lo) / span
		eighths := int(frac*float64(height*8) + 0.5)
		for y := 0; y < height; y++ {
			if eighths >= 8 {
				grid[y][x] = '█'
				eighths -= 8
			} else if eighths > 0 {
				grid[y][x] = blocks[eighths]
				eighths = 0
			}
		}
	}

	var b strings.Builder
	for y := height - 1; y >= 0; y-- {
		edge := ""
		switch y {
		case height - 1:
			edge = fmt.Sprintf("%.1f", hi)
		case 0:
			edge = fmt.Sprintf("%.1f", lo)
		case height / 2:
			edge = label
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s|", labelWidth-1, edge)))
		b.WriteString(style.Render(string(grid[y])))
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
