package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// heatRamp is the low-to-high intensity palette for heat map cells.
// Roughly viridis: dark purple through teal to yellow.
var heatRamp = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#440154")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#46327E")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#365C8D")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#277F8E")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#1FA187")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#4AC16D")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#A0DA39")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#FDE725")),
}

var axisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

// heatmap renders a grid of non-negative values as a colored cell
// plot. Rows of the grid map to x (one column group per screen
// column), columns of the grid map to y bottom-up. Cells reduce by
// max so narrow peaks survive downsampling. With logScale, intensity
// is log10-compressed before normalization.
func heatmap(grid [][]float64, width, height int, logScale bool, yLabel func(frac float64) string) string {
	if width < 8 || height < 3 || len(grid) == 0 {
		return ""
	}

	const labelWidth = 7
	plotW := width - labelWidth
	plotH := height - 1 // bottom row for x axis

	cells := make([][]float64, plotW)
	rows := len(grid)
	cols := len(grid[0])

	peak := 0.0
	for x := 0; x < plotW; x++ {
		cells[x] = make([]float64, plotH)
		r0, r1 := spanOf(x, plotW, rows)
		for y := 0; y < plotH; y++ {
			c0, c1 := spanOf(y, plotH, cols)
			m := 0.0
			for r := r0; r < r1; r++ {
				for c := c0; c < c1; c++ {
					if grid[r][c] > m {
						m = grid[r][c]
					}
				}
			}
			cells[x][y] = m
			if m > peak {
				peak = m
			}
		}
	}

	norm := func(v float64) float64 {
		if peak <= 0 {
			return 0
		}
		if logScale {
			// Floor at 1 so empty cells stay at zero intensity.
			if v < 1 {
				return 0
			}
			return math.Log10(v+1) / math.Log10(peak+1)
		}
		return v / peak
	}

	var b strings.Builder
	for y := plotH - 1; y >= 0; y-- {
		label := ""
		if yLabel != nil && (y == plotH-1 || y == 0 || y == plotH/2) {
			label = yLabel(float64(y) / float64(plotH-1))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", labelWidth-1, label)))
		b.WriteString(axisStyle.Render("|"))
		for x := 0; x < plotW; x++ {
			f := norm(cells[x][y])
			if f <= 0 {
				b.WriteByte(' ')
				continue
			}
			idx := int(f * float64(len(heatRamp)))
			if idx >= len(heatRamp) {
				idx = len(heatRamp) - 1
			}
			b.WriteString(heatRamp[idx].Render("█"))
		}
		b.WriteByte('\n')
	}

	// x axis: channel numbers at the extremes.
	left := fmt.Sprintf("%*s+0", labelWidth-2, "")
	right := fmt.Sprintf("%d", rows-1)
	pad := plotW - len(right) - 1
	if pad < 0 {
		pad = 0
	}
	b.WriteString(axisStyle.Render(left + strings.Repeat("-", pad) + right))

	return b.String()
}

// colorbar renders a one-line legend from low to high intensity.
func colorbar(low, high string) string {
	var b strings.Builder
	b.WriteString(axisStyle.Render(low + " "))
	for _, s := range heatRamp {
		b.WriteString(s.Render("█"))
	}
	b.WriteString(axisStyle.Render(" " + high))
	return b.String()
}

// spanOf maps screen cell i of n onto a half-open index range over
// total elements. Every element lands in exactly one span.
func spanOf(i, n, total int) (int, int) {
	lo := i * total / n
	hi := (i + 1) * total / n
	if hi <= lo {
		hi = lo + 1
	}
	if hi > total {
		hi = total
	}
	return lo, hi
}
