// Package render draws quotes and price surfaces as terminal output,
// with optional ANSI 256-color heatmap shading.
package render

import (
	"fmt"
	"strings"

	"github.com/volsurf/volsurf/pkg/models"
	"github.com/volsurf/volsurf/pkg/utils"
)

// HeatmapConfig holds rendering parameters for terminal heatmaps.
type HeatmapConfig struct {
	Title     string
	CellWidth int  // characters per cell (default: 8)
	Precision int  // decimals per cell value (default: 2)
	Color     bool // shade cell backgrounds with ANSI 256 colors
}

// DefaultHeatmapConfig returns sensible defaults for heatmap rendering.
func DefaultHeatmapConfig() HeatmapConfig {
	return HeatmapConfig{
		CellWidth: 8,
		Precision: 2,
		Color:     true,
	}
}

// Heatmap renders one value matrix as a text grid. Rows follow the
// volatility axis and are printed top-down from the highest
// volatility, so the vertical axis increases upward like a chart.
// Cells are shaded on a red (low) through yellow to green (high) ramp
// scaled to the matrix's own value range.
func Heatmap(matrix [][]float64, volLabels, spotLabels []string, cfg HeatmapConfig) string {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return ""
	}

	cw := cfg.CellWidth
	if cw <= 0 {
		cw = DefaultHeatmapConfig().CellWidth
	}
	prec := cfg.Precision
	if prec < 0 {
		prec = 0
	}

	// Value range for color scaling
	minVal, maxVal := matrix[0][0], matrix[0][0]
	for _, row := range matrix {
		for _, v := range row {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	valRange := maxVal - minVal

	labelW := 0
	for _, l := range volLabels {
		if len(l) > labelW {
			labelW = len(l)
		}
	}

	var sb strings.Builder

	if cfg.Title != "" {
		sb.WriteString(fmt.Sprintf("  %*s  %s\n", labelW, "", cfg.Title))
	}

	for i := len(matrix) - 1; i >= 0; i-- {
		label := ""
		if i < len(volLabels) {
			label = volLabels[i]
		}
		sb.WriteString(fmt.Sprintf("  %*s │", labelW, label))

		for _, v := range matrix[i] {
			cell := fmt.Sprintf(" %*s", cw, fmt.Sprintf("%.*f", prec, v))
			if cfg.Color {
				t := 0.5
				if valRange > 0 {
					t = (v - minVal) / valRange
				}
				sb.WriteString(fmt.Sprintf("\x1b[48;5;%dm\x1b[30m%s\x1b[0m", rampColor(t), cell))
			} else {
				sb.WriteString(cell)
			}
		}
		sb.WriteByte('\n')
	}

	// Bottom axis rule and spot labels
	sb.WriteString(fmt.Sprintf("  %*s └%s\n", labelW, "", strings.Repeat("─", (cw+1)*len(matrix[0]))))
	sb.WriteString(fmt.Sprintf("  %*s  ", labelW, ""))
	for _, l := range spotLabels {
		sb.WriteString(fmt.Sprintf(" %*s", cw, l))
	}
	sb.WriteByte('\n')

	return sb.String()
}

// rampColor maps t in [0, 1] to an ANSI 256 color cube code on a
// red to yellow to green ramp.
func rampColor(t float64) int {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var r, g int
	if t < 0.5 {
		r = 5
		g = int(t*10 + 0.5)
	} else {
		r = int((1-t)*10 + 0.5)
		g = 5
	}
	return 16 + 36*r + 6*g
}

// Summary renders the parameter table and headline quote for one
// snapshot.
func Summary(snap *models.Snapshot) string {
	in := snap.Inputs

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  Spot        %.2f\n", in.Spot))
	sb.WriteString(fmt.Sprintf("  Strike      %.2f\n", in.Strike))
	sb.WriteString(fmt.Sprintf("  Maturity    %s\n", utils.FormatYears(in.Maturity)))
	sb.WriteString(fmt.Sprintf("  Rate        %s\n", utils.FormatPct(in.Rate)))
	sb.WriteString(fmt.Sprintf("  Volatility  %s\n", utils.FormatPct(in.Volatility)))
	sb.WriteByte('\n')
	sb.WriteString(fmt.Sprintf("  📈 Call  %s    📉 Put  %s\n",
		utils.FormatUSD(snap.Quote.Call), utils.FormatUSD(snap.Quote.Put)))
	return sb.String()
}

// Surfaces renders both heatmaps of a snapshot, call above put.
func Surfaces(snap *models.Snapshot, cfg HeatmapConfig) string {
	cfg.Precision = snap.Inputs.Precision

	call := cfg
	call.Title = "Call Price Surface"
	put := cfg
	put.Title = "Put Price Surface"

	var sb strings.Builder
	sb.WriteString(Heatmap(snap.Surface.Call, snap.Surface.VolLabels, snap.Surface.SpotLabels, call))
	sb.WriteByte('\n')
	sb.WriteString(Heatmap(snap.Surface.Put, snap.Surface.VolLabels, snap.Surface.SpotLabels, put))
	return sb.String()
}
