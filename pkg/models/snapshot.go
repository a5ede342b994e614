package models

import "time"

// PriceQuote pairs computed call and put values with the parameters
// that produced them.
type PriceQuote struct {
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Maturity   float64 `json:"maturity"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
	Call       float64 `json:"call"`
	Put        float64 `json:"put"`
}

// SurfaceData is a render-ready price surface: the numeric axes, the
// axis labels at the requested precision, and both matrices indexed
// [volatility][spot].
type SurfaceData struct {
	AxisSpot   []float64   `json:"axis_spot"`
	AxisVol    []float64   `json:"axis_vol"`
	SpotLabels []string    `json:"spot_labels"`
	VolLabels  []string    `json:"vol_labels"`
	Call       [][]float64 `json:"call"`
	Put        [][]float64 `json:"put"`
}

// Snapshot is the result of one full recompute: the inputs it was
// computed from, the headline quote, both surfaces and a monotonic
// session revision.
type Snapshot struct {
	Revision   uint64      `json:"revision"`
	Inputs     Inputs      `json:"inputs"`
	Quote      PriceQuote  `json:"quote"`
	Surface    SurfaceData `json:"surface"`
	ComputedAt time.Time   `json:"computed_at"`
}
