// Package models defines the data types shared between the pricing
// core, the session layer, the HTTP/WS API and the CLI.
package models

// Inputs is the complete set of user-adjustable values for one
// session: the five pricing parameters, both grid ranges with their
// sample counts, and the axis label precision. It mirrors the state an
// interactive front end holds between recomputes.
type Inputs struct {
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Maturity   float64 `json:"maturity"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`

	SpotMin     float64 `json:"spot_min"`
	SpotMax     float64 `json:"spot_max"`
	SpotSamples int     `json:"spot_samples"`
	VolMin      float64 `json:"vol_min"`
	VolMax      float64 `json:"vol_max"`
	VolSamples  int     `json:"vol_samples"`

	Precision int `json:"precision"`
}

// InputUpdate is a partial patch of Inputs. Only non-nil fields are
// applied, so a single widget change maps to a single set field.
type InputUpdate struct {
	Spot       *float64 `json:"spot,omitempty"`
	Strike     *float64 `json:"strike,omitempty"`
	Maturity   *float64 `json:"maturity,omitempty"`
	Rate       *float64 `json:"rate,omitempty"`
	Volatility *float64 `json:"volatility,omitempty"`

	SpotMin     *float64 `json:"spot_min,omitempty"`
	SpotMax     *float64 `json:"spot_max,omitempty"`
	SpotSamples *int     `json:"spot_samples,omitempty"`
	VolMin      *float64 `json:"vol_min,omitempty"`
	VolMax      *float64 `json:"vol_max,omitempty"`
	VolSamples  *int     `json:"vol_samples,omitempty"`

	Precision *int `json:"precision,omitempty"`
}

// IsZero reports whether the update patches nothing.
func (u InputUpdate) IsZero() bool {
	return u.Spot == nil && u.Strike == nil && u.Maturity == nil &&
		u.Rate == nil && u.Volatility == nil &&
		u.SpotMin == nil && u.SpotMax == nil && u.SpotSamples == nil &&
		u.VolMin == nil && u.VolMax == nil && u.VolSamples == nil &&
		u.Precision == nil
}

// Apply returns a copy of in with every set field of u written over
// it. The receiver is not modified.
func (in Inputs) Apply(u InputUpdate) Inputs {
	if u.Spot != nil {
		in.Spot = *u.Spot
	}
	if u.Strike != nil {
		in.Strike = *u.Strike
	}
	if u.Maturity != nil {
		in.Maturity = *u.Maturity
	}
	if u.Rate != nil {
		in.Rate = *u.Rate
	}
	if u.Volatility != nil {
		in.Volatility = *u.Volatility
	}
	if u.SpotMin != nil {
		in.SpotMin = *u.SpotMin
	}
	if u.SpotMax != nil {
		in.SpotMax = *u.SpotMax
	}
	if u.SpotSamples != nil {
		in.SpotSamples = *u.SpotSamples
	}
	if u.VolMin != nil {
		in.VolMin = *u.VolMin
	}
	if u.VolMax != nil {
		in.VolMax = *u.VolMax
	}
	if u.VolSamples != nil {
		in.VolSamples = *u.VolSamples
	}
	if u.Precision != nil {
		in.Precision = *u.Precision
	}
	return in
}
