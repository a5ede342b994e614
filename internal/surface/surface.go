// Package surface evaluates option price surfaces over rectangular
// (spot, volatility) grids.
package surface

import (
	"errors"
	"fmt"

	"github.com/volsurf/volsurf/internal/pricing"
	"github.com/volsurf/volsurf/pkg/utils"
)

// ErrInvalidGridSpec is returned when a grid range or a fixed parameter
// fails validation. Validation runs once, before any cell is priced.
var ErrInvalidGridSpec = errors.New("invalid grid spec")

// Range describes one grid axis: Samples evenly spaced values from Min
// to Max inclusive. Equal bounds collapse the axis to a repeated single
// value, which is degenerate but valid.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

// Values expands the range into its sample points:
// v_i = min + i·(max−min)/(samples−1). A single-sample range yields just
// Min; the endpoint is set exactly. Returns nil when Samples < 1.
func (r Range) Values() []float64 {
	if r.Samples < 1 {
		return nil
	}
	vals := make([]float64, r.Samples)
	if r.Samples == 1 {
		vals[0] = r.Min
		return vals
	}
	step := (r.Max - r.Min) / float64(r.Samples-1)
	for i := range vals {
		vals[i] = r.Min + float64(i)*step
	}
	vals[r.Samples-1] = r.Max
	return vals
}

func (r Range) validate(axis string) error {
	switch {
	case r.Min <= 0:
		return fmt.Errorf("%w: %s min must be positive, got %g", ErrInvalidGridSpec, axis, r.Min)
	case r.Max < r.Min:
		return fmt.Errorf("%w: %s min %g exceeds max %g", ErrInvalidGridSpec, axis, r.Min, r.Max)
	case r.Samples < 1:
		return fmt.Errorf("%w: %s samples must be at least 1, got %d", ErrInvalidGridSpec, axis, r.Samples)
	}
	return nil
}

// GridSpec describes the full grid: a spot axis and a volatility axis.
type GridSpec struct {
	Spot Range `json:"spot"`
	Vol  Range `json:"vol"`
}

// Validate checks both axes. Spot and volatility samples must stay
// strictly positive, so each axis requires Min > 0.
func (s GridSpec) Validate() error {
	if err := s.Spot.validate("spot"); err != nil {
		return err
	}
	return s.Vol.validate("vol")
}

// FixedParams are the pricing inputs held constant across the grid. The
// rate carries no sign restriction.
type FixedParams struct {
	Strike   float64 `json:"strike"`
	Maturity float64 `json:"maturity"`
	Rate     float64 `json:"rate"`
}

func (f FixedParams) validate() error {
	switch {
	case f.Strike <= 0:
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidGridSpec, f.Strike)
	case f.Maturity <= 0:
		return fmt.Errorf("%w: maturity must be positive, got %g", ErrInvalidGridSpec, f.Maturity)
	}
	return nil
}

// GridResult holds one evaluation batch: both axes plus the call and
// put matrices. Matrices are len(AxisVol) × len(AxisSpot), indexed
// [volIndex][spotIndex]. A result is recomputed fresh on every
// parameter change and carries no state beyond the call that built it.
type GridResult struct {
	AxisSpot []float64   `json:"axis_spot"`
	AxisVol  []float64   `json:"axis_vol"`
	Call     [][]float64 `json:"call"`
	Put      [][]float64 `json:"put"`
}

// SpotLabels formats the spot axis for display at the given precision.
func (g *GridResult) SpotLabels(decimals int) []string {
	return utils.FormatAxisLabels(g.AxisSpot, decimals)
}

// VolLabels formats the volatility axis for display at the given precision.
func (g *GridResult) VolLabels(decimals int) []string {
	return utils.FormatAxisLabels(g.AxisVol, decimals)
}

// Evaluate prices every (spot, vol) combination of the grid with the
// fixed strike, maturity and rate, producing comparable call and put
// matrices. The spec and fixed parameters are validated up front; on
// any violation the whole call fails with ErrInvalidGridSpec and no
// matrix is built. Cells are mutually independent.
func Evaluate(spec GridSpec, fixed FixedParams) (*GridResult, error) {
	if err := validateGrid(spec, fixed); err != nil {
		return nil, err
	}
	res := newGridResult(spec)
	for i, vol := range res.AxisVol {
		if err := fillRow(res, i, vol, fixed); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func validateGrid(spec GridSpec, fixed FixedParams) error {
	if err := fixed.validate(); err != nil {
		return err
	}
	return spec.Validate()
}

func newGridResult(spec GridSpec) *GridResult {
	res := &GridResult{
		AxisSpot: spec.Spot.Values(),
		AxisVol:  spec.Vol.Values(),
	}
	res.Call = make([][]float64, len(res.AxisVol))
	res.Put = make([][]float64, len(res.AxisVol))
	for i := range res.AxisVol {
		res.Call[i] = make([]float64, len(res.AxisSpot))
		res.Put[i] = make([]float64, len(res.AxisSpot))
	}
	return res
}

// fillRow prices one volatility row across the whole spot axis. Rows
// touch disjoint slices, so concurrent calls on distinct rows are safe.
func fillRow(res *GridResult, i int, vol float64, fixed FixedParams) error {
	for j, spot := range res.AxisSpot {
		pr, err := pricing.Price(pricing.Parameters{
			Spot:       spot,
			Strike:     fixed.Strike,
			Maturity:   fixed.Maturity,
			Rate:       fixed.Rate,
			Volatility: vol,
		})
		if err != nil {
			// All samples are positive by construction, so this
			// indicates the grid and the model disagree on the domain.
			return fmt.Errorf("grid cell [%d][%d] (spot=%g, vol=%g): %w", i, j, spot, vol, err)
		}
		res.Call[i][j] = pr.Call
		res.Put[i][j] = pr.Put
	}
	return nil
}
