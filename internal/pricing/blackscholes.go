// Package pricing implements closed-form Black-Scholes-Merton valuation
// of European call and put options.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned when a pricing input lies outside the
// model's domain.
var ErrInvalidParameter = errors.New("invalid parameter")

// stdNormal supplies Φ, the standard normal CDF.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Parameters are the five market/contract inputs to one valuation.
type Parameters struct {
	Spot       float64 `json:"spot"`       // current underlying price (S)
	Strike     float64 `json:"strike"`     // exercise price (X)
	Maturity   float64 `json:"maturity"`   // time to expiry in years (T)
	Rate       float64 `json:"rate"`       // continuously-compounded risk-free rate (R)
	Volatility float64 `json:"volatility"` // annualized volatility (V)
}

// Validate checks the model's domain: spot, strike, maturity and
// volatility must be strictly positive (the formula divides by V·√T and
// takes log(S/X)). The rate may take any sign. Zero volatility is
// rejected, not clamped.
func (p Parameters) Validate() error {
	switch {
	case p.Spot <= 0:
		return fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidParameter, p.Spot)
	case p.Strike <= 0:
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidParameter, p.Strike)
	case p.Maturity <= 0:
		return fmt.Errorf("%w: maturity must be positive, got %g", ErrInvalidParameter, p.Maturity)
	case p.Volatility <= 0:
		return fmt.Errorf("%w: volatility must be positive, got %g", ErrInvalidParameter, p.Volatility)
	}
	return nil
}

// PriceResult is the call/put pair produced by a single valuation.
// Both legs are non-negative; call ≤ spot and put ≤ strike·e^(−R·T).
type PriceResult struct {
	Call float64 `json:"call"`
	Put  float64 `json:"put"`
}

// Price values a European call and put under Black-Scholes-Merton:
//
//	d1   = (ln(S/X) + (R + V²/2)·T) / (V·√T)
//	d2   = d1 − V·√T
//	call = S·Φ(d1) − X·e^(−R·T)·Φ(d2)
//	put  = X·e^(−R·T)·Φ(−d2) − S·Φ(−d1)
//
// The result is deterministic for given Parameters. Invalid inputs fail
// with ErrInvalidParameter; there is no other failure mode.
func Price(p Parameters) (PriceResult, error) {
	if err := p.Validate(); err != nil {
		return PriceResult{}, err
	}

	sqrtT := math.Sqrt(p.Maturity)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*p.Maturity) /
		(p.Volatility * sqrtT)
	d2 := d1 - p.Volatility*sqrtT

	// Present value of the strike at expiry.
	discounted := p.Strike * math.Exp(-p.Rate*p.Maturity)

	return PriceResult{
		Call: p.Spot*stdNormal.CDF(d1) - discounted*stdNormal.CDF(d2),
		Put:  discounted*stdNormal.CDF(-d2) - p.Spot*stdNormal.CDF(-d1),
	}, nil
}
