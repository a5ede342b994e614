// Package session holds the mutable input state for one pricing
// session and turns input changes into fresh snapshots.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/volsurf/volsurf/internal/pricing"
	"github.com/volsurf/volsurf/internal/surface"
	"github.com/volsurf/volsurf/pkg/models"
)

// Session is one user's pricing state. Every successful recompute
// bumps the revision; a failed update leaves inputs, snapshot and
// revision exactly as they were. All methods are safe for concurrent
// use.
type Session struct {
	mu       sync.Mutex
	defaults models.Inputs
	inputs   models.Inputs
	workers  int
	revision uint64
	last     *models.Snapshot
}

// New creates a session starting from defaults. workers controls how
// many surface rows are evaluated concurrently; values below 2 mean
// serial evaluation.
func New(defaults models.Inputs, workers int) *Session {
	return &Session{
		defaults: defaults,
		inputs:   defaults,
		workers:  workers,
	}
}

// Inputs returns the current input state.
func (s *Session) Inputs() models.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// Snapshot returns the latest snapshot, computing one first if the
// session has not priced anything yet.
func (s *Session) Snapshot() (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil {
		return s.last, nil
	}
	return s.commit(s.inputs)
}

// Apply patches the current inputs with u and recomputes everything.
// If the patched inputs fail validation the session keeps its
// previous state and the error is returned to the caller.
func (s *Session) Apply(u models.InputUpdate) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(s.inputs.Apply(u))
}

// Reset restores the configured defaults and recomputes.
func (s *Session) Reset() (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(s.defaults)
}

// commit prices in and, only on success, makes it the current state.
// Callers must hold s.mu.
func (s *Session) commit(in models.Inputs) (*models.Snapshot, error) {
	snap, err := compute(in, s.workers, s.revision+1)
	if err != nil {
		return nil, err
	}
	s.inputs = in
	s.revision = snap.Revision
	s.last = snap
	return snap, nil
}

// compute prices the single quote and both surfaces for in.
func compute(in models.Inputs, workers int, revision uint64) (*models.Snapshot, error) {
	quote, err := pricing.Price(pricing.Parameters{
		Spot:       in.Spot,
		Strike:     in.Strike,
		Maturity:   in.Maturity,
		Rate:       in.Rate,
		Volatility: in.Volatility,
	})
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	spec := surface.GridSpec{
		Spot: surface.Range{Min: in.SpotMin, Max: in.SpotMax, Samples: in.SpotSamples},
		Vol:  surface.Range{Min: in.VolMin, Max: in.VolMax, Samples: in.VolSamples},
	}
	fixed := surface.FixedParams{
		Strike:   in.Strike,
		Maturity: in.Maturity,
		Rate:     in.Rate,
	}
	grid, err := surface.EvaluateParallel(spec, fixed, workers)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}

	return &models.Snapshot{
		Revision: revision,
		Inputs:   in,
		Quote: models.PriceQuote{
			Spot:       in.Spot,
			Strike:     in.Strike,
			Maturity:   in.Maturity,
			Rate:       in.Rate,
			Volatility: in.Volatility,
			Call:       quote.Call,
			Put:        quote.Put,
		},
		Surface: models.SurfaceData{
			AxisSpot:   grid.AxisSpot,
			AxisVol:    grid.AxisVol,
			SpotLabels: grid.SpotLabels(in.Precision),
			VolLabels:  grid.VolLabels(in.Precision),
			Call:       grid.Call,
			Put:        grid.Put,
		},
		ComputedAt: time.Now().UTC(),
	}, nil
}
