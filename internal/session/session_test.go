package session

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/volsurf/volsurf/internal/pricing"
	"github.com/volsurf/volsurf/internal/surface"
	"github.com/volsurf/volsurf/pkg/models"
)

func f64(v float64) *float64 { return &v }

func testDefaults() models.Inputs {
	return models.Inputs{
		Spot:       100,
		Strike:     100,
		Maturity:   1,
		Rate:       0.05,
		Volatility: 0.2,

		SpotMin:     80,
		SpotMax:     120,
		SpotSamples: 10,
		VolMin:      0.1,
		VolMax:      0.3,
		VolSamples:  10,

		Precision: 2,
	}
}

func TestSessionInitialSnapshot(t *testing.T) {
	s := New(testDefaults(), 1)

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.Revision != 1 {
		t.Errorf("Revision: got %d, want 1", snap.Revision)
	}
	if math.Abs(snap.Quote.Call-10.4506) > 0.01 {
		t.Errorf("Quote.Call: got %f, want ~10.45", snap.Quote.Call)
	}
	if math.Abs(snap.Quote.Put-5.5735) > 0.01 {
		t.Errorf("Quote.Put: got %f, want ~5.57", snap.Quote.Put)
	}
	if len(snap.Surface.Call) != 10 || len(snap.Surface.Call[0]) != 10 {
		t.Errorf("surface shape: got %dx%d, want 10x10",
			len(snap.Surface.Call), len(snap.Surface.Call[0]))
	}
	if snap.Surface.SpotLabels[0] != "80.00" || snap.Surface.VolLabels[0] != "0.10" {
		t.Errorf("labels: got %q / %q", snap.Surface.SpotLabels[0], snap.Surface.VolLabels[0])
	}
	if snap.ComputedAt.IsZero() {
		t.Error("ComputedAt should be set")
	}

	// A second call returns the cached snapshot, no recompute.
	again, err := s.Snapshot()
	if err != nil {
		t.Fatalf("second Snapshot() error: %v", err)
	}
	if again != snap {
		t.Error("Snapshot() should return the cached snapshot")
	}
}

func TestSessionApply(t *testing.T) {
	s := New(testDefaults(), 1)
	if _, err := s.Snapshot(); err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}

	snap, err := s.Apply(models.InputUpdate{Spot: f64(110)})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if snap.Revision != 2 {
		t.Errorf("Revision: got %d, want 2", snap.Revision)
	}
	if snap.Inputs.Spot != 110 {
		t.Errorf("Inputs.Spot: got %g, want 110", snap.Inputs.Spot)
	}
	if snap.Quote.Spot != 110 {
		t.Errorf("Quote.Spot: got %g, want 110", snap.Quote.Spot)
	}

	// Raising spot with strike fixed makes the call worth more.
	if snap.Quote.Call <= 10.46 {
		t.Errorf("Quote.Call after spot bump: got %f, want > 10.46", snap.Quote.Call)
	}
	if got := s.Inputs().Spot; got != 110 {
		t.Errorf("session inputs: got spot %g, want 110", got)
	}
}

func TestSessionApplyInvalidParameterKeepsState(t *testing.T) {
	s := New(testDefaults(), 1)
	before, err := s.Snapshot()
	if err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}

	_, err = s.Apply(models.InputUpdate{Volatility: f64(-0.5)})
	if !errors.Is(err, pricing.ErrInvalidParameter) {
		t.Fatalf("Apply() error: got %v, want ErrInvalidParameter", err)
	}

	// State is untouched after the failed update.
	if got := s.Inputs().Volatility; got != 0.2 {
		t.Errorf("Volatility after failed update: got %g, want 0.2", got)
	}
	after, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() after failed update: %v", err)
	}
	if after != before {
		t.Error("snapshot should be unchanged after a failed update")
	}
	if after.Revision != 1 {
		t.Errorf("Revision after failed update: got %d, want 1", after.Revision)
	}
}

func TestSessionApplyInvalidGridKeepsState(t *testing.T) {
	s := New(testDefaults(), 1)
	if _, err := s.Snapshot(); err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}

	// spot_min above spot_max is rejected by the grid validator.
	_, err := s.Apply(models.InputUpdate{SpotMin: f64(150)})
	if !errors.Is(err, surface.ErrInvalidGridSpec) {
		t.Fatalf("Apply() error: got %v, want ErrInvalidGridSpec", err)
	}
	if got := s.Inputs().SpotMin; got != 80 {
		t.Errorf("SpotMin after failed update: got %g, want 80", got)
	}
}

func TestSessionReset(t *testing.T) {
	s := New(testDefaults(), 1)
	if _, err := s.Apply(models.InputUpdate{Spot: f64(90), Volatility: f64(0.3)}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	snap, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if snap.Inputs != testDefaults() {
		t.Errorf("inputs after reset: got %+v", snap.Inputs)
	}
	if snap.Revision != 2 {
		t.Errorf("Revision after reset: got %d, want 2", snap.Revision)
	}
	if math.Abs(snap.Quote.Call-10.4506) > 0.01 {
		t.Errorf("Quote.Call after reset: got %f, want ~10.45", snap.Quote.Call)
	}
}

func TestSessionParallelWorkersMatchSerial(t *testing.T) {
	serial := New(testDefaults(), 1)
	parallel := New(testDefaults(), 4)

	a, err := serial.Snapshot()
	if err != nil {
		t.Fatalf("serial Snapshot() error: %v", err)
	}
	b, err := parallel.Snapshot()
	if err != nil {
		t.Fatalf("parallel Snapshot() error: %v", err)
	}

	for i := range a.Surface.Call {
		for j := range a.Surface.Call[i] {
			if a.Surface.Call[i][j] != b.Surface.Call[i][j] {
				t.Fatalf("call[%d][%d]: serial %v != parallel %v",
					i, j, a.Surface.Call[i][j], b.Surface.Call[i][j])
			}
			if a.Surface.Put[i][j] != b.Surface.Put[i][j] {
				t.Fatalf("put[%d][%d]: serial %v != parallel %v",
					i, j, a.Surface.Put[i][j], b.Surface.Put[i][j])
			}
		}
	}
}

func TestSessionConcurrentApply(t *testing.T) {
	s := New(testDefaults(), 1)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for k := 0; k < n; k++ {
		spot := 90 + float64(k)
		go func() {
			defer wg.Done()
			if _, err := s.Apply(models.InputUpdate{Spot: &spot}); err != nil {
				t.Errorf("concurrent Apply(%g): %v", spot, err)
			}
		}()
	}
	wg.Wait()

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() after concurrent updates: %v", err)
	}
	if snap.Revision != n {
		t.Errorf("Revision: got %d, want %d", snap.Revision, n)
	}

	// The final snapshot matches whichever update landed last.
	if snap.Quote.Spot != snap.Inputs.Spot {
		t.Errorf("snapshot quote/inputs disagree: %g vs %g", snap.Quote.Spot, snap.Inputs.Spot)
	}
}
