package surface

import "golang.org/x/sync/errgroup"

// EvaluateParallel is Evaluate with volatility rows priced
// concurrently. workers caps the number of in-flight rows; values
// below 2 fall back to the serial path. Cells are independent given
// the fixed parameters, so the output is identical to Evaluate's and
// needs no synchronization beyond result collection.
func EvaluateParallel(spec GridSpec, fixed FixedParams, workers int) (*GridResult, error) {
	if workers <= 1 {
		return Evaluate(spec, fixed)
	}
	if err := validateGrid(spec, fixed); err != nil {
		return nil, err
	}

	res := newGridResult(spec)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, vol := range res.AxisVol {
		g.Go(func() error {
			return fillRow(res, i, vol, fixed)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
