package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Coordinator fans a batch of units over a bounded worker pool.
type Coordinator struct {
	Runner *Runner

	// Workers bounds concurrent formats; GOMAXPROCS when zero.
	Workers int
}

// Run formats every unit and returns results in input order. A unit
// that fails records its error in the matching Result; the rest of the
// batch is unaffected. Run itself only stops early when ctx is
// cancelled, and even then every started unit finishes.
func (c *Coordinator) Run(ctx context.Context, units []Unit) []Result {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(units))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Path: unit.Path, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = c.Runner.RunUnit(ctx, unit)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
