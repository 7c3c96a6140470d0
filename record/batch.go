package record

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SolveAll solves the requests concurrently on at most the given number of
// workers, or one per CPU if workers is not positive. The results are in the
// same order as the inputs. A request that fails does not affect the others;
// its error is in its result. The returned error is only non-nil if the
// context was cancelled, in which case unsolved requests have the context's
// error as their result.
func (s *Solver) SolveAll(ctx context.Context, inputs []Input, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Name: inputs[i].Name, Err: err}
				return err
			}
			results[i] = s.Solve(ctx, inputs[i])
			return nil
		})
	}
	return results, g.Wait()
}
