package simulate

import (
	"context"

	"coursecast/internal/ilp"
	"coursecast/internal/optimize"
)

// DefaultSeedCount is the batch size used when the caller does not ask
// for a specific number of Monte Carlo runs.
const DefaultSeedCount = 100

// Simulator runs many independent price realizations of one scenario.
type Simulator interface {
	// RunBatch solves the scenario once per seed, substituting each
	// course's price with its precomputed draw for that seed. Responses
	// are collected in no meaningful order. A missing price draw or an
	// invalid worker response fails the whole batch and discards every
	// in-flight result; solver-reported non-optimal outcomes do not.
	RunBatch(ctx context.Context, request optimize.Request, seedCount int) ([]optimize.Response, error)
}

type Option func(*simulatorImplementation)

// WithWorkers fixes the worker-pool size instead of deriving it from the
// available hardware parallelism.
func WithWorkers(workers int) Option {
	return func(simulator *simulatorImplementation) {
		if workers > 0 {
			simulator.workers = workers
		}
	}
}

func NewSimulator(solver ilp.Solver, options ...Option) Simulator {
	simulator := newSimulatorImplementation(solver)
	for _, option := range options {
		option(simulator)
	}
	return simulator
}
