package simulate

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"coursecast/internal/catalog"
	"coursecast/internal/ilp"
	"coursecast/internal/optimize"
)

type simulatorImplementation struct {
	optimizer optimize.Optimizer
	workers   int
}

func newSimulatorImplementation(solver ilp.Solver) *simulatorImplementation {
	return &simulatorImplementation{
		optimizer: optimize.NewOptimizer(solver),
		workers:   runtime.NumCPU(),
	}
}

func (simulator *simulatorImplementation) RunBatch(ctx context.Context, request optimize.Request, seedCount int) ([]optimize.Response, error) {
	if seedCount <= 0 {
		return nil, fmt.Errorf("seed count must be positive: %v", seedCount)
	}
	if len(request.Courses) == 0 {
		return nil, fmt.Errorf("at least one course must be provided")
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	// Every course must carry a draw for every seed before any worker
	// starts; prices are never silently defaulted.
	for _, course := range request.Courses {
		if len(course.TruncatedPriceFluctuations) < seedCount {
			return nil, catalog.MissingPriceDrawError{
				ForecastID: course.ForecastID,
				Seed:       len(course.TruncatedPriceFluctuations),
			}
		}
	}

	index := catalog.Index(request.Courses)
	workers := min(simulator.workers, seedCount)
	responses := make(chan optimize.Response, seedCount)

	// Seeds are partitioned round-robin; a worker's seeds run strictly
	// sequentially while different workers run in parallel. The group
	// cancels every worker on the first error, on all exit paths.
	group, groupCtx := errgroup.WithContext(ctx)
	for worker := 0; worker < workers; worker++ {
		worker := worker
		group.Go(func() error {
			for seed := worker; seed < seedCount; seed += workers {
				response, err := simulator.runSeed(request, seed)
				if err != nil {
					return err
				}
				if err := validateResponse(response, index); err != nil {
					return fmt.Errorf("seed %v: %w", seed, err)
				}
				select {
				case responses <- response:
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	close(responses)

	collected := make([]optimize.Response, 0, seedCount)
	for response := range responses {
		collected = append(collected, response)
	}
	return collected, nil
}

func (simulator *simulatorImplementation) runSeed(request optimize.Request, seed int) (optimize.Response, error) {
	prices := make(map[string]float64, len(request.Courses))
	for _, course := range request.Courses {
		price, err := course.PriceAt(seed)
		if err != nil {
			return optimize.Response{}, err
		}
		prices[course.ForecastID] = price
	}
	return simulator.optimizer.Optimize(request, prices)
}

// validateResponse schema-checks a worker response before it is trusted.
// Malformed payloads are rejected, not coerced.
func validateResponse(response optimize.Response, index map[string]catalog.CourseRecord) error {
	if !response.OptimizationStatus.Known() {
		return fmt.Errorf("invalid optimization status %q", response.OptimizationStatus)
	}
	seen := make(map[string]bool, len(response.SelectedCourses))
	for _, courseID := range response.SelectedCourses {
		if _, ok := index[courseID]; !ok {
			return fmt.Errorf("selected course %v is not in the catalog", courseID)
		}
		if seen[courseID] {
			return fmt.Errorf("course %v selected twice", courseID)
		}
		seen[courseID] = true
	}
	return nil
}
