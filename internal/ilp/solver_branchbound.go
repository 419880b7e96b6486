package ilp

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

const epsilon = 1e-9

// branchBoundSolver is an exact in-process backend for binary models.
// It is the default backend: course models are small and their
// coefficients are non-negative, which makes the bounds tight.
type branchBoundSolver struct{}

func NewBranchBoundSolver() Solver {
	return &branchBoundSolver{}
}

func (solver *branchBoundSolver) Solve(model Model) (Solution, error) {
	variables := lo.Keys(model.Variables)
	slices.Sort(variables)
	// Explore high-value variables first so the incumbent tightens early.
	slices.SortStableFunc(variables, func(a, b string) int {
		difference := model.Variables[b][model.Objective] - model.Variables[a][model.Objective]
		if difference < 0 {
			return -1
		} else if difference > 0 {
			return 1
		}
		return 0
	})

	constraints := lo.Keys(model.Constraints)
	slices.Sort(constraints)

	n, m := len(variables), len(constraints)

	objective := make([]float64, n)
	coefficients := make([][]float64, n)
	for i, variable := range variables {
		row := model.Variables[variable]
		objective[i] = row[model.Objective]
		coefficients[i] = make([]float64, m)
		for c, constraint := range constraints {
			coefficients[i][c] = row[constraint]
		}
	}

	lower := make([]float64, m)
	upper := make([]float64, m)
	for c, constraint := range constraints {
		bounds := model.Constraints[constraint]
		lower[c], upper[c] = math.Inf(-1), math.Inf(1)
		if bounds.Min != nil {
			lower[c] = *bounds.Min
		}
		if bounds.Max != nil {
			upper[c] = *bounds.Max
		}
		if bounds.Equal != nil {
			lower[c], upper[c] = *bounds.Equal, *bounds.Equal
		}
	}

	// Suffix mass per constraint: the least and greatest amount the still
	// unassigned variables can add. Zero suffix at depth n makes the
	// window check at the leaves an exact feasibility check.
	negativeAfter := make([][]float64, n+1)
	positiveAfter := make([][]float64, n+1)
	objectiveAfter := make([]float64, n+1)
	negativeAfter[n] = make([]float64, m)
	positiveAfter[n] = make([]float64, m)
	for depth := n - 1; depth >= 0; depth-- {
		negativeAfter[depth] = make([]float64, m)
		positiveAfter[depth] = make([]float64, m)
		for c := 0; c < m; c++ {
			negativeAfter[depth][c] = negativeAfter[depth+1][c] + min(coefficients[depth][c], 0)
			positiveAfter[depth][c] = positiveAfter[depth+1][c] + max(coefficients[depth][c], 0)
		}
		objectiveAfter[depth] = objectiveAfter[depth+1] + max(objective[depth], 0)
	}

	sums := make([]float64, m)
	assignment := make([]int, n)
	var best []int
	bestObjective := math.Inf(-1)

	var explore func(depth int, value float64)
	explore = func(depth int, value float64) {
		for c := 0; c < m; c++ {
			if sums[c]+positiveAfter[depth][c] < lower[c]-epsilon ||
				sums[c]+negativeAfter[depth][c] > upper[c]+epsilon {
				return
			}
		}
		if best != nil && value+objectiveAfter[depth] <= bestObjective+epsilon {
			return
		}
		if depth == n {
			best = slices.Clone(assignment)
			bestObjective = value
			return
		}

		assignment[depth] = 1
		for c := 0; c < m; c++ {
			sums[c] += coefficients[depth][c]
		}
		explore(depth+1, value+objective[depth])
		for c := 0; c < m; c++ {
			sums[c] -= coefficients[depth][c]
		}

		assignment[depth] = 0
		explore(depth+1, value)
	}
	explore(0, 0)

	if best == nil {
		return Solution{Status: StatusInfeasible, Variables: []Assignment{}}, nil
	}

	assignments := make([]Assignment, n)
	for i, variable := range variables {
		assignments[i] = Assignment{Name: variable, Value: best[i]}
	}
	slices.SortFunc(assignments, func(a, b Assignment) int {
		if a.Name < b.Name {
			return -1
		} else if a.Name > b.Name {
			return 1
		}
		return 0
	})

	return Solution{Status: StatusOptimal, Objective: bestObjective, Variables: assignments}, nil
}
