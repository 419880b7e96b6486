package ilp

// Solver is the binary-ILP backend contract: maximize the objective row
// over binary variables subject to the named constraints. A non-optimal
// status is a valid solution, not an error; errors are reserved for
// backend failures (missing binary, unparseable output).
type Solver interface {
	Solve(model Model) (Solution, error)
}
