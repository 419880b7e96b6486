package ilp

// Status classifies a solve outcome. Non-optimal statuses are data, not
// errors: they travel back to callers inside the run response untouched.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	StatusTimedout   Status = "timedout"
	StatusCycled     Status = "cycled"
)

// Known reports whether the status belongs to the contract vocabulary.
func (status Status) Known() bool {
	switch status {
	case StatusOptimal, StatusInfeasible, StatusUnbounded, StatusTimedout, StatusCycled:
		return true
	}
	return false
}

// Constraint bounds one named linear expression. Nil fields are absent
// bounds; Equal overrides both when set.
type Constraint struct {
	Min   *float64
	Max   *float64
	Equal *float64
}

// Model is a binary integer program in named form. Every variable maps
// constraint names (plus the objective name) to its coefficients; all
// decision variables are binary.
type Model struct {
	Objective   string
	Constraints map[string]Constraint
	Variables   map[string]map[string]float64
}

// Assignment is one solved variable with its binary value.
type Assignment struct {
	Name  string
	Value int
}

// Solution is the outcome of one maximize solve.
type Solution struct {
	Status    Status
	Objective float64
	Variables []Assignment
}

// Bound is a convenience constructor for optional constraint bounds.
func Bound(value float64) *float64 {
	return &value
}
