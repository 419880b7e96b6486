package ilp

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const cbcPath = "cbc"

// cbcSolver shells out to the COIN-OR cbc binary, feeding the model as a
// CPLEX-LP file and parsing the solution file it writes back.
type cbcSolver struct{}

func NewCbcSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(model Model) (Solution, error) {
	variables := lo.Keys(model.Variables)
	slices.Sort(variables)

	// LP identifiers are restrictive, so variables and constraints get
	// symbolic names and are mapped back after the solve.
	symbols := make(map[string]string, len(variables))
	for i, variable := range variables {
		symbols[variable] = fmt.Sprintf("x%v", i)
	}

	directory, err := os.MkdirTemp("", "coursecast-cbc")
	if err != nil {
		return Solution{}, fmt.Errorf("cannot create solver directory: %w", err)
	}
	defer os.RemoveAll(directory)

	modelFile := path.Join(directory, "model.lp")
	solutionFile := path.Join(directory, "solution.txt")
	if err := os.WriteFile(modelFile, []byte(toLP(model, variables, symbols)), 0666); err != nil {
		return Solution{}, fmt.Errorf("cannot write model file: %w", err)
	}

	cmd := exec.Command(cbcPath, modelFile, "solve", "solution", solutionFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	output, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("cannot read solution file: %w", err)
	}
	return parseCbcSolution(string(output), variables, symbols)
}

func toLP(model Model, variables []string, symbols map[string]string) string {
	var builder strings.Builder

	terms := func(constraint string) string {
		parts := []string{}
		for _, variable := range variables {
			coefficient := model.Variables[variable][constraint]
			if coefficient == 0 {
				continue
			}
			sign := "+"
			if coefficient < 0 {
				sign = "-"
			}
			parts = append(parts, fmt.Sprintf("%v %v %v", sign, strconv.FormatFloat(math.Abs(coefficient), 'g', -1, 64), symbols[variable]))
		}
		return strings.Join(parts, " ")
	}

	builder.WriteString("Maximize\n")
	fmt.Fprintf(&builder, " obj: %v\n", terms(model.Objective))

	builder.WriteString("Subject To\n")
	constraints := lo.Keys(model.Constraints)
	slices.Sort(constraints)
	for i, constraint := range constraints {
		expression := terms(constraint)
		if expression == "" {
			continue
		}
		bounds := model.Constraints[constraint]
		if bounds.Equal != nil {
			fmt.Fprintf(&builder, " c%v: %v = %v\n", i, expression, strconv.FormatFloat(*bounds.Equal, 'g', -1, 64))
			continue
		}
		if bounds.Min != nil {
			fmt.Fprintf(&builder, " c%vlo: %v >= %v\n", i, expression, strconv.FormatFloat(*bounds.Min, 'g', -1, 64))
		}
		if bounds.Max != nil {
			fmt.Fprintf(&builder, " c%vhi: %v <= %v\n", i, expression, strconv.FormatFloat(*bounds.Max, 'g', -1, 64))
		}
	}

	builder.WriteString("Binary\n")
	for _, variable := range variables {
		fmt.Fprintf(&builder, " %v\n", symbols[variable])
	}
	builder.WriteString("End\n")
	return builder.String()
}

func parseCbcSolution(output string, variables []string, symbols map[string]string) (Solution, error) {
	lines := lo.Filter(strings.Split(output, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
	if len(lines) == 0 {
		return Solution{}, fmt.Errorf("empty cbc solution output")
	}

	header := lines[0]
	var status Status
	switch {
	case strings.HasPrefix(header, "Optimal"):
		status = StatusOptimal
	case strings.HasPrefix(header, "Infeasible"):
		status = StatusInfeasible
	case strings.Contains(header, "Unbounded"):
		status = StatusUnbounded
	case strings.Contains(header, "time"):
		status = StatusTimedout
	case strings.Contains(header, "iterations"):
		status = StatusCycled
	default:
		return Solution{}, fmt.Errorf("unrecognized cbc status line: %v", header)
	}

	objective := 0.0
	if fields := strings.Fields(header); len(fields) > 0 {
		if value, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
			objective = value
		}
	}

	values := make(map[string]int, len(variables))
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid value in cbc solution line: %v", line)
		}
		if math.Round(value) == 1 {
			values[fields[1]] = 1
		}
	}

	assignments := make([]Assignment, len(variables))
	for i, variable := range variables {
		assignments[i] = Assignment{Name: variable, Value: values[symbols[variable]]}
	}
	return Solution{Status: status, Objective: objective, Variables: assignments}, nil
}
