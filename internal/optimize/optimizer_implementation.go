package optimize

import (
	"fmt"

	"coursecast/internal/ilp"
)

const objectiveName = "weighted_credit_utility"

type optimizerImplementation struct {
	solver ilp.Solver
}

func (optimizer *optimizerImplementation) Optimize(request Request, prices map[string]float64) (Response, error) {
	for _, course := range request.Courses {
		if _, ok := prices[course.ForecastID]; !ok {
			return Response{}, fmt.Errorf("course %v has no realized price", course.ForecastID)
		}
	}

	solution, err := optimizer.solver.Solve(BuildModel(request, prices))
	if err != nil {
		return Response{}, err
	}

	selected := make(map[string]bool, len(solution.Variables))
	for _, assignment := range solution.Variables {
		if assignment.Value == 1 {
			selected[assignment.Name] = true
		}
	}

	response := Response{
		SelectedCourses:    []string{},
		OptimizationStatus: solution.Status,
	}
	for _, course := range request.Courses {
		if !selected[course.ForecastID] {
			continue
		}
		response.SelectedCourses = append(response.SelectedCourses, course.ForecastID)
		response.TotalCost += prices[course.ForecastID]
		response.TotalCredits += course.Credits
		response.TotalUtility += request.Utility(course.ForecastID)
	}
	return response, nil
}

// BuildModel translates a scenario plus one priced snapshot into the
// solver's named form. Each course contributes one binary variable whose
// objective coefficient is utility times credits; the budget row carries
// realized prices and the credit rows carry credits. Conflict groups
// referenced by at least two present courses become at-most-one rows,
// and fixed courses present in the catalog become equality rows. Fixed
// courses absent from the catalog are skipped: a course not offered this
// term cannot constrain the schedule.
func BuildModel(request Request, prices map[string]float64) ilp.Model {
	constraints := map[string]ilp.Constraint{
		"budget":      {Max: ilp.Bound(request.Budget)},
		"max_credits": {Max: ilp.Bound(request.MaxCredits)},
		"min_credits": {Min: ilp.Bound(request.MinCredits)},
	}

	groupMembers := make(map[string]int)
	for _, course := range request.Courses {
		for _, group := range course.ConflictGroups {
			groupMembers[group]++
		}
	}

	variables := make(map[string]map[string]float64, len(request.Courses))
	for _, course := range request.Courses {
		row := map[string]float64{
			objectiveName: request.Utility(course.ForecastID) * course.Credits,
			"budget":      prices[course.ForecastID],
			"max_credits": course.Credits,
			"min_credits": course.Credits,
		}
		for _, group := range course.ConflictGroups {
			// Singleton groups in this snapshot carry no constraint.
			if groupMembers[group] < 2 {
				continue
			}
			constraints[group] = ilp.Constraint{Max: ilp.Bound(1)}
			row[group] = 1
		}
		variables[course.ForecastID] = row
	}

	for _, fixedCourseID := range request.FixedCourses {
		row, ok := variables[fixedCourseID]
		if !ok {
			continue
		}
		constraint := fmt.Sprintf("fixed_%v", fixedCourseID)
		constraints[constraint] = ilp.Constraint{Equal: ilp.Bound(1)}
		row[constraint] = 1
	}

	return ilp.Model{
		Objective:   objectiveName,
		Constraints: constraints,
		Variables:   variables,
	}
}
