package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coursecast/internal/catalog"
	"coursecast/internal/ilp"
)

func course(forecastID string, prediction int, credits float64, groups ...string) catalog.CourseRecord {
	return catalog.CourseRecord{
		ForecastID:               forecastID,
		Title:                    forecastID,
		Credits:                  credits,
		TruncatedPricePrediction: prediction,
		ConflictGroups:           groups,
	}
}

func scenario() Request {
	return Request{
		Budget:     1000,
		MaxCredits: 2,
		MinCredits: 0,
		Utilities: map[string]float64{
			"ACCT6110001": 50,
			"FNCE6210001": 80,
			"FNCE6210002": 70,
		},
		Courses: []catalog.CourseRecord{
			course("ACCT6110001", 500, 1),
			course("FNCE6210001", 600, 1, "section_FNCE6210"),
			course("FNCE6210002", 400, 1, "section_FNCE6210"),
		},
	}
}

func TestOptimize(t *testing.T) {
	optimizer := NewOptimizer(ilp.NewBranchBoundSolver())

	t.Run("Picks the best schedule under budget and exclusions", func(t *testing.T) {
		request := scenario()

		response, err := optimizer.Optimize(request, PointForecastPrices(request.Courses))

		assert.Nil(t, err)
		assert.Equal(t, Response{
			SelectedCourses:    []string{"ACCT6110001", "FNCE6210002"},
			TotalCost:          900,
			TotalCredits:       2,
			TotalUtility:       120,
			OptimizationStatus: ilp.StatusOptimal,
		}, response)
	})

	t.Run("Fixed courses are always selected", func(t *testing.T) {
		request := scenario()
		request.FixedCourses = []string{"FNCE6210001"}

		response, err := optimizer.Optimize(request, PointForecastPrices(request.Courses))

		assert.Nil(t, err)
		assert.Equal(t, []string{"FNCE6210001"}, response.SelectedCourses)
		assert.Equal(t, 600.0, response.TotalCost)
		assert.Equal(t, 80.0, response.TotalUtility)
		assert.Equal(t, ilp.StatusOptimal, response.OptimizationStatus)
	})

	t.Run("Fixed courses missing from the catalog are skipped", func(t *testing.T) {
		request := scenario()
		request.FixedCourses = []string{"REAL8300001"}

		response, err := optimizer.Optimize(request, PointForecastPrices(request.Courses))

		assert.Nil(t, err)
		assert.Equal(t, []string{"ACCT6110001", "FNCE6210002"}, response.SelectedCourses)
	})

	t.Run("Unsatisfiable credit floors surface as infeasible", func(t *testing.T) {
		request := scenario()
		request.MinCredits = 5
		request.MaxCredits = 5

		response, err := optimizer.Optimize(request, PointForecastPrices(request.Courses))

		assert.Nil(t, err)
		assert.Equal(t, ilp.StatusInfeasible, response.OptimizationStatus)
		assert.Empty(t, response.SelectedCourses)
		assert.Zero(t, response.TotalCost)
		assert.Zero(t, response.TotalUtility)
	})

	t.Run("Every course must carry a realized price", func(t *testing.T) {
		request := scenario()
		prices := PointForecastPrices(request.Courses)
		delete(prices, "FNCE6210002")

		_, err := optimizer.Optimize(request, prices)

		assert.ErrorContains(t, err, "FNCE6210002")
	})
}

func TestBuildModel(t *testing.T) {
	t.Run("Constraint rows mirror the scenario", func(t *testing.T) {
		request := scenario()
		request.FixedCourses = []string{"ACCT6110001"}

		model := BuildModel(request, PointForecastPrices(request.Courses))

		assert.Equal(t, "weighted_credit_utility", model.Objective)
		assert.Equal(t, ilp.Constraint{Max: ilp.Bound(1000)}, model.Constraints["budget"])
		assert.Equal(t, ilp.Constraint{Max: ilp.Bound(2)}, model.Constraints["max_credits"])
		assert.Equal(t, ilp.Constraint{Min: ilp.Bound(0)}, model.Constraints["min_credits"])
		assert.Equal(t, ilp.Constraint{Max: ilp.Bound(1)}, model.Constraints["section_FNCE6210"])
		assert.Equal(t, ilp.Constraint{Equal: ilp.Bound(1)}, model.Constraints["fixed_ACCT6110001"])

		assert.Equal(t, map[string]float64{
			"weighted_credit_utility": 50,
			"budget":                  500,
			"max_credits":             1,
			"min_credits":             1,
			"fixed_ACCT6110001":       1,
		}, model.Variables["ACCT6110001"])
		assert.Equal(t, 1.0, model.Variables["FNCE6210001"]["section_FNCE6210"])
		assert.Equal(t, 1.0, model.Variables["FNCE6210002"]["section_FNCE6210"])
	})

	t.Run("Objective weights utility by credits", func(t *testing.T) {
		request := Request{
			Budget:     1000,
			MaxCredits: 2,
			Utilities:  map[string]float64{"ACCT6110001": 50},
			Courses:    []catalog.CourseRecord{course("ACCT6110001", 500, 0.5)},
		}

		model := BuildModel(request, PointForecastPrices(request.Courses))

		assert.Equal(t, 25.0, model.Variables["ACCT6110001"]["weighted_credit_utility"])
	})

	t.Run("Groups with a single present member are pruned", func(t *testing.T) {
		request := Request{
			Budget:     1000,
			MaxCredits: 2,
			Courses: []catalog.CourseRecord{
				course("ACCT6110001", 500, 1, "section_ACCT6110"),
			},
		}

		model := BuildModel(request, PointForecastPrices(request.Courses))

		assert.NotContains(t, model.Constraints, "section_ACCT6110")
		assert.NotContains(t, model.Variables["ACCT6110001"], "section_ACCT6110")
	})
}

func TestRequestValidate(t *testing.T) {
	t.Run("Accepts a well-formed scenario", func(t *testing.T) {
		assert.Nil(t, scenario().Validate())
	})

	t.Run("Rejects a non-positive budget", func(t *testing.T) {
		request := scenario()
		request.Budget = 0
		assert.ErrorContains(t, request.Validate(), "budget")
	})

	t.Run("Rejects an inverted credit window", func(t *testing.T) {
		request := scenario()
		request.MinCredits = 3
		request.MaxCredits = 2
		assert.ErrorContains(t, request.Validate(), "min credits")
	})

	t.Run("Rejects out-of-range utilities", func(t *testing.T) {
		request := scenario()
		request.Utilities["ACCT6110001"] = 101
		assert.ErrorContains(t, request.Validate(), "ACCT6110001")
	})

	t.Run("Rejects duplicate courses", func(t *testing.T) {
		request := scenario()
		request.Courses = append(request.Courses, course("ACCT6110001", 500, 1))
		assert.ErrorContains(t, request.Validate(), "duplicate")
	})
}
