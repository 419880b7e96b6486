package optimize

import (
	"fmt"

	"coursecast/internal/catalog"
	"coursecast/internal/ilp"
)

// Request is one bidding scenario applied to a course catalog snapshot.
type Request struct {
	Budget       float64                 `json:"budget" mapstructure:"budget"`
	MaxCredits   float64                 `json:"max_credits" mapstructure:"max_credits"`
	MinCredits   float64                 `json:"min_credits" mapstructure:"min_credits"`
	Utilities    map[string]float64      `json:"utilities" mapstructure:"utilities"`
	FixedCourses []string                `json:"fixed_courses" mapstructure:"fixed_courses"`
	Courses      []catalog.CourseRecord `json:"courses" mapstructure:"courses"`
}

// Validate rejects scenarios the solver contract cannot express.
func (request Request) Validate() error {
	if request.Budget <= 0 {
		return fmt.Errorf("budget must be positive: %v", request.Budget)
	}
	if request.MinCredits > request.MaxCredits {
		return fmt.Errorf("min credits %v exceeds max credits %v", request.MinCredits, request.MaxCredits)
	}
	for courseID, utility := range request.Utilities {
		if utility < 0 || utility > 100 {
			return fmt.Errorf("utility of course %v must be between 0 and 100: %v", courseID, utility)
		}
	}
	seen := make(map[string]bool, len(request.Courses))
	for _, course := range request.Courses {
		if seen[course.ForecastID] {
			return fmt.Errorf("duplicate forecast id %v", course.ForecastID)
		}
		seen[course.ForecastID] = true
	}
	return nil
}

// Utility returns the user-assigned preference score of a course,
// defaulting to zero when the scenario does not mention it.
func (request Request) Utility(forecastID string) float64 {
	return request.Utilities[forecastID]
}

// Response is the outcome of one solved run. Non-optimal statuses are
// valid, displayable results carrying empty selections.
type Response struct {
	SelectedCourses    []string   `json:"selectedCourses"`
	TotalCost          float64    `json:"totalCost"`
	TotalCredits       float64    `json:"totalCredits"`
	TotalUtility       float64    `json:"totalUtility"`
	OptimizationStatus ilp.Status `json:"optimizationStatus"`
}

// Optimizer solves one priced catalog snapshot against a scenario.
type Optimizer interface {
	// Optimize builds the constraint model for the given realized prices
	// (forecast id -> price) and hands it to the solver backend. Every
	// course in the request must carry a price.
	Optimize(request Request, prices map[string]float64) (Response, error)
}

func NewOptimizer(solver ilp.Solver) Optimizer {
	return &optimizerImplementation{solver: solver}
}

// PointForecastPrices prices a snapshot with each course's point
// forecast, for single runs outside a Monte Carlo batch.
func PointForecastPrices(courses []catalog.CourseRecord) map[string]float64 {
	prices := make(map[string]float64, len(courses))
	for _, course := range courses {
		prices[course.ForecastID] = float64(course.TruncatedPricePrediction)
	}
	return prices
}
