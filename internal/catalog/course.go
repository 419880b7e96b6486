package catalog

import "fmt"

// CourseRecord is one section row of the annotated catalog. Records are
// immutable once the conflict-group batch step has produced them.
type CourseRecord struct {
	ForecastID                    string    `json:"forecast_id" mapstructure:"forecast_id"`
	Term                          int       `json:"term" mapstructure:"term"`
	Semester                      string    `json:"semester" mapstructure:"semester"`
	Department                    string    `json:"department" mapstructure:"department"`
	SectionCode                   string    `json:"section_code" mapstructure:"section_code"`
	Title                         string    `json:"title" mapstructure:"title"`
	Instructors                   []string  `json:"instructors" mapstructure:"instructors"`
	PartOfTerm                    []string  `json:"part_of_term" mapstructure:"part_of_term"`
	DaysCode                      string    `json:"days_code" mapstructure:"days_code"`
	StartTime                     int       `json:"start_time" mapstructure:"start_time"`
	StopTime                      int       `json:"stop_time" mapstructure:"stop_time"`
	Credits                       float64   `json:"credits" mapstructure:"credits"`
	Capacity                      int       `json:"capacity" mapstructure:"capacity"`
	TruncatedPricePrediction      int       `json:"truncated_price_prediction" mapstructure:"truncated_price_prediction"`
	PricePredictionResidualMean   int       `json:"price_prediction_residual_mean" mapstructure:"price_prediction_residual_mean"`
	PricePredictionResidualStdDev int       `json:"price_prediction_residual_std_dev" mapstructure:"price_prediction_residual_std_dev"`
	TruncatedPriceFluctuations    []float64 `json:"truncated_price_fluctuations" mapstructure:"truncated_price_fluctuations"`
	ConflictGroups                []string  `json:"conflict_groups" mapstructure:"conflict_groups"`
}

// identityLength is the prefix of a forecast id shared by alternate
// sections of the same course (the section number is what follows).
const identityLength = 8

// CourseIdentity strips the section number from the forecast id.
func (course CourseRecord) CourseIdentity() string {
	if len(course.ForecastID) < identityLength {
		return course.ForecastID
	}
	return course.ForecastID[:identityLength]
}

// Scheduled reports whether the section has a known meeting window. The
// sentinel [0, 0) marks unknown times that never conflict with anything.
func (course CourseRecord) Scheduled() bool {
	return course.StartTime != 0 || course.StopTime != 0
}

// MissingPriceDrawError reports a seed with no precomputed price draw.
// Draws are never defaulted; a missing entry aborts the whole batch.
type MissingPriceDrawError struct {
	ForecastID string
	Seed       int
}

func (err MissingPriceDrawError) Error() string {
	return fmt.Sprintf("course %v has no price draw for seed %v", err.ForecastID, err.Seed)
}

// PriceAt returns the realized price for one simulation seed.
func (course CourseRecord) PriceAt(seed int) (float64, error) {
	if seed < 0 || seed >= len(course.TruncatedPriceFluctuations) {
		return 0, MissingPriceDrawError{ForecastID: course.ForecastID, Seed: seed}
	}
	return course.TruncatedPriceFluctuations[seed], nil
}

// Index builds a forecast-id lookup over a list of records.
func Index(courses []CourseRecord) map[string]CourseRecord {
	index := make(map[string]CourseRecord, len(courses))
	for _, course := range courses {
		index[course.ForecastID] = course
	}
	return index
}
