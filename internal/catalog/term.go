package catalog

import "fmt"

// UnknownTermCodeError marks a part-of-term code outside the catalog
// vocabulary. It is a fatal input error that halts the batch step.
type UnknownTermCodeError struct {
	PartOfTerm string
	ForecastID string
}

func (err UnknownTermCodeError) Error() string {
	return fmt.Sprintf("unknown part-of-term code %q on course %v", err.PartOfTerm, err.ForecastID)
}

var termExpansions = map[string][]string{
	"Q1":      {"Q1"},
	"Q2":      {"Q2"},
	"Q3":      {"Q3"},
	"Q4":      {"Q4"},
	"Full":    {"Q1", "Q2", "Q3", "Q4"},
	"Modular": {"Modular"},
}

// ExpandPartOfTerm expands a part-of-term code into concrete quarter
// codes. An empty code expands to no quarters (unscheduled section).
func ExpandPartOfTerm(partOfTerm, forecastID string) ([]string, error) {
	if partOfTerm == "" {
		return nil, nil
	}
	quarters, ok := termExpansions[partOfTerm]
	if !ok {
		return nil, UnknownTermCodeError{PartOfTerm: partOfTerm, ForecastID: forecastID}
	}
	return quarters, nil
}
