package catalog

import "fmt"

// UnknownDayCodeError marks a days code outside the catalog vocabulary.
// It is a fatal input error wherever it surfaces.
type UnknownDayCodeError struct {
	DaysCode   string
	ForecastID string
}

func (err UnknownDayCodeError) Error() string {
	return fmt.Sprintf("unknown days code %q on course %v", err.DaysCode, err.ForecastID)
}

var dayExpansions = map[string][]string{
	"M":   {"M"},
	"T":   {"T"},
	"W":   {"W"},
	"R":   {"R"},
	"F":   {"F"},
	"S":   {"S"},
	"U":   {"U"},
	"MW":  {"M", "W"},
	"TR":  {"T", "R"},
	"FS":  {"F", "S"},
	"TBA": {},
}

// ExpandDaysCode expands a days code into individual day letters. TBA
// expands to no days at all, so TBA sections never day-conflict.
func ExpandDaysCode(daysCode, forecastID string) ([]string, error) {
	days, ok := dayExpansions[daysCode]
	if !ok {
		return nil, UnknownDayCodeError{DaysCode: daysCode, ForecastID: forecastID}
	}
	return days, nil
}

// Canonical display order of days codes. Not used for conflict detection.
var dayCodeOrder = map[string]int{
	"M":   0,
	"MW":  1,
	"T":   2,
	"TR":  3,
	"W":   4,
	"R":   5,
	"F":   6,
	"FS":  7,
	"S":   8,
	"U":   9,
	"TBA": 10,
}

// DayCodeSortIndex returns the canonical display rank of a days code.
func DayCodeSortIndex(daysCode string) (int, error) {
	index, ok := dayCodeOrder[daysCode]
	if !ok {
		return 0, UnknownDayCodeError{DaysCode: daysCode}
	}
	return index, nil
}
