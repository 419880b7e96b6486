// Package aggregate reduces many solved Monte Carlo runs into
// per-course and per-schedule selection-probability rankings. It is a
// pure reduction: output is invariant under permutation of the input
// response list and carries no rendering concerns.
package aggregate

import (
	"slices"
	"strings"

	"coursecast/internal/catalog"
	"coursecast/internal/optimize"
)

// CourseProbability ranks one section by how often the simulation
// selected it.
type CourseProbability struct {
	ForecastID  string   `json:"forecast_id"`
	Title       string   `json:"title"`
	Department  string   `json:"department"`
	SectionCode string   `json:"section_code"`
	Instructors []string `json:"instructors"`
	Credits     float64  `json:"credits"`
	Occurrences int      `json:"occurrences"`
	Probability float64  `json:"probability"`
}

// ScheduleCourse is one section of a distinct schedule, carrying what a
// caller needs to display the meeting slot.
type ScheduleCourse struct {
	ForecastID  string  `json:"forecast_id"`
	Title       string  `json:"title"`
	Department  string  `json:"department"`
	SectionCode string  `json:"section_code"`
	DaysCode    string  `json:"days_code"`
	StartTime   int     `json:"start_time"`
	StopTime    int     `json:"stop_time"`
	Credits     float64 `json:"credits"`
}

// ScheduleProbability ranks one distinct selected set of sections.
type ScheduleProbability struct {
	ScheduleHash string           `json:"schedule_hash"`
	Courses      []ScheduleCourse `json:"courses"`
	Occurrences  int              `json:"occurrences"`
	Probability  float64          `json:"probability"`
}

// Summary is the aggregated outcome of one simulation batch.
type Summary struct {
	TotalRuns  int                   `json:"total_runs"`
	ByCourse   []CourseProbability   `json:"by_course"`
	BySchedule []ScheduleProbability `json:"by_schedule"`
}

// Probabilities reduces solved runs into probability rankings against an
// annotated catalog. Counting is commutative, so any permutation of the
// responses yields the same summary.
func Probabilities(responses []optimize.Response, courses []catalog.CourseRecord) (Summary, error) {
	index := catalog.Index(courses)

	byCourse, err := courseProbabilities(responses, index)
	if err != nil {
		return Summary{}, err
	}
	bySchedule, err := scheduleProbabilities(responses, index)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalRuns:  len(responses),
		ByCourse:   byCourse,
		BySchedule: bySchedule,
	}, nil
}

func courseProbabilities(responses []optimize.Response, index map[string]catalog.CourseRecord) ([]CourseProbability, error) {
	occurrences := make(map[string]int)
	for _, response := range responses {
		for _, courseID := range response.SelectedCourses {
			occurrences[courseID]++
		}
	}

	ranking := make([]CourseProbability, 0, len(occurrences))
	for courseID, count := range occurrences {
		course, ok := index[courseID]
		if !ok {
			continue
		}
		ranking = append(ranking, CourseProbability{
			ForecastID:  courseID,
			Title:       course.Title,
			Department:  course.Department,
			SectionCode: course.SectionCode,
			Instructors: course.Instructors,
			Credits:     course.Credits,
			Occurrences: count,
			Probability: float64(count) / float64(len(responses)),
		})
	}

	slices.SortFunc(ranking, func(a, b CourseProbability) int {
		if a.Probability != b.Probability {
			if a.Probability > b.Probability {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Title, b.Title)
	})
	return ranking, nil
}

func scheduleProbabilities(responses []optimize.Response, index map[string]catalog.CourseRecord) ([]ScheduleProbability, error) {
	schedules := make(map[string]*ScheduleProbability)

	for _, response := range responses {
		selected := make([]catalog.CourseRecord, 0, len(response.SelectedCourses))
		for _, courseID := range response.SelectedCourses {
			if course, ok := index[courseID]; ok {
				selected = append(selected, course)
			}
		}

		// The hash is built from re-sorted ids, so two runs selecting the
		// identical set always hash identically regardless of input order.
		ids := make([]string, len(selected))
		for i, course := range selected {
			ids[i] = course.ForecastID
		}
		slices.Sort(ids)
		hash := strings.Join(ids, "|")

		if existing, ok := schedules[hash]; ok {
			existing.Occurrences++
			continue
		}

		display, err := sortForDisplay(selected)
		if err != nil {
			return nil, err
		}
		schedules[hash] = &ScheduleProbability{
			ScheduleHash: hash,
			Courses:      display,
			Occurrences:  1,
		}
	}

	ranking := make([]ScheduleProbability, 0, len(schedules))
	for _, schedule := range schedules {
		schedule.Probability = float64(schedule.Occurrences) / float64(len(responses))
		ranking = append(ranking, *schedule)
	}

	slices.SortFunc(ranking, func(a, b ScheduleProbability) int {
		if a.Probability != b.Probability {
			if a.Probability > b.Probability {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ScheduleHash, b.ScheduleHash)
	})
	return ranking, nil
}

// sortForDisplay orders a schedule's sections by canonical days-code
// rank, then start time. An unknown days code is fatal here as well.
func sortForDisplay(selected []catalog.CourseRecord) ([]ScheduleCourse, error) {
	display := make([]ScheduleCourse, len(selected))
	ranks := make(map[string]int, len(selected))
	for i, course := range selected {
		rank, err := catalog.DayCodeSortIndex(course.DaysCode)
		if err != nil {
			return nil, err
		}
		ranks[course.ForecastID] = rank
		display[i] = ScheduleCourse{
			ForecastID:  course.ForecastID,
			Title:       course.Title,
			Department:  course.Department,
			SectionCode: course.SectionCode,
			DaysCode:    course.DaysCode,
			StartTime:   course.StartTime,
			StopTime:    course.StopTime,
			Credits:     course.Credits,
		}
	}

	slices.SortFunc(display, func(a, b ScheduleCourse) int {
		if ranks[a.ForecastID] != ranks[b.ForecastID] {
			return ranks[a.ForecastID] - ranks[b.ForecastID]
		}
		if a.StartTime != b.StartTime {
			return a.StartTime - b.StartTime
		}
		return strings.Compare(a.ForecastID, b.ForecastID)
	})
	return display, nil
}
