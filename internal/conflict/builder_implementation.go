package conflict

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"coursecast/internal/catalog"
)

type builderImplementation struct {
	crossListings CrossListTable
}

// expandedSection carries one section together with its expanded quarter
// and day codes for the duration of the batch step.
type expandedSection struct {
	record   catalog.CourseRecord
	quarters []string
	days     []string
}

func (builder *builderImplementation) Annotate(rows []catalog.RawSection) ([]catalog.CourseRecord, error) {
	sections, err := builder.expand(rows)
	if err != nil {
		return nil, err
	}

	// Inverted index: section index -> group ids. Built once here; the
	// runtime never rescans a group->members map.
	memberships := make([][]string, len(sections))

	builder.sweepTimeConflicts(sections, memberships)
	builder.groupAlternateSections(sections, memberships)

	courses := make([]catalog.CourseRecord, len(sections))
	for i, section := range sections {
		groups := lo.Uniq(memberships[i])
		slices.Sort(groups)
		section.record.ConflictGroups = groups
		courses[i] = section.record
	}
	return courses, nil
}

// expand resolves term and day codes for every row, failing fast on the
// first unknown code or duplicate forecast id.
func (builder *builderImplementation) expand(rows []catalog.RawSection) ([]expandedSection, error) {
	sections := make([]expandedSection, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if seen[row.ForecastID] {
			return nil, fmt.Errorf("duplicate forecast id %v", row.ForecastID)
		}
		seen[row.ForecastID] = true

		quarters, err := catalog.ExpandPartOfTerm(row.PartOfTerm, row.ForecastID)
		if err != nil {
			return nil, err
		}
		days, err := catalog.ExpandDaysCode(row.DaysCode, row.ForecastID)
		if err != nil {
			return nil, err
		}
		draws, err := row.PriceDraws()
		if err != nil {
			return nil, err
		}

		sections = append(sections, expandedSection{
			record: catalog.CourseRecord{
				ForecastID:                    row.ForecastID,
				Term:                          row.Term,
				Semester:                      row.Semester,
				Department:                    row.Department,
				SectionCode:                   row.SectionCode,
				Title:                         row.Title,
				Instructors:                   row.InstructorList(),
				PartOfTerm:                    quarters,
				DaysCode:                      row.DaysCode,
				StartTime:                     row.StartTime,
				StopTime:                      row.StopTime,
				Credits:                       row.Credits,
				Capacity:                      row.Capacity,
				TruncatedPricePrediction:      row.TruncatedPricePrediction,
				PricePredictionResidualMean:   row.PricePredictionResidualMean,
				PricePredictionResidualStdDev: row.PricePredictionResidualStdDev,
				TruncatedPriceFluctuations:    draws,
			},
			quarters: quarters,
			days:     days,
		})
	}
	return sections, nil
}

// sweepTimeConflicts finds every section pair sharing a quarter, a day
// and an overlapping half-open [start, stop) meeting window. Sections
// are scanned in start-time order so the forward scan stops as soon as
// a candidate starts at or after the current section's stop time.
func (builder *builderImplementation) sweepTimeConflicts(sections []expandedSection, memberships [][]string) {
	order := lo.Range(len(sections))
	slices.SortFunc(order, func(a, b int) int {
		if sections[a].record.StartTime != sections[b].record.StartTime {
			return sections[a].record.StartTime - sections[b].record.StartTime
		}
		return strings.Compare(sections[a].record.ForecastID, sections[b].record.ForecastID)
	})

	for position, i := range order {
		courseA := sections[i]
		if !courseA.record.Scheduled() {
			continue
		}

		for _, j := range order[position+1:] {
			courseB := sections[j]
			if !courseB.record.Scheduled() {
				continue
			}
			// Sorted by start time, so no later section can overlap either.
			if courseB.record.StartTime >= courseA.record.StopTime {
				break
			}
			// Half-open overlap: courseB.start < courseA.stop holds already,
			// so only the symmetric bound remains to be checked.
			if courseA.record.StartTime >= courseB.record.StopTime {
				continue
			}

			commonQuarters := lo.Intersect(courseA.quarters, courseB.quarters)
			commonDays := lo.Intersect(courseA.days, courseB.days)
			if len(commonQuarters) == 0 || len(commonDays) == 0 {
				continue
			}

			first, second := courseA.record.ForecastID, courseB.record.ForecastID
			if first > second {
				first, second = second, first
			}
			for _, quarter := range commonQuarters {
				for _, day := range commonDays {
					group := fmt.Sprintf("time_%v_%v_%v_%v", quarter, day, first, second)
					memberships[i] = append(memberships[i], group)
					memberships[j] = append(memberships[j], group)
				}
			}
		}
	}
}

// groupAlternateSections groups sections by course identity, merging
// cross-listed identities through the override table. Singleton groups
// carry no constraint and are pruned.
func (builder *builderImplementation) groupAlternateSections(sections []expandedSection, memberships [][]string) {
	identityMembers := make(map[string][]int)
	for i, section := range sections {
		identity := builder.crossListings.Resolve(section.record.CourseIdentity())
		identityMembers[identity] = append(identityMembers[identity], i)
	}

	for identity, members := range identityMembers {
		if len(members) < 2 {
			continue
		}
		group := fmt.Sprintf("section_%v", identity)
		for _, i := range members {
			memberships[i] = append(memberships[i], group)
		}
	}
}
