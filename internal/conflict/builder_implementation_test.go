package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coursecast/internal/catalog"
)

func section(id, partOfTerm, daysCode string, start, stop int) catalog.RawSection {
	return catalog.RawSection{
		ForecastID: id,
		Title:      id,
		PartOfTerm: partOfTerm,
		DaysCode:   daysCode,
		StartTime:  start,
		StopTime:   stop,
		Credits:    1,
	}
}

func groupsOf(t *testing.T, courses []catalog.CourseRecord, forecastID string) []string {
	for _, course := range courses {
		if course.ForecastID == forecastID {
			return course.ConflictGroups
		}
	}
	t.Fatalf("course %v was not found", forecastID)
	return nil
}

func TestAnnotateTimeConflicts(t *testing.T) {
	builder := NewBuilder(CrossListTable{})

	t.Run("Overlapping sections share a time group", func(t *testing.T) {
		courses, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "M", 540, 645),
			section("FNCE6210001", "Q1", "M", 600, 705),
		})

		assert.Nil(t, err)
		expected := []string{"time_Q1_M_ACCT6110001_FNCE6210001"}
		assert.Equal(t, expected, groupsOf(t, courses, "ACCT6110001"))
		assert.Equal(t, expected, groupsOf(t, courses, "FNCE6210001"))
	})

	t.Run("Back-to-back sections never conflict", func(t *testing.T) {
		courses, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "M", 540, 645),
			section("FNCE6210001", "Q1", "M", 645, 750),
		})

		assert.Nil(t, err)
		assert.Empty(t, groupsOf(t, courses, "ACCT6110001"))
		assert.Empty(t, groupsOf(t, courses, "FNCE6210001"))
	})

	t.Run("Sentinel times never conflict", func(t *testing.T) {
		courses, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "M", 0, 0),
			section("FNCE6210001", "Q1", "M", 0, 60),
			section("MGMT6110001", "Q1", "M", 0, 0),
		})

		assert.Nil(t, err)
		assert.Empty(t, groupsOf(t, courses, "ACCT6110001"))
		assert.Empty(t, groupsOf(t, courses, "FNCE6210001"))
		assert.Empty(t, groupsOf(t, courses, "MGMT6110001"))
	})

	t.Run("Disjoint quarters or days never conflict", func(t *testing.T) {
		courses, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "M", 540, 645),
			section("FNCE6210001", "Q2", "M", 540, 645),
			section("MGMT6110001", "Q1", "T", 540, 645),
			section("MKTG6120001", "Q1", "TBA", 540, 645),
		})

		assert.Nil(t, err)
		for _, course := range courses {
			assert.Empty(t, course.ConflictGroups)
		}
	})

	t.Run("Paired day codes expand before matching", func(t *testing.T) {
		courses, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Full", "MW", 540, 645),
			section("FNCE6210001", "Q1", "MW", 600, 705),
		})

		assert.Nil(t, err)
		expected := []string{
			"time_Q1_M_ACCT6110001_FNCE6210001",
			"time_Q1_W_ACCT6110001_FNCE6210001",
		}
		assert.Equal(t, expected, groupsOf(t, courses, "ACCT6110001"))
		assert.Equal(t, expected, groupsOf(t, courses, "FNCE6210001"))
	})
}

func TestAnnotateSectionGroups(t *testing.T) {
	builder := NewBuilder(CrossListTable{})

	t.Run("Alternate sections are mutually exclusive", func(t *testing.T) {
		courses, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "TBA", 0, 0),
			section("ACCT6110002", "Q2", "TBA", 0, 0),
			section("FNCE6210001", "Q1", "TBA", 0, 0),
		})

		assert.Nil(t, err)
		assert.Equal(t, []string{"section_ACCT6110"}, groupsOf(t, courses, "ACCT6110001"))
		assert.Equal(t, []string{"section_ACCT6110"}, groupsOf(t, courses, "ACCT6110002"))
		assert.Empty(t, groupsOf(t, courses, "FNCE6210001"))
	})

	t.Run("Cross-listed identities merge through the override table", func(t *testing.T) {
		crossListed := NewBuilder(CrossListTable{
			"ACCT7970": "TABS",
			"FNCE7970": "TABS",
		})

		courses, err := crossListed.Annotate([]catalog.RawSection{
			section("ACCT7970001", "Q1", "TBA", 0, 0),
			section("FNCE7970001", "Q2", "TBA", 0, 0),
		})

		assert.Nil(t, err)
		assert.Equal(t, []string{"section_TABS"}, groupsOf(t, courses, "ACCT7970001"))
		assert.Equal(t, []string{"section_TABS"}, groupsOf(t, courses, "FNCE7970001"))
	})
}

func TestAnnotateInput(t *testing.T) {
	builder := NewBuilder(CrossListTable{})

	t.Run("List fields are decoded", func(t *testing.T) {
		row := section("ACCT6110001", "Q1", "M", 540, 645)
		row.Instructors = "Ada Lovelace, Alan Turing"
		row.TruncatedPriceFluctuations = "[120, 340.5]"

		courses, err := builder.Annotate([]catalog.RawSection{row})

		assert.Nil(t, err)
		assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, courses[0].Instructors)
		assert.Equal(t, []float64{120, 340.5}, courses[0].TruncatedPriceFluctuations)
		assert.Equal(t, []string{"Q1"}, courses[0].PartOfTerm)
	})

	t.Run("Duplicate forecast ids are rejected", func(t *testing.T) {
		_, err := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "M", 540, 645),
			section("ACCT6110001", "Q2", "T", 540, 645),
		})

		assert.ErrorContains(t, err, "ACCT6110001")
	})

	t.Run("Unknown codes halt the batch", func(t *testing.T) {
		_, dayErr := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Q1", "XX", 540, 645),
		})
		var unknownDay catalog.UnknownDayCodeError
		assert.ErrorAs(t, dayErr, &unknownDay)

		_, termErr := builder.Annotate([]catalog.RawSection{
			section("ACCT6110001", "Spring", "M", 540, 645),
		})
		var unknownTerm catalog.UnknownTermCodeError
		assert.ErrorAs(t, termErr, &unknownTerm)
	})

	t.Run("Deterministic and idempotent", func(t *testing.T) {
		rows := []catalog.RawSection{
			section("ACCT6110001", "Full", "MW", 540, 645),
			section("ACCT6110002", "Q1", "MW", 600, 705),
			section("FNCE6210001", "Q1", "M", 540, 645),
			section("MGMT6110001", "Q3", "TBA", 0, 0),
		}

		first, err := builder.Annotate(rows)
		assert.Nil(t, err)
		second, err := builder.Annotate(rows)
		assert.Nil(t, err)

		assert.Equal(t, first, second)
	})
}
