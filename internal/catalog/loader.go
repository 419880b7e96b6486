package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// RawSection is one unannotated section row as exported by the pricing
// pipeline. List-valued fields arrive as strings: instructors as a
// comma-separated list, price draws as a JSON array.
type RawSection struct {
	ForecastID                    string  `csv:"forecast_id"`
	Term                          int     `csv:"term"`
	Semester                      string  `csv:"semester"`
	Department                    string  `csv:"department"`
	SectionCode                   string  `csv:"section_code"`
	Title                         string  `csv:"title"`
	Instructors                   string  `csv:"instructors"`
	PartOfTerm                    string  `csv:"part_of_term"`
	DaysCode                      string  `csv:"days_code"`
	StartTime                     int     `csv:"start_time"`
	StopTime                      int     `csv:"stop_time"`
	Credits                       float64 `csv:"credits"`
	Capacity                      int     `csv:"capacity"`
	TruncatedPricePrediction      int     `csv:"truncated_price_prediction"`
	PricePredictionResidualMean   int     `csv:"price_prediction_residual_mean"`
	PricePredictionResidualStdDev int     `csv:"price_prediction_residual_std_dev"`
	TruncatedPriceFluctuations    string  `csv:"truncated_price_fluctuations"`
}

// InstructorList splits the comma-separated instructor field, preserving
// the original ordering.
func (row RawSection) InstructorList() []string {
	if strings.TrimSpace(row.Instructors) == "" {
		return []string{}
	}
	return lo.Map(strings.Split(row.Instructors, ","), func(name string, _ int) string {
		return strings.TrimSpace(name)
	})
}

// PriceDraws decodes the JSON array of precomputed price draws.
func (row RawSection) PriceDraws() ([]float64, error) {
	if strings.TrimSpace(row.TruncatedPriceFluctuations) == "" {
		return []float64{}, nil
	}
	var draws []float64
	if err := json.Unmarshal([]byte(row.TruncatedPriceFluctuations), &draws); err != nil {
		return nil, fmt.Errorf("cannot parse price draws of course %v: %w", row.ForecastID, err)
	}
	return draws, nil
}

// LoadRawSections reads unannotated section rows from a CSV file.
func LoadRawSections(file string, delimiter rune) ([]RawSection, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		reader := csv.NewReader(in)
		reader.Comma = delimiter
		return reader
	})

	sectionsFile, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open sections file: %w", err)
	}
	defer sectionsFile.Close()

	rows := []RawSection{}
	if err := gocsv.UnmarshalFile(sectionsFile, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse sections file %v: %w", file, err)
	}
	return rows, nil
}

// LoadCatalog reads an annotated catalog from a JSON file.
func LoadCatalog(file string) ([]CourseRecord, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog file: %w", err)
	}

	var catalogJson []map[string]any
	if err := json.Unmarshal(bytes, &catalogJson); err != nil {
		return nil, fmt.Errorf("cannot parse catalog file %v: %w", file, err)
	}

	var courses []CourseRecord
	if err := mapstructure.Decode(catalogJson, &courses); err != nil {
		return nil, fmt.Errorf("cannot decode catalog file %v: %w", file, err)
	}
	return courses, nil
}

// WriteCatalog writes an annotated catalog to a JSON file.
func WriteCatalog(file string, courses []CourseRecord) error {
	bytes, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal catalog: %w", err)
	}
	if err := os.WriteFile(file, bytes, 0666); err != nil {
		return fmt.Errorf("cannot write catalog file %v: %w", file, err)
	}
	return nil
}
