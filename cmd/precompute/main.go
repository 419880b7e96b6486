package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"coursecast/internal/catalog"
	"coursecast/internal/conflict"
)

func main() {
	// Define arguments
	sectionsPtr := flag.String("sections", "", "Path to the raw section rows CSV file")
	crossListPtr := flag.String("crosslist", "", "Path to the cross-listing override table JSON file; if empty, no identities are merged")
	delimiterPtr := flag.String("delimiter", ",", "CSV field delimiter")
	zScoresPtr := flag.String("zscores", "", "Path to a JSON array of standard-normal draws; if set, price draws are realized for sections that carry none")
	priceCapPtr := flag.Float64("pricecap", catalog.DefaultPriceCap, "Maximum clearing price used when realizing price draws")
	outFilePtr := flag.String("out", "courses.json", "Path to the annotated catalog JSON file to write")
	flag.Parse()

	// Validate arguments
	if *sectionsPtr == "" {
		log.Fatal("a sections file must be specified")
	} else if len(*delimiterPtr) != 1 {
		log.Fatalf("delimiter must be a single character: %q", *delimiterPtr)
	}

	crossListings := conflict.CrossListTable{}
	if *crossListPtr != "" {
		table, err := conflict.LoadCrossListTable(*crossListPtr)
		if err != nil {
			log.Fatalf("cannot load cross-listing table: %v", err)
		}
		crossListings = table
	}

	rows, err := catalog.LoadRawSections(*sectionsPtr, rune((*delimiterPtr)[0]))
	if err != nil {
		log.Fatalf("cannot load section rows: %v", err)
	}

	builder := conflict.NewBuilder(crossListings)
	courses, err := builder.Annotate(rows)
	if err != nil {
		log.Fatalf("an error occurred during conflict-group construction: %v", err)
	}

	if *zScoresPtr != "" {
		zScores, err := loadZScores(*zScoresPtr)
		if err != nil {
			log.Fatalf("cannot load z-score file: %v", err)
		}
		catalog.MaterializeDraws(courses, zScores, *priceCapPtr)
	}

	if err := catalog.WriteCatalog(*outFilePtr, courses); err != nil {
		log.Fatalf("cannot write annotated catalog: %v", err)
	}
	fmt.Printf("Annotated %v sections into %v\n", len(courses), *outFilePtr)
}

func loadZScores(file string) ([]float64, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var zScores []float64
	if err := json.Unmarshal(bytes, &zScores); err != nil {
		return nil, fmt.Errorf("cannot parse z-score file %v: %w", file, err)
	}
	return zScores, nil
}
