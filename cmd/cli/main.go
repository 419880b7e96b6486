package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"coursecast/internal/aggregate"
	"coursecast/internal/catalog"
	"coursecast/internal/ilp"
	"coursecast/internal/optimize"
	"coursecast/internal/simulate"
)

var (
	validSolvers = []string{"branchbound", "cbc"}
	solvers      = map[string]func() ilp.Solver{
		"branchbound": ilp.NewBranchBoundSolver,
		"cbc":         ilp.NewCbcSolver,
	}
)

// scenarioFile is the on-disk shape of one bidding scenario.
type scenarioFile struct {
	Budget       float64            `mapstructure:"budget"`
	MaxCredits   float64            `mapstructure:"max_credits"`
	MinCredits   float64            `mapstructure:"min_credits"`
	Utilities    map[string]float64 `mapstructure:"utilities"`
	FixedCourses []string           `mapstructure:"fixed_courses"`
}

func main() {
	// Define arguments
	catalogPtr := flag.String("catalog", "", "Path to the annotated catalog JSON file")
	scenarioPtr := flag.String("scenario", "", "Path to the scenario JSON file")
	solverPtr := flag.String("solver", "branchbound", "ILP backend to use. Allowed values are: \"branchbound\", \"cbc\", where \"branchbound\" is the default")
	simulationsPtr := flag.Int("simulations", simulate.DefaultSeedCount, "Number of Monte Carlo runs")
	workersPtr := flag.Int("workers", 0, "Worker-pool size; 0 derives it from the available hardware parallelism")
	singlePtr := flag.Bool("single", false, "Run one optimization with point-forecast prices instead of a Monte Carlo batch")
	outFilePtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)

	// Validate arguments
	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if *catalogPtr == "" {
		log.Fatal("a catalog file must be specified")
	} else if *scenarioPtr == "" {
		log.Fatal("a scenario file must be specified")
	}

	// Extract input
	courses, err := catalog.LoadCatalog(*catalogPtr)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}
	scenario, err := scenarioFromJson(*scenarioPtr)
	if err != nil {
		log.Fatalf("cannot parse scenario file: %v", err)
	}

	request := optimize.Request{
		Budget:       scenario.Budget,
		MaxCredits:   scenario.MaxCredits,
		MinCredits:   scenario.MinCredits,
		Utilities:    scenario.Utilities,
		FixedCourses: scenario.FixedCourses,
		Courses:      courses,
	}
	if err := request.Validate(); err != nil {
		log.Fatalf("invalid scenario: %v", err)
	}

	// Initialize engines
	solver := solvers[solverStr]()

	var output any
	if *singlePtr {
		optimizer := optimize.NewOptimizer(solver)
		response, err := optimizer.Optimize(request, optimize.PointForecastPrices(courses))
		if err != nil {
			log.Fatalf("an error occurred during optimization: %v", err)
		}
		output = response
	} else {
		simulator := simulate.NewSimulator(solver, simulate.WithWorkers(*workersPtr))
		responses, err := simulator.RunBatch(context.Background(), request, *simulationsPtr)
		if err != nil {
			log.Fatalf("an error occurred during simulation: %v", err)
		}
		summary, err := aggregate.Probabilities(responses, courses)
		if err != nil {
			log.Fatalf("an error occurred during aggregation: %v", err)
		}
		output = summary
	}

	// Marshal output into json
	outputJson, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if *outFilePtr == "" {
		fmt.Println(string(outputJson))
	} else {
		err := os.WriteFile(*outFilePtr, outputJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}
}

func scenarioFromJson(file string) (scenarioFile, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return scenarioFile{}, err
	}

	var scenarioJson map[string]any
	if err := json.Unmarshal(bytes, &scenarioJson); err != nil {
		return scenarioFile{}, err
	}

	var scenario scenarioFile
	if err := mapstructure.Decode(scenarioJson, &scenario); err != nil {
		return scenarioFile{}, err
	}
	return scenario, nil
}
