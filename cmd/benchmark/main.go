package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

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

type scenarioFile struct {
	Budget       float64            `mapstructure:"budget"`
	MaxCredits   float64            `mapstructure:"max_credits"`
	MinCredits   float64            `mapstructure:"min_credits"`
	Utilities    map[string]float64 `mapstructure:"utilities"`
	FixedCourses []string           `mapstructure:"fixed_courses"`
}

type benchmarkResult struct {
	Solver        string  `csv:"solver"`
	Workers       int     `csv:"workers"`
	Simulations   int     `csv:"simulations"`
	Courses       int     `csv:"courses"`
	DurationMs    int64   `csv:"duration_ms"`
	RunsPerSecond float64 `csv:"runs_per_second"`
	OptimalRuns   int     `csv:"optimal_runs"`
}

func main() {
	catalogPtr := flag.String("catalog", "", "Path to the annotated catalog JSON file")
	scenarioPtr := flag.String("scenario", "", "Path to the scenario JSON file")
	solversPtr := flag.String("solvers", "branchbound", "Comma-separated list of ILP backends to benchmark")
	workersPtr := flag.String("workers", "1,2,4,8", "Comma-separated list of worker-pool sizes to benchmark")
	simulationsPtr := flag.Int("simulations", simulate.DefaultSeedCount, "Number of Monte Carlo runs per measurement")
	outFilePtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where the results will be written")
	flag.Parse()

	if *catalogPtr == "" {
		log.Fatal("a catalog file must be specified")
	} else if *scenarioPtr == "" {
		log.Fatal("a scenario file must be specified")
	}

	solverNames := parseNameList(*solversPtr)
	for _, name := range solverNames {
		if !slices.Contains(validSolvers, name) {
			log.Fatalf("%v is not a valid solver", name)
		}
	}
	workerSizes, err := parseWorkerList(*workersPtr)
	if err != nil {
		log.Fatalf("cannot parse worker list: %v", err)
	}

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

	results := make([]benchmarkResult, 0, len(solverNames)*len(workerSizes))
	for _, solverName := range solverNames {
		for _, workers := range workerSizes {
			fmt.Printf("Benchmarking solver \"%v\" with %v workers and %v simulations\n", solverName, workers, *simulationsPtr)

			simulator := simulate.NewSimulator(solvers[solverName](), simulate.WithWorkers(workers))

			started := time.Now()
			responses, err := simulator.RunBatch(context.Background(), request, *simulationsPtr)
			if err != nil {
				log.Fatalf("an error occurred during simulation: %v", err)
			}
			elapsed := time.Since(started)

			optimalRuns := lo.CountBy(responses, func(response optimize.Response) bool {
				return response.OptimizationStatus == ilp.StatusOptimal
			})
			results = append(results, benchmarkResult{
				Solver:        solverName,
				Workers:       workers,
				Simulations:   *simulationsPtr,
				Courses:       len(courses),
				DurationMs:    elapsed.Milliseconds(),
				RunsPerSecond: runsPerSecond(len(responses), elapsed),
				OptimalRuns:   optimalRuns,
			})
		}
	}

	toCsv(results, *outFilePtr)
}

func parseNameList(value string) []string {
	return lo.Map(strings.Split(value, ","), func(name string, _ int) string {
		return strings.ToLower(strings.TrimSpace(name))
	})
}

func parseWorkerList(value string) ([]int, error) {
	sizes := make([]int, 0)
	for _, part := range strings.Split(value, ",") {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if size <= 0 {
			return nil, fmt.Errorf("worker-pool size must be positive: %v", size)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func runsPerSecond(runs int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(runs) / elapsed.Seconds()
}

func toCsv(results []benchmarkResult, outFile string) {
	file, err := os.Create(outFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV results: %v", err)
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
