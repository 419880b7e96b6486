package main

import (
	"flag"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

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

// simulateRequest is one scenario plus the batch size. When the caller
// sends no courses, the server's catalog is used.
type simulateRequest struct {
	optimize.Request
	SeedCount int `json:"seed_count"`
}

func main() {
	catalogPtr := flag.String("catalog", "", "Path to the annotated catalog JSON file")
	solverPtr := flag.String("solver", "branchbound", "ILP backend to use. Allowed values are: \"branchbound\", \"cbc\"")
	addressPtr := flag.String("address", ":8080", "Listen address")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)

	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if *catalogPtr == "" {
		log.Fatal("a catalog file must be specified")
	}

	courses, err := catalog.LoadCatalog(*catalogPtr)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	solver := solvers[solverStr]()
	optimizer := optimize.NewOptimizer(solver)
	simulator := simulate.NewSimulator(solver)

	router := gin.Default()

	router.GET("/courses", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, courses)
	})

	router.POST("/optimize", func(ctx *gin.Context) {
		var request optimize.Request
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(request.Courses) == 0 {
			request.Courses = courses
		}
		if err := request.Validate(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		response, err := optimizer.Optimize(request, optimize.PointForecastPrices(request.Courses))
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, response)
	})

	router.POST("/simulate", func(ctx *gin.Context) {
		var request simulateRequest
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(request.Courses) == 0 {
			request.Courses = courses
		}
		if request.SeedCount == 0 {
			request.SeedCount = simulate.DefaultSeedCount
		}
		if err := request.Validate(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		responses, err := simulator.RunBatch(ctx.Request.Context(), request.Request, request.SeedCount)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		summary, err := aggregate.Probabilities(responses, request.Courses)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"summary": summary, "responses": responses})
	})

	if err := router.Run(*addressPtr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
