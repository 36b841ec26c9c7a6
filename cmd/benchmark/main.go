package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/genetic-timetabling/internal/config"
	"github.com/limaJavier/genetic-timetabling/pkg/genetic"
	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

type BenchmarkResult struct {
	Seed        uint64  `csv:"seed"`
	Generations int     `csv:"generations"`
	Fitness     float64 `csv:"fitness"`
	Penalty     int     `csv:"penalty"`
	Solved      bool    `csv:"solved"`
	Duration    int64   `csv:"duration_ms"`
}

type Summary struct {
	Runs            int
	Solved          int
	SuccessRate     float64
	MeanGenerations float64
	MinGenerations  int
	MaxGenerations  int
	MeanDuration    float64 // Milliseconds
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Define arguments
	filePathPtr := flag.String("file", "", "Path to a JSON input file")
	dirPathPtr := flag.String("dir", "", "Path to a directory holding the CSV input files")
	runsPtr := flag.Int("runs", 10, "Number of independently seeded runs")
	seedPtr := flag.Uint64("seed", max(cfg.Seed, 1), "Seed of the first run; run i uses seed+i")
	parallelismPtr := flag.Int("parallelism", runtime.GOMAXPROCS(0), "Number of runs executed at the same time")
	outFilePathPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where the results will be written")
	flag.Parse()

	// Validate arguments
	if (*filePathPtr == "") == (*dirPathPtr == "") {
		log.Fatal("exactly one of -file or -dir must be specified")
	} else if *runsPtr < 1 {
		log.Fatalf("runs must be greater than 0: %v", *runsPtr)
	} else if *parallelismPtr < 1 {
		log.Fatalf("parallelism must be greater than 0: %v", *parallelismPtr)
	}

	// Extract input
	var input model.ModelInput
	if *filePathPtr != "" {
		input, err = model.InputFromJson(*filePathPtr)
	} else {
		input, err = model.InputFromCsv(*dirPathPtr)
	}
	if err != nil {
		log.Fatalf("cannot parse input: %v", err)
	}

	fmt.Printf("Benchmarking %v runs of population %v over at most %v generations\n", *runsPtr, cfg.Genetic.PopulationSize, cfg.Genetic.Generations)
	results, err := benchmark(context.Background(), input, cfg.GeneticConfig(), *seedPtr, *runsPtr, *parallelismPtr)
	if err != nil {
		log.Fatalf("an error occurred during the benchmark: %v", err)
	}

	toCsv(results, *outFilePathPtr)

	summary := summarize(results)
	fmt.Printf("Solved: %v/%v (%.1f%%)\n", summary.Solved, summary.Runs, summary.SuccessRate*100)
	fmt.Printf("Generations: mean %.1f, min %v, max %v\n", summary.MeanGenerations, summary.MinGenerations, summary.MaxGenerations)
	fmt.Printf("Duration(ms): mean %.1f\n", summary.MeanDuration)
}

// benchmark runs one engine per seed, seed to seed+runs-1, and returns the results in seed order.
func benchmark(ctx context.Context, input model.ModelInput, geneticConfig genetic.Config, seed uint64, runs, parallelism int) ([]BenchmarkResult, error) {
	p := pool.NewWithResults[BenchmarkResult]().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(parallelism)
	for i := range runs {
		runSeed := seed + uint64(i)
		p.Go(func(ctx context.Context) (BenchmarkResult, error) {
			engine, err := genetic.NewEngine(geneticConfig, genetic.WithSeed(runSeed))
			if err != nil {
				return BenchmarkResult{}, err
			}

			start := time.Now()
			result, err := engine.Run(ctx, input)
			if err != nil {
				return BenchmarkResult{}, fmt.Errorf("seed %v: %w", runSeed, err)
			}

			return BenchmarkResult{
				Seed:        runSeed,
				Generations: result.Generations,
				Fitness:     result.Best.Fitness,
				Penalty:     result.Best.Penalty,
				Solved:      result.Solved,
				Duration:    time.Since(start).Milliseconds(),
			}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b BenchmarkResult) int {
		if a.Seed < b.Seed {
			return -1
		} else if a.Seed > b.Seed {
			return 1
		}
		return 0
	})
	return results, nil
}

func summarize(results []BenchmarkResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	solved := lo.CountBy(results, func(result BenchmarkResult) bool { return result.Solved })
	generations := lo.Map(results, func(result BenchmarkResult, _ int) int { return result.Generations })
	runs := float64(len(results))

	return Summary{
		Runs:            len(results),
		Solved:          solved,
		SuccessRate:     float64(solved) / runs,
		MeanGenerations: float64(lo.Sum(generations)) / runs,
		MinGenerations:  lo.Min(generations),
		MaxGenerations:  lo.Max(generations),
		MeanDuration:    float64(lo.SumBy(results, func(result BenchmarkResult) int64 { return result.Duration })) / runs,
	}
}

func toCsv(results []BenchmarkResult, path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}
