package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/limaJavier/genetic-timetabling/internal/config"
	"github.com/limaJavier/genetic-timetabling/pkg/genetic"
	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/limaJavier/genetic-timetabling/pkg/report"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Output struct {
	RunId       string              `json:"runId"`
	Generations int                 `json:"generations"`
	Fitness     float64             `json:"fitness"`
	Penalty     int                 `json:"penalty"`
	Solved      bool                `json:"solved"`
	Stopped     bool                `json:"stopped"`
	Repaired    bool                `json:"repaired"`
	Timetable   []report.SlotGroup  `json:"timetable"`
	Violations  []genetic.Violation `json:"violations"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Define arguments
	filePathPtr := flag.String("file", "", "Path to a JSON input file")
	dirPathPtr := flag.String("dir", "", "Path to a directory holding courses.csv, professors.csv, rooms.csv, timeslots.csv and lectures.csv")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	csvFilePathPtr := flag.String("csv", "", "Path to a CSV file where the best timetable will be written")
	plotFilePathPtr := flag.String("plot", "", "Path to a PNG file where the fitness curve will be drawn")
	repairPtr := flag.Bool("repair", false, "Reassign rooms of the best timetable, slot by slot, to remove room clashes and overflows")
	populationPtr := flag.Int("population", cfg.Genetic.PopulationSize, "Number of timetables per generation")
	generationsPtr := flag.Int("generations", cfg.Genetic.Generations, "Maximum number of generations")
	mutationPtr := flag.Float64("mutation", cfg.Genetic.MutationRate, "Probability (between 0 and 1) of mutating each lecture")
	elitismPtr := flag.Int("elitism", cfg.Genetic.ElitismCount, "Number of best timetables carried unchanged into the next generation")
	workersPtr := flag.Int("workers", cfg.Genetic.Workers, "Number of goroutines evaluating a generation")
	seedPtr := flag.Uint64("seed", cfg.Seed, "Seed of the random source; 0 draws a random seed")
	flag.Parse()

	cfg.Genetic.PopulationSize = *populationPtr
	cfg.Genetic.Generations = *generationsPtr
	cfg.Genetic.MutationRate = *mutationPtr
	cfg.Genetic.ElitismCount = *elitismPtr
	cfg.Genetic.Workers = *workersPtr
	cfg.Seed = *seedPtr

	// Validate arguments
	if (*filePathPtr == "") == (*dirPathPtr == "") {
		log.Fatal("exactly one of -file or -dir must be specified")
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	// Extract input
	input, err := loadInput(*filePathPtr, *dirPathPtr)
	if err != nil {
		logger.Fatal("cannot parse input", zap.Error(err))
	}

	// Initialize engine
	recorder := &report.FitnessRecorder{}
	options := []genetic.Option{
		genetic.WithLogger(logger),
		genetic.WithListener(report.NewLogListener(logger, cfg.LogEvery)),
		genetic.WithListener(recorder),
	}
	if cfg.Seed != 0 {
		options = append(options, genetic.WithSeed(cfg.Seed))
	}
	engine, err := genetic.NewEngine(cfg.GeneticConfig(), options...)
	if err != nil {
		logger.Fatal("cannot create engine", zap.Error(err))
	}

	// Build timetable
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := engine.Run(ctx, input)
	if err != nil && !result.Stopped {
		logger.Fatal("an error occurred during timetable construction", zap.Error(err))
	} else if err != nil {
		logger.Warn("run interrupted", zap.Error(err))
	}

	output, err := buildOutput(result, input, *repairPtr)
	if err != nil {
		logger.Fatal("cannot build output", zap.Error(err))
	}

	// Write results
	outputJson, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Fatal("an error occurred while building output json", zap.Error(err))
	}
	if *outFilePathPtr == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(*outFilePathPtr, outputJson, 0666); err != nil {
		logger.Fatal("an error occurred while writing to the output file", zap.Error(err))
	}

	if *csvFilePathPtr != "" {
		if err := writeCsv(*csvFilePathPtr, output.Timetable); err != nil {
			logger.Fatal("an error occurred while writing the csv file", zap.Error(err))
		}
	}
	if *plotFilePathPtr != "" {
		if err := recorder.SavePlot(*plotFilePathPtr, fmt.Sprintf("Run %v", result.RunId)); err != nil {
			logger.Fatal("an error occurred while drawing the fitness plot", zap.Error(err))
		}
	}

	logger.Sync()
	if output.Solved {
		os.Exit(10)
	}
	os.Exit(20)
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	return logger
}

func loadInput(file, dir string) (model.ModelInput, error) {
	if file != "" {
		return model.InputFromJson(file)
	}
	return model.InputFromCsv(dir)
}

// buildOutput resolves the best schedule of result, reassigning its rooms first when repair is set.
func buildOutput(result genetic.Result, input model.ModelInput, repair bool) (Output, error) {
	index := model.NewIndex(input)
	evaluator := genetic.NewEvaluator(input)

	best := result.Best
	repaired := false
	if repair && best.Penalty > 0 {
		schedule, reassigned, err := genetic.ReassignRooms(best.Schedule, input)
		if err != nil {
			return Output{}, err
		}
		fitness, penalty, err := evaluator.Evaluate(schedule)
		if err != nil {
			return Output{}, err
		}
		if penalty < best.Penalty {
			best = genetic.Individual{Schedule: schedule, Fitness: fitness, Penalty: penalty}
			repaired = reassigned > 0
		}
	}

	views, err := genetic.Views(best.Schedule, index)
	if err != nil {
		return Output{}, err
	}
	violations, err := evaluator.Violations(best.Schedule)
	if err != nil {
		return Output{}, err
	}

	return Output{
		RunId:       result.RunId,
		Generations: result.Generations,
		Fitness:     best.Fitness,
		Penalty:     best.Penalty,
		Solved:      best.Penalty == 0,
		Stopped:     result.Stopped,
		Repaired:    repaired,
		Timetable:   report.GroupByTimeSlot(views),
		Violations:  violations,
	}, nil
}

func writeCsv(path string, timetable []report.SlotGroup) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	views := lo.FlatMap(timetable, func(group report.SlotGroup, _ int) []genetic.GeneView { return group.Genes })
	return report.WriteScheduleCsv(file, views)
}
