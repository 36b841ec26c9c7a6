package genetic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	progress []Progress
}

func (r *recorder) OnProgress(progress Progress) {
	r.progress = append(r.progress, progress)
}

func newEngine(t *testing.T, config Config, seed uint64, options ...Option) *Engine {
	t.Helper()
	options = append([]Option{WithSeed(seed), WithLogger(zaptest.NewLogger(t))}, options...)
	engine, err := NewEngine(config, options...)
	require.NoError(t, err)
	return engine
}

func TestRunSolvableScenario(t *testing.T) {
	for seed := range uint64(10) {
		//** Arrange
		events := &recorder{}
		engine := newEngine(t, DefaultConfig(), seed, WithListener(events))

		//** Act
		result, err := engine.Run(context.Background(), solvableInput())

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Solved)
		assert.Equal(t, 1.0, result.Best.Fitness)
		assert.Equal(t, 0, result.Best.Penalty)
		assert.Less(t, result.Generations, DefaultGenerations)
		assert.Equal(t, Terminated, engine.State())

		require.Len(t, events.progress, result.Generations)
		last := events.progress[len(events.progress)-1]
		assert.True(t, last.Done)
		assert.Equal(t, 1.0, last.BestFitness)
		assert.Len(t, last.BestSchedule, 2)
	}
}

func TestRunUnsolvableScenario(t *testing.T) {
	//** Arrange
	events := &recorder{}
	engine := newEngine(t, DefaultConfig(), 42, WithListener(events))

	//** Act
	result, err := engine.Run(context.Background(), unsolvableInput())

	//** Assert
	require.NoError(t, err)
	assert.False(t, result.Solved)
	assert.Equal(t, DefaultGenerations, result.Generations)
	assert.Len(t, events.progress, DefaultGenerations)
	// Room clash (200) and professor clash (200) cannot be avoided
	assert.Equal(t, 400, result.Best.Penalty)
	assert.Equal(t, 1.0/401, result.Best.Fitness)
	assert.LessOrEqual(t, result.Best.Fitness, 1.0/201)
	for _, progress := range events.progress {
		assert.Less(t, progress.BestFitness, 1.0)
	}
}

func TestProgressEvents(t *testing.T) {
	events := &recorder{}
	config := DefaultConfig()
	config.Generations = 60
	engine := newEngine(t, config, 7, WithListener(events))

	result, err := engine.Run(context.Background(), mediumInput())
	require.NoError(t, err)

	require.Len(t, events.progress, result.Generations)
	for i, progress := range events.progress {
		assert.Equal(t, i+1, progress.Generation)
		assert.Equal(t, result.RunId, progress.RunId)
		assert.Equal(t, Fitness(progress.BestPenalty), progress.BestFitness)
		assert.LessOrEqual(t, progress.MeanFitness, progress.GenerationBestFitness+1e-12)
		assert.LessOrEqual(t, progress.GenerationBestFitness, progress.BestFitness)
		assert.Equal(t, i == len(events.progress)-1, progress.Done)
		assert.Len(t, progress.BestSchedule, len(mediumInput().Lectures))

		if i > 0 {
			previous := events.progress[i-1]
			// Elites survive unchanged, so neither the generation best nor the best ever can decrease
			assert.GreaterOrEqual(t, progress.GenerationBestFitness, previous.GenerationBestFitness)
			assert.GreaterOrEqual(t, progress.BestFitness, previous.BestFitness)
		}
	}

	view := events.progress[0].BestSchedule[0]
	assert.Equal(t, "C1", view.CourseId)
	assert.Equal(t, "Calculus", view.CourseName)
	assert.Equal(t, "Ada", view.ProfessorName)
}

func TestRunIsReproducible(t *testing.T) {
	config := DefaultConfig()
	config.Generations = 40

	first, err := newEngine(t, config, 99).Run(context.Background(), mediumInput())
	require.NoError(t, err)

	config.Workers = 4
	second, err := newEngine(t, config, 99).Run(context.Background(), mediumInput())
	require.NoError(t, err)

	assert.Equal(t, first.Generations, second.Generations)
	assert.Equal(t, first.Best, second.Best)
	assert.NotEqual(t, first.RunId, second.RunId)
}

func TestStartAndStep(t *testing.T) {
	t.Run("Step requires a run", func(t *testing.T) {
		engine := newEngine(t, DefaultConfig(), 1)

		_, err := engine.Step()

		assert.ErrorIs(t, err, ErrNotRunning)
		assert.Equal(t, Idle, engine.State())
	})

	t.Run("Start while running is ignored", func(t *testing.T) {
		engine := newEngine(t, DefaultConfig(), 1)

		started, err := engine.Start(mediumInput())
		require.NoError(t, err)
		require.True(t, started)
		progress, err := engine.Step()
		require.NoError(t, err)
		require.False(t, progress.Done)

		started, err = engine.Start(unsolvableInput())
		require.NoError(t, err)
		assert.False(t, started)

		progress, err = engine.Step()
		require.NoError(t, err)
		assert.Equal(t, 2, progress.Generation)
		assert.Len(t, progress.BestSchedule, len(mediumInput().Lectures))

		_, err = engine.Run(context.Background(), mediumInput())
		assert.ErrorIs(t, err, ErrAlreadyRunning)
	})

	t.Run("Restart after termination", func(t *testing.T) {
		config := DefaultConfig()
		config.Generations = 3
		engine := newEngine(t, config, 2)

		first, err := engine.Run(context.Background(), unsolvableInput())
		require.NoError(t, err)
		assert.Equal(t, 3, first.Generations)

		second, err := engine.Run(context.Background(), solvableInput())
		require.NoError(t, err)
		assert.NotEqual(t, first.RunId, second.RunId)
		assert.True(t, second.Solved)
		assert.Len(t, second.Schedule, 2)
	})

	t.Run("Step after termination", func(t *testing.T) {
		config := DefaultConfig()
		config.Generations = 1
		engine := newEngine(t, config, 3)

		_, err := engine.Run(context.Background(), unsolvableInput())
		require.NoError(t, err)

		_, err = engine.Step()
		assert.ErrorIs(t, err, ErrNotRunning)
	})
}

func TestStop(t *testing.T) {
	t.Run("Takes effect at the next generation", func(t *testing.T) {
		events := &recorder{}
		var engine *Engine
		engine = newEngine(t, DefaultConfig(), 4, WithListener(ListenerFunc(func(progress Progress) {
			if progress.Generation == 5 {
				engine.Stop()
			}
		})), WithListener(events))

		result, err := engine.Run(context.Background(), unsolvableInput())

		require.NoError(t, err)
		assert.True(t, result.Stopped)
		assert.Equal(t, 5, result.Generations)
		assert.Len(t, events.progress, 5)
		assert.Equal(t, Terminated, engine.State())
	})

	t.Run("Context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var engine *Engine
		engine = newEngine(t, DefaultConfig(), 5, WithListener(ListenerFunc(func(progress Progress) {
			if progress.Generation == 3 {
				cancel()
			}
		})))

		result, err := engine.Run(ctx, unsolvableInput())

		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, result.Stopped)
		assert.Equal(t, 3, result.Generations)
		assert.Equal(t, 400, result.Best.Penalty)
	})

	t.Run("Stop while idle", func(t *testing.T) {
		engine := newEngine(t, DefaultConfig(), 6)
		engine.Stop()

		result, err := engine.Run(context.Background(), solvableInput())

		require.NoError(t, err)
		assert.False(t, result.Stopped)
	})
}

func TestEngineErrors(t *testing.T) {
	t.Run("Invalid configuration", func(t *testing.T) {
		config := DefaultConfig()
		config.ElitismCount = config.PopulationSize + 1

		engine, err := NewEngine(config)

		var configErr model.ConfigurationError
		assert.True(t, errors.As(err, &configErr))
		assert.Nil(t, engine)
	})

	t.Run("Empty domain", func(t *testing.T) {
		engine := newEngine(t, DefaultConfig(), 1)
		input := solvableInput()
		input.TimeSlots = nil

		started, err := engine.Start(input)

		var configErr model.ConfigurationError
		assert.True(t, errors.As(err, &configErr))
		assert.False(t, started)
		assert.Equal(t, Idle, engine.State())
		_, err = engine.Result()
		assert.ErrorIs(t, err, ErrNoResult)
	})

	t.Run("Unknown reference aborts the run", func(t *testing.T) {
		events := &recorder{}
		engine := newEngine(t, DefaultConfig(), 1, WithListener(events))
		input := solvableInput()
		input.Lectures = append(input.Lectures, model.Lecture{Course: "C9", Professor: "P1"})

		_, err := engine.Run(context.Background(), input)

		var lookupErr model.LookupError
		require.True(t, errors.As(err, &lookupErr))
		assert.Equal(t, "C9", lookupErr.Id)
		assert.Equal(t, Idle, engine.State())
		assert.Empty(t, events.progress)
		_, err = engine.Result()
		assert.ErrorIs(t, err, ErrNoResult)
	})
}

func TestIndependentEngines(t *testing.T) {
	config := DefaultConfig()
	config.Generations = 30

	results := make([]Result, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine, err := NewEngine(config, WithSeed(uint64(i)))
			if err != nil {
				return
			}
			results[i], _ = engine.Run(context.Background(), mediumInput())
		}()
	}
	wg.Wait()

	for i, result := range results {
		assert.NotEmpty(t, result.RunId, "engine %v", i)
		assert.LessOrEqual(t, result.Generations, 30)
	}
}
