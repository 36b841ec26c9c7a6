package genetic

import (
	"context"
	"errors"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type State int32

const (
	Idle State = iota
	Running
	Terminated
)

func (state State) String() string {
	switch state {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

var (
	ErrNotRunning     = errors.New("engine is not running")
	ErrAlreadyRunning = errors.New("engine is already running")
	ErrStopped        = errors.New("run was stopped")
	ErrNoResult       = errors.New("no generation has been evaluated")
)

type Option func(engine *Engine)

// WithRand sets the random source of the engine. The engine must be its only user.
func WithRand(rng *rand.Rand) Option {
	return func(engine *Engine) {
		engine.rng = rng
	}
}

func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

func WithLogger(logger *zap.Logger) Option {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// WithListener registers a progress listener. Listeners run on the goroutine
// driving the engine and must not call its methods other than State and Stop.
func WithListener(listener Listener) Option {
	return func(engine *Engine) {
		engine.listeners = append(engine.listeners, listener)
	}
}

// Engine is a single evolution session. Every Start begins a fresh run; all
// run state belongs to the engine, so independent engines may run concurrently.
type Engine struct {
	config    Config
	rng       *rand.Rand
	logger    *zap.Logger
	listeners []Listener

	mu    sync.Mutex
	state atomic.Int32
	stop  atomic.Bool

	//** Run state
	runId      string
	index      *model.Index
	evaluator  *Evaluator
	roomIds    []string
	timeSlots  []model.TimeSlot
	population Population
	generation int
	best       *Individual
	stopped    bool
}

type Result struct {
	RunId       string
	Generations int
	Best        Individual
	Schedule    []GeneView
	Solved      bool // The best schedule has no violation
	Stopped     bool // The run was stopped before meeting a stop condition
}

func NewEngine(config Config, options ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: config,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(engine)
	}
	if engine.rng == nil {
		engine.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return engine, nil
}

func (engine *Engine) State() State {
	return State(engine.state.Load())
}

// Start begins a run over input. It returns false without doing anything when
// a run is already in progress.
func (engine *Engine) Start(input model.ModelInput) (bool, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.State() == Running {
		return false, nil
	}
	engine.reset()

	population, err := InitializePopulation(input, engine.config.PopulationSize, engine.rng)
	if err != nil {
		engine.logger.Error("cannot start run", zap.Error(err))
		return false, err
	}

	engine.runId = uuid.NewString()
	engine.index = model.NewIndex(input)
	engine.evaluator = &Evaluator{index: engine.index}
	engine.roomIds = input.RoomIds()
	engine.timeSlots = slices.Clone(input.TimeSlots)
	engine.population = population
	engine.stop.Store(false)
	engine.state.Store(int32(Running))

	engine.logger.Info("run started",
		zap.String("run", engine.runId),
		zap.Int("lectures", len(input.Lectures)),
		zap.Int("rooms", len(input.Rooms)),
		zap.Int("timeSlots", len(input.TimeSlots)),
		zap.Int("population", engine.config.PopulationSize),
		zap.Int("generations", engine.config.Generations),
	)
	return true, nil
}

// Stop asks the current run to end. A generation in progress is completed;
// the run terminates at the next generation boundary.
func (engine *Engine) Stop() {
	if engine.State() == Running {
		engine.stop.Store(true)
	}
}

// Step evaluates the current population, reports progress and, unless a stop
// condition is met, breeds the next population.
func (engine *Engine) Step() (Progress, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.State() != Running {
		return Progress{}, ErrNotRunning
	} else if engine.stop.Load() {
		engine.terminate(true)
		return Progress{}, ErrStopped
	}

	//** Evaluate
	individuals, err := EvaluatePopulation(engine.evaluator, engine.population, engine.config.Workers)
	if err != nil {
		return Progress{}, engine.abort(err)
	}
	SortByFitness(individuals)

	if engine.best == nil || individuals[0].Fitness > engine.best.Fitness {
		best := individuals[0]
		engine.best = &best
	}
	engine.generation++

	views, err := Views(engine.best.Schedule, engine.index)
	if err != nil {
		return Progress{}, engine.abort(err)
	}

	progress := Progress{
		RunId:                 engine.runId,
		Generation:            engine.generation,
		BestFitness:           engine.best.Fitness,
		BestPenalty:           engine.best.Penalty,
		BestSchedule:          views,
		GenerationBestFitness: individuals[0].Fitness,
		MeanFitness:           meanFitness(individuals),
		Done:                  engine.generation >= engine.config.Generations || engine.best.Fitness == 1,
	}

	engine.logger.Debug("generation evaluated",
		zap.String("run", engine.runId),
		zap.Int("generation", progress.Generation),
		zap.Float64("bestFitness", progress.BestFitness),
		zap.Int("bestPenalty", progress.BestPenalty),
		zap.Float64("meanFitness", progress.MeanFitness),
	)

	//** Select and vary
	if progress.Done {
		engine.terminate(false)
	} else {
		selected := Select(individuals, engine.config.PopulationSize, engine.config.ElitismCount, engine.rng)
		engine.population = Breed(
			selected,
			engine.config.PopulationSize,
			engine.config.ElitismCount,
			engine.roomIds,
			engine.timeSlots,
			engine.config.MutationRate,
			engine.rng,
		)
	}

	for _, listener := range engine.listeners {
		listener.OnProgress(progress)
	}
	return progress, nil
}

// Run starts a run and steps it until a stop condition is met, yielding
// between generations. Cancelling ctx stops the run at the next generation
// boundary; the partial result is returned along with ctx's error.
func (engine *Engine) Run(ctx context.Context, input model.ModelInput) (Result, error) {
	started, err := engine.Start(input)
	if err != nil {
		return Result{}, err
	} else if !started {
		return Result{}, ErrAlreadyRunning
	}

	for {
		progress, err := engine.Step()
		if errors.Is(err, ErrStopped) {
			result, resultErr := engine.Result()
			if resultErr != nil {
				return Result{}, errors.Join(ctx.Err(), resultErr)
			}
			return result, ctx.Err()
		} else if err != nil {
			return Result{}, err
		} else if progress.Done {
			return engine.Result()
		}

		if ctx.Err() != nil {
			engine.Stop()
		}
		runtime.Gosched()
	}
}

// Result reports the best individual of the current or last run.
func (engine *Engine) Result() (Result, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.best == nil {
		return Result{}, ErrNoResult
	}
	views, err := Views(engine.best.Schedule, engine.index)
	if err != nil {
		return Result{}, err
	}

	return Result{
		RunId:       engine.runId,
		Generations: engine.generation,
		Best:        *engine.best,
		Schedule:    views,
		Solved:      engine.best.Fitness == 1,
		Stopped:     engine.stopped,
	}, nil
}

func (engine *Engine) terminate(stopped bool) {
	engine.population = nil
	engine.stopped = stopped
	engine.state.Store(int32(Terminated))

	fields := []zap.Field{
		zap.String("run", engine.runId),
		zap.Int("generations", engine.generation),
		zap.Bool("stopped", stopped),
	}
	if engine.best != nil {
		fields = append(fields, zap.Float64("bestFitness", engine.best.Fitness), zap.Int("bestPenalty", engine.best.Penalty))
	}
	engine.logger.Info("run terminated", fields...)
}

// abort discards the run and returns the engine to Idle.
func (engine *Engine) abort(err error) error {
	engine.logger.Error("run aborted", zap.String("run", engine.runId), zap.Int("generation", engine.generation), zap.Error(err))
	engine.reset()
	return err
}

func (engine *Engine) reset() {
	engine.runId = ""
	engine.index = nil
	engine.evaluator = nil
	engine.roomIds = nil
	engine.timeSlots = nil
	engine.population = nil
	engine.generation = 0
	engine.best = nil
	engine.stopped = false
	engine.stop.Store(false)
	engine.state.Store(int32(Idle))
}

func meanFitness(individuals []Individual) float64 {
	return lo.SumBy(individuals, func(individual Individual) float64 { return individual.Fitness }) / float64(len(individuals))
}
