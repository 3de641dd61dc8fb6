// Package engine implements the generational genetic search over packing
// chromosomes: population initialization, parallel fitness evaluation,
// pluggable selection/crossover/mutation strategies, termination
// predicates and best-ever tracking.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/shapepack/internal/model"
)

// Params holds the tunable parameters of the genetic search.
type Params struct {
	PopulationSize           int
	MaxGenerations           int
	SteadyGenerations        int
	TournamentSize           int
	OffspringFraction        float64
	UniformCrossoverProb     float64
	SinglePointCrossoverProb float64
	MutationRate             float64
	UtilizationWeight        float64
	Workers                  int
	Seed                     int64
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		PopulationSize:           200,
		MaxGenerations:           500,
		SteadyGenerations:        70,
		TournamentSize:           5,
		OffspringFraction:        0.6,
		UniformCrossoverProb:     0.4,
		SinglePointCrossoverProb: 0.4,
		MutationRate:             0.2,
		UtilizationWeight:        100,
		Workers:                  runtime.NumCPU(),
		Seed:                     42,
	}
}

// Result is the outcome of a completed run: the best chromosome ever
// seen, its fitness and its canonical decode.
type Result struct {
	RunID          string
	BestFitness    float64
	BestChromosome Chromosome
	Best           model.PackingResult
	Generations    int
}

// Engine drives the generational loop. Construct with New, customize with
// options, then call Run once.
type Engine struct {
	params     Params
	items      []model.Item
	containers []model.Container
	decoder    *Decoder
	evaluator  *Evaluator
	rng        *rand.Rand

	survivors  Selector
	offspring  Selector
	crossovers []AppliedCrossover
	mutator    Mutator
	terminate  Predicate

	observers []Observer
	logger    *zap.Logger
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithObserver registers an observer for per-generation snapshots.
// Observers never influence the search outcome.
func WithObserver(obs Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, obs) }
}

// WithSurvivorSelector replaces the survivor selection strategy.
func WithSurvivorSelector(s Selector) Option {
	return func(e *Engine) { e.survivors = s }
}

// WithOffspringSelector replaces the offspring (parent) selection strategy.
func WithOffspringSelector(s Selector) Option {
	return func(e *Engine) { e.offspring = s }
}

// WithCrossovers replaces the crossover pipeline.
func WithCrossovers(ops ...AppliedCrossover) Option {
	return func(e *Engine) { e.crossovers = ops }
}

// WithMutator replaces the mutation operator.
func WithMutator(m Mutator) Option {
	return func(e *Engine) { e.mutator = m }
}

// WithTermination replaces the termination predicate.
func WithTermination(p Predicate) Option {
	return func(e *Engine) { e.terminate = p }
}

// New validates the problem and parameters and builds an engine with the
// reference strategy set: tournament survivors, roulette offspring,
// uniform + single-point crossover, per-gene resampling mutation, and
// any-of(generation cap, steady fitness) termination.
func New(items []model.Item, containers []model.Container, params Params, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("engine: no items to pack")
	}
	if len(containers) == 0 {
		return nil, fmt.Errorf("engine: no containers")
	}
	if params.PopulationSize <= 0 {
		return nil, fmt.Errorf("engine: population size must be positive, got %d", params.PopulationSize)
	}
	if params.MaxGenerations <= 0 {
		return nil, fmt.Errorf("engine: generation cap must be positive, got %d", params.MaxGenerations)
	}
	if params.OffspringFraction < 0 || params.OffspringFraction > 1 {
		return nil, fmt.Errorf("engine: offspring fraction must be in [0,1], got %g", params.OffspringFraction)
	}
	if params.Workers <= 0 {
		params.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		params:     params,
		items:      items,
		containers: containers,
		decoder:    NewDecoder(items, containers),
		evaluator:  NewEvaluator(params.UtilizationWeight),
		rng:        rand.New(rand.NewSource(params.Seed)),
		survivors:  TournamentSelector{Size: params.TournamentSize},
		offspring:  RouletteSelector{},
		crossovers: []AppliedCrossover{
			{Op: UniformCrossover{}, Prob: params.UniformCrossoverProb},
			{Op: SinglePointCrossover{}, Prob: params.SinglePointCrossoverProb},
		},
		mutator: ResampleMutator{
			Rate:      params.MutationRate,
			ItemCount: len(items),
			BinCount:  len(containers),
		},
		terminate: AnyOf(
			FixedGenerations(params.MaxGenerations),
			SteadyFitness(params.SteadyGenerations),
		),
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Decoder exposes the engine's decoder so callers can re-decode the
// winning chromosome or verify placements.
func (e *Engine) Decoder() *Decoder {
	return e.decoder
}

// Run executes the generational loop until a termination predicate fires
// or ctx is cancelled. Cancellation takes effect at generation boundaries
// only; the best result found so far is always returned.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	e.logger.Info("starting optimization run",
		zap.String("run_id", runID),
		zap.Int("items", len(e.items)),
		zap.Int("containers", len(e.containers)),
		zap.Int("population", e.params.PopulationSize))

	queue := newSnapshotQueue(e.observers, e.logger)
	defer queue.close()

	pop := make([]Individual, e.params.PopulationSize)
	for i := range pop {
		pop[i] = Individual{Chromosome: newRandomChromosome(e.rng, len(e.items), len(e.containers))}
	}

	var (
		bestEver    Chromosome
		bestFitness float64
		haveBest    bool
		stale       int
		generation  int
		fits        = make([]float64, len(pop))
	)

	for {
		generation++
		e.evaluate(pop)

		improved := false
		for i, ind := range pop {
			fits[i] = ind.Fitness
			if !haveBest || ind.Fitness > bestFitness {
				bestFitness = ind.Fitness
				bestEver = ind.Chromosome.Clone()
				haveBest = true
				improved = true
			}
		}
		if improved {
			stale = 0
		} else {
			stale++
		}

		queue.offer(Snapshot{
			RunID:          runID,
			Generation:     generation,
			BestFitness:    bestFitness,
			AverageFitness: stat.Mean(fits, nil),
			StdDevFitness:  stat.StdDev(fits, nil),
			Best:           e.decoder.Decode(bestEver),
		})

		state := RunState{
			Generation:       generation,
			BestFitness:      bestFitness,
			StaleGenerations: stale,
		}
		if e.terminate(state) {
			break
		}
		if ctx.Err() != nil {
			e.logger.Warn("run cancelled, returning best so far",
				zap.String("run_id", runID),
				zap.Int("generation", generation))
			break
		}

		pop = e.nextGeneration(pop)
	}

	result := Result{
		RunID:          runID,
		BestFitness:    bestFitness,
		BestChromosome: bestEver,
		Best:           e.decoder.Decode(bestEver),
		Generations:    generation,
	}
	e.logger.Info("optimization finished",
		zap.String("run_id", runID),
		zap.Int("generations", generation),
		zap.Float64("best_fitness", bestFitness),
		zap.Int("unplaced", len(result.Best.UnplacedItems)))
	return result, ctx.Err()
}

// evaluate scores the whole population on a bounded worker pool. Decoding
// and scoring are pure, so evaluations are independent; results land back
// at their index regardless of completion order.
func (e *Engine) evaluate(pop []Individual) {
	workers := e.params.Workers
	if workers > len(pop) {
		workers = len(pop)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				pop[i].Fitness = e.evaluator.Score(e.decoder.Decode(pop[i].Chromosome))
			}
		}()
	}
	for i := range pop {
		indices <- i
	}
	close(indices)
	wg.Wait()
}

// nextGeneration builds the successor population: survivors picked by the
// survivor strategy, the rest bred from offspring-selected parents through
// the crossover pipeline and the mutator. Population size is preserved and
// parents are never modified.
func (e *Engine) nextGeneration(pop []Individual) []Individual {
	offspringCount := int(float64(e.params.PopulationSize) * e.params.OffspringFraction)
	survivorCount := e.params.PopulationSize - offspringCount

	next := make([]Individual, 0, e.params.PopulationSize)
	for i := 0; i < survivorCount; i++ {
		next = append(next, Individual{Chromosome: e.survivors.Select(e.rng, pop).Chromosome.Clone()})
	}
	for i := 0; i < offspringCount; i++ {
		child := e.offspring.Select(e.rng, pop).Chromosome
		mate := e.offspring.Select(e.rng, pop).Chromosome
		for _, ac := range e.crossovers {
			if e.rng.Float64() < ac.Prob {
				child = ac.Op.Cross(e.rng, child, mate)
			}
		}
		next = append(next, Individual{Chromosome: e.mutator.Mutate(e.rng, child)})
	}
	return next
}
