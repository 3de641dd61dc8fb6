package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piwi3910/shapepack/internal/model"
)

func smallProblem() ([]model.Item, []model.Container) {
	items := []model.Item{
		rectItem(1, 40, 30, 10),
		rectItem(2, 40, 30, 10),
		rectItem(3, 20, 20, 5),
		rectItem(4, 50, 25, 15),
		rectItem(5, 30, 30, 8),
		{ID: 6, Type: "disc", Dims: model.Dimensions{Width: 25, Height: 25, Shape: model.Circle}, Price: 6},
		{ID: 7, Type: "gusset", Dims: model.Dimensions{Width: 30, Height: 20, Shape: model.Triangle}, Price: 4},
	}
	bins := []model.Container{squareBin(1, 100), squareBin(2, 80)}
	return items, bins
}

func fastParams() Params {
	p := DefaultParams()
	p.PopulationSize = 30
	p.MaxGenerations = 25
	p.SteadyGenerations = 10
	p.Workers = 2
	return p
}

func TestNew_Validation(t *testing.T) {
	items, bins := smallProblem()

	_, err := New(nil, bins, fastParams(), nil)
	assert.Error(t, err)

	_, err = New(items, nil, fastParams(), nil)
	assert.Error(t, err)

	bad := fastParams()
	bad.PopulationSize = 0
	_, err = New(items, bins, bad, nil)
	assert.Error(t, err)

	bad = fastParams()
	bad.OffspringFraction = 1.5
	_, err = New(items, bins, bad, nil)
	assert.Error(t, err)
}

func TestRun_FindsValidPacking(t *testing.T) {
	items, bins := smallProblem()
	eng, err := New(items, bins, fastParams(), zap.NewNop())
	require.NoError(t, err)

	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Greater(t, result.Generations, 0)
	assert.Greater(t, result.BestFitness, 0.0)

	// The reported result must be the decode of the best chromosome.
	assert.Equal(t, eng.Decoder().Decode(result.BestChromosome), result.Best)

	// Every item is accounted for exactly once.
	total := result.Best.PlacedCount() + len(result.Best.UnplacedItems)
	assert.Equal(t, len(items), total)
}

func TestRun_DeterministicForSeed(t *testing.T) {
	items, bins := smallProblem()

	run := func() Result {
		eng, err := New(items, bins, fastParams(), zap.NewNop())
		require.NoError(t, err)
		r, err := eng.Run(context.Background())
		require.NoError(t, err)
		return r
	}

	a := run()
	b := run()
	assert.Equal(t, a.BestFitness, b.BestFitness)
	assert.Equal(t, a.BestChromosome, b.BestChromosome)
	assert.Equal(t, a.Generations, b.Generations)
}

func TestRun_BestFitnessMonotone(t *testing.T) {
	items, bins := smallProblem()

	var mu sync.Mutex
	var bests []float64
	obs := ObserverFunc(func(s Snapshot) {
		mu.Lock()
		bests = append(bests, s.BestFitness)
		mu.Unlock()
	})

	eng, err := New(items, bins, fastParams(), zap.NewNop(), WithObserver(obs))
	require.NoError(t, err)
	_, err = eng.Run(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, bests)
	for i := 1; i < len(bests); i++ {
		assert.GreaterOrEqual(t, bests[i], bests[i-1], "best fitness regressed at snapshot %d", i)
	}
}

func TestRun_ObserverDoesNotChangeOutcome(t *testing.T) {
	items, bins := smallProblem()

	plain, err := New(items, bins, fastParams(), zap.NewNop())
	require.NoError(t, err)
	expected, err := plain.Run(context.Background())
	require.NoError(t, err)

	// A panicking observer must neither crash the run nor perturb it.
	noisy, err := New(items, bins, fastParams(), zap.NewNop(),
		WithObserver(ObserverFunc(func(Snapshot) { panic("boom") })))
	require.NoError(t, err)
	got, err := noisy.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, expected.BestFitness, got.BestFitness)
	assert.Equal(t, expected.BestChromosome, got.BestChromosome)
}

func TestRun_Cancellation(t *testing.T) {
	items, bins := smallProblem()

	params := fastParams()
	params.MaxGenerations = 1000000
	params.SteadyGenerations = 1000000

	eng, err := New(items, bins, params, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := eng.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The best result so far is still returned.
	assert.Equal(t, 1, result.Generations)
	assert.NotEmpty(t, result.RunID)
	assert.Greater(t, result.BestFitness, 0.0)
}

func TestRun_SteadyFitnessStopsEarly(t *testing.T) {
	items, bins := smallProblem()

	params := fastParams()
	params.MaxGenerations = 100000
	params.SteadyGenerations = 5
	// Freeze evolution so fitness can never improve after generation one.
	eng, err := New(items, bins, params, zap.NewNop(),
		WithCrossovers(),
		WithMutator(ResampleMutator{Rate: 0, ItemCount: len(items), BinCount: len(bins)}))
	require.NoError(t, err)

	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Generations, 20, "run should stall out quickly")
}

func TestRun_CustomTermination(t *testing.T) {
	items, bins := smallProblem()
	eng, err := New(items, bins, fastParams(), zap.NewNop(),
		WithTermination(FixedGenerations(3)))
	require.NoError(t, err)

	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Generations)
}

func TestNewRandomChromosome_GeneRanges(t *testing.T) {
	items, bins := smallProblem()
	eng, err := New(items, bins, fastParams(), zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		c := newRandomChromosome(eng.rng, len(items), len(bins))
		require.Equal(t, len(items), c.Len())
		for g := 0; g < c.Len(); g++ {
			assert.Less(t, c.Order[g], len(items))
			assert.Less(t, c.BinOf[g], len(bins))
			assert.Less(t, c.Rot[g], 2)
		}
	}
}
