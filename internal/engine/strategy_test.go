package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPopulation(fitnesses ...float64) []Individual {
	pop := make([]Individual, len(fitnesses))
	for i, f := range fitnesses {
		pop[i] = Individual{
			Chromosome: Chromosome{Order: []int{i}, BinOf: []int{0}, Rot: []int{0}},
			Fitness:    f,
		}
	}
	return pop
}

func TestTournamentSelector_PrefersFitter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := testPopulation(1, 2, 3, 4, 100)
	sel := TournamentSelector{Size: 5}

	// With tournament size equal to the population, the best individual
	// dominates the draws.
	wins := 0
	for i := 0; i < 200; i++ {
		if sel.Select(rng, pop).Fitness == 100 {
			wins++
		}
	}
	assert.Greater(t, wins, 100)
}

func TestRouletteSelector_ProportionalToFitness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := testPopulation(0, 0, 0, 90)
	sel := RouletteSelector{}

	wins := 0
	for i := 0; i < 500; i++ {
		if sel.Select(rng, pop).Fitness == 90 {
			wins++
		}
	}
	// All the shifted mass sits on the last individual.
	assert.Equal(t, 500, wins)
}

func TestRouletteSelector_UniformWhenFlat(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := testPopulation(5, 5, 5, 5)
	sel := RouletteSelector{}

	counts := map[int]int{}
	for i := 0; i < 1000; i++ {
		counts[sel.Select(rng, pop).Chromosome.Order[0]]++
	}
	for i := range pop {
		assert.Greater(t, counts[i], 150, "individual %d starved", i)
	}
}

func TestUniformCrossover_PreservesParentsAndMixesGenes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := Chromosome{Order: []int{0, 1, 2, 3}, BinOf: []int{0, 0, 0, 0}, Rot: []int{0, 0, 0, 0}}
	b := Chromosome{Order: []int{9, 9, 9, 9}, BinOf: []int{1, 1, 1, 1}, Rot: []int{1, 1, 1, 1}}
	aCopy := a.Clone()
	bCopy := b.Clone()

	child := UniformCrossover{}.Cross(rng, a, b)

	assert.Equal(t, aCopy, a, "parent a must not change")
	assert.Equal(t, bCopy, b, "parent b must not change")
	require.Equal(t, 4, child.Len())

	// At every position the child carries both parents' genes as a unit.
	for i := 0; i < 4; i++ {
		fromA := child.Order[i] == a.Order[i] && child.BinOf[i] == a.BinOf[i] && child.Rot[i] == a.Rot[i]
		fromB := child.Order[i] == b.Order[i] && child.BinOf[i] == b.BinOf[i] && child.Rot[i] == b.Rot[i]
		assert.True(t, fromA || fromB, "position %d mixes vectors across parents", i)
	}
}

func TestSinglePointCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := Chromosome{Order: []int{0, 0, 0, 0}, BinOf: []int{0, 0, 0, 0}, Rot: []int{0, 0, 0, 0}}
	b := Chromosome{Order: []int{1, 1, 1, 1}, BinOf: []int{1, 1, 1, 1}, Rot: []int{1, 1, 1, 1}}

	child := SinglePointCrossover{}.Cross(rng, a, b)

	// The child is a prefix of a followed by a suffix of b.
	switched := false
	for i := 0; i < child.Len(); i++ {
		if child.Order[i] == 1 {
			switched = true
		}
		if switched {
			assert.Equal(t, 1, child.Order[i], "gene %d reverted after the cut", i)
		} else {
			assert.Equal(t, 0, child.Order[i])
		}
	}
}

func TestResampleMutator(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := Chromosome{Order: []int{0, 1, 2, 3}, BinOf: []int{0, 1, 0, 1}, Rot: []int{0, 0, 1, 1}}
	orig := c.Clone()

	m := ResampleMutator{Rate: 1, ItemCount: 4, BinCount: 2}
	out := m.Mutate(rng, c)

	assert.Equal(t, orig, c, "input chromosome must not change")
	require.Equal(t, 4, out.Len())
	for i := 0; i < out.Len(); i++ {
		assert.GreaterOrEqual(t, out.Order[i], 0)
		assert.Less(t, out.Order[i], 4)
		assert.Less(t, out.BinOf[i], 2)
		assert.Less(t, out.Rot[i], 2)
	}

	// Rate zero is the identity.
	none := ResampleMutator{Rate: 0, ItemCount: 4, BinCount: 2}
	assert.Equal(t, orig, none.Mutate(rng, c))
}
