package engine

import "math/rand"

// Selector picks one parent from an evaluated population. Implementations
// must not modify the population.
type Selector interface {
	Select(rng *rand.Rand, pop []Individual) Individual
}

// Crossover combines two parents into one child. Implementations must
// clone before modifying; parents stay untouched.
type Crossover interface {
	Cross(rng *rand.Rand, a, b Chromosome) Chromosome
}

// Mutator derives a mutated copy of a chromosome.
type Mutator interface {
	Mutate(rng *rand.Rand, c Chromosome) Chromosome
}

// TournamentSelector returns the fittest of Size uniformly drawn
// individuals.
type TournamentSelector struct {
	Size int
}

func (t TournamentSelector) Select(rng *rand.Rand, pop []Individual) Individual {
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < t.Size; i++ {
		candidate := pop[rng.Intn(len(pop))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}

// RouletteSelector implements fitness-proportionate selection. Fitness
// values are shifted so the minimum maps to zero; a population with no
// fitness spread degenerates to a uniform draw.
type RouletteSelector struct{}

func (RouletteSelector) Select(rng *rand.Rand, pop []Individual) Individual {
	minFit := pop[0].Fitness
	for _, ind := range pop[1:] {
		if ind.Fitness < minFit {
			minFit = ind.Fitness
		}
	}

	var total float64
	for _, ind := range pop {
		total += ind.Fitness - minFit
	}
	if total <= 0 {
		return pop[rng.Intn(len(pop))]
	}

	target := rng.Float64() * total
	var acc float64
	for _, ind := range pop {
		acc += ind.Fitness - minFit
		if acc >= target {
			return ind
		}
	}
	return pop[len(pop)-1]
}

// UniformCrossover swaps each gene position between the parents with
// probability 0.5, across all three vectors at once.
type UniformCrossover struct{}

func (UniformCrossover) Cross(rng *rand.Rand, a, b Chromosome) Chromosome {
	child := a.Clone()
	for i := 0; i < child.Len(); i++ {
		if rng.Float64() < 0.5 {
			child.Order[i] = b.Order[i]
			child.BinOf[i] = b.BinOf[i]
			child.Rot[i] = b.Rot[i]
		}
	}
	return child
}

// SinglePointCrossover copies genes from the first parent up to a random
// cut point and from the second parent after it.
type SinglePointCrossover struct{}

func (SinglePointCrossover) Cross(rng *rand.Rand, a, b Chromosome) Chromosome {
	child := a.Clone()
	n := child.Len()
	if n < 2 {
		return child
	}
	point := rng.Intn(n)
	copy(child.Order[point:], b.Order[point:])
	copy(child.BinOf[point:], b.BinOf[point:])
	copy(child.Rot[point:], b.Rot[point:])
	return child
}

// ResampleMutator redraws each gene uniformly from its range with
// probability Rate, independently per gene and per vector.
type ResampleMutator struct {
	Rate      float64
	ItemCount int
	BinCount  int
}

func (m ResampleMutator) Mutate(rng *rand.Rand, c Chromosome) Chromosome {
	out := c.Clone()
	for i := 0; i < out.Len(); i++ {
		if rng.Float64() < m.Rate {
			out.Order[i] = rng.Intn(m.ItemCount)
		}
		if rng.Float64() < m.Rate {
			out.BinOf[i] = rng.Intn(m.BinCount)
		}
		if rng.Float64() < m.Rate {
			out.Rot[i] = rng.Intn(2)
		}
	}
	return out
}

// AppliedCrossover pairs a crossover operator with its application
// probability. Each operator in the pipeline fires independently per
// offspring.
type AppliedCrossover struct {
	Op   Crossover
	Prob float64
}
