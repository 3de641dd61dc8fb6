package engine

import "math/rand"

// Chromosome encodes one candidate packing plan as three parallel integer
// vectors of length N (the item count):
//
//	Order[i]  sort key deciding processing order, ties broken by index
//	BinOf[i]  target container for item i
//	Rot[i]    orientation selector, taken modulo the item's orientation count
//
// Chromosomes are copy-on-modify: operators clone before changing anything,
// so a chromosome selected as a parent is never mutated in place.
type Chromosome struct {
	Order []int
	BinOf []int
	Rot   []int
}

// Len returns the number of items the chromosome encodes.
func (c Chromosome) Len() int {
	return len(c.Order)
}

// Clone returns a deep copy.
func (c Chromosome) Clone() Chromosome {
	out := Chromosome{
		Order: make([]int, len(c.Order)),
		BinOf: make([]int, len(c.BinOf)),
		Rot:   make([]int, len(c.Rot)),
	}
	copy(out.Order, c.Order)
	copy(out.BinOf, c.BinOf)
	copy(out.Rot, c.Rot)
	return out
}

// newRandomChromosome draws every gene uniformly from its range.
func newRandomChromosome(rng *rand.Rand, itemCount, binCount int) Chromosome {
	c := Chromosome{
		Order: make([]int, itemCount),
		BinOf: make([]int, itemCount),
		Rot:   make([]int, itemCount),
	}
	for i := 0; i < itemCount; i++ {
		c.Order[i] = rng.Intn(itemCount)
		c.BinOf[i] = rng.Intn(binCount)
		c.Rot[i] = rng.Intn(2)
	}
	return c
}

// Individual pairs a chromosome with its evaluated fitness.
type Individual struct {
	Chromosome Chromosome
	Fitness    float64
}
