package engine

// RunState is what termination predicates see after each generation.
type RunState struct {
	// Generation is the index of the generation just completed, starting at 1.
	Generation int
	// BestFitness is the best fitness seen across the whole run so far.
	BestFitness float64
	// StaleGenerations counts consecutive generations without improvement
	// of BestFitness.
	StaleGenerations int
}

// Predicate reports whether the search should stop.
type Predicate func(RunState) bool

// FixedGenerations stops once n generations have completed.
func FixedGenerations(n int) Predicate {
	return func(s RunState) bool {
		return s.Generation >= n
	}
}

// SteadyFitness stops when the best fitness has not improved for k
// consecutive generations.
func SteadyFitness(k int) Predicate {
	return func(s RunState) bool {
		return s.StaleGenerations >= k
	}
}

// AnyOf combines predicates; the search stops as soon as one fires.
func AnyOf(preds ...Predicate) Predicate {
	return func(s RunState) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}
