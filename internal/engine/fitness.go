package engine

import "github.com/piwi3910/shapepack/internal/model"

// Evaluator scores a decoded placement. The score rewards both the raw
// value captured and spatial efficiency:
//
//	fitness = totalPackedValue + weight * avgUtilization
//
// where avgUtilization averages over non-empty containers only. The
// weight comes from configuration (default 100).
type Evaluator struct {
	UtilizationWeight float64
}

// NewEvaluator returns an evaluator with the given utilization weight.
func NewEvaluator(weight float64) *Evaluator {
	return &Evaluator{UtilizationWeight: weight}
}

// Score maps a PackingResult to a scalar fitness. Higher is better.
func (e *Evaluator) Score(r model.PackingResult) float64 {
	return r.TotalPackedValue + e.UtilizationWeight*r.AverageUtilization()
}
