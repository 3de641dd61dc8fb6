// Package report turns the winning packing into externally consumable
// artifacts: an ordered placement plan as JSON or text, a PDF layout
// document, QR-coded item labels, and DXF/XLSX exports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/shapepack/internal/model"
)

// PlanStep is one numbered placement instruction.
type PlanStep struct {
	Step     int     `json:"step"`
	ItemID   int     `json:"item_id"`
	ItemType string  `json:"item_type"`
	BinID    int     `json:"bin_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Shape    string  `json:"shape"`
}

// BinSummary describes one container's outcome.
type BinSummary struct {
	BinID       int     `json:"bin_id"`
	Utilization float64 `json:"utilization"`
	ItemsCount  int     `json:"items_count"`
}

// Report is the complete output contract of a finished run.
type Report struct {
	RunID         string       `json:"run_id"`
	Generations   int          `json:"generations"`
	Fitness       float64      `json:"fitness"`
	PackedValue   float64      `json:"packed_value"`
	WastedValue   float64      `json:"wasted_value"`
	UnplacedItems int          `json:"unplaced_items"`
	Plan          []PlanStep   `json:"plan"`
	Bins          []BinSummary `json:"bins"`
}

// Build assembles a report from the canonical decode of the best-ever
// chromosome. Containers are walked in catalog order and items in the
// order they were placed; step numbers run from 1 across the whole plan.
func Build(result model.PackingResult, fitness float64, runID string, generations int) Report {
	rep := Report{
		RunID:         runID,
		Generations:   generations,
		Fitness:       fitness,
		PackedValue:   result.TotalPackedValue,
		WastedValue:   result.TotalWastedValue,
		UnplacedItems: len(result.UnplacedItems),
	}

	step := 1
	for _, cr := range result.Containers {
		for _, p := range cr.Placed {
			rep.Plan = append(rep.Plan, PlanStep{
				Step:     step,
				ItemID:   p.Item.ID,
				ItemType: p.Item.Type,
				BinID:    cr.Container.ID,
				X:        p.Position.X,
				Y:        p.Position.Y,
				Width:    p.Dims.Width,
				Height:   p.Dims.Height,
				Shape:    p.Dims.Shape.String(),
			})
			step++
		}
		rep.Bins = append(rep.Bins, BinSummary{
			BinID:       cr.Container.ID,
			Utilization: cr.Utilization() * 100,
			ItemsCount:  len(cr.Placed),
		})
	}
	return rep
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteText writes a human-readable summary of the run.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", 64)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "OPTIMIZATION FINISHED")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Run:            %s\n", r.RunID)
	fmt.Fprintf(&b, "Generations:    %d\n", r.Generations)
	fmt.Fprintf(&b, "Best fitness:   %.2f\n", r.Fitness)
	fmt.Fprintf(&b, "Packed value:   $%.2f\n", r.PackedValue)
	fmt.Fprintf(&b, "Wasted value:   $%.2f\n", r.WastedValue)
	fmt.Fprintf(&b, "Unplaced items: %d\n", r.UnplacedItems)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Bin details:")
	for _, bin := range r.Bins {
		fmt.Fprintf(&b, "  Bin %d: %d items, %.1f%% utilization\n",
			bin.BinID, bin.ItemsCount, bin.Utilization)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
