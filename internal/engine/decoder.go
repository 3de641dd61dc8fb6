package engine

import (
	"sort"

	"github.com/piwi3910/shapepack/internal/model"
)

// Decoder deterministically turns a chromosome into a concrete placement
// using bottom-left-fill. It is a pure function of (chromosome, catalog):
// every decode works on fresh per-container working copies, so decodes of
// different chromosomes can run concurrently.
type Decoder struct {
	items      []model.Item
	containers []model.Container

	// Orientation lists are fixed per item, precomputed once.
	orientations [][]model.Dimensions
}

// NewDecoder builds a decoder over an immutable catalog.
func NewDecoder(items []model.Item, containers []model.Container) *Decoder {
	d := &Decoder{
		items:        items,
		containers:   containers,
		orientations: make([][]model.Dimensions, len(items)),
	}
	for i, it := range items {
		d.orientations[i] = it.Dims.Orientations()
	}
	return d
}

// Decode maps a chromosome to a PackingResult. Out-of-range BinOf and Rot
// genes are reduced modulo their ranges, negative-safe, rather than
// invalidating the item.
// Items with no feasible position stay unplaced; that is an expected
// outcome, not an error.
func (d *Decoder) Decode(c Chromosome) model.PackingResult {
	working := make([]model.ContainerResult, len(d.containers))
	for i, bin := range d.containers {
		working[i] = model.ContainerResult{Container: bin}
	}

	indices := make([]int, len(d.items))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return c.Order[indices[a]] < c.Order[indices[b]]
	})

	binCount := len(d.containers)
	for _, idx := range indices {
		bin := c.BinOf[idx] % binCount
		if bin < 0 {
			bin += binCount
		}

		ors := d.orientations[idx]
		rot := c.Rot[idx] % len(ors)
		if rot < 0 {
			rot += len(ors)
		}
		dims := ors[rot]

		target := &working[bin]
		pos, ok := bestFitPosition(target, dims)
		if !ok {
			continue
		}
		target.Placed = append(target.Placed, model.PlacedItem{
			Item:     d.items[idx],
			Position: pos,
			Dims:     dims,
		})
	}

	return d.assemble(working)
}

// assemble builds the PackingResult bookkeeping: unplaced items in catalog
// order, packed and wasted value totals.
func (d *Decoder) assemble(working []model.ContainerResult) model.PackingResult {
	placed := make(map[int]bool, len(d.items))
	for _, cr := range working {
		for _, p := range cr.Placed {
			placed[p.Item.ID] = true
		}
	}

	result := model.PackingResult{Containers: working}
	for _, it := range d.items {
		if placed[it.ID] {
			result.TotalPackedValue += it.Price
		} else {
			result.UnplacedItems = append(result.UnplacedItems, it)
			result.TotalWastedValue += it.Price
		}
	}
	return result
}

// bestFitPosition runs the bottom-left-fill search: candidates are the
// origin plus the right and top corners of every placed item, in placement
// order. Among candidates that fit the container and overlap nothing, the
// lowest y wins, then the lowest x, then the first generated.
func bestFitPosition(cr *model.ContainerResult, dims model.Dimensions) (model.Position, bool) {
	candidates := make([]model.Position, 0, 1+2*len(cr.Placed))
	candidates = append(candidates, model.Position{})
	for _, p := range cr.Placed {
		candidates = append(candidates,
			model.Position{X: p.Position.X + p.Dims.Width, Y: p.Position.Y},
			model.Position{X: p.Position.X, Y: p.Position.Y + p.Dims.Height},
		)
	}

	var best model.Position
	found := false
	for _, pos := range candidates {
		if !model.Fits(pos, dims, cr.Container) {
			continue
		}
		candidate := model.PlacedItem{Position: pos, Dims: dims}
		overlapping := false
		for _, p := range cr.Placed {
			if candidate.Overlaps(p) {
				overlapping = true
				break
			}
		}
		if overlapping {
			continue
		}
		if !found || pos.Y < best.Y || (pos.Y == best.Y && pos.X < best.X) {
			best = pos
			found = true
		}
	}
	return best, found
}
