// Package catalog loads and validates the immutable problem input: the
// items to pack and the containers to pack them into. A catalog is built
// once per run, before the engine starts; every validation failure here
// is fatal and nothing downstream ever sees an invalid catalog.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/piwi3910/shapepack/internal/model"
)

// Validation sentinels. Callers match them with errors.Is.
var (
	ErrEmptyCatalog = errors.New("catalog has no items")
	ErrNoContainers = errors.New("catalog has no containers")
)

// Catalog is the immutable input to one optimization run.
type Catalog struct {
	Items      []model.Item
	Containers []model.Container
}

// TotalValue returns the summed price of all items.
func (c Catalog) TotalValue() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price
	}
	return total
}

// jsonItem mirrors one entry of the "items" array in an input file.
type jsonItem struct {
	ID     int     `json:"id"`
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shape  string  `json:"shape"`
	Price  float64 `json:"price"`
}

// jsonBin mirrors one entry of the "bins" array in an input file.
type jsonBin struct {
	ID     int     `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonInput struct {
	Items []jsonItem `json:"items"`
	Bins  []jsonBin  `json:"bins"`
}

// LoadJSON reads a catalog from a JSON input file.
func LoadJSON(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read input file: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON builds a validated catalog from raw JSON input.
func ParseJSON(data []byte) (Catalog, error) {
	var in jsonInput
	if err := json.Unmarshal(data, &in); err != nil {
		return Catalog{}, fmt.Errorf("parse input JSON: %w", err)
	}

	cat := Catalog{
		Items:      make([]model.Item, 0, len(in.Items)),
		Containers: make([]model.Container, 0, len(in.Bins)),
	}
	for _, ji := range in.Items {
		shape, err := model.ParseShapeKind(ji.Shape)
		if err != nil {
			return Catalog{}, fmt.Errorf("item %d: %w", ji.ID, err)
		}
		cat.Items = append(cat.Items, model.Item{
			ID:    ji.ID,
			Type:  ji.Type,
			Dims:  model.Dimensions{Width: ji.Width, Height: ji.Height, Shape: shape},
			Price: ji.Price,
		})
	}
	for _, jb := range in.Bins {
		cat.Containers = append(cat.Containers, model.Container{
			ID:   jb.ID,
			Dims: model.Dimensions{Width: jb.Width, Height: jb.Height, Shape: model.Rectangle},
		})
	}

	if err := Validate(cat); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// Validate checks the pre-run invariants: non-empty item and container
// lists, unique ids, positive dimensions, non-negative prices.
func Validate(cat Catalog) error {
	if len(cat.Items) == 0 {
		return ErrEmptyCatalog
	}
	if len(cat.Containers) == 0 {
		return ErrNoContainers
	}

	seen := make(map[int]bool, len(cat.Items))
	for _, it := range cat.Items {
		if seen[it.ID] {
			return fmt.Errorf("duplicate item id %d", it.ID)
		}
		seen[it.ID] = true
		if it.Dims.Width <= 0 || it.Dims.Height <= 0 {
			return fmt.Errorf("item %d: non-positive dimensions %gx%g", it.ID, it.Dims.Width, it.Dims.Height)
		}
		if it.Price < 0 {
			return fmt.Errorf("item %d: negative price %g", it.ID, it.Price)
		}
	}

	seenBins := make(map[int]bool, len(cat.Containers))
	for _, c := range cat.Containers {
		if seenBins[c.ID] {
			return fmt.Errorf("duplicate container id %d", c.ID)
		}
		seenBins[c.ID] = true
		if c.Dims.Width <= 0 || c.Dims.Height <= 0 {
			return fmt.Errorf("container %d: non-positive dimensions %gx%g", c.ID, c.Dims.Width, c.Dims.Height)
		}
	}
	return nil
}
