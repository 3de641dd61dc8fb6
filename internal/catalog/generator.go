package catalog

import (
	"fmt"
	"math/rand"

	"github.com/piwi3910/shapepack/internal/model"
)

// Demo returns the built-in benchmark catalog: a fixed mix of rectangles,
// triangles and circles packed into four containers of different sizes.
// Used when no input file is given.
func Demo() Catalog {
	type group struct {
		count int
		label string
		w, h  float64
		shape model.ShapeKind
		price float64
	}
	groups := []group{
		{15, "Rectangle A", 50, 50, model.Rectangle, 100},
		{25, "Rectangle B", 35, 45, model.Rectangle, 150},
		{40, "Rectangle C", 25, 30, model.Rectangle, 70},
		{60, "Rectangle D", 30, 40, model.Rectangle, 300},
		{30, "Triangle Small", 30, 30, model.Triangle, 120},
		{20, "Triangle Large", 45, 45, model.Triangle, 180},
		{25, "Circle Small", 30, 30, model.Circle, 90},
		{15, "Circle Medium", 40, 40, model.Circle, 200},
	}

	var cat Catalog
	id := 0
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			cat.Items = append(cat.Items, model.Item{
				ID:    id,
				Type:  g.label,
				Dims:  model.Dimensions{Width: g.w, Height: g.h, Shape: g.shape},
				Price: g.price,
			})
			id++
		}
	}

	sizes := [][2]float64{{220, 220}, {180, 200}, {200, 180}, {160, 160}}
	for i, s := range sizes {
		cat.Containers = append(cat.Containers, model.Container{
			ID:   i,
			Dims: model.Dimensions{Width: s[0], Height: s[1], Shape: model.Rectangle},
		})
	}
	return cat
}

// Random generates a reproducible random catalog for benchmarking. Shapes,
// dimensions and prices are drawn from the same ranges the demo catalog
// covers; containers get sizes large enough to hold several items each.
func Random(itemCount, containerCount int, seed int64) Catalog {
	rng := rand.New(rand.NewSource(seed))
	shapes := []model.ShapeKind{model.Rectangle, model.Triangle, model.Circle}

	var cat Catalog
	for i := 0; i < itemCount; i++ {
		shape := shapes[rng.Intn(len(shapes))]
		w := 20 + rng.Float64()*40
		h := 20 + rng.Float64()*40
		if shape == model.Circle {
			h = w
		}
		cat.Items = append(cat.Items, model.Item{
			ID:    i,
			Type:  fmt.Sprintf("%s %d", shape, i),
			Dims:  model.Dimensions{Width: w, Height: h, Shape: shape},
			Price: 50 + float64(rng.Intn(10))*25,
		})
	}
	for i := 0; i < containerCount; i++ {
		cat.Containers = append(cat.Containers, model.Container{
			ID:   i,
			Dims: model.Dimensions{Width: 150 + rng.Float64()*100, Height: 150 + rng.Float64()*100, Shape: model.Rectangle},
		})
	}
	return cat
}
