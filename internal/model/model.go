// Package model defines the shape packing domain: items, containers,
// placements and the geometry rules used to fit axis-aligned bounding
// boxes into rectangular containers.
package model

import (
	"fmt"
	"math"
	"strings"
)

// ShapeKind identifies the true geometry of an item. Packing and overlap
// tests always use the axis-aligned bounding box; the kind only changes
// the area formula and how the item is drawn in exports.
type ShapeKind int

const (
	Rectangle ShapeKind = iota
	Triangle
	Circle
)

func (k ShapeKind) String() string {
	switch k {
	case Triangle:
		return "TRIANGLE"
	case Circle:
		return "CIRCLE"
	default:
		return "RECTANGLE"
	}
}

// ParseShapeKind converts a shape tag from an input file to a ShapeKind.
// Matching is case-insensitive. Unknown tags are a configuration error.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RECTANGLE", "RECT":
		return Rectangle, nil
	case "TRIANGLE", "TRI":
		return Triangle, nil
	case "CIRCLE", "CIRC":
		return Circle, nil
	default:
		return Rectangle, fmt.Errorf("unknown shape tag %q", s)
	}
}

// Dimensions describes one orientation of a shape's bounding box.
type Dimensions struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Shape  ShapeKind `json:"shape"`
}

// Area returns the true shape area for this orientation. Triangles take
// half the box, circles inscribe in the shorter axis.
func (d Dimensions) Area() float64 {
	switch d.Shape {
	case Triangle:
		return d.Width * d.Height / 2
	case Circle:
		r := math.Min(d.Width, d.Height) / 2
		return math.Pi * r * r
	default:
		return d.Width * d.Height
	}
}

// Orientations returns the distinct axis-aligned orientations of the
// shape, in stable order: the base orientation first, then the swapped
// one when it differs. Circles never rotate.
func (d Dimensions) Orientations() []Dimensions {
	out := []Dimensions{d}
	if d.Shape != Circle && d.Width != d.Height {
		out = append(out, Dimensions{Width: d.Height, Height: d.Width, Shape: d.Shape})
	}
	return out
}

// Position is a container-local coordinate of a placement's bottom-left
// corner. The origin sits at the container's bottom-left.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fits reports whether a box of the given dimensions placed at pos lies
// fully inside the container.
func Fits(pos Position, dims Dimensions, c Container) bool {
	return pos.X >= 0 && pos.Y >= 0 &&
		pos.X+dims.Width <= c.Dims.Width &&
		pos.Y+dims.Height <= c.Dims.Height
}

// Item is one catalog entry to be packed. Identity is the numeric ID,
// which must be unique within a run.
type Item struct {
	ID    int        `json:"id"`
	Type  string     `json:"type"`
	Dims  Dimensions `json:"dims"`
	Price float64    `json:"price"`
}

// Container is a rectangular bin items are packed into. The catalog copy
// is never mutated; decoding works on per-decode ContainerResult values.
type Container struct {
	ID   int        `json:"id"`
	Dims Dimensions `json:"dims"`
}

// Area returns the container's total area.
func (c Container) Area() float64 {
	return c.Dims.Width * c.Dims.Height
}

// PlacedItem is an item bound to a position and orientation inside one
// container of one decode result.
type PlacedItem struct {
	Item     Item       `json:"item"`
	Position Position   `json:"position"`
	Dims     Dimensions `json:"dims"`
}

// Overlaps reports whether the bounding boxes of two placements share a
// non-zero area. Touching edges do not count.
func (p PlacedItem) Overlaps(other PlacedItem) bool {
	return p.Position.X < other.Position.X+other.Dims.Width &&
		p.Position.X+p.Dims.Width > other.Position.X &&
		p.Position.Y < other.Position.Y+other.Dims.Height &&
		p.Position.Y+p.Dims.Height > other.Position.Y
}

// ContainerResult is one container's state within a decode result. Placed
// holds the items in the order they were placed.
type ContainerResult struct {
	Container Container    `json:"container"`
	Placed    []PlacedItem `json:"placed"`
}

// UsedArea sums the true shape areas of the placed items.
func (cr ContainerResult) UsedArea() float64 {
	var total float64
	for _, p := range cr.Placed {
		total += p.Dims.Area()
	}
	return total
}

// Utilization returns usedArea / containerArea in [0, 1].
func (cr ContainerResult) Utilization() float64 {
	area := cr.Container.Area()
	if area == 0 {
		return 0
	}
	return cr.UsedArea() / area
}

// PackingResult is a fully decoded placement: every catalog item appears
// exactly once, either placed in a container or in UnplacedItems, and
// TotalPackedValue+TotalWastedValue equals the catalog's total price.
type PackingResult struct {
	Containers       []ContainerResult `json:"containers"`
	UnplacedItems    []Item            `json:"unplaced_items"`
	TotalPackedValue float64           `json:"total_packed_value"`
	TotalWastedValue float64           `json:"total_wasted_value"`
}

// PlacedCount returns the number of items placed across all containers.
func (r PackingResult) PlacedCount() int {
	n := 0
	for _, cr := range r.Containers {
		n += len(cr.Placed)
	}
	return n
}

// AverageUtilization is the mean utilization over containers that hold at
// least one item. Empty containers are excluded; if every container is
// empty the result is 0.
func (r PackingResult) AverageUtilization() float64 {
	var sum float64
	n := 0
	for _, cr := range r.Containers {
		if len(cr.Placed) == 0 {
			continue
		}
		sum += cr.Utilization()
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
