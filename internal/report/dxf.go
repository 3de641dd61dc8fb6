package report

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/shapepack/internal/model"
)

// dxfGap is the horizontal spacing between container outlines in the drawing.
const dxfGap = 50.0

// ExportDXF writes the final packing as a DXF drawing. Containers are laid
// out side by side, each on its own layer, with every placed item drawn in
// its true geometry at its placed position.
func ExportDXF(path string, result model.PackingResult) error {
	if result.PlacedCount() == 0 {
		return fmt.Errorf("no placements to export")
	}

	d := dxf.NewDrawing()

	var xOffset float64
	for _, cr := range result.Containers {
		layer := fmt.Sprintf("BIN_%d", cr.Container.ID)
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", layer, err)
		}

		drawRect(d, xOffset, 0, cr.Container.Dims.Width, cr.Container.Dims.Height)

		for _, p := range cr.Placed {
			x := xOffset + p.Position.X
			y := p.Position.Y
			switch p.Dims.Shape {
			case model.Triangle:
				drawTriangle(d, x, y, p.Dims.Width, p.Dims.Height)
			case model.Circle:
				r := math.Min(p.Dims.Width, p.Dims.Height) / 2
				d.Circle(x+r, y+r, 0, r)
			default:
				drawRect(d, x, y, p.Dims.Width, p.Dims.Height)
			}
		}

		xOffset += cr.Container.Dims.Width + dxfGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save DXF: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four line entities.
func drawRect(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0, x+w, y, 0)
	d.Line(x+w, y, 0, x+w, y+h, 0)
	d.Line(x+w, y+h, 0, x, y+h, 0)
	d.Line(x, y+h, 0, x, y, 0)
}

// drawTriangle draws the rendered triangle geometry: base on the bottom
// edge of the bounding box, apex centered on the top edge.
func drawTriangle(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0, x+w, y, 0)
	d.Line(x+w, y, 0, x+w/2, y+h, 0)
	d.Line(x+w/2, y+h, 0, x, y, 0)
}
