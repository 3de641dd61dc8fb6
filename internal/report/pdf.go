package report

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/shapepack/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 255, G: 99, B: 71},   // red
	{R: 100, G: 149, B: 237}, // blue
	{R: 144, G: 238, B: 144}, // green
	{R: 255, G: 165, B: 0},   // orange
	{R: 147, G: 112, B: 219}, // purple
	{R: 255, G: 192, B: 203}, // pink
	{R: 255, G: 215, B: 0},   // gold
	{R: 64, G: 224, B: 208},  // turquoise
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document of the final packing. Each container
// is rendered on its own page with the placed shapes drawn to scale,
// followed by a summary page.
func ExportPDF(path string, result model.PackingResult, rep Report) error {
	if result.PlacedCount() == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colors := colorsByType(result)
	for _, cr := range result.Containers {
		pdf.AddPage()
		renderContainerPage(pdf, cr, colors)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, rep)

	return pdf.OutputFileAndClose(path)
}

// colorsByType assigns one stable color per item type, in first-seen order.
func colorsByType(result model.PackingResult) map[string]itemColor {
	colors := make(map[string]itemColor)
	next := 0
	assign := func(t string) {
		if _, ok := colors[t]; !ok {
			colors[t] = itemColors[next%len(itemColors)]
			next++
		}
	}
	for _, cr := range result.Containers {
		for _, p := range cr.Placed {
			assign(p.Item.Type)
		}
	}
	for _, it := range result.UnplacedItems {
		assign(it.Type)
	}
	return colors
}

// renderContainerPage draws a single container's layout on the current page.
func renderContainerPage(pdf *fpdf.Fpdf, cr model.ContainerResult, colors map[string]itemColor) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Bin %d (%.0f x %.0f)", cr.Container.ID, cr.Container.Dims.Width, cr.Container.Dims.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used area: %.0f | Utilization: %.1f%%",
		len(cr.Placed), cr.UsedArea(), cr.Utilization()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	scale := math.Min(drawWidth/cr.Container.Dims.Width, drawHeight/cr.Container.Dims.Height)
	canvasW := cr.Container.Dims.Width * scale
	canvasH := cr.Container.Dims.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container boundary
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(80, 80, 80)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range cr.Placed {
		col := colors[p.Item.Type]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)

		px := offsetX + p.Position.X*scale
		py := offsetY + p.Position.Y*scale
		pw := p.Dims.Width * scale
		ph := p.Dims.Height * scale

		drawShape(pdf, p.Dims.Shape, px, py, pw, ph)

		// Item id label when the box is large enough
		if pw > 8 && ph > 6 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("%d", p.Item.ID)
			labelW := pdf.GetStringWidth(label)
			pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
	}
}

// drawShape renders a placement's true geometry inside its bounding box.
func drawShape(pdf *fpdf.Fpdf, kind model.ShapeKind, x, y, w, h float64) {
	switch kind {
	case model.Triangle:
		pdf.Polygon([]fpdf.PointType{
			{X: x, Y: y + h},
			{X: x + w, Y: y + h},
			{X: x + w/2, Y: y},
		}, "FD")
	case model.Circle:
		r := math.Min(w, h) / 2
		pdf.Circle(x+r, y+r, r, "FD")
	default:
		pdf.Rect(x, y, w, h, "FD")
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackingResult, rep Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Best Fitness", fmt.Sprintf("%.2f", rep.Fitness)},
		{"Packed Value", fmt.Sprintf("$%.2f", rep.PackedValue)},
		{"Wasted Value", fmt.Sprintf("$%.2f", rep.WastedValue)},
		{"Items Placed", fmt.Sprintf("%d", result.PlacedCount())},
		{"Unplaced Items", fmt.Sprintf("%d", rep.UnplacedItems)},
		{"Generations", fmt.Sprintf("%d", rep.Generations)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-container breakdown table
	colWidths := []float64{25, 50, 35, 40}
	headers := []string{"Bin", "Dimensions", "Items", "Utilization"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, cr := range result.Containers {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", cr.Container.ID),
			fmt.Sprintf("%.0f x %.0f", cr.Container.Dims.Width, cr.Container.Dims.Height),
			fmt.Sprintf("%d", len(cr.Placed)),
			fmt.Sprintf("%.1f%%", cr.Utilization()*100),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4,
		fmt.Sprintf("Generated by shapepack - run %s", rep.RunID), "", 0, "C", false, 0, "")
}
