package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/shapepack/internal/model"
)

func sampleResult() model.PackingResult {
	rect := func(w, h float64) model.Dimensions {
		return model.Dimensions{Width: w, Height: h, Shape: model.Rectangle}
	}
	return model.PackingResult{
		Containers: []model.ContainerResult{
			{
				Container: model.Container{ID: 1, Dims: rect(100, 100)},
				Placed: []model.PlacedItem{
					{
						Item:     model.Item{ID: 1, Type: "panel", Dims: rect(40, 30), Price: 10},
						Position: model.Position{X: 0, Y: 0},
						Dims:     rect(40, 30),
					},
					{
						Item:     model.Item{ID: 2, Type: "panel", Dims: rect(40, 30), Price: 10},
						Position: model.Position{X: 40, Y: 0},
						Dims:     rect(40, 30),
					},
				},
			},
			{
				Container: model.Container{ID: 2, Dims: rect(80, 60)},
				Placed: []model.PlacedItem{
					{
						Item:     model.Item{ID: 3, Type: "disc", Dims: model.Dimensions{Width: 20, Height: 20, Shape: model.Circle}, Price: 5},
						Position: model.Position{X: 0, Y: 0},
						Dims:     model.Dimensions{Width: 20, Height: 20, Shape: model.Circle},
					},
				},
			},
		},
		UnplacedItems: []model.Item{
			{ID: 4, Type: "slab", Dims: rect(500, 500), Price: 99},
		},
		TotalPackedValue: 25,
		TotalWastedValue: 99,
	}
}

func TestBuild(t *testing.T) {
	rep := Build(sampleResult(), 123.45, "run-1", 42)

	assert.Equal(t, "run-1", rep.RunID)
	assert.Equal(t, 42, rep.Generations)
	assert.Equal(t, 123.45, rep.Fitness)
	assert.Equal(t, 25.0, rep.PackedValue)
	assert.Equal(t, 99.0, rep.WastedValue)
	assert.Equal(t, 1, rep.UnplacedItems)

	// Steps number from 1 across all bins, in placement order.
	require.Len(t, rep.Plan, 3)
	for i, step := range rep.Plan {
		assert.Equal(t, i+1, step.Step)
	}
	assert.Equal(t, 1, rep.Plan[0].ItemID)
	assert.Equal(t, 1, rep.Plan[0].BinID)
	assert.Equal(t, 40.0, rep.Plan[1].X)
	assert.Equal(t, 3, rep.Plan[2].ItemID)
	assert.Equal(t, 2, rep.Plan[2].BinID)
	assert.Equal(t, "CIRCLE", rep.Plan[2].Shape)

	require.Len(t, rep.Bins, 2)
	assert.Equal(t, 2, rep.Bins[0].ItemsCount)
	assert.InDelta(t, 24.0, rep.Bins[0].Utilization, 1e-9)
}

func TestReport_WriteJSON(t *testing.T) {
	rep := Build(sampleResult(), 123.45, "run-1", 42)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, 42.0, decoded["generations"])

	plan, ok := decoded["plan"].([]any)
	require.True(t, ok)
	require.Len(t, plan, 3)
	first, ok := plan[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, first["step"])
	assert.Equal(t, "RECTANGLE", first["shape"])
}

func TestReport_WriteText(t *testing.T) {
	rep := Build(sampleResult(), 123.45, "run-1", 42)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "OPTIMIZATION FINISHED")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "Unplaced items: 1")
	assert.Contains(t, out, "Bin 1: 2 items")
}

func TestCollectLabelInfos(t *testing.T) {
	infos := CollectLabelInfos(sampleResult())

	require.Len(t, infos, 3)
	assert.Equal(t, 1, infos[0].ItemID)
	assert.Equal(t, 1, infos[0].BinID)
	assert.Equal(t, "CIRCLE", infos[2].Shape)
	assert.Equal(t, 2, infos[2].BinID)
}

func TestExportPDF(t *testing.T) {
	result := sampleResult()
	rep := Build(result, 123.45, "run-1", 42)
	path := filepath.Join(t.TempDir(), "layout.pdf")

	require.NoError(t, ExportPDF(path, result, rep))
	assert.FileExists(t, path)
}

func TestExportLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, sampleResult()))
	assert.FileExists(t, path)
}

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")
	require.NoError(t, ExportDXF(path, sampleResult()))
	assert.FileExists(t, path)
}

func TestExportExcel(t *testing.T) {
	rep := Build(sampleResult(), 123.45, "run-1", 42)
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	require.NoError(t, ExportExcel(path, rep))
	assert.FileExists(t, path)
}
