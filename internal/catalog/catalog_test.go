package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/shapepack/internal/model"
)

const sampleInput = `{
	"items": [
		{"id": 1, "type": "panel", "width": 40, "height": 30, "shape": "rectangle", "price": 10},
		{"id": 2, "type": "gusset", "width": 20, "height": 20, "shape": "triangle", "price": 5},
		{"id": 3, "type": "disc", "width": 15, "height": 15, "shape": "circle", "price": 7.5}
	],
	"bins": [
		{"id": 1, "width": 100, "height": 100},
		{"id": 2, "width": 80, "height": 60}
	]
}`

func TestParseJSON(t *testing.T) {
	cat, err := ParseJSON([]byte(sampleInput))
	require.NoError(t, err)

	require.Len(t, cat.Items, 3)
	require.Len(t, cat.Containers, 2)

	assert.Equal(t, 1, cat.Items[0].ID)
	assert.Equal(t, "panel", cat.Items[0].Type)
	assert.Equal(t, model.Rectangle, cat.Items[0].Dims.Shape)
	assert.Equal(t, model.Triangle, cat.Items[1].Dims.Shape)
	assert.Equal(t, model.Circle, cat.Items[2].Dims.Shape)

	assert.Equal(t, 100.0, cat.Containers[0].Dims.Width)
	assert.Equal(t, model.Rectangle, cat.Containers[0].Dims.Shape)

	assert.InDelta(t, 22.5, cat.TotalValue(), 1e-9)
}

func TestParseJSON_UnknownShapeIsFatal(t *testing.T) {
	in := `{"items":[{"id":1,"type":"x","width":10,"height":10,"shape":"hexagon","price":1}],"bins":[{"id":1,"width":50,"height":50}]}`
	_, err := ParseJSON([]byte(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"items": [`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	item := func(id int) model.Item {
		return model.Item{
			ID:    id,
			Type:  "panel",
			Dims:  model.Dimensions{Width: 10, Height: 10, Shape: model.Rectangle},
			Price: 1,
		}
	}
	bin := model.Container{ID: 1, Dims: model.Dimensions{Width: 100, Height: 100, Shape: model.Rectangle}}

	t.Run("empty items", func(t *testing.T) {
		err := Validate(Catalog{Containers: []model.Container{bin}})
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("no containers", func(t *testing.T) {
		err := Validate(Catalog{Items: []model.Item{item(1)}})
		assert.ErrorIs(t, err, ErrNoContainers)
	})

	t.Run("duplicate item id", func(t *testing.T) {
		err := Validate(Catalog{
			Items:      []model.Item{item(1), item(1)},
			Containers: []model.Container{bin},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate item id 1")
	})

	t.Run("non-positive dimensions", func(t *testing.T) {
		bad := item(1)
		bad.Dims.Width = 0
		err := Validate(Catalog{Items: []model.Item{bad}, Containers: []model.Container{bin}})
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		bad := item(1)
		bad.Price = -1
		err := Validate(Catalog{Items: []model.Item{bad}, Containers: []model.Container{bin}})
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		err := Validate(Catalog{
			Items:      []model.Item{item(1), item(2)},
			Containers: []model.Container{bin},
		})
		assert.NoError(t, err)
	})
}

func TestDemo(t *testing.T) {
	cat := Demo()
	require.NoError(t, Validate(cat))
	assert.Len(t, cat.Containers, 4)
	assert.NotEmpty(t, cat.Items)

	// The demo catalog is deterministic.
	again := Demo()
	assert.Equal(t, cat, again)
}

func TestRandom_Reproducible(t *testing.T) {
	a := Random(30, 3, 7)
	b := Random(30, 3, 7)
	require.NoError(t, Validate(a))
	assert.Equal(t, a, b)

	c := Random(30, 3, 8)
	assert.NotEqual(t, a, c, "different seeds should give different catalogs")
}
