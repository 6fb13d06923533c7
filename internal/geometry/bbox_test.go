package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxValid(t *testing.T) {
	assert.True(t, (&BoundingBox{Width: 1, Height: 1}).Valid())
	assert.False(t, (&BoundingBox{Width: 0, Height: 1}).Valid())
	assert.False(t, (&BoundingBox{Width: 1, Height: -2}).Valid())

	var nilBox *BoundingBox
	assert.False(t, nilBox.Valid())
}

func TestFromVertices(t *testing.T) {
	box := FromVertices([]Vertex{
		{X: 10, Y: 20}, {X: 110, Y: 20}, {X: 110, Y: 70}, {X: 10, Y: 70},
	}, false)
	require.NotNil(t, box)
	assert.InDelta(t, 10, box.X, 1e-9)
	assert.InDelta(t, 20, box.Y, 1e-9)
	assert.InDelta(t, 100, box.Width, 1e-9)
	assert.InDelta(t, 50, box.Height, 1e-9)
	assert.False(t, box.Normalized)
}

func TestFromVerticesUnordered(t *testing.T) {
	// Corner order does not matter; the hull is axis-aligned min/max.
	box := FromVertices([]Vertex{
		{X: 0.9, Y: 0.5}, {X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.1, Y: 0.5},
	}, true)
	require.NotNil(t, box)
	assert.InDelta(t, 0.1, box.X, 1e-9)
	assert.InDelta(t, 0.8, box.Width, 1e-9)
	assert.True(t, box.Normalized)
}

func TestFromVerticesDegenerate(t *testing.T) {
	assert.Nil(t, FromVertices(nil, false))
	assert.Nil(t, FromVertices([]Vertex{{X: 1, Y: 1}, {X: 2, Y: 2}}, false))
	// Collinear corners collapse to zero extent.
	assert.Nil(t, FromVertices([]Vertex{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}, false))
}
