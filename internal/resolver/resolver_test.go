package resolver

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/critex/internal/criteria"
	"github.com/MeKo-Tech/critex/internal/docai"
	"github.com/MeKo-Tech/critex/internal/geometry"
)

type fakePages struct {
	raster   image.Image
	failPage int
}

func (f *fakePages) Page(pageNumber int) (image.Image, error) {
	if pageNumber == f.failPage {
		return nil, errors.New("render failed")
	}
	return f.raster, nil
}

func (f *fakePages) PageSize(int) (float64, float64, error) {
	return 595, 842, nil
}

func testRaster(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestResolveEntitiesWritesCrops(t *testing.T) {
	dir := t.TempDir()
	r := New(&fakePages{raster: testRaster(1190, 1684)}, dir, quietLogger())

	entities := []docai.Entity{
		{
			Type:        "VERTICAL_LIVE_LOADS",
			MentionText: "LIVE LOAD 12.5 kPa",
			PageNumber:  1,
			BoundingBox: &geometry.BoundingBox{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.1, Normalized: true},
		},
		{
			Type:        "SEISMIC_FORCES",
			MentionText: "ZONE 4",
			PageNumber:  1,
			BoundingBox: &geometry.BoundingBox{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.1, Normalized: true},
		},
	}

	images, err := r.ResolveEntities(entities, nil)
	require.NoError(t, err)
	require.Len(t, images, 2)

	first := images[0]
	assert.Equal(t, "vertical_live_loads_image_1", first.ID)
	assert.Equal(t, criteria.SourceServiceCrop, first.Source)
	assert.InDelta(t, 1.0, first.Confidence, 1e-9)
	assert.Equal(t, "LIVE LOAD 12.5 kPa", first.Description)

	for _, img := range images {
		info, err := os.Stat(filepath.Join(dir, img.Path))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestResolveEntitiesSkipsMissingBoxes(t *testing.T) {
	dir := t.TempDir()
	r := New(&fakePages{raster: testRaster(400, 400)}, dir, quietLogger())

	images, err := r.ResolveEntities([]docai.Entity{
		{Type: "TITLE_BLOCK", MentionText: "no box", PageNumber: 1},
		{Type: "BEAM", MentionText: "zero box", PageNumber: 1, BoundingBox: &geometry.BoundingBox{}},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, images)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveEntitiesContinuesOnFailure(t *testing.T) {
	dir := t.TempDir()
	r := New(&fakePages{raster: testRaster(400, 400), failPage: 2}, dir, quietLogger())

	box := &geometry.BoundingBox{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2, Normalized: true}
	images, err := r.ResolveEntities([]docai.Entity{
		{Type: "WIND_LOADS", MentionText: "a", PageNumber: 2, BoundingBox: box},
		{Type: "WIND_LOADS", MentionText: "b", PageNumber: 1, BoundingBox: box},
	}, nil)
	require.NoError(t, err)

	// The failing page costs one entity, not the batch.
	require.Len(t, images, 1)
	assert.Equal(t, "b", images[0].Description)
}

func TestResolveEntitiesNeverWritesEmptyRegions(t *testing.T) {
	dir := t.TempDir()
	r := New(&fakePages{raster: testRaster(400, 400)}, dir, quietLogger())

	// Box entirely outside the page clamps to nothing.
	images, err := r.ResolveEntities([]docai.Entity{
		{
			Type:        "BEAM",
			MentionText: "off page",
			PageNumber:  1,
			BoundingBox: &geometry.BoundingBox{X: 3, Y: 3, Width: 0.5, Height: 0.5, Normalized: true},
		},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, images)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveEntitiesPreferServicePageSize(t *testing.T) {
	dir := t.TempDir()
	r := New(&fakePages{raster: testRaster(1224, 1584)}, dir, quietLogger())

	resp := &docai.Response{Pages: []docai.Page{{PageNumber: 1, Width: 612, Height: 792}}}
	images, err := r.ResolveEntities([]docai.Entity{
		{
			Type:        "DESIGN_CRANE",
			MentionText: "4.25m",
			PageNumber:  1,
			BoundingBox: &geometry.BoundingBox{X: 61.2, Y: 79.2, Width: 122.4, Height: 79.2},
		},
	}, resp)
	require.NoError(t, err)
	require.Len(t, images, 1)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "LIVE_LOAD_125_kPa", sanitize("LIVE LOAD 12.5 kPa"))
	assert.Equal(t, "abc-def_1", sanitize("abc-def/|\\_1"))
	long := sanitize("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	assert.Len(t, long, 30)
}
