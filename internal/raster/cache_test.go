package raster

import (
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer counts renders so tests can assert memoization.
type fakeRenderer struct {
	mu      sync.Mutex
	renders map[int]int
	fail    map[int]bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{renders: make(map[int]int), fail: make(map[int]bool)}
}

func (f *fakeRenderer) PageCount() int { return 5 }

func (f *fakeRenderer) RenderPage(pageNumber int) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders[pageNumber]++
	if f.fail[pageNumber] {
		return nil, errors.New("render failed")
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (f *fakeRenderer) PageSize(int) (float64, float64, error) { return 595, 842, nil }
func (f *fakeRenderer) Close() error                           { return nil }

func (f *fakeRenderer) renderCount(page int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renders[page]
}

func TestPageCacheRendersOnce(t *testing.T) {
	fr := newFakeRenderer()
	cache := NewPageCache(fr)

	first, err := cache.Page(2)
	require.NoError(t, err)
	second, err := cache.Page(2)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, fr.renderCount(2))
	assert.Equal(t, 1, cache.Len())
}

func TestPageCacheDistinctPages(t *testing.T) {
	fr := newFakeRenderer()
	cache := NewPageCache(fr)

	_, err := cache.Page(1)
	require.NoError(t, err)
	_, err = cache.Page(3)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 1, fr.renderCount(1))
	assert.Equal(t, 1, fr.renderCount(3))
}

func TestPageCacheDoesNotCacheErrors(t *testing.T) {
	fr := newFakeRenderer()
	fr.fail[4] = true
	cache := NewPageCache(fr)

	_, err := cache.Page(4)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// A later attempt renders again instead of replaying the failure.
	fr.fail[4] = false
	_, err = cache.Page(4)
	require.NoError(t, err)
	assert.Equal(t, 2, fr.renderCount(4))
}

func TestPageCacheConcurrentAccess(t *testing.T) {
	fr := newFakeRenderer()
	cache := NewPageCache(fr)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Page(1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fr.renderCount(1))
}

func TestParsePageFromFilename(t *testing.T) {
	page, err := parsePageFromFilename("page_3_image_1.png")
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = parsePageFromFilename("thumbnail.png")
	assert.Error(t, err)

	_, err = parsePageFromFilename("page_x_image_1.png")
	assert.Error(t, err)
}
