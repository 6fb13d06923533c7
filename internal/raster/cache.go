package raster

import (
	"image"
	"sync"
)

// PageCache memoizes page renders so a page shared by many entities is
// rasterized once per job. Safe for concurrent use; render errors are not
// cached, so a transient failure can be retried on the next request.
type PageCache struct {
	renderer Renderer

	mu    sync.Mutex
	pages map[int]image.Image
}

// NewPageCache wraps a renderer with per-page memoization.
func NewPageCache(renderer Renderer) *PageCache {
	return &PageCache{
		renderer: renderer,
		pages:    make(map[int]image.Image),
	}
}

// Page returns the cached raster for pageNumber, rendering on first use.
func (c *PageCache) Page(pageNumber int) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.pages[pageNumber]; ok {
		return img, nil
	}
	img, err := c.renderer.RenderPage(pageNumber)
	if err != nil {
		return nil, err
	}
	c.pages[pageNumber] = img
	return img, nil
}

// PageSize proxies to the underlying renderer.
func (c *PageCache) PageSize(pageNumber int) (w, h float64, err error) {
	return c.renderer.PageSize(pageNumber)
}

// PageCount proxies to the underlying renderer.
func (c *PageCache) PageCount() int {
	return c.renderer.PageCount()
}

// Len reports how many pages are currently cached.
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}
