// Package raster renders document pages to pixels and recovers embedded
// raster content from PDFs. It backs the crop pipeline: entity regions are
// cut out of page renders produced here.
package raster

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the render resolution for page rasters. Crops inherit it,
// so it also bounds the quality of every extracted region.
const DefaultDPI = 300.0

// Renderer produces page rasters and page geometry. Page numbers are
// 1-based throughout.
type Renderer interface {
	PageCount() int
	RenderPage(pageNumber int) (image.Image, error)
	// PageSize reports the page extent in PDF points.
	PageSize(pageNumber int) (w, h float64, err error)
	Close() error
}

// FitzRenderer renders pages with MuPDF via go-fitz.
type FitzRenderer struct {
	doc *fitz.Document
	dpi float64
}

// OpenDocument opens a PDF file for rendering.
func OpenDocument(path string) (*FitzRenderer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("raster: opening %s: %w", path, err)
	}
	return &FitzRenderer{doc: doc, dpi: DefaultDPI}, nil
}

// OpenDocumentBytes opens an in-memory PDF for rendering.
func OpenDocumentBytes(data []byte) (*FitzRenderer, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("raster: opening document from memory: %w", err)
	}
	return &FitzRenderer{doc: doc, dpi: DefaultDPI}, nil
}

// PageCount returns the number of pages in the document.
func (r *FitzRenderer) PageCount() int {
	return r.doc.NumPage()
}

// RenderPage rasterizes the page at the renderer's DPI.
func (r *FitzRenderer) RenderPage(pageNumber int) (image.Image, error) {
	if pageNumber < 1 || pageNumber > r.doc.NumPage() {
		return nil, fmt.Errorf("raster: page %d out of range 1..%d", pageNumber, r.doc.NumPage())
	}
	img, err := r.doc.ImageDPI(pageNumber-1, r.dpi)
	if err != nil {
		return nil, fmt.Errorf("raster: rendering page %d: %w", pageNumber, err)
	}
	return img, nil
}

// PageSize reports the page media box in points.
func (r *FitzRenderer) PageSize(pageNumber int) (w, h float64, err error) {
	if pageNumber < 1 || pageNumber > r.doc.NumPage() {
		return 0, 0, fmt.Errorf("raster: page %d out of range 1..%d", pageNumber, r.doc.NumPage())
	}
	bounds, err := r.doc.Bound(pageNumber - 1)
	if err != nil {
		return 0, 0, fmt.Errorf("raster: measuring page %d: %w", pageNumber, err)
	}
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

// Close releases the underlying document.
func (r *FitzRenderer) Close() error {
	return r.doc.Close()
}
