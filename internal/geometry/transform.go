package geometry

import (
	"errors"
	"image"
	"math"
)

// Reference page size in PDF points (A4 portrait), used when the service
// response does not report page geometry.
const (
	RefPageWidthPt  = 595.0
	RefPageHeightPt = 842.0
)

// DefaultBufferPx is the pixel margin applied around computed crop
// rectangles so tightly-fitted boxes keep their surrounding context.
const DefaultBufferPx = 10

// ErrEmptyRegion indicates the transformed rectangle collapsed to zero
// area after clamping; callers must skip cropping for such boxes.
var ErrEmptyRegion = errors.New("geometry: region is empty after clamping")

// Transformer converts page-space bounding boxes into pixel rectangles on
// a rasterized page image.
type Transformer struct {
	// BufferPx is added on every side before clamping. Negative values
	// are treated as zero.
	BufferPx int
}

// NewTransformer returns a Transformer with the default crop buffer.
func NewTransformer() Transformer {
	return Transformer{BufferPx: DefaultBufferPx}
}

// PixelRect maps box onto a raster of rasterW x rasterH pixels.
//
// Normalized boxes scale directly with the raster size. Point-space boxes
// scale by min(rasterW/pageW, rasterH/pageH) so the aspect ratio of the
// original page geometry is preserved. When the page size is unknown
// (pageW or pageH <= 0) the A4 reference size substitutes and degraded is
// reported true so callers can note the reduced confidence.
//
// The returned rectangle includes the buffer and is clamped to the raster
// bounds; ErrEmptyRegion is returned when nothing remains.
func (t Transformer) PixelRect(box *BoundingBox, rasterW, rasterH int, pageW, pageH float64) (image.Rectangle, bool, error) {
	if !box.Valid() {
		return image.Rectangle{}, false, ErrEmptyRegion
	}
	if rasterW <= 0 || rasterH <= 0 {
		return image.Rectangle{}, false, ErrEmptyRegion
	}

	var left, top, right, bottom float64
	degraded := false
	if box.Normalized {
		left = box.X * float64(rasterW)
		top = box.Y * float64(rasterH)
		right = (box.X + box.Width) * float64(rasterW)
		bottom = (box.Y + box.Height) * float64(rasterH)
	} else {
		if pageW <= 0 || pageH <= 0 {
			pageW, pageH = RefPageWidthPt, RefPageHeightPt
			degraded = true
		}
		scale := math.Min(float64(rasterW)/pageW, float64(rasterH)/pageH)
		left = box.X * scale
		top = box.Y * scale
		right = (box.X + box.Width) * scale
		bottom = (box.Y + box.Height) * scale
	}

	buffer := t.BufferPx
	if buffer < 0 {
		buffer = 0
	}
	x0 := clamp(int(math.Floor(left))-buffer, 0, rasterW)
	y0 := clamp(int(math.Floor(top))-buffer, 0, rasterH)
	x1 := clamp(int(math.Ceil(right))+buffer, 0, rasterW)
	y1 := clamp(int(math.Ceil(bottom))+buffer, 0, rasterH)

	if x1 <= x0 || y1 <= y0 {
		return image.Rectangle{}, degraded, ErrEmptyRegion
	}
	return image.Rect(x0, y0, x1, y1), degraded, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
