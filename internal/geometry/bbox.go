package geometry

// BoundingBox locates an entity or image region on a document page.
// Coordinates are either normalized to [0,1] relative to the page, or
// absolute page points (1/72 inch), depending on which service field
// populated them. Normalized records which one.
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Normalized bool    `json:"normalized,omitempty"`
}

// Valid reports whether the box has positive extent.
func (b *BoundingBox) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0
}

// Vertex is a single polygon corner as reported by the extraction service.
type Vertex struct {
	X float64
	Y float64
}

// FromVertices builds the axis-aligned bounding box of a polygon.
// Returns nil for polygons with fewer than three corners or zero extent.
func FromVertices(vertices []Vertex, normalized bool) *BoundingBox {
	if len(vertices) < 3 {
		return nil
	}
	minX, minY := vertices[0].X, vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	box := &BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY, Normalized: normalized}
	if !box.Valid() {
		return nil
	}
	return box
}
