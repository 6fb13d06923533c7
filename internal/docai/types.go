package docai

import (
	"context"

	"github.com/MeKo-Tech/critex/internal/geometry"
)

// Entity is a tagged span of recognized text. Type is an open vocabulary
// controlled by the upstream processor configuration; consumers must
// tolerate tags they have never seen.
type Entity struct {
	Type        string
	MentionText string
	Confidence  float64
	PageNumber  int // 1-based; 1 when the service omitted the anchor
	BoundingBox *geometry.BoundingBox
}

// Page carries the geometry the service reported for one document page.
// Width/Height are in page points and may be zero when unreported.
type Page struct {
	PageNumber int
	Width      float64
	Height     float64
}

// Table is a table structure recognized by the service.
type Table struct {
	ID          string
	PageNumber  int
	Headers     []string
	Rows        [][]string
	BoundingBox *geometry.BoundingBox
	Confidence  float64
}

// ImageRef is an image signal the service returned natively. Data holds
// the raw encoded pixel payload and may be empty or a synthetic render;
// the reconciler decides whether the entry qualifies as real imagery.
type ImageRef struct {
	ID          string
	PageNumber  int
	BoundingBox *geometry.BoundingBox
	Confidence  float64
	MIMEType    string
	Data        []byte
}

// Response is the structured output of one service call. Any field may be
// empty; an empty Images list does not imply the document has no visual
// content.
type Response struct {
	Text             string
	Pages            []Page
	Entities         []Entity
	Tables           []Table
	Images           []ImageRef
	Confidence       float64
	ProcessorVersion string
}

// PageSize returns the reported point-space size of the given page, or
// ok=false when the service did not report it.
func (r *Response) PageSize(pageNumber int) (w, h float64, ok bool) {
	for _, p := range r.Pages {
		if p.PageNumber == pageNumber && p.Width > 0 && p.Height > 0 {
			return p.Width, p.Height, true
		}
	}
	return 0, 0, false
}

// Client is the boundary to the document-understanding service: raw bytes
// and a mime type in, structured entities out. Implementations perform no
// retries; failures surface to the caller as-is.
type Client interface {
	Process(ctx context.Context, document []byte, mimeType string) (*Response, error)
}
