package docai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/MeKo-Tech/critex/internal/geometry"
)

// Wire-level shapes of the service's JSON. The protocol encodes 64-bit
// integers as strings, so index fields use wireInt.

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type processResponse struct {
	Document wireDocument `json:"document"`
}

type wireDocument struct {
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	Pages      []wirePage   `json:"pages"`
	Entities   []wireEntity `json:"entities"`
}

type wirePage struct {
	PageNumber wireInt       `json:"pageNumber"`
	Dimension  wireDimension `json:"dimension"`
	Image      wireImage     `json:"image"`
	Tables     []wireTable   `json:"tables"`
}

type wireDimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type wireImage struct {
	Content  []byte  `json:"content"`
	MimeType string  `json:"mimeType"`
	Width    wireInt `json:"width"`
	Height   wireInt `json:"height"`
}

type wireTable struct {
	Layout     wireLayout     `json:"layout"`
	HeaderRows []wireTableRow `json:"headerRows"`
	BodyRows   []wireTableRow `json:"bodyRows"`
}

type wireTableRow struct {
	Cells []wireTableCell `json:"cells"`
}

type wireTableCell struct {
	Layout wireLayout `json:"layout"`
}

type wireLayout struct {
	TextAnchor   wireTextAnchor   `json:"textAnchor"`
	Confidence   float64          `json:"confidence"`
	BoundingPoly wireBoundingPoly `json:"boundingPoly"`
}

type wireTextAnchor struct {
	TextSegments []wireTextSegment `json:"textSegments"`
}

type wireTextSegment struct {
	StartIndex wireInt `json:"startIndex"`
	EndIndex   wireInt `json:"endIndex"`
}

type wireBoundingPoly struct {
	Vertices           []wireVertex `json:"vertices"`
	NormalizedVertices []wireVertex `json:"normalizedVertices"`
}

type wireVertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireEntity struct {
	Type        string         `json:"type"`
	MentionText string         `json:"mentionText"`
	Confidence  float64        `json:"confidence"`
	PageAnchor  wirePageAnchor `json:"pageAnchor"`
}

type wirePageAnchor struct {
	PageRefs []wirePageRef `json:"pageRefs"`
}

type wirePageRef struct {
	Page         wireInt          `json:"page"`
	BoundingPoly wireBoundingPoly `json:"boundingPoly"`
}

// wireInt accepts both JSON numbers and proto-style string-encoded ints.
type wireInt int

func (w *wireInt) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*w = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("docai: bad integer %q: %w", s, err)
		}
		*w = wireInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = wireInt(n)
	return nil
}

// decodeResponse converts the wire document into the internal Response.
// Missing or malformed sub-structures degrade to empty fields rather than
// failing the whole response.
func decodeResponse(raw []byte, processorVersion string) (*Response, error) {
	var pr processResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("docai: decoding response: %w", err)
	}
	doc := pr.Document

	resp := &Response{
		Text: doc.Text,
		// The document-level confidence is taken as reported, never
		// derived from the entities. Absent means 0.0.
		Confidence:       doc.Confidence,
		ProcessorVersion: processorVersion,
	}

	for i, wp := range doc.Pages {
		pageNum := int(wp.PageNumber)
		if pageNum <= 0 {
			pageNum = i + 1
		}
		resp.Pages = append(resp.Pages, Page{
			PageNumber: pageNum,
			Width:      wp.Dimension.Width,
			Height:     wp.Dimension.Height,
		})

		// encoding/json decodes []byte fields from base64 already.
		if len(wp.Image.Content) > 0 {
			resp.Images = append(resp.Images, ImageRef{
				ID:         fmt.Sprintf("page_%d_image", pageNum),
				PageNumber: pageNum,
				MIMEType:   wp.Image.MimeType,
				Data:       wp.Image.Content,
			})
		}

		for ti, wt := range wp.Tables {
			tbl := Table{
				ID:          fmt.Sprintf("page_%d_table_%d", pageNum, ti+1),
				PageNumber:  pageNum,
				Confidence:  wt.Layout.Confidence,
				BoundingBox: polyToBox(wt.Layout.BoundingPoly),
			}
			for _, row := range wt.HeaderRows {
				tbl.Headers = append(tbl.Headers, rowText(doc.Text, row)...)
			}
			for _, row := range wt.BodyRows {
				tbl.Rows = append(tbl.Rows, rowText(doc.Text, row))
			}
			resp.Tables = append(resp.Tables, tbl)
		}
	}

	for _, we := range doc.Entities {
		ent := Entity{
			Type:        we.Type,
			MentionText: we.MentionText,
			Confidence:  we.Confidence,
			PageNumber:  1,
		}
		if len(we.PageAnchor.PageRefs) > 0 {
			ref := we.PageAnchor.PageRefs[0]
			// Page refs are 0-based on the wire.
			ent.PageNumber = int(ref.Page) + 1
			ent.BoundingBox = polyToBox(ref.BoundingPoly)
		}
		resp.Entities = append(resp.Entities, ent)
	}
	return resp, nil
}

// polyToBox prefers normalized vertices, falling back to point-space ones.
func polyToBox(poly wireBoundingPoly) *geometry.BoundingBox {
	if len(poly.NormalizedVertices) > 0 {
		return geometry.FromVertices(toVertices(poly.NormalizedVertices), true)
	}
	if len(poly.Vertices) > 0 {
		return geometry.FromVertices(toVertices(poly.Vertices), false)
	}
	return nil
}

func toVertices(ws []wireVertex) []geometry.Vertex {
	vs := make([]geometry.Vertex, len(ws))
	for i, w := range ws {
		vs[i] = geometry.Vertex{X: w.X, Y: w.Y}
	}
	return vs
}

// rowText resolves each cell's text anchor against the full document text.
func rowText(text string, row wireTableRow) []string {
	cells := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		cells = append(cells, anchorText(text, c.Layout.TextAnchor))
	}
	return cells
}

func anchorText(text string, anchor wireTextAnchor) string {
	var out string
	for _, seg := range anchor.TextSegments {
		start, end := int(seg.StartIndex), int(seg.EndIndex)
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		out += text[start:end]
	}
	return out
}

// encodeDocument base64-encodes raw document bytes for the request body.
func encodeDocument(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
