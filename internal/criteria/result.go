package criteria

import (
	"time"

	"github.com/MeKo-Tech/critex/internal/geometry"
)

// ImageSource tags how a ResolvedImage was obtained, so consumers can tell
// real service imagery, entity crops, and whole-page fallbacks apart
// without inspecting file sizes.
type ImageSource string

const (
	SourceServiceNative  ImageSource = "service_native"
	SourceServiceCrop    ImageSource = "service_bbox_crop"
	SourceRasterFallback ImageSource = "document_raster_fallback"
)

// ResolvedImage is a final image artifact associated with a page or entity.
// Every entry in a terminal result has real pixel data behind Path; images
// that could not be produced are dropped, never replaced by placeholders.
type ResolvedImage struct {
	ID          string                `json:"id"`
	PageNumber  int                   `json:"page_number"`
	BoundingBox *geometry.BoundingBox `json:"bounding_box,omitempty"`
	Source      ImageSource           `json:"source"`
	Confidence  float64               `json:"confidence"`
	Path        string                `json:"path"`
	Description string                `json:"description,omitempty"`
}

// Table is an extracted table structure.
type Table struct {
	ID          string                `json:"id"`
	PageNumber  int                   `json:"page_number"`
	Headers     []string              `json:"headers,omitempty"`
	Rows        [][]string            `json:"rows,omitempty"`
	BoundingBox *geometry.BoundingBox `json:"bounding_box,omitempty"`
	Confidence  float64               `json:"confidence"`
}

// RawEntity is the diagnostic passthrough of a service entity, retained
// even when classification produced no typed record for it.
type RawEntity struct {
	Type        string                `json:"type"`
	Text        string                `json:"text"`
	Confidence  float64               `json:"confidence"`
	PageNumber  int                   `json:"page_number,omitempty"`
	BoundingBox *geometry.BoundingBox `json:"bounding_box,omitempty"`
}

// Metadata describes the processed document. It is populated for every
// completed job, including jobs that extracted nothing.
type Metadata struct {
	Filename         string        `json:"filename"`
	FileSize         int64         `json:"file_size"`
	PageCount        int           `json:"page_count"`
	ProcessorVersion string        `json:"processor_version,omitempty"`
	ProcessedAt      time.Time     `json:"processed_at"`
	Duration         time.Duration `json:"duration_ns"`
}

// Result is the complete set of design criteria extracted from one
// document. A zero-record Result is valid; absence of a record type is a
// silent outcome, not an error.
type Result struct {
	Loads         []Load          `json:"loads"`
	SeismicForces []SeismicForce  `json:"seismic_forces"`
	Vehicles      []DesignVehicle `json:"design_vehicles"`
	Cranes        []DesignCrane   `json:"design_cranes"`
	GenericTags   []GenericTag    `json:"generic_tags"`
	Tables        []Table         `json:"tables"`
	Images        []ResolvedImage `json:"images"`
	RawEntities   []RawEntity     `json:"raw_entities"`
	Metadata      Metadata        `json:"metadata"`
	RawText       string          `json:"raw_text,omitempty"`

	// ConfidenceScore is the document-level confidence reported by the
	// extraction service, 0.0 when the service omitted it. Informational
	// only; it does not gate completion.
	ConfidenceScore float64 `json:"confidence_score"`
}

// Add appends a classified record to the matching typed slice.
func (r *Result) Add(rec Record) {
	switch v := rec.(type) {
	case Load:
		r.Loads = append(r.Loads, v)
	case SeismicForce:
		r.SeismicForces = append(r.SeismicForces, v)
	case DesignVehicle:
		r.Vehicles = append(r.Vehicles, v)
	case DesignCrane:
		r.Cranes = append(r.Cranes, v)
	case GenericTag:
		r.GenericTags = append(r.GenericTags, v)
	}
}

// RecordCount returns the number of typed records across all variants.
func (r *Result) RecordCount() int {
	return len(r.Loads) + len(r.SeismicForces) + len(r.Vehicles) + len(r.Cranes) + len(r.GenericTags)
}
