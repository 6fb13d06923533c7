// Package classifier maps service entities onto typed engineering-domain
// records. Classification is a pure function of the entity: the same input
// always yields the same records, in the same order.
package classifier

import (
	"strings"

	"github.com/MeKo-Tech/critex/internal/criteria"
	"github.com/MeKo-Tech/critex/internal/docai"
)

// loadTagKinds is the exact mapping table for load-bearing entity tags.
var loadTagKinds = map[string]criteria.LoadKind{
	"BERTHING_LOADS":      criteria.LoadOther,
	"MOORING_LOADS":       criteria.LoadOther,
	"VERTICAL_DEAD_LOADS": criteria.LoadDead,
	"VERTICAL_LIVE_LOADS": criteria.LoadLive,
	"WIND_LOADS":          criteria.LoadWind,
}

// Coarse keyword sets for tags outside the exact table. Membership is
// checked on the exact upper-case tag, not a substring.
var genericCategories = map[string]criteria.GenericCategory{
	"BEAM":               criteria.CategoryStructural,
	"COLUMN":             criteria.CategoryStructural,
	"SLAB":               criteria.CategoryStructural,
	"WALL":               criteria.CategoryStructural,
	"FOUNDATION":         criteria.CategoryStructural,
	"STRUCTURAL_ELEMENT": criteria.CategoryStructural,

	"MATERIAL":      criteria.CategoryMaterial,
	"STEEL":         criteria.CategoryMaterial,
	"CONCRETE":      criteria.CategoryMaterial,
	"WOOD":          criteria.CategoryMaterial,
	"ALUMINUM":      criteria.CategoryMaterial,
	"MATERIAL_SPEC": criteria.CategoryMaterial,

	"SAFETY_FACTOR":      criteria.CategorySafety,
	"FACTOR_OF_SAFETY":   criteria.CategorySafety,
	"SAFETY_MARGIN":      criteria.CategorySafety,
	"SAFETY_COEFFICIENT": criteria.CategorySafety,

	"WIND_LOAD":               criteria.CategoryEnvironmental,
	"SNOW_LOAD":               criteria.CategoryEnvironmental,
	"TEMPERATURE":             criteria.CategoryEnvironmental,
	"HUMIDITY":                criteria.CategoryEnvironmental,
	"ENVIRONMENTAL_CONDITION": criteria.CategoryEnvironmental,
}

// Markers that delimit the sections of a composite DESIGN_CRITERIA block.
// The crane section historically ends at a truncated allowance heading, so
// the end marker is deliberately shorter than the full phrase.
const (
	markerVehicle   = "DESIGN VEHICLE:"
	markerCrane     = "DESIGN CRANE:"
	markerCraneStop = "DYNAMIC LOAD ALLOWAN"
)

// Classifier turns entities into records. The zero value is ready to use.
type Classifier struct{}

// New returns a Classifier.
func New() *Classifier { return &Classifier{} }

// Classify maps one entity onto zero or more typed records. Unrecognized
// tags yield nil; the caller keeps the raw entity for diagnostics either
// way. Composite DESIGN_CRITERIA entities may produce both a vehicle and a
// crane record from a single mention.
func (c *Classifier) Classify(ent docai.Entity) []criteria.Record {
	attrs := criteria.Attributes{
		Description: ent.MentionText,
		Confidence:  ent.Confidence,
		PageNumber:  ent.PageNumber,
		BoundingBox: ent.BoundingBox,
	}

	if kind, ok := loadTagKinds[ent.Type]; ok {
		return []criteria.Record{criteria.Load{Attributes: attrs, LoadKind: kind}}
	}

	switch ent.Type {
	case "SEISMIC_FORCES":
		return []criteria.Record{criteria.SeismicForce{Attributes: attrs}}
	case "DESIGN_VEHICLE":
		return []criteria.Record{criteria.DesignVehicle{Attributes: attrs}}
	case "DESIGN_CRANE":
		return []criteria.Record{criteria.DesignCrane{Attributes: attrs}}
	case "DESIGN_CRITERIA":
		return c.splitComposite(ent, attrs)
	}

	if cat, ok := genericCategories[ent.Type]; ok {
		return []criteria.Record{criteria.GenericTag{
			Attributes: attrs,
			Category:   cat,
			Tag:        strings.ToLower(ent.Type),
			Text:       ent.MentionText,
		}}
	}
	return nil
}

// splitComposite pulls vehicle and crane sections out of a composite
// design-criteria block. Both records inherit the composite's confidence
// and location, since the service anchored only the block as a whole.
func (c *Classifier) splitComposite(ent docai.Entity, attrs criteria.Attributes) []criteria.Record {
	text := ent.MentionText
	var records []criteria.Record

	if _, after, ok := strings.Cut(text, markerVehicle); ok {
		section, _, _ := strings.Cut(after, markerCrane)
		if section = strings.TrimSpace(section); section != "" {
			va := attrs
			va.Description = section
			records = append(records, criteria.DesignVehicle{Attributes: va})
		}
	}

	if _, after, ok := strings.Cut(text, markerCrane); ok {
		section, _, _ := strings.Cut(after, markerCraneStop)
		if section = strings.TrimSpace(section); section != "" {
			ca := attrs
			ca.Description = section
			records = append(records, criteria.DesignCrane{Attributes: ca})
		}
	}

	return records
}

// ClassifyAll runs Classify over every entity, preserving entity order.
func (c *Classifier) ClassifyAll(entities []docai.Entity) []criteria.Record {
	var records []criteria.Record
	for _, ent := range entities {
		records = append(records, c.Classify(ent)...)
	}
	return records
}
