package criteria

import "github.com/MeKo-Tech/critex/internal/geometry"

// RecordKind identifies the variant of a classified record.
type RecordKind string

const (
	KindLoad          RecordKind = "load"
	KindSeismicForce  RecordKind = "seismic_force"
	KindDesignVehicle RecordKind = "design_vehicle"
	KindDesignCrane   RecordKind = "design_crane"
	KindGenericTag    RecordKind = "generic_tag"
)

// LoadKind sub-classifies a Load record.
type LoadKind string

const (
	LoadDead        LoadKind = "dead_load"
	LoadLive        LoadKind = "live_load"
	LoadWind        LoadKind = "wind_load"
	LoadSnow        LoadKind = "snow_load"
	LoadSeismic     LoadKind = "seismic_load"
	LoadHydrostatic LoadKind = "hydrostatic_load"
	LoadWave        LoadKind = "wave_load"
	LoadImpact      LoadKind = "impact_load"
	LoadThermal     LoadKind = "thermal_load"
	LoadOther       LoadKind = "other"
)

// GenericCategory is the coarse category assigned to tags that are not
// covered by the exact mapping table but match a known keyword set.
type GenericCategory string

const (
	CategoryStructural    GenericCategory = "structural_element"
	CategoryMaterial      GenericCategory = "material_spec"
	CategorySafety        GenericCategory = "safety_factor"
	CategoryEnvironmental GenericCategory = "environmental_condition"
)

// Attributes carries the provenance fields shared by every record variant:
// free-text description, extraction confidence, and the page location the
// source entity was anchored to.
type Attributes struct {
	Description string                `json:"description,omitempty"`
	Confidence  float64               `json:"confidence"`
	PageNumber  int                   `json:"page_number,omitempty"`
	BoundingBox *geometry.BoundingBox `json:"bounding_box,omitempty"`
}

// Attrs returns the shared attributes; embedding Attributes satisfies the
// Record interface's accessor.
func (a Attributes) Attrs() Attributes { return a }

// Record is a typed engineering-domain record derived from one entity.
type Record interface {
	Kind() RecordKind
	Attrs() Attributes
}

// Load is a design load specification (vertical, wind, berthing, ...).
type Load struct {
	Attributes
	LoadKind  LoadKind `json:"load_kind"`
	Magnitude float64  `json:"magnitude"`
	Unit      string   `json:"unit,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Location  string   `json:"location,omitempty"`
}

func (Load) Kind() RecordKind { return KindLoad }

// SeismicForce captures seismic design parameters.
type SeismicForce struct {
	Attributes
	SeismicZone             string  `json:"seismic_zone,omitempty"`
	AccelerationCoefficient float64 `json:"acceleration_coefficient,omitempty"`
	ImportanceFactor        float64 `json:"importance_factor,omitempty"`
	BaseShear               float64 `json:"base_shear,omitempty"`
	Unit                    string  `json:"unit,omitempty"`
}

func (SeismicForce) Kind() RecordKind { return KindSeismicForce }

// DesignVehicle is the governing vehicle specification for a structure.
type DesignVehicle struct {
	Attributes
	VehicleType string    `json:"vehicle_type,omitempty"`
	AxleLoads   []float64 `json:"axle_loads,omitempty"`
	TotalWeight float64   `json:"total_weight,omitempty"`
	Wheelbase   float64   `json:"wheelbase,omitempty"`
	Unit        string    `json:"unit,omitempty"`
}

func (DesignVehicle) Kind() RecordKind { return KindDesignVehicle }

// DesignCrane is the governing crane specification for a structure.
type DesignCrane struct {
	Attributes
	CraneType  string  `json:"crane_type,omitempty"`
	Capacity   float64 `json:"capacity,omitempty"`
	BoomLength float64 `json:"boom_length,omitempty"`
	Radius     float64 `json:"radius,omitempty"`
	Unit       string  `json:"unit,omitempty"`
}

func (DesignCrane) Kind() RecordKind { return KindDesignCrane }

// GenericTag retains entities whose tag is not in the exact mapping table
// but matches one of the coarse category keyword sets.
type GenericTag struct {
	Attributes
	Category GenericCategory `json:"category"`
	Tag      string          `json:"tag"`
	Text     string          `json:"text"`
}

func (GenericTag) Kind() RecordKind { return KindGenericTag }
