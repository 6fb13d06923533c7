package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/critex/internal/criteria"
)

// patternConfidence is assigned to records recovered from free text,
// lower than typical entity confidences since no model vouched for them.
const patternConfidence = 0.8

var (
	liveLoadRe    = regexp.MustCompile(`(?i)LIVE\s+LOAD[:\s]*(\d+(?:\.\d+)?)\s*(kPa|kN/m²|kN/m2)`)
	deckClassRe   = regexp.MustCompile(`(?i)CLASS\s+(\d+)\s+DECK`)
	dynamicLoadRe = regexp.MustCompile(`(?i)DYNAMIC\s+LOAD\s+ALLOWANCE[:\s]*(\d+(?:\.\d+)?)`)
	vehicleRe     = regexp.MustCompile(`(?i)DESIGN\s+VEHICLE[:\s]*([^.\n]+)`)
	craneRe       = regexp.MustCompile(`(?i)DESIGN\s+CRANE[:\s]*([^.\n]+)`)
)

// LoadsFromText scans free document text for load statements the entity
// model missed. Matches keep their order of appearance.
func LoadsFromText(text string) []criteria.Load {
	var loads []criteria.Load

	for _, m := range liveLoadRe.FindAllStringSubmatch(text, -1) {
		mag, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		loads = append(loads, criteria.Load{
			Attributes: criteria.Attributes{
				Description: fmt.Sprintf("Live load: %s %s", m[1], m[2]),
				Confidence:  patternConfidence,
			},
			LoadKind:  criteria.LoadLive,
			Magnitude: mag,
			Unit:      m[2],
		})
	}

	for _, m := range deckClassRe.FindAllStringSubmatch(text, -1) {
		mag, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		loads = append(loads, criteria.Load{
			Attributes: criteria.Attributes{
				Description: fmt.Sprintf("Class %s deck load", m[1]),
				Confidence:  patternConfidence,
			},
			LoadKind:  criteria.LoadDead,
			Magnitude: mag,
			Unit:      "class",
		})
	}

	for _, m := range dynamicLoadRe.FindAllStringSubmatch(text, -1) {
		mag, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		loads = append(loads, criteria.Load{
			Attributes: criteria.Attributes{
				Description: fmt.Sprintf("Dynamic load allowance: %s", m[1]),
				Confidence:  patternConfidence,
			},
			LoadKind:  criteria.LoadOther,
			Magnitude: mag,
			Unit:      "factor",
		})
	}

	return loads
}

// VehiclesFromText scans free text for design vehicle statements.
func VehiclesFromText(text string) []criteria.DesignVehicle {
	var vehicles []criteria.DesignVehicle
	for _, m := range vehicleRe.FindAllStringSubmatch(text, -1) {
		spec := strings.TrimSpace(m[1])
		if spec == "" {
			continue
		}
		vehicles = append(vehicles, criteria.DesignVehicle{
			Attributes: criteria.Attributes{
				Description: "Design vehicle: " + spec,
				Confidence:  patternConfidence,
			},
			VehicleType: "truck",
			Unit:        "t",
		})
	}
	return vehicles
}

// CranesFromText scans free text for design crane statements.
func CranesFromText(text string) []criteria.DesignCrane {
	var cranes []criteria.DesignCrane
	for _, m := range craneRe.FindAllStringSubmatch(text, -1) {
		spec := strings.TrimSpace(m[1])
		if spec == "" {
			continue
		}
		cranes = append(cranes, criteria.DesignCrane{
			Attributes: criteria.Attributes{
				Description: "Design crane: " + spec,
				Confidence:  patternConfidence,
			},
			CraneType: "mobile_crane",
			Unit:      "m",
		})
	}
	return cranes
}
