package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/critex/internal/criteria"
)

func TestLoadsFromText(t *testing.T) {
	text := `GENERAL NOTES
LIVE LOAD: 12.5 kPa ON WHARF DECK
CLASS 10 DECK PER AS 3962
DYNAMIC LOAD ALLOWANCE: 1.4`

	loads := LoadsFromText(text)
	require.Len(t, loads, 3)

	assert.Equal(t, criteria.LoadLive, loads[0].LoadKind)
	assert.InDelta(t, 12.5, loads[0].Magnitude, 1e-9)
	assert.Equal(t, "kPa", loads[0].Unit)
	assert.InDelta(t, patternConfidence, loads[0].Confidence, 1e-9)

	assert.Equal(t, criteria.LoadDead, loads[1].LoadKind)
	assert.InDelta(t, 10, loads[1].Magnitude, 1e-9)
	assert.Equal(t, "class", loads[1].Unit)

	assert.Equal(t, criteria.LoadOther, loads[2].LoadKind)
	assert.InDelta(t, 1.4, loads[2].Magnitude, 1e-9)
	assert.Equal(t, "factor", loads[2].Unit)
}

func TestLoadsFromTextCaseInsensitive(t *testing.T) {
	loads := LoadsFromText("live load 5kPa")
	require.Len(t, loads, 1)
	assert.InDelta(t, 5, loads[0].Magnitude, 1e-9)
}

func TestLoadsFromTextAlternateUnits(t *testing.T) {
	loads := LoadsFromText("LIVE LOAD 7.2 kN/m2")
	require.Len(t, loads, 1)
	assert.Equal(t, "kN/m2", loads[0].Unit)

	// Bare magnitudes without a recognized unit do not match.
	assert.Empty(t, LoadsFromText("LIVE LOAD 7.2 tons"))
}

func TestVehiclesFromText(t *testing.T) {
	vehicles := VehiclesFromText("DESIGN VEHICLE: 12.5+ 12.5+ 6.0t\nOTHER NOTE")
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Design vehicle: 12.5+ 12.5+ 6.0t", vehicles[0].Description)
	assert.Equal(t, "truck", vehicles[0].VehicleType)

	assert.Empty(t, VehiclesFromText("NO VEHICLES HERE"))
}

func TestCranesFromText(t *testing.T) {
	cranes := CranesFromText("DESIGN CRANE: 4.25m 4.75m OUTRIGGER SPACING")
	require.Len(t, cranes, 1)
	assert.Equal(t, "Design crane: 4.25m 4.75m OUTRIGGER SPACING", cranes[0].Description)
	assert.Equal(t, "mobile_crane", cranes[0].CraneType)

	assert.Empty(t, CranesFromText(""))
}
